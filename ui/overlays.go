package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlaySafeZone    OverlayID = "safe_zone"
	OverlayGrid        OverlayID = "grid"
	OverlayBounds      OverlayID = "bounds"
	OverlayForces      OverlayID = "forces"
	OverlayGeneration  OverlayID = "generation"
	OverlayPerf        OverlayID = "perf"
	OverlayBlobDetails OverlayID = "blob_details"
	OverlayNetwork     OverlayID = "network"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID // Unique identifier
	Name        string    // Display name
	Description string    // What this overlay shows
	Key         int32     // Keyboard key to toggle (0 = no key)
	KeyLabel    string    // Key label for display (e.g., "S", "V")
	Category    string    // Grouping (e.g., "scene", "panels")
	Default     bool      // Enabled at startup
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds standard overlays.
func (r *OverlayRegistry) registerDefaults() {
	// Scene overlays
	r.Register(OverlayDescriptor{
		ID:          OverlaySafeZone,
		Name:        "Safe Zone",
		Description: "Wireframe of the survival cuboid",
		Key:         rl.KeyZ,
		KeyLabel:    "Z",
		Category:    "scene",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayGrid,
		Name:        "Ground Grid",
		Description: "Reference grid on the y=0 plane",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "scene",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayBounds,
		Name:        "World Bounds",
		Description: "Wireframe of the world walls",
		Key:         rl.KeyB,
		KeyLabel:    "B",
		Category:    "scene",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayForces,
		Name:        "Force Vectors",
		Description: "Line along each blob's output force",
		Key:         rl.KeyF,
		KeyLabel:    "F",
		Category:    "scene",
	})

	// Panels
	r.Register(OverlayDescriptor{
		ID:          OverlayGeneration,
		Name:        "Generation",
		Description: "Countdown and last reset metrics",
		Key:         rl.KeyI,
		KeyLabel:    "I",
		Category:    "panels",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Performance",
		Description: "Per-phase tick timing",
		Key:         rl.KeyP,
		KeyLabel:    "P",
		Category:    "panels",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayBlobDetails,
		Name:        "Blob Inspector",
		Description: "Genome and state of the selected blob",
		Key:         rl.KeyN,
		KeyLabel:    "N",
		Category:    "panels",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayNetwork,
		Name:        "Network Graph",
		Description: "Connection diagram of the selected blob",
		Key:         rl.KeyV,
		KeyLabel:    "V",
		Category:    "panels",
		Default:     true,
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPresses toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeyPresses() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}
