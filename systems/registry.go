package systems

// System IDs, shared by the perf collector and the UI. They name the phases
// of one tick in execution order.
const (
	SystemActuation  = "actuation"
	SystemPhysics    = "physics"
	SystemGeneration = "generation"
	SystemTelemetry  = "telemetry"
)

// SystemInfo describes a tick phase for display.
type SystemInfo struct {
	ID          string
	Name        string
	Description string
}

// tickPhases lists every phase of a tick. Telemetry only runs on the tick a
// reset fires.
var tickPhases = []SystemInfo{
	{ID: SystemActuation, Name: "Actuation", Description: "Steps every blob network"},
	{ID: SystemPhysics, Name: "Physics", Description: "Applies output forces and moves blobs"},
	{ID: SystemGeneration, Name: "Generation", Description: "Counts down and culls/resamples the population"},
	{ID: SystemTelemetry, Name: "Telemetry", Description: "Records the committed generation"},
}

// SystemRegistry is the ordered set of tick phases, so the perf collector
// and the perf panel list them the same way.
type SystemRegistry struct {
	systems []SystemInfo
}

// NewSystemRegistry creates a registry with every tick phase.
func NewSystemRegistry() *SystemRegistry {
	return &SystemRegistry{systems: append([]SystemInfo(nil), tickPhases...)}
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	for _, info := range r.systems {
		if info.ID == id {
			return info, true
		}
	}
	return SystemInfo{}, false
}

// GetName returns the display name for a system ID, or the ID itself.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.Get(id); ok {
		return info.Name
	}
	return id
}

// IDs returns all system IDs in tick order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
