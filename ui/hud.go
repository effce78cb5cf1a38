package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blobs/neural"
	"github.com/pthm-cable/blobs/systems"
	"github.com/pthm-cable/blobs/telemetry"
)

// Network diagram size.
const (
	networkWidth  = 240
	networkHeight = 200
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Tick         int32
	Generation   int
	Remaining    float64 // Seconds until the next reset
	Population   int
	Survived     int
	Diversity    int
	SurvivalRate float64
	Speed        int // Ticks per frame
	MaxSpeed     int
	FPS          int32
	Paused       bool
	Halted       bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUDActions reports which HUD buttons were clicked this frame.
type HUDActions struct {
	TogglePause bool
	SpeedUp     bool
	SlowDown    bool
	ResetCamera bool
	Speed       int // New ticks per frame from the slider, 0 = unchanged
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	perf     *PerfPanel
	controls *ControlsPanel
	overlays *OverlayRegistry
	gen      PanelDescriptor
}

// NewHUD creates a new HUD renderer.
func NewHUD(registry *systems.SystemRegistry) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		perf:     NewPerfPanel(10, 110, registry),
		controls: NewControlsPanel(10, 110, 220),
		overlays: NewOverlayRegistry(),
		gen:      GenerationPanel(),
	}
}

// Overlays returns the overlay toggle state.
func (h *HUD) Overlays() *OverlayRegistry {
	return h.overlays
}

// ToggleControls shows or hides the overlay list.
func (h *HUD) ToggleControls() {
	h.controls.Toggle()
}

// StatusLine returns the second HUD line.
func StatusLine(data HUDData) string {
	return fmt.Sprintf("Gen %d | Next reset %.1fs | Survived %d/%d (%.0f%%) | Diversity %d",
		data.Generation, data.Remaining, data.Survived, data.Population, data.SurvivalRate*100, data.Diversity)
}

// Draw renders the HUD and its buttons.
func (h *HUD) Draw(data HUDData) HUDActions {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)
	rl.DrawText(StatusLine(data), 10, 35, 16, rl.LightGray)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	statusColor := rl.Yellow
	switch {
	case data.Halted:
		statusText = "EXTINCT - halted"
		statusColor = rl.Red
	case data.Paused:
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, statusColor)

	// Buttons along the top right
	var act HUDActions
	bx := float32(data.ScreenWidth) - 4*90 - 10
	pauseLabel := "Pause"
	if data.Paused {
		pauseLabel = "Resume"
	}
	act.TogglePause = gui.Button(rl.Rectangle{X: bx, Y: 10, Width: 80, Height: 26}, pauseLabel)
	act.SlowDown = gui.Button(rl.Rectangle{X: bx + 90, Y: 10, Width: 80, Height: 26}, "Slower")
	act.SpeedUp = gui.Button(rl.Rectangle{X: bx + 180, Y: 10, Width: 80, Height: 26}, "Faster")
	act.ResetCamera = gui.Button(rl.Rectangle{X: bx + 270, Y: 10, Width: 80, Height: 26}, "Camera")

	if data.MaxSpeed > 1 {
		v := gui.SliderBar(
			rl.Rectangle{X: bx + 40, Y: 44, Width: 270, Height: 16},
			"Speed", fmt.Sprintf("%dx", data.Speed),
			float32(data.Speed), 1, float32(data.MaxSpeed),
		)
		if speed := int(v + 0.5); speed != data.Speed {
			act.Speed = speed
		}
	}

	return act
}

// DrawPanels renders the toggleable panels on the right and left edges.
func (h *HUD) DrawPanels(data HUDData, gen GenerationView, perf telemetry.PerfStats, blob *BlobView, p neural.Params) {
	y := h.controls.Draw(h.overlays) + 6
	if h.overlays.IsEnabled(OverlayPerf) {
		h.perf.SetPosition(10, y)
		h.perf.Draw(perf)
	}

	rx := data.ScreenWidth - h.gen.Width - 10
	ry := int32(46)
	if h.overlays.IsEnabled(OverlayGeneration) {
		ry += h.renderer.DrawPanelDescriptor(rx, ry, h.gen, gen) + 6
	}
	if blob != nil && h.overlays.IsEnabled(OverlayBlobDetails) {
		pd := BlobPanel(p.OutputClamp)
		h.renderer.DrawPanelDescriptor(data.ScreenWidth-pd.Width-10, ry, pd, *blob)
	}
	if blob != nil && h.overlays.IsEnabled(OverlayNetwork) {
		// Bottom left, above the controls legend
		DrawNetworkDiagram(10, data.ScreenHeight-networkHeight-35, networkWidth, networkHeight,
			blob.Blob, blob.Force, p.WeightRange, p.OutputClamp)
	}
}

// Captures reports whether a screen point lies over the HUD buttons, so
// clicks there are not treated as scene picks.
func (h *HUD) Captures(p rl.Vector2, screenWidth int32) bool {
	strip := rl.Rectangle{X: float32(screenWidth) - 4*90 - 10, Y: 0, Width: 4*90 + 10, Height: 66}
	return rl.CheckCollisionPointRec(p, strip)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase performance panel.
type PerfPanel struct {
	renderer *Renderer
	registry *systems.SystemRegistry
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32, registry *systems.SystemRegistry) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		registry: registry,
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel in registry order.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("System Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s (%.0f/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond),
		x, y, 14, rl.Yellow)
	y += 16

	for _, id := range p.registry.IDs() {
		avg := stats.PhaseAvg[id]
		pct := stats.PhasePct[id]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", p.registry.GetName(id), avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
