package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/blobs/renderer"
)

// maxStepsPerUpdate bounds the speed-up keys and buttons.
const maxStepsPerUpdate = 10

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	if g.hud == nil {
		return
	}

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.slowDown()
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.speedUp()
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		g.hud.ToggleControls()
	}
	g.hud.Overlays().HandleKeyPresses()

	g.handleCameraInput()
	g.handleSelection()
}

func (g *Game) speedUp() {
	if g.stepsPerUpdate < maxStepsPerUpdate {
		g.stepsPerUpdate++
	}
}

func (g *Game) slowDown() {
	if g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
}

// handleCameraInput processes orbit, pan and zoom controls.
func (g *Game) handleCameraInput() {
	if g.camera == nil {
		return
	}

	// Right drag orbits around the target
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.camera.Rotate(-float64(d.X)*0.005, float64(d.Y)*0.005)
	}

	// Pan speed scales with distance for natural feel
	panSpeed := g.camera.Distance * 0.01

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, -panSpeed)
	}

	// Zoom controls: mouse wheel or +/- keys
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// handleSelection picks the blob under the cursor on left click.
func (g *Game) handleSelection() {
	if g.scene == nil || !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	if g.hud.Captures(mouse, int32(rl.GetScreenWidth())) {
		return
	}

	ids := make([]uint32, 0, len(g.blobs))
	positions := make([]r3.Vec, 0, len(g.blobs))
	query := g.blobFilter.Query()
	for query.Next() {
		pos, _, _, _, tag := query.Get()
		ids = append(ids, tag.ID)
		positions = append(positions, pos.Vec)
	}

	i := g.scene.Pick(mouse, renderer.Camera3D(g.camera), positions)
	if i < 0 {
		g.hasSelection = false
		return
	}
	g.selectedID = ids[i]
	g.hasSelection = true
}
