package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blobs/renderer"
	"github.com/pthm-cable/blobs/ui"
)

const controlsHelp = "[Space] Pause  [,/.] Speed  [RMB] Orbit  [Wheel] Zoom  [Arrows] Pan  [Home] Camera  [LMB] Select  [Tab] Overlays"

// Draw renders the game state.
func (g *Game) Draw() {
	if g.scene == nil {
		return
	}
	g.perfCollector.RecordFrame()

	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	overlays := g.hud.Overlays()

	rl.BeginDrawing()
	g.background.Draw(w, h)

	cam := renderer.Camera3D(g.camera)
	g.scene.Begin(cam)

	if overlays.IsEnabled(ui.OverlayGrid) {
		g.scene.DrawGrid()
	}
	if overlays.IsEnabled(ui.OverlayBounds) {
		g.scene.DrawBounds()
	}

	radius := g.cfg.Population.Spacing
	drawForces := overlays.IsEnabled(ui.OverlayForces)
	var selected *ui.BlobView

	query := g.blobFilter.Query()
	for query.Next() {
		pos, _, force, tint, tag := query.Get()
		isSelected := g.hasSelection && tag.ID == g.selectedID
		if isSelected {
			selected = &ui.BlobView{
				ID:     tag.ID,
				Pos:    pos.Vec,
				Force:  force.Force,
				Tint:   *tint,
				Blob:   g.blobs[tag.ID],
				InZone: g.generation.Zone().Contains(pos.Vec),
			}
		}

		// Skip blobs outside the view
		if !g.camera.IsVisible(pos.Vec, radius) {
			continue
		}
		g.scene.DrawBlob(pos.Vec, *tint, isSelected)
		if drawForces {
			g.scene.DrawForce(pos.Vec, force.Force)
		}
	}

	if overlays.IsEnabled(ui.OverlaySafeZone) {
		g.scene.DrawSafeZone()
	}
	g.scene.End()

	// The selected blob died in a reset
	if selected == nil || selected.Blob == nil {
		g.hasSelection = false
		selected = nil
	}

	data := g.hudData(w, h)
	g.applyActions(g.hud.Draw(data))

	gen := ui.GenerationView{
		Record:    g.lastRecord,
		Remaining: g.Remaining(),
		Period:    g.cfg.Generation.Period,
	}
	g.hud.DrawPanels(data, gen, g.perfCollector.Stats(), selected, g.params)
	g.hud.DrawControls(w, h, controlsHelp)

	rl.EndDrawing()
}

// hudData gathers the HUD numbers for this frame.
func (g *Game) hudData(w, h int32) ui.HUDData {
	m := g.Metrics()
	return ui.HUDData{
		Title:        "Blobs",
		Tick:         g.tick,
		Generation:   m.Generation,
		Remaining:    g.Remaining(),
		Population:   m.Population,
		Survived:     m.Survived,
		Diversity:    m.Diversity,
		SurvivalRate: m.SurvivalRate,
		Speed:        g.stepsPerUpdate,
		MaxSpeed:     maxStepsPerUpdate,
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		Halted:       g.halted,
		ScreenWidth:  w,
		ScreenHeight: h,
	}
}

// applyActions applies the HUD buttons clicked this frame.
func (g *Game) applyActions(act ui.HUDActions) {
	if act.TogglePause {
		g.paused = !g.paused
	}
	if act.SpeedUp {
		g.speedUp()
	}
	if act.SlowDown {
		g.slowDown()
	}
	if act.Speed > 0 {
		g.stepsPerUpdate = min(act.Speed, maxStepsPerUpdate)
	}
	if act.ResetCamera {
		g.camera.Reset()
	}
}
