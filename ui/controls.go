package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Toggle row colors
var (
	toggleOn  = rl.Color{R: 100, G: 200, B: 100, A: 255}
	toggleOff = rl.Color{R: 80, G: 80, B: 80, A: 255}
	keyColor  = rl.Color{R: 150, G: 150, B: 150, A: 255}
	rowHover  = rl.Color{R: 255, G: 255, B: 255, A: 20}
)

// ControlsPanel lists the overlays by category. Rows are clickable and show
// the key that toggles them.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// rows counts the header and toggle lines of the panel.
func (c *ControlsPanel) rows(overlays *OverlayRegistry) int32 {
	var n int32
	for _, cat := range overlays.Categories() {
		n += 1 + int32(len(overlays.ByCategory(cat)))
	}
	return n
}

// Draw renders the panel, toggles any clicked row, and returns the Y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	t := c.renderer.Theme
	height := (c.rows(overlays)+1)*t.LineHeight + t.Padding*3
	c.renderer.DrawPanel(c.x, c.y, c.width, height)

	x := c.x + t.Padding
	y := c.y + t.Padding
	rl.DrawText("Overlays", x, y, 16, rl.White)
	y += t.LineHeight + 4

	mouse := rl.GetMousePosition()
	clicked := rl.IsMouseButtonPressed(rl.MouseButtonLeft)
	rowWidth := c.width - 2*t.Padding

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), x, y, t.HeaderFontSize, t.SectionHeader)
		y += t.LineHeight

		for _, desc := range overlays.ByCategory(category) {
			row := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(rowWidth), Height: float32(t.LineHeight)}
			if rl.CheckCollisionPointRec(mouse, row) {
				rl.DrawRectangleRec(row, rowHover)
				if clicked {
					overlays.Toggle(desc.ID)
				}
			}
			c.drawRow(x, y, rowWidth, desc, overlays.IsEnabled(desc.ID))
			y += t.LineHeight
		}
		y += 4
	}

	return c.y + height
}

// drawRow draws one overlay line: status square, name and key.
func (c *ControlsPanel) drawRow(x, y, width int32, desc OverlayDescriptor, enabled bool) {
	t := c.renderer.Theme

	status, name := toggleOff, t.LabelColor
	if enabled {
		status, name = toggleOn, rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, status)
	rl.DrawText(desc.Name, x+14, y, t.FontSize, name)

	if desc.KeyLabel == "" {
		return
	}
	key := fmt.Sprintf("[%s]", desc.KeyLabel)
	rl.DrawText(key, x+width-rl.MeasureText(key, t.FontSize), y, t.FontSize, keyColor)
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "scene":
		return "Scene"
	case "panels":
		return "Panels"
	}
	return cat
}
