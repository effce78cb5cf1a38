package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	sectionGap  = 4 // Space after every section
	spacerSize  = 6
	titleSize   = 16
	valueColumn = 50 // Room right of a bar for its value text
)

var centerLineColor = rl.Color{R: 80, G: 80, B: 80, A: 255}

// Renderer draws descriptor-driven panels with one theme.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// fieldHeight is the vertical space a field takes.
func (r *Renderer) fieldHeight(w WidgetType) int32 {
	switch w {
	case WidgetBar, WidgetCenteredBar:
		return r.Theme.LineHeight + 2
	case WidgetSpacer:
		return spacerSize
	}
	return r.Theme.LineHeight
}

// visible reports whether an optional predicate allows drawing.
func visible(pred func(any) bool, data any) bool {
	return pred == nil || pred(data)
}

// panelHeight measures a panel with the same rules DrawPanelDescriptor lays it out by.
func (r *Renderer) panelHeight(pd PanelDescriptor, data any) int32 {
	h := 2 * r.Theme.Padding
	if pd.Title != "" {
		h += r.Theme.LineHeight + 4
	}
	for _, sd := range pd.Sections {
		if !visible(sd.Visible, data) {
			continue
		}
		if sd.Title != "" {
			h += r.Theme.LineHeight
		}
		for _, fd := range sd.Fields {
			if visible(fd.Visible, data) {
				h += r.fieldHeight(fd.Widget)
			}
		}
		h += sectionGap
	}
	return h
}

// DrawPanelDescriptor renders a full panel at (x, y) and returns its height.
func (r *Renderer) DrawPanelDescriptor(x, y int32, pd PanelDescriptor, data any) int32 {
	t := r.Theme
	height := r.panelHeight(pd, data)
	r.DrawPanel(x, y, pd.Width, height)

	cy := y + t.Padding
	if pd.Title != "" {
		rl.DrawText(pd.Title, x+t.Padding, cy, titleSize, rl.White)
		cy += t.LineHeight + 4
	}
	for _, sd := range pd.Sections {
		cy = r.DrawSection(x+t.Padding, cy, sd, data, pd.Width-2*t.Padding)
	}
	return height
}

// DrawSection renders a section header and its visible fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if !visible(sd.Visible, data) {
		return y
	}
	if sd.Title != "" {
		rl.DrawText(sd.Title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += r.Theme.LineHeight
	}
	for _, fd := range sd.Fields {
		if !visible(fd.Visible, data) {
			continue
		}
		r.DrawField(x, y, fd, data, width)
		y += r.fieldHeight(fd.Widget)
	}
	return y + sectionGap
}

// DrawField renders one field at (x, y).
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) {
	t := r.Theme

	value := float32(0)
	if fd.Getter != nil {
		value = fd.Getter(data)
	}

	switch fd.Widget {
	case WidgetText:
		text := ""
		switch {
		case fd.TextGetter != nil:
			text = fd.TextGetter(data)
		case fd.Getter != nil:
			text = fmt.Sprintf(fd.Format, value)
		}
		r.drawLabel(x, y, fd.Label)
		rl.DrawText(text, x+t.LabelWidth, y, t.FontSize, t.ValueColor)

	case WidgetBar:
		r.drawBar(x, y, fd.Label, clampUnit(value), width)

	case WidgetCenteredBar:
		r.drawCenteredBar(x, y, fd.Label, value, fd.Range, width)

	case WidgetColorSwatch:
		color := fd.Color
		if fd.ColorGetter != nil {
			color = fd.ColorGetter(data)
		}
		r.drawLabel(x, y, fd.Label)
		rl.DrawRectangle(x+t.LabelWidth, y+1, 12, 12, color)

	case WidgetSection:
		rl.DrawText(fd.Label, x, y, t.HeaderFontSize, t.SectionHeader)
	}
}

func (r *Renderer) drawLabel(x, y int32, label string) {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
}

// barTrack draws the label and empty track of a bar and returns the track.
func (r *Renderer) barTrack(x, y int32, label string, width int32) (int32, int32) {
	t := r.Theme
	barX := x + t.LabelWidth
	barWidth := width - t.LabelWidth - valueColumn
	r.drawLabel(x, y, label)
	rl.DrawRectangle(barX, y+2, barWidth, t.BarHeight, t.BarBg)
	return barX, barWidth
}

// drawBar draws a bar filled left to right for a value in [0, 1].
func (r *Renderer) drawBar(x, y int32, label string, value float32, width int32) {
	t := r.Theme
	barX, barWidth := r.barTrack(x, y, label, width)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*value), t.BarHeight, t.BarFill)
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, t.FontSize, t.ValueColor)
}

// drawCenteredBar draws a bar filled from the midpoint of rng toward value.
func (r *Renderer) drawCenteredBar(x, y int32, label string, value float32, rng FieldRange, width int32) {
	t := r.Theme
	barX, barWidth := r.barTrack(x, y, label, width)

	centerX := barX + barWidth/2
	rl.DrawLine(centerX, y+2, centerX, y+2+t.BarHeight, centerLineColor)

	offset := centeredOffset(value, rng)
	fill := int32(float32(barWidth/2) * abs32(offset))
	if offset < 0 {
		rl.DrawRectangle(centerX-fill, y+2, fill, t.BarHeight, t.BarFillNegative)
	} else {
		rl.DrawRectangle(centerX, y+2, fill, t.BarHeight, t.BarFillPositive)
	}
	rl.DrawText(fmt.Sprintf("%+.2f", value), barX+barWidth+5, y, t.FontSize, t.ValueColor)
}

// centeredOffset maps value onto [-1, 1] around the midpoint of rng.
// An empty range maps everything to 0.
func centeredOffset(value float32, rng FieldRange) float32 {
	half := (rng.Max - rng.Min) / 2
	if !(half > 0) {
		return 0
	}
	off := (value - (rng.Min + half)) / half
	switch {
	case off < -1:
		return -1
	case off > 1:
		return 1
	case math.IsNaN(float64(off)):
		return 0
	}
	return off
}

func clampUnit(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	case math.IsNaN(float64(v)):
		return 0
	}
	return v
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
