package ui

import (
	"math"
	"testing"
)

func TestCenteredOffset(t *testing.T) {
	rng := FieldRange{Min: -2, Max: 2}
	tests := []struct {
		name  string
		value float32
		want  float32
	}{
		{"midpoint", 0, 0},
		{"max", 2, 1},
		{"min", -2, -1},
		{"half", 1, 0.5},
		{"above clamps", 10, 1},
		{"below clamps", -10, -1},
		{"nan", float32(math.NaN()), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := centeredOffset(tt.value, rng); got != tt.want {
				t.Errorf("centeredOffset(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}

	if got := centeredOffset(5, FieldRange{Min: 1, Max: 1}); got != 0 {
		t.Errorf("empty range offset = %v, want 0", got)
	}
	// Off-center range: midpoint of [0, 10] is 5
	if got := centeredOffset(7.5, FieldRange{Min: 0, Max: 10}); got != 0.5 {
		t.Errorf("offset in [0, 10] = %v, want 0.5", got)
	}
}

func TestPanelHeightSkipsHiddenRows(t *testing.T) {
	r := NewRenderer()
	lh := r.Theme.LineHeight
	hidden := func(any) bool { return false }

	pd := PanelDescriptor{
		Title: "T",
		Sections: []SectionDescriptor{
			{Title: "A", Fields: []FieldDescriptor{
				{Widget: WidgetText},
				{Widget: WidgetBar},
				{Widget: WidgetSpacer},
				{Widget: WidgetText, Visible: hidden},
			}},
			{Title: "B", Visible: hidden, Fields: []FieldDescriptor{{Widget: WidgetText}}},
		},
	}

	// padding, title, section A header, text, bar, spacer, gap
	want := 2*r.Theme.Padding + (lh + 4) + lh + lh + (lh + 2) + spacerSize + sectionGap
	if got := r.panelHeight(pd, nil); got != want {
		t.Errorf("panelHeight = %d, want %d", got, want)
	}
}

func TestBlobPanelRows(t *testing.T) {
	pd := BlobPanel(1)

	var output, state, genome int
	for _, sd := range pd.Sections {
		switch sd.ID {
		case "output":
			output = len(sd.Fields)
		case "state":
			state = len(sd.Fields)
		case "genome":
			genome = len(sd.Fields)
		}
	}
	if output != 3 || state != 10 || genome != 8 {
		t.Errorf("rows output=%d state=%d genome=%d, want 3/10/8", output, state, genome)
	}
}
