package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/blobs/components"
	"github.com/pthm-cable/blobs/neural"
	"github.com/pthm-cable/blobs/telemetry"
)

// GenerationView is the data behind the generation panel.
type GenerationView struct {
	Record    telemetry.GenerationRecord
	Remaining float64 // Seconds until the next reset
	Period    float64
}

// BlobView is the data behind the blob inspector.
type BlobView struct {
	ID     uint32
	Pos    r3.Vec
	Force  neural.Force
	Tint   components.Tint
	Blob   *neural.Blob
	InZone bool
}

func genView(d any) GenerationView { return d.(GenerationView) }
func blobView(d any) BlobView      { return d.(BlobView) }

// GenerationPanel describes the last committed reset and the countdown.
func GenerationPanel() PanelDescriptor {
	return PanelDescriptor{
		ID:    "generation",
		Title: "Generation",
		Width: 260,
		Sections: []SectionDescriptor{
			{
				ID: "countdown",
				Fields: []FieldDescriptor{
					{ID: "generation", Label: "Completed", Widget: WidgetText,
						TextGetter: func(d any) string { return fmt.Sprintf("%d", genView(d).Record.Generation) }},
					{ID: "remaining", Label: "Next reset", Widget: WidgetText,
						TextGetter: func(d any) string { return fmt.Sprintf("%.1fs", genView(d).Remaining) }},
					{ID: "progress", Label: "Progress", Widget: WidgetBar,
						Getter: func(d any) float32 {
							v := genView(d)
							if v.Period <= 0 {
								return 0
							}
							return float32(1 - v.Remaining/v.Period)
						}},
				},
			},
			{
				ID:      "last",
				Title:   "Last Reset",
				Visible: func(d any) bool { return genView(d).Record.Generation > 0 },
				Fields: []FieldDescriptor{
					{ID: "survived", Label: "Survived", Widget: WidgetText,
						TextGetter: func(d any) string {
							r := genView(d).Record
							return fmt.Sprintf("%d / %d", r.Survived, r.Population)
						}},
					{ID: "rate", Label: "Survival", Widget: WidgetBar,
						Getter: func(d any) float32 { return float32(genView(d).Record.SurvivalRate) }},
					{ID: "diversity", Label: "Diversity", Widget: WidgetText,
						TextGetter: func(d any) string { return fmt.Sprintf("%d", genView(d).Record.Diversity) }},
					{ID: "force", Label: "Force mean", Widget: WidgetText,
						TextGetter: func(d any) string {
							r := genView(d).Record
							return fmt.Sprintf("%.3f (sd %.3f)", r.ForceMean, r.ForceStd)
						}},
					{ID: "extinctions", Label: "Extinctions", Widget: WidgetText,
						TextGetter: func(d any) string { return fmt.Sprintf("%d", genView(d).Record.Extinctions) }},
				},
			},
		},
	}
}

// BlobPanel describes the selected blob: its output, state and genome.
func BlobPanel(clamp float32) PanelDescriptor {
	forceRange := FieldRange{Min: -clamp, Max: clamp}

	output := SectionDescriptor{ID: "output", Title: "Output Force"}
	for i, axis := range []string{"X", "Y", "Z"} {
		i := i
		output.Fields = append(output.Fields, FieldDescriptor{
			ID: "force_" + axis, Label: axis, Widget: WidgetCenteredBar, Range: forceRange,
			Getter: func(d any) float32 { return blobView(d).Force[i] },
		})
	}

	state := SectionDescriptor{ID: "state", Title: "Intermediate State"}
	for i := 0; i < neural.NumIntermediate; i++ {
		i := i
		state.Fields = append(state.Fields, FieldDescriptor{
			ID: fmt.Sprintf("state_%d", i), Label: fmt.Sprintf("h%d", i), Widget: WidgetText, Format: "%+.4f",
			Getter: func(d any) float32 { return blobView(d).Blob.State[i] },
		})
	}

	genome := SectionDescriptor{ID: "genome", Title: "Genome"}
	for i := 0; i < neural.NumConnections; i++ {
		i := i
		genome.Fields = append(genome.Fields, FieldDescriptor{
			ID: fmt.Sprintf("conn_%d", i), Label: fmt.Sprintf("c%d", i), Widget: WidgetText,
			TextGetter: func(d any) string { return blobView(d).Blob.Network.Connections[i].String() },
		})
	}

	return PanelDescriptor{
		ID:    "blob",
		Title: "Blob",
		Width: 300,
		Sections: []SectionDescriptor{
			{
				ID: "identity",
				Fields: []FieldDescriptor{
					{ID: "id", Label: "ID", Widget: WidgetText,
						TextGetter: func(d any) string { return fmt.Sprintf("%d", blobView(d).ID) }},
					{ID: "pos", Label: "Position", Widget: WidgetText,
						TextGetter: func(d any) string {
							p := blobView(d).Pos
							return fmt.Sprintf("%.1f, %.1f, %.1f", p.X, p.Y, p.Z)
						}},
					{ID: "zone", Label: "Safe", Widget: WidgetText,
						TextGetter: func(d any) string {
							if blobView(d).InZone {
								return "yes"
							}
							return "no"
						}},
					{ID: "tint", Label: "Color", Widget: WidgetColorSwatch,
						ColorGetter: func(d any) rl.Color {
							t := blobView(d).Tint
							return rl.Color{R: t.R, G: t.G, B: t.B, A: 255}
						}},
				},
			},
			output,
			state,
			genome,
		},
	}
}
