package ui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blobs/neural"
)

// Axis labels shared by the input and output columns.
var axisLabels = [neural.Axes]string{"X", "Y", "Z"}

// NetworkColors for activation visualization.
var (
	ColorNodeInactive = rl.Color{R: 60, G: 60, B: 60, A: 255}
	ColorNodePositive = rl.Color{R: 255, G: 100, B: 100, A: 255}
	ColorNodeNegative = rl.Color{R: 100, G: 100, B: 255, A: 255}
	ColorEdgePositive = rl.Color{R: 200, G: 80, B: 80, A: 100}
	ColorEdgeNegative = rl.Color{R: 80, G: 80, B: 200, A: 100}
	ColorLabelDim     = rl.Color{R: 120, G: 120, B: 120, A: 255}
)

// NetworkLayout holds the screen position of every neuron in the diagram.
type NetworkLayout struct {
	Inputs        [neural.NumInputs]rl.Vector2
	Intermediates [neural.NumIntermediate]rl.Vector2
	Outputs       [neural.NumOutputs]rl.Vector2
}

// LayoutNetwork places the three neuron pools in columns inside the rectangle.
func LayoutNetwork(x, y, width, height int32) NetworkLayout {
	var l NetworkLayout
	colWidth := float32(width) / 3
	inner := float32(height - 20)

	column := func(col int, n int) func(i int) rl.Vector2 {
		spacing := inner / float32(n)
		cx := float32(x) + colWidth*float32(col) + colWidth/2
		return func(i int) rl.Vector2 {
			return rl.Vector2{X: cx, Y: float32(y) + 10 + spacing*(float32(i)+0.5)}
		}
	}

	in := column(0, neural.NumInputs)
	for i := range l.Inputs {
		l.Inputs[i] = in(i)
	}
	mid := column(1, neural.NumIntermediate)
	for i := range l.Intermediates {
		l.Intermediates[i] = mid(i)
	}
	out := column(2, neural.NumOutputs)
	for i := range l.Outputs {
		l.Outputs[i] = out(i)
	}
	return l
}

// Node returns the position of a neuron, or false for an invalid reference.
func (l *NetworkLayout) Node(n neural.Neuron) (rl.Vector2, bool) {
	switch n.Kind {
	case neural.KindInput:
		if n.Index >= 0 && n.Index < len(l.Inputs) {
			return l.Inputs[n.Index], true
		}
	case neural.KindIntermediate:
		if n.Index >= 0 && n.Index < len(l.Intermediates) {
			return l.Intermediates[n.Index], true
		}
	case neural.KindOutput:
		if n.Index >= 0 && n.Index < len(l.Outputs) {
			return l.Outputs[n.Index], true
		}
	}
	return rl.Vector2{}, false
}

// DrawNetworkDiagram renders a blob's genome with its current activations.
// force is the blob's last output, which is also the input of its next step.
func DrawNetworkDiagram(x, y, width, height int32, blob *neural.Blob, force neural.Force, weightRange, clamp float32) {
	rl.DrawRectangle(x, y, width, height, rl.Color{R: 20, G: 20, B: 30, A: 220})
	rl.DrawRectangleLines(x, y, width, height, rl.Color{R: 60, G: 60, B: 80, A: 255})

	if blob == nil {
		rl.DrawText("No network data", x+10, y+10, 14, ColorLabelDim)
		return
	}

	layout := LayoutNetwork(x, y, width, height)
	nodeRadius := float32(6)

	// Edges first so nodes draw over them. Self loops on intermediates draw
	// as a ring.
	for _, c := range blob.Network.Connections {
		from, ok1 := layout.Node(c.From)
		to, ok2 := layout.Node(c.To)
		if !ok1 || !ok2 {
			continue
		}
		w := normalizeWeight(c.Weight, weightRange)
		if c.From == c.To {
			rl.DrawCircleLinesV(from, nodeRadius+4, edgeColor(w))
			continue
		}
		drawEdge(from, to, w)
	}

	for i, pos := range layout.Inputs {
		drawNode(pos, nodeRadius, normalizeWeight(force[i], clamp))
		label := axisLabels[i]
		labelWidth := rl.MeasureText(label, 10)
		rl.DrawText(label, int32(pos.X-nodeRadius)-labelWidth-4, int32(pos.Y)-5, 10, ColorLabelDim)
	}

	for i, pos := range layout.Intermediates {
		// State lives in (-1, 1) after the first step
		drawNode(pos, nodeRadius, blob.State[i])
	}

	for i, pos := range layout.Outputs {
		drawNode(pos, nodeRadius+2, normalizeWeight(force[i], clamp))
		rl.DrawText(axisLabels[i], int32(pos.X+nodeRadius+6), int32(pos.Y)-5, 10, ColorLabelDim)
	}
}

// normalizeWeight scales v by bound into [-1, 1].
func normalizeWeight(v, bound float32) float32 {
	if bound <= 0 {
		return 0
	}
	return v / bound
}

// drawNode renders a single neuron node.
func drawNode(pos rl.Vector2, radius, activation float32) {
	color := activationColor(activation)
	rl.DrawCircleV(pos, radius, color)
	rl.DrawCircleLinesV(pos, radius, rl.Color{R: 100, G: 100, B: 100, A: 255})
}

// drawEdge renders a connection between nodes. weight is normalized to [-1, 1].
func drawEdge(from, to rl.Vector2, weight float32) {
	thickness := abs32(weight) * 3
	if thickness > 3 {
		thickness = 3
	}
	if thickness < 0.5 {
		thickness = 0.5
	}
	rl.DrawLineEx(from, to, thickness, edgeColor(weight))
}

// edgeColor returns the edge color for a normalized weight, with alpha by magnitude.
func edgeColor(weight float32) rl.Color {
	color := ColorEdgePositive
	if weight < 0 {
		color = ColorEdgeNegative
	}
	alpha := 60 + int(abs32(weight)*160)
	if alpha > 220 {
		alpha = 220
	}
	color.A = uint8(alpha)
	return color
}

// activationColor returns a color based on activation value.
// Negative = blue, Zero = gray, Positive = red.
func activationColor(activation float32) rl.Color {
	if math.IsNaN(float64(activation)) {
		return ColorNodeInactive
	}
	if activation > 0 {
		t := activation
		if t > 1 {
			t = 1
		}
		return rl.Color{
			R: uint8(60 + t*195),
			G: uint8(60 - t*30),
			B: uint8(60 - t*30),
			A: 255,
		}
	}
	t := -activation
	if t > 1 {
		t = 1
	}
	return rl.Color{
		R: uint8(60 - t*30),
		G: uint8(60 - t*30),
		B: uint8(60 + t*195),
		A: 255,
	}
}
