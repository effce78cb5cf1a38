package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// BackgroundRenderer fills the screen with a vertical gradient behind the 3D scene.
type BackgroundRenderer struct {
	top, bottom rl.Color
}

// NewBackgroundRenderer creates a background fading from the base color
// at the bottom to a darker shade at the top.
func NewBackgroundRenderer(baseR, baseG, baseB uint8) *BackgroundRenderer {
	return &BackgroundRenderer{
		top:    rl.Color{R: baseR / 3, G: baseG / 3, B: baseB / 3, A: 255},
		bottom: rl.Color{R: baseR, G: baseG, B: baseB, A: 255},
	}
}

// Draw renders the gradient over the whole screen.
func (b *BackgroundRenderer) Draw(screenW, screenH int32) {
	rl.DrawRectangleGradientV(0, 0, screenW, screenH, b.top, b.bottom)
}
