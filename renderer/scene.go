package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/blobs/camera"
	"github.com/pthm-cable/blobs/components"
	"github.com/pthm-cable/blobs/neural"
)

// Scene colors
var (
	safeZoneColor  = rl.Color{R: 90, G: 220, B: 120, A: 255}
	boundsColor    = rl.Color{R: 90, G: 90, B: 110, A: 255}
	forceColor     = rl.Color{R: 255, G: 220, B: 80, A: 200}
	selectionColor = rl.White
)

// Scene draws the population, the safe zone and reference geometry in 3D.
type Scene struct {
	zone       r3.Box
	halfExtent float64
	blobSize   float32
}

// NewScene creates a scene for a world of the given half extent.
// blobSize is the edge length of the cube drawn per blob.
func NewScene(zone r3.Box, halfExtent, blobSize float64) *Scene {
	return &Scene{
		zone:       zone,
		halfExtent: halfExtent,
		blobSize:   float32(blobSize),
	}
}

// vec converts a world vector to raylib's float32 vector.
func vec(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// Camera3D converts the orbit camera to a raylib perspective camera.
func Camera3D(o *camera.Orbit) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec(o.Eye()),
		Target:     vec(o.Target),
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}

// Begin starts 3D drawing from the camera.
func (s *Scene) Begin(cam rl.Camera3D) {
	rl.BeginMode3D(cam)
}

// End finishes 3D drawing.
func (s *Scene) End() {
	rl.EndMode3D()
}

// DrawBlob draws one blob as a cube in its genome color.
func (s *Scene) DrawBlob(pos r3.Vec, tint components.Tint, selected bool) {
	p := vec(pos)
	color := rl.Color{R: tint.R, G: tint.G, B: tint.B, A: 255}
	rl.DrawCube(p, s.blobSize, s.blobSize, s.blobSize, color)
	if selected {
		edge := s.blobSize * 1.4
		rl.DrawCubeWires(p, edge, edge, edge, selectionColor)
	}
}

// DrawForce draws the blob's output force as a line from its center.
// Forces are clamped to unit length per axis, so scale by a few blob sizes.
func (s *Scene) DrawForce(pos r3.Vec, f neural.Force) {
	start := vec(pos)
	scale := 3 * s.blobSize
	end := rl.Vector3{
		X: start.X + f[0]*scale,
		Y: start.Y + f[1]*scale,
		Z: start.Z + f[2]*scale,
	}
	rl.DrawLine3D(start, end, forceColor)
}

// DrawSafeZone draws the survival cuboid as a wireframe.
func (s *Scene) DrawSafeZone() {
	rl.DrawBoundingBox(rl.NewBoundingBox(vec(s.zone.Min), vec(s.zone.Max)), safeZoneColor)
}

// DrawBounds draws the world walls as a wireframe.
func (s *Scene) DrawBounds() {
	e := s.halfExtent
	rl.DrawBoundingBox(rl.NewBoundingBox(
		vec(r3.Vec{X: -e, Y: -e, Z: -e}),
		vec(r3.Vec{X: e, Y: e, Z: e}),
	), boundsColor)
}

// DrawGrid draws a reference grid on the y=0 plane covering the world.
func (s *Scene) DrawGrid() {
	rl.DrawGrid(int32(2*s.halfExtent), 1)
}

// Pick returns the index of the nearest position hit by a ray through the
// given screen point, or -1 if none is hit.
func (s *Scene) Pick(screen rl.Vector2, cam rl.Camera3D, positions []r3.Vec) int {
	ray := rl.GetScreenToWorldRay(screen, cam)
	radius := s.blobSize * 0.75

	best := -1
	var bestDist float32
	for i, p := range positions {
		hit := rl.GetRayCollisionSphere(ray, vec(p), radius)
		if !hit.Hit {
			continue
		}
		if best < 0 || hit.Distance < bestDist {
			best = i
			bestDist = hit.Distance
		}
	}
	return best
}
