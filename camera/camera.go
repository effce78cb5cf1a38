// Package camera provides an orbit camera for viewing the 3D population.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Orbit circles a target point at a fixed distance.
// Yaw rotates around the world Y axis, pitch tilts toward the poles.
type Orbit struct {
	// Target is the point the camera looks at
	Target r3.Vec

	// Angles in radians
	Yaw, Pitch float64

	// Distance from the target
	Distance float64

	// Constraints
	MinDistance, MaxDistance float64
	MaxPitch                 float64

	home r3.Vec
	dist float64
}

// New creates a camera looking at target from the given distance,
// slightly raised and turned so all three axes are visible.
func New(target r3.Vec, distance float64) *Orbit {
	return &Orbit{
		Target:      target,
		Yaw:         math.Pi / 4,
		Pitch:       math.Pi / 6,
		Distance:    distance,
		MinDistance: distance / 10,
		MaxDistance: distance * 4,
		MaxPitch:    math.Pi/2 - 0.01,
		home:        target,
		dist:        distance,
	}
}

// Eye returns the camera position in world coordinates.
func (o *Orbit) Eye() r3.Vec {
	cp := math.Cos(o.Pitch)
	dir := r3.Vec{
		X: cp * math.Sin(o.Yaw),
		Y: math.Sin(o.Pitch),
		Z: cp * math.Cos(o.Yaw),
	}
	return r3.Add(o.Target, r3.Scale(o.Distance, dir))
}

// Forward returns the unit view direction.
func (o *Orbit) Forward() r3.Vec {
	return r3.Unit(r3.Sub(o.Target, o.Eye()))
}

// Rotate turns the camera by the given angle deltas in radians.
// Pitch stays short of the poles so the up vector is well defined.
func (o *Orbit) Rotate(dYaw, dPitch float64) {
	o.Yaw = math.Mod(o.Yaw+dYaw, 2*math.Pi)
	o.Pitch = clamp(o.Pitch+dPitch, -o.MaxPitch, o.MaxPitch)
}

// SetDistance sets the distance to the target, clamped to min/max.
func (o *Orbit) SetDistance(d float64) {
	o.Distance = clamp(d, o.MinDistance, o.MaxDistance)
}

// ZoomBy divides the distance by factor (factor > 1 moves closer).
func (o *Orbit) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	o.SetDistance(o.Distance / factor)
}

// Pan moves the target along the camera's ground-plane right and forward axes.
func (o *Orbit) Pan(right, forward float64) {
	f := o.Forward()
	ground := r3.Vec{X: f.X, Z: f.Z}
	if r3.Norm(ground) == 0 {
		return
	}
	ground = r3.Unit(ground)
	side := r3.Vec{X: -ground.Z, Z: ground.X}
	o.Target = r3.Add(o.Target, r3.Add(r3.Scale(right, side), r3.Scale(forward, ground)))
}

// Reset returns the camera to its initial target, angles and distance.
func (o *Orbit) Reset() {
	o.Target = o.home
	o.Yaw = math.Pi / 4
	o.Pitch = math.Pi / 6
	o.Distance = o.dist
}

// IsVisible returns false for spheres entirely behind the camera
// (conservative check for culling).
func (o *Orbit) IsVisible(p r3.Vec, radius float64) bool {
	return r3.Dot(r3.Sub(p, o.Eye()), o.Forward()) > -radius
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
