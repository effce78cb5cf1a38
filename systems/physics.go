package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/blobs/components"
	"github.com/pthm-cable/blobs/config"
	"github.com/pthm-cable/blobs/neural"
)

// PhysicsParams holds the movement integrator constants.
type PhysicsParams struct {
	Drag       float64 // Velocity damping per second
	Mass       float64
	ForceGain  float64 // Acceleration per unit of output force, before mass
	HalfExtent float64 // World is the cube [-HalfExtent, HalfExtent]^3
}

// PhysicsParamsFromConfig extracts integrator constants from the config.
func PhysicsParamsFromConfig(cfg *config.Config) PhysicsParams {
	return PhysicsParams{
		Drag:       cfg.Physics.Drag,
		Mass:       cfg.Physics.Mass,
		ForceGain:  cfg.Physics.ForceGain,
		HalfExtent: cfg.Physics.WorldHalfExtent,
	}
}

// Integrate advances one blob by dt under its output force.
// Positions leaving the world cube are clamped to the wall and the
// velocity component into the wall is dropped.
func Integrate(pos, vel r3.Vec, f neural.Force, p PhysicsParams, dt float64) (r3.Vec, r3.Vec) {
	accel := r3.Scale(p.ForceGain/p.Mass, r3.Vec{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])})

	vel = r3.Scale(math.Exp(-p.Drag*dt), vel)
	vel = r3.Add(vel, r3.Scale(dt, accel))
	pos = r3.Add(pos, r3.Scale(dt, vel))

	pos.X, vel.X = wall(pos.X, vel.X, p.HalfExtent)
	pos.Y, vel.Y = wall(pos.Y, vel.Y, p.HalfExtent)
	pos.Z, vel.Z = wall(pos.Z, vel.Z, p.HalfExtent)
	return pos, vel
}

func wall(x, v, e float64) (float64, float64) {
	if x > e {
		return e, 0
	}
	if x < -e {
		return -e, 0
	}
	return x, v
}

// PhysicsSystem moves every blob by its ExternalForce.
type PhysicsSystem struct {
	filter *ecs.Filter3[components.Position, components.Velocity, components.ExternalForce]
	params PhysicsParams
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(w *ecs.World, params PhysicsParams) *PhysicsSystem {
	return &PhysicsSystem{
		filter: ecs.NewFilter3[components.Position, components.Velocity, components.ExternalForce](w),
		params: params,
	}
}

// Update integrates all blobs by dt.
func (s *PhysicsSystem) Update(dt float64) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, force := query.Get()
		pos.Vec, vel.Vec = Integrate(pos.Vec, vel.Vec, force.Force, s.params, dt)
	}
}

// SpawnLattice returns n positions on a cube lattice centered at the origin,
// filled x-fastest. n = side^3 fills the cube exactly.
func SpawnLattice(n int, spacing float64) []r3.Vec {
	side := 1
	for side*side*side < n {
		side++
	}
	offset := float64(side-1) / 2

	out := make([]r3.Vec, 0, n)
	for i := 0; i < n; i++ {
		ix := i % side
		iy := (i / side) % side
		iz := i / (side * side)
		out = append(out, r3.Vec{
			X: (float64(ix) - offset) * spacing,
			Y: (float64(iy) - offset) * spacing,
			Z: (float64(iz) - offset) * spacing,
		})
	}
	return out
}
