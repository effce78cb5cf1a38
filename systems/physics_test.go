package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/blobs/components"
	"github.com/pthm-cable/blobs/neural"
)

var testPhysics = PhysicsParams{Drag: 0, Mass: 2, ForceGain: 10, HalfExtent: 5}

func TestIntegrateAcceleratesAlongForce(t *testing.T) {
	pos, vel := Integrate(r3.Vec{}, r3.Vec{}, neural.Force{1, 0, -0.5}, testPhysics, 0.5)

	// accel = 10/2 * force = (5, 0, -2.5); vel = accel*dt; pos = vel*dt
	wantVel := r3.Vec{X: 2.5, Y: 0, Z: -1.25}
	wantPos := r3.Vec{X: 1.25, Y: 0, Z: -0.625}
	if r3.Norm(r3.Sub(vel, wantVel)) > 1e-12 {
		t.Errorf("vel = %v, want %v", vel, wantVel)
	}
	if r3.Norm(r3.Sub(pos, wantPos)) > 1e-12 {
		t.Errorf("pos = %v, want %v", pos, wantPos)
	}
}

func TestIntegrateDragDecays(t *testing.T) {
	p := testPhysics
	p.Drag = 1

	_, vel := Integrate(r3.Vec{}, r3.Vec{X: 1}, neural.Force{}, p, 1)
	if math.Abs(vel.X-math.Exp(-1)) > 1e-12 {
		t.Errorf("vel.X = %f, want %f", vel.X, math.Exp(-1))
	}
}

func TestIntegrateClampsToWorld(t *testing.T) {
	pos, vel := Integrate(r3.Vec{X: 4.9, Y: -4.9}, r3.Vec{X: 10, Y: -10, Z: 1}, neural.Force{}, testPhysics, 1)

	if pos.X != 5 || pos.Y != -5 {
		t.Errorf("pos = %v, want clamped to walls", pos)
	}
	if vel.X != 0 || vel.Y != 0 {
		t.Errorf("vel = %v, want wall components zeroed", vel)
	}
	if vel.Z != 1 {
		t.Errorf("vel.Z = %f, want 1 (inside world)", vel.Z)
	}
}

func TestPhysicsSystemUpdate(t *testing.T) {
	world := ecs.NewWorld()
	mapper := ecs.NewMap3[components.Position, components.Velocity, components.ExternalForce](world)

	still := mapper.NewEntity(&components.Position{}, &components.Velocity{}, &components.ExternalForce{})
	pushed := mapper.NewEntity(
		&components.Position{},
		&components.Velocity{},
		&components.ExternalForce{Force: neural.Force{0, 1, 0}},
	)

	sys := NewPhysicsSystem(world, testPhysics)
	sys.Update(1)

	pos, _, _ := mapper.Get(still)
	if pos.Vec != (r3.Vec{}) {
		t.Errorf("still blob moved to %v", pos.Vec)
	}
	pos, vel, _ := mapper.Get(pushed)
	if vel.Y != 5 || pos.Y != 5 {
		t.Errorf("pushed blob pos=%v vel=%v, want y=5 for both", pos.Vec, vel.Vec)
	}
}

func TestSpawnLattice(t *testing.T) {
	points := SpawnLattice(1000, 1.1)
	if len(points) != 1000 {
		t.Fatalf("len = %d, want 1000", len(points))
	}

	seen := make(map[r3.Vec]bool, len(points))
	var sum r3.Vec
	for _, p := range points {
		if seen[p] {
			t.Fatalf("duplicate lattice point %v", p)
		}
		seen[p] = true
		sum = r3.Add(sum, p)
	}

	// Full cube is centered on the origin
	if r3.Norm(sum) > 1e-9 {
		t.Errorf("lattice centroid sum = %v, want origin", sum)
	}
	if math.Abs(points[0].X-(-4.5*1.1)) > 1e-12 {
		t.Errorf("first point x = %f, want %f", points[0].X, -4.5*1.1)
	}
}

func TestSpawnLatticePartial(t *testing.T) {
	if got := len(SpawnLattice(10, 1)); got != 10 {
		t.Errorf("len = %d, want 10", got)
	}
	if got := len(SpawnLattice(0, 1)); got != 0 {
		t.Errorf("len = %d, want 0", got)
	}
}
