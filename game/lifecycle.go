package game

import (
	"errors"
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/blobs/components"
	"github.com/pthm-cable/blobs/neural"
	"github.com/pthm-cable/blobs/systems"
	"github.com/pthm-cable/blobs/telemetry"
)

// spawnInitialPopulation creates Target blobs with random genomes on the lattice.
func (g *Game) spawnInitialPopulation() {
	n := g.cfg.Population.Target
	positions := systems.SpawnLattice(n, g.cfg.Population.Spacing)
	for i := 0; i < n; i++ {
		g.spawnBlob(positions[i], neural.Random(g.rng, g.params))
	}
}

// spawnBlob creates a new entity with a fresh agent for the given genome.
// The agent starts with a freshly seeded state and a zero force.
func (g *Game) spawnBlob(at r3.Vec, genome neural.Network) ecs.Entity {
	id := g.nextID
	g.nextID++

	pos := components.Position{Vec: at}
	vel := components.Velocity{}
	force := components.ExternalForce{}
	tint := components.TintFromRGB(neural.Color(&genome))
	tag := components.Tag{ID: id}

	g.blobs[id] = neural.NewBlob(genome, g.rng, g.params)

	return g.blobMapper.NewEntity(&pos, &vel, &force, &tint, &tag)
}

// resetGeneration is the generational barrier: it runs between ticks, never
// while workers hold blobs, and replaces the whole population at once.
func (g *Game) resetGeneration() {
	// First pass: snapshot every blob (must complete before modifying)
	candidates := make([]systems.Candidate, 0, len(g.blobs))
	forces := make([]neural.Force, 0, len(g.blobs))
	toRemove := make([]ecs.Entity, 0, len(g.blobs))

	query := g.blobFilter.Query()
	for query.Next() {
		pos, _, force, _, tag := query.Get()
		toRemove = append(toRemove, query.Entity())

		blob, ok := g.blobs[tag.ID]
		if !ok {
			continue
		}
		candidates = append(candidates, systems.Candidate{Pos: pos.Vec, Genome: &blob.Network})
		forces = append(forces, force.Force)
	}

	// Reset copies the surviving genomes, so the old agents can go
	out, err := g.generation.Reset(candidates)

	// Second pass: remove entities (query iteration complete)
	for _, e := range toRemove {
		g.world.RemoveEntity(e)
	}
	clear(g.blobs)

	if err != nil {
		if errors.Is(err, systems.ErrExtinct) {
			slog.Warn("population extinct, halting",
				"generation", out.Metrics.Generation,
				"tick", g.tick,
			)
		} else {
			slog.Error("generation reset failed", "error", err)
		}
		g.halted = true
	}

	positions := systems.SpawnLattice(len(out.Genomes), g.cfg.Population.Spacing)
	for i := range out.Genomes {
		g.spawnBlob(positions[i], out.Genomes[i])
	}

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushGeneration(forces)
}
