package game

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"
)

// logWorldState logs a population summary between resets.
func (g *Game) logWorldState() {
	zone := g.generation.Zone()

	var count, inZone int
	var centroid r3.Vec
	var speedSum float64

	query := g.blobFilter.Query()
	for query.Next() {
		pos, vel, _, _, _ := query.Get()
		count++
		centroid = r3.Add(centroid, pos.Vec)
		speedSum += r3.Norm(vel.Vec)
		if zone.Contains(pos.Vec) {
			inZone++
		}
	}

	if count == 0 {
		slog.Info("world", "tick", g.tick, "population", 0, "halted", g.halted)
		return
	}
	centroid = r3.Scale(1/float64(count), centroid)

	slog.Info("world",
		"tick", g.tick,
		"generation", g.generation.Metrics().Generation,
		"population", count,
		"in_zone", inZone,
		"centroid_x", centroid.X,
		"centroid_y", centroid.Y,
		"centroid_z", centroid.Z,
		"mean_speed", speedSum/float64(count),
		"reset_in", g.generation.Remaining(),
	)
}
