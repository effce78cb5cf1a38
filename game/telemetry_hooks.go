package game

import (
	"log/slog"

	"github.com/pthm-cable/blobs/neural"
	"github.com/pthm-cable/blobs/telemetry"
)

// flushGeneration records the reset that just committed its metrics.
// forces are the outputs of the population the reset scanned.
func (g *Game) flushGeneration(forces []neural.Force) {
	rec := g.collector.Flush(g.tick, g.generation.Metrics(), telemetry.Magnitudes(forces))
	g.lastRecord = rec
	perfStats := g.perfCollector.Stats()

	// Log stats if enabled (console output)
	if g.logStats {
		rec.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteGeneration(rec); err != nil {
			slog.Error("failed to write generation", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, rec.Tick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
