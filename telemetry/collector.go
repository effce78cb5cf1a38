// Package telemetry provides generation statistics, performance timing, and
// CSV experiment output.
package telemetry

import "github.com/pthm-cable/blobs/systems"

// Collector turns committed generation metrics into GenerationRecords,
// tracking the tick span of each generation and run-wide counters.
type Collector struct {
	runID string
	dt    float32

	// Current generation tracking
	genStartTick int32

	// Run-wide counters
	extinctions int
}

// NewCollector creates a new stats collector.
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(runID string, dt float32) *Collector {
	return &Collector{
		runID: runID,
		dt:    dt,
	}
}

// RunID returns the identifier stamped on every record.
func (c *Collector) RunID() string {
	return c.runID
}

// Flush produces a GenerationRecord for a reset that just committed m.
// forces are the output force magnitudes of the population scanned by the reset
// (see Magnitudes).
func (c *Collector) Flush(currentTick int32, m systems.GenerationMetrics, forces []float64) GenerationRecord {
	if m.Extinct {
		c.extinctions++
	}

	mean, std, p10, p50, p90 := ComputeForceStats(forces)

	rec := GenerationRecord{
		RunID:      c.runID,
		Generation: m.Generation,
		StartTick:  c.genStartTick,
		Tick:       currentTick,
		SimTimeSec: float64(currentTick) * float64(c.dt),

		Population:   m.Population,
		Survived:     m.Survived,
		Diversity:    m.Diversity,
		SurvivalRate: m.SurvivalRate,
		Extinct:      m.Extinct,
		Extinctions:  c.extinctions,

		ForceMean: mean,
		ForceStd:  std,
		ForceP10:  p10,
		ForceP50:  p50,
		ForceP90:  p90,
	}

	c.genStartTick = currentTick
	return rec
}

// Extinctions returns how many resets found an empty gene pool.
func (c *Collector) Extinctions() int {
	return c.extinctions
}
