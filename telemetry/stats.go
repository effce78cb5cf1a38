package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/blobs/neural"
)

// GenerationRecord holds the statistics committed by one generational reset.
type GenerationRecord struct {
	RunID      string  `csv:"run_id"`
	Generation int     `csv:"generation"`
	StartTick  int32   `csv:"-"`
	Tick       int32   `csv:"tick"`
	SimTimeSec float64 `csv:"sim_time"`

	// Reset outcome
	Population   int     `csv:"population"`
	Survived     int     `csv:"survived"`
	Diversity    int     `csv:"diversity"`
	SurvivalRate float64 `csv:"survival_rate"`
	Extinct      bool    `csv:"extinct"`
	Extinctions  int     `csv:"extinctions"` // Cumulative over the run

	// Output force magnitude across the population just before the reset
	ForceMean float64 `csv:"force_mean"`
	ForceStd  float64 `csv:"force_std"`
	ForceP10  float64 `csv:"force_p10"`
	ForceP50  float64 `csv:"force_p50"`
	ForceP90  float64 `csv:"force_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Magnitudes returns the euclidean length of each force.
func Magnitudes(forces []neural.Force) []float64 {
	out := make([]float64, len(forces))
	for i, f := range forces {
		x, y, z := float64(f[0]), float64(f[1]), float64(f[2])
		out[i] = math.Sqrt(x*x + y*y + z*z)
	}
	return out
}

// ComputeForceStats calculates mean, sample std, and percentiles of values.
// Std is 0 for fewer than two values.
func ComputeForceStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (r GenerationRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", r.RunID),
		slog.Int("generation", r.Generation),
		slog.Int("tick", int(r.Tick)),
		slog.Float64("sim_time", r.SimTimeSec),
		slog.Int("population", r.Population),
		slog.Int("survived", r.Survived),
		slog.Int("diversity", r.Diversity),
		slog.Float64("survival_rate", r.SurvivalRate),
		slog.Bool("extinct", r.Extinct),
		slog.Int("extinctions", r.Extinctions),
		slog.Float64("force_mean", r.ForceMean),
		slog.Float64("force_std", r.ForceStd),
		slog.Float64("force_p50", r.ForceP50),
	)
}

// LogStats logs the generation record using slog.
func (r GenerationRecord) LogStats() {
	slog.Info("generation",
		"run_id", r.RunID,
		"generation", r.Generation,
		"tick", r.Tick,
		"sim_time", r.SimTimeSec,
		"population", r.Population,
		"survived", r.Survived,
		"diversity", r.Diversity,
		"survival_rate", r.SurvivalRate,
		"extinct", r.Extinct,
		"force_mean", r.ForceMean,
		"force_p90", r.ForceP90,
	)
}
