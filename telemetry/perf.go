package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/blobs/systems"
)

// Phase names for the simulation step, shared with the system registry.
const (
	PhaseActuation  = systems.SystemActuation
	PhasePhysics    = systems.SystemPhysics
	PhaseGeneration = systems.SystemGeneration
	PhaseTelemetry  = systems.SystemTelemetry
)

// perfSample holds timing data for a single tick. phases is indexed by the
// collector's phase slot; slots added after the sample was taken read as 0.
type perfSample struct {
	tick   time.Duration
	phases []time.Duration
}

// PerfCollector tracks tick and phase timings over a ring of recent ticks.
// Phases get a slot the first time they are started, so per-tick recording
// does not allocate once every phase has been seen.
type PerfCollector struct {
	window  int
	samples []perfSample
	next    int
	count   int

	names []string // phase slot -> name, in first-seen order

	current    []time.Duration
	tickStart  time.Time
	phaseStart time.Time
	phase      int // active slot, -1 between phases

	// Frame timing (graphics mode)
	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over window ticks.
// phases pre-assigns slots so logs list them in that order.
func NewPerfCollector(window int, phases ...string) *PerfCollector {
	if window < 1 {
		window = 60
	}
	p := &PerfCollector{
		window:  window,
		samples: make([]perfSample, window),
		phase:   -1,
	}
	for _, name := range phases {
		p.slot(name)
	}
	return p
}

// slot returns the index of a phase, assigning one if needed.
func (p *PerfCollector) slot(name string) int {
	if i := slices.Index(p.names, name); i >= 0 {
		return i
	}
	p.names = append(p.names, name)
	p.current = append(p.current, 0)
	return len(p.names) - 1
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	clear(p.current)
	p.phase = -1
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.endPhase(now)
	p.phase = p.slot(phase)
	p.phaseStart = now
}

func (p *PerfCollector) endPhase(now time.Time) {
	if p.phase >= 0 {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes timing the current tick and stores it in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.endPhase(now)
	p.phase = -1

	s := &p.samples[p.next]
	s.tick = now.Sub(p.tickStart)
	s.phases = append(s.phases[:0], p.current...)

	p.next = (p.next + 1) % p.window
	if p.count < p.window {
		p.count++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Phases in slot order, with average durations and share of the tick
	Phases   []string
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	// Throughput
	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the samples currently in the ring.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		Phases:        slices.Clone(p.names),
		PhaseAvg:      make(map[string]time.Duration, len(p.names)),
		PhasePct:      make(map[string]float64, len(p.names)),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		out.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return out
	}

	ticks := make([]float64, p.count)
	sums := make([]time.Duration, len(p.names))
	var total time.Duration
	for i, s := range p.samples[:p.count] {
		ticks[i] = float64(s.tick)
		total += s.tick
		for slot, d := range s.phases {
			sums[slot] += d
		}
	}

	n := time.Duration(p.count)
	out.AvgTickDuration = total / n
	slices.Sort(ticks)
	out.MinTickDuration = time.Duration(ticks[0])
	out.MaxTickDuration = time.Duration(ticks[len(ticks)-1])
	out.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))

	for slot, name := range p.names {
		avg := sums[slot] / n
		out.PhaseAvg[name] = avg
		if out.AvgTickDuration > 0 {
			out.PhasePct[name] = float64(avg) / float64(out.AvgTickDuration) * 100
		}
	}
	if out.AvgTickDuration > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTickDuration)
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
// Phases under 0.1% of the tick are left out.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, phase := range s.Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	Tick          int32   `csv:"tick"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	P95TickUS     int64   `csv:"p95_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	ActuationPct  float64 `csv:"actuation_pct"`
	PhysicsPct    float64 `csv:"physics_pct"`
	GenerationPct float64 `csv:"generation_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for perf.csv.
func (s PerfStats) ToCSV(tick int32) PerfStatsCSV {
	return PerfStatsCSV{
		Tick:          tick,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		P95TickUS:     s.P95TickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		ActuationPct:  s.PhasePct[PhaseActuation],
		PhysicsPct:    s.PhasePct[PhasePhysics],
		GenerationPct: s.PhasePct[PhaseGeneration],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
