package systems

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/blobs/config"
	"github.com/pthm-cable/blobs/neural"
)

var (
	// ErrExtinct is returned by Reset under PolicyHalt when no blob survived.
	ErrExtinct = errors.New("generation: no survivors")
	// ErrUnknownPolicy is returned for an unrecognized extinction policy name.
	ErrUnknownPolicy = errors.New("generation: unknown extinction policy")
)

// ExtinctionPolicy decides what a reset does with an empty gene pool.
type ExtinctionPolicy uint8

const (
	// PolicyReseed repopulates with fresh random genomes.
	PolicyReseed ExtinctionPolicy = iota
	// PolicyHalt leaves the population empty and reports ErrExtinct.
	PolicyHalt
)

// ParseExtinctionPolicy maps a config value to a policy.
func ParseExtinctionPolicy(s string) (ExtinctionPolicy, error) {
	switch s {
	case config.PolicyReseed:
		return PolicyReseed, nil
	case config.PolicyHalt:
		return PolicyHalt, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownPolicy, s)
}

func (p ExtinctionPolicy) String() string {
	if p == PolicyHalt {
		return config.PolicyHalt
	}
	return config.PolicyReseed
}

// GenerationMetrics is the record committed by each reset.
type GenerationMetrics struct {
	Generation   int     // Number of completed resets
	Population   int     // Blobs scanned by the reset
	Survived     int     // Blobs inside the safe zone (gene pool size)
	Diversity    int     // Distinct genomes in the resampled population
	SurvivalRate float64 // Survived / Population, 0 for an empty scan
	Extinct      bool    // Gene pool was empty
}

// Candidate is one live blob as seen by the reset barrier.
type Candidate struct {
	Pos    r3.Vec
	Genome *neural.Network
}

// Outcome is the new population produced by a reset.
type Outcome struct {
	Genomes []neural.Network
	Metrics GenerationMetrics
}

// GenerationSystem owns the reset countdown and the committed metrics.
// It is the only writer of both; readers get copies via Metrics.
type GenerationSystem struct {
	zone    SafeZone
	target  int
	period  float64
	policy  ExtinctionPolicy
	params  neural.Params
	rng     neural.Rand
	remain  float64
	metrics GenerationMetrics
}

// GenerationOptions configures a GenerationSystem.
type GenerationOptions struct {
	Zone   SafeZone
	Target int     // Population size N after every reset
	Period float64 // Seconds between resets
	Policy ExtinctionPolicy
	Params neural.Params // Used for reseeding on extinction
}

// NewGenerationSystem creates a controller with a full countdown.
func NewGenerationSystem(opts GenerationOptions, rng neural.Rand) *GenerationSystem {
	return &GenerationSystem{
		zone:   opts.Zone,
		target: opts.Target,
		period: opts.Period,
		policy: opts.Policy,
		params: opts.Params,
		rng:    rng,
		remain: opts.Period,
	}
}

// Advance runs the countdown by dt and reports whether a reset is due.
// Overshoot carries into the next period.
func (s *GenerationSystem) Advance(dt float64) bool {
	s.remain -= dt
	if s.remain > 0 {
		return false
	}
	s.remain += s.period
	if s.remain <= 0 {
		s.remain = s.period
	}
	return true
}

// Remaining returns the seconds left before the next reset.
func (s *GenerationSystem) Remaining() float64 {
	return s.remain
}

// Metrics returns the last committed metrics.
func (s *GenerationSystem) Metrics() GenerationMetrics {
	return s.metrics
}

// Zone returns the survival region.
func (s *GenerationSystem) Zone() SafeZone {
	return s.zone
}

// Reset culls every candidate outside the safe zone and resamples a full
// population from the survivors, uniformly with replacement.
func (s *GenerationSystem) Reset(candidates []Candidate) (Outcome, error) {
	pool := make([]neural.Network, 0, len(candidates))
	for _, c := range candidates {
		if s.zone.Contains(c.Pos) {
			pool = append(pool, c.Genome.Clone())
		}
	}

	m := GenerationMetrics{
		Generation: s.metrics.Generation + 1,
		Population: len(candidates),
		Survived:   len(pool),
	}
	if len(candidates) > 0 {
		m.SurvivalRate = float64(len(pool)) / float64(len(candidates))
	}

	if len(pool) == 0 {
		m.Extinct = true
		s.metrics = m
		if s.policy == PolicyHalt {
			return Outcome{Metrics: m}, ErrExtinct
		}
		genomes := make([]neural.Network, s.target)
		for i := range genomes {
			genomes[i] = neural.Random(s.rng, s.params)
		}
		return Outcome{Genomes: genomes, Metrics: m}, nil
	}

	genomes := make([]neural.Network, s.target)
	diversity := neural.NewDiversitySet(len(pool))
	for i := range genomes {
		genomes[i] = pool[s.rng.Intn(len(pool))]
		diversity.Add(&genomes[i])
	}
	m.Diversity = diversity.Len()

	s.metrics = m
	return Outcome{Genomes: genomes, Metrics: m}, nil
}
