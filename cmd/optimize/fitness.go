package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/blobs/config"
	"github.com/pthm-cable/blobs/game"
	"github.com/pthm-cable/blobs/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int
	seeds       []int64
	baseConfig  *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, generations int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		generations: generations,
		seeds:       seeds,
		baseConfig:  baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// warmupGenerations are skipped when scoring a run.
const warmupGenerations = 2

// runResult holds the results from a single simulation run.
type runResult struct {
	records []telemetry.GenerationRecord // one per completed reset
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			results[idx] = seedResult{
				fitness: computeFitness(result.records),
				quality: computeQuality(result.records),
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run of fe.generations resets.
// A halted run ends early with the records it has.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	g := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 1,
	})
	defer g.Unload()

	result := &runResult{}
	seen := 0
	for seen < fe.generations && !g.Halted() {
		g.UpdateHeadless()

		if gen := g.Metrics().Generation; gen > seen {
			seen = gen
			result.records = append(result.records, g.LastRecord())
		}
	}
	return result
}

// copyConfig creates a copy of the base config. Config holds no
// reference types, so a value copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(meanSurvival × (1.0 + 0.2 × quality))
// Survival dominates; quality adds up to 20% bonus to differentiate
// configs with similar survival.
func computeFitness(records []telemetry.GenerationRecord) float64 {
	scored := scoredRecords(records)
	if len(scored) == 0 {
		return 0
	}

	rates := make([]float64, len(scored))
	for i, r := range scored {
		rates[i] = r.SurvivalRate
	}
	return -(stat.Mean(rates, nil) * (1.0 + 0.2*computeQuality(records)))
}

// Quality component weights.
const (
	qualityWeightDiversity = 0.5
	qualityWeightStability = 0.3
	qualityWeightSurvival  = 0.2
)

// computeQuality computes run quality ∈ [0, 1] from generation records.
// It rewards a diverse gene pool, a steady survival rate and the absence
// of extinctions.
func computeQuality(records []telemetry.GenerationRecord) float64 {
	scored := scoredRecords(records)
	if len(scored) == 0 {
		return 0
	}

	var diversitySum float64
	var extinct int
	rates := make([]float64, 0, len(scored))
	for _, r := range scored {
		if r.Population > 0 {
			diversitySum += float64(r.Diversity) / float64(r.Population)
		}
		if r.Extinct {
			extinct++
		}
		rates = append(rates, r.SurvivalRate)
	}
	n := float64(len(scored))

	// 1. Genetic diversity of the resampled populations
	diversityScore := diversitySum / n

	// 2. Survival stability (CV across generations)
	stabilityScore := 0.0
	if len(rates) >= 2 {
		c := cv(rates)
		stabilityScore = math.Exp(-c * c)
	}

	// 3. Fraction of generations without extinction
	survivalScore := 1 - float64(extinct)/n

	quality := qualityWeightDiversity*diversityScore +
		qualityWeightStability*stabilityScore +
		qualityWeightSurvival*survivalScore

	return clamp01(quality)
}

// scoredRecords drops the warmup generations.
func scoredRecords(records []telemetry.GenerationRecord) []telemetry.GenerationRecord {
	if len(records) <= warmupGenerations {
		return nil
	}
	return records[warmupGenerations:]
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
