// Package main provides CMA-ES optimization for blob simulation parameters.
package main

import (
	"github.com/pthm-cable/blobs/config"
)

// ParamSpec defines a single optimizable parameter and where it lives in
// the config.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

func (s ParamSpec) clamp(v float64) float64 {
	return min(max(v, s.Min), s.Max)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Population size, period and the safe zone stay fixed so runs remain comparable.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{
				Name: "weight_range", Path: "neural.weight_range", Min: 1, Max: 20, Default: 10,
				get: func(c *config.Config) float64 { return c.Neural.WeightRange },
				set: func(c *config.Config, v float64) { c.Neural.WeightRange = v },
			},
			{
				Name: "output_scale", Path: "neural.output_scale", Min: 10, Max: 500, Default: 100,
				get: func(c *config.Config) float64 { return c.Neural.OutputScale },
				set: func(c *config.Config, v float64) { c.Neural.OutputScale = v },
			},
			{
				Name: "state_seed", Path: "neural.state_seed", Min: 0.01, Max: 1, Default: 0.1,
				get: func(c *config.Config) float64 { return c.Neural.StateSeed },
				set: func(c *config.Config, v float64) { c.Neural.StateSeed = v },
			},
			{
				Name: "force_gain", Path: "physics.force_gain", Min: 5, Max: 100, Default: 40,
				get: func(c *config.Config) float64 { return c.Physics.ForceGain },
				set: func(c *config.Config, v float64) { c.Physics.ForceGain = v },
			},
			{
				Name: "drag", Path: "physics.drag", Min: 0, Max: 3, Default: 0.8,
				get: func(c *config.Config) float64 { return c.Physics.Drag },
				set: func(c *config.Config, v float64) { c.Physics.Drag = v },
			},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// each builds a vector by applying f to every spec and its input value.
func (pv *ParamVector) each(in []float64, f func(ParamSpec, float64) float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		var v float64
		if in != nil {
			v = in[i]
		}
		out[i] = f(spec, v)
	}
	return out
}

// DefaultVector returns the default parameter values.
func (pv *ParamVector) DefaultVector() []float64 {
	return pv.each(nil, func(s ParamSpec, _ float64) float64 { return s.Default })
}

// Normalize maps raw values onto the unit cube CMA-ES searches.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	return pv.each(raw, func(s ParamSpec, v float64) float64 { return (v - s.Min) / (s.Max - s.Min) })
}

// Denormalize maps unit-cube values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	return pv.each(normalized, func(s ParamSpec, v float64) float64 { return s.Min + v*(s.Max-s.Min) })
}

// Clamp bounds every value to its spec.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	return pv.each(v, ParamSpec.clamp)
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, spec := range pv.Specs {
		spec.set(cfg, spec.clamp(values[i]))
	}
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return pv.each(nil, func(s ParamSpec, _ float64) float64 { return s.get(cfg) })
}
