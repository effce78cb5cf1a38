// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Extinction policies accepted by generation.extinction_policy.
const (
	PolicyReseed = "reseed"
	PolicyHalt   = "halt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Population PopulationConfig `yaml:"population"`
	Neural     NeuralConfig     `yaml:"neural"`
	Generation GenerationConfig `yaml:"generation"`
	SafeZone   SafeZoneConfig   `yaml:"safe_zone"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds the movement integrator parameters.
type PhysicsConfig struct {
	DT              float64 `yaml:"dt"`
	Drag            float64 `yaml:"drag"`              // Velocity damping per second
	Mass            float64 `yaml:"mass"`              // Blob mass
	ForceGain       float64 `yaml:"force_gain"`        // Acceleration per unit of output force
	WorldHalfExtent float64 `yaml:"world_half_extent"` // World is the cube [-e, e]^3
}

// PopulationConfig holds population size and spawn layout.
type PopulationConfig struct {
	Target  int     `yaml:"target"`  // Population size N, constant across resets
	Spacing float64 `yaml:"spacing"` // Distance between lattice neighbours at spawn
}

// NeuralConfig holds blob network parameters.
// Pool sizes and connection count are compile-time constants in package neural.
type NeuralConfig struct {
	WeightRange float64 `yaml:"weight_range"` // Weights drawn uniformly from [-w, w]
	OutputScale float64 `yaml:"output_scale"` // Output neuron value divisor
	OutputClamp float64 `yaml:"output_clamp"` // Output components clamped to [-c, c]
	StateSeed   float64 `yaml:"state_seed"`   // Upper bound of the initial intermediate state
}

// GenerationConfig holds generational reset parameters.
type GenerationConfig struct {
	Period           float64 `yaml:"period"`            // Simulated seconds between resets
	ExtinctionPolicy string  `yaml:"extinction_policy"` // reseed | halt
}

// SafeZoneConfig places the survival cuboid in world space.
type SafeZoneConfig struct {
	Center [3]float64 `yaml:"center"`
	Size   [3]float64 `yaml:"size"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"` // Ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32        float32 // Physics.DT as float32
	LatticeSide int     // Smallest cube side holding Population.Target blobs
	TicksPerGen int     // Generation.Period expressed in ticks (rounded)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks values the simulation cannot run with.
func (c *Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"physics.dt", c.Physics.DT},
		{"physics.mass", c.Physics.Mass},
		{"physics.world_half_extent", c.Physics.WorldHalfExtent},
		{"population.target", float64(c.Population.Target)},
		{"population.spacing", c.Population.Spacing},
		{"neural.weight_range", c.Neural.WeightRange},
		{"neural.output_scale", c.Neural.OutputScale},
		{"neural.output_clamp", c.Neural.OutputClamp},
		{"neural.state_seed", c.Neural.StateSeed},
		{"generation.period", c.Generation.Period},
		{"safe_zone.size[0]", c.SafeZone.Size[0]},
		{"safe_zone.size[1]", c.SafeZone.Size[1]},
		{"safe_zone.size[2]", c.SafeZone.Size[2]},
		{"telemetry.perf_window", float64(c.Telemetry.PerfWindow)},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, p.name, p.value)
		}
	}
	if c.Physics.Drag < 0 {
		return fmt.Errorf("%w: physics.drag must not be negative, got %v", ErrInvalid, c.Physics.Drag)
	}

	switch c.Generation.ExtinctionPolicy {
	case PolicyReseed, PolicyHalt:
	default:
		return fmt.Errorf("%w: unknown generation.extinction_policy %q", ErrInvalid, c.Generation.ExtinctionPolicy)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)

	side := 1
	for side*side*side < c.Population.Target {
		side++
	}
	c.Derived.LatticeSide = side

	c.Derived.TicksPerGen = int(math.Round(c.Generation.Period / c.Physics.DT))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
