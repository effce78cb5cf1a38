// Package game wires the ECS world, the blob agents and the generation
// controller into a fixed-tick simulation.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/blobs/camera"
	"github.com/pthm-cable/blobs/components"
	"github.com/pthm-cable/blobs/config"
	"github.com/pthm-cable/blobs/neural"
	"github.com/pthm-cable/blobs/renderer"
	"github.com/pthm-cable/blobs/systems"
	"github.com/pthm-cable/blobs/telemetry"
	"github.com/pthm-cable/blobs/ui"
)

// Options configures a Game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64
	RunID          string
	LogStats       bool   // Log generation records and perf via slog
	OutputDir      string // Directory for CSV output (empty = disabled)
	Headless       bool   // Skip the viewer entirely
	StepsPerUpdate int    // Ticks per Update call (1 if < 1)
}

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand

	// Entity mapper and filter over the blob archetype
	blobMapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.ExternalForce,
		components.Tint,
		components.Tag,
	]
	blobFilter *ecs.Filter5[
		components.Position,
		components.Velocity,
		components.ExternalForce,
		components.Tint,
		components.Tag,
	]

	// Individual component mappers for lookups
	forceMap *ecs.Map1[components.ExternalForce]

	// Agent storage (per entity by Tag ID)
	blobs  map[uint32]*neural.Blob
	params neural.Params

	// Systems
	physics    *systems.PhysicsSystem
	generation *systems.GenerationSystem
	registry   *systems.SystemRegistry
	parallel   *actuationPool

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	lastRecord    telemetry.GenerationRecord

	// Viewer (nil in headless mode)
	camera     *camera.Orbit
	scene      *renderer.Scene
	background *renderer.BackgroundRenderer
	hud        *ui.HUD

	// Selection state
	selectedID   uint32
	hasSelection bool

	// State
	tick           int32
	nextID         uint32
	paused         bool
	halted         bool
	stepsPerUpdate int
}

// NewGameWithOptions creates a game and spawns the initial random population.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	policy, err := systems.ParseExtinctionPolicy(cfg.Generation.ExtinctionPolicy)
	if err != nil {
		// Validate already rejects unknown policies
		panic(err)
	}

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	world := ecs.NewWorld()
	registry := systems.NewSystemRegistry()
	rng := rand.New(rand.NewSource(opts.Seed))
	params := neuralParams(cfg)

	g := &Game{
		cfg:    cfg,
		world:  world,
		rng:    rng,
		blobs:  make(map[uint32]*neural.Blob, cfg.Population.Target),
		params: params,
		blobMapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.ExternalForce,
			components.Tint,
			components.Tag,
		](world),
		blobFilter: ecs.NewFilter5[
			components.Position,
			components.Velocity,
			components.ExternalForce,
			components.Tint,
			components.Tag,
		](world),
		forceMap:       ecs.NewMap1[components.ExternalForce](world),
		physics:        systems.NewPhysicsSystem(world, systems.PhysicsParamsFromConfig(cfg)),
		registry:       registry,
		parallel:       newActuationPool(),
		collector:      telemetry.NewCollector(opts.RunID, cfg.Derived.DT32),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow, registry.IDs()...),
		logStats:       opts.LogStats,
		stepsPerUpdate: stepsPerUpdate,
	}

	g.generation = systems.NewGenerationSystem(systems.GenerationOptions{
		Zone:   safeZone(cfg),
		Target: cfg.Population.Target,
		Period: cfg.Generation.Period,
		Policy: policy,
		Params: params,
	}, rng)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	if !opts.Headless {
		zone := g.generation.Zone()
		g.camera = camera.New(r3.Vec{}, 3*cfg.Physics.WorldHalfExtent)
		g.scene = renderer.NewScene(zone.Box(), cfg.Physics.WorldHalfExtent, cfg.Population.Spacing/2)
		g.background = renderer.NewBackgroundRenderer(30, 40, 60)
		g.hud = ui.NewHUD(g.registry)
	}

	g.spawnInitialPopulation()

	slog.Info("game initialized",
		"run_id", opts.RunID,
		"population", g.Population(),
		"period", cfg.Generation.Period,
		"extinction_policy", policy.String(),
	)

	return g
}

// neuralParams extracts the agent parameters from the config.
func neuralParams(cfg *config.Config) neural.Params {
	return neural.Params{
		WeightRange: float32(cfg.Neural.WeightRange),
		OutputScale: float32(cfg.Neural.OutputScale),
		OutputClamp: float32(cfg.Neural.OutputClamp),
		StateSeed:   float32(cfg.Neural.StateSeed),
	}
}

// safeZone builds the survival region from the config.
func safeZone(cfg *config.Config) systems.SafeZone {
	c, s := cfg.SafeZone.Center, cfg.SafeZone.Size
	return systems.NewSafeZone(
		r3.Vec{X: c[0], Y: c[1], Z: c[2]},
		r3.Vec{X: s[0], Y: s[1], Z: s[2]},
	)
}

// Update handles input and runs StepsPerUpdate simulation ticks.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}

	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// UpdateHeadless runs StepsPerUpdate simulation ticks without touching the viewer.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// simulationStep runs a single tick of the simulation.
func (g *Game) simulationStep() {
	if g.halted {
		return
	}
	dt := g.cfg.Physics.DT

	g.perfCollector.StartTick()

	// 1. Step every blob network on the worker pool
	g.perfCollector.StartPhase(telemetry.PhaseActuation)
	g.updateActuation()

	// 2. Move blobs by their new forces
	g.perfCollector.StartPhase(telemetry.PhasePhysics)
	g.physics.Update(dt)

	g.tick++

	// 3. Countdown; a due reset runs here, between ticks
	g.perfCollector.StartPhase(telemetry.PhaseGeneration)
	if g.generation.Advance(dt) {
		g.resetGeneration()
	}

	g.perfCollector.EndTick()

	if g.logStats && g.tick%int32(g.cfg.Telemetry.PerfWindow) == 0 {
		g.logWorldState()
	}
}

// Unload stops the worker pool and closes output files.
func (g *Game) Unload() {
	g.parallel.stop()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Metrics returns the metrics committed by the last reset.
func (g *Game) Metrics() systems.GenerationMetrics {
	return g.generation.Metrics()
}

// LastRecord returns the telemetry record of the last reset.
func (g *Game) LastRecord() telemetry.GenerationRecord {
	return g.lastRecord
}

// Remaining returns the simulated seconds until the next reset.
func (g *Game) Remaining() float64 {
	return g.generation.Remaining()
}

// Halted reports whether the run stopped on extinction.
func (g *Game) Halted() bool {
	return g.halted
}

// Population returns the number of live blobs.
func (g *Game) Population() int {
	return len(g.blobs)
}
