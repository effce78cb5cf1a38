package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/blobs/config"
)

// ticksPerGen matches testConfig: period 1 at dt 0.125.
const ticksPerGen = 8

// testConfig returns a small headless config with an exact tick count per
// generation.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Physics.DT = 0.125
	cfg.Derived.DT32 = 0.125
	cfg.Population.Target = 27
	cfg.Generation.Period = 1
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config, seed int64) *Game {
	t.Helper()
	g := NewGameWithOptions(Options{
		Config:   cfg,
		Seed:     seed,
		RunID:    "test",
		Headless: true,
	})
	t.Cleanup(g.Unload)
	return g
}

func runTicks(g *Game, n int) {
	for i := 0; i < n; i++ {
		g.UpdateHeadless()
	}
}

func TestInitialPopulation(t *testing.T) {
	g := newTestGame(t, testConfig(t), 1)

	if g.Population() != 27 {
		t.Errorf("population = %d, want 27", g.Population())
	}
	if g.Tick() != 0 || g.Metrics().Generation != 0 {
		t.Errorf("fresh game at tick %d generation %d", g.Tick(), g.Metrics().Generation)
	}
	if g.Remaining() != 1 {
		t.Errorf("remaining = %f, want 1", g.Remaining())
	}
}

func TestPopulationConstantAcrossResets(t *testing.T) {
	g := newTestGame(t, testConfig(t), 7)

	for gen := 1; gen <= 3; gen++ {
		runTicks(g, ticksPerGen)
		if got := g.Metrics().Generation; got != gen {
			t.Fatalf("after %d ticks generation = %d, want %d", g.Tick(), got, gen)
		}
		if g.Population() != 27 {
			t.Errorf("generation %d: population = %d, want 27", gen, g.Population())
		}
	}
}

func TestWholeWorldSafeZoneKeepsEveryone(t *testing.T) {
	cfg := testConfig(t)
	cfg.SafeZone.Center = [3]float64{0, 0, 0}
	cfg.SafeZone.Size = [3]float64{1000, 1000, 1000}
	g := newTestGame(t, cfg, 3)

	runTicks(g, ticksPerGen)

	m := g.Metrics()
	if m.Population != 27 || m.Survived != 27 || m.SurvivalRate != 1 {
		t.Errorf("metrics = %+v, want all 27 surviving", m)
	}
	if m.Diversity < 1 || m.Diversity > 27 {
		t.Errorf("diversity = %d, want in [1, 27]", m.Diversity)
	}

	rec := g.LastRecord()
	if rec.Generation != 1 || rec.Tick != ticksPerGen || rec.RunID != "test" {
		t.Errorf("record = %+v", rec)
	}
	if rec.SimTimeSec != 1 {
		t.Errorf("sim time = %f, want 1", rec.SimTimeSec)
	}
}

func TestUnreachableSafeZone(t *testing.T) {
	// The world is clamped to the half extent, so nobody reaches the zone
	unreachable := func(cfg *config.Config) {
		cfg.SafeZone.Center = [3]float64{1000, 0, 0}
		cfg.SafeZone.Size = [3]float64{1, 1, 1}
	}

	t.Run("reseed", func(t *testing.T) {
		cfg := testConfig(t)
		unreachable(cfg)
		g := newTestGame(t, cfg, 5)

		runTicks(g, 2*ticksPerGen)

		if g.Halted() {
			t.Fatal("reseed policy should not halt")
		}
		if g.Population() != 27 {
			t.Errorf("population = %d, want 27 after reseed", g.Population())
		}
		rec := g.LastRecord()
		if !rec.Extinct || rec.Extinctions != 2 || rec.Survived != 0 {
			t.Errorf("record = %+v, want two extinctions", rec)
		}
	})

	t.Run("halt", func(t *testing.T) {
		cfg := testConfig(t)
		unreachable(cfg)
		cfg.Generation.ExtinctionPolicy = config.PolicyHalt
		g := newTestGame(t, cfg, 5)

		runTicks(g, ticksPerGen)
		if !g.Halted() {
			t.Fatal("halt policy should halt on extinction")
		}
		if g.Population() != 0 {
			t.Errorf("population = %d, want 0 after halt", g.Population())
		}
		if !g.LastRecord().Extinct {
			t.Error("halting reset should still be recorded")
		}

		// A halted game no longer ticks
		tick := g.Tick()
		runTicks(g, ticksPerGen)
		if g.Tick() != tick {
			t.Errorf("tick advanced from %d to %d after halt", tick, g.Tick())
		}
	})
}

func TestDeterministicWithSeed(t *testing.T) {
	cfg := testConfig(t)
	// Above the parallel threshold so the worker pool runs
	cfg.Population.Target = 125

	a := newTestGame(t, cfg, 99)
	b := newTestGame(t, cfg, 99)
	runTicks(a, 3*ticksPerGen)
	runTicks(b, 3*ticksPerGen)

	if a.Metrics() != b.Metrics() {
		t.Errorf("metrics differ: %+v vs %+v", a.Metrics(), b.Metrics())
	}
	if a.LastRecord() != b.LastRecord() {
		t.Errorf("records differ: %+v vs %+v", a.LastRecord(), b.LastRecord())
	}
}

func TestStepsPerUpdate(t *testing.T) {
	g := NewGameWithOptions(Options{
		Config:         testConfig(t),
		Seed:           1,
		Headless:       true,
		StepsPerUpdate: 4,
	})
	defer g.Unload()

	g.UpdateHeadless()
	if g.Tick() != 4 {
		t.Errorf("tick = %d, want 4", g.Tick())
	}
}

func TestOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	g := NewGameWithOptions(Options{
		Config:    testConfig(t),
		Seed:      11,
		RunID:     "out",
		Headless:  true,
		OutputDir: dir,
	})

	runTicks(g, 2*ticksPerGen)
	g.Unload()

	data, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatalf("reading generations.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("generations.csv has %d lines, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "run_id,generation") {
		t.Errorf("header = %q", lines[0])
	}

	for _, name := range []string{"perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
