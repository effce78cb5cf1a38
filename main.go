package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"

	"github.com/pthm-cable/blobs/config"
	"github.com/pthm-cable/blobs/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Log generation records and perf stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	opts := game.Options{
		Config:         config.Cfg(),
		Seed:           *seed,
		RunID:          uuid.NewString(),
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if *headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		runHeadless(ctx, opts, int32(*maxTicks))
		return
	}
	runWindow(opts, int32(*maxTicks))
}

// runHeadless ticks until maxTicks, extinction under the halt policy, or
// interrupt. Unload runs on every exit path so CSV output is flushed.
func runHeadless(ctx context.Context, opts game.Options, maxTicks int32) {
	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	slog.Info("starting headless simulation",
		"run_id", opts.RunID,
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for {
		g.UpdateHeadless()

		reason := ""
		switch {
		case g.Halted():
			reason = "population extinct"
		case maxTicks > 0 && g.Tick() >= maxTicks:
			reason = "max ticks reached"
		case ctx.Err() != nil:
			reason = "interrupted"
		}
		if reason != "" {
			slog.Info("simulation stopped",
				"reason", reason,
				"tick", g.Tick(),
				"generation", g.Metrics().Generation,
			)
			return
		}
	}
}

// runWindow opens the viewer and runs one Update and Draw per frame.
func runWindow(opts game.Options, maxTicks int32) {
	cfg := opts.Config

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Blobs")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if maxTicks > 0 && g.Tick() >= maxTicks {
			return
		}
	}
}
