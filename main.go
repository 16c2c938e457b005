package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/game"
	"github.com/pthm-cable/slime/viewer"
)

const windowTitle = "Physarum"

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	random := flag.Bool("random", false, "Draw tunable parameters at random instead of loading a config")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in frames (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for the exit snapshot")
	restorePath := flag.String("restore", "", "Snapshot file to resume from")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "Overrides both run seeds and seeds the random fallback (0 = keep config / time-based)")
	maxFrames := flag.Uint64("max-frames", 0, "Stop after N frames (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation frames per viewer update (1-32)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	game.SetLogWriter(os.Stderr)

	fallbackSeed := *seed
	if fallbackSeed == 0 {
		fallbackSeed = time.Now().UnixNano()
	}

	var cfg *config.Config
	if *random {
		cfg = config.Random(fallbackSeed)
		slog.Info("using randomized parameters", "seed", fallbackSeed)
	} else {
		cfg = config.LoadOrRandom(*configPath, fallbackSeed, logger)
	}
	if *seed != 0 {
		cfg.Seeds.Seed1 = *seed
		cfg.Seeds.Seed2 = *seed
	}

	opts := game.Options{
		LogStats:       *logStats,
		StatsWindow:    *statsWindow,
		SnapshotDir:    *snapshotDir,
		RestorePath:    *restorePath,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if *headless {
		os.Exit(runHeadless(cfg, opts, *maxFrames))
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), windowTitle)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		return
	}
	defer g.Unload()

	v := viewer.New(g, windowTitle)
	defer v.Unload()

	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()

		if *maxFrames > 0 && g.Frame() >= *maxFrames {
			slog.Info("max frames reached", "frame", g.Frame())
			break
		}
	}
}

// runHeadless runs without raylib until interrupted, maxFrames is reached or
// the field degenerates, and returns the process exit code.
func runHeadless(cfg *config.Config, opts game.Options, maxFrames uint64) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		return 1
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed_1", cfg.Seeds.Seed1,
		"seed_2", cfg.Seeds.Seed2,
		"max_frames", maxFrames,
	)

	if err := g.RunHeadless(ctx, maxFrames); err != nil {
		slog.Error("simulation failed", "frame", g.Frame(), "error", err)
		return 1
	}
	slog.Info("simulation finished", "frame", g.Frame())
	return 0
}
