package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/systems"
	"github.com/pthm-cable/slime/telemetry"
)

// maxStepsPerUpdate caps the speed multiplier.
const maxStepsPerUpdate = 32

// Options configures game behavior.
type Options struct {
	LogStats       bool
	StatsWindow    int    // frames per stats record (0 = use config)
	OutputDir      string // CSV logs and config snapshot (empty = disabled)
	SnapshotDir    string // state snapshot on exit (empty = disabled)
	RestorePath    string // snapshot to resume from (empty = fresh start)
	StepsPerUpdate int
}

// Game wires a Simulation to telemetry, snapshots and run control. It has no
// graphics dependency; the viewer package drives it from a window.
type Game struct {
	sim *Simulation

	// Telemetry
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool
	lastStats telemetry.FieldStats

	snapshotDir string

	// State
	paused         bool
	stepsPerUpdate int
	health         error
}

// NewGameWithOptions builds a game from cfg. A config the core rejects is
// returned as an error before any frame runs.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	params, err := systems.NewParams(cfg)
	if err != nil {
		return nil, err
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		statsWindow = opts.StatsWindow
	}
	steps := min(max(opts.StepsPerUpdate, 1), maxStepsPerUpdate)

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	sim := NewSimulation(params, cfg.Parallel.Workers, cfg.Parallel.Threshold, perf)

	g := &Game{
		sim:            sim,
		perf:           perf,
		logStats:       opts.LogStats,
		snapshotDir:    opts.SnapshotDir,
		stepsPerUpdate: steps,
	}

	if opts.RestorePath != "" {
		if err := g.restore(opts.RestorePath); err != nil {
			sim.Close()
			return nil, err
		}
	}
	g.collector = telemetry.NewCollector(statsWindow, sim.MassBound())
	if sim.Frame() > 0 {
		// Windows start at the restored frame.
		g.collector.Flush(sim.Frame(), sim.View().Data())
	}

	g.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		sim.Close()
		return nil, err
	}
	if err := g.output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	slog.Info("simulation ready",
		"grid", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"agents", params.NumAgents,
		"zones", len(sim.Overlay().Zones()),
		"workers", sim.pool.numWorkers,
		"mass_bound", sim.MassBound(),
	)
	return g, nil
}

func (g *Game) restore(path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	if err := g.sim.Restore(snap); err != nil {
		return fmt.Errorf("restoring %s: %w", path, err)
	}
	slog.Info("restored snapshot", "path", path, "frame", snap.Frame)
	return nil
}

// afterFrame runs telemetry for a committed frame. A degenerate field stops
// the run.
func (g *Game) afterFrame(s *Simulation) error {
	if !g.collector.ShouldFlush(s.Frame()) {
		return nil
	}
	g.flushTelemetry()
	return g.health
}

// Update runs stepsPerUpdate frames unless paused or degenerated.
func (g *Game) Update() {
	if g.paused || g.health != nil {
		return
	}
	if err := g.sim.Run(context.Background(), uint64(g.stepsPerUpdate), g.afterFrame); err != nil {
		g.paused = true
	}
}

// StepOnce runs a single frame, even while paused.
func (g *Game) StepOnce() {
	if g.health != nil {
		return
	}
	if err := g.sim.Run(context.Background(), 1, g.afterFrame); err != nil {
		g.paused = true
	}
}

// RunHeadless steps until ctx is cancelled, maxFrames frames have run (0 =
// unlimited) or the field degenerates.
func (g *Game) RunHeadless(ctx context.Context, maxFrames uint64) error {
	err := g.sim.Run(ctx, maxFrames, g.afterFrame)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// TogglePause pauses or resumes Update.
func (g *Game) TogglePause() {
	g.paused = !g.paused
}

// Paused reports whether Update is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// Faster doubles the frames run per Update, up to maxStepsPerUpdate.
func (g *Game) Faster() {
	g.stepsPerUpdate = min(g.stepsPerUpdate*2, maxStepsPerUpdate)
}

// Slower halves the frames run per Update.
func (g *Game) Slower() {
	if g.stepsPerUpdate > 1 {
		g.stepsPerUpdate /= 2
	}
}

// StepsPerUpdate returns the current speed multiplier.
func (g *Game) StepsPerUpdate() int {
	return g.stepsPerUpdate
}

// Reset restarts the run from frame 0 and clears any degeneracy.
func (g *Game) Reset() {
	g.sim.Reset()
	// A restored run may have started with a higher mass bound.
	g.collector = telemetry.NewCollector(int(g.collector.WindowFrames()), g.sim.MassBound())
	g.health = nil
	g.lastStats = telemetry.FieldStats{}
	slog.Info("simulation reset")
}

// Health returns the degeneracy error that stopped the run, if any.
func (g *Game) Health() error {
	return g.health
}

// LastStats returns the most recent stats window.
func (g *Game) LastStats() telemetry.FieldStats {
	return g.lastStats
}

// Perf returns the frame timing collector.
func (g *Game) Perf() *telemetry.PerfCollector {
	return g.perf
}

// Frame returns the number of committed frames.
func (g *Game) Frame() uint64 {
	return g.sim.Frame()
}

// Simulation exposes the underlying simulation.
func (g *Game) Simulation() *Simulation {
	return g.sim
}

// Unload saves a snapshot if configured and releases all resources.
func (g *Game) Unload() {
	if g.snapshotDir != "" {
		path, err := telemetry.SaveSnapshot(g.sim.Snapshot(), g.snapshotDir)
		if err != nil {
			slog.Error("failed to save snapshot", "error", err)
		} else {
			slog.Info("snapshot saved", "path", path, "frame", g.sim.Frame())
		}
	}
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.sim.Close()
}
