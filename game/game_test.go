package game

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/systems"
	"github.com/pthm-cable/slime/telemetry"
)

func testConfig(t testing.TB) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.World.Width = 48
	cfg.World.Height = 32
	cfg.Agents.Count = 800
	cfg.Agents.RInit = 12
	cfg.Nutrients.Count = 2
	cfg.Nutrients.RMin = 2
	cfg.Nutrients.RMax = 5
	cfg.Parallel.Workers = 2
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return cfg
}

func newTestGame(t testing.TB, cfg *config.Config, opts Options) *Game {
	t.Helper()
	g, err := NewGameWithOptions(cfg, opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	return g
}

func TestInvalidConfigRejected(t *testing.T) {
	cfg := testConfig(t)
	cfg.Field.Decay = 1.5

	_, err := NewGameWithOptions(cfg, Options{})
	var cerr *config.ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want ConfigurationError", err)
	}
	if cerr.Field != "field.decay" {
		t.Errorf("Field = %q, want field.decay", cerr.Field)
	}
}

func TestHeadlessWritesTelemetry(t *testing.T) {
	dir := t.TempDir()
	g := newTestGame(t, testConfig(t), Options{StatsWindow: 10, OutputDir: dir})

	if err := g.RunHeadless(context.Background(), 50); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if g.Frame() != 50 {
		t.Errorf("Frame = %d, want 50", g.Frame())
	}
	last := g.LastStats()
	if last.Frame != 50 || last.WindowStart != 40 {
		t.Errorf("last window = [%d, %d), want [40, 50)", last.WindowStart, last.Frame)
	}
	if !(last.Mass > 0) || last.Mass > last.MassBound {
		t.Errorf("mass %g outside (0, %g]", last.Mass, last.MassBound)
	}
	g.Unload()

	f, err := os.Open(filepath.Join(dir, "field.csv"))
	if err != nil {
		t.Fatalf("open field.csv: %v", err)
	}
	defer f.Close()
	var rows []telemetry.FieldStats
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("unmarshal field.csv: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("got %d field rows, want 5", len(rows))
	}
	for i, r := range rows {
		if want := uint64(10 * (i + 1)); r.Frame != want {
			t.Errorf("row %d frame = %d, want %d", i, r.Frame, want)
		}
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}

func TestSnapshotResumeMatchesUninterruptedRun(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()

	first := newTestGame(t, cfg, Options{SnapshotDir: dir})
	if err := first.RunHeadless(context.Background(), 30); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first.Unload()

	resumed := newTestGame(t, cfg, Options{RestorePath: filepath.Join(dir, "snapshot_30.json")})
	defer resumed.Unload()
	if resumed.Frame() != 30 {
		t.Fatalf("restored Frame = %d, want 30", resumed.Frame())
	}
	if err := resumed.RunHeadless(context.Background(), 20); err != nil {
		t.Fatalf("resumed run: %v", err)
	}

	straight := newTestGame(t, cfg, Options{})
	defer straight.Unload()
	if err := straight.RunHeadless(context.Background(), 50); err != nil {
		t.Fatalf("straight run: %v", err)
	}

	a := resumed.Simulation().View().Data()
	b := straight.Simulation().View().Data()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("cell %d: resumed %v, uninterrupted %v", i, a[i], b[i])
		}
	}
}

func TestRestoreMissingFile(t *testing.T) {
	_, err := NewGameWithOptions(testConfig(t), Options{RestorePath: filepath.Join(t.TempDir(), "nope.json")})
	if err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}

func TestDegeneracyStopsRun(t *testing.T) {
	g := newTestGame(t, testConfig(t), Options{StatsWindow: 1})
	defer g.Unload()

	g.Simulation().Field().Fill(float32(math.NaN()))
	err := g.RunHeadless(context.Background(), 10)
	if !errors.Is(err, systems.ErrNumericDegeneracy) {
		t.Fatalf("err = %v, want ErrNumericDegeneracy", err)
	}
	if g.Frame() != 1 {
		t.Errorf("run stopped at frame %d, want 1", g.Frame())
	}
	if g.Health() == nil {
		t.Error("Health() = nil after degeneracy")
	}

	// Update refuses to advance a degenerate run.
	g.Update()
	if g.Frame() != 1 {
		t.Errorf("Update advanced a degenerate run to frame %d", g.Frame())
	}

	g.Reset()
	if g.Health() != nil || g.Frame() != 0 {
		t.Fatalf("after Reset: health %v, frame %d", g.Health(), g.Frame())
	}
	g.Update()
	if g.Frame() != 1 {
		t.Errorf("Update after Reset reached frame %d, want 1", g.Frame())
	}
}

func TestPauseAndSpeed(t *testing.T) {
	g := newTestGame(t, testConfig(t), Options{StepsPerUpdate: 4})
	defer g.Unload()

	g.Update()
	if g.Frame() != 4 {
		t.Fatalf("Frame = %d, want 4", g.Frame())
	}

	g.TogglePause()
	g.Update()
	if g.Frame() != 4 {
		t.Errorf("paused Update advanced to %d", g.Frame())
	}
	g.StepOnce()
	if g.Frame() != 5 {
		t.Errorf("StepOnce while paused: frame %d, want 5", g.Frame())
	}
	g.TogglePause()

	for i := 0; i < 10; i++ {
		g.Faster()
	}
	if g.StepsPerUpdate() != maxStepsPerUpdate {
		t.Errorf("StepsPerUpdate = %d, want cap %d", g.StepsPerUpdate(), maxStepsPerUpdate)
	}
	for i := 0; i < 10; i++ {
		g.Slower()
	}
	if g.StepsPerUpdate() != 1 {
		t.Errorf("StepsPerUpdate = %d, want 1", g.StepsPerUpdate())
	}
}

func TestStepsPerUpdateClamped(t *testing.T) {
	tests := []struct {
		start, want, faster int
	}{
		{start: 100, want: maxStepsPerUpdate, faster: maxStepsPerUpdate},
		{start: -3, want: 1, faster: 2},
		{start: 3, want: 3, faster: 6},
		{start: 20, want: 20, faster: maxStepsPerUpdate},
	}
	for _, tt := range tests {
		g := newTestGame(t, testConfig(t), Options{StepsPerUpdate: tt.start})
		if got := g.StepsPerUpdate(); got != tt.want {
			t.Errorf("start %d: StepsPerUpdate = %d, want %d", tt.start, got, tt.want)
		}
		g.Faster()
		if got := g.StepsPerUpdate(); got != tt.faster {
			t.Errorf("start %d: after Faster = %d, want %d", tt.start, got, tt.faster)
		}
		for i := 0; i < 10; i++ {
			g.Faster()
		}
		if got := g.StepsPerUpdate(); got != maxStepsPerUpdate {
			t.Errorf("start %d: StepsPerUpdate grew to %d past the cap", tt.start, got)
		}
		g.Unload()
	}
}

func TestRunHeadlessCancelled(t *testing.T) {
	g := newTestGame(t, testConfig(t), Options{})
	defer g.Unload()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.RunHeadless(ctx, 0); err != nil {
		t.Errorf("cancelled run returned %v, want nil", err)
	}
	if g.Frame() != 0 {
		t.Errorf("cancelled before first frame, got frame %d", g.Frame())
	}
}
