package game

import (
	"fmt"
	"io"
	"time"

	"github.com/pthm-cable/slime/telemetry"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// LogPerfStats logs a human-readable per-phase breakdown.
func (g *Game) LogPerfStats() {
	stats := g.perf.Stats()
	Logf("=== Perf @ Frame %d (speed %dx) | %.1f frames/s | FPS: %.0f ===",
		g.sim.Frame(), g.stepsPerUpdate, stats.FramesPerSecond, stats.FPS)
	Logf("Avg frame time: %s (min %s, max %s)",
		stats.AvgFrameDuration.Round(time.Microsecond),
		stats.MinFrameDuration.Round(time.Microsecond),
		stats.MaxFrameDuration.Round(time.Microsecond))

	for _, name := range telemetry.PhaseOrder {
		avg, ok := stats.PhaseAvg[name]
		if !ok {
			continue
		}
		Logf("  %-12s %10s  %5.1f%%", name, avg.Round(time.Microsecond), stats.PhasePct[name])
	}

	if n := g.sim.Params().NumAgents; n > 0 {
		perAgent := stats.PhaseAvg[telemetry.PhaseAgents] / time.Duration(n)
		Logf("  %d agents, %s/agent", n, perAgent)
	}
	g.logFieldState()
	Logf("")
}

// logFieldState logs the most recent field stats window.
func (g *Game) logFieldState() {
	s := g.lastStats
	if s.Frame == 0 {
		return
	}
	Logf("Field @ %d: mass %.1f / %.1f  mean %.4f  max %.3f  cv %.2f  p99 %.3f  coverage %.1f%%",
		s.Frame, s.Mass, s.MassBound, s.Mean, s.Max, s.CV, s.P99, s.Coverage*100)
}
