package game

import (
	"log/slog"
)

// flushTelemetry records the finished stats window and checks field health.
func (g *Game) flushTelemetry() {
	frame := g.sim.Frame()

	stats := g.collector.Flush(frame, g.sim.View().Data())
	perfStats := g.perf.Stats()
	g.lastStats = stats

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.output != nil {
		if err := g.output.WriteField(stats); err != nil {
			slog.Error("failed to write field stats", "error", err)
		}
		if err := g.output.WritePerf(perfStats, frame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	if err := g.sim.CheckHealth(); err != nil {
		slog.Error("field degenerated", "frame", frame, "error", err)
		g.health = err
	}
}
