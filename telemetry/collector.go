package telemetry

// Collector groups frames into fixed-size windows and produces one
// FieldStats per window.
type Collector struct {
	windowFrames uint64

	// Current window tracking
	windowStart uint64
	massBound   float64

	analyzer FieldAnalyzer
}

// NewCollector creates a collector that flushes every windowFrames frames.
// massBound is recorded alongside each window for comparison with the mass.
func NewCollector(windowFrames int, massBound float64) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{
		windowFrames: uint64(windowFrames),
		massBound:    massBound,
	}
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(frame uint64) bool {
	return frame-c.windowStart >= c.windowFrames
}

// Flush analyzes the settled field at frame and starts the next window.
func (c *Collector) Flush(frame uint64, field []float32) FieldStats {
	stats := c.analyzer.Analyze(field, frame)
	stats.WindowStart = c.windowStart
	stats.MassBound = c.massBound

	c.windowStart = frame
	return stats
}

// Reset rewinds the window to frame 0, for use after the simulation resets.
func (c *Collector) Reset() {
	c.windowStart = 0
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() uint64 {
	return c.windowFrames
}
