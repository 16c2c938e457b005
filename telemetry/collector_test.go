package telemetry

import "testing"

func TestCollectorWindows(t *testing.T) {
	c := NewCollector(10, 123)
	field := []float32{1, 2, 3, 4}

	if c.ShouldFlush(9) {
		t.Error("window should not flush before 10 frames")
	}
	if !c.ShouldFlush(10) {
		t.Fatal("window should flush at 10 frames")
	}

	s := c.Flush(10, field)
	if s.WindowStart != 0 || s.Frame != 10 {
		t.Errorf("first window = [%d, %d], want [0, 10]", s.WindowStart, s.Frame)
	}
	if s.MassBound != 123 || s.Mass != 10 {
		t.Errorf("mass = %v bound = %v, want 10 and 123", s.Mass, s.MassBound)
	}

	if c.ShouldFlush(15) {
		t.Error("second window should not flush at frame 15")
	}
	s = c.Flush(20, field)
	if s.WindowStart != 10 {
		t.Errorf("second window start = %d, want 10", s.WindowStart)
	}

	c.Reset()
	if !c.ShouldFlush(10) {
		t.Error("after Reset the window should start from frame 0")
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0, 0)
	if c.WindowFrames() != 1 {
		t.Errorf("window = %d, want 1", c.WindowFrames())
	}
	if !c.ShouldFlush(1) {
		t.Error("expected flush every frame")
	}
}
