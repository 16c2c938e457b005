package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1024, 768, 512, 256)

	if cam.X != 256 || cam.Y != 128 {
		t.Errorf("expected camera at (256, 128), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	x, y, w, h := cam.SourceRect()
	if x != 0 || y != 0 || w != 512 || h != 256 {
		t.Errorf("whole-grid source rect = (%g,%g,%g,%g), want (0,0,512,256)", x, y, w, h)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1024, 768, 512, 256)

	sx, sy := cam.WorldToScreen(256, 128)
	if !near(sx, 512) || !near(sy, 384) {
		t.Errorf("expected screen center (512, 384), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1024, 768, 512, 256)
	cam.ZoomAt(3, 700, 200)

	testCases := []struct{ sx, sy float32 }{
		{512, 384},
		{100, 100},
		{1000, 700},
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		if wx < 0 || wx >= 512 || wy < 0 || wy >= 256 {
			t.Errorf("ScreenToWorld(%g,%g) = (%g,%g), outside grid", tc.sx, tc.sy, wx, wy)
		}
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestToroidalWrap(t *testing.T) {
	cam := New(1024, 768, 512, 256)
	cam.SetZoom(4)
	cam.X = 10

	// A cell at the far right edge is closer going left.
	sx, _ := cam.WorldToScreen(500, 128)
	if sx >= 512 {
		t.Errorf("expected cell on left of screen, got x=%f", sx)
	}
}

func TestPanWraps(t *testing.T) {
	cam := New(1024, 768, 512, 256)
	cam.SetZoom(2)
	cam.X = 10

	// 1024/512*2 = 4 px per cell, so -200 px is -50 cells.
	cam.Pan(-200, 0)

	if !near(cam.X, 472) {
		t.Errorf("expected X to wrap to 472, got %f", cam.X)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1024, 768, 512, 256)

	cam.SetZoom(0.1)
	if cam.Zoom != 1 {
		t.Errorf("expected zoom clamped to 1, got %f", cam.Zoom)
	}

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestZoomAtKeepsCursorCell(t *testing.T) {
	cam := New(1024, 768, 512, 256)
	wx, wy := cam.ScreenToWorld(300, 200)

	cam.ZoomAt(2, 300, 200)

	gx, gy := cam.ScreenToWorld(300, 200)
	if !near(gx, wx) || !near(gy, wy) {
		t.Errorf("cell under cursor moved: (%g,%g) -> (%g,%g)", wx, wy, gx, gy)
	}
	_, _, w, h := cam.SourceRect()
	if w != 256 || h != 128 {
		t.Errorf("source size at 2x = %gx%g, want 256x128", w, h)
	}
}

func TestReset(t *testing.T) {
	cam := New(1024, 768, 512, 256)
	cam.SetZoom(2.5)
	cam.X = 40
	cam.Y = 40

	cam.Reset()

	if cam.X != 256 || cam.Y != 128 {
		t.Errorf("expected position (256, 128), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
