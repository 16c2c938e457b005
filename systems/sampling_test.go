package systems

import (
	"math"
	"testing"
)

// 4x3 grid with value = 10*y + x.
func testGrid() []float32 {
	g := make([]float32, 12)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			g[y*4+x] = float32(10*y + x)
		}
	}
	return g
}

func TestSampleNearest(t *testing.T) {
	g := testGrid()
	tests := []struct {
		x, y float32
		want float32
	}{
		{0.2, 0.9, 0},
		{3.99, 2.5, 23},
		{-0.1, 0, 3},  // wraps left
		{4.2, 3.1, 0}, // wraps right and down
		{1.5, -0.5, 21},
	}
	for _, tt := range tests {
		if got := sampleNearest(g, 4, 3, tt.x, tt.y); got != tt.want {
			t.Errorf("sampleNearest(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestSampleBilinearCellCentres(t *testing.T) {
	g := testGrid()
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			got := sampleBilinear(g, 4, 3, float32(x)+0.5, float32(y)+0.5)
			if got != g[y*4+x] {
				t.Errorf("centre of (%d,%d) = %v, want %v", x, y, got, g[y*4+x])
			}
		}
	}
}

func TestSampleBilinearInterpolates(t *testing.T) {
	g := testGrid()

	// Halfway between (0,0)=0 and (1,0)=1.
	if got := sampleBilinear(g, 4, 3, 1.0, 0.5); math.Abs(float64(got-0.5)) > 1e-6 {
		t.Errorf("horizontal midpoint = %v, want 0.5", got)
	}
	// Halfway between (3,0)=3 and its wrapped neighbour (0,0)=0.
	if got := sampleBilinear(g, 4, 3, 4.0, 0.5); math.Abs(float64(got-1.5)) > 1e-6 {
		t.Errorf("seam midpoint = %v, want 1.5", got)
	}
	// Centre of four cells (1,1)=11 (2,1)=12 (1,2)=21 (2,2)=22.
	if got := sampleBilinear(g, 4, 3, 2.0, 2.0); math.Abs(float64(got-16.5)) > 1e-5 {
		t.Errorf("four-cell centre = %v, want 16.5", got)
	}
}

func TestSamplerAddsOverlay(t *testing.T) {
	trail := testGrid()
	overlay := make([]float32, 12)
	overlay[5] = 100 // (1,1)

	for _, bilinear := range []bool{false, true} {
		s := sampler{trail: trail, overlay: overlay, w: 4, h: 3, bilinear: bilinear}
		if got := s.at(1.5, 1.5); got != 111 {
			t.Errorf("bilinear=%v: at (1.5,1.5) = %v, want 111", bilinear, got)
		}
		s.overlay = nil
		if got := s.at(1.5, 1.5); got != 11 {
			t.Errorf("bilinear=%v without overlay = %v, want 11", bilinear, got)
		}
	}
}
