package systems

// sampleNearest returns the value of the cell containing (x, y) on a toroidal grid.
func sampleNearest(grid []float32, w, h int, x, y float32) float32 {
	ix := modInt(floorInt(x), w)
	iy := modInt(floorInt(y), h)
	return grid[iy*w+ix]
}

// sampleBilinear interpolates between the four nearest cell centres on a
// toroidal grid. A point at a cell centre returns exactly that cell's value.
func sampleBilinear(grid []float32, w, h int, x, y float32) float32 {
	fx := x - 0.5
	fy := y - 0.5

	x0 := floorInt(fx)
	y0 := floorInt(fy)
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	x0 = modInt(x0, w)
	y0 = modInt(y0, h)
	x1 := modInt(x0+1, w)
	y1 := modInt(y0+1, h)

	i00 := y0*w + x0
	i10 := y0*w + x1
	i01 := y1*w + x0
	i11 := y1*w + x1

	a := grid[i00] + (grid[i10]-grid[i00])*tx
	b := grid[i01] + (grid[i11]-grid[i01])*tx
	return a + (b-a)*ty
}

// sampler reads sensed intensity: trail plus the optional nutrient overlay.
type sampler struct {
	trail    []float32
	overlay  []float32 // nil when no overlay
	w, h     int
	bilinear bool
}

func (s *sampler) at(x, y float32) float32 {
	if s.bilinear {
		v := sampleBilinear(s.trail, s.w, s.h, x, y)
		if s.overlay != nil {
			v += sampleBilinear(s.overlay, s.w, s.h, x, y)
		}
		return v
	}
	v := sampleNearest(s.trail, s.w, s.h, x, y)
	if s.overlay != nil {
		v += sampleNearest(s.overlay, s.w, s.h, x, y)
	}
	return v
}
