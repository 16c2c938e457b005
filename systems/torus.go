package systems

import "math"

// modInt returns a mod m in [0, m).
func modInt(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// wrap maps x into [0, m) on a torus of circumference m.
// The result is strictly below m even when x is a tiny negative number
// whose float32 remainder rounds up to m.
func wrap(x, m float32) float32 {
	if x >= 0 && x < m {
		return x
	}
	r := x - m*float32(math.Floor(float64(x/m)))
	if !(r >= 0 && r < m) {
		r = 0
	}
	return r
}

// toroidalDelta returns the shortest signed distance from b to a on a torus
// of circumference m.
func toroidalDelta(a, b, m float32) float32 {
	d := a - b
	if d > m/2 {
		d -= m
	} else if d < -m/2 {
		d += m
	}
	return d
}

// floorInt is floor for float32 without the float64 round trip.
func floorInt(x float32) int {
	i := int(x)
	if float32(i) > x {
		i--
	}
	return i
}
