package systems

import "math"

// Fast math functions for hot-path agent updates.
// These avoid float32->float64 conversions that Go's math package requires.

const twoPi = 2 * math.Pi

// normalizeAngle wraps angle to [-pi, pi].
func normalizeAngle(a float32) float32 {
	if a >= -math.Pi && a <= math.Pi {
		return a
	}
	a = float32(math.Mod(float64(a), twoPi))
	if a > math.Pi {
		a -= twoPi
	} else if a < -math.Pi {
		a += twoPi
	}
	return a
}

// normalizeHeading wraps angle to [0, 2pi).
func normalizeHeading(a float32) float32 {
	if a >= 0 && a < twoPi {
		return a
	}
	a = float32(math.Mod(float64(a), twoPi))
	if a < 0 {
		a += twoPi
	}
	// A tiny negative angle plus 2pi can round up to 2pi.
	if a >= twoPi || a < 0 {
		a = 0
	}
	return a
}

// fastSin approximates sin(x) using a polynomial. Accurate to ~0.001 for all x.
func fastSin(x float32) float32 {
	x = normalizeAngle(x)
	// Parabola approximation with correction factor
	const pi = math.Pi
	const pi2 = pi * pi
	ax := x
	if ax < 0 {
		ax = -ax
	}
	y := 4 * x * (pi - ax) / pi2
	return 0.225*(y*absf(y)-y) + y
}

// fastCos approximates cos(x) using fastSin.
func fastCos(x float32) float32 {
	return fastSin(x + math.Pi/2)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
