package renderer

import (
	"image/color"
	"math"
)

// trailStops is the trail palette, from empty cells to saturated filaments.
var trailStops = [...]color.RGBA{
	{R: 4, G: 6, B: 12, A: 255},
	{R: 40, G: 24, B: 70, A: 255},
	{R: 170, G: 70, B: 40, A: 255},
	{R: 250, G: 190, B: 70, A: 255},
	{R: 255, G: 250, B: 220, A: 255},
}

// nutrientTint is blended in where the overlay is non-zero.
var nutrientTint = color.RGBA{R: 40, G: 140, B: 80, A: 255}

// TrailColor maps a trail value to a colour. v is divided by scale and
// gamma-compressed so thin filaments stay visible next to dense ones.
func TrailColor(v, scale float32) color.RGBA {
	if scale <= 0 {
		scale = 1
	}
	t := v / scale
	if t <= 0 {
		return trailStops[0]
	}
	if t >= 1 {
		return trailStops[len(trailStops)-1]
	}
	t = float32(math.Sqrt(float64(t)))

	seg := t * float32(len(trailStops)-1)
	i := int(seg)
	f := seg - float32(i)
	return lerpRGBA(trailStops[i], trailStops[i+1], f)
}

// tintNutrient mixes the nutrient tint into c by amount n in [0, 1].
func tintNutrient(c color.RGBA, n float32) color.RGBA {
	if n <= 0 {
		return c
	}
	if n > 1 {
		n = 1
	}
	return lerpRGBA(c, nutrientTint, n*0.35)
}

func lerpRGBA(a, b color.RGBA, t float32) color.RGBA {
	return color.RGBA{
		R: lerpU8(a.R, b.R, t),
		G: lerpU8(a.G, b.G, t),
		B: lerpU8(a.B, b.B, t),
		A: 255,
	}
}

func lerpU8(a, b uint8, t float32) uint8 {
	return uint8(float32(a) + (float32(b)-float32(a))*t + 0.5)
}

// NutrientColor maps an overlay value to a colour, full tint at peak.
func NutrientColor(n, peak float32) color.RGBA {
	if peak <= 0 || n <= 0 {
		return trailStops[0]
	}
	t := n / peak
	if t > 1 {
		t = 1
	}
	return lerpRGBA(trailStops[0], nutrientTint, t)
}
