// Package camera provides pan and zoom over the toroidal trail grid.
package camera

import "math"

// Camera controls the viewport into the grid. World coordinates are cells.
// At Zoom 1 the whole grid is stretched over the viewport; higher zoom
// magnifies around (X, Y), wrapping across grid edges.
type Camera struct {
	// Centre of the view in cells
	X, Y float32

	// Magnification relative to the whole-grid view
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Grid dimensions in cells
	WorldW, WorldH float32

	MaxZoom float32
}

// New creates a camera showing the whole grid.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	return &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MaxZoom:   16.0,
	}
}

// scale returns screen pixels per cell on each axis.
func (c *Camera) scale() (sx, sy float32) {
	return c.ViewportW / c.WorldW * c.Zoom, c.ViewportH / c.WorldH * c.Zoom
}

// WorldToScreen converts cell coordinates to screen coordinates along the
// shortest way around the torus from the view centre.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	kx, ky := c.scale()
	dx := toroidalDelta(wx, c.X, c.WorldW)
	dy := toroidalDelta(wy, c.Y, c.WorldH)
	return c.ViewportW/2 + dx*kx, c.ViewportH/2 + dy*ky
}

// ScreenToWorld converts screen coordinates to wrapped cell coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	kx, ky := c.scale()
	dx := (sx - c.ViewportW/2) / kx
	dy := (sy - c.ViewportH/2) / ky
	return mod(c.X+dx, c.WorldW), mod(c.Y+dy, c.WorldH)
}

// SourceRect returns the visible region in cell coordinates. X and Y may be
// negative or run past the grid; the trail texture repeats to fill it.
func (c *Camera) SourceRect() (x, y, w, h float32) {
	w = c.WorldW / c.Zoom
	h = c.WorldH / c.Zoom
	return c.X - w/2, c.Y - h/2, w, h
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels, wrapping around
// the grid.
func (c *Camera) Pan(dx, dy float32) {
	kx, ky := c.scale()
	c.X = mod(c.X+dx/kx, c.WorldW)
	c.Y = mod(c.Y+dy/ky, c.WorldH)
}

// SetZoom sets the zoom level, clamped to [1, MaxZoom]. Zooming out to 1
// recentres the view.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, 1, c.MaxZoom)
	if c.Zoom == 1 {
		c.X = c.WorldW / 2
		c.Y = c.WorldH / 2
	}
}

// ZoomAt multiplies the zoom by factor, keeping the cell under screen point
// (sx, sy) fixed.
func (c *Camera) ZoomAt(factor, sx, sy float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.SetZoom(c.Zoom * factor)
	if c.Zoom == 1 {
		return
	}
	kx, ky := c.scale()
	c.X = mod(wx-(sx-c.ViewportW/2)/kx, c.WorldW)
	c.Y = mod(wy-(sy-c.ViewportH/2)/ky, c.WorldH)
}

// Reset returns the camera to the whole-grid view.
func (c *Camera) Reset() {
	c.SetZoom(1)
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size.
func toroidalDelta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	if r >= m {
		r = 0
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
