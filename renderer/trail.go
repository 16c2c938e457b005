package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/slime/camera"
	"github.com/pthm-cable/slime/systems"
)

// exposureDecay smooths the brightness scale across frames.
const exposureDecay = 0.95

// TrailRenderer uploads the settled trail field to a texture and draws it
// scaled to the window.
type TrailRenderer struct {
	tex        rl.Texture2D
	texW, texH int
	pixels     []color.RGBA

	// Brightness scale, tracks the field peak with some lag
	exposure float32

	screenW, screenH float32
	initialized      bool
}

// NewTrailRenderer creates a trail renderer for the given window size.
func NewTrailRenderer(screenW, screenH int32) *TrailRenderer {
	return &TrailRenderer{
		screenW: float32(screenW),
		screenH: float32(screenH),
	}
}

// Init creates the texture (must be called after raylib window is created).
func (r *TrailRenderer) Init(gridW, gridH int) {
	if r.initialized {
		return
	}

	r.texW = gridW
	r.texH = gridH
	r.pixels = make([]color.RGBA, gridW*gridH)

	img := rl.GenImageColor(gridW, gridH, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.SetTextureWrap(r.tex, rl.WrapRepeat)
	rl.UnloadImage(img)

	r.initialized = true
}

// Resize updates screen dimensions.
func (r *TrailRenderer) Resize(w, h float32) {
	r.screenW = w
	r.screenH = h
}

// Update converts a settled field (and optional nutrient overlay) to pixels
// and uploads them.
func (r *TrailRenderer) Update(view systems.View, overlay *systems.NutrientOverlay) {
	if !r.initialized {
		r.Init(view.W, view.H)
	}
	data := view.Data()
	if len(data) != r.texW*r.texH || len(data) == 0 {
		return
	}

	peak := data[blas32.Iamax(blas32.Vector{N: len(data), Inc: 1, Data: data})]
	if peak > r.exposure {
		r.exposure = peak
	} else {
		r.exposure = r.exposure*exposureDecay + peak*(1-exposureDecay)
	}
	// Filaments rarely come near the single hottest cell.
	scale := r.exposure * 0.5

	for i, v := range data {
		c := TrailColor(v, scale)
		if overlay != nil {
			c = tintNutrient(c, overlay.Data[i])
		}
		r.pixels[i] = c
	}

	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the region of the grid the camera sees to fill the window.
// The texture wraps, so the view may straddle grid edges.
func (r *TrailRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}
	x, y, w, h := cam.SourceRect()
	srcRect := rl.Rectangle{X: x, Y: y, Width: w, Height: h}
	dstRect := rl.Rectangle{X: 0, Y: 0, Width: r.screenW, Height: r.screenH}
	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
}

// ResetExposure forgets the brightness history, e.g. after a simulation reset.
func (r *TrailRenderer) ResetExposure() {
	r.exposure = 0
}

// Unload frees GPU resources.
func (r *TrailRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
