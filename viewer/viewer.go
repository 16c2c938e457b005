// Package viewer drives a game.Game from a raylib window.
package viewer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/camera"
	"github.com/pthm-cable/slime/game"
	"github.com/pthm-cable/slime/renderer"
	"github.com/pthm-cable/slime/ui"
)

const controlsText = "SPACE: Pause | S: Step | R: Reset | N: Nutrients | < >: Speed | Wheel/drag: Zoom/Pan | Home: Whole grid | P: Perf"

// Viewer renders the settled field each frame and maps input to game
// controls. The window must exist before New is called.
type Viewer struct {
	g     *game.Game
	title string

	trail  *renderer.TrailRenderer
	hud    *ui.HUD
	camera *camera.Camera

	showNutrients bool
	screenWidth   float32
	screenHeight  float32
}

// New creates a viewer for g sized to the current window.
func New(g *game.Game, title string) *Viewer {
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	v := &Viewer{
		g:             g,
		title:         title,
		trail:         renderer.NewTrailRenderer(w, h),
		hud:           ui.NewHUD(),
		showNutrients: true,
		screenWidth:   float32(w),
		screenHeight:  float32(h),
	}
	view := g.Simulation().View()
	v.trail.Init(view.W, view.H)
	v.camera = camera.New(float32(w), float32(h), float32(view.W), float32(view.H))
	return v
}

// Update handles input and advances the game.
func (v *Viewer) Update() {
	v.handleInput()
	v.g.Update()
}

// Draw renders the field, HUD and control legend, then applies any HUD
// button presses.
func (v *Viewer) Draw() {
	sim := v.g.Simulation()
	overlay := sim.Overlay()
	if !v.showNutrients {
		overlay = nil
	}
	v.trail.Update(sim.View(), overlay)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	v.trail.Draw(v.camera)

	actions := v.hud.Draw(v.hudData())
	v.hud.DrawControls(int32(v.screenHeight), controlsText)
	rl.EndDrawing()

	v.apply(actions)
}

func (v *Viewer) hudData() ui.HUDData {
	sim := v.g.Simulation()
	p := sim.Params()
	stats := v.g.LastStats()
	perf := v.g.Perf().Stats()

	var health string
	if err := v.g.Health(); err != nil {
		health = fmt.Sprintf("DEGENERATE: %v", err)
	}

	return ui.HUDData{
		Title:          v.title,
		Frame:          sim.Frame(),
		Agents:         p.NumAgents,
		GridW:          p.Width,
		GridH:          p.Height,
		StepsPerUpdate: v.g.StepsPerUpdate(),
		FPS:            rl.GetFPS(),
		FramesPerSec:   perf.FramesPerSecond,
		Paused:         v.g.Paused(),
		Mass:           float32(stats.Mass),
		MassBound:      float32(sim.MassBound()),
		Zones:          len(sim.Overlay().Zones()),
		Health:         health,
		Probe:          v.probe(),
	}
}

// probe describes the cell under the mouse cursor.
func (v *Viewer) probe() string {
	m := rl.GetMousePosition()
	wx, wy := v.camera.ScreenToWorld(m.X, m.Y)
	x, y := int(wx), int(wy)
	sim := v.g.Simulation()
	trail := sim.View().At(x, y)
	if n := sim.Overlay().At(x, y); n > 0 {
		return fmt.Sprintf("(%d, %d) trail %.4f nutrient %.3f", x, y, trail, n)
	}
	return fmt.Sprintf("(%d, %d) trail %.4f", x, y, trail)
}

func (v *Viewer) apply(a ui.HUDActions) {
	if a.TogglePause {
		v.g.TogglePause()
	}
	if a.Step {
		v.g.StepOnce()
	}
	if a.Faster {
		v.g.Faster()
	}
	if a.Slower {
		v.g.Slower()
	}
	if a.Reset {
		v.reset()
	}
}

func (v *Viewer) reset() {
	v.g.Reset()
	v.trail.ResetExposure()
}

// Unload frees GPU resources. The game is unloaded separately.
func (v *Viewer) Unload() {
	v.trail.Unload()
}
