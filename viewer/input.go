package viewer

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		v.g.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		v.g.StepOnce()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.reset()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		v.showNutrients = !v.showNutrients
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.g.LogPerfStats()
	}

	v.handleCameraInput()

	// Speed control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		v.g.Slower()
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.g.Faster()
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth = w
	v.screenHeight = h
	v.trail.Resize(w, h)
	v.camera.Resize(w, h)
}

// handleCameraInput processes camera pan/zoom controls.
func (v *Viewer) handleCameraInput() {
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		m := rl.GetMousePosition()
		factor := float32(1.1)
		if wheel < 0 {
			factor = 1 / factor
		}
		v.camera.ZoomAt(factor, m.X, m.Y)
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) || rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		v.camera.Pan(-d.X, -d.Y)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		v.camera.Reset()
	}
}
