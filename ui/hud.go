package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Frame          uint64
	Agents         int
	GridW, GridH   int
	StepsPerUpdate int
	FPS            int32
	FramesPerSec   float64 // simulation frames per wall-clock second
	Paused         bool
	Mass           float32
	MassBound      float32
	Zones          int
	Health         string // empty when healthy
	Probe          string // cell under the cursor
}

// HUDActions reports which buttons were pressed this frame.
type HUDActions struct {
	TogglePause bool
	Step        bool
	Reset       bool
	Faster      bool
	Slower      bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		width:    300,
	}
}

// Draw renders the HUD and its buttons.
func (h *HUD) Draw(data HUDData) HUDActions {
	r := h.renderer
	t := r.Theme
	x := t.Padding
	y := t.Padding

	r.DrawPanel(x-5, y-5, h.width, 9*t.LineHeight+int32(t.ButtonHeight)+2*t.Padding)

	y = r.DrawSectionHeader(x, y, data.Title)
	y = r.DrawLabelValue(x, y, "Frame", fmt.Sprintf("%d", data.Frame))
	y = r.DrawLabelValue(x, y, "Agents", fmt.Sprintf("%d on %dx%d", data.Agents, data.GridW, data.GridH))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%dx  %.0f frames/s  %d FPS", data.StepsPerUpdate, data.FramesPerSec, data.FPS))
	y = r.DrawLabelValue(x, y, "Zones", fmt.Sprintf("%d", data.Zones))
	y = r.DrawRatioBar(x, y, "Mass", data.Mass, data.MassBound, h.width-2*t.Padding)
	y = r.DrawLabelValue(x, y, "Cell", data.Probe)

	status := "Running"
	statusColor := rl.Green
	if data.Paused {
		status = "PAUSED"
		statusColor = rl.Yellow
	}
	if data.Health != "" {
		status = data.Health
		statusColor = rl.Red
	}
	rl.DrawText(status, x, y, t.FontSize, statusColor)
	y += t.LineHeight + 4

	var a HUDActions
	bx, by := float32(x), float32(y)
	step := t.ButtonWidth + 4
	a.TogglePause = gui.Button(rl.Rectangle{X: bx, Y: by, Width: t.ButtonWidth, Height: t.ButtonHeight}, toggleText(data.Paused, "Resume", "Pause"))
	a.Step = gui.Button(rl.Rectangle{X: bx + step, Y: by, Width: t.ButtonWidth / 2, Height: t.ButtonHeight}, "Step")
	a.Slower = gui.Button(rl.Rectangle{X: bx + step + t.ButtonWidth/2 + 4, Y: by, Width: t.ButtonWidth / 3, Height: t.ButtonHeight}, "<")
	a.Faster = gui.Button(rl.Rectangle{X: bx + step + t.ButtonWidth/2 + t.ButtonWidth/3 + 8, Y: by, Width: t.ButtonWidth / 3, Height: t.ButtonHeight}, ">")
	a.Reset = gui.Button(rl.Rectangle{X: bx + 2*step + t.ButtonWidth/6 + 8, Y: by, Width: t.ButtonWidth, Height: t.ButtonHeight}, "Reset")
	return a
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
