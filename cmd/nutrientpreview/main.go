// Nutrient overlay preview tool - interactive placement and texture tuning
// with sliders.
//
// Usage: go run ./cmd/nutrientpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/renderer"
	"github.com/pthm-cable/slime/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

// slider describes one float parameter on the control panel.
type slider struct {
	label    string
	min, max float32
	format   string
	value    func(*config.Config) *float64
}

var sliders = []slider{
	{"Radius min", 0, 64, "%.1f", func(c *config.Config) *float64 { return &c.Nutrients.RMin }},
	{"Radius max", 0, 128, "%.1f", func(c *config.Config) *float64 { return &c.Nutrients.RMax }},
	{"Strength", 0, 2, "%.2f", func(c *config.Config) *float64 { return &c.Nutrients.Strength }},
	{"Noise amplitude (0 = flat disks)", 0, 1, "%.2f", func(c *config.Config) *float64 { return &c.Nutrients.NoiseAmplitude }},
	{"Noise scale (cycles per cell)", 0.005, 0.2, "%.3f", func(c *config.Config) *float64 { return &c.Nutrients.NoiseScale }},
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	flag.Parse()

	base, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	rl.InitWindow(windowWidth, windowHeight, "Nutrient Overlay Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	cfg := *base
	img := rl.GenImageColor(cfg.World.Width, cfg.World.Height, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)
	pixels := make([]color.RGBA, cfg.World.Width*cfg.World.Height)

	var overlay *systems.NutrientOverlay
	var buildErr error
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			overlay, buildErr = build(&cfg)
			updateTexture(texture, pixels, overlay)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(cfg.World.Width), Height: float32(cfg.World.Height)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		drawZoneOutlines(overlay, &cfg)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		if buildErr != nil {
			rl.DrawText(buildErr.Error(), 15, statsY, 16, rl.Red)
		} else {
			drawStats(overlay, statsY)
		}

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Nutrient Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Zone count", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newCount := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "16",
			float32(cfg.Nutrients.Count), 0, 16,
		)
		rl.DrawText(fmt.Sprintf("%d", cfg.Nutrients.Count), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newCount) != cfg.Nutrients.Count {
			cfg.Nutrients.Count = int(newCount)
			needsRegen = true
		}
		panelY += 35

		for _, s := range sliders {
			p := s.value(&cfg)
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				fmt.Sprintf(s.format, s.min), fmt.Sprintf(s.format, s.max),
				float32(*p), s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, *p), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if v != float32(*p) {
				*p = float64(v)
				needsRegen = true
			}
			panelY += 35
		}

		rl.DrawText("Seed 1", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "99999",
			float32(cfg.Seeds.Seed1), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", cfg.Seeds.Seed1), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != cfg.Seeds.Seed1 {
			cfg.Seeds.Seed1 = int64(newSeed)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			cfg.Seeds.Seed1 = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			cfg = *base
			needsRegen = true
		}
		panelY += 55

		snippet := yamlSnippet(&cfg)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range strings.Split(snippet, "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
}

// build rasterizes the overlay the simulation would use for cfg.
func build(cfg *config.Config) (*systems.NutrientOverlay, error) {
	p, err := systems.NewParams(cfg)
	if err != nil {
		return nil, err
	}
	return systems.NewNutrientOverlay(p), nil
}

func updateTexture(texture rl.Texture2D, pixels []color.RGBA, overlay *systems.NutrientOverlay) {
	var peak float32
	if overlay != nil {
		for _, v := range overlay.Data {
			if v > peak {
				peak = v
			}
		}
	}
	for i := range pixels {
		var v float32
		if overlay != nil {
			v = overlay.Data[i]
		}
		pixels[i] = renderer.NutrientColor(v, peak)
	}
	rl.UpdateTexture(texture, pixels)
}

func drawZoneOutlines(overlay *systems.NutrientOverlay, cfg *config.Config) {
	sx := float32(previewSize) / float32(cfg.World.Width)
	sy := float32(previewSize) / float32(cfg.World.Height)
	for _, z := range overlay.Zones() {
		rl.DrawCircleLines(int32(10+z.X*sx), int32(10+z.Y*sy), z.Radius*sx, rl.Fade(rl.White, 0.5))
	}
}

func drawStats(overlay *systems.NutrientOverlay, y int32) {
	if overlay == nil {
		rl.DrawText("No zones", 15, y, 16, rl.DarkGray)
		return
	}
	var covered int
	var maxVal float32
	for _, v := range overlay.Data {
		if v > 0 {
			covered++
		}
		if v > maxVal {
			maxVal = v
		}
	}
	pct := 100 * float32(covered) / float32(len(overlay.Data))
	rl.DrawText(fmt.Sprintf("Zones: %d  Coverage: %.1f%%  Max: %.3f", len(overlay.Zones()), pct, maxVal), 15, y, 16, rl.DarkGray)
}

// yamlSnippet renders the nutrient and seed sections as they would appear in
// a config file.
func yamlSnippet(cfg *config.Config) string {
	out := struct {
		Nutrients config.NutrientsConfig `yaml:"nutrients"`
		Seeds     config.SeedsConfig     `yaml:"seeds"`
	}{cfg.Nutrients, cfg.Seeds}
	data, err := yaml.Marshal(out)
	if err != nil {
		return err.Error()
	}
	return strings.TrimRight(string(data), "\n")
}
