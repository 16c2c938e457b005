package config

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.World.Width != 512 || cfg.World.Height != 512 {
		t.Errorf("expected 512x512 world, got %dx%d", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Field.Decay <= 0 || cfg.Field.Decay >= 1 {
		t.Errorf("default decay %f outside (0,1)", cfg.Field.Decay)
	}
	if len(cfg.Derived.SensorOffsets) != cfg.Agents.SensorCount {
		t.Errorf("expected %d sensor offsets, got %d", cfg.Agents.SensorCount, len(cfg.Derived.SensorOffsets))
	}
}

func TestSensorOffsetsFan(t *testing.T) {
	cfg := Default()
	cfg.Agents.SensorCount = 5
	cfg.Agents.SensorAngle = 1.0
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}

	want := []float32{-1, -0.5, 0, 0.5, 1}
	for i, w := range want {
		if got := cfg.Derived.SensorOffsets[i]; got != w {
			t.Errorf("offset[%d] = %f, want %f", i, got, w)
		}
	}
	if cfg.Derived.CenterSensor != 2 {
		t.Errorf("expected centre sensor 2, got %d", cfg.Derived.CenterSensor)
	}
}

func TestLoadOverridesOnlyListedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte("field:\n  decay: 0.5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Field.Decay != 0.5 {
		t.Errorf("expected decay 0.5, got %f", cfg.Field.Decay)
	}
	if cfg.Field.Kernel != KernelBox9 {
		t.Errorf("expected default kernel preserved, got %q", cfg.Field.Kernel)
	}
}

func TestValidateRejectsBadRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"sensor range inverted", func(c *Config) { c.Agents.SensorRangeMin, c.Agents.SensorRangeMax = 10, 5 }, "agents.sensor_range_min"},
		{"decay zero", func(c *Config) { c.Field.Decay = 0 }, "field.decay"},
		{"decay one", func(c *Config) { c.Field.Decay = 1 }, "field.decay"},
		{"decay above one", func(c *Config) { c.Field.Decay = 1.2 }, "field.decay"},
		{"even sensors", func(c *Config) { c.Agents.SensorCount = 4 }, "agents.sensor_count"},
		{"bad kernel", func(c *Config) { c.Field.Kernel = "gauss" }, "field.kernel"},
		{"bad sampling", func(c *Config) { c.Agents.Sampling = "cubic" }, "agents.sampling"},
		{"negative agents", func(c *Config) { c.Agents.Count = -1 }, "agents.count"},
		{"zero width", func(c *Config) { c.World.Width = 0 }, "world.width"},
		{"nutrient radii inverted", func(c *Config) { c.Nutrients.RMin, c.Nutrients.RMax = 30, 10 }, "nutrients.r_min"},
		{"huge turn speed", func(c *Config) { c.Agents.TurnSpeed = 1e10 }, "agents.turn_speed"},
		{"negative turn speed", func(c *Config) { c.Agents.TurnSpeed = -0.1 }, "agents.turn_speed"},
		{"huge sensor angle", func(c *Config) { c.Agents.SensorAngle = 1e20 }, "agents.sensor_angle"},
		{"negative sensor angle", func(c *Config) { c.Agents.SensorAngle = -0.5 }, "agents.sensor_angle"},
		{"nan turn speed", func(c *Config) { c.Agents.TurnSpeed = math.NaN() }, "agents.turn_speed"},
		{"nan sensor angle", func(c *Config) { c.Agents.SensorAngle = math.NaN() }, "agents.sensor_angle"},
		{"nan sensor range min", func(c *Config) { c.Agents.SensorRangeMin = math.NaN() }, "agents.sensor_range_min"},
		{"inf sensor range max", func(c *Config) { c.Agents.SensorRangeMax = math.Inf(1) }, "agents.sensor_range_max"},
		{"nan nutrient r_min", func(c *Config) { c.Nutrients.RMin = math.NaN() }, "nutrients.r_min"},
		{"inf nutrient r_max", func(c *Config) { c.Nutrients.RMax = math.Inf(1) }, "nutrients.r_max"},
		{"nan velocity", func(c *Config) { c.Agents.Velocity = math.NaN() }, "agents.velocity"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			var cerr *ConfigurationError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
			if cerr.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, cerr.Field)
			}
		})
	}
}

func TestNegativeVelocityAllowed(t *testing.T) {
	cfg := Default()
	cfg.Agents.Velocity = -1
	if err := cfg.Validate(); err != nil {
		t.Errorf("negative velocity should be accepted, got %v", err)
	}
}

func TestRandomWithinRanges(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		cfg := Random(seed)
		for _, r := range Ranges {
			v := r.Value(cfg)
			if v < r.Min || v > r.Max {
				t.Errorf("seed %d: %s = %f outside [%f, %f]", seed, r.Name, v, r.Min, r.Max)
			}
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("seed %d: random config invalid: %v", seed, err)
		}
	}
}

func TestRandomDeterministic(t *testing.T) {
	a, b := Random(7), Random(7)
	if a.Field.Decay != b.Field.Decay || a.Seeds != b.Seeds || a.Agents.TurnSpeed != b.Agents.TurnSpeed {
		t.Error("expected identical configs for identical seeds")
	}
}

func TestLoadOrRandomFallsBack(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Missing file
	cfg := LoadOrRandom(filepath.Join(dir, "missing.yaml"), 3, logger)
	if cfg.Field.Decay != Random(3).Field.Decay {
		t.Error("expected randomized fallback for missing file")
	}

	// Malformed file
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("field: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if cfg := LoadOrRandom(bad, 3, logger); cfg == nil {
		t.Fatal("expected config for malformed file")
	}

	// Invalid values
	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("field:\n  decay: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if cfg := LoadOrRandom(invalid, 3, logger); cfg.Field.Decay >= 1 {
		t.Errorf("expected fallback decay in (0,1), got %f", cfg.Field.Decay)
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Random(11)
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Field.Decay != cfg.Field.Decay || loaded.Seeds != cfg.Seeds {
		t.Error("written config did not load back identically")
	}
}
