// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Sampling modes for sensor lookups.
const (
	SamplingNearest  = "nearest"
	SamplingBilinear = "bilinear"
)

// Diffusion kernels.
const (
	KernelCross5 = "cross5" // cell + 4 orthogonal neighbours
	KernelBox9   = "box9"   // cell + 8 neighbours
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Agents    AgentsConfig    `yaml:"agents"`
	Field     FieldConfig     `yaml:"field"`
	Nutrients NutrientsConfig `yaml:"nutrients"`
	Seeds     SeedsConfig     `yaml:"seeds"`
	Parallel  ParallelConfig  `yaml:"parallel"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the trail grid dimensions in cells.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// AgentsConfig holds agent population and motion parameters.
type AgentsConfig struct {
	Count          int     `yaml:"count"`
	RInit          float64 `yaml:"r_init"`           // Spawn radius around the domain centre
	Velocity       float64 `yaml:"velocity"`         // Cells per frame
	TurnSpeed      float64 `yaml:"turn_speed"`       // Radians per frame
	SensorAngle    float64 `yaml:"sensor_angle"`     // Outermost sensor offset (radians)
	SensorCount    int     `yaml:"sensor_count"`     // Odd number of sensors fanned over [-angle, +angle]
	SensorRangeMin float64 `yaml:"sensor_range_min"` // Sensor distance lower bound
	SensorRangeMax float64 `yaml:"sensor_range_max"` // Sensor distance upper bound
	Deposit        float64 `yaml:"deposit"`          // Trail added per agent per frame
	Sampling       string  `yaml:"sampling"`         // nearest | bilinear
}

// FieldConfig holds trail field parameters.
type FieldConfig struct {
	Decay  float64 `yaml:"decay"`  // Multiplier per frame, must be in (0,1)
	Kernel string  `yaml:"kernel"` // cross5 | box9
}

// NutrientsConfig holds the static attractor overlay parameters.
type NutrientsConfig struct {
	Count          int     `yaml:"count"` // n_fix
	RMin           float64 `yaml:"r_min"` // r_fix_min
	RMax           float64 `yaml:"r_max"` // r_fix_max
	Strength       float64 `yaml:"strength"`
	NoiseAmplitude float64 `yaml:"noise_amplitude"` // 0 disables texture modulation
	NoiseScale     float64 `yaml:"noise_scale"`
}

// SeedsConfig holds the run seeds.
// Seed1 drives initial placement, Seed2 drives per-frame steering jitter.
type SeedsConfig struct {
	Seed1 int64 `yaml:"seed_1"`
	Seed2 int64 `yaml:"seed_2"`
}

// ParallelConfig holds worker pool settings.
type ParallelConfig struct {
	Workers   int `yaml:"workers"`   // 0 = GOMAXPROCS
	Threshold int `yaml:"threshold"` // Below this many items a pass runs on the caller
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Frames between field stats records
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW32       float32   // World.Width as float32
	WorldH32       float32   // World.Height as float32
	SensorOffsets  []float32 // Angular offsets of each sensor, centre sensor in the middle
	CenterSensor   int       // Index of the straight-ahead sensor
	Cells          int       // World.Width * World.Height
	SteadyStateSum float64   // Analytic bound on total trail mass
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates the config and recomputes derived values.
// Call after mutating fields programmatically.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldH32 = float32(c.World.Height)
	c.Derived.Cells = c.World.Width * c.World.Height

	// Sensors fan evenly over [-angle, +angle]; a single sensor looks straight ahead.
	n := c.Agents.SensorCount
	c.Derived.SensorOffsets = make([]float32, n)
	c.Derived.CenterSensor = n / 2
	if n > 1 {
		step := 2 * c.Agents.SensorAngle / float64(n-1)
		for i := range c.Derived.SensorOffsets {
			c.Derived.SensorOffsets[i] = float32(-c.Agents.SensorAngle + float64(i)*step)
		}
	}
	c.Derived.SensorOffsets[c.Derived.CenterSensor] = 0

	// Mass obeys M' = decay*(M + N*deposit), so it converges to decay*N*deposit/(1-decay).
	c.Derived.SteadyStateSum = c.Field.Decay * float64(c.Agents.Count) * c.Agents.Deposit / (1 - c.Field.Decay)
}

// Validate checks parameter ranges. Any violation is fatal to startup.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"agents.velocity", c.Agents.Velocity},
		{"agents.turn_speed", c.Agents.TurnSpeed},
		{"agents.sensor_angle", c.Agents.SensorAngle},
		{"agents.sensor_range_min", c.Agents.SensorRangeMin},
		{"agents.sensor_range_max", c.Agents.SensorRangeMax},
		{"agents.deposit", c.Agents.Deposit},
		{"agents.r_init", c.Agents.RInit},
		{"nutrients.r_min", c.Nutrients.RMin},
		{"nutrients.r_max", c.Nutrients.RMax},
		{"nutrients.strength", c.Nutrients.Strength},
		{"nutrients.noise_amplitude", c.Nutrients.NoiseAmplitude},
		{"nutrients.noise_scale", c.Nutrients.NoiseScale},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return newConfigError(f.name, "must be finite, got %g", f.v)
		}
	}

	switch {
	case c.World.Width <= 0:
		return newConfigError("world.width", "must be positive, got %d", c.World.Width)
	case c.World.Height <= 0:
		return newConfigError("world.height", "must be positive, got %d", c.World.Height)
	case c.Agents.Count < 0:
		return newConfigError("agents.count", "must not be negative, got %d", c.Agents.Count)
	case c.Agents.RInit < 0:
		return newConfigError("agents.r_init", "must not be negative, got %g", c.Agents.RInit)
	case c.Agents.SensorCount < 1 || c.Agents.SensorCount%2 == 0:
		return newConfigError("agents.sensor_count", "must be a positive odd number, got %d", c.Agents.SensorCount)
	case c.Agents.TurnSpeed < 0 || c.Agents.TurnSpeed > 2*math.Pi:
		return newConfigError("agents.turn_speed", "must be in [0, 2pi], got %g", c.Agents.TurnSpeed)
	case c.Agents.SensorAngle < 0 || c.Agents.SensorAngle > math.Pi:
		return newConfigError("agents.sensor_angle", "must be in [0, pi], got %g", c.Agents.SensorAngle)
	case c.Agents.SensorRangeMin < 0:
		return newConfigError("agents.sensor_range_min", "must not be negative, got %g", c.Agents.SensorRangeMin)
	case c.Agents.SensorRangeMin > c.Agents.SensorRangeMax:
		return newConfigError("agents.sensor_range_min", "exceeds sensor_range_max (%g > %g)",
			c.Agents.SensorRangeMin, c.Agents.SensorRangeMax)
	case c.Agents.Deposit < 0:
		return newConfigError("agents.deposit", "must not be negative, got %g", c.Agents.Deposit)
	case c.Agents.Sampling != SamplingNearest && c.Agents.Sampling != SamplingBilinear:
		return newConfigError("agents.sampling", "unknown mode %q", c.Agents.Sampling)
	case !(c.Field.Decay > 0 && c.Field.Decay < 1):
		return newConfigError("field.decay", "must be in (0,1), got %g", c.Field.Decay)
	case c.Field.Kernel != KernelCross5 && c.Field.Kernel != KernelBox9:
		return newConfigError("field.kernel", "unknown kernel %q", c.Field.Kernel)
	case c.Nutrients.Count < 0:
		return newConfigError("nutrients.count", "must not be negative, got %d", c.Nutrients.Count)
	case c.Nutrients.Count > 0 && (c.Nutrients.RMin < 0 || c.Nutrients.RMin > c.Nutrients.RMax):
		return newConfigError("nutrients.r_min", "must be in [0, r_max], got %g (r_max %g)",
			c.Nutrients.RMin, c.Nutrients.RMax)
	case c.Nutrients.Strength < 0:
		return newConfigError("nutrients.strength", "must not be negative, got %g", c.Nutrients.Strength)
	case c.Parallel.Workers < 0:
		return newConfigError("parallel.workers", "must not be negative, got %d", c.Parallel.Workers)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
