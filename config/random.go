package config

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
)

// ParamRange documents the range a tunable parameter is drawn from when no
// usable configuration source exists.
type ParamRange struct {
	Name string  // Config path
	Min  float64 // Lower bound
	Max  float64 // Upper bound
	get  func(*Config) *float64
}

// Ranges lists every tunable parameter with its documented range.
var Ranges = []ParamRange{
	{Name: "agents.r_init", Min: 20, Max: 250, get: func(c *Config) *float64 { return &c.Agents.RInit }},
	{Name: "agents.velocity", Min: 0.5, Max: 2.0, get: func(c *Config) *float64 { return &c.Agents.Velocity }},
	{Name: "agents.turn_speed", Min: 0.05, Max: 0.8, get: func(c *Config) *float64 { return &c.Agents.TurnSpeed }},
	{Name: "agents.sensor_angle", Min: 0.1, Max: 1.2, get: func(c *Config) *float64 { return &c.Agents.SensorAngle }},
	{Name: "agents.sensor_range_min", Min: 1, Max: 12, get: func(c *Config) *float64 { return &c.Agents.SensorRangeMin }},
	{Name: "agents.sensor_range_max", Min: 12, Max: 40, get: func(c *Config) *float64 { return &c.Agents.SensorRangeMax }},
	{Name: "agents.deposit", Min: 0.005, Max: 0.2, get: func(c *Config) *float64 { return &c.Agents.Deposit }},
	{Name: "field.decay", Min: 0.5, Max: 0.98, get: func(c *Config) *float64 { return &c.Field.Decay }},
	{Name: "nutrients.r_min", Min: 4, Max: 16, get: func(c *Config) *float64 { return &c.Nutrients.RMin }},
	{Name: "nutrients.r_max", Min: 16, Max: 48, get: func(c *Config) *float64 { return &c.Nutrients.RMax }},
	{Name: "nutrients.strength", Min: 0, Max: 1, get: func(c *Config) *float64 { return &c.Nutrients.Strength }},
}

// RangeByName returns the documented range for a config path.
func RangeByName(name string) (ParamRange, bool) {
	for _, r := range Ranges {
		if r.Name == name {
			return r, true
		}
	}
	return ParamRange{}, false
}

// Set writes v into the field this range describes.
func (r ParamRange) Set(c *Config, v float64) {
	*r.get(c) = v
}

// Value reads the field this range describes.
func (r ParamRange) Value(c *Config) float64 {
	return *r.get(c)
}

// Clamp limits v to [Min, Max].
func (r ParamRange) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Random returns the embedded defaults with every tunable parameter redrawn
// uniformly from its documented range. Seeds are derived from seed.
func Random(seed int64) *Config {
	cfg := Default()
	rng := rand.New(rand.NewSource(seed))
	for _, r := range Ranges {
		r.Set(cfg, r.Min+rng.Float64()*(r.Max-r.Min))
	}
	cfg.Nutrients.Count = rng.Intn(9)
	cfg.Seeds.Seed1 = rng.Int63()
	cfg.Seeds.Seed2 = rng.Int63()

	// Ranges are disjoint where ordering matters, so this cannot fail.
	if err := cfg.Finalize(); err != nil {
		panic(fmt.Sprintf("config: random draw invalid: %v", err))
	}
	return cfg
}

// LoadOrRandom loads path like Load. If the source is missing, malformed or
// fails validation, it logs a warning and falls back to Random(seed).
func LoadOrRandom(path string, seed int64, logger *slog.Logger) *Config {
	cfg, err := Load(path)
	if err == nil {
		return cfg
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("config unusable, falling back to randomized parameters",
		"path", path,
		"error", err,
		"seed", seed,
	)
	return Random(seed)
}
