package systems

import (
	"github.com/pthm-cable/slime/config"
)

// Kernel selects the diffusion neighbourhood.
type Kernel uint8

const (
	KernelCross5 Kernel = iota // cell + 4 orthogonal neighbours
	KernelBox9                 // cell + 8 neighbours
)

// Size returns the number of cells the kernel averages over.
func (k Kernel) Size() int {
	if k == KernelBox9 {
		return 9
	}
	return 5
}

// NutrientParams configures the static attractor overlay.
type NutrientParams struct {
	Count          int
	RMin, RMax     float32
	Strength       float32
	NoiseAmplitude float32
	NoiseScale     float32
}

// Params is the immutable parameter set for one run. It is built once from a
// validated config and shared by pointer with every pass; nothing writes to
// it after NewParams returns.
type Params struct {
	Width, Height int
	W32, H32      float32

	NumAgents int
	RInit     float32

	Velocity       float32
	TurnSpeed      float32
	SensorOffsets  []float32
	CenterSensor   int
	SensorRangeMin float32
	SensorRangeMax float32
	Deposit        float32
	Bilinear       bool

	Decay  float32
	Kernel Kernel

	Nutrients NutrientParams

	Seed1 int64  // initial placement
	Seed2 uint64 // steering jitter

	// MassBound is the analytic steady-state total trail mass.
	MassBound float64
}

// NewParams builds a Params from cfg. The config is validated first, so an
// invalid range surfaces here, before any frame runs.
func NewParams(cfg *config.Config) (*Params, error) {
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}

	kernel := KernelCross5
	if cfg.Field.Kernel == config.KernelBox9 {
		kernel = KernelBox9
	}

	offsets := make([]float32, len(cfg.Derived.SensorOffsets))
	copy(offsets, cfg.Derived.SensorOffsets)

	return &Params{
		Width:  cfg.World.Width,
		Height: cfg.World.Height,
		W32:    cfg.Derived.WorldW32,
		H32:    cfg.Derived.WorldH32,

		NumAgents: cfg.Agents.Count,
		RInit:     float32(cfg.Agents.RInit),

		Velocity:       float32(cfg.Agents.Velocity),
		TurnSpeed:      float32(cfg.Agents.TurnSpeed),
		SensorOffsets:  offsets,
		CenterSensor:   cfg.Derived.CenterSensor,
		SensorRangeMin: float32(cfg.Agents.SensorRangeMin),
		SensorRangeMax: float32(cfg.Agents.SensorRangeMax),
		Deposit:        float32(cfg.Agents.Deposit),
		Bilinear:       cfg.Agents.Sampling == config.SamplingBilinear,

		Decay:  float32(cfg.Field.Decay),
		Kernel: kernel,

		Nutrients: NutrientParams{
			Count:          cfg.Nutrients.Count,
			RMin:           float32(cfg.Nutrients.RMin),
			RMax:           float32(cfg.Nutrients.RMax),
			Strength:       float32(cfg.Nutrients.Strength),
			NoiseAmplitude: float32(cfg.Nutrients.NoiseAmplitude),
			NoiseScale:     float32(cfg.Nutrients.NoiseScale),
		},

		Seed1: cfg.Seeds.Seed1,
		Seed2: uint64(cfg.Seeds.Seed2),

		MassBound: cfg.Derived.SteadyStateSum,
	}, nil
}

// Cells returns the number of grid cells.
func (p *Params) Cells() int {
	return p.Width * p.Height
}
