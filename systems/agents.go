package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/slime/components"
)

// SpawnAgents places p.NumAgents agents around the domain centre.
// Each agent gets a radius drawn uniformly from [0, RInit), a uniform polar
// angle, and an independent uniform heading. The draw order is fixed so the
// same Seed1 always yields the same population.
func SpawnAgents(p *Params, dst []components.Agent) []components.Agent {
	rng := rand.New(rand.NewSource(p.Seed1))
	if cap(dst) < p.NumAgents {
		dst = make([]components.Agent, p.NumAgents)
	}
	dst = dst[:p.NumAgents]

	cx := p.W32 * 0.5
	cy := p.H32 * 0.5
	for i := range dst {
		phiPos := rng.Float64() * 2 * math.Pi
		radius := rng.Float64() * float64(p.RInit)
		x := float64(cx) + math.Cos(phiPos)*radius
		y := float64(cy) + math.Sin(phiPos)*radius
		dst[i] = components.Agent{
			X:       wrap(float32(x), p.W32),
			Y:       wrap(float32(y), p.H32),
			Heading: float32(rng.Float64() * 2 * math.Pi),
		}
	}
	return dst
}

// AgentScratch holds per-worker reusable buffers.
type AgentScratch struct {
	Samples []float32
	Ties    []int
}

// NewAgentScratch sizes scratch buffers for p's sensor fan.
func NewAgentScratch(p *Params) *AgentScratch {
	return &AgentScratch{
		Samples: make([]float32, len(p.SensorOffsets)),
		Ties:    make([]int, 0, len(p.SensorOffsets)),
	}
}

// AgentStepper senses, steers, moves and deposits for a range of agents.
//
// It reads only the field's current buffer and the overlay, writes only the
// agents in its range and the field's hit counters, and so any partition of
// the population may run concurrently.
type AgentStepper struct {
	params  *Params
	field   *Field
	overlay *NutrientOverlay
}

// NewAgentStepper creates a stepper over field, with an optional overlay.
func NewAgentStepper(p *Params, field *Field, overlay *NutrientOverlay) *AgentStepper {
	return &AgentStepper{params: p, field: field, overlay: overlay}
}

// StepRange advances agents[i0:i1] by one frame.
func (s *AgentStepper) StepRange(agents []components.Agent, i0, i1 int, frame uint64, scratch *AgentScratch) {
	p := s.params
	smp := sampler{
		trail:    s.field.Current(),
		w:        p.Width,
		h:        p.Height,
		bilinear: p.Bilinear,
	}
	if s.overlay != nil {
		smp.overlay = s.overlay.Data
	}

	offsets := p.SensorOffsets
	samples := scratch.Samples[:len(offsets)]
	span := p.SensorRangeMax - p.SensorRangeMin

	for i := i0; i < i1; i++ {
		a := &agents[i]
		h := agentHash(p.Seed2, i, frame)

		// One sensed distance per agent per frame, shared by the whole fan.
		dist := p.SensorRangeMin + unitFloat(h)*span
		for k, off := range offsets {
			ang := a.Heading + off
			sx := a.X + fastCos(ang)*dist
			sy := a.Y + fastSin(ang)*dist
			samples[k] = smp.at(sx, sy)
		}

		heading := a.Heading + steer(samples, offsets, p.CenterSensor, mix64(h), scratch)*p.TurnSpeed
		heading = normalizeHeading(heading)

		x := wrap(a.X+p.Velocity*fastCos(heading), p.W32)
		y := wrap(a.Y+p.Velocity*fastSin(heading), p.H32)

		a.X, a.Y, a.Heading = x, y, heading
		s.field.AddHit(s.field.CellAt(x, y))
	}
}

// steer returns the turn direction: -1, 0 or +1.
//
// The agent keeps its heading when the centre sensor is among the highest
// samples. Otherwise it turns toward the side of the highest sample; when
// several side sensors share the maximum, tieBits picks one of them.
func steer(samples, offsets []float32, center int, tieBits uint64, scratch *AgentScratch) float32 {
	best := samples[center]
	for _, v := range samples {
		if v > best {
			best = v
		}
	}
	// Negated so a NaN centre also holds course.
	if !(samples[center] < best) {
		return 0
	}

	ties := scratch.Ties[:0]
	for k, v := range samples {
		if v == best {
			ties = append(ties, k)
		}
	}
	scratch.Ties = ties

	pick := ties[0]
	if len(ties) > 1 {
		pick = ties[tieBits%uint64(len(ties))]
	}
	if offsets[pick] < 0 {
		return -1
	}
	return 1
}
