package game

import (
	"context"
	"log/slog"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/systems"
	"github.com/pthm-cable/slime/telemetry"
)

// Phase is the frame phase the simulation is currently in.
type Phase uint8

const (
	PhaseSteppingAgents Phase = iota
	PhaseDiffusing
)

func (p Phase) String() string {
	if p == PhaseDiffusing {
		return "diffusing"
	}
	return "stepping_agents"
}

// Simulation advances agents and trail field one frame at a time.
//
// A frame is: agent pass, barrier, deposit fold, barrier, diffusion, barrier,
// swap. Step either runs all of it or none of it, so callers only ever see
// settled frames.
type Simulation struct {
	params  *systems.Params
	field   *systems.Field
	overlay *systems.NutrientOverlay
	agents  []components.Agent

	stepper  *systems.AgentStepper
	diffuser *systems.Diffuser
	pool     *workerPool
	scratch  []*systems.AgentScratch

	frame     uint64
	phase     Phase
	massBound float64

	perf *telemetry.PerfCollector // optional
}

// NewSimulation builds the field, overlay and agent population for p.
// workers <= 0 uses GOMAXPROCS; threshold <= 0 uses the default.
// perf may be nil.
func NewSimulation(p *systems.Params, workers, threshold int, perf *telemetry.PerfCollector) *Simulation {
	field := systems.NewField(p.Width, p.Height)
	overlay := systems.NewNutrientOverlay(p)
	pool := newWorkerPool(workers, threshold)

	s := &Simulation{
		params:   p,
		field:    field,
		overlay:  overlay,
		stepper:  systems.NewAgentStepper(p, field, overlay),
		diffuser: systems.NewDiffuser(p, field),
		pool:     pool,
		scratch:  make([]*systems.AgentScratch, pool.numWorkers),
		perf:     perf,
	}
	for i := range s.scratch {
		s.scratch[i] = systems.NewAgentScratch(p)
	}
	s.Reset()
	return s
}

// Reset respawns the population from Seed1, clears the field and rewinds the
// frame counter. The result is identical to a freshly constructed simulation.
func (s *Simulation) Reset() {
	s.agents = systems.SpawnAgents(s.params, s.agents)
	s.field.Clear()
	s.frame = 0
	s.phase = PhaseSteppingAgents
	s.massBound = systems.MassBound(s.params, 0)
}

// Step advances the simulation by exactly one frame.
func (s *Simulation) Step() {
	p := s.params
	frame := s.frame

	s.startPhase(telemetry.PhaseAgents)
	s.phase = PhaseSteppingAgents
	s.pool.run(len(s.agents), 1, func(start, end, worker int) {
		s.stepper.StepRange(s.agents, start, end, frame, s.scratch[worker])
	})

	s.startPhase(telemetry.PhaseDeposit)
	s.phase = PhaseDiffusing
	s.pool.run(p.Cells(), 1, s.foldChunk)

	s.startPhase(telemetry.PhaseDiffuse)
	s.pool.run(p.Height, p.Width, s.diffuseChunk)

	s.startPhase(telemetry.PhaseSwap)
	s.field.Swap()
	s.frame++
	s.phase = PhaseSteppingAgents
}

func (s *Simulation) foldChunk(start, end, _ int) {
	s.diffuser.FoldRange(start, end)
}

func (s *Simulation) diffuseChunk(start, end, _ int) {
	s.diffuser.DiffuseRows(start, end)
}

func (s *Simulation) startPhase(name string) {
	if s.perf != nil {
		s.perf.StartPhase(name)
	}
}

// Run steps until ctx is cancelled or maxFrames frames have run (0 means no
// limit). onFrame, if non-nil, is called after each committed frame; a
// non-nil error from it stops the run. Cancellation is only observed between
// frames.
func (s *Simulation) Run(ctx context.Context, maxFrames uint64, onFrame func(*Simulation) error) error {
	for n := uint64(0); maxFrames == 0 || n < maxFrames; n++ {
		if err := ctx.Err(); err != nil {
			slog.Info("simulation stopped", "frame", s.frame, "reason", err)
			return err
		}
		if s.perf != nil {
			s.perf.StartFrame()
		}
		s.Step()
		var err error
		if onFrame != nil {
			s.startPhase(telemetry.PhaseTelemetry)
			err = onFrame(s)
		}
		if s.perf != nil {
			s.perf.EndFrame()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// CheckHealth reports systems.ErrNumericDegeneracy if the settled field holds
// non-finite or negative values, or more mass than decay permits.
func (s *Simulation) CheckHealth() error {
	return systems.CheckHealth(s.field, s.massBound)
}

// View returns a read-only view of the settled field. It is valid until the
// next Step.
func (s *Simulation) View() systems.View {
	return s.field.View()
}

// Field exposes the underlying field for tests and snapshots.
func (s *Simulation) Field() *systems.Field {
	return s.field
}

// Overlay returns the nutrient overlay, or nil when none is configured.
func (s *Simulation) Overlay() *systems.NutrientOverlay {
	return s.overlay
}

// Agents returns the agent population. Callers must not modify it.
func (s *Simulation) Agents() []components.Agent {
	return s.agents
}

// Params returns the run parameters.
func (s *Simulation) Params() *systems.Params {
	return s.params
}

// Frame returns the number of committed frames.
func (s *Simulation) Frame() uint64 {
	return s.frame
}

// Phase returns the phase the next frame starts in. Between frames this is
// always PhaseSteppingAgents.
func (s *Simulation) Phase() Phase {
	return s.phase
}

// MassBound returns the mass limit used by CheckHealth.
func (s *Simulation) MassBound() float64 {
	return s.massBound
}

// Restore replaces the simulation state with a snapshot taken from a run with
// the same parameters and seeds. Stepping afterwards continues that run
// exactly.
func (s *Simulation) Restore(snap *telemetry.Snapshot) error {
	p := s.params
	if err := snap.Validate(p.Width, p.Height, p.NumAgents, p.Seed1, p.Seed2); err != nil {
		return err
	}
	copy(s.agents, snap.Agents)
	s.field.Clear()
	s.field.Load(snap.Field)
	s.frame = snap.Frame
	s.phase = PhaseSteppingAgents
	s.massBound = systems.MassBound(s.params, s.field.Mass())
	return nil
}

// Snapshot captures the settled state.
func (s *Simulation) Snapshot() *telemetry.Snapshot {
	agents := make([]components.Agent, len(s.agents))
	copy(agents, s.agents)
	return &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		Seed1:   s.params.Seed1,
		Seed2:   s.params.Seed2,
		Width:   s.params.Width,
		Height:  s.params.Height,
		Frame:   s.frame,
		Agents:  agents,
		Field:   s.field.CopyCurrent(nil),
	}
}

// Close stops the worker goroutines.
func (s *Simulation) Close() {
	s.pool.stopWorkers()
}
