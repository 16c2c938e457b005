package main

import (
	"context"
	"math"
	"sync"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/game"
	"github.com/pthm-cable/slime/systems"
	"github.com/pthm-cable/slime/telemetry"
)

// FitnessEvaluator runs headless simulations and scores the trail network
// they settle into.
type FitnessEvaluator struct {
	params      *ParamVector
	frames      uint64
	seeds       []int64
	baseConfig  *config.Config
	statsWindow int

	// Best run tracking
	mu           sync.Mutex
	bestFitness  float64
	bestSnapshot *telemetry.Snapshot
	lastQuality  float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. baseCfg supplies every
// parameter the vector does not cover.
func NewFitnessEvaluator(params *ParamVector, frames uint64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	window := int(frames / 20)
	if window < 1 {
		window = 1
	}
	return &FitnessEvaluator{
		params:      params,
		frames:      frames,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: window,
		bestFitness: math.Inf(1),
	}
}

// BestSnapshot returns the final state of the best-scoring run.
func (fe *FitnessEvaluator) BestSnapshot() *telemetry.Snapshot {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestSnapshot
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	windows    []telemetry.FieldStats
	degenerate bool
	snapshot   *telemetry.Snapshot
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Fitness is negative quality averaged over all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return 1
	}

	// Run all seeds in parallel
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var totalQuality float64
	bestSeedQuality := -1.0
	var bestSeedSnapshot *telemetry.Snapshot
	for _, r := range results {
		q := 0.0
		if !r.degenerate {
			q = computeQuality(r.windows)
		}
		totalQuality += q
		if q > bestSeedQuality {
			bestSeedQuality = q
			bestSeedSnapshot = r.snapshot
		}
	}

	quality := totalQuality / float64(len(fe.seeds))
	fitness := -quality

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestSnapshot = bestSeedSnapshot
	}
	fe.lastQuality = quality
	fe.mu.Unlock()

	return fitness
}

// runSimulation executes a single headless run of fe.frames frames. Seeds of
// the run are derived from seed; everything else comes from cfg.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	p, err := systems.NewParams(cfg)
	if err != nil {
		return &runResult{degenerate: true}
	}
	p.Seed1 = seed
	p.Seed2 = uint64(seed) * 0x9e3779b97f4a7c15

	// Seeds already run in parallel, so each simulation keeps to one worker.
	sim := game.NewSimulation(p, 1, 0, nil)
	defer sim.Close()

	result := &runResult{}
	collector := telemetry.NewCollector(fe.statsWindow, sim.MassBound())
	err = sim.Run(context.Background(), fe.frames, func(s *game.Simulation) error {
		if !collector.ShouldFlush(s.Frame()) {
			return nil
		}
		result.windows = append(result.windows, collector.Flush(s.Frame(), s.View().Data()))
		return s.CheckHealth()
	})
	if err != nil {
		result.degenerate = true
	}
	result.snapshot = sim.Snapshot()
	return result
}

// copyConfig returns a copy of the base config that can be mutated and
// finalized independently.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Derived = config.DerivedConfig{}
	return &cfg
}

// Quality component weights.
const (
	qualityWeightContrast  = 0.45
	qualityWeightCoverage  = 0.35
	qualityWeightStability = 0.20

	qualityWarmupWindows = 5 // skip first N windows while the network forms

	targetCoverage = 0.25 // fraction of cells above the mean in a filament network
	coverageWidth  = 0.12
)

// computeQuality scores a run in [0, 1]. A good network is high-contrast
// (trail concentrated in filaments), covers a moderate share of the domain and
// holds its mass steady once formed.
func computeQuality(windows []telemetry.FieldStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var contrastSum, coverageSum float64
	masses := make([]float64, 0, len(valid))
	for _, w := range valid {
		contrastSum += 1 - math.Exp(-w.CV/2)
		d := (w.Coverage - targetCoverage) / coverageWidth
		coverageSum += math.Exp(-d * d)
		masses = append(masses, w.Mass)
	}
	n := float64(len(valid))

	stabilityScore := 0.0
	if len(masses) >= 2 {
		c := cv(masses)
		stabilityScore = math.Exp(-100 * c * c)
	}

	quality := qualityWeightContrast*contrastSum/n +
		qualityWeightCoverage*coverageSum/n +
		qualityWeightStability*stabilityScore
	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if mean == 0 {
		return 0
	}
	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	return math.Sqrt(sqDiff/n) / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
