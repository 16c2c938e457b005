package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	raw := pv.ExtractFromConfig(cfg)
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(raw[i]-back[i]) > 1e-9 {
			t.Errorf("%s: %g -> %g", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	values := make([]float64, pv.Dim())
	for i := range values {
		values[i] = 1e9
	}
	if err := pv.ApplyToConfig(cfg, values); err != nil {
		t.Fatalf("ApplyToConfig: %v", err)
	}
	for _, spec := range pv.Specs {
		if got := spec.Value(cfg); got != spec.Max {
			t.Errorf("%s = %g, want clamp to %g", spec.Name, got, spec.Max)
		}
	}
}

func TestParamVectorFor(t *testing.T) {
	pv, unknown := NewParamVectorFor([]string{"field.decay", "bogus", "agents.deposit"})
	if pv.Dim() != 2 {
		t.Fatalf("Dim = %d, want 2", pv.Dim())
	}
	if len(unknown) != 1 || unknown[0] != "bogus" {
		t.Errorf("unknown = %v, want [bogus]", unknown)
	}
}

func TestComputeQuality(t *testing.T) {
	if q := computeQuality(nil); q != 0 {
		t.Errorf("no windows: quality = %g, want 0", q)
	}

	flat := make([]telemetry.FieldStats, 10)
	network := make([]telemetry.FieldStats, 10)
	for i := range flat {
		flat[i] = telemetry.FieldStats{Mass: 100, CV: 0, Coverage: 1}
		network[i] = telemetry.FieldStats{Mass: 100, CV: 3, Coverage: targetCoverage}
	}
	qf, qn := computeQuality(flat), computeQuality(network)
	if !(qn > qf) {
		t.Errorf("network quality %g not above flat quality %g", qn, qf)
	}
	if qn < 0 || qn > 1 {
		t.Errorf("quality %g out of [0,1]", qn)
	}
}

func TestEvaluateSmallWorld(t *testing.T) {
	if testing.Short() {
		t.Skip("runs simulations")
	}
	cfg := config.Default()
	shrinkWorld(cfg, 48)
	cfg.Nutrients.Count = 0

	pv, _ := NewParamVectorFor([]string{"field.decay"})
	fe := NewFitnessEvaluator(pv, 120, []int64{1, 2}, cfg)
	f := fe.Evaluate([]float64{0.9})
	if f > 0 || f < -1 {
		t.Errorf("fitness %g out of [-1, 0]", f)
	}
	if fe.BestSnapshot() == nil {
		t.Error("no best snapshot recorded")
	}
	if q := fe.LastQuality(); math.Abs(q+f) > 1e-12 {
		t.Errorf("LastQuality %g does not match fitness %g", q, f)
	}
}
