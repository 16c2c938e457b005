package main

import (
	"github.com/pthm-cable/slime/config"
)

// ParamVector maps an optimizer vector onto the tunable config parameters.
// Each dimension is one entry of config.Ranges, in table order.
type ParamVector struct {
	Specs []config.ParamRange
}

// NewParamVector covers every documented tunable range.
func NewParamVector() *ParamVector {
	return &ParamVector{Specs: config.Ranges}
}

// NewParamVectorFor restricts tuning to the named config paths. Unknown
// names are reported in the second return value.
func NewParamVectorFor(names []string) (*ParamVector, []string) {
	pv := &ParamVector{}
	var unknown []string
	for _, name := range names {
		r, ok := config.RangeByName(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		pv.Specs = append(pv.Specs, r)
	}
	return pv, unknown
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// ExtractFromConfig reads the current parameter values from cfg, clamped to
// their ranges.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Clamp(spec.Value(cfg))
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = spec.Clamp(v[i])
	}
	return clamped
}

// ApplyToConfig writes clamped values into cfg and recomputes derived
// values. Ranges whose ordering matters are disjoint, so the result always
// validates.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].Set(cfg, v)
	}
	return cfg.Finalize()
}
