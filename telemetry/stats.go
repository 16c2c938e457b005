package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/stat"
)

// FieldStats summarizes the settled trail field at the end of a window.
type FieldStats struct {
	WindowStart uint64 `csv:"window_start"`
	Frame       uint64 `csv:"frame"`

	// Mass and its analytic bound (for degeneracy checks)
	Mass      float64 `csv:"mass"`
	MassBound float64 `csv:"mass_bound"`

	// Distribution over cells
	Mean float64 `csv:"mean"`
	Std  float64 `csv:"std"`
	CV   float64 `csv:"cv"` // Std / Mean; higher means more filament structure
	Max  float64 `csv:"max"`
	P50  float64 `csv:"p50"`
	P90  float64 `csv:"p90"`
	P99  float64 `csv:"p99"`

	// Fraction of cells above the mean
	Coverage float64 `csv:"coverage"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// FieldAnalyzer computes FieldStats, reusing its scratch buffer between calls.
type FieldAnalyzer struct {
	scratch []float64
}

// Analyze computes statistics for a non-negative field.
func (a *FieldAnalyzer) Analyze(data []float32, frame uint64) FieldStats {
	n := len(data)
	s := FieldStats{Frame: frame}
	if n == 0 {
		return s
	}

	vec := blas32.Vector{N: n, Inc: 1, Data: data}
	// Cells are non-negative, so Asum is the plain sum and Iamax the maximum.
	s.Mass = float64(blas32.Asum(vec))
	s.Max = float64(data[blas32.Iamax(vec)])

	if cap(a.scratch) < n {
		a.scratch = make([]float64, n)
	}
	vals := a.scratch[:n]
	for i, v := range data {
		vals[i] = float64(v)
	}

	s.Mean, s.Std = stat.PopMeanStdDev(vals, nil)
	if s.Mean > 0 {
		s.CV = s.Std / s.Mean
	}

	above := 0
	for _, v := range vals {
		if v > s.Mean {
			above++
		}
	}
	s.Coverage = float64(above) / float64(n)

	sort.Float64s(vals)
	s.P50 = Percentile(vals, 0.50)
	s.P90 = Percentile(vals, 0.90)
	s.P99 = Percentile(vals, 0.99)

	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStart),
		slog.Uint64("frame", s.Frame),
		slog.Float64("mass", s.Mass),
		slog.Float64("mass_bound", s.MassBound),
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.Std),
		slog.Float64("cv", s.CV),
		slog.Float64("max", s.Max),
		slog.Float64("p50", s.P50),
		slog.Float64("p90", s.P90),
		slog.Float64("p99", s.P99),
		slog.Float64("coverage", s.Coverage),
	)
}

// LogStats logs the field stats using slog.
func (s FieldStats) LogStats() {
	slog.Info("stats", "field", s)
}
