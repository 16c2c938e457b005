package systems

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas32"
)

// ErrNumericDegeneracy reports a field that has left its valid numeric range:
// non-finite or negative cells, or total mass above what decay allows.
// It indicates a misconfigured run and is never corrected automatically.
var ErrNumericDegeneracy = errors.New("numeric degeneracy")

// massSlack absorbs float32 rounding in the mass comparison.
const massSlack = 1e-2

// Mass returns the total trail in the current buffer.
func (f *Field) Mass() float64 {
	cur := f.bufs[f.cur]
	if len(cur) == 0 {
		return 0
	}
	// Cells are non-negative, so the absolute sum is the sum.
	return float64(blas32.Asum(blas32.Vector{N: len(cur), Inc: 1, Data: cur}))
}

// MassBound returns the largest total mass a healthy field can reach when it
// started at mass m0. Mass evolves as M' = decay*(M + N*deposit), which moves
// monotonically from m0 toward the steady state.
func MassBound(p *Params, m0 float64) float64 {
	return math.Max(m0, p.MassBound)
}

// CheckHealth scans the current buffer for non-finite or negative cells and
// compares total mass against bound.
func CheckHealth(f *Field, bound float64) error {
	cur := f.bufs[f.cur]
	for i, v := range cur {
		if v < 0 || math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("%w: cell (%d,%d) = %g", ErrNumericDegeneracy, i%f.W, i/f.W, v)
		}
	}
	mass := f.Mass()
	if mass > bound*(1+massSlack)+massSlack {
		return fmt.Errorf("%w: total mass %g exceeds bound %g", ErrNumericDegeneracy, mass, bound)
	}
	return nil
}
