package curve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Fit derives the quadratic input-power model from the four efficiency
// readings. rated scales the load axis (pass 1 for normalized mode).
//
// The model is linear in its parameters, so the fit is an exact linear
// least-squares solve rather than an iterative optimizer; for this model
// the two are numerically equivalent and the direct solve is
// deterministic.
func Fit(m Measurement, rated float64) (Params, error) {
	samples, err := m.Samples(rated)
	if err != nil {
		return Params{}, err
	}
	return FitSamples(samples)
}

// FitSamples fits P_in(x) = A*x^2 + B*x + C to arbitrary samples by least
// squares. At least 3 samples with distinct loads are required.
func FitSamples(samples []Sample) (Params, error) {
	if len(samples) < 3 {
		return Params{}, fmt.Errorf("%w: got %d samples, need at least 3", ErrUnderdetermined, len(samples))
	}

	// The QR solve does not reliably report rank deficiency, so check the
	// design matrix rank up front: fewer than 3 distinct loads means the
	// three columns cannot be independent.
	distinct := make(map[float64]struct{}, len(samples))
	for _, s := range samples {
		distinct[s.Load] = struct{}{}
	}
	if len(distinct) < 3 {
		return Params{}, fmt.Errorf("%w: only %d distinct load values, need at least 3", ErrSingularFit, len(distinct))
	}

	n := len(samples)
	design := mat.NewDense(n, 3, nil)
	obs := mat.NewVecDense(n, nil)
	for i, s := range samples {
		design.Set(i, 0, s.Load*s.Load)
		design.Set(i, 1, s.Load)
		design.Set(i, 2, 1)
		obs.SetVec(i, s.InputPower)
	}

	var coef mat.VecDense
	if err := coef.SolveVec(design, obs); err != nil {
		// A finite condition number is a warning, not a failure; an
		// infinite one means the load values are degenerate.
		cond, ok := err.(mat.Condition)
		if !ok || math.IsInf(float64(cond), 1) {
			return Params{}, fmt.Errorf("%w: %v", ErrSingularFit, err)
		}
	}
	return Params{A: coef.AtVec(0), B: coef.AtVec(1), C: coef.AtVec(2)}, nil
}

func invalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
