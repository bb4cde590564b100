package curve

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasurement_Samples_Invariant(t *testing.T) {
	m := Measurement{E10: .8634, E20: .9063, E50: .9149, E100: .8828}
	effs := []float64{.8634, .9063, .9149, .8828}

	for _, rated := range []float64{1, 650, 1200} {
		samples, err := m.Samples(rated)
		require.NoError(t, err)
		require.Len(t, samples, 4)

		for i, s := range samples {
			wantLoad := []float64{0.10, 0.20, 0.50, 1.00}[i] * rated
			assert.InDelta(t, wantLoad, s.Load, 1e-12*rated)
			// InputPower = Load / efficiency, always.
			assert.InDelta(t, s.Load/effs[i], s.InputPower, 1e-12*rated)
		}
	}
}

func TestParams_At_Eval(t *testing.T) {
	p := Params{A: 0.1, B: 1.0, C: 0.02}

	xs := []float64{0, 0.1, 0.2, 0.5, 1.0, 2.5}
	got := p.Eval(xs)
	require.Len(t, got, len(xs))

	for i, x := range xs {
		want := 0.1*x*x + 1.0*x + 0.02
		assert.InDelta(t, want, p.At(x), 1e-12, "At(%g)", x)
		assert.Equal(t, p.At(x), got[i], "Eval must agree with At at x=%g", x)
	}

	assert.Empty(t, p.Eval(nil))
}

func TestParams_Efficiency(t *testing.T) {
	p := Params{A: 0.1, B: 1.0, C: 0.02}

	for _, x := range []float64{0.1, 0.5, 1.0} {
		want := x / p.At(x)
		assert.InDelta(t, want, p.Efficiency(x), 1e-12)
	}

	// Degenerate all-zero model: modeled input power is 0 everywhere, the
	// derived efficiency guards the division instead of returning Inf.
	zero := Params{}
	assert.Equal(t, 0.0, zero.Efficiency(0.5))
}

func TestParams_Points(t *testing.T) {
	p := Params{A: 0.1, B: 1.0, C: 0.02}
	const rated = 800.0
	const n = 16

	pts := p.Points(rated, n)
	require.Len(t, pts, n)

	assert.InDelta(t, rated/n, pts[0].Load, 1e-9)
	assert.InDelta(t, rated, pts[n-1].Load, 1e-9)

	for i, pt := range pts {
		assert.InDelta(t, p.At(pt.Load), pt.InputPower, 1e-12, "point %d", i)
		assert.InDelta(t, p.Efficiency(pt.Load), pt.Efficiency, 1e-12, "point %d", i)
		if i > 0 {
			assert.Greater(t, pt.Load, pts[i-1].Load)
		}
	}

	assert.Nil(t, p.Points(rated, 0))
	assert.Nil(t, p.Points(rated, -3))
}

func TestParams_Quality(t *testing.T) {
	p := Params{A: 0.1, B: 1.0, C: 0.02}

	// Residuals +0.01, -0.02, +0.03 at three loads plus one exact point.
	samples := []Sample{
		{Load: 0.1, InputPower: p.At(0.1) + 0.01},
		{Load: 0.2, InputPower: p.At(0.2) - 0.02},
		{Load: 0.5, InputPower: p.At(0.5) + 0.03},
		{Load: 1.0, InputPower: p.At(1.0)},
	}

	q := p.Quality(samples)
	wantRSS := 0.01*0.01 + 0.02*0.02 + 0.03*0.03
	assert.InDelta(t, wantRSS, q.RSS, 1e-12)
	// 4 samples, 3 parameters: one degree of freedom.
	assert.InDelta(t, wantRSS, q.ResidualVar, 1e-12)

	// No free degrees of freedom: variance reported as 0, not Inf.
	q3 := p.Quality(samples[:3])
	assert.Equal(t, 0.0, q3.ResidualVar)
}

func TestParams_String_RoundTrip(t *testing.T) {
	p := Params{
		A: 0.10635999086221673,
		B: 1.0127441767474328,
		C: 0.013639590671195795,
	}

	s := p.String()
	t.Logf("result line: %q", s)

	fields := strings.Fields(s)
	require.Len(t, fields, 3, "exactly a, b, c space-separated")

	for i, want := range []float64{p.A, p.B, p.C} {
		got, err := strconv.ParseFloat(fields[i], 64)
		require.NoError(t, err)
		assert.Equal(t, want, got, "field %d must round-trip exactly", i)
	}
}

func ExampleParams_At() {
	p := Params{A: 0.1, B: 1.0, C: 0.02}
	fmt.Printf("P_in(0.5)=%.3f eff(0.5)=%.3f\n", p.At(0.5), p.Efficiency(0.5))
	// Output: P_in(0.5)=0.545 eff(0.5)=0.917
}

func TestSafeDiv(t *testing.T) {
	assert.Equal(t, 2.0, safeDiv(4, 2))
	assert.Equal(t, 0.0, safeDiv(1, 0))
	assert.Equal(t, 0.0, safeDiv(1, 1e-13))
	assert.Equal(t, -4.0, safeDiv(4, -1))
	assert.False(t, math.IsInf(safeDiv(1, 0), 1))
}
