// Package curve models power-supply input power as a quadratic function of
// output power, fitted from the four standard efficiency measurements
// (10%, 20%, 50%, 100% of rated load).
package curve

import "strconv"

// Standard load points of an efficiency datasheet, as fractions of rated
// output power.
var (
	loadFractions = [4]float64{0.10, 0.20, 0.50, 1.00}
	loadPercents  = [4]int{10, 20, 50, 100}
)

// Measurement holds efficiency readings at the standard load points.
// Each reading is output power over input power, expected in (0, 1];
// values above 1 are physically dubious but accepted, values <= 0 are
// rejected (they would put a zero or negative input power into the fit).
type Measurement struct {
	E10  float64
	E20  float64
	E50  float64
	E100 float64
}

// Sample is one (output load, input power) pair used by the fit.
// Units are whatever the caller's rated power is expressed in; with
// rated power 1 everything is a fraction of rated load.
type Sample struct {
	Load       float64
	InputPower float64
}

// Samples converts the readings into fit samples at the standard load
// points scaled by rated (pass 1 for normalized mode), preserving
// InputPower = Load / efficiency for every sample.
func (m Measurement) Samples(rated float64) ([]Sample, error) {
	if rated <= 0 {
		return nil, invalidInputf("rated power must be > 0, got %v", rated)
	}
	effs := [4]float64{m.E10, m.E20, m.E50, m.E100}
	samples := make([]Sample, 0, len(effs))
	for i, e := range effs {
		if e <= 0 {
			return nil, invalidInputf("efficiency at %d%% load must be > 0, got %v", loadPercents[i], e)
		}
		load := loadFractions[i] * rated
		samples = append(samples, Sample{Load: load, InputPower: load / e})
	}
	return samples, nil
}

// Params is the fitted model P_in(x) = A*x^2 + B*x + C.
type Params struct {
	A float64
	B float64
	C float64
}

// At evaluates the modeled input power at output load x.
func (p Params) At(x float64) float64 {
	return p.C + x*(p.B+x*p.A)
}

// Eval evaluates the model over a slice of load values.
func (p Params) Eval(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = p.At(x)
	}
	return out
}

// Efficiency returns the modeled efficiency x / P_in(x) at output load x,
// or 0 when the modeled input power is (numerically) zero.
func (p Params) Efficiency(x float64) float64 {
	return safeDiv(x, p.At(x))
}

// Point is one sampled point of the fitted curve.
type Point struct {
	Load       float64 `json:"load"`
	InputPower float64 `json:"input_power"`
	Efficiency float64 `json:"efficiency"`
}

// Points samples the fitted curve at n evenly spaced loads spanning
// (0, rated]. External renderers and report writers consume this instead
// of re-deriving the fit.
func (p Params) Points(rated float64, n int) []Point {
	if n <= 0 {
		return nil
	}
	pts := make([]Point, n)
	for i := range pts {
		x := rated * float64(i+1) / float64(n)
		pts[i] = Point{
			Load:       x,
			InputPower: p.At(x),
			Efficiency: p.Efficiency(x),
		}
	}
	return pts
}

// Quality holds goodness-of-fit numbers for a set of samples.
type Quality struct {
	// RSS is the residual sum of squares.
	RSS float64
	// ResidualVar is RSS over the degrees of freedom (samples minus the
	// three fit parameters); 0 when there are no free degrees.
	ResidualVar float64
}

// Quality computes the fit quality of p against the given samples.
func (p Params) Quality(samples []Sample) Quality {
	var rss float64
	for _, s := range samples {
		r := s.InputPower - p.At(s.Load)
		rss += r * r
	}
	q := Quality{RSS: rss}
	if dof := len(samples) - 3; dof > 0 {
		q.ResidualVar = rss / float64(dof)
	}
	return q
}

// String renders the coefficients as "<a> <b> <c>" with shortest
// round-trip float64 formatting.
func (p Params) String() string {
	return strconv.FormatFloat(p.A, 'g', -1, 64) + " " +
		strconv.FormatFloat(p.B, 'g', -1, 64) + " " +
		strconv.FormatFloat(p.C, 'g', -1, 64)
}

func safeDiv(n, d float64) float64 {
	const eps = 1e-12
	if d > eps || d < -eps {
		return n / d
	}
	return 0
}
