package dither

import "fmt"

// Shaping identifies a noise-shaping coefficient set.
type Shaping int

const (
	ShapingNone Shaping = iota // flat error spectrum
	ShapingEFB                 // 1st-order error feedback
	Shaping2SC                 // 2nd-order highpass
	Shaping3MEC                // modified E-weighted, 3rd order
	Shaping9FC                 // F-weighted, 9th order
	ShapingSBM                 // Super Bit Mapping style, 12th order

	shapingCount
)

var shapingNames = [shapingCount]string{"none", "efb", "2sc", "3mec", "9fc", "sbm"}

var shapingCoeffs = [shapingCount][]float64{
	ShapingNone: nil,
	ShapingEFB:  {1},
	Shaping2SC:  {1.0, -0.5},
	Shaping3MEC: {1.652, -1.049, 0.1382},
	Shaping9FC: {
		2.412, -3.370, 3.937, -4.174, 3.353,
		-2.205, 1.281, -0.569, 0.0847,
	},
	ShapingSBM: {
		1.47933, -1.59032, 1.64436, -1.36613,
		0.926704, -0.557931, 0.26786, -0.106726,
		0.028516, 0.00123066, -0.00616555, 0.003067,
	},
}

func (s Shaping) String() string {
	if s.Valid() {
		return shapingNames[s]
	}
	return fmt.Sprintf("Shaping(%d)", int(s))
}

// Valid reports whether s is a known coefficient set.
func (s Shaping) Valid() bool {
	return s >= 0 && s < shapingCount
}

// Coefficients returns a copy of the error-feedback coefficients, nil for
// ShapingNone.
func (s Shaping) Coefficients() []float64 {
	if !s.Valid() || len(shapingCoeffs[s]) == 0 {
		return nil
	}
	return append([]float64(nil), shapingCoeffs[s]...)
}

// ParseShaping looks a coefficient set up by its String name.
func ParseShaping(name string) (Shaping, error) {
	for s, n := range shapingNames {
		if n == name {
			return Shaping(s), nil
		}
	}
	return ShapingNone, fmt.Errorf("dither: unknown shaping %q", name)
}

// errorFeedback subtracts weighted past requantization errors from the
// input. Call shape, then record with the error of the sample just shaped.
type errorFeedback struct {
	coeffs  []float64
	history []float64
	pos     int
}

func newErrorFeedback(coeffs []float64) *errorFeedback {
	return &errorFeedback{
		coeffs:  coeffs,
		history: make([]float64, len(coeffs)),
	}
}

func (f *errorFeedback) shape(x float64) float64 {
	n := len(f.coeffs)
	if n == 0 {
		return x
	}
	for i, c := range f.coeffs {
		x -= c * f.history[(n+f.pos-i)%n]
	}
	f.pos = (f.pos + 1) % n
	return x
}

func (f *errorFeedback) record(err float64) {
	if len(f.coeffs) > 0 {
		f.history[f.pos] = err
	}
}

func (f *errorFeedback) reset() {
	clear(f.history)
	f.pos = 0
}
