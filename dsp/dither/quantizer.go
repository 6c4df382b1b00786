package dither

import (
	"math"
	"math/rand/v2"
)

// Quantizer reduces one channel to signed integers of the configured bit
// depth. It is not safe for concurrent use.
type Quantizer struct {
	bitDepth  int
	typ       Type
	amplitude float64
	shaping   Shaping
	shaper    *errorFeedback
	rng       *rand.Rand

	scale float64
	lo    int
	hi    int
}

// NewQuantizer creates a quantizer: 16 bit, triangular dither of one LSB,
// no noise shaping unless options say otherwise.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return newQuantizer(cfg), nil
}

func newQuantizer(cfg config) *Quantizer {
	seed1, seed2 := cfg.seed, cfg.seed^0x9e3779b97f4a7c15
	if !cfg.seeded {
		seed1, seed2 = rand.Uint64(), rand.Uint64()
	}

	full := math.Exp2(float64(cfg.bitDepth - 1))
	return &Quantizer{
		bitDepth:  cfg.bitDepth,
		typ:       cfg.typ,
		amplitude: cfg.amplitude,
		shaping:   cfg.shaping,
		shaper:    newErrorFeedback(cfg.shaping.Coefficients()),
		rng:       rand.New(rand.NewPCG(seed1, seed2)),
		scale:     full - 1,
		lo:        -int(full),
		hi:        int(full) - 1,
	}
}

// Quantize maps x, nominally in [-1, 1], to the nearest integer code after
// adding dither, clipped to the bit depth's range. Full scale maps to
// ±(2^(bits-1) - 1).
func (q *Quantizer) Quantize(x float64) int {
	if math.IsNaN(x) {
		x = 0
	}
	shaped := q.shaper.shape(q.scale * x)
	code := int(math.Floor(shaped + q.noise()))
	code = max(q.lo, min(q.hi, code))
	q.shaper.record(float64(code) - shaped)
	return code
}

// Float returns the normalized value an integer code represents.
func (q *Quantizer) Float(code int) float64 {
	return float64(code) / q.scale
}

// Reset clears the error history.
func (q *Quantizer) Reset() {
	q.shaper.reset()
}

func (q *Quantizer) noise() float64 {
	switch q.typ {
	case Rectangular:
		return q.amplitude*(q.rng.Float64()*2-1) + 0.5
	case Triangular:
		return q.amplitude*(q.rng.Float64()-q.rng.Float64()) + 0.5
	default:
		return 0.5
	}
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// Type returns the dither noise PDF.
func (q *Quantizer) Type() Type { return q.typ }

// Amplitude returns the dither noise amplitude in LSB.
func (q *Quantizer) Amplitude() float64 { return q.amplitude }

// Shaping returns the error-feedback coefficient set.
func (q *Quantizer) Shaping() Shaping { return q.shaping }
