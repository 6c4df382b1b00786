package spatial

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/param"
	"github.com/cwbudde/algo-vecmath"
)

const (
	// MaxRotation is the control rotation in degrees mapped to the widest
	// image. -MaxRotation collapses to mono.
	MaxRotation = 135.0

	defaultWidth = 1.0
	inverter     = -1.0
)

// WidthFactor maps a control rotation in degrees to a side gain:
// -135 gives 0 (mono), 0 gives 1, 135 gives 2. Results are floor-clamped at
// 0 and unbounded above.
func WidthFactor(rotation float64) float64 {
	return math.Max(0, (rotation+MaxRotation)/MaxRotation)
}

// Encode converts a left/right pair to unnormalized mid and side:
// mid = l + r, side = l - r.
func Encode(l, r float64) (mid, side float64) {
	return l + r, l + inverter*r
}

// Decode converts mid/side back to left/right: l = mid + side,
// r = mid - side. Encode followed by Decode doubles the input.
func Decode(mid, side float64) (l, r float64) {
	return mid + side, mid + inverter*side
}

// MidSideOption mutates mid/side matrix construction parameters.
type MidSideOption func(*midSideConfig) error

type midSideConfig struct {
	width float64
}

// WithInitialWidth sets the side gain the matrix starts at.
func WithInitialWidth(width float64) MidSideOption {
	return func(cfg *midSideConfig) error {
		if width < 0 || !core.IsFinite(width) {
			return fmt.Errorf("mid/side width must be >= 0 and finite: %f", width)
		}
		cfg.width = width
		return nil
	}
}

// MidSide is a stereo width matrix: encode to mid/side, scale side by a
// smoothed width factor, decode back to left/right.
//
// The sum and difference are not halved, so at width 1 the output is the
// input scaled by 2 (+6 dB).
//
// Process runs on the render goroutine; SetWidth and SetRotation may be
// called from any goroutine.
type MidSide struct {
	width *param.Param

	widthBuf []float64
	mid      []float64
	side     []float64
}

// NewMidSide creates a matrix on the given render clock.
func NewMidSide(clock *param.Clock, opts ...MidSideOption) (*MidSide, error) {
	if clock == nil || clock.SampleRate() <= 0 {
		return nil, fmt.Errorf("mid/side sample rate must be > 0")
	}

	cfg := midSideConfig{width: defaultWidth}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &MidSide{width: param.New(clock, cfg.width)}, nil
}

// SetWidth approaches the side gain factor with the given time constant in
// seconds.
func (m *MidSide) SetWidth(factor, timeConstant float64) {
	m.width.SetTarget(factor, timeConstant)
}

// SetRotation approaches WidthFactor(rotation).
func (m *MidSide) SetRotation(rotation, timeConstant float64) {
	m.SetWidth(WidthFactor(rotation), timeConstant)
}

// Width returns the live side gain.
func (m *MidSide) Width() float64 {
	return m.width.Value()
}

// WidthTarget returns the side gain being approached.
func (m *MidSide) WidthTarget() float64 {
	return m.width.Target()
}

// Process applies the matrix to a stereo block in place.
func (m *MidSide) Process(left, right []float64) {
	n := min(len(left), len(right))
	if n == 0 {
		return
	}
	left, right = left[:n], right[:n]

	m.widthBuf = core.EnsureLen(m.widthBuf, n)
	m.mid = core.EnsureLen(m.mid, n)
	m.side = core.EnsureLen(m.side, n)

	// mid = L + R
	copy(m.mid, left)
	vecmath.AddBlockInPlace(m.mid, right)

	// side = L + (-R)
	vecmath.ScaleBlock(m.side, right, inverter)
	vecmath.AddBlockInPlace(m.side, left)

	m.width.Fill(m.widthBuf)
	vecmath.MulBlockInPlace(m.side, m.widthBuf)

	// L' = mid + side', R' = mid + (-side')
	copy(left, m.mid)
	vecmath.AddBlockInPlace(left, m.side)
	vecmath.ScaleBlock(right, m.side, inverter)
	vecmath.AddBlockInPlace(right, m.mid)
}
