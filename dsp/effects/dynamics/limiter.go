package dynamics

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/param"
)

const (
	// Parameter validation ranges
	minLimiterRatio     = 1.0
	maxLimiterRatio     = 100.0
	minLimiterAttackMs  = 0.1
	maxLimiterAttackMs  = 1000.0
	minLimiterReleaseMs = 1.0
	maxLimiterReleaseMs = 5000.0
	minLimiterKneeDB    = 0.0
	maxLimiterKneeDB    = 24.0

	// log2Of10Div20 is the conversion factor for dB to log2: log2(10) / 20
	log2Of10Div20 = 0.166096404744
)

// LimiterOption mutates limiter construction parameters.
type LimiterOption func(*Preset) error

// WithPreset sets the starting preset. Knee, attack and release stay fixed
// for the lifetime of the limiter.
func WithPreset(p Preset) LimiterOption {
	return func(cfg *Preset) error {
		if err := p.validate(); err != nil {
			return err
		}
		*cfg = p
		return nil
	}
}

func (p Preset) validate() error {
	switch {
	case p.Ratio < minLimiterRatio || p.Ratio > maxLimiterRatio || math.IsNaN(p.Ratio):
		return fmt.Errorf("limiter ratio must be in [%g, %g]: %f", minLimiterRatio, maxLimiterRatio, p.Ratio)
	case p.KneeDB < minLimiterKneeDB || p.KneeDB > maxLimiterKneeDB || math.IsNaN(p.KneeDB):
		return fmt.Errorf("limiter knee must be in [%g, %g]: %f", minLimiterKneeDB, maxLimiterKneeDB, p.KneeDB)
	case p.AttackMs < minLimiterAttackMs || p.AttackMs > maxLimiterAttackMs || math.IsNaN(p.AttackMs):
		return fmt.Errorf("limiter attack must be in [%g, %g] ms: %f", minLimiterAttackMs, maxLimiterAttackMs, p.AttackMs)
	case p.ReleaseMs < minLimiterReleaseMs || p.ReleaseMs > maxLimiterReleaseMs || math.IsNaN(p.ReleaseMs):
		return fmt.Errorf("limiter release must be in [%g, %g] ms: %f", minLimiterReleaseMs, maxLimiterReleaseMs, p.ReleaseMs)
	case !core.IsFinite(p.ThresholdDB):
		return fmt.Errorf("limiter threshold must be finite: %f", p.ThresholdDB)
	}
	return nil
}

// Limiter is a stereo-linked peak limiter that always sits in the signal
// path. Threshold and ratio are automated parameters, so toggling between
// presets is click-free.
//
// The detector follows max(|L|, |R|) with attack/release ballistics and
// feeds a log2-domain gain computer; both channels receive the same gain.
//
// Process runs on the render goroutine. SetActive, ApplyPreset and the
// accessors may be called from any goroutine.
type Limiter struct {
	sampleRate float64
	kneeDB     float64
	attackMs   float64
	releaseMs  float64

	threshold *param.Param // dB
	ratio     *param.Param

	active  atomic.Bool
	minGain atomic.Uint64 // float64 bits, lowest gain of the last block

	// render-side state
	peakLevel        float64
	attackCoeff      float64
	releaseCoeff     float64
	thresholdDB      float64
	ratioValue       float64
	thresholdLog2    float64
	slope            float64 // 1 - 1/ratio
	kneeWidthLog2    float64
	invKneeWidthLog2 float64
}

// NewLimiter creates a limiter on the given render clock, starting at
// InitialPreset unless WithPreset says otherwise.
func NewLimiter(clock *param.Clock, opts ...LimiterOption) (*Limiter, error) {
	if clock == nil || clock.SampleRate() <= 0 || math.IsInf(clock.SampleRate(), 0) {
		return nil, fmt.Errorf("limiter sample rate must be positive and finite")
	}

	cfg := InitialPreset
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	l := &Limiter{
		sampleRate: clock.SampleRate(),
		kneeDB:     cfg.KneeDB,
		attackMs:   cfg.AttackMs,
		releaseMs:  cfg.ReleaseMs,
		threshold:  param.New(clock, cfg.ThresholdDB),
		ratio:      param.New(clock, cfg.Ratio),
	}
	l.active.Store(cfg.Ratio > 1)
	l.minGain.Store(math.Float64bits(1))

	l.updateTimeConstants()
	l.updateCoefficients(cfg.ThresholdDB, cfg.Ratio)

	return l, nil
}

// SetActive moves toward EngagedPreset or DisengagedPreset with the given
// smoothing time constant in seconds. Repeated calls with the same value
// are harmless.
func (l *Limiter) SetActive(active bool, timeConstant float64) {
	l.active.Store(active)
	l.ApplyPreset(PresetFor(active), timeConstant)
}

// ApplyPreset moves threshold and ratio toward p. The limiter's knee,
// attack and release are not changed.
func (l *Limiter) ApplyPreset(p Preset, timeConstant float64) {
	l.threshold.SetTarget(p.ThresholdDB, timeConstant)
	l.ratio.SetTarget(p.Ratio, timeConstant)
}

// Active reports the last toggle state.
func (l *Limiter) Active() bool { return l.active.Load() }

// Threshold returns the live threshold in dB.
func (l *Limiter) Threshold() float64 { return l.threshold.Value() }

// ThresholdTarget returns the threshold being approached in dB.
func (l *Limiter) ThresholdTarget() float64 { return l.threshold.Target() }

// Ratio returns the live ratio.
func (l *Limiter) Ratio() float64 { return l.ratio.Value() }

// RatioTarget returns the ratio being approached.
func (l *Limiter) RatioTarget() float64 { return l.ratio.Target() }

// Knee returns the knee width in dB.
func (l *Limiter) Knee() float64 { return l.kneeDB }

// Attack returns the attack time in milliseconds.
func (l *Limiter) Attack() float64 { return l.attackMs }

// Release returns the release time in milliseconds.
func (l *Limiter) Release() float64 { return l.releaseMs }

// GainReduction returns the lowest linear gain applied in the last
// processed block (1 means no reduction).
func (l *Limiter) GainReduction() float64 {
	return math.Float64frombits(l.minGain.Load())
}

// Process limits a stereo block in place.
func (l *Limiter) Process(left, right []float64) {
	n := min(len(left), len(right))
	if n == 0 {
		return
	}

	thr := l.threshold.Advance(n)
	ratio := l.ratio.Advance(n)
	if thr != l.thresholdDB || ratio != l.ratioValue {
		l.updateCoefficients(thr, ratio)
	}

	minGain := 1.0
	for i := 0; i < n; i++ {
		level := math.Max(math.Abs(left[i]), math.Abs(right[i]))

		if level > l.peakLevel {
			l.peakLevel += (level - l.peakLevel) * l.attackCoeff
		} else {
			l.peakLevel = level + (l.peakLevel-level)*l.releaseCoeff
		}

		gain := l.calculateGain(l.peakLevel)
		if gain < minGain {
			minGain = gain
		}
		left[i] *= gain
		right[i] *= gain
	}

	l.minGain.Store(math.Float64bits(minGain))
}

// CalculateOutputLevel computes the steady-state output level for a given
// input magnitude at the current render-side setting.
func (l *Limiter) CalculateOutputLevel(inputMagnitude float64) float64 {
	inputMagnitude = math.Abs(inputMagnitude)
	return inputMagnitude * l.calculateGain(inputMagnitude)
}

// Reset clears the envelope follower. Render side.
func (l *Limiter) Reset() {
	l.peakLevel = 0
	l.minGain.Store(math.Float64bits(1))
}

func (l *Limiter) updateCoefficients(thresholdDB, ratio float64) {
	l.thresholdDB = thresholdDB
	l.ratioValue = ratio
	l.thresholdLog2 = thresholdDB * log2Of10Div20

	if ratio < minLimiterRatio {
		ratio = minLimiterRatio
	}
	l.slope = 1 - 1/ratio

	l.kneeWidthLog2 = l.kneeDB * log2Of10Div20
	if l.kneeDB > 0 {
		l.invKneeWidthLog2 = 1 / l.kneeWidthLog2
	} else {
		l.invKneeWidthLog2 = 0
	}
}

func (l *Limiter) updateTimeConstants() {
	// Attack: 1 - exp(-ln2 / (attack_sec * sample_rate))
	l.attackCoeff = 1 - math.Exp(-math.Ln2/(l.attackMs*0.001*l.sampleRate))

	// Release: exp(-ln2 / (release_sec * sample_rate))
	l.releaseCoeff = math.Exp(-math.Ln2 / (l.releaseMs * 0.001 * l.sampleRate))
}

// calculateGain maps a detector level to a linear gain in the log2 domain.
func (l *Limiter) calculateGain(peakLevel float64) float64 {
	if peakLevel <= 0 || l.slope == 0 {
		return 1
	}

	overshoot := levelLog2(peakLevel) - l.thresholdLog2

	if l.kneeDB <= 0 {
		if overshoot <= 0 {
			return 1
		}
		return gainExp2(-overshoot * l.slope)
	}

	halfWidth := l.kneeWidthLog2 * 0.5
	var effective float64

	switch {
	case overshoot < -halfWidth:
		return 1
	case overshoot > halfWidth:
		effective = overshoot
	default:
		scratch := overshoot + halfWidth
		effective = scratch * scratch * 0.5 * l.invKneeWidthLog2
	}

	return gainExp2(-effective * l.slope)
}
