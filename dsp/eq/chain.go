package eq

import (
	"fmt"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/filter/biquad"
	"github.com/cwbudde/algo-mastering/dsp/filter/design"
	"github.com/cwbudde/algo-mastering/dsp/param"
	"github.com/cwbudde/algo-vecmath"
)

// Chain is one channel's input gain stage plus NumBands peaking filters.
//
// The input gain is smoothed per sample; band gains are smoothed once per
// processed block and their coefficients are recomputed only when the
// smoothed gain moved, keeping each filter's delay line intact.
type Chain struct {
	sampleRate float64
	q          float64

	gain    *param.Param // linear
	gainBuf []float64
	bands   [NumBands]band
}

type band struct {
	freq    float64
	gainDB  *param.Param
	applied float64
	section *biquad.Section
}

// ChainOption configures a Chain.
type ChainOption func(*chainConfig) error

type chainConfig struct {
	q float64
}

// WithQ overrides the quality factor of every band.
func WithQ(q float64) ChainOption {
	return func(cfg *chainConfig) error {
		if q <= 0 {
			return fmt.Errorf("eq: Q must be > 0: %f", q)
		}
		cfg.q = q
		return nil
	}
}

// NewChain builds a flat chain on the given render clock: input gain 1 and
// every band at 0 dB.
func NewChain(clock *param.Clock, opts ...ChainOption) (*Chain, error) {
	if clock == nil || clock.SampleRate() <= 0 {
		return nil, fmt.Errorf("eq: sample rate must be > 0")
	}

	cfg := chainConfig{q: BandQ}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	c := &Chain{
		sampleRate: clock.SampleRate(),
		q:          cfg.q,
		gain:       param.New(clock, 1),
	}
	for i := range c.bands {
		c.bands[i] = band{
			freq:    Frequencies[i],
			gainDB:  param.New(clock, 0),
			section: biquad.NewSection(design.Peak(Frequencies[i], 0, cfg.q, c.sampleRate)),
		}
	}
	return c, nil
}

// Apply sets smoothing targets from data with the given time constant in
// seconds. With bypass set every gain targets 0 dB regardless of data.
// Control side; safe to call concurrently with Process.
func (c *Chain) Apply(data ChannelState, bypass bool, timeConstant float64) {
	if bypass {
		c.gain.SetTarget(1, timeConstant)
		for i := range c.bands {
			c.bands[i].gainDB.SetTarget(0, timeConstant)
		}
		return
	}

	c.gain.SetTarget(core.DBToLinear(data.Gain), timeConstant)
	for i, key := range Keys {
		c.bands[i].gainDB.SetTarget(data.Band(key), timeConstant)
	}
}

// Process filters buf in place. Render side.
func (c *Chain) Process(buf []float64) {
	if len(buf) == 0 {
		return
	}

	c.gainBuf = core.EnsureLen(c.gainBuf, len(buf))
	c.gain.Fill(c.gainBuf)
	vecmath.MulBlockInPlace(buf, c.gainBuf)

	for i := range c.bands {
		b := &c.bands[i]
		db := b.gainDB.Advance(len(buf))
		if db != b.applied {
			b.section.SetCoefficients(design.Peak(b.freq, db, c.q, c.sampleRate))
			b.applied = db
		}
		b.section.ProcessBlock(buf)
	}
}

// Reset clears all filter delay lines. Render side.
func (c *Chain) Reset() {
	for i := range c.bands {
		c.bands[i].section.Reset()
	}
}

// InputGain returns the live linear input gain.
func (c *Chain) InputGain() float64 {
	return c.gain.Value()
}

// InputGainTarget returns the linear input gain being approached.
func (c *Chain) InputGainTarget() float64 {
	return c.gain.Target()
}

// BandGain returns the live gain of key in dB.
func (c *Chain) BandGain(key FrequencyKey) float64 {
	i, ok := Index(key)
	if !ok {
		return 0
	}
	return c.bands[i].gainDB.Value()
}

// BandTarget returns the gain of key being approached, in dB.
func (c *Chain) BandTarget(key FrequencyKey) float64 {
	i, ok := Index(key)
	if !ok {
		return 0
	}
	return c.bands[i].gainDB.Target()
}

// ResponseDB returns the magnitude response in dB at freq once every
// parameter has reached its target, input gain included.
func (c *Chain) ResponseDB(freq float64) float64 {
	db := core.LinearToDB(c.gain.Target())
	for i := range c.bands {
		b := &c.bands[i]
		coeffs := design.Peak(b.freq, b.gainDB.Target(), c.q, c.sampleRate)
		db += coeffs.MagnitudeDB(freq, c.sampleRate)
	}
	return db
}
