package signal

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/cwbudde/algo-mastering/dsp/core"
)

// Generator creates deterministic stereo test sources from a shared
// configuration. The sources stand in for decoded media during demos and
// tests.
type Generator struct {
	cfg      core.ProcessorConfig
	seed     int64
	duration time.Duration
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithDuration limits every generated source to d. Zero means endless.
func WithDuration(d time.Duration) Option {
	return func(g *Generator) {
		if d >= 0 {
			g.duration = d
		}
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg:  core.ApplyProcessorOptions(opts...),
		seed: 1,
	}
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := NewGenerator(coreOpts...)
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Seed returns the noise seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Sine returns a source playing the same sine on both channels.
func (g *Generator) Sine(freqHz, amplitude float64) (*Source, error) {
	return g.StereoSine(freqHz, freqHz, amplitude)
}

// StereoSine returns a source with independent sine frequencies per
// channel.
func (g *Generator) StereoSine(leftHz, rightHz, amplitude float64) (*Source, error) {
	if err := g.validate(amplitude); err != nil {
		return nil, fmt.Errorf("sine: %w", err)
	}
	nyquist := g.cfg.SampleRate / 2
	if leftHz < 0 || rightHz < 0 || leftHz >= nyquist || rightHz >= nyquist {
		return nil, fmt.Errorf("sine frequency must be in [0, %g): %g, %g", nyquist, leftHz, rightHz)
	}

	stepL := 2 * math.Pi * leftHz / g.cfg.SampleRate
	stepR := 2 * math.Pi * rightHz / g.cfg.SampleRate
	return g.newSource(func(s *Source, i int64) (float64, float64) {
		return amplitude * math.Sin(stepL*float64(i)), amplitude * math.Sin(stepR*float64(i))
	}, nil), nil
}

// WhiteNoise returns a source with independent deterministic white noise
// in [-amplitude, amplitude] on each channel.
func (g *Generator) WhiteNoise(amplitude float64) (*Source, error) {
	if err := g.validate(amplitude); err != nil {
		return nil, fmt.Errorf("noise: %w", err)
	}

	seed := g.seed
	return g.newSource(func(s *Source, _ int64) (float64, float64) {
		l := (s.rng.Float64()*2 - 1) * amplitude
		r := (s.rng.Float64()*2 - 1) * amplitude
		return l, r
	}, func(s *Source) {
		s.rng = rand.New(rand.NewSource(seed))
	}), nil
}

// Sweep returns an exponential sine sweep from startHz to endHz lasting
// period, repeated.
func (g *Generator) Sweep(startHz, endHz, amplitude float64, period time.Duration) (*Source, error) {
	if err := g.validate(amplitude); err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}
	nyquist := g.cfg.SampleRate / 2
	if startHz <= 0 || endHz <= 0 || startHz >= nyquist || endHz >= nyquist {
		return nil, fmt.Errorf("sweep frequencies must be in (0, %g): %g, %g", nyquist, startHz, endHz)
	}
	frames := int64(period.Seconds() * g.cfg.SampleRate)
	if frames <= 0 {
		return nil, fmt.Errorf("sweep period must be > 0: %v", period)
	}

	t := float64(frames) / g.cfg.SampleRate
	k := math.Log(endHz / startHz)
	return g.newSource(func(s *Source, i int64) (float64, float64) {
		pos := float64(i%frames) / g.cfg.SampleRate
		var phase float64
		if k == 0 {
			phase = 2 * math.Pi * startHz * pos
		} else {
			phase = 2 * math.Pi * startHz * t / k * (math.Exp(pos/t*k) - 1)
		}
		v := amplitude * math.Sin(phase)
		return v, v
	}, nil), nil
}

func (g *Generator) validate(amplitude float64) error {
	if g.cfg.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	if amplitude < 0 || !core.IsFinite(amplitude) {
		return fmt.Errorf("amplitude must be >= 0 and finite: %f", amplitude)
	}
	return nil
}

func (g *Generator) newSource(frame func(*Source, int64) (float64, float64), reset func(*Source)) *Source {
	s := &Source{
		frame:  frame,
		reset:  reset,
		length: int64(g.duration.Seconds() * g.cfg.SampleRate),
	}
	s.Reset()
	return s
}
