package engine

import (
	"log/slog"
	"math"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/measure/meter"
)

const (
	// DefaultSmoothingTimeConstant is the exponential time constant, in
	// seconds, every snapshot parameter approaches its target with.
	DefaultSmoothingTimeConstant = 0.1

	// DefaultMeterWindow is the number of recent samples each RMS poll
	// covers.
	DefaultMeterWindow = meter.DefaultFFTSize
)

type config struct {
	core.ProcessorConfig

	meterWindow  int
	timeConstant float64
	logger       *slog.Logger
}

// Option configures an Engine. Invalid values are ignored.
type Option func(*config)

func defaultConfig() config {
	return config{
		ProcessorConfig: core.DefaultProcessorConfig(),
		meterWindow:     DefaultMeterWindow,
		timeConstant:    DefaultSmoothingTimeConstant,
	}
}

// WithSampleRate sets the sample rate the host context is opened at.
func WithSampleRate(sampleRate int) Option {
	return func(cfg *config) {
		core.WithSampleRate(float64(sampleRate))(&cfg.ProcessorConfig)
	}
}

// WithRenderQuantum sets the number of frames rendered between k-rate
// parameter updates.
func WithRenderQuantum(frames int) Option {
	return func(cfg *config) {
		core.WithBlockSize(frames)(&cfg.ProcessorConfig)
	}
}

// WithMeterWindow sets the meter analysis window. It must be a power of
// two in [32, 32768]; other values are ignored.
func WithMeterWindow(n int) Option {
	return func(cfg *config) {
		if n >= 32 && n <= 32768 && n&(n-1) == 0 {
			cfg.meterWindow = n
		}
	}
}

// WithSmoothingTimeConstant sets the snapshot smoothing time constant in
// seconds.
func WithSmoothingTimeConstant(seconds float64) Option {
	return func(cfg *config) {
		if seconds > 0 && !math.IsInf(seconds, 0) {
			cfg.timeConstant = seconds
		}
	}
}

// WithLogger sets the logger. The engine adds a component attribute.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}
