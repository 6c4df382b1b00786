package loudness

import "github.com/cwbudde/algo-mastering/dsp/core"

// Config holds loudness meter settings.
type Config struct {
	core.ProcessorConfig
	// Gate enables the BS.1770 absolute and relative gates for
	// integrated loudness.
	Gate bool
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a gated meter at the default sample rate.
func DefaultConfig() Config {
	return Config{
		ProcessorConfig: core.DefaultProcessorConfig(),
		Gate:            true,
	}
}

// WithSampleRate sets the sample rate of the measured stream.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		core.WithSampleRate(sampleRate)(&cfg.ProcessorConfig)
	}
}

// WithGating toggles integrated-loudness gating.
func WithGating(enabled bool) Option {
	return func(cfg *Config) {
		cfg.Gate = enabled
	}
}

func applyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
