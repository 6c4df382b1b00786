package meter

import (
	"fmt"
	"math"
)

const (
	// DefaultFFTSize is the analysis window in samples.
	DefaultFFTSize = 256

	defaultSmoothingTimeConstant = 0.8
	defaultMinDecibels           = -100.0
	defaultMaxDecibels           = -30.0

	minFFTSize = 32
	maxFFTSize = 32768
)

// AnalyserOption configures an Analyser.
type AnalyserOption func(*analyserConfig) error

type analyserConfig struct {
	fftSize     int
	smoothing   float64
	minDecibels float64
	maxDecibels float64
}

func defaultAnalyserConfig() analyserConfig {
	return analyserConfig{
		fftSize:     DefaultFFTSize,
		smoothing:   defaultSmoothingTimeConstant,
		minDecibels: defaultMinDecibels,
		maxDecibels: defaultMaxDecibels,
	}
}

// WithFFTSize sets the analysis window. It must be a power of two in
// [32, 32768].
func WithFFTSize(n int) AnalyserOption {
	return func(cfg *analyserConfig) error {
		if n < minFFTSize || n > maxFFTSize || n&(n-1) != 0 {
			return fmt.Errorf("analyser fft size must be a power of two in [%d, %d]: %d", minFFTSize, maxFFTSize, n)
		}
		cfg.fftSize = n
		return nil
	}
}

// WithSmoothingTimeConstant sets the spectrum averaging factor in [0, 1).
// 0 disables averaging.
func WithSmoothingTimeConstant(v float64) AnalyserOption {
	return func(cfg *analyserConfig) error {
		if v < 0 || v >= 1 || math.IsNaN(v) {
			return fmt.Errorf("analyser smoothing must be in [0, 1): %f", v)
		}
		cfg.smoothing = v
		return nil
	}
}

// WithDecibelRange sets the dB range mapped onto byte spectrum data.
func WithDecibelRange(minDB, maxDB float64) AnalyserOption {
	return func(cfg *analyserConfig) error {
		if !(minDB < maxDB) || math.IsInf(minDB, 0) || math.IsInf(maxDB, 0) {
			return fmt.Errorf("analyser decibel range must satisfy min < max: [%f, %f]", minDB, maxDB)
		}
		cfg.minDecibels = minDB
		cfg.maxDecibels = maxDB
		return nil
	}
}
