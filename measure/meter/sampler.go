package meter

import "fmt"

// Sample is one stereo meter reading, each channel in [0, 1].
type Sample struct {
	L float64 `json:"l"`
	R float64 `json:"r"`
}

// Sampler taps both channels of a stereo signal.
type Sampler struct {
	Left  *Analyser
	Right *Analyser
}

// NewSampler creates two analysers with the same options.
func NewSampler(opts ...AnalyserOption) (*Sampler, error) {
	left, err := NewAnalyser(opts...)
	if err != nil {
		return nil, fmt.Errorf("meter left: %w", err)
	}
	right, err := NewAnalyser(opts...)
	if err != nil {
		return nil, fmt.Errorf("meter right: %w", err)
	}
	return &Sampler{Left: left, Right: right}, nil
}

// Write feeds one stereo block. Render side.
func (s *Sampler) Write(left, right []float64) {
	s.Left.Write(left)
	s.Right.Write(right)
}

// RMS polls both channels. A nil sampler reads silence.
func (s *Sampler) RMS() Sample {
	if s == nil {
		return Sample{}
	}
	return Sample{L: s.Left.RMS(), R: s.Right.RMS()}
}

// Reset clears both channels.
func (s *Sampler) Reset() {
	s.Left.Reset()
	s.Right.Reset()
}
