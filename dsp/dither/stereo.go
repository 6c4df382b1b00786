package dither

// Stereo quantizes interleaved stereo with one Quantizer per channel.
type Stereo struct {
	Left  *Quantizer
	Right *Quantizer
}

// NewStereo creates two quantizers from the same options. With WithSeed
// the channels draw from differently seeded generators so their dither
// stays uncorrelated.
func NewStereo(opts ...Option) (*Stereo, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	right := cfg
	right.seed = cfg.seed + 1
	return &Stereo{Left: newQuantizer(cfg), Right: newQuantizer(right)}, nil
}

// Quantize16 writes src (interleaved stereo) into dst as 16-bit codes and
// returns the number of samples written. The quantizers must be 16 bit.
func (s *Stereo) Quantize16(dst []int16, src []float32) int {
	n := min(len(dst), len(src)) &^ 1
	for i := 0; i < n; i += 2 {
		dst[i] = int16(s.Left.Quantize(float64(src[i])))
		dst[i+1] = int16(s.Right.Quantize(float64(src[i+1])))
	}
	return n
}

// Reset clears both error histories.
func (s *Stereo) Reset() {
	s.Left.Reset()
	s.Right.Reset()
}
