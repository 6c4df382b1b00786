package signal

import "math/rand"

// Source is a stereo test signal streamed as interleaved float32 frames.
// It is not safe for concurrent use.
type Source struct {
	frame  func(*Source, int64) (float64, float64)
	reset  func(*Source)
	rng    *rand.Rand
	pos    int64
	length int64 // frames, 0 means endless
}

// Stream writes interleaved stereo frames into dst and returns the number
// of frames written. It returns 0 once a finite source is exhausted.
func (s *Source) Stream(dst []float32) int {
	n := len(dst) / 2
	if s.length > 0 {
		n = int(min(int64(n), s.length-s.pos))
	}

	for i := 0; i < n; i++ {
		l, r := s.frame(s, s.pos)
		dst[2*i] = float32(l)
		dst[2*i+1] = float32(r)
		s.pos++
	}
	return n
}

// Reset rewinds the source to its first frame.
func (s *Source) Reset() {
	s.pos = 0
	if s.reset != nil {
		s.reset(s)
	}
}

// Position returns the number of frames streamed since the last Reset.
func (s *Source) Position() int64 {
	return s.pos
}

// Len returns the source length in frames, 0 for endless sources.
func (s *Source) Len() int64 {
	return s.length
}
