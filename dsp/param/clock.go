package param

import (
	"sync/atomic"
	"time"
)

// Clock counts the frames rendered by a signal graph. It is advanced by the
// render goroutine and may be read from any goroutine.
type Clock struct {
	sampleRate float64
	frames     atomic.Int64
}

// NewClock returns a clock for the given sample rate in Hz.
func NewClock(sampleRate float64) *Clock {
	return &Clock{sampleRate: sampleRate}
}

// SampleRate returns the clock's sample rate in Hz.
func (c *Clock) SampleRate() float64 {
	return c.sampleRate
}

// Advance adds n rendered frames.
func (c *Clock) Advance(n int) {
	if n > 0 {
		c.frames.Add(int64(n))
	}
}

// Frames returns the number of frames rendered so far.
func (c *Clock) Frames() int64 {
	return c.frames.Load()
}

// CurrentTime returns the rendered duration.
func (c *Clock) CurrentTime() time.Duration {
	if c.sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(c.frames.Load()) / c.sampleRate * float64(time.Second))
}

// FramesFor converts a duration to a whole number of frames at the clock's
// sample rate.
func (c *Clock) FramesFor(d time.Duration) int64 {
	if d <= 0 || c.sampleRate <= 0 {
		return 0
	}
	return int64(d.Seconds()*c.sampleRate + 0.5)
}
