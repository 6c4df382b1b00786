// Package offline provides a host context driven by explicit Render calls.
// It backs tests and bounces to disk; nothing renders unless asked.
package offline

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-mastering/host"
)

// Option configures a Context.
type Option func(*Context)

// WithSuspended starts the clock suspended, as platforms with an autoplay
// policy do.
func WithSuspended() Option {
	return func(c *Context) {
		c.state = host.StateSuspended
	}
}

// WithBlockedResumes makes the first n Resume calls fail with
// host.ErrSuspended.
func WithBlockedResumes(n int) Option {
	return func(c *Context) {
		if n > 0 {
			c.blocked = n
		}
	}
}

// Context is a manually clocked host.Context.
type Context struct {
	mu       sync.Mutex
	rate     int
	state    host.State
	blocked  int
	renderer host.Renderer
	frames   int64
}

var _ host.Context = (*Context)(nil)

// New returns a running context unless WithSuspended is given.
func New(sampleRate int, opts ...Option) *Context {
	c := &Context{rate: sampleRate, state: host.StateRunning}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Factory returns a host.Factory that records the context it opens in
// *out when out is non-nil.
func Factory(out **Context, opts ...Option) host.Factory {
	return func(sampleRate int) (host.Context, error) {
		if sampleRate <= 0 {
			return nil, fmt.Errorf("offline: sample rate must be > 0: %d", sampleRate)
		}
		c := New(sampleRate, opts...)
		if out != nil {
			*out = c
		}
		return c, nil
	}
}

// SampleRate implements host.Context.
func (c *Context) SampleRate() int {
	return c.rate
}

// State implements host.Context.
func (c *Context) State() host.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Resume implements host.Context.
func (c *Context) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case host.StateClosed:
		return host.ErrClosed
	case host.StateRunning:
		return nil
	}
	if c.blocked > 0 {
		c.blocked--
		return host.ErrSuspended
	}
	c.state = host.StateRunning
	return nil
}

// Suspend stops the clock until the next successful Resume.
func (c *Context) Suspend() {
	c.mu.Lock()
	if c.state == host.StateRunning {
		c.state = host.StateSuspended
	}
	c.mu.Unlock()
}

// Connect implements host.Context.
func (c *Context) Connect(r host.Renderer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == host.StateClosed {
		return host.ErrClosed
	}
	c.renderer = r
	return nil
}

// Close implements host.Context.
func (c *Context) Close() error {
	c.mu.Lock()
	c.state = host.StateClosed
	c.renderer = nil
	c.mu.Unlock()
	return nil
}

// Render pulls frames from the renderer and returns them interleaved.
// While the clock is not running, or nothing is connected, it returns
// silence and the renderer is not called.
func (c *Context) Render(frames int) []float32 {
	if frames <= 0 {
		return nil
	}
	dst := make([]float32, 2*frames)
	c.RenderInto(dst)
	return dst
}

// RenderInto fills dst (interleaved stereo) like Render.
func (c *Context) RenderInto(dst []float32) {
	c.mu.Lock()
	r := c.renderer
	running := c.state == host.StateRunning
	c.mu.Unlock()

	if !running || r == nil {
		clear(dst)
		return
	}
	r.Render(dst)

	c.mu.Lock()
	c.frames += int64(len(dst) / 2)
	c.mu.Unlock()
}

// Frames returns the number of frames rendered while running.
func (c *Context) Frames() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}
