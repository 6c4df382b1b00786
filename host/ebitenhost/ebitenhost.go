// Package ebitenhost renders to the default output device through ebiten's
// audio package.
//
// ebiten allows a single audio context per process, so every Context
// opened here shares it and must use the same sample rate. Resume starts
// the player; ebiten begins pulling frames once its audio context is up.
// If the player still is not playing afterwards (autoplay policy),
// Resume reports host.ErrSuspended and can be retried.
package ebitenhost

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/cwbudde/algo-mastering/host"
	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// player is the part of *ebitaudio.Player a Context drives.
type player interface {
	Play()
	Pause()
	IsPlaying() bool
	SetBufferSize(time.Duration)
	Close() error
}

// Option configures a Context.
type Option func(*Context)

// WithBufferSize sets the player buffer duration. Smaller buffers lower
// latency at the risk of underruns.
func WithBufferSize(d time.Duration) Option {
	return func(c *Context) {
		if d > 0 {
			c.bufferSize = d
		}
	}
}

// Factory returns a host.Factory opening ebiten-backed contexts.
func Factory(opts ...Option) host.Factory {
	return func(sampleRate int) (host.Context, error) {
		return Open(sampleRate, opts...)
	}
}

// Context is a host.Context playing through ebiten.
type Context struct {
	mu         sync.Mutex
	rate       int
	bufferSize time.Duration
	newPlayer  func(io.Reader) (player, error)
	player     player
	reader     *streamReader
	closed     bool
}

var _ host.Context = (*Context)(nil)

// Open creates a context at sampleRate. No audio flows until a renderer is
// connected and Resume succeeds.
func Open(sampleRate int, opts ...Option) (*Context, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("ebitenhost: sample rate must be > 0: %d", sampleRate)
	}
	actx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("ebitenhost: %w", err)
	}
	c := &Context{
		rate: sampleRate,
		newPlayer: func(r io.Reader) (player, error) {
			return actx.NewPlayerF32(r)
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// SampleRate implements host.Context.
func (c *Context) SampleRate() int {
	return c.rate
}

// State implements host.Context.
func (c *Context) State() host.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return host.StateClosed
	case c.player != nil && c.player.IsPlaying():
		return host.StateRunning
	default:
		return host.StateSuspended
	}
}

// Connect implements host.Context. It replaces any previous renderer.
func (c *Context) Connect(r host.Renderer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return host.ErrClosed
	}
	if c.reader != nil {
		c.reader.setRenderer(r)
		return nil
	}

	reader := &streamReader{renderer: r}
	pl, err := c.newPlayer(reader)
	if err != nil {
		return fmt.Errorf("ebitenhost: new player: %w", err)
	}
	if c.bufferSize > 0 {
		pl.SetBufferSize(c.bufferSize)
	}
	c.reader = reader
	c.player = pl
	return nil
}

// Resume implements host.Context.
func (c *Context) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return host.ErrClosed
	case c.player == nil:
		return host.ErrSuspended
	}
	if !c.player.IsPlaying() {
		c.player.Play()
	}
	if !c.player.IsPlaying() {
		return host.ErrSuspended
	}
	return nil
}

// Close implements host.Context.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.player == nil {
		return nil
	}
	c.player.Pause()
	return c.player.Close()
}

// streamReader adapts a host.Renderer to the little-endian float32 byte
// stream ebiten's player consumes.
type streamReader struct {
	mu       sync.Mutex
	renderer host.Renderer
	buf      []float32
}

func (r *streamReader) setRenderer(renderer host.Renderer) {
	r.mu.Lock()
	r.renderer = renderer
	r.mu.Unlock()
}

func (r *streamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]

	if r.renderer != nil {
		r.renderer.Render(r.buf)
	} else {
		clear(r.buf)
	}
	for i, v := range r.buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return frames * 8, nil
}
