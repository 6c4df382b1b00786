package ebitenhost

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/cwbudde/algo-mastering/host"
)

type fakePlayer struct {
	blocked bool // autoplay policy refuses to start
	playing bool
	plays   int
	buffer  time.Duration
	closed  bool
	source  io.Reader
}

func (p *fakePlayer) Play() {
	p.plays++
	if !p.blocked {
		p.playing = true
	}
}

func (p *fakePlayer) Pause() { p.playing = false }

func (p *fakePlayer) IsPlaying() bool { return p.playing }

func (p *fakePlayer) SetBufferSize(d time.Duration) { p.buffer = d }

func (p *fakePlayer) Close() error {
	p.closed = true
	return nil
}

func newFakeContext(pl *fakePlayer, opts ...Option) *Context {
	c := &Context{
		rate: 48000,
		newPlayer: func(r io.Reader) (player, error) {
			pl.source = r
			return pl, nil
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func TestResumeStartsPlayer(t *testing.T) {
	pl := &fakePlayer{}
	c := newFakeContext(pl, WithBufferSize(50*time.Millisecond))

	if err := c.Resume(); !errors.Is(err, host.ErrSuspended) {
		t.Fatalf("Resume before Connect = %v, want ErrSuspended", err)
	}
	if got := c.State(); got != host.StateSuspended {
		t.Fatalf("State before Connect = %v, want suspended", got)
	}

	if err := c.Connect(rampRenderer{}); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if pl.buffer != 50*time.Millisecond {
		t.Fatalf("buffer = %v, want 50ms", pl.buffer)
	}
	if err := c.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if got := c.State(); got != host.StateRunning {
		t.Fatalf("State after Resume = %v, want running", got)
	}

	if err := c.Resume(); err != nil || pl.plays != 1 {
		t.Fatalf("second Resume err=%v plays=%d, want nil and 1", err, pl.plays)
	}
}

func TestResumeBlockedByAutoplay(t *testing.T) {
	pl := &fakePlayer{blocked: true}
	c := newFakeContext(pl)
	if err := c.Connect(rampRenderer{}); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := c.Resume(); !errors.Is(err, host.ErrSuspended) {
		t.Fatalf("blocked Resume = %v, want ErrSuspended", err)
	}
	if c.State() != host.StateSuspended {
		t.Fatalf("State = %v, want suspended", c.State())
	}

	pl.blocked = false
	if err := c.Resume(); err != nil {
		t.Fatalf("retried Resume: %v", err)
	}
	if c.State() != host.StateRunning {
		t.Fatalf("State = %v, want running", c.State())
	}
}

func TestConnectReplacesRenderer(t *testing.T) {
	pl := &fakePlayer{}
	c := newFakeContext(pl)
	if err := c.Connect(nil); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := c.Connect(rampRenderer{}); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	p := make([]byte, 16)
	if _, err := pl.source.Read(p); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if p[4] == 0 && p[5] == 0 && p[6] == 0 && p[7] == 0 {
		t.Fatal("second sample is zero, want the replacement renderer's ramp")
	}
}

func TestCloseStopsPlayer(t *testing.T) {
	pl := &fakePlayer{}
	c := newFakeContext(pl)
	if err := c.Connect(rampRenderer{}); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := c.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !pl.closed || pl.playing {
		t.Fatalf("player closed=%v playing=%v after Close", pl.closed, pl.playing)
	}
	if c.State() != host.StateClosed {
		t.Fatalf("State = %v, want closed", c.State())
	}
	if err := c.Resume(); !errors.Is(err, host.ErrClosed) {
		t.Fatalf("Resume after Close = %v, want ErrClosed", err)
	}
	if err := c.Connect(rampRenderer{}); !errors.Is(err, host.ErrClosed) {
		t.Fatalf("Connect after Close = %v, want ErrClosed", err)
	}
}
