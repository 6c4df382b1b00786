package offline

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-mastering/host"
)

type constRenderer struct {
	v     float32
	calls int
}

func (r *constRenderer) Render(dst []float32) {
	r.calls++
	for i := range dst {
		dst[i] = r.v
	}
}

func TestRenderRunning(t *testing.T) {
	c := New(48000)
	r := &constRenderer{v: 0.5}
	if err := c.Connect(r); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	out := c.Render(4)
	if len(out) != 8 {
		t.Fatalf("len = %d, want 8", len(out))
	}
	for i, v := range out {
		if v != 0.5 {
			t.Fatalf("out[%d] = %v", i, v)
		}
	}
	if c.Frames() != 4 {
		t.Fatalf("Frames() = %d", c.Frames())
	}
}

func TestSuspendedRendersSilence(t *testing.T) {
	c := New(48000, WithSuspended())
	r := &constRenderer{v: 1}
	_ = c.Connect(r)

	out := c.Render(4)
	for _, v := range out {
		if v != 0 {
			t.Fatal("suspended clock produced audio")
		}
	}
	if r.calls != 0 || c.Frames() != 0 {
		t.Fatal("suspended clock called the renderer")
	}
	if c.State() != host.StateSuspended {
		t.Fatalf("State() = %v", c.State())
	}
}

func TestBlockedResumes(t *testing.T) {
	c := New(48000, WithSuspended(), WithBlockedResumes(2))
	for i := 0; i < 2; i++ {
		if err := c.Resume(); !errors.Is(err, host.ErrSuspended) {
			t.Fatalf("Resume %d: %v, want ErrSuspended", i, err)
		}
	}
	if err := c.Resume(); err != nil {
		t.Fatalf("third Resume: %v", err)
	}
	if c.State() != host.StateRunning {
		t.Fatalf("State() = %v", c.State())
	}
	if err := c.Resume(); err != nil {
		t.Fatalf("Resume while running: %v", err)
	}
}

func TestSuspendAndClose(t *testing.T) {
	c := New(48000)
	c.Suspend()
	if c.State() != host.StateSuspended {
		t.Fatalf("State() = %v", c.State())
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Resume(); !errors.Is(err, host.ErrClosed) {
		t.Fatalf("Resume after Close: %v", err)
	}
	if err := c.Connect(&constRenderer{}); !errors.Is(err, host.ErrClosed) {
		t.Fatalf("Connect after Close: %v", err)
	}
}

func TestFactoryRecordsContext(t *testing.T) {
	var c *Context
	f := Factory(&c, WithSuspended())
	ctx, err := f(44100)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if c == nil || ctx != host.Context(c) {
		t.Fatal("factory did not record its context")
	}
	if c.SampleRate() != 44100 || c.State() != host.StateSuspended {
		t.Fatalf("context %d %v", c.SampleRate(), c.State())
	}
	if _, err := f(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}
