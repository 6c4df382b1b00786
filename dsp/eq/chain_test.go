package eq

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/param"
	"github.com/cwbudde/algo-mastering/internal/testutil"
)

const (
	sampleRate = 48000.0
	quantum    = 128
)

func newChain(t *testing.T) *Chain {
	t.Helper()
	c, err := NewChain(param.NewClock(sampleRate))
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	return c
}

// run processes silence for the given number of seconds.
func run(c *Chain, seconds float64) {
	buf := make([]float64, quantum)
	for n := int(seconds * sampleRate / quantum); n > 0; n-- {
		clear(buf)
		c.Process(buf)
	}
}

func sampleState() ChannelState {
	s := FlatChannel()
	s.Gain = 6
	s.Bands[Band63] = 4.5
	s.Bands[Band1k] = -3
	s.Bands[Band16k] = 12
	return s
}

func TestNewChainErrors(t *testing.T) {
	if _, err := NewChain(nil); err == nil {
		t.Fatal("expected error for nil clock")
	}
	if _, err := NewChain(param.NewClock(0)); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewChain(param.NewClock(sampleRate), WithQ(0)); err == nil {
		t.Fatal("expected error for zero Q")
	}
}

func TestFlatChainIsTransparent(t *testing.T) {
	c := newChain(t)
	in := testutil.DeterministicNoise(3, 0.8, 4*quantum)
	out := append([]float64(nil), in...)
	for i := 0; i < len(out); i += quantum {
		c.Process(out[i : i+quantum])
	}
	testutil.RequireSliceNearlyEqual(t, out, in, 0)
}

func TestApplySmoothsTowardTargets(t *testing.T) {
	c := newChain(t)
	c.Apply(sampleState(), false, 0.1)

	if c.InputGain() != 1 {
		t.Fatalf("gain moved before render: %v", c.InputGain())
	}
	if got, want := c.InputGainTarget(), core.DBToLinear(6); got != want {
		t.Fatalf("target %v, want %v", got, want)
	}

	run(c, 0.05)
	if g := c.InputGain(); g <= 1 || g >= core.DBToLinear(6) {
		t.Fatalf("gain should be between start and target, got %v", g)
	}

	run(c, 3)
	if g := c.InputGain(); math.Abs(g-1.9953) > 1e-4 {
		t.Fatalf("gain %v, want ~1.9953", g)
	}
	if g := c.BandGain(Band16k); g != 12 {
		t.Fatalf("16k band %v, want 12", g)
	}
}

func TestBypassIsReversible(t *testing.T) {
	c := newChain(t)
	state := sampleState()

	c.Apply(state, false, 0.1)
	run(c, 3)
	before := make(map[FrequencyKey]float64)
	for _, k := range Keys {
		before[k] = c.BandGain(k)
	}
	gainBefore := c.InputGain()

	c.Apply(state, true, 0.1)
	run(c, 3)
	if c.InputGain() != 1 {
		t.Fatalf("bypass input gain %v, want 1", c.InputGain())
	}
	for _, k := range Keys {
		if c.BandGain(k) != 0 {
			t.Fatalf("bypass band %s = %v, want 0", k, c.BandGain(k))
		}
	}

	c.Apply(state, false, 0.1)
	run(c, 3)
	if c.InputGain() != gainBefore {
		t.Fatalf("input gain drifted: %v -> %v", gainBefore, c.InputGain())
	}
	for _, k := range Keys {
		if c.BandGain(k) != before[k] {
			t.Fatalf("band %s drifted: %v -> %v", k, before[k], c.BandGain(k))
		}
	}
}

func TestMissingBandIsZero(t *testing.T) {
	c := newChain(t)
	c.Apply(ChannelState{Gain: 0, Bands: map[FrequencyKey]float64{Band2k: 5}}, false, 0)
	run(c, 0.01)
	for _, k := range Keys {
		want := 0.0
		if k == Band2k {
			want = 5
		}
		if c.BandGain(k) != want {
			t.Fatalf("band %s = %v, want %v", k, c.BandGain(k), want)
		}
	}

	c.Apply(ChannelState{}, false, 0)
	run(c, 0.01)
	if c.BandGain(Band2k) != 0 {
		t.Fatalf("nil bands should zero every band, got %v", c.BandGain(Band2k))
	}
}

func TestBandBoostsCentreFrequency(t *testing.T) {
	c := newChain(t)
	state := FlatChannel()
	state.Bands[Band1k] = 6
	c.Apply(state, false, 0)

	n := int(sampleRate)
	buf := testutil.DeterministicSine(1000, sampleRate, 0.25, n)
	for i := 0; i+quantum <= n; i += quantum {
		c.Process(buf[i : i+quantum])
	}

	// Peak over the last 10 ms, well past the transient.
	peak := 0.0
	for _, v := range buf[n-480 : n-n%quantum] {
		peak = math.Max(peak, math.Abs(v))
	}
	if want := 0.25 * core.DBToLinear(6); math.Abs(peak-want) > 0.01 {
		t.Fatalf("peak %v, want ~%v", peak, want)
	}
}

func TestResponseDB(t *testing.T) {
	c := newChain(t)
	state := FlatChannel()
	state.Gain = -2
	state.Bands[Band4k] = 8
	c.Apply(state, false, 0.1)

	// Targets are visible before rendering.
	if got := c.ResponseDB(4000); math.Abs(got-6) > 0.05 {
		t.Fatalf("ResponseDB(4k) = %v, want ~6", got)
	}
	if got := c.ResponseDB(25); math.Abs(got+2) > 0.05 {
		t.Fatalf("ResponseDB(25) = %v, want ~-2", got)
	}
}

func TestUnknownKey(t *testing.T) {
	c := newChain(t)
	if c.BandGain("3k") != 0 || c.BandTarget("3k") != 0 {
		t.Fatal("unknown key should read 0")
	}
}
