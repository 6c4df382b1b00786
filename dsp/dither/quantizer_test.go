package dither

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-mastering/internal/testutil"
)

func TestNewQuantizerValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"bit depth too low", []Option{WithBitDepth(1)}},
		{"bit depth too high", []Option{WithBitDepth(32)}},
		{"bad type", []Option{WithType(Type(9))}},
		{"negative amplitude", []Option{WithAmplitude(-1)}},
		{"NaN amplitude", []Option{WithAmplitude(math.NaN())}},
		{"infinite amplitude", []Option{WithAmplitude(math.Inf(1))}},
		{"bad shaping", []Option{WithShaping(Shaping(-1))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewQuantizer(tt.opts...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewQuantizerDefaults(t *testing.T) {
	q, err := NewQuantizer(nil)
	if err != nil {
		t.Fatalf("NewQuantizer: %v", err)
	}
	if q.BitDepth() != 16 || q.Type() != Triangular || q.Amplitude() != 1 || q.Shaping() != ShapingNone {
		t.Fatalf("defaults = %d %v %v %v", q.BitDepth(), q.Type(), q.Amplitude(), q.Shaping())
	}
}

func TestQuantizeWithoutDitherRounds(t *testing.T) {
	q, err := NewQuantizer(WithType(None))
	if err != nil {
		t.Fatalf("NewQuantizer: %v", err)
	}

	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{2, 32767},
		{-2, -32768},
		{0.5, 16384},
		{1.0 / 32767, 1},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := q.Quantize(tt.in); got != tt.want {
			t.Fatalf("Quantize(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if got := q.Float(32767); got != 1 {
		t.Fatalf("Float(32767) = %v, want 1", got)
	}
}

func TestTriangularDitherIsUnbiased(t *testing.T) {
	q, err := NewQuantizer(WithSeed(7), WithBitDepth(8))
	if err != nil {
		t.Fatalf("NewQuantizer: %v", err)
	}

	// A DC level a third of an LSB above zero averages back to that level.
	x := 1.0 / 3 / 127
	const n = 200000
	sum := 0.0
	for range n {
		sum += q.Float(q.Quantize(x))
	}
	if mean := sum / n; math.Abs(mean-x) > 0.05/127 {
		t.Fatalf("mean = %v, want %v", mean, x)
	}
}

func TestSeedReproducible(t *testing.T) {
	a, _ := NewQuantizer(WithSeed(42), WithShaping(Shaping9FC))
	b, _ := NewQuantizer(WithSeed(42), WithShaping(Shaping9FC))
	in := testutil.DeterministicSine(1000, 48000, 0.5, 512)
	for i, v := range in {
		if ca, cb := a.Quantize(v), b.Quantize(v); ca != cb {
			t.Fatalf("sample %d: %d != %d", i, ca, cb)
		}
	}
}

func TestShapingKeepsSignal(t *testing.T) {
	for s := ShapingNone; s < shapingCount; s++ {
		t.Run(s.String(), func(t *testing.T) {
			q, err := NewQuantizer(WithSeed(1), WithShaping(s))
			if err != nil {
				t.Fatalf("NewQuantizer: %v", err)
			}
			in := testutil.DeterministicSine(440, 48000, 0.5, 4800)
			out := make([]float64, len(in))
			for i, v := range in {
				out[i] = q.Float(q.Quantize(v))
			}
			testutil.RequireFinite(t, out)
			// Shaped noise is louder in total but stays far below the signal.
			d, err := testutil.MaxAbsDiff(in, out)
			if err != nil {
				t.Fatalf("MaxAbsDiff: %v", err)
			}
			if d > 200.0/32767 {
				t.Fatalf("max error = %v", d)
			}
		})
	}
}

func TestResetClearsHistory(t *testing.T) {
	q, _ := NewQuantizer(WithType(None), WithShaping(ShapingEFB))
	first := q.Quantize(0.3)
	q.Quantize(0.7)
	q.Reset()
	if got := q.Quantize(0.3); got != first {
		t.Fatalf("after Reset = %d, want %d", got, first)
	}
}

func TestParseNames(t *testing.T) {
	for ty := None; ty < typeCount; ty++ {
		got, err := ParseType(ty.String())
		if err != nil || got != ty {
			t.Fatalf("ParseType(%q) = %v, %v", ty.String(), got, err)
		}
	}
	for s := ShapingNone; s < shapingCount; s++ {
		got, err := ParseShaping(s.String())
		if err != nil || got != s {
			t.Fatalf("ParseShaping(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseType("gaussian"); err == nil {
		t.Fatal("expected unknown type error")
	}
	if _, err := ParseShaping("nope"); err == nil {
		t.Fatal("expected unknown shaping error")
	}
	if got := Type(99).String(); got != "Type(99)" {
		t.Fatalf("String() = %q", got)
	}
	if ShapingNone.Coefficients() != nil {
		t.Fatal("ShapingNone has coefficients")
	}
}
