package loudness

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-mastering/internal/testutil"
)

func TestIntegratedSine(t *testing.T) {
	const fs = 48000.0
	sine := testutil.DeterministicSine(1000, fs, 1, int(4*fs))
	silence := make([]float64, len(sine))

	tests := []struct {
		name  string
		left  []float64
		right []float64
		want  float64
	}{
		// A full-scale 1 kHz sine reads about -3.0 LUFS per channel.
		{"left only", sine, silence, -3.03},
		{"both channels", sine, sine, -0.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMeter(WithSampleRate(fs))
			m.Write(testutil.Interleave(tt.left, tt.right))

			if got := m.Integrated(); math.Abs(got-tt.want) > 0.2 {
				t.Fatalf("Integrated() = %.3f LUFS, want %.3f", got, tt.want)
			}
		})
	}
}

func TestGatingIgnoresSilence(t *testing.T) {
	const fs = 48000.0
	sine := testutil.DeterministicSine(1000, fs, 0.5, int(2*fs))
	silence := make([]float64, int(6*fs))

	gated := NewMeter(WithSampleRate(fs))
	ungated := NewMeter(WithSampleRate(fs), WithGating(false))
	for _, m := range []*Meter{gated, ungated} {
		m.Write(testutil.Interleave(sine, sine))
		m.Write(testutil.Interleave(silence, silence))
	}

	loud := NewMeter(WithSampleRate(fs))
	loud.Write(testutil.Interleave(sine, sine))

	if d := math.Abs(gated.Integrated() - loud.Integrated()); d > 0.5 {
		t.Fatalf("gated loudness moved by %.3f LU with trailing silence", d)
	}
	if ungated.Integrated() > gated.Integrated()-3 {
		t.Fatalf("ungated = %.2f, gated = %.2f; silence should pull ungated down",
			ungated.Integrated(), gated.Integrated())
	}
}

func TestSilenceIsGatedOut(t *testing.T) {
	m := NewMeter()
	m.Write(make([]float32, 2*48000))

	if got := m.Integrated(); !math.IsInf(got, -1) {
		t.Fatalf("Integrated() = %v, want -Inf", got)
	}
	rep := m.Report()
	if !math.IsInf(rep.PeakDB, -1) || !math.IsInf(rep.RMSDB, -1) {
		t.Fatalf("silent report = %+v", rep)
	}
}

func TestReportPeakAndCrest(t *testing.T) {
	const fs = 48000.0
	sine := testutil.DeterministicSine(997, fs, 0.5, int(fs))

	m := NewMeter(WithSampleRate(fs))
	m.Write(testutil.Interleave(sine, sine))
	rep := m.Report()

	if rep.Frames != len(sine) {
		t.Fatalf("Frames = %d, want %d", rep.Frames, len(sine))
	}
	if math.Abs(rep.PeakDB-(-6.02)) > 0.05 {
		t.Fatalf("PeakDB = %.3f, want -6.02", rep.PeakDB)
	}
	if math.Abs(rep.CrestDB-3.01) > 0.05 {
		t.Fatalf("CrestDB = %.3f, want 3.01", rep.CrestDB)
	}
	if rep.MaxMomentary < rep.Integrated-0.01 {
		t.Fatalf("MaxMomentary %.3f below Integrated %.3f", rep.MaxMomentary, rep.Integrated)
	}
}

func TestReset(t *testing.T) {
	const fs = 48000.0
	sine := testutil.DeterministicSine(1000, fs, 1, int(fs))

	m := NewMeter(WithSampleRate(fs))
	m.Write(testutil.Interleave(sine, sine))
	m.Reset()

	if rep := m.Report(); rep.Frames != 0 || !math.IsInf(rep.Integrated, -1) {
		t.Fatalf("after Reset report = %+v", rep)
	}
}
