package engine

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cwbudde/algo-mastering/dsp/eq"
)

func TestDefaultState(t *testing.T) {
	s := DefaultState()
	if s.Bypass || !s.LimiterActive || s.WidthRotation != 0 {
		t.Fatalf("DefaultState() = %+v", s)
	}
	for _, ch := range []eq.ChannelState{s.Left, s.Right} {
		if ch.Gain != 0 || len(ch.Bands) != eq.NumBands {
			t.Fatalf("channel = %+v, want flat with %d bands", ch, eq.NumBands)
		}
	}
}

func TestStateCloneIsDeep(t *testing.T) {
	s := DefaultState()
	c := s.Clone()
	c.Left.Bands[eq.Band1k] = 5
	c.Right.Bands[eq.Band25] = -5
	if s.Left.Bands[eq.Band1k] != 0 || s.Right.Bands[eq.Band25] != 0 {
		t.Fatal("Clone shares band maps with the original")
	}
}

func TestWithPresetKeepsWidthAndLimiter(t *testing.T) {
	s := DefaultState()
	s.LimiterActive = false
	s.Bypass = true
	s.WidthRotation = 45
	s.Left.Gain = 3
	s.Right.Gain = -3
	s.Left.Bands[eq.Band500] = 9

	p, ok := LookupPreset("bass boost")
	if !ok {
		t.Fatal("Bass Boost preset missing")
	}
	got := s.WithPreset(p)

	if got.LimiterActive || !got.Bypass || got.WidthRotation != 45 {
		t.Fatalf("WithPreset changed transport fields: %+v", got)
	}
	if got.Left.Gain != 0 || got.Right.Gain != 0 {
		t.Fatalf("channel gains = %v / %v, want 0", got.Left.Gain, got.Right.Gain)
	}
	for _, key := range eq.Keys {
		want := p.Bands[key]
		if got.Left.Band(key) != want || got.Right.Band(key) != want {
			t.Fatalf("band %s = %v / %v, want %v", key, got.Left.Band(key), got.Right.Band(key), want)
		}
	}
	if s.Left.Bands[eq.Band500] != 9 {
		t.Fatal("WithPreset mutated the receiver")
	}
}

func TestStateReset(t *testing.T) {
	s := DefaultState()
	s.LimiterActive = false
	s.WidthRotation = -90
	s.Left.Gain = 4
	s.Right.Bands[eq.Band8k] = -6

	got := s.Reset()
	if got.WidthRotation != 0 || got.Left.Gain != 0 || got.Right.Band(eq.Band8k) != 0 {
		t.Fatalf("Reset() = %+v", got)
	}
	if got.LimiterActive {
		t.Fatal("Reset changed the limiter toggle")
	}
	if s.Right.Bands[eq.Band8k] != -6 {
		t.Fatal("Reset mutated the receiver")
	}
}

func TestPresetsUseKnownBands(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range Presets {
		if seen[strings.ToLower(p.Name)] {
			t.Fatalf("duplicate preset %q", p.Name)
		}
		seen[strings.ToLower(p.Name)] = true

		for key, db := range p.Bands {
			if _, ok := eq.Index(key); !ok {
				t.Fatalf("preset %q uses unknown band %q", p.Name, key)
			}
			if db < -MaxGainDB || db > MaxGainDB {
				t.Fatalf("preset %q band %s = %v dB out of range", p.Name, key, db)
			}
		}
	}
	if _, ok := LookupPreset("no such preset"); ok {
		t.Fatal("LookupPreset found a missing preset")
	}
}

func TestStateJSON(t *testing.T) {
	raw, err := json.Marshal(DefaultState())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{`"bypass":false`, `"limiterActive":true`, `"widthRotation":0`, `"1k":0`, `"16k":0`, `"gain":0`} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("JSON %s lacks %s", raw, want)
		}
	}

	in := `{"bypass":true,"limiterActive":false,"widthRotation":-45,
		"left":{"gain":6,"bands":{"25":3,"1k":-2.5}},
		"right":{"gain":-1.5,"bands":{"16k":12}}}`
	var s State
	if err := json.Unmarshal([]byte(in), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !s.Bypass || s.LimiterActive || s.WidthRotation != -45 {
		t.Fatalf("decoded %+v", s)
	}
	if s.Left.Gain != 6 || s.Left.Band(eq.Band25) != 3 || s.Left.Band(eq.Band1k) != -2.5 {
		t.Fatalf("left = %+v", s.Left)
	}
	if s.Right.Band(eq.Band16k) != 12 || s.Right.Band(eq.Band40) != 0 {
		t.Fatalf("right = %+v", s.Right)
	}
}

func TestGainFromRotation(t *testing.T) {
	tests := []struct {
		deg, want float64
	}{
		{0, 0},
		{135, 12},
		{-135, -12},
		{200, 12},
		{-500, -12},
		{67.5, 6},
		{10, 0.9},
		{-1, -0.1},
		{-0.4, 0},
	}
	for _, tt := range tests {
		if got := GainFromRotation(tt.deg); got != tt.want {
			t.Fatalf("GainFromRotation(%v) = %v, want %v", tt.deg, got, tt.want)
		}
	}
}

func TestBandGainFromPosition(t *testing.T) {
	tests := []struct {
		pos, want float64
	}{
		{0.5, 0},
		{0.51, 0},
		{0.49, 0},
		{0.52, 0},
		{0.53, 0.7},
		{1, 12},
		{0, -12},
		{0.75, 6},
		{0.25, -6},
		{1.5, 12},
		{-1, -12},
	}
	for _, tt := range tests {
		if got := BandGainFromPosition(tt.pos); got != tt.want {
			t.Fatalf("BandGainFromPosition(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestClampHelpers(t *testing.T) {
	if got := ClampRotation(-200); got != -135 {
		t.Fatalf("ClampRotation(-200) = %v", got)
	}
	if got := ClampGain(13); got != 12 {
		t.Fatalf("ClampGain(13) = %v", got)
	}
	if got := ClampGain(-3.5); got != -3.5 {
		t.Fatalf("ClampGain(-3.5) = %v", got)
	}
}

func TestControlInverses(t *testing.T) {
	for _, db := range []float64{-12, -6.5, -1, 0, 0.7, 3, 11.9, 12} {
		if got := GainFromRotation(RotationFromGain(db)); got != db {
			t.Fatalf("GainFromRotation(RotationFromGain(%v)) = %v", db, got)
		}
		if got := BandGainFromPosition(PositionFromBandGain(db)); got != db {
			t.Fatalf("BandGainFromPosition(PositionFromBandGain(%v)) = %v", db, got)
		}
	}
	if got := RotationFromGain(20); got != 135 {
		t.Fatalf("RotationFromGain(20) = %v, want 135", got)
	}
	if got := PositionFromBandGain(-20); got != 0 {
		t.Fatalf("PositionFromBandGain(-20) = %v, want 0", got)
	}
}
