package eq

import (
	"encoding/json"
	"testing"
)

func TestKeysAndFrequencies(t *testing.T) {
	want := map[FrequencyKey]float64{
		"25": 25, "40": 40, "63": 63, "100": 100, "160": 160, "250": 250,
		"500": 500, "1k": 1000, "2k": 2000, "4k": 4000, "8k": 8000, "16k": 16000,
	}
	for k, f := range want {
		got, ok := k.Frequency()
		if !ok || got != f {
			t.Fatalf("%s.Frequency() = %v, %v; want %v", k, got, ok, f)
		}
	}
	if _, ok := FrequencyKey("1000").Frequency(); ok {
		t.Fatal("non-canonical key accepted")
	}
	for i := 1; i < NumBands; i++ {
		if Frequencies[i] <= Frequencies[i-1] {
			t.Fatalf("frequencies not ascending at %d", i)
		}
	}
}

func TestChannelStateClone(t *testing.T) {
	a := FlatChannel()
	a.Bands[Band8k] = 3
	b := a.Clone()
	b.Bands[Band8k] = -3
	if a.Bands[Band8k] != 3 {
		t.Fatal("Clone shares the bands map")
	}
	if (ChannelState{}).Clone().Bands != nil {
		t.Fatal("Clone of nil bands should stay nil")
	}
}

func TestChannelStateJSONKeys(t *testing.T) {
	var s ChannelState
	if err := json.Unmarshal([]byte(`{"gain":-1.5,"bands":{"1k":2,"16k":-4}}`), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if s.Gain != -1.5 || s.Band(Band1k) != 2 || s.Band(Band16k) != -4 || s.Band(Band25) != 0 {
		t.Fatalf("decoded %+v", s)
	}
}
