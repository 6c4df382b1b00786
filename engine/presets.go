package engine

import (
	"strings"

	"github.com/cwbudde/algo-mastering/dsp/eq"
)

// Preset is a named set of band gains in dB. Bands not listed are flat.
type Preset struct {
	Name  string
	Bands map[eq.FrequencyKey]float64
}

// Presets lists the built-in presets in display order.
var Presets = []Preset{
	{Name: "Flat"},
	{
		Name: "Bass Boost",
		Bands: map[eq.FrequencyKey]float64{
			eq.Band25: 6, eq.Band40: 5.5, eq.Band63: 4.5, eq.Band100: 3,
			eq.Band160: 1.5, eq.Band250: 0.5,
		},
	},
	{
		Name: "Vocal",
		Bands: map[eq.FrequencyKey]float64{
			eq.Band25: -3, eq.Band40: -2.5, eq.Band63: -1.5, eq.Band100: -0.5,
			eq.Band500: 1, eq.Band1k: 2.5, eq.Band2k: 3.5, eq.Band4k: 2.5,
			eq.Band8k: 1,
		},
	},
	{
		Name: "Treble",
		Bands: map[eq.FrequencyKey]float64{
			eq.Band2k: 1, eq.Band4k: 3, eq.Band8k: 5, eq.Band16k: 6,
		},
	},
	{
		Name: "Loudness",
		Bands: map[eq.FrequencyKey]float64{
			eq.Band25: 5, eq.Band40: 4, eq.Band63: 3, eq.Band100: 1.5,
			eq.Band250: -0.5, eq.Band500: -1, eq.Band1k: -0.5,
			eq.Band4k: 1.5, eq.Band8k: 3, eq.Band16k: 4,
		},
	},
	{
		Name: "Acoustic",
		Bands: map[eq.FrequencyKey]float64{
			eq.Band63: 2, eq.Band100: 2.5, eq.Band160: 1.5, eq.Band250: 0.5,
			eq.Band1k: 0.5, eq.Band2k: 1.5, eq.Band4k: 2.5, eq.Band8k: 2,
			eq.Band16k: 1,
		},
	},
}

// LookupPreset finds a built-in preset by name, ignoring case.
func LookupPreset(name string) (Preset, bool) {
	for _, p := range Presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}
