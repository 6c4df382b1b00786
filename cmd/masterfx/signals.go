package main

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/signal"
)

// signalNames lists the generated sources in the order the monitor cycles
// through them.
var signalNames = []string{"sine", "stereo", "noise", "sweep"}

// SignalFlags select the generated media source.
type SignalFlags struct {
	Signal    string  `help:"Test signal." enum:"sine,stereo,noise,sweep" default:"stereo"`
	Frequency float64 `help:"Sine frequency in Hz." default:"440"`
	Amplitude float64 `help:"Peak amplitude in [0, 1]." default:"0.25"`
	Seed      int64   `help:"Noise seed." default:"1"`
}

func (f SignalFlags) source(name string, sampleRate int) (*signal.Source, error) {
	g := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(float64(sampleRate))},
		signal.WithSeed(f.Seed),
	)

	switch name {
	case "sine":
		return g.Sine(f.Frequency, f.Amplitude)
	case "stereo":
		return g.StereoSine(f.Frequency, f.Frequency*1.5, f.Amplitude)
	case "noise":
		return g.WhiteNoise(f.Amplitude)
	case "sweep":
		return g.Sweep(20, 20000, f.Amplitude, 10*time.Second)
	default:
		return nil, fmt.Errorf("unknown signal %q", name)
	}
}

func nextSignal(name string) string {
	for i, n := range signalNames {
		if n == name {
			return signalNames[(i+1)%len(signalNames)]
		}
	}
	return signalNames[0]
}
