package param_test

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-mastering/dsp/param"
)

func ExampleParam_Ramp() {
	clock := param.NewClock(48000)
	gain := param.New(clock, 1)

	gain.Ramp(1, 0, 500*time.Millisecond)
	block := make([]float64, 128)
	for i := 0; i < 24000/128+1; i++ {
		gain.Fill(block)
		clock.Advance(len(block))
	}
	fmt.Println(gain.Value())
	// Output:
	// 0
}
