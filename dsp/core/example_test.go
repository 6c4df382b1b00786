package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-mastering/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d\n", cfg.SampleRate, cfg.BlockSize)

	// Output:
	// sampleRate=44100 blockSize=256
}

func ExampleDBToLinear() {
	fmt.Printf("%.4f %.4f %.4f\n", core.DBToLinear(6), core.DBToLinear(0), core.DBToLinear(-12))

	// Output:
	// 1.9953 1.0000 0.2512
}
