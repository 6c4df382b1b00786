package design_test

import (
	"fmt"

	"github.com/cwbudde/algo-mastering/dsp/filter/design"
)

func ExamplePeak() {
	c := design.Peak(1000, 6, 1.4, 48000)
	fmt.Printf("%.2f dB at 1 kHz\n", c.MagnitudeDB(1000, 48000))
	// Output:
	// 6.00 dB at 1 kHz
}
