// Package dither reduces the engine's float output to integer PCM for
// bounces to disk.
//
// A [Quantizer] scales one channel to the target bit depth, adds dither
// noise and optionally shapes the requantization error with an FIR
// error-feedback filter. [Stereo] keeps one quantizer per channel so the
// error histories of left and right stay independent.
package dither

import "fmt"

// Type selects the probability distribution of the dither noise.
type Type int

const (
	// None truncates without dither.
	None Type = iota
	// Rectangular adds uniform noise of one LSB peak.
	Rectangular
	// Triangular adds TPDF noise (difference of two uniform draws).
	Triangular

	typeCount
)

var typeNames = [typeCount]string{"none", "rectangular", "triangular"}

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a known dither type.
func (t Type) Valid() bool {
	return t >= 0 && t < typeCount
}

// ParseType looks a dither type up by its String name.
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == name {
			return Type(t), nil
		}
	}
	return None, fmt.Errorf("dither: unknown type %q", name)
}
