// Package biquad provides the second-order IIR section used by the
// per-channel EQ bands.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Coefficients can be
// replaced while running without clearing the delay line, which is how band
// gains are automated without discontinuities.
//
// Coefficient design lives in dsp/filter/design.
package biquad
