// Package design provides biquad coefficient designers.
//
// The functions in this package produce coefficients consumable by
// dsp/filter/biquad for runtime processing. Only the RBJ peaking equalizer
// used by the channel EQ bands is provided.
package design
