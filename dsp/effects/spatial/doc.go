// Package spatial provides the mid/side width matrix.
//
// [MidSide] encodes a stereo pair into mid = L+R and side = L-R, scales the
// side channel by a smoothed width factor, and decodes with the same
// unnormalized sums. A unity width therefore doubles the signal (+6 dB);
// width 0 collapses to mono. [WidthFactor] maps a rotation in degrees to a
// factor with 1 + rotation/135, floored at 0.
package spatial
