// Package eq implements the per-channel equalizer: an input gain stage
// followed by twelve fixed-frequency peaking bands in series.
//
// Every gain is automated through dsp/param, so [Chain.Apply] only sets
// smoothing targets and never touches the render path directly. Bypass
// drives every gain to 0 dB while the signal still runs through all bands.
package eq
