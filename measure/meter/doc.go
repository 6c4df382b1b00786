// Package meter provides the pull-model analysis tap placed after the
// limiter.
//
// An [Analyser] keeps the most recent FFT-size samples of one channel in a
// ring buffer. Callers poll it for time-domain data, a byte-quantized copy
// centred at 128, RMS level and a smoothed magnitude spectrum. A [Sampler]
// pairs two analysers for stereo level meters. Nothing polls on its own;
// the caller decides the cadence.
package meter
