package meter

import (
	"fmt"
	"math"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-mastering/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// Analyser captures the latest samples of one channel for polling.
//
// Write is called by the render goroutine; every other method may be called
// from any goroutine. The ring buffer lock is held only for copies, so the
// FFT behind a spectrum poll never stalls Write. Pollers serialize on a
// second lock guarding the analysis scratch; it is always taken first.
type Analyser struct {
	cfg analyserConfig

	mu   sync.Mutex // ring, pos
	ring []float64
	pos  int

	pollMu sync.Mutex // everything below
	frame  []float64
	window []float64
	plan   *algofft.Plan[complex128]
	in     []complex128
	out    []complex128
	mag    []float64
	smooth []float64
	sq     []float64
}

// NewAnalyser returns an analyser holding silence.
func NewAnalyser(opts ...AnalyserOption) (*Analyser, error) {
	cfg := defaultAnalyserConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	plan, err := algofft.NewPlan64(cfg.fftSize)
	if err != nil {
		return nil, fmt.Errorf("analyser fft plan: %w", err)
	}

	n := cfg.fftSize
	return &Analyser{
		cfg:    cfg,
		ring:   make([]float64, n),
		frame:  make([]float64, n),
		window: window.Generate(window.TypeBlackman, n, window.WithPeriodic()),
		plan:   plan,
		in:     make([]complex128, n),
		out:    make([]complex128, n),
		mag:    make([]float64, n/2),
		smooth: make([]float64, n/2),
		sq:     make([]float64, n),
	}, nil
}

// FFTSize returns the number of samples kept.
func (a *Analyser) FFTSize() int {
	return a.cfg.fftSize
}

// FrequencyBinCount returns the number of spectrum bins, FFTSize/2.
func (a *Analyser) FrequencyBinCount() int {
	return a.cfg.fftSize / 2
}

// Write appends samples to the ring buffer, keeping the newest FFTSize.
func (a *Analyser) Write(samples []float64) {
	n := len(a.ring)
	if len(samples) > n {
		samples = samples[len(samples)-n:]
	}

	a.mu.Lock()
	for len(samples) > 0 {
		c := copy(a.ring[a.pos:], samples)
		samples = samples[c:]
		a.pos = (a.pos + c) % n
	}
	a.mu.Unlock()
}

// Reset refills the ring buffer with silence and clears spectrum history.
func (a *Analyser) Reset() {
	a.pollMu.Lock()
	defer a.pollMu.Unlock()

	a.mu.Lock()
	clear(a.ring)
	a.pos = 0
	a.mu.Unlock()
	clear(a.smooth)
}

// FloatTimeDomainData copies the newest samples, oldest first, into dst and
// returns the number written.
func (a *Analyser) FloatTimeDomainData(dst []float64) int {
	return a.snapshot(dst)
}

// ByteTimeDomainData writes the newest samples quantized to bytes:
// 128 is silence, 0 and 255 are negative and positive full scale.
func (a *Analyser) ByteTimeDomainData(dst []byte) int {
	a.pollMu.Lock()
	defer a.pollMu.Unlock()

	n := a.snapshot(a.frame)
	n = min(n, len(dst))
	for i := 0; i < n; i++ {
		dst[i] = sampleToByte(a.frame[i])
	}
	return n
}

// RMS returns the root mean square of the byte time-domain data mapped back
// to [-1, 1]. Silence gives 0; full-scale alternating samples approach 1.
func (a *Analyser) RMS() float64 {
	a.pollMu.Lock()
	defer a.pollMu.Unlock()

	n := a.snapshot(a.frame)
	for i := 0; i < n; i++ {
		a.frame[i] = byteToSample(sampleToByte(a.frame[i]))
	}
	return rms(a.sq, a.frame[:n])
}

// FloatFrequencyData computes a new spectrum frame and writes the smoothed
// magnitude of each bin in dB into dst. Silent bins read -Inf.
func (a *Analyser) FloatFrequencyData(dst []float64) int {
	a.pollMu.Lock()
	defer a.pollMu.Unlock()

	if err := a.updateSpectrum(); err != nil {
		return 0
	}

	n := min(len(dst), len(a.smooth))
	for i := 0; i < n; i++ {
		dst[i] = linearToDB(a.smooth[i])
	}
	return n
}

// ByteFrequencyData computes a new spectrum frame and maps each bin's dB
// value from the configured range onto [0, 255].
func (a *Analyser) ByteFrequencyData(dst []byte) int {
	a.pollMu.Lock()
	defer a.pollMu.Unlock()

	if err := a.updateSpectrum(); err != nil {
		return 0
	}

	scale := 255 / (a.cfg.maxDecibels - a.cfg.minDecibels)
	n := min(len(dst), len(a.smooth))
	for i := 0; i < n; i++ {
		v := math.Floor(scale * (linearToDB(a.smooth[i]) - a.cfg.minDecibels))
		switch {
		case v < 0 || math.IsNaN(v):
			dst[i] = 0
		case v > 255:
			dst[i] = 255
		default:
			dst[i] = byte(v)
		}
	}
	return n
}

// snapshot copies the ring buffer oldest-first under the ring lock.
func (a *Analyser) snapshot(dst []float64) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.copyFrame(dst)
}

// copyFrame writes the ring buffer oldest-first. Caller holds a.mu.
func (a *Analyser) copyFrame(dst []float64) int {
	n := min(len(dst), len(a.ring))
	start := (a.pos + len(a.ring) - n) % len(a.ring)
	c := copy(dst[:n], a.ring[start:])
	copy(dst[c:n], a.ring)
	return n
}

// updateSpectrum runs one windowed FFT and blends it into the smoothed
// magnitudes. Caller holds a.pollMu but not a.mu.
func (a *Analyser) updateSpectrum() error {
	n := a.snapshot(a.frame)
	vecmath.MulBlockInPlace(a.frame[:n], a.window)
	for i, v := range a.frame[:n] {
		a.in[i] = complex(v, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return fmt.Errorf("analyser fft: %w", err)
	}

	re := a.frame[:len(a.mag)]
	im := a.sq[:len(a.mag)]
	for k := range a.mag {
		re[k] = real(a.out[k])
		im[k] = imag(a.out[k])
	}
	vecmath.Magnitude(a.mag, re, im)

	tau := a.cfg.smoothing
	norm := 1 / float64(n)
	for k, m := range a.mag {
		a.smooth[k] = tau*a.smooth[k] + (1-tau)*m*norm
	}
	return nil
}

// sampleToByte quantizes a sample in [-1, 1] to a byte centred at 128.
func sampleToByte(x float64) byte {
	v := math.Floor(128 * (x + 1))
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 255:
		return 255
	default:
		return byte(v)
	}
}

func byteToSample(b byte) float64 {
	return (float64(b) - 128) / 128
}

// RMSFromBytes returns sqrt(mean(x^2)) of byte time-domain samples mapped
// to [-1, 1] via (b-128)/128. An empty buffer returns 0.
func RMSFromBytes(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	x := make([]float64, len(data))
	for i, b := range data {
		x[i] = byteToSample(b)
	}
	return rms(make([]float64, len(x)), x)
}

// rms uses scratch (at least len(x) long) for the squares.
func rms(scratch, x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sq := scratch[:len(x)]
	vecmath.MulBlock(sq, x, x)

	sum := 0.0
	for _, v := range sq {
		sum += v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func linearToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}
