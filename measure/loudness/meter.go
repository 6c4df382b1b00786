// Package loudness measures the programme loudness of a rendered stereo
// bounce following ITU-R BS.1770: K-weighting, 400 ms gating blocks with
// 75% overlap, and the -70 LUFS absolute and -10 LU relative gates.
package loudness

import (
	"math"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/filter/biquad"
	"github.com/cwbudde/algo-mastering/dsp/filter/design"
)

const (
	blockSeconds  = 0.4
	blockHops     = 4
	absoluteGate  = -70.0
	relativeGate  = -10.0
	loudnessFloor = -120.0
)

// Report summarises a measured stream.
type Report struct {
	Integrated   float64 // LUFS; -Inf when every block was gated
	MaxMomentary float64 // loudest 400 ms block in LUFS
	PeakDB       float64 // sample peak across both channels in dBFS
	RMSDB        float64 // unweighted RMS across both channels in dBFS
	CrestDB      float64 // PeakDB - RMSDB
	Frames       int
}

// Meter accumulates interleaved stereo frames.
// It is not safe for concurrent use.
type Meter struct {
	gate bool

	weighting [2][2]*biquad.Section

	hop      int
	hopCount int
	hopSum   float64
	hops     [blockHops]float64
	hopIdx   int
	hopsSeen int

	blocks []float64

	peak   float64
	sumSq  float64
	frames int
}

// NewMeter returns a meter configured by opts.
func NewMeter(opts ...Option) *Meter {
	cfg := applyOptions(opts...)
	k := design.KWeighting(cfg.SampleRate)

	m := &Meter{
		gate: cfg.Gate,
		hop:  max(int(math.Round(blockSeconds*cfg.SampleRate/blockHops)), 1),
	}
	for ch := range m.weighting {
		m.weighting[ch][0] = biquad.NewSection(k[0])
		m.weighting[ch][1] = biquad.NewSection(k[1])
	}
	return m
}

// Reset clears all accumulated state.
func (m *Meter) Reset() {
	for ch := range m.weighting {
		m.weighting[ch][0].Reset()
		m.weighting[ch][1].Reset()
	}
	m.hopCount, m.hopSum = 0, 0
	m.hops = [blockHops]float64{}
	m.hopIdx, m.hopsSeen = 0, 0
	m.blocks = m.blocks[:0]
	m.peak, m.sumSq, m.frames = 0, 0, 0
}

// Write feeds interleaved stereo samples. A trailing odd sample is ignored.
func (m *Meter) Write(interleaved []float32) {
	for i := 0; i+1 < len(interleaved); i += 2 {
		l := float64(interleaved[i])
		r := float64(interleaved[i+1])
		m.frame(l, r)
	}
}

func (m *Meter) frame(l, r float64) {
	m.peak = max(m.peak, math.Abs(l), math.Abs(r))
	m.sumSq += l*l + r*r
	m.frames++

	kl := m.weighting[0][1].ProcessSample(m.weighting[0][0].ProcessSample(l))
	kr := m.weighting[1][1].ProcessSample(m.weighting[1][0].ProcessSample(r))
	m.hopSum += kl*kl + kr*kr
	m.hopCount++
	if m.hopCount < m.hop {
		return
	}

	// One gating block spans blockHops hops; a new block closes every hop.
	m.hops[m.hopIdx] = m.hopSum
	m.hopIdx = (m.hopIdx + 1) % blockHops
	m.hopSum, m.hopCount = 0, 0
	if m.hopsSeen < blockHops {
		m.hopsSeen++
	}
	if m.hopsSeen < blockHops {
		return
	}

	var sum float64
	for _, h := range m.hops {
		sum += h
	}
	m.blocks = append(m.blocks, sum/float64(m.hop*blockHops))
}

// Integrated returns the gated programme loudness in LUFS.
func (m *Meter) Integrated() float64 {
	if len(m.blocks) == 0 {
		return math.Inf(-1)
	}
	if !m.gate {
		return toLUFS(mean(m.blocks, math.Inf(-1)))
	}

	absMean := mean(m.blocks, absoluteGate)
	if absMean == 0 {
		return math.Inf(-1)
	}
	relMean := mean(m.blocks, toLUFS(absMean)+relativeGate)
	if relMean == 0 {
		return math.Inf(-1)
	}
	return toLUFS(relMean)
}

// MaxMomentary returns the loudest block seen so far in LUFS.
func (m *Meter) MaxMomentary() float64 {
	var top float64
	for _, b := range m.blocks {
		top = max(top, b)
	}
	return toLUFS(top)
}

// Report returns the measurements for everything written since Reset.
func (m *Meter) Report() Report {
	rep := Report{
		Integrated:   m.Integrated(),
		MaxMomentary: m.MaxMomentary(),
		PeakDB:       math.Inf(-1),
		RMSDB:        math.Inf(-1),
		Frames:       m.frames,
	}
	if m.peak > 0 {
		rep.PeakDB = core.LinearToDB(m.peak)
	}
	if m.frames > 0 && m.sumSq > 0 {
		rep.RMSDB = core.LinearToDB(math.Sqrt(m.sumSq / float64(2*m.frames)))
		rep.CrestDB = rep.PeakDB - rep.RMSDB
	}
	return rep
}

// mean averages the blocks louder than gate LUFS; zero when none pass.
func mean(blocks []float64, gate float64) float64 {
	var sum float64
	var n int
	for _, b := range blocks {
		if toLUFS(b) > gate {
			sum += b
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func toLUFS(meanSquare float64) float64 {
	if meanSquare <= 0 {
		return loudnessFloor
	}
	return -0.691 + core.PowerToDB(meanSquare)
}
