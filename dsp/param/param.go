package param

import (
	"math"
	"sync/atomic"
	"time"
)

// snapEpsilon is the distance below which an exponential approach lands
// exactly on its target.
const snapEpsilon = 1e-6

type kind uint8

const (
	kindHold kind = iota
	kindTarget
	kindRamp
)

// automation is immutable once published.
type automation struct {
	kind   kind
	from   float64
	to     float64
	tau    float64 // seconds, kindTarget
	frames int64   // kindRamp
}

// Param is an automatable value shared between a control goroutine and the
// render goroutine.
//
// Control side: [Param.SetValue], [Param.SetTarget], [Param.Ramp],
// [Param.RampTo], [Param.Cancel], [Param.Value], [Param.Target].
// Render side: [Param.Next], [Param.Fill], [Param.Advance]. Render-side
// methods must only be called from one goroutine.
type Param struct {
	clock     *Clock
	scheduled atomic.Pointer[automation]
	live      atomic.Uint64

	// render-side state
	active  *automation
	current float64
	elapsed int64
	coef    float64
}

// New returns a Param holding initial.
func New(clock *Clock, initial float64) *Param {
	p := &Param{clock: clock, current: initial}
	a := &automation{kind: kindHold, to: initial}
	p.scheduled.Store(a)
	p.active = a
	p.publish()
	return p
}

// Value returns the live value as of the last rendered block.
func (p *Param) Value() float64 {
	return math.Float64frombits(p.live.Load())
}

// Target returns the value the current automation ends on.
func (p *Param) Target() float64 {
	return p.scheduled.Load().to
}

// SetValue cancels pending automation and jumps to v at the next block.
func (p *Param) SetValue(v float64) {
	p.scheduled.Store(&automation{kind: kindHold, to: v})
}

// SetTarget cancels pending automation and approaches target exponentially
// with the given time constant in seconds. A non-positive time constant
// behaves like SetValue.
func (p *Param) SetTarget(target, timeConstant float64) {
	if timeConstant <= 0 || math.IsNaN(timeConstant) {
		p.SetValue(target)
		return
	}
	p.scheduled.Store(&automation{kind: kindTarget, to: target, tau: timeConstant})
}

// Ramp cancels pending automation and moves linearly from "from" to "to"
// over d.
func (p *Param) Ramp(from, to float64, d time.Duration) {
	p.scheduled.Store(&automation{
		kind:   kindRamp,
		from:   from,
		to:     to,
		frames: p.clock.FramesFor(d),
	})
}

// RampTo captures the live value and ramps linearly from it to "to" over d.
func (p *Param) RampTo(to float64, d time.Duration) {
	p.Ramp(p.Value(), to, d)
}

// Cancel drops pending automation and holds the live value.
func (p *Param) Cancel() {
	p.SetValue(p.Value())
}

// Next returns the value for one sample and steps the automation.
func (p *Param) Next() float64 {
	p.adopt()
	v := p.step()
	p.publish()
	return v
}

// Fill writes one automation value per sample into dst.
func (p *Param) Fill(dst []float64) {
	p.adopt()
	for i := range dst {
		dst[i] = p.step()
	}
	p.publish()
}

// Advance steps the automation by n frames at once and returns the value to
// use for the whole block. Exponential targets follow
// current += (target-current) * (1 - exp(-n/(rate*tau))).
func (p *Param) Advance(n int) float64 {
	p.adopt()
	if n <= 0 {
		return p.current
	}

	a := p.active
	switch a.kind {
	case kindTarget:
		k := math.Exp(-float64(n) / (p.clock.SampleRate() * a.tau))
		p.current = a.to + (p.current-a.to)*k
		p.snap(a.to)
	case kindRamp:
		p.elapsed += int64(n)
		p.current = rampValue(a, p.elapsed)
	}

	p.publish()
	return p.current
}

// Settled reports whether the render-side value rests on its target.
// Render side only.
func (p *Param) Settled() bool {
	return p.scheduled.Load() == p.active && p.current == p.active.to
}

func (p *Param) adopt() {
	a := p.scheduled.Load()
	if a == p.active {
		return
	}

	p.active = a
	p.elapsed = 0

	switch a.kind {
	case kindHold:
		p.current = a.to
	case kindTarget:
		p.coef = math.Exp(-1 / (p.clock.SampleRate() * a.tau))
	case kindRamp:
		p.current = rampValue(a, 0)
	}
}

func (p *Param) step() float64 {
	a := p.active
	switch a.kind {
	case kindTarget:
		if p.current != a.to {
			p.current = a.to + (p.current-a.to)*p.coef
			p.snap(a.to)
		}
	case kindRamp:
		if p.elapsed < a.frames {
			p.elapsed++
			p.current = rampValue(a, p.elapsed)
		}
	}
	return p.current
}

func (p *Param) snap(target float64) {
	if math.Abs(p.current-target) < snapEpsilon {
		p.current = target
	}
}

func (p *Param) publish() {
	p.live.Store(math.Float64bits(p.current))
}

func rampValue(a *automation, elapsed int64) float64 {
	if elapsed >= a.frames {
		return a.to
	}
	return a.from + (a.to-a.from)*float64(elapsed)/float64(a.frames)
}
