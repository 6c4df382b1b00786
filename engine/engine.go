package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/eq"
	"github.com/cwbudde/algo-mastering/host"
	"github.com/cwbudde/algo-mastering/measure/meter"
	"github.com/cwbudde/algo-mastering/media"
)

type phase int

const (
	phaseNew phase = iota
	phaseReady
	phaseInert
)

// Engine is the mastering engine. The zero value is not usable; create one
// with New. All methods are safe for concurrent use and none of them block
// on the render goroutine.
type Engine struct {
	cfg     config
	factory host.Factory
	media   *media.Handle
	log     *slog.Logger

	mu    sync.Mutex
	phase phase
	graph atomic.Pointer[graph]
}

var _ host.Renderer = (*Engine)(nil)

// New returns an uninitialized engine that will open its rendering clock
// through factory and pull audio from source. Nothing is built until Init
// or UpdateFromState.
func New(factory host.Factory, source *media.Handle, opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if factory == nil {
		factory = host.Unsupported
	}

	return &Engine{
		cfg:     cfg,
		factory: factory,
		media:   source,
		log:     cfg.logger.With("component", "engine"),
	}
}

// Init builds the signal graph. It runs once; later calls are no-ops,
// including after a failed first attempt. Failures are logged and leave
// the engine inert.
func (e *Engine) Init() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != phaseNew {
		return
	}
	e.phase = phaseInert

	if e.media == nil {
		e.log.Warn("no media source, audio enhancement disabled")
		return
	}

	ctx, err := e.factory(int(e.cfg.SampleRate))
	if err != nil {
		if errors.Is(err, host.ErrUnsupported) {
			e.log.Warn("real-time audio processing unsupported, playing unprocessed", "err", err)
		} else {
			e.log.Warn("opening audio context failed, playing unprocessed", "err", err)
		}
		return
	}

	if err := e.media.Attach(); err != nil {
		e.log.Warn("attaching media source failed", "source", e.media.Name(), "err", err)
		e.closeContext(ctx)
		return
	}

	g, err := newGraph(ctx, e.media, e.cfg)
	if err != nil {
		e.log.Warn("building signal graph failed", "err", err)
		e.media.Detach()
		e.closeContext(ctx)
		return
	}

	e.graph.Store(g)
	if err := ctx.Connect(e); err != nil {
		e.log.Warn("connecting signal graph failed", "err", err)
		e.graph.Store(nil)
		e.media.Detach()
		e.closeContext(ctx)
		return
	}

	e.phase = phaseReady
	e.log.Info("signal graph ready",
		"sample_rate", ctx.SampleRate(),
		"quantum", g.quantum,
		"source", e.media.Name())

	e.resumeLocked(g)
}

func (e *Engine) closeContext(ctx host.Context) {
	if err := ctx.Close(); err != nil {
		e.log.Debug("closing audio context", "err", err)
	}
}

// Render implements host.Renderer. Without a graph it produces silence.
func (e *Engine) Render(dst []float32) {
	g := e.graph.Load()
	if g == nil {
		clear(dst)
		return
	}
	g.render(dst)
}

// UpdateFromState applies a full snapshot, initializing the engine first if
// needed. A nil state is ignored. The engine keeps no reference to s.
func (e *Engine) UpdateFromState(s *State) {
	e.Init()
	if s == nil {
		return
	}
	g := e.graph.Load()
	if g == nil {
		return
	}

	tau := e.cfg.timeConstant
	g.left.Apply(s.Left, s.Bypass, tau)
	g.right.Apply(s.Right, s.Bypass, tau)
	g.matrix.SetRotation(s.WidthRotation, tau)
	g.limiter.SetActive(s.LimiterActive, tau)
}

// Resume retries starting a suspended rendering clock. Call it from user
// gesture handlers; it does nothing when the clock already runs or the
// engine is inert.
func (e *Engine) Resume() {
	g := e.graph.Load()
	if g == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resumeLocked(g)
}

func (e *Engine) resumeLocked(g *graph) {
	if g.ctx.State() == host.StateRunning {
		return
	}
	if err := g.ctx.Resume(); err != nil {
		if errors.Is(err, host.ErrSuspended) {
			e.log.Info("rendering clock suspended, resume after user gesture")
			return
		}
		e.log.Warn("resuming rendering clock failed", "err", err)
		return
	}
	e.log.Info("rendering clock running")
}

// FadeIn restarts the crossfade stage from silence and ramps it linearly to
// unity over d, superseding any pending fade. A non-positive d uses
// DefaultFade.
func (e *Engine) FadeIn(d time.Duration) {
	g := e.graph.Load()
	if g == nil {
		return
	}
	d = fadeDuration(d)
	g.fade.Ramp(0, 1, d)
	e.log.Debug("fade in", "duration", d)
}

// FadeOut ramps the crossfade stage linearly from its current value to
// silence over d, superseding any pending fade. A non-positive d uses
// DefaultFade.
func (e *Engine) FadeOut(d time.Duration) {
	g := e.graph.Load()
	if g == nil {
		return
	}
	d = fadeDuration(d)
	g.fade.RampTo(0, d)
	e.log.Debug("fade out", "duration", d)
}

// FadeOutAndWait starts FadeOut and waits for roughly its duration, or until
// ctx is done. An inert engine returns immediately.
func (e *Engine) FadeOutAndWait(ctx context.Context, d time.Duration) error {
	if e.graph.Load() == nil {
		return nil
	}
	d = fadeDuration(d)
	e.FadeOut(d)

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func fadeDuration(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultFade
	}
	return d
}

// RMS polls the meter: the RMS of the most recent window of output samples
// per channel, each in [0, 1]. Before initialization it reads {0, 0}.
func (e *Engine) RMS() meter.Sample {
	g := e.graph.Load()
	if g == nil {
		return meter.Sample{}
	}
	return g.meter.RMS()
}

// Spectrum copies the output's byte frequency data per channel and returns
// the number of bins written. Before initialization it writes nothing.
func (e *Engine) Spectrum(left, right []byte) int {
	g := e.graph.Load()
	if g == nil {
		return 0
	}
	n := g.meter.Left.ByteFrequencyData(left)
	g.meter.Right.ByteFrequencyData(right)
	return n
}

// Initialized reports whether the graph is built, whether or not the
// rendering clock runs yet. False means the engine is inert and playback
// stays unprocessed.
func (e *Engine) Initialized() bool {
	return e.graph.Load() != nil
}

// IsReady reports whether the graph is built and the rendering clock runs.
func (e *Engine) IsReady() bool {
	g := e.graph.Load()
	return g != nil && g.ctx.State() == host.StateRunning
}

// Close stops the rendering clock and releases the media source. The engine
// stays inert afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.phase = phaseInert
	g := e.graph.Swap(nil)
	if g == nil {
		return nil
	}
	e.media.Detach()
	return g.ctx.Close()
}

// Status is a read-only view of the live parameter values.
type Status struct {
	Ready         bool
	Clock         string
	Time          time.Duration
	LeftGainDB    float64
	RightGainDB   float64
	LeftBandsDB   map[eq.FrequencyKey]float64
	RightBandsDB  map[eq.FrequencyKey]float64
	Width         float64
	Fade          float64
	LimiterActive bool
	ThresholdDB   float64
	Ratio         float64
	ReductionDB   float64
}

// Status reports the live parameter values. An inert engine reports the
// zero Status.
func (e *Engine) Status() Status {
	g := e.graph.Load()
	if g == nil {
		return Status{}
	}

	state := g.ctx.State()
	st := Status{
		Ready:         state == host.StateRunning,
		Clock:         state.String(),
		Time:          g.clock.CurrentTime(),
		LeftGainDB:    core.LinearToDB(g.left.InputGain()),
		RightGainDB:   core.LinearToDB(g.right.InputGain()),
		LeftBandsDB:   make(map[eq.FrequencyKey]float64, eq.NumBands),
		RightBandsDB:  make(map[eq.FrequencyKey]float64, eq.NumBands),
		Width:         g.matrix.Width(),
		Fade:          g.fade.Value(),
		LimiterActive: g.limiter.Active(),
		ThresholdDB:   g.limiter.Threshold(),
		Ratio:         g.limiter.Ratio(),
		ReductionDB:   core.LinearToDB(g.limiter.GainReduction()),
	}
	for _, key := range eq.Keys {
		st.LeftBandsDB[key] = g.left.BandGain(key)
		st.RightBandsDB[key] = g.right.BandGain(key)
	}
	return st
}
