package main

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-mastering/dsp/eq"
	"github.com/cwbudde/algo-mastering/engine"
	"github.com/cwbudde/algo-mastering/measure/meter"
	"github.com/cwbudde/algo-mastering/media"
)

const (
	pollInterval  = 50 * time.Millisecond
	widthStep     = 15.0                     // degrees
	gainKnobStep  = 135.0 / engine.MaxGainDB // degrees, 1 dB
	bandStep      = 0.5 / engine.MaxGainDB   // slider travel, 1 dB
	meterWidth    = 40
	meterFloorDB  = -60.0
	meterHotDB    = -3.0
	spectrumCols  = 32
	spectrumBins  = meter.DefaultFFTSize / 2
	noPresetIndex = -1
)

var spectrumGlyphs = []rune(" ▁▂▃▄▅▆▇█")

type tickMsg time.Time

// pausedMsg arrives once the pause fade has run out.
type pausedMsg struct{}

// switchedMsg arrives once the switch fade has run out and the next source
// is ready.
type switchedMsg struct {
	name string
	src  media.Streamer
	err  error
}

// monitor is the control surface: it owns the engine state value and
// resubmits a copy on every change.
type monitor struct {
	eng     *engine.Engine
	handle  *media.Handle
	signals SignalFlags
	rate    int

	state  engine.State
	signal string
	preset int
	band   int // index into eq.Keys
	paused bool
	busy   bool

	rms      meter.Sample
	status   engine.Status
	spectrum [2][]byte
	err      error
}

func newMonitor(e *engine.Engine, h *media.Handle, signals SignalFlags, rate int, state engine.State) *monitor {
	band, _ := eq.Index(eq.Band1k)
	return &monitor{
		eng:     e,
		handle:  h,
		signals: signals,
		rate:    rate,
		state:   state.Clone(),
		signal:  signals.Signal,
		preset:  noPresetIndex,
		band:    band,
		spectrum: [2][]byte{
			make([]byte, spectrumBins),
			make([]byte, spectrumBins),
		},
	}
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *monitor) Init() tea.Cmd {
	return tick()
}

func (m *monitor) apply() {
	s := m.state.Clone()
	m.eng.UpdateFromState(&s)
}

func (m *monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.rms = m.eng.RMS()
		m.status = m.eng.Status()
		m.eng.Spectrum(m.spectrum[0], m.spectrum[1])
		return m, tick()

	case pausedMsg:
		m.busy = false
		m.paused = true
		m.handle.SetPaused(true)

	case switchedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			break
		}
		m.err = nil
		m.signal = msg.name
		m.handle.Swap(msg.src)
		if !m.paused {
			m.eng.FadeIn(engine.PlayFade)
		}
	}
	return m, nil
}

func (m *monitor) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Every key press counts as a user gesture.
	m.eng.Resume()

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "b":
		m.state.Bypass = !m.state.Bypass
	case "l":
		m.state.LimiterActive = !m.state.LimiterActive
	case "left", ",":
		m.state.WidthRotation = engine.ClampRotation(m.state.WidthRotation - widthStep)
	case "right", ".":
		m.state.WidthRotation = engine.ClampRotation(m.state.WidthRotation + widthStep)
	case "up":
		m.turnGainKnob(gainKnobStep)
	case "down":
		m.turnGainKnob(-gainKnobStep)
	case "[":
		m.band = (m.band + eq.NumBands - 1) % eq.NumBands
		return m, nil
	case "]":
		m.band = (m.band + 1) % eq.NumBands
		return m, nil
	case "+", "=":
		m.moveBandSlider(bandStep)
	case "-":
		m.moveBandSlider(-bandStep)
	case "p":
		m.preset = (m.preset + 1) % len(engine.Presets)
		m.state = m.state.WithPreset(engine.Presets[m.preset])
	case "r":
		m.preset = noPresetIndex
		m.state = m.state.Reset()
	case " ":
		return m, m.togglePause()
	case "n":
		return m, m.switchSignal()
	default:
		return m, nil
	}
	m.apply()
	return m, nil
}

// turnGainKnob rotates the shared input-gain knob by deg degrees.
func (m *monitor) turnGainKnob(deg float64) {
	gain := engine.GainFromRotation(engine.RotationFromGain(m.state.Left.Gain) + deg)
	m.state.Left.Gain = gain
	m.state.Right.Gain = gain
}

// moveBandSlider moves the selected band's slider on both channels.
func (m *monitor) moveBandSlider(delta float64) {
	key := eq.Keys[m.band]
	gain := engine.BandGainFromPosition(engine.PositionFromBandGain(m.state.Left.Band(key)) + delta)
	for _, ch := range []*eq.ChannelState{&m.state.Left, &m.state.Right} {
		if ch.Bands == nil {
			ch.Bands = make(map[eq.FrequencyKey]float64, eq.NumBands)
		}
		ch.Bands[key] = gain
	}
	m.preset = noPresetIndex
}

func (m *monitor) togglePause() tea.Cmd {
	if m.busy {
		return nil
	}
	if m.paused {
		m.paused = false
		m.handle.SetPaused(false)
		m.eng.FadeIn(engine.PlayFade)
		return nil
	}

	m.busy = true
	e := m.eng
	return func() tea.Msg {
		_ = e.FadeOutAndWait(context.Background(), engine.PauseFade)
		return pausedMsg{}
	}
}

func (m *monitor) switchSignal() tea.Cmd {
	if m.busy {
		return nil
	}
	m.busy = true

	e := m.eng
	name := nextSignal(m.signal)
	signals, rate, paused := m.signals, m.rate, m.paused
	return func() tea.Msg {
		if !paused {
			_ = e.FadeOutAndWait(context.Background(), engine.SwitchFade)
		}
		src, err := signals.source(name, rate)
		if err != nil {
			return switchedMsg{name: name, err: err}
		}
		return switchedMsg{name: name, src: src}
	}
}

func (m *monitor) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("masterfx"))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s @ %d Hz, clock %s", m.signal, m.rate, m.status.Clock)))
	b.WriteString("\n\n")

	presetName := "custom"
	if m.preset != noPresetIndex {
		presetName = engine.Presets[m.preset].Name
	}
	transport := "playing"
	switch {
	case m.busy:
		transport = "fading"
	case m.paused:
		transport = "paused"
	}

	controls := []string{
		keyValue("Transport", transport),
		keyValue("Effects", toggle(!m.state.Bypass)),
		keyValue("Limiter", fmt.Sprintf("%s %.1f dB %.0f:1, reduction %.1f dB",
			toggle(m.state.LimiterActive), m.status.ThresholdDB, m.status.Ratio, m.status.ReductionDB)),
		keyValue("Width", fmt.Sprintf("%+.0f° (%.2f)", m.state.WidthRotation, m.status.Width)),
		keyValue("Gain", fmt.Sprintf("L %+.1f dB  R %+.1f dB", m.status.LeftGainDB, m.status.RightGainDB)),
		keyValue("Band", fmt.Sprintf("%s Hz %+.1f dB", eq.Keys[m.band], m.state.Left.Band(eq.Keys[m.band]))),
		keyValue("Preset", presetName),
		keyValue("Fade", fmt.Sprintf("%.2f", m.status.Fade)),
	}
	b.WriteString(panelStyle.Render(strings.Join(controls, "\n")))
	b.WriteString("\n\n")

	b.WriteString(renderMeter("L", m.rms.L))
	b.WriteString("\n")
	b.WriteString(renderMeter("R", m.rms.R))
	b.WriteString("\n\n")
	b.WriteString(renderSpectrum(m.spectrum[0], m.spectrum[1]))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(subtitleStyle.Render("space pause · n next signal · b bypass · l limiter · ←/→ width · ↑/↓ gain · [/] band · +/- band gain · p preset · r reset · q quit"))
	b.WriteString("\n")
	return b.String()
}

func renderMeter(label string, rms float64) string {
	db := meterFloorDB
	if rms > 0 {
		db = math.Max(meterFloorDB, 20*math.Log10(rms))
	}
	filled := int(math.Round((db - meterFloorDB) / -meterFloorDB * meterWidth))
	filled = min(max(filled, 0), meterWidth)

	style := meterStyle
	if db > meterHotDB {
		style = meterHotStyle
	}
	bar := style.Render(strings.Repeat("█", filled)) + offStyle.Render(strings.Repeat("·", meterWidth-filled))
	return lipgloss.JoinHorizontal(lipgloss.Top,
		keyStyle.Render(label+" "), bar, valueStyle.Render(fmt.Sprintf(" %6.1f dB", db)))
}

// renderSpectrum folds both channels' byte spectra into log-spaced columns.
func renderSpectrum(left, right []byte) string {
	n := min(len(left), len(right))
	if n == 0 {
		return ""
	}

	var b strings.Builder
	for c := 0; c < spectrumCols; c++ {
		lo := int(math.Pow(float64(n), float64(c)/spectrumCols))
		hi := int(math.Pow(float64(n), float64(c+1)/spectrumCols))
		hi = min(max(hi, lo+1), n)

		peak := byte(0)
		for i := lo; i < hi; i++ {
			peak = max(peak, left[i], right[i])
		}
		b.WriteRune(spectrumGlyphs[int(peak)*(len(spectrumGlyphs)-1)/255])
	}
	return meterStyle.Render(b.String())
}
