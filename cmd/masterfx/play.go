package main

import (
	"errors"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-mastering/engine"
	"github.com/cwbudde/algo-mastering/host/ebitenhost"
	"github.com/cwbudde/algo-mastering/media"
)

// PlayCmd plays a signal through the output device.
type PlayCmd struct {
	StateFlags
	SignalFlags

	SampleRate int           `help:"Sample rate in Hz." default:"48000"`
	Buffer     time.Duration `help:"Output device buffer." default:"50ms"`
}

// Run implements the play command.
func (c *PlayCmd) Run(g *Globals) error {
	// The monitor owns the terminal; logs only go to --log-file.
	log, closeLog, err := g.logger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	state, err := c.StateFlags.load()
	if err != nil {
		return err
	}
	src, err := c.SignalFlags.source(c.Signal, c.SampleRate)
	if err != nil {
		return err
	}

	handle := media.NewHandle(c.Signal, src)
	e := engine.New(ebitenhost.Factory(ebitenhost.WithBufferSize(c.Buffer)), handle,
		engine.WithSampleRate(c.SampleRate),
		engine.WithLogger(log))
	defer e.Close()

	e.UpdateFromState(&state)
	if !e.Initialized() {
		return errors.New("audio output unavailable, see --log-file for details")
	}
	e.FadeIn(engine.PlayFade)

	m := newMonitor(e, handle, c.SignalFlags, c.SampleRate, state)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
