package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/cwbudde/algo-mastering/dsp/dither"
	"github.com/cwbudde/algo-mastering/engine"
	"github.com/cwbudde/algo-mastering/host/offline"
	"github.com/cwbudde/algo-mastering/measure/loudness"
	"github.com/cwbudde/algo-mastering/media"
)

// renderChunk is the number of frames pulled per offline render call.
const renderChunk = 4096

// RenderCmd bounces a signal through the engine.
type RenderCmd struct {
	StateFlags
	SignalFlags

	Out        string        `short:"o" help:"Output WAV file." type:"path" default:"masterfx.wav"`
	Seconds    float64       `help:"Length in seconds." default:"5"`
	SampleRate int           `help:"Sample rate in Hz." default:"48000"`
	FadeIn     time.Duration `help:"Fade in at the start (0 disables)." default:"500ms"`
	FadeOut    time.Duration `help:"Fade out at the end (0 disables)." default:"300ms"`
	Dither     string        `help:"Dither applied when reducing to 16 bit." enum:"none,rectangular,triangular" default:"triangular"`
	Shaping    string        `help:"Noise shaping of the requantization error." enum:"none,efb,2sc,3mec,9fc,sbm" default:"none"`
}

// Run implements the render command.
func (c *RenderCmd) Run(g *Globals) error {
	if c.Seconds <= 0 {
		return fmt.Errorf("seconds must be > 0: %v", c.Seconds)
	}
	log, closeLog, err := g.logger(os.Stderr)
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
	quantizer, err := c.quantizer()
	if err != nil {
		return err
	}

	var ctx *offline.Context
	handle := media.NewHandle(c.Signal, src)
	e := engine.New(offline.Factory(&ctx), handle,
		engine.WithSampleRate(c.SampleRate),
		engine.WithLogger(log))
	defer e.Close()

	e.UpdateFromState(&state)
	if !e.IsReady() {
		return fmt.Errorf("engine not ready")
	}
	if c.FadeIn > 0 {
		e.FadeIn(c.FadeIn)
	}

	samples := renderFrames(ctx, e, int(c.Seconds*float64(c.SampleRate)), c.FadeOut, c.SampleRate)
	rms := e.RMS()
	lm := loudness.NewMeter(loudness.WithSampleRate(float64(c.SampleRate)))
	lm.Write(samples)
	rep := lm.Report()
	status := e.Status()

	f, err := os.Create(c.Out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := writeWAV(w, c.SampleRate, samples, quantizer); err != nil {
		_ = f.Close()
		return fmt.Errorf("write wav: %w", err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write wav: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("masterfx render"))
	fmt.Println(keyValue("Output", c.Out))
	fmt.Println(keyValue("Signal", c.Signal))
	fmt.Println(keyValue("Dither", c.Dither+", shaping "+c.Shaping))
	fmt.Println(keyValue("Length", fmt.Sprintf("%.2f s @ %d Hz", c.Seconds, c.SampleRate)))
	fmt.Println(keyValue("Bypass", toggle(state.Bypass)))
	fmt.Println(keyValue("Limiter", fmt.Sprintf("%s (%.1f dB, %.0f:1, reduction %.1f dB)",
		toggle(status.LimiterActive), status.ThresholdDB, status.Ratio, status.ReductionDB)))
	fmt.Println(keyValue("Width", fmt.Sprintf("%.2f", status.Width)))
	fmt.Println(keyValue("Loudness", fmt.Sprintf("%.1f LUFS integrated, %.1f LUFS max momentary",
		rep.Integrated, rep.MaxMomentary)))
	fmt.Println(keyValue("Peak", fmt.Sprintf("%.1f dBFS (crest %.1f dB)", rep.PeakDB, rep.CrestDB)))
	fmt.Println(keyValue("Final RMS", fmt.Sprintf("L %.3f  R %.3f", rms.L, rms.R)))
	return nil
}

func (c *RenderCmd) quantizer() (*dither.Stereo, error) {
	typ, err := dither.ParseType(c.Dither)
	if err != nil {
		return nil, err
	}
	shaping, err := dither.ParseShaping(c.Shaping)
	if err != nil {
		return nil, err
	}
	return dither.NewStereo(dither.WithType(typ), dither.WithShaping(shaping))
}

// renderFrames pulls frames from ctx in chunks and starts a fade out so it
// ends with the last frame.
func renderFrames(ctx *offline.Context, e *engine.Engine, frames int, fadeOut time.Duration, sampleRate int) []float32 {
	out := make([]float32, 2*frames)
	fadeAt := frames
	if fadeOut > 0 {
		fadeAt = max(0, frames-int(fadeOut.Seconds()*float64(sampleRate)))
	}

	for off := 0; off < frames; {
		if off == fadeAt {
			e.FadeOut(fadeOut)
		}
		n := min(renderChunk, frames-off)
		if off < fadeAt {
			n = min(n, fadeAt-off)
		}
		ctx.RenderInto(out[2*off : 2*(off+n)])
		off += n
	}
	return out
}
