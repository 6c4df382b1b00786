// Command masterfx runs the mastering engine on generated test signals.
//
// Usage:
//
//	masterfx render [flags]   bounce a signal through the engine to a WAV file
//	masterfx play [flags]     play through the output device with a live monitor
//	masterfx presets          list the built-in EQ presets
//
// Examples:
//
//	masterfx render --signal noise --seconds 5 --out noise.wav
//	masterfx render --state state.json --preset loudness --out demo.wav
//	masterfx play --signal sweep
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

var version = "0.1.0"

// Globals are flags shared by every subcommand.
type Globals struct {
	LogLevel string `help:"Log level." enum:"debug,info,warn,error" default:"warn"`
	LogFile  string `help:"Write logs to this file instead of stderr." type:"path"`
}

// CLI defines the command-line interface.
type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version information."`

	Render  RenderCmd  `cmd:"" help:"Render a signal through the engine to a WAV file."`
	Play    PlayCmd    `cmd:"" help:"Play a signal through the engine with a live monitor."`
	Presets PresetsCmd `cmd:"" help:"List the built-in EQ presets."`
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("masterfx"),
		kong.Description("Real-time stereo mastering engine: 12-band EQ, stereo width, safety limiter."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	if err := ctx.Run(&cli.Globals); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}

// logger builds the process logger. fallback receives records when no log
// file is set.
func (g *Globals) logger(fallback io.Writer) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.LogLevel)); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	w, closer := fallback, func() {}
	if g.LogFile != "" {
		f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, func() { _ = f.Close() }
	}

	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return l, closer, nil
}
