package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cwbudde/algo-mastering/dsp/eq"
	"github.com/cwbudde/algo-mastering/engine"
)

// StateFlags select the engine snapshot a command starts from.
type StateFlags struct {
	State  string `help:"Engine state JSON file." type:"existingfile"`
	Preset string `help:"Apply a built-in EQ preset on top of the state."`
}

func (f StateFlags) load() (engine.State, error) {
	s := engine.DefaultState()
	if f.State != "" {
		raw, err := os.ReadFile(f.State)
		if err != nil {
			return s, fmt.Errorf("read state: %w", err)
		}
		s, err = parseState(raw)
		if err != nil {
			return s, fmt.Errorf("%s: %w", f.State, err)
		}
	}
	if f.Preset != "" {
		p, ok := engine.LookupPreset(f.Preset)
		if !ok {
			return s, fmt.Errorf("unknown preset %q", f.Preset)
		}
		s = s.WithPreset(p)
	}
	return s, nil
}

// parseState decodes a snapshot on top of the default state and clamps it
// to the ranges the engine expects. Unknown band keys are rejected.
func parseState(raw []byte) (engine.State, error) {
	s := engine.DefaultState()
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("decode state: %w", err)
	}

	s.WidthRotation = engine.ClampRotation(s.WidthRotation)
	for _, ch := range []*eq.ChannelState{&s.Left, &s.Right} {
		ch.Gain = engine.ClampGain(ch.Gain)
		if ch.Bands == nil {
			ch.Bands = eq.FlatChannel().Bands
		}
		for key, db := range ch.Bands {
			if _, ok := eq.Index(key); !ok {
				return s, fmt.Errorf("unknown band %q", key)
			}
			ch.Bands[key] = engine.ClampGain(db)
		}
	}
	return s, nil
}
