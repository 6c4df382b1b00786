package engine

import "github.com/cwbudde/algo-mastering/dsp/eq"

// State is a full snapshot of the desired engine settings.
//
// Gains are expected inside [-12, 12] dB and WidthRotation inside
// [-135, 135] degrees. The engine does not clamp them; the control surface
// producing the snapshot is responsible for that.
type State struct {
	Bypass        bool            `json:"bypass"`
	LimiterActive bool            `json:"limiterActive"`
	WidthRotation float64         `json:"widthRotation"`
	Left          eq.ChannelState `json:"left"`
	Right         eq.ChannelState `json:"right"`
}

// DefaultState is the state a fresh control surface starts from: effects
// on, limiter engaged, baseline width and every gain at 0 dB.
func DefaultState() State {
	return State{
		LimiterActive: true,
		Left:          eq.FlatChannel(),
		Right:         eq.FlatChannel(),
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Left = s.Left.Clone()
	out.Right = s.Right.Clone()
	return out
}

// WithPreset returns a copy of s with p's band gains on both channels and
// both channel gains at 0 dB. Bypass, limiter and width are kept.
func (s State) WithPreset(p Preset) State {
	out := s.Clone()
	out.Left = presetChannel(p)
	out.Right = presetChannel(p)
	return out
}

// Reset returns a copy of s with every gain at 0 dB and baseline width.
// Bypass and limiter are kept.
func (s State) Reset() State {
	out := s
	out.WidthRotation = 0
	out.Left = eq.FlatChannel()
	out.Right = eq.FlatChannel()
	return out
}

func presetChannel(p Preset) eq.ChannelState {
	ch := eq.FlatChannel()
	for key, db := range p.Bands {
		if _, ok := eq.Index(key); ok {
			ch.Bands[key] = db
		}
	}
	return ch
}
