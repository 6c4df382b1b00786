package engine

import (
	"math"
	"time"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/effects/spatial"
)

// MaxGainDB bounds every channel and band gain.
const MaxGainDB = 12

// bandDeadZoneDB is the slider range around the centre that snaps to 0 dB.
const bandDeadZoneDB = 0.5

// Fade durations used around transport events.
const (
	DefaultFade = 500 * time.Millisecond
	PlayFade    = 500 * time.Millisecond
	PauseFade   = 200 * time.Millisecond
	SwitchFade  = 300 * time.Millisecond
)

// GainFromRotation maps a knob rotation in degrees to a gain in dB, one
// decimal place. The rotation is clamped to the knob's ±135° travel.
func GainFromRotation(deg float64) float64 {
	deg = ClampRotation(deg)
	return roundTenth(deg / spatial.MaxRotation * MaxGainDB)
}

// BandGainFromPosition maps a slider position in [0, 1] (0 at the bottom)
// to a band gain in dB, one decimal place. Positions within half a dB of
// the centre snap to 0.
func BandGainFromPosition(pos float64) float64 {
	pos = core.Clamp(pos, 0, 1)
	db := (pos - 0.5) / 0.5 * MaxGainDB
	if db > -bandDeadZoneDB && db < bandDeadZoneDB {
		return 0
	}
	return roundTenth(db)
}

// RotationFromGain is the inverse of GainFromRotation: the knob rotation
// that shows a stored gain.
func RotationFromGain(db float64) float64 {
	return ClampGain(db) / MaxGainDB * spatial.MaxRotation
}

// PositionFromBandGain is the inverse of BandGainFromPosition: the slider
// position that shows a stored band gain.
func PositionFromBandGain(db float64) float64 {
	return 0.5 + ClampGain(db)/MaxGainDB*0.5
}

// ClampRotation limits a knob rotation to ±135°.
func ClampRotation(deg float64) float64 {
	return core.Clamp(deg, -spatial.MaxRotation, spatial.MaxRotation)
}

// ClampGain limits a gain to ±12 dB.
func ClampGain(db float64) float64 {
	return core.Clamp(db, -MaxGainDB, MaxGainDB)
}

func roundTenth(v float64) float64 {
	r := math.Round(v*10) / 10
	if r == 0 {
		return 0 // no -0
	}
	return r
}
