package dynamics

// Preset is a complete limiter setting.
type Preset struct {
	ThresholdDB float64
	Ratio       float64
	KneeDB      float64
	AttackMs    float64
	ReleaseMs   float64
}

var (
	// EngagedPreset limits peaks above -1 dBFS at 20:1.
	EngagedPreset = Preset{ThresholdDB: -1, Ratio: 20, KneeDB: 0, AttackMs: 5, ReleaseMs: 100}

	// DisengagedPreset is a 1:1 ratio at 0 dBFS and never reduces gain.
	DisengagedPreset = Preset{ThresholdDB: 0, Ratio: 1, KneeDB: 0, AttackMs: 5, ReleaseMs: 100}

	// InitialPreset is the ceiling a limiter starts at before the first
	// toggle selects Engaged or Disengaged.
	InitialPreset = Preset{ThresholdDB: -0.5, Ratio: 20, KneeDB: 0, AttackMs: 5, ReleaseMs: 100}
)

// PresetFor returns EngagedPreset when active and DisengagedPreset
// otherwise.
func PresetFor(active bool) Preset {
	if active {
		return EngagedPreset
	}
	return DisengagedPreset
}
