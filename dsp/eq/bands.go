package eq

// NumBands is the number of peaking bands per channel.
const NumBands = 12

// BandQ is the quality factor shared by all bands.
const BandQ = 1.4

// FrequencyKey names a band by its centre frequency.
type FrequencyKey string

// Canonical band keys.
const (
	Band25  FrequencyKey = "25"
	Band40  FrequencyKey = "40"
	Band63  FrequencyKey = "63"
	Band100 FrequencyKey = "100"
	Band160 FrequencyKey = "160"
	Band250 FrequencyKey = "250"
	Band500 FrequencyKey = "500"
	Band1k  FrequencyKey = "1k"
	Band2k  FrequencyKey = "2k"
	Band4k  FrequencyKey = "4k"
	Band8k  FrequencyKey = "8k"
	Band16k FrequencyKey = "16k"
)

// Keys lists the bands from lowest to highest frequency.
var Keys = [NumBands]FrequencyKey{
	Band25, Band40, Band63, Band100, Band160, Band250,
	Band500, Band1k, Band2k, Band4k, Band8k, Band16k,
}

// Frequencies holds the centre frequency in Hz for each entry of Keys.
var Frequencies = [NumBands]float64{
	25, 40, 63, 100, 160, 250, 500, 1000, 2000, 4000, 8000, 16000,
}

// Index returns the position of key in Keys.
func Index(key FrequencyKey) (int, bool) {
	for i, k := range Keys {
		if k == key {
			return i, true
		}
	}
	return 0, false
}

// Frequency returns the centre frequency of key in Hz.
func (key FrequencyKey) Frequency() (float64, bool) {
	i, ok := Index(key)
	if !ok {
		return 0, false
	}
	return Frequencies[i], true
}

// ChannelState is the desired gain setting of one channel. Gains are in dB
// and expected in [-12, 12]; callers validate ranges, the chain does not
// clamp. A band missing from Bands counts as 0 dB.
type ChannelState struct {
	Gain  float64                  `json:"gain"`
	Bands map[FrequencyKey]float64 `json:"bands"`
}

// FlatChannel returns a channel state with every gain at 0 dB.
func FlatChannel() ChannelState {
	bands := make(map[FrequencyKey]float64, NumBands)
	for _, k := range Keys {
		bands[k] = 0
	}
	return ChannelState{Bands: bands}
}

// Clone returns a deep copy of c.
func (c ChannelState) Clone() ChannelState {
	out := ChannelState{Gain: c.Gain}
	if c.Bands != nil {
		out.Bands = make(map[FrequencyKey]float64, len(c.Bands))
		for k, v := range c.Bands {
			out.Bands[k] = v
		}
	}
	return out
}

// Band returns the gain of key in dB, 0 if absent.
func (c ChannelState) Band(key FrequencyKey) float64 {
	return c.Bands[key]
}
