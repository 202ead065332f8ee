package core

// Waveform selects the melodic oscillator shape
type Waveform int

const (
	WaveSaw Waveform = iota
	WaveSquare
	WaveTriangle
	WaveformCount
)

func (w Waveform) String() string {
	names := [...]string{"saw", "square", "triangle"}
	if int(w) >= 0 && int(w) < len(names) {
		return names[w]
	}
	return "unknown"
}

// ParseWaveform maps a config/UI name to its Waveform
func ParseWaveform(s string) (Waveform, bool) {
	switch s {
	case "saw", "sawtooth":
		return WaveSaw, true
	case "square":
		return WaveSquare, true
	case "triangle", "tri":
		return WaveTriangle, true
	}
	return WaveSaw, false
}

// DrumKind identifies the six percussion voices
type DrumKind int

const (
	DrumKick DrumKind = iota
	DrumSnare
	DrumHihat
	DrumTom
	DrumClap
	DrumPerc
	DrumKindCount
)

func (k DrumKind) String() string {
	names := [...]string{"kick", "snare", "hihat", "tom", "clap", "perc"}
	if int(k) >= 0 && int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// ParseDrumKind maps a lane name to its DrumKind
func ParseDrumKind(s string) (DrumKind, bool) {
	switch s {
	case "kick":
		return DrumKick, true
	case "snare":
		return DrumSnare, true
	case "hihat", "hat":
		return DrumHihat, true
	case "tom":
		return DrumTom, true
	case "clap":
		return DrumClap, true
	case "perc":
		return DrumPerc, true
	}
	return DrumKick, false
}
