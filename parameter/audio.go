package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate    = 44100
	AudioChannels      = 2
	AudioBitDepth      = 16
	AudioBytesPerFrame = AudioChannels * (AudioBitDepth / 8) // 4 bytes
)

// Audio Engine Timing
const (
	// AudioBufferDuration determines output latency and pipe writer tick rate
	AudioBufferDuration = 50 * time.Millisecond

	// AudioBufferSamples is frames per writer tick at 44.1kHz
	AudioBufferSamples = (AudioSampleRate * 50) / 1000 // 2205

	// SpeakerBufferDuration is the beep speaker ring buffer size
	SpeakerBufferDuration = 100 * time.Millisecond
)

// Tempo and Timing
const (
	DefaultBPM   = 120.0
	MinBPM       = 60.0
	MaxBPM       = 180.0
	StepsPerBeat = 4                          // 16th notes
	BeatsPerBar  = 4                          // 4/4 time
	StepsPerBar  = StepsPerBeat * BeatsPerBar // 16 steps
	MinSwing     = 0.0
	MaxSwing     = 100.0 // full triplet shuffle
)

// StepDurationSamples is the exact 16th-note length in samples at the
// given tempo and sample rate. Fractional, so step boundaries never
// drift.
func StepDurationSamples(bpm, sampleRate float64) float64 {
	return sampleRate * 60.0 / bpm / StepsPerBeat
}

// StepDuration is the 16th-note length as wall time
func StepDuration(bpm float64) time.Duration {
	return time.Duration(60.0 / bpm / StepsPerBeat * float64(time.Second))
}

// Control Parameter Ranges (UI slider units)
const (
	ParamMin = 0.0
	ParamMax = 100.0

	DrumToneMin  = 0.0
	DrumToneMax  = 100.0
	DrumDecayMin = 5.0 // milliseconds
	DrumDecayMax = 2000.0
	DrumPitchMin = 20.0 // Hz, tom/perc direct pitch
	TomPitchMax  = 2000.0
	PercPitchMax = 5000.0
	DrumLevelMin = 0.0
	DrumLevelMax = 1.0
	MasterVolMin = 0.0
	MasterVolMax = 1.0

	DelayFeedbackMax = 0.95 // hard ceiling, unity feedback never decays
)

// Melodic Voice
const (
	// MelodicBaseFreq + step*MelodicStepFreq maps step index to pitch
	MelodicBaseFreq = 300.0
	MelodicStepFreq = 20.0

	// FilterSweepDuration is the fixed cutoff sweep length
	FilterSweepDuration = 0.1 // seconds
	FilterSweepStart    = 20000.0
	FilterCutoffScale   = 200.0 // cutoff slider to Hz
	FilterCutoffFloor   = 10.0  // exp ramp target must stay positive
	FilterQScale        = 10.0  // resonance slider to Q divisor

	// Envelope slider scalings
	AttackTimeScale  = 100.0  // attack/100 seconds
	DecayTimeScale   = 100.0  // decay/100 seconds
	SustainScale     = 100.0  // sustain/100 level
	ReleaseTauScale  = 1000.0 // release/1000 tau for the exponential tail
	ReleaseTimeScale = 100.0  // release/100 hard stop horizon

	// VoiceStopPad keeps the voice alive past the release horizon
	VoiceStopPad = 0.1 // seconds

	MinRampSeconds = 0.001 // floor for every scheduled ramp duration
)

// Drum Synthesis
const (
	KickFreqBase   = 150.0 // + tone*KickFreqScale start of pitch sweep
	KickFreqScale  = 5.0
	KickFreqEnd    = 20.0
	KickGainFloor  = 0.001
	SnareFreqBase  = 100.0 // + tone*SnareFreqScale body oscillator
	SnareFreqScale = 2.0
	SnareNoiseGain = 0.5
	SnareOscGain   = 0.3
	HihatCutBase   = 7000.0 // - open*HihatCutScale highpass corner
	HihatCutScale  = 50.0
	HihatGain      = 0.3
	TomGain        = 0.7
	ClapGain       = 0.5
	PercGain       = 0.5
	DrumGainFloor  = 0.01
	DrumStopPad    = 0.05 // seconds past decay for tonal components
	NoiseBurstLen  = 0.2  // seconds of fresh noise per trigger
	DrumDecayFloor = 0.005
)

// Effects
const (
	DelayMaxSeconds    = 1.0
	DelayTimeScale     = 100.0 // delayTime/100 seconds
	DelayFeedbackScale = 100.0 // delayFeedback/100

	ImpulseSeconds = 0.3 // synthesized IR length

	DuckFloor        = 0.3
	DuckAttack       = 0.05 // seconds to reach the floor
	DuckRelease      = 0.1  // seconds back to unity
	DuckHoldFraction = 0.75 // of one step before release starts

	CompThresholdDB = -24.0
	CompKneeDB      = 30.0
	CompRatio       = 12.0
	CompAttack      = 0.003
	CompRelease     = 0.25
	CompMakeupPower = 0.6 // makeup = (1/full-range gain)^power

	ConvolverBlock = 1024 // partition size, power of two
)

// Master Output
const (
	// Soft limiter: linear below the knee, saturating above, hard clip
	// at full scale
	LimiterKnee  = 0.8
	LimiterRange = 0.2
	LimiterSlope = 5.0
)
