package audio

import (
	"github.com/lixenwraith/acidbox/core"
	"github.com/lixenwraith/acidbox/parameter"
)

// SynthParams is the melodic voice and delay control surface. Slider
// fields are 0-100; the derived getters apply the synthesis scalings.
// Voices snapshot these at trigger time, later edits never reach a
// sounding voice.
type SynthParams struct {
	Waveform  core.Waveform `toml:"-"`
	Cutoff    float64       `toml:"cutoff"`
	Resonance float64       `toml:"resonance"`
	Attack    float64       `toml:"attack"`
	Decay     float64       `toml:"decay"`
	Sustain   float64       `toml:"sustain"`
	Release   float64       `toml:"release"`

	DelayTime     float64 `toml:"delay_time"`
	DelayFeedback float64 `toml:"delay_feedback"`
}

// DefaultSynthParams is a classic squelchy 303 starting point
func DefaultSynthParams() SynthParams {
	return SynthParams{
		Waveform:      core.WaveSaw,
		Cutoff:        60,
		Resonance:     40,
		Attack:        5,
		Decay:         40,
		Sustain:       30,
		Release:       30,
		DelayTime:     30,
		DelayFeedback: 40,
	}
}

// clamped returns a copy with every slider forced into range
func (p SynthParams) clamped() SynthParams {
	if p.Waveform < 0 || p.Waveform >= core.WaveformCount {
		p.Waveform = core.WaveSaw
	}
	p.Cutoff = clampParam(p.Cutoff)
	p.Resonance = clampParam(p.Resonance)
	p.Attack = clampParam(p.Attack)
	p.Decay = clampParam(p.Decay)
	p.Sustain = clampParam(p.Sustain)
	p.Release = clampParam(p.Release)
	p.DelayTime = clampParam(p.DelayTime)
	p.DelayFeedback = clampParam(p.DelayFeedback)
	return p
}

func (p SynthParams) attackTime() float64 {
	return clampRampTime(p.Attack / parameter.AttackTimeScale)
}

func (p SynthParams) decayTime() float64 {
	return clampRampTime(p.Decay / parameter.DecayTimeScale)
}

func (p SynthParams) sustainLevel() float64 {
	return p.Sustain / parameter.SustainScale
}

// releaseTau is the exponential tail time constant, release/1000 seconds
func (p SynthParams) releaseTau() float64 {
	return clampRampTime(p.Release / parameter.ReleaseTauScale)
}

// releaseTime is the hard stop horizon, release/100 seconds
func (p SynthParams) releaseTime() float64 {
	return p.Release / parameter.ReleaseTimeScale
}

// cutoffHz is the filter sweep target
func (p SynthParams) cutoffHz() float64 {
	hz := p.Cutoff * parameter.FilterCutoffScale
	if hz < parameter.FilterCutoffFloor {
		hz = parameter.FilterCutoffFloor
	}
	return hz
}

func (p SynthParams) filterQ() float64 {
	q := p.Resonance / parameter.FilterQScale
	if q < 0.1 {
		q = 0.1
	}
	return q
}

func (p SynthParams) delaySeconds() float64 {
	return p.DelayTime / parameter.DelayTimeScale
}

func (p SynthParams) feedback() float64 {
	fb := p.DelayFeedback / parameter.DelayFeedbackScale
	if fb > parameter.DelayFeedbackMax {
		fb = parameter.DelayFeedbackMax
	}
	return fb
}

// DrumParams is the percussion control surface. Tone fields follow the
// per-drum synthesis formulas, decay fields are milliseconds, Tempo is
// shared with the transport.
type DrumParams struct {
	KickTone  float64 `toml:"kick_tone"`
	KickDecay float64 `toml:"kick_decay"`

	SnareTone  float64 `toml:"snare_tone"`
	SnareDecay float64 `toml:"snare_decay"`

	HihatOpen  float64 `toml:"hihat_open"`
	HihatDecay float64 `toml:"hihat_decay"`

	TomTone  float64 `toml:"tom_tone"`
	TomDecay float64 `toml:"tom_decay"`

	ClapDecay float64 `toml:"clap_decay"`

	PercTone  float64 `toml:"perc_tone"`
	PercDecay float64 `toml:"perc_decay"`

	Tempo float64 `toml:"-"`
}

func DefaultDrumParams() DrumParams {
	return DrumParams{
		KickTone:   50,
		KickDecay:  400,
		SnareTone:  50,
		SnareDecay: 200,
		HihatOpen:  20,
		HihatDecay: 80,
		TomTone:    120,
		TomDecay:   250,
		ClapDecay:  150,
		PercTone:   880,
		PercDecay:  120,
		Tempo:      parameter.DefaultBPM,
	}
}

func (p DrumParams) clamped() DrumParams {
	p.KickTone = clampRange(p.KickTone, parameter.DrumToneMin, parameter.DrumToneMax)
	p.KickDecay = clampRange(p.KickDecay, parameter.DrumDecayMin, parameter.DrumDecayMax)
	p.SnareTone = clampRange(p.SnareTone, parameter.DrumToneMin, parameter.DrumToneMax)
	p.SnareDecay = clampRange(p.SnareDecay, parameter.DrumDecayMin, parameter.DrumDecayMax)
	p.HihatOpen = clampRange(p.HihatOpen, parameter.DrumToneMin, parameter.DrumToneMax)
	p.HihatDecay = clampRange(p.HihatDecay, parameter.DrumDecayMin, parameter.DrumDecayMax)
	p.TomTone = clampRange(p.TomTone, parameter.DrumPitchMin, parameter.TomPitchMax)
	p.TomDecay = clampRange(p.TomDecay, parameter.DrumDecayMin, parameter.DrumDecayMax)
	p.ClapDecay = clampRange(p.ClapDecay, parameter.DrumDecayMin, parameter.DrumDecayMax)
	p.PercTone = clampRange(p.PercTone, parameter.DrumPitchMin, parameter.PercPitchMax)
	p.PercDecay = clampRange(p.PercDecay, parameter.DrumDecayMin, parameter.DrumDecayMax)
	p.Tempo = clampRange(p.Tempo, parameter.MinBPM, parameter.MaxBPM)
	return p
}

// decaySeconds converts a millisecond slider to seconds with the 5ms floor
func decaySeconds(ms float64) float64 {
	d := ms / 1000.0
	if d < parameter.DrumDecayFloor {
		d = parameter.DrumDecayFloor
	}
	return d
}

func (p DrumParams) kickStartFreq() float64 {
	return parameter.KickFreqBase + p.KickTone*parameter.KickFreqScale
}

func (p DrumParams) snareFreq() float64 {
	return parameter.SnareFreqBase + p.SnareTone*parameter.SnareFreqScale
}

func (p DrumParams) hihatCutoff() float64 {
	return parameter.HihatCutBase - p.HihatOpen*parameter.HihatCutScale
}

func clampParam(v float64) float64 {
	return clampRange(v, parameter.ParamMin, parameter.ParamMax)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampRampTime keeps every scheduled ramp duration positive
func clampRampTime(sec float64) float64 {
	if sec < parameter.MinRampSeconds {
		return parameter.MinRampSeconds
	}
	return sec
}
