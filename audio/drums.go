package audio

import (
	"github.com/lixenwraith/acidbox/core"
	"github.com/lixenwraith/acidbox/parameter"
)

// drumVoice is one percussion hit assembled from an optional tonal
// oscillator and an optional noise burst, each with its own gain curve.
// Everything is frozen at trigger time from a DrumParams snapshot; noise
// buffers are freshly generated per hit.
type drumVoice struct {
	kind  core.DrumKind
	sr    float64
	level float64

	osc     oscState
	freq    *automation // nil when the drum has no tonal part
	oscGain *automation
	oscEnd  int64

	noise     floatBuffer
	noisePos  int
	noiseGain *automation // nil when the drum has no noise part
	noiseEnd  int64

	stop int64
}

// newDrumVoice dispatches to the per-drum constructors
func newDrumVoice(kind core.DrumKind, p DrumParams, t0 int64, sr, level float64) *drumVoice {
	switch kind {
	case core.DrumKick:
		return newKickVoice(p, t0, sr, level)
	case core.DrumSnare:
		return newSnareVoice(p, t0, sr, level)
	case core.DrumHihat:
		return newHihatVoice(p, t0, sr, level)
	case core.DrumTom:
		return newTomVoice(p, t0, sr, level)
	case core.DrumClap:
		return newClapVoice(p, t0, sr, level)
	case core.DrumPerc:
		return newPercVoice(p, t0, sr, level)
	}
	return nil
}

// newKickVoice: sine with an exponential pitch drop from 150+tone*5 Hz to
// 20 Hz over the decay, gain 1.0 down to 0.001 over the same span
func newKickVoice(p DrumParams, t0 int64, sr, level float64) *drumVoice {
	d := decaySeconds(p.KickDecay)
	decayEnd := t0 + toSamples(d, sr)

	freq := newAutomation(p.kickStartFreq(), sr)
	freq.setValueAt(p.kickStartFreq(), t0)
	freq.expRampTo(parameter.KickFreqEnd, decayEnd)

	gain := newAutomation(0, sr)
	gain.setValueAt(1.0, t0)
	gain.expRampTo(parameter.KickGainFloor, decayEnd)

	oscEnd := decayEnd + toSamples(parameter.DrumStopPad, sr)

	return &drumVoice{
		kind:    core.DrumKick,
		sr:      sr,
		level:   level,
		osc:     oscState{shape: shapeSine},
		freq:    freq,
		oscGain: gain,
		oscEnd:  oscEnd,
		stop:    oscEnd,
	}
}

// newSnareVoice: noise burst at 0.5 plus a triangle body at 100+tone*2 Hz
// at 0.3, both falling exponentially to 0.01 over the decay
func newSnareVoice(p DrumParams, t0 int64, sr, level float64) *drumVoice {
	d := decaySeconds(p.SnareDecay)
	decayEnd := t0 + toSamples(d, sr)

	noiseGain := newAutomation(0, sr)
	noiseGain.setValueAt(parameter.SnareNoiseGain, t0)
	noiseGain.expRampTo(parameter.DrumGainFloor, decayEnd)

	freq := newAutomation(p.snareFreq(), sr)
	freq.setValueAt(p.snareFreq(), t0)

	oscGain := newAutomation(0, sr)
	oscGain.setValueAt(parameter.SnareOscGain, t0)
	oscGain.expRampTo(parameter.DrumGainFloor, decayEnd)

	oscEnd := decayEnd + toSamples(parameter.DrumStopPad, sr)
	noiseEnd := t0 + toSamples(min(d, parameter.NoiseBurstLen), sr)

	return &drumVoice{
		kind:      core.DrumSnare,
		sr:        sr,
		level:     level,
		osc:       oscState{shape: shapeTriangle},
		freq:      freq,
		oscGain:   oscGain,
		oscEnd:    oscEnd,
		noise:     newNoiseBurst(sr),
		noiseGain: noiseGain,
		noiseEnd:  noiseEnd,
		stop:      max(oscEnd, noiseEnd),
	}
}

// newHihatVoice: noise through a highpass at 7000-open*50 Hz, gain 0.3
// down to 0.01 over the decay
func newHihatVoice(p DrumParams, t0 int64, sr, level float64) *drumVoice {
	d := decaySeconds(p.HihatDecay)
	decayEnd := t0 + toSamples(d, sr)

	noise := newNoiseBurst(sr)
	filterBiquadHP(noise, p.hihatCutoff(), 0.707, sr)

	gain := newAutomation(0, sr)
	gain.setValueAt(parameter.HihatGain, t0)
	gain.expRampTo(parameter.DrumGainFloor, decayEnd)

	noiseEnd := t0 + toSamples(min(d, parameter.NoiseBurstLen), sr)

	return &drumVoice{
		kind:      core.DrumHihat,
		sr:        sr,
		level:     level,
		noise:     noise,
		noiseGain: gain,
		noiseEnd:  noiseEnd,
		stop:      noiseEnd,
	}
}

// newTomVoice: fixed sine at the tom pitch, gain 0.7 down to 0.01
func newTomVoice(p DrumParams, t0 int64, sr, level float64) *drumVoice {
	d := decaySeconds(p.TomDecay)
	decayEnd := t0 + toSamples(d, sr)

	freq := newAutomation(p.TomTone, sr)
	freq.setValueAt(p.TomTone, t0)

	gain := newAutomation(0, sr)
	gain.setValueAt(parameter.TomGain, t0)
	gain.expRampTo(parameter.DrumGainFloor, decayEnd)

	oscEnd := decayEnd + toSamples(parameter.DrumStopPad, sr)

	return &drumVoice{
		kind:    core.DrumTom,
		sr:      sr,
		level:   level,
		osc:     oscState{shape: shapeSine},
		freq:    freq,
		oscGain: gain,
		oscEnd:  oscEnd,
		stop:    oscEnd,
	}
}

// newClapVoice: bare noise burst, gain 0.5 down to 0.01
func newClapVoice(p DrumParams, t0 int64, sr, level float64) *drumVoice {
	d := decaySeconds(p.ClapDecay)
	decayEnd := t0 + toSamples(d, sr)

	gain := newAutomation(0, sr)
	gain.setValueAt(parameter.ClapGain, t0)
	gain.expRampTo(parameter.DrumGainFloor, decayEnd)

	noiseEnd := t0 + toSamples(min(d, parameter.NoiseBurstLen), sr)

	return &drumVoice{
		kind:      core.DrumClap,
		sr:        sr,
		level:     level,
		noise:     newNoiseBurst(sr),
		noiseGain: gain,
		noiseEnd:  noiseEnd,
		stop:      noiseEnd,
	}
}

// newPercVoice: fixed saw at the perc pitch, gain 0.5 down to 0.01
func newPercVoice(p DrumParams, t0 int64, sr, level float64) *drumVoice {
	d := decaySeconds(p.PercDecay)
	decayEnd := t0 + toSamples(d, sr)

	freq := newAutomation(p.PercTone, sr)
	freq.setValueAt(p.PercTone, t0)

	gain := newAutomation(0, sr)
	gain.setValueAt(parameter.PercGain, t0)
	gain.expRampTo(parameter.DrumGainFloor, decayEnd)

	oscEnd := decayEnd + toSamples(parameter.DrumStopPad, sr)

	return &drumVoice{
		kind:    core.DrumPerc,
		sr:      sr,
		level:   level,
		osc:     oscState{shape: shapeSaw},
		freq:    freq,
		oscGain: gain,
		oscEnd:  oscEnd,
		stop:    oscEnd,
	}
}

func (d *drumVoice) sample(n int64) float64 {
	if n >= d.stop {
		return 0
	}

	var s float64
	if d.freq != nil && n < d.oscEnd {
		s += d.osc.next(d.freq.valueAt(n), d.sr) * d.oscGain.valueAt(n)
	}
	if d.noiseGain != nil && n < d.noiseEnd && d.noisePos < len(d.noise) {
		s += d.noise[d.noisePos] * d.noiseGain.valueAt(n)
		d.noisePos++
	}
	return s * d.level
}

func (d *drumVoice) done(n int64) bool {
	return n >= d.stop
}
