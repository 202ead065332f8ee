package audio

import (
	"github.com/lixenwraith/acidbox/parameter"
)

// voice is one sounding instance, sampled by the render loop until done
type voice interface {
	sample(n int64) float64
	done(n int64) bool
}

// melodicVoice is a single 303-style note: an oscillator through a swept
// resonant lowpass with an attack/decay/exponential-release gain. All
// parameters are frozen at trigger time from a SynthParams snapshot.
type melodicVoice struct {
	sr     float64
	osc    oscState
	freq   float64
	filter *biquad
	cutoff *automation
	gain   *automation
	stop   int64
}

// newMelodicVoice builds a voice triggered at engine sample t0.
//
// Gain: 0 at t0, linear to 1.0 over the attack, linear to the sustain
// level over the decay, then an exponential approach to silence with the
// release tau. The voice is dropped at
// t0 + attack + decay + releaseTime + pad.
//
// Cutoff: 20 kHz at t0, exponential ramp to the cutoff target over a
// fixed 0.1s.
func newMelodicVoice(p SynthParams, freq float64, t0 int64, sr float64) *melodicVoice {
	attackEnd := t0 + toSamples(p.attackTime(), sr)
	decayEnd := attackEnd + toSamples(p.decayTime(), sr)

	gain := newAutomation(0, sr)
	gain.setValueAt(0, t0)
	gain.linearRampTo(1.0, attackEnd)
	gain.linearRampTo(p.sustainLevel(), decayEnd)
	gain.targetAt(0, decayEnd, p.releaseTau())

	cutoff := newAutomation(parameter.FilterSweepStart, sr)
	cutoff.setValueAt(parameter.FilterSweepStart, t0)
	cutoff.expRampTo(p.cutoffHz(), t0+toSamples(parameter.FilterSweepDuration, sr))

	stop := decayEnd + toSamples(p.releaseTime(), sr) + toSamples(parameter.VoiceStopPad, sr)

	return &melodicVoice{
		sr:     sr,
		osc:    oscState{shape: shapeFor(p.Waveform)},
		freq:   freq,
		filter: newLowpass(sr, parameter.FilterSweepStart, p.filterQ()),
		cutoff: cutoff,
		gain:   gain,
		stop:   stop,
	}
}

func (v *melodicVoice) sample(n int64) float64 {
	if n >= v.stop {
		return 0
	}
	v.filter.setCutoff(v.cutoff.valueAt(n))
	x := v.osc.next(v.freq, v.sr)
	x = v.filter.process(x)
	return x * v.gain.valueAt(n)
}

func (v *melodicVoice) done(n int64) bool {
	return n >= v.stop
}

// stepFreq maps a sequencer step index to the melodic trigger pitch
func stepFreq(step int) float64 {
	return parameter.MelodicBaseFreq + float64(step)*parameter.MelodicStepFreq
}
