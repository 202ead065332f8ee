package audio

import (
	"testing"

	"github.com/lixenwraith/acidbox/core"
)

// TestSynthParamsClamping verifies sliders are forced into 0-100
func TestSynthParamsClamping(t *testing.T) {
	p := SynthParams{
		Waveform:      core.Waveform(42),
		Cutoff:        150,
		Resonance:     -10,
		Attack:        101,
		Decay:         -1,
		Sustain:       200,
		Release:       -50,
		DelayTime:     999,
		DelayFeedback: 120,
	}.clamped()

	if p.Waveform != core.WaveSaw {
		t.Errorf("Expected invalid waveform reset to saw, got %v", p.Waveform)
	}
	if p.Cutoff != 100 {
		t.Errorf("Expected Cutoff=100, got %f", p.Cutoff)
	}
	if p.Resonance != 0 {
		t.Errorf("Expected Resonance=0, got %f", p.Resonance)
	}
	if p.Attack != 100 || p.Decay != 0 || p.Sustain != 100 || p.Release != 0 {
		t.Errorf("Expected envelope sliders clamped, got %+v", p)
	}
	if p.DelayTime != 100 || p.DelayFeedback != 100 {
		t.Errorf("Expected delay sliders clamped, got %+v", p)
	}
}

// TestSynthParamsScalings verifies the slider to synthesis conversions
func TestSynthParamsScalings(t *testing.T) {
	p := SynthParams{
		Cutoff:    50,
		Resonance: 30,
		Attack:    20,
		Decay:     40,
		Sustain:   70,
		Release:   30,
	}

	if got := p.attackTime(); got != 0.2 {
		t.Errorf("Expected attackTime=0.2s, got %f", got)
	}
	if got := p.decayTime(); got != 0.4 {
		t.Errorf("Expected decayTime=0.4s, got %f", got)
	}
	if got := p.sustainLevel(); got != 0.7 {
		t.Errorf("Expected sustainLevel=0.7, got %f", got)
	}
	if got := p.releaseTau(); got != 0.03 {
		t.Errorf("Expected releaseTau=0.03s, got %f", got)
	}
	if got := p.releaseTime(); got != 0.3 {
		t.Errorf("Expected releaseTime=0.3s, got %f", got)
	}
	// Cutoff 50 sweeps to 10 kHz
	if got := p.cutoffHz(); got != 10000 {
		t.Errorf("Expected cutoff target 10000 Hz, got %f", got)
	}
	if got := p.filterQ(); got != 3.0 {
		t.Errorf("Expected Q=3.0, got %f", got)
	}
}

// TestSynthParamsFloors verifies times and targets stay positive
func TestSynthParamsFloors(t *testing.T) {
	p := SynthParams{}

	if got := p.attackTime(); got <= 0 {
		t.Errorf("Expected positive attack time at slider 0, got %f", got)
	}
	if got := p.releaseTau(); got <= 0 {
		t.Errorf("Expected positive release tau at slider 0, got %f", got)
	}
	if got := p.cutoffHz(); got <= 0 {
		t.Errorf("Expected positive cutoff floor at slider 0, got %f", got)
	}

	p.DelayFeedback = 100
	if got := p.feedback(); got > 0.95 {
		t.Errorf("Expected feedback ceiling 0.95, got %f", got)
	}
}

// TestDrumParamsFormulas verifies the documented tone mappings
func TestDrumParamsFormulas(t *testing.T) {
	p := DefaultDrumParams()

	// Kick tone 50 starts its sweep at 400 Hz
	if got := p.kickStartFreq(); got != 400 {
		t.Errorf("Expected kick sweep start 400 Hz, got %f", got)
	}
	// Snare tone 50 puts the body at 200 Hz
	if got := p.snareFreq(); got != 200 {
		t.Errorf("Expected snare body 200 Hz, got %f", got)
	}
	// Hihat open 20 puts the corner at 6 kHz
	if got := p.hihatCutoff(); got != 6000 {
		t.Errorf("Expected hihat corner 6000 Hz, got %f", got)
	}
}

// TestDrumParamsClamping verifies ranges including the shared tempo
func TestDrumParamsClamping(t *testing.T) {
	p := DrumParams{
		KickTone:  500,
		KickDecay: 1,
		TomTone:   5,
		PercTone:  99999,
		Tempo:     300,
	}.clamped()

	if p.KickTone != 100 {
		t.Errorf("Expected KickTone=100, got %f", p.KickTone)
	}
	if p.KickDecay != 5 {
		t.Errorf("Expected KickDecay floored at 5ms, got %f", p.KickDecay)
	}
	if p.TomTone != 20 {
		t.Errorf("Expected TomTone floored at 20 Hz, got %f", p.TomTone)
	}
	if p.PercTone != 5000 {
		t.Errorf("Expected PercTone capped at 5000 Hz, got %f", p.PercTone)
	}
	if p.Tempo != 180 {
		t.Errorf("Expected Tempo capped at 180, got %f", p.Tempo)
	}

	low := DrumParams{Tempo: 10}.clamped()
	if low.Tempo != 60 {
		t.Errorf("Expected Tempo floored at 60, got %f", low.Tempo)
	}
}

// TestDecaySeconds verifies the millisecond conversion and floor
func TestDecaySeconds(t *testing.T) {
	if got := decaySeconds(400); got != 0.4 {
		t.Errorf("Expected 0.4s for 400ms, got %f", got)
	}
	if got := decaySeconds(1); got != 0.005 {
		t.Errorf("Expected 5ms floor, got %f", got)
	}
}
