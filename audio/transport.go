package audio

import (
	"github.com/lixenwraith/acidbox/parameter"
)

// transport is the sample-clocked step sequencer. Step boundaries live on
// a float64 grid accumulated in samples, so sixteen steps at 120 BPM come
// out to exactly two seconds and the grid never drifts. A tick fires the
// current step and then advances, so the readable step is always the next
// one to sound.
//
// Swing shifts odd steps late of the straight grid without bending the
// grid itself; even steps always land straight.
type transport struct {
	sr      float64
	running bool

	bpm         float64
	pendingBPM  float64 // applied at the next boundary, 0 when none
	swing       float64 // 0..100
	stepSamples float64

	step     int
	gridTime float64 // straight boundary of the step about to fire
	fireTime float64 // actual fire clock, grid plus swing shift
}

func newTransport(sr, bpm float64) *transport {
	t := &transport{sr: sr}
	t.setTempoNow(bpm)
	return t
}

// start arms the sequencer to fire the current step on the very next
// rendered sample
func (t *transport) start(n int64) {
	if t.running {
		return
	}
	t.running = true
	t.gridTime = float64(n)
	t.fireTime = t.gridTime
}

// stop halts ticking without rewinding the step
func (t *transport) stop() {
	t.running = false
}

// setTempo applies immediately when stopped and at the next step
// boundary when running
func (t *transport) setTempo(bpm float64) {
	if t.running {
		t.pendingBPM = bpm
		return
	}
	t.setTempoNow(bpm)
}

// setTempoNow computes the step length from the transport's own rate,
// so non-44.1k engines stay in tempo
func (t *transport) setTempoNow(bpm float64) {
	t.bpm = bpm
	t.pendingBPM = 0
	t.stepSamples = parameter.StepDurationSamples(bpm, t.sr)
}

func (t *transport) setSwing(amount float64) {
	t.swing = amount
}

func (t *transport) swingShift() float64 {
	return t.swing / parameter.MaxSwing * (2.0 / 3.0) * t.stepSamples
}

// advance consumes sample n and reports whether a step fires on it.
// The fired step index is returned; the transport is already pointing
// at the following step when advance returns.
func (t *transport) advance(n int64) (int, bool) {
	if !t.running || float64(n) < t.fireTime {
		return 0, false
	}

	fired := t.step
	if t.pendingBPM > 0 {
		t.setTempoNow(t.pendingBPM)
	}

	t.step = (t.step + 1) % parameter.StepsPerBar
	t.gridTime += t.stepSamples
	t.fireTime = t.gridTime
	if t.step%2 == 1 {
		t.fireTime += t.swingShift()
	}

	return fired, true
}
