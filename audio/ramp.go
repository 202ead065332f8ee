package audio

import "math"

// toSamples converts seconds to a sample count with rounding, so slider
// scalings like 0.3s land on exact boundaries instead of truncating
func toSamples(sec, sr float64) int64 {
	return int64(math.Round(sec * sr))
}

// rampKind selects the curve between automation events
type rampKind int

const (
	rampSet rampKind = iota
	rampLinear
	rampExpo
	rampTarget
)

// rampEvent is one scheduled automation point. Times are engine sample
// indices. For rampLinear/rampExpo the time is the ramp end; the start is
// the previous event's time and value. rampTarget starts at its own time
// and approaches value asymptotically with time constant tau.
type rampEvent struct {
	kind  rampKind
	time  int64
	value float64
	tau   float64 // seconds, rampTarget only
}

// automation evaluates a piecewise control curve over the sample clock.
// Events must be appended in non-decreasing time order, and a rampTarget
// must be the final event. Evaluation is cursor-based: the clock passed to
// valueAt must not decrease between calls.
type automation struct {
	sr     float64
	events []rampEvent

	cursor      int
	anchorTime  int64
	anchorValue float64
	target      *rampEvent // active terminal setTarget, nil otherwise
}

func newAutomation(initial float64, sr float64) *automation {
	return &automation{
		sr:          sr,
		anchorTime:  math.MinInt64,
		anchorValue: initial,
	}
}

// setValueAt holds the previous value until at, then jumps to v
func (a *automation) setValueAt(v float64, at int64) {
	a.events = append(a.events, rampEvent{kind: rampSet, time: at, value: v})
}

// linearRampTo ramps linearly from the previous event to v at time at
func (a *automation) linearRampTo(v float64, at int64) {
	a.events = append(a.events, rampEvent{kind: rampLinear, time: at, value: v})
}

// expRampTo ramps geometrically from the previous event to v at time at.
// Endpoints must be positive; the target is floored to keep the curve
// defined.
func (a *automation) expRampTo(v float64, at int64) {
	if v < 1e-6 {
		v = 1e-6
	}
	a.events = append(a.events, rampEvent{kind: rampExpo, time: at, value: v})
}

// targetAt schedules an exponential approach toward v starting at time at.
// Must be the last event on the curve.
func (a *automation) targetAt(v float64, at int64, tau float64) {
	if tau < 1e-6 {
		tau = 1e-6
	}
	a.events = append(a.events, rampEvent{kind: rampTarget, time: at, value: v, tau: tau})
}

// truncateAt evaluates the curve at n, drops every scheduled event, and
// pins the current value so new ramps anchor cleanly. Used when an
// envelope retriggers while a previous one is still in flight; passed
// events are already folded into the anchor, so the slice is recycled
// and a long-lived curve never grows.
func (a *automation) truncateAt(n int64) {
	v := a.valueAt(n)
	a.events = a.events[:0]
	a.cursor = 0
	a.target = nil
	a.anchorTime = n
	a.anchorValue = v
}

// valueAt returns the control value at sample n
func (a *automation) valueAt(n int64) float64 {
	for a.cursor < len(a.events) && a.events[a.cursor].time <= n {
		ev := &a.events[a.cursor]
		switch ev.kind {
		case rampSet, rampLinear, rampExpo:
			a.anchorValue = ev.value
			a.anchorTime = ev.time
			a.target = nil
		case rampTarget:
			// Anchor keeps the approach start value
			a.anchorTime = ev.time
			a.target = ev
		}
		a.cursor++
	}

	if a.target != nil {
		t := a.target
		dt := float64(n-a.anchorTime) / a.sr
		return t.value + (a.anchorValue-t.value)*math.Exp(-dt/t.tau)
	}

	if a.cursor < len(a.events) {
		next := &a.events[a.cursor]
		switch next.kind {
		case rampLinear:
			return a.interpLinear(next, n)
		case rampExpo:
			return a.interpExpo(next, n)
		}
		// rampSet and rampTarget hold the previous value until their time
	}

	return a.anchorValue
}

func (a *automation) interpLinear(ev *rampEvent, n int64) float64 {
	span := ev.time - a.anchorTime
	if span <= 0 || a.anchorTime == math.MinInt64 {
		return ev.value
	}
	frac := float64(n-a.anchorTime) / float64(span)
	return a.anchorValue + (ev.value-a.anchorValue)*frac
}

func (a *automation) interpExpo(ev *rampEvent, n int64) float64 {
	span := ev.time - a.anchorTime
	if span <= 0 || a.anchorTime == math.MinInt64 {
		return ev.value
	}
	from := a.anchorValue
	if from < 1e-6 {
		from = 1e-6
	}
	frac := float64(n-a.anchorTime) / float64(span)
	return from * math.Pow(ev.value/from, frac)
}
