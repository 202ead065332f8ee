package audio

import (
	"github.com/lixenwraith/acidbox/parameter"
)

// delayLine is a mono echo insert over a fixed 1 s circular buffer.
// The line always runs: input and feedback are written every sample so
// the tail keeps recirculating while the stage is toggled off, and the
// wet gain only gates the tap's contribution to the output.
type delayLine struct {
	sr  float64
	buf []float64
	w   int

	tap      int
	feedback float64
	wet      float64
}

func newDelayLine(sr float64) *delayLine {
	d := &delayLine{
		sr:  sr,
		buf: make([]float64, toSamples(parameter.DelayMaxSeconds, sr)),
		wet: 1.0,
	}
	d.configure(0.3, 0.4)
	return d
}

// configure sets the tap distance and feedback amount. Times beyond the
// line length read the oldest sample available.
func (d *delayLine) configure(timeSec, feedback float64) {
	tap := int(toSamples(timeSec, d.sr))
	if tap < 1 {
		tap = 1
	}
	if tap > len(d.buf)-1 {
		tap = len(d.buf) - 1
	}
	d.tap = tap
	d.feedback = min(feedback, parameter.DelayFeedbackMax)
}

func (d *delayLine) setWet(on bool) {
	if on {
		d.wet = 1.0
	} else {
		d.wet = 0.0
	}
}

func (d *delayLine) process(x float64) float64 {
	r := d.w - d.tap
	if r < 0 {
		r += len(d.buf)
	}
	tap := d.buf[r]

	d.buf[d.w] = x + tap*d.feedback
	d.w++
	if d.w == len(d.buf) {
		d.w = 0
	}

	return x + tap*d.wet
}

// reset clears the line, dropping any tail
func (d *delayLine) reset() {
	for i := range d.buf {
		d.buf[i] = 0
	}
	d.w = 0
}
