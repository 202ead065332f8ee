package audio

import (
	"math"

	"github.com/lixenwraith/acidbox/core"
)

// waveShape covers every oscillator the voices need. The public melodic
// selection (core.Waveform) is a subset; drums also use sine internally.
type waveShape int

const (
	shapeSine waveShape = iota
	shapeSaw
	shapeSquare
	shapeTriangle
)

// shapeFor maps the public melodic waveform to its oscillator shape
func shapeFor(w core.Waveform) waveShape {
	switch w {
	case core.WaveSquare:
		return shapeSquare
	case core.WaveTriangle:
		return shapeTriangle
	default:
		return shapeSaw
	}
}

// oscState is a phase accumulator oscillator. Frequency is supplied per
// sample so pitch sweeps stay continuous across the phase wrap.
type oscState struct {
	shape waveShape
	phase float64
}

func (o *oscState) next(freq, sr float64) float64 {
	var val float64
	switch o.shape {
	case shapeSine:
		val = math.Sin(2 * math.Pi * o.phase)
	case shapeSaw:
		val = 2*o.phase - 1
	case shapeSquare:
		if o.phase < 0.5 {
			val = 1.0
		} else {
			val = -1.0
		}
	case shapeTriangle:
		val = 1 - 4*math.Abs(o.phase-0.5)
	}

	o.phase += freq / sr
	if o.phase >= 1.0 {
		o.phase -= math.Floor(o.phase)
	}

	return val
}
