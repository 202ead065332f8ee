package audio

import "math"

// filterKind selects the biquad response
type filterKind int

const (
	filterLowpass filterKind = iota
	filterHighpass
)

// biquad is an RBJ cookbook second order section. Coefficients are
// recomputed only when the cutoff or Q changes, so static filters pay one
// trig call per configuration and swept filters one per sample.
type biquad struct {
	kind filterKind
	sr   float64

	fc, q float64

	b0, b1, b2 float64
	a1, a2     float64

	x1, x2 float64
	y1, y2 float64
}

func newLowpass(sr, fc, q float64) *biquad {
	f := &biquad{kind: filterLowpass, sr: sr}
	f.configure(fc, q)
	return f
}

func newHighpass(sr, fc, q float64) *biquad {
	f := &biquad{kind: filterHighpass, sr: sr}
	f.configure(fc, q)
	return f
}

// configure recomputes coefficients for the given cutoff and Q
func (f *biquad) configure(fc, q float64) {
	// Keep the section stable: positive cutoff below Nyquist, sane Q
	if fc < 10 {
		fc = 10
	}
	max := 0.45 * f.sr
	if fc > max {
		fc = max
	}
	if q < 0.01 {
		q = 0.01
	} else if q > 40 {
		q = 40
	}
	if fc == f.fc && q == f.q {
		return
	}
	f.fc, f.q = fc, q

	w0 := 2 * math.Pi * fc / f.sr
	cosw0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	a0 := 1 + alpha

	switch f.kind {
	case filterLowpass:
		f.b0 = (1 - cosw0) / 2 / a0
		f.b1 = (1 - cosw0) / a0
		f.b2 = (1 - cosw0) / 2 / a0
	case filterHighpass:
		f.b0 = (1 + cosw0) / 2 / a0
		f.b1 = -(1 + cosw0) / a0
		f.b2 = (1 + cosw0) / 2 / a0
	}
	f.a1 = -2 * cosw0 / a0
	f.a2 = (1 - alpha) / a0
}

// setCutoff retunes the filter keeping its Q
func (f *biquad) setCutoff(fc float64) {
	f.configure(fc, f.q)
}

func (f *biquad) process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}

// filterBiquadHP high-passes a buffer in place with a fixed corner
func filterBiquadHP(buf floatBuffer, freq, q, sr float64) {
	f := newHighpass(sr, freq, q)
	for i, v := range buf {
		buf[i] = f.process(v)
	}
}
