package audio

import (
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/lixenwraith/acidbox/parameter"
)

// convolver renders the reverb by uniformly partitioned overlap-save
// convolution against a stereo kernel. Input is the mono effects bus;
// each kernel channel gets its own partition spectra while the input
// spectra are shared through a frequency-domain delay line. The block
// structure adds exactly one block of latency.
//
// The stage always runs. Toggling it off zeroes the wet contribution
// only, so the tail keeps evolving underneath and survives re-enabling.
type convolver struct {
	block   int // B input samples per partition
	fftSize int // 2B
	bins    int // B+1 real-FFT coefficients

	fft   *fourier.FFT
	parts [2][][]complex128 // kernel partition spectra per channel
	fdl   [][]complex128    // recent input spectra, newest at fdlAt
	fdlAt int

	win  []float64 // sliding 2B input window
	fill int

	outL, outR []float64
	outAt      int

	acc []complex128
	seq []float64

	wet float64
}

func newConvolver(ir impulseResponse, sr float64) *convolver {
	b := parameter.ConvolverBlock
	n := 2 * b
	bins := b + 1
	k := (ir.frames() + b - 1) / b

	c := &convolver{
		block:   b,
		fftSize: n,
		bins:    bins,
		fft:     fourier.NewFFT(n),
		fdl:     make([][]complex128, k),
		win:     make([]float64, n),
		outL:    make([]float64, b),
		outR:    make([]float64, b),
		outAt:   b,
		acc:     make([]complex128, bins),
		seq:     make([]float64, n),
		wet:     1.0,
	}

	seg := make([]float64, n)
	for ch := range c.parts {
		c.parts[ch] = make([][]complex128, k)
		for p := 0; p < k; p++ {
			for i := range seg {
				seg[i] = 0
			}
			lo := p * b
			hi := min(lo+b, ir.frames())
			copy(seg, ir[ch][lo:hi])
			c.parts[ch][p] = c.fft.Coefficients(make([]complex128, bins), seg)
		}
	}
	for p := range c.fdl {
		c.fdl[p] = make([]complex128, bins)
	}

	return c
}

func (c *convolver) setWet(on bool) {
	if on {
		c.wet = 1.0
	} else {
		c.wet = 0.0
	}
}

// process feeds one dry sample and returns the stage output pair,
// dry plus the wet tail one block behind
func (c *convolver) process(x float64) (l, r float64) {
	if c.outAt < c.block {
		l = c.outL[c.outAt]
		r = c.outR[c.outAt]
		c.outAt++
	}

	c.win[c.block+c.fill] = x
	c.fill++
	if c.fill == c.block {
		c.runBlock()
	}

	return x + c.wet*l, x + c.wet*r
}

func (c *convolver) runBlock() {
	// Newest spectrum takes the slot just behind the current head
	c.fdlAt--
	if c.fdlAt < 0 {
		c.fdlAt = len(c.fdl) - 1
	}
	c.fft.Coefficients(c.fdl[c.fdlAt], c.win)

	for ch := 0; ch < 2; ch++ {
		for i := range c.acc {
			c.acc[i] = 0
		}
		for p := range c.parts[ch] {
			in := c.fdl[(c.fdlAt+p)%len(c.fdl)]
			h := c.parts[ch][p]
			for i := range c.acc {
				c.acc[i] += in[i] * h[i]
			}
		}
		c.fft.Sequence(c.seq, c.acc)

		out := c.outL
		if ch == 1 {
			out = c.outR
		}
		scale := 1 / float64(c.fftSize)
		for i := 0; i < c.block; i++ {
			out[i] = c.seq[c.block+i] * scale
		}
	}

	copy(c.win[:c.block], c.win[c.block:])
	c.fill = 0
	c.outAt = 0
}
