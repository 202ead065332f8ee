package audio

import (
	"math"
	"math/rand"
	"testing"
)

// testKernel builds a small deterministic stereo kernel spanning the
// given number of frames
func testKernel(frames int) impulseResponse {
	var ir impulseResponse
	for c := range ir {
		ch := make([]float64, frames)
		for i := range ch {
			ch[i] = math.Sin(float64(i)*0.01+float64(c)) * (1 - float64(i)/float64(frames))
		}
		ir[c] = ch
	}
	return ir
}

// TestConvolverImpulse verifies an impulse reproduces the kernel one
// block late on both channels
func TestConvolverImpulse(t *testing.T) {
	frames := 2500 // three partitions
	ir := testKernel(frames)
	c := newConvolver(ir, testRate)

	n := c.block + frames + 10
	outL := make([]float64, n)
	outR := make([]float64, n)
	for i := 0; i < n; i++ {
		x := 0.0
		if i == 0 {
			x = 1.0
		}
		outL[i], outR[i] = c.process(x)
	}

	if outL[0] != 1.0 || outR[0] != 1.0 {
		t.Errorf("Expected dry impulse through, got %f / %f", outL[0], outR[0])
	}
	for i := 1; i < c.block; i++ {
		if outL[i] != 0 {
			t.Fatalf("Expected silence inside the latency block, got %f at %d", outL[i], i)
		}
	}
	for i := 0; i < frames; i++ {
		if math.Abs(outL[c.block+i]-ir[0][i]) > 1e-9 {
			t.Fatalf("Expected left kernel at %d, got %g want %g", i, outL[c.block+i], ir[0][i])
		}
		if math.Abs(outR[c.block+i]-ir[1][i]) > 1e-9 {
			t.Fatalf("Expected right kernel at %d, got %g want %g", i, outR[c.block+i], ir[1][i])
		}
	}
}

// TestConvolverMatchesDirect verifies block convolution equals the naive
// time-domain sum for an arbitrary input
func TestConvolverMatchesDirect(t *testing.T) {
	frames := 1500 // two partitions
	ir := testKernel(frames)
	c := newConvolver(ir, testRate)

	rng := rand.New(rand.NewSource(7))
	in := make([]float64, 4000)
	for i := range in[:200] {
		in[i] = rng.Float64()*2 - 1
	}

	got := make([]float64, len(in))
	for i, x := range in {
		l, _ := c.process(x)
		got[i] = l - x // isolate the wet tail
	}

	for i := c.block; i < len(in); i++ {
		var want float64
		for k := 0; k < frames && k <= i-c.block; k++ {
			want += ir[0][k] * in[i-c.block-k]
		}
		if math.Abs(got[i]-want) > 1e-9 {
			t.Fatalf("Expected direct convolution match at %d, got %g want %g", i, got[i], want)
		}
	}
}

// TestConvolverWetToggle verifies the off stage passes dry while the
// tail keeps running underneath
func TestConvolverWetToggle(t *testing.T) {
	ir := testKernel(1500)
	c := newConvolver(ir, testRate)

	c.setWet(false)
	l, r := c.process(1.0)
	if l != 1.0 || r != 1.0 {
		t.Errorf("Expected dry passthrough when off, got %f / %f", l, r)
	}
	for i := 1; i < c.block; i++ {
		if l, _ = c.process(0); l != 0 {
			t.Fatalf("Expected pure dry when off, got %f at %d", l, i)
		}
	}

	c.setWet(true)
	l, _ = c.process(0)
	if math.Abs(l-ir[0][0]) > 1e-9 {
		t.Errorf("Expected preserved tail after re-enable, got %g want %g", l, ir[0][0])
	}
}

// TestConvolverStereoDistinct verifies the two kernel channels stay
// independent
func TestConvolverStereoDistinct(t *testing.T) {
	ir := testKernel(1200)
	c := newConvolver(ir, testRate)

	var diff float64
	for i := 0; i < 3*c.block; i++ {
		x := 0.0
		if i == 0 {
			x = 1.0
		}
		l, r := c.process(x)
		diff += math.Abs(l - r)
	}
	if diff < 1e-6 {
		t.Error("Expected distinct channel tails, got identical output")
	}
}
