package audio

import (
	"math"
	"testing"
)

// TestCompressorCurve verifies the static transfer curve at its three
// regions and the knee joins
func TestCompressorCurve(t *testing.T) {
	c := newCompressor(testRate)

	if got := c.curveDB(-60); got != -60 {
		t.Errorf("Expected identity below the knee, got %f", got)
	}
	// Above the knee: -24 + (0+24)/12 = -22
	if got := c.curveDB(0); math.Abs(got+22) > 1e-9 {
		t.Errorf("Expected -22 dB at full scale, got %f", got)
	}

	// Branch continuity at both knee edges
	lo := -24.0 - 15.0
	hi := -24.0 + 15.0
	if math.Abs(c.curveDB(lo-1e-9)-c.curveDB(lo+1e-9)) > 1e-6 {
		t.Error("Expected continuity at the knee start")
	}
	if math.Abs(c.curveDB(hi-1e-9)-c.curveDB(hi+1e-9)) > 1e-6 {
		t.Error("Expected continuity at the knee end")
	}
}

// TestCompressorMakeup verifies the makeup lift, 0.6 * 22 = 13.2 dB
func TestCompressorMakeup(t *testing.T) {
	c := newCompressor(testRate)

	want := math.Pow(10, 13.2/20)
	if math.Abs(c.makeupLin-want) > 1e-9 {
		t.Errorf("Expected makeup %f, got %f", want, c.makeupLin)
	}
}

// TestCompressorQuietGetsMakeupOnly verifies a sub-threshold signal is
// only lifted, never squashed
func TestCompressorQuietGetsMakeupOnly(t *testing.T) {
	c := newCompressor(testRate)

	var l float64
	for i := 0; i < 100; i++ {
		l, _ = c.process(0.001, 0.001)
	}
	want := 0.001 * c.makeupLin
	if math.Abs(l-want) > 1e-9 {
		t.Errorf("Expected makeup-only gain %f, got %f", want, l)
	}
}

// TestCompressorReducesLoud verifies a sustained full-scale input settles
// on the static reduction plus makeup
func TestCompressorReducesLoud(t *testing.T) {
	c := newCompressor(testRate)

	var l float64
	for i := 0; i < 4000; i++ { // ~90 ms, attack is 3 ms
		l, _ = c.process(1.0, 1.0)
	}
	// Reduction -22 dB plus makeup 13.2 dB
	want := math.Pow(10, (-22.0+13.2)/20)
	if math.Abs(l-want) > 1e-3 {
		t.Errorf("Expected settled output %f, got %f", want, l)
	}
}

// TestCompressorStereoLink verifies both channels share one gain
func TestCompressorStereoLink(t *testing.T) {
	c := newCompressor(testRate)

	var l, r float64
	for i := 0; i < 4000; i++ {
		l, r = c.process(1.0, 0.25)
	}
	if math.Abs(r/l-0.25) > 1e-9 {
		t.Errorf("Expected preserved channel ratio, got %f", r/l)
	}
}

// TestCompressorBypassKeepsDetectorRunning verifies toggling on after a
// loud passage applies an already-settled reduction
func TestCompressorBypassKeepsDetectorRunning(t *testing.T) {
	c := newCompressor(testRate)
	c.setOn(false)

	for i := 0; i < 4000; i++ {
		l, r := c.process(1.0, 1.0)
		if l != 1.0 || r != 1.0 {
			t.Fatalf("Expected exact passthrough when off, got %f / %f", l, r)
		}
	}

	c.setOn(true)
	l, _ := c.process(1.0, 1.0)
	want := math.Pow(10, (-22.0+13.2)/20)
	if math.Abs(l-want) > 1e-3 {
		t.Errorf("Expected settled reduction on re-enable, got %f want %f", l, want)
	}
}
