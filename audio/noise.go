package audio

import (
	"math/rand"

	"github.com/lixenwraith/acidbox/parameter"
)

// floatBuffer is a mono sample buffer
type floatBuffer []float64

// newNoiseBurst returns a fresh uniform noise buffer in [-1, 1). Every
// trigger generates its own burst so consecutive hits never phase-cancel.
func newNoiseBurst(sr float64) floatBuffer {
	n := int(sr * parameter.NoiseBurstLen)
	buf := make(floatBuffer, n)
	for i := range buf {
		buf[i] = rand.Float64()*2 - 1
	}
	return buf
}
