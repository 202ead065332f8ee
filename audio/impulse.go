package audio

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/acidbox/parameter"
)

// impulseResponse is a stereo pair of convolution kernels
type impulseResponse [2][]float64

func (ir impulseResponse) frames() int {
	return len(ir[0])
}

// loadImpulse returns the reverb kernel: the configured WAV file when it
// loads cleanly, the synthesized room otherwise. Failure to load never
// surfaces past this point.
func loadImpulse(path string, sr float64) impulseResponse {
	if path != "" {
		ir, err := loadImpulseWAV(path, sr)
		if err == nil {
			return ir
		}
		log.Printf("Impulse response '%s' unusable, synthesizing fallback: %v", path, err)
	}
	return synthImpulse(sr)
}

// synthImpulse builds a 0.3 s exponential-ish noise tail, two independent
// channels, sample i = noise * (1 - i/len)^2
func synthImpulse(sr float64) impulseResponse {
	n := int(toSamples(parameter.ImpulseSeconds, sr))
	var ir impulseResponse
	for c := range ir {
		ch := make([]float64, n)
		for i := range ch {
			fade := 1 - float64(i)/float64(n)
			ch[i] = (rand.Float64()*2 - 1) * fade * fade
		}
		ir[c] = ch
	}
	normalizeImpulse(&ir)
	return ir
}

// loadImpulseWAV decodes a stereo kernel from disk, resampling to the
// engine rate when the file disagrees
func loadImpulseWAV(path string, sr float64) (impulseResponse, error) {
	var ir impulseResponse

	f, err := os.Open(path)
	if err != nil {
		return ir, err
	}

	stream, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return ir, err
	}
	defer stream.Close()

	var s beep.Streamer = stream
	engineRate := beep.SampleRate(int(sr))
	if format.SampleRate != engineRate {
		s = beep.Resample(4, format.SampleRate, engineRate, stream)
	}

	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			ir[0] = append(ir[0], buf[i][0])
			ir[1] = append(ir[1], buf[i][1])
		}
		if !ok {
			break
		}
	}

	if ir.frames() == 0 {
		return ir, fmt.Errorf("no samples decoded from %s", path)
	}

	normalizeImpulse(&ir)
	return ir, nil
}

// normalizeImpulse scales both channels by a shared factor so the total
// kernel energy is unity, preserving the stereo balance
func normalizeImpulse(ir *impulseResponse) {
	var energy float64
	for c := range ir {
		for _, s := range ir[c] {
			energy += s * s
		}
	}
	if energy <= 0 {
		return
	}
	gain := 1 / math.Sqrt(energy)
	for c := range ir {
		for i := range ir[c] {
			ir[c][i] *= gain
		}
	}
}
