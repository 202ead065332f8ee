package audio

import (
	"math"

	"github.com/lixenwraith/acidbox/parameter"
)

// compressor is a stereo-linked feed-forward compressor with a quadratic
// soft knee, working in the dB domain with one-pole attack/release
// smoothing on the gain reduction. Makeup gain lifts a full-scale input
// partway back, (1/full-range gain)^0.6.
//
// The detector always runs so the reduction envelope is already settled
// when the stage is toggled on.
type compressor struct {
	sr float64

	threshold float64
	knee      float64
	ratio     float64

	attackCoef  float64
	releaseCoef float64
	envDB       float64 // current reduction, <= 0
	makeupLin   float64

	on bool
}

func newCompressor(sr float64) *compressor {
	c := &compressor{
		sr:        sr,
		threshold: parameter.CompThresholdDB,
		knee:      parameter.CompKneeDB,
		ratio:     parameter.CompRatio,
		on:        true,
	}
	c.attackCoef = math.Exp(-1 / (parameter.CompAttack * sr))
	c.releaseCoef = math.Exp(-1 / (parameter.CompRelease * sr))

	fullRangeDB := c.curveDB(0)
	c.makeupLin = dbToLin(-parameter.CompMakeupPower * fullRangeDB)
	return c
}

func (c *compressor) setOn(on bool) {
	c.on = on
}

// curveDB maps input level to output level through the static
// soft-knee transfer curve
func (c *compressor) curveDB(x float64) float64 {
	lo := c.threshold - c.knee/2
	hi := c.threshold + c.knee/2
	switch {
	case x <= lo:
		return x
	case x >= hi:
		return c.threshold + (x-c.threshold)/c.ratio
	default:
		d := x - lo
		return x + (1/c.ratio-1)*d*d/(2*c.knee)
	}
}

func (c *compressor) process(l, r float64) (float64, float64) {
	level := max(math.Abs(l), math.Abs(r))
	inDB := linToDB(level)
	redDB := c.curveDB(inDB) - inDB

	coef := c.releaseCoef
	if redDB < c.envDB {
		coef = c.attackCoef
	}
	c.envDB = redDB + coef*(c.envDB-redDB)

	if !c.on {
		return l, r
	}
	g := dbToLin(c.envDB) * c.makeupLin
	return l * g, r * g
}

func linToDB(x float64) float64 {
	if x <= 1e-6 {
		return -120
	}
	return 20 * math.Log10(x)
}

func dbToLin(db float64) float64 {
	return math.Pow(10, db/20)
}
