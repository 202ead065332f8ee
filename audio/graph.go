package audio

import (
	"math"

	"github.com/lixenwraith/acidbox/parameter"
)

// EffectsState selects which stages of the melodic effects chain
// contribute wet signal. The chain itself never reconfigures.
type EffectsState struct {
	DelayOn      bool
	ReverbOn     bool
	CompressorOn bool
	DuckOnKick   bool
}

// DefaultEffectsState enables the full chain
func DefaultEffectsState() EffectsState {
	return EffectsState{DelayOn: true, ReverbOn: true, CompressorOn: true, DuckOnKick: true}
}

// effectsGraph is the melodic bus chain in fixed order: duck gain,
// delay, convolution reverb, compressor. Every stage processes every
// sample; toggling a stage moves its mix gain only, so repeated toggles
// leave the topology untouched and tails survive an off period.
type effectsGraph struct {
	sr    float64
	state EffectsState

	duck   *automation
	delay  *delayLine
	reverb *convolver
	comp   *compressor
}

func newEffectsGraph(ir impulseResponse, sr float64) *effectsGraph {
	g := &effectsGraph{
		sr:     sr,
		duck:   newAutomation(1.0, sr),
		delay:  newDelayLine(sr),
		reverb: newConvolver(ir, sr),
		comp:   newCompressor(sr),
	}
	g.setState(DefaultEffectsState())
	return g
}

func (g *effectsGraph) setState(s EffectsState) {
	g.state = s
	g.delay.setWet(s.DelayOn)
	g.reverb.setWet(s.ReverbOn)
	g.comp.setOn(s.CompressorOn)
}

// configureDelay pushes the delay controls from a params snapshot
func (g *effectsGraph) configureDelay(timeSec, feedback float64) {
	g.delay.configure(timeSec, feedback)
}

// scheduleDuck dips the melodic bus for a kick at sample n0: down to the
// floor over 50 ms, hold, back to unity over 100 ms starting at 75% of a
// step. A kick landing mid-duck pins the current dip and restarts.
func (g *effectsGraph) scheduleDuck(n0 int64, stepSamples float64) {
	if !g.state.DuckOnKick || !g.state.CompressorOn {
		return
	}
	g.duck.truncateAt(n0)
	g.duck.linearRampTo(parameter.DuckFloor, n0+toSamples(parameter.DuckAttack, g.sr))

	hold := n0 + int64(math.Round(parameter.DuckHoldFraction*stepSamples))
	g.duck.setValueAt(parameter.DuckFloor, hold)
	g.duck.linearRampTo(1.0, hold+toSamples(parameter.DuckRelease, g.sr))
}

// process runs one mono bus sample through the chain at clock n and
// returns the stereo pair the master mixes with the drums
func (g *effectsGraph) process(x float64, n int64) (float64, float64) {
	x *= g.duck.valueAt(n)
	x = g.delay.process(x)
	l, r := g.reverb.process(x)
	return g.comp.process(l, r)
}
