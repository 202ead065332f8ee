package audio

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/acidbox/core"
	"github.com/lixenwraith/acidbox/parameter"
)

// Stats is a point-in-time snapshot of engine counters
type Stats struct {
	MelodicTriggers uint64
	DrumTriggers    uint64
	DroppedTriggers uint64
	StepsAdvanced   uint64
	ActiveVoices    int
}

// Engine owns the whole signal path: sequencer clock, voice allocation,
// the melodic effects chain, and the master chain feeding one output
// backend. All audio work happens on the single render goroutine that
// pulls the streamer; control calls only mutate state under the mutex
// or enqueue trigger requests, so the control surface never waits on
// rendering.
//
// Routing is fixed: melodic voices sum onto a mono bus, the bus runs
// through duck/delay/reverb/compressor, and the drums join after the
// chain at the master sum.
type Engine struct {
	cfg *Config
	sr  float64

	out  Output
	vol  *effects.Volume
	ctrl *beep.Ctrl

	mu      sync.Mutex
	tr      *transport
	fx      *effectsGraph
	pattern Pattern
	synth   SynthParams
	drums   DrumParams
	levels  DrumLevels

	pendingMelodic []int
	pendingDrums   []core.DrumKind

	melodic    []*melodicVoice
	drumVoices []*drumVoice
	clock      int64

	started atomic.Bool
	running atomic.Bool
	curStep atomic.Int32
	muted   atomic.Bool
	volume  atomic.Uint64 // float64 bits

	melodicCount atomic.Uint64
	drumCount    atomic.Uint64
	dropped      atomic.Uint64
	steps        atomic.Uint64
	active       atomic.Int32
}

// New builds an engine from the config. Nothing touches the hardware
// until Start.
func New(cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.sanitize()

	InitDefaultPresets()
	cfg.registerPresets()

	sr := float64(cfg.SampleRate)

	e := &Engine{
		cfg:    cfg,
		sr:     sr,
		tr:     newTransport(sr, cfg.Tempo),
		fx:     newEffectsGraph(loadImpulse(cfg.ImpulseWAV, sr), sr),
		synth:  cfg.Synth,
		drums:  cfg.Drums,
		levels: cfg.Levels,
	}
	e.tr.setSwing(cfg.Swing)
	e.fx.setState(cfg.Effects.state())
	e.fx.configureDelay(e.synth.delaySeconds(), e.synth.feedback())

	if p := GetPreset(cfg.StartPreset); p != nil {
		e.pattern = p.Pattern
		if p.Tempo > 0 {
			e.tr.setTempoNow(clampRange(p.Tempo, parameter.MinBPM, parameter.MaxBPM))
			e.drums.Tempo = e.tr.bpm
		}
	}

	e.vol = &effects.Volume{Streamer: &engineStream{e}, Base: 2}
	e.ctrl = &beep.Ctrl{Streamer: e.vol}
	e.applyVolume(cfg.MasterVolume)
	e.ctrl.Paused = cfg.Muted
	e.muted.Store(cfg.Muted)

	e.out = NewOutput(cfg)
	return e
}

// Start claims the output backend and begins rendering. A backend
// failure here is the engine's only fatal condition.
func (e *Engine) Start() error {
	if e.started.Load() {
		return ErrAlreadyStarted
	}
	if err := e.out.Start(e.ctrl); err != nil {
		return fmt.Errorf("engine start: %w", err)
	}
	e.started.Store(true)
	return nil
}

// Close stops the transport and releases the output backend
func (e *Engine) Close() error {
	if !e.started.Load() {
		return nil
	}
	e.mu.Lock()
	e.tr.stop()
	e.mu.Unlock()
	e.running.Store(false)

	err := e.out.Close()
	e.started.Store(false)
	return err
}

// Streamer exposes the master chain for callers that pull samples
// themselves, such as the null backend and offline rendering
func (e *Engine) Streamer() beep.Streamer {
	return e.ctrl
}

// --- Transport ---

// StartTransport arms the sequencer; the held step fires on the next
// rendered sample. Output hardware is resumed if it was suspended.
func (e *Engine) StartTransport() {
	if e.started.Load() {
		e.out.Resume()
	}
	e.mu.Lock()
	e.tr.start(e.clock)
	e.mu.Unlock()
	e.running.Store(true)
}

// StopTransport halts sequencing without rewinding. Sounding voices and
// effect tails keep rendering.
func (e *Engine) StopTransport() {
	e.mu.Lock()
	e.tr.stop()
	e.mu.Unlock()
	e.running.Store(false)
}

// SetTempo changes the step rate, at the next step boundary while
// running and immediately while stopped
func (e *Engine) SetTempo(bpm float64) {
	bpm = clampRange(bpm, parameter.MinBPM, parameter.MaxBPM)
	e.mu.Lock()
	e.tr.setTempo(bpm)
	e.drums.Tempo = bpm
	e.mu.Unlock()
}

// Tempo reports the effective step rate, ignoring a pending change
func (e *Engine) Tempo() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tr.bpm
}

// SetSwing shifts odd steps late, 0 straight through 100 full shuffle
func (e *Engine) SetSwing(amount float64) {
	amount = clampRange(amount, parameter.MinSwing, parameter.MaxSwing)
	e.mu.Lock()
	e.tr.setSwing(amount)
	e.mu.Unlock()
}

func (e *Engine) Swing() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tr.swing
}

// IsRunning reports whether the sequencer is ticking
func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// CurrentStep is the step the sequencer will fire next
func (e *Engine) CurrentStep() int {
	return int(e.curStep.Load())
}

// --- Triggers ---

// TriggerMelodic fires one melodic voice at the given step's pitch on
// the next rendered sample. Before Start it is a dropped no-op.
func (e *Engine) TriggerMelodic(step int) {
	if !e.started.Load() {
		e.dropped.Add(1)
		return
	}
	if step < 0 {
		step = 0
	} else if step >= parameter.StepsPerBar {
		step = parameter.StepsPerBar - 1
	}
	e.mu.Lock()
	e.pendingMelodic = append(e.pendingMelodic, step)
	e.mu.Unlock()
}

// TriggerDrum fires one percussion voice on the next rendered sample.
// Before Start, or for an unknown kind, it is a dropped no-op.
func (e *Engine) TriggerDrum(kind core.DrumKind) {
	if !e.started.Load() || kind < 0 || kind >= core.DrumKindCount {
		e.dropped.Add(1)
		return
	}
	e.mu.Lock()
	e.pendingDrums = append(e.pendingDrums, kind)
	e.mu.Unlock()
}

// --- Patterns ---

// SetMelodicPattern replaces the melodic lane
func (e *Engine) SetMelodicPattern(steps []bool) error {
	if len(steps) != parameter.StepsPerBar {
		return ErrPatternLength
	}
	e.mu.Lock()
	copy(e.pattern.Melodic[:], steps)
	e.mu.Unlock()
	return nil
}

// SetDrumPattern replaces one percussion lane
func (e *Engine) SetDrumPattern(kind core.DrumKind, steps []bool) error {
	if kind < 0 || kind >= core.DrumKindCount {
		return ErrUnknownDrum
	}
	if len(steps) != parameter.StepsPerBar {
		return ErrPatternLength
	}
	e.mu.Lock()
	copy(e.pattern.Drums[kind][:], steps)
	e.mu.Unlock()
	return nil
}

// ToggleMelodicStep flips one melodic step
func (e *Engine) ToggleMelodicStep(step int) {
	e.mu.Lock()
	e.pattern.ToggleMelodicStep(step)
	e.mu.Unlock()
}

// ToggleDrumStep flips one percussion step
func (e *Engine) ToggleDrumStep(kind core.DrumKind, step int) {
	e.mu.Lock()
	e.pattern.ToggleDrumStep(kind, step)
	e.mu.Unlock()
}

// Patterns returns a snapshot of all lanes
func (e *Engine) Patterns() Pattern {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pattern
}

// ApplyPreset loads a registered pattern, and its tempo when it carries
// one
func (e *Engine) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	e.mu.Lock()
	e.pattern = p.Pattern
	if p.Tempo > 0 {
		bpm := clampRange(p.Tempo, parameter.MinBPM, parameter.MaxBPM)
		e.tr.setTempo(bpm)
		e.drums.Tempo = bpm
	}
	e.mu.Unlock()
	return nil
}

// --- Parameters ---

// SetSynthParams replaces the melodic voice parameters. Already
// sounding voices keep the values they were triggered with; the delay
// controls move immediately.
func (e *Engine) SetSynthParams(p SynthParams) {
	p = p.clamped()
	e.mu.Lock()
	e.synth = p
	e.fx.configureDelay(p.delaySeconds(), p.feedback())
	e.mu.Unlock()
}

func (e *Engine) SynthParams() SynthParams {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.synth
}

// SetDrumParams replaces the percussion parameters. The tempo field
// follows the transport rules for tempo changes.
func (e *Engine) SetDrumParams(p DrumParams) {
	p = p.clamped()
	e.mu.Lock()
	if p.Tempo != e.drums.Tempo {
		e.tr.setTempo(p.Tempo)
	}
	e.drums = p
	e.mu.Unlock()
}

func (e *Engine) DrumParams() DrumParams {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drums
}

// SetDrumLevels replaces the per-voice mix levels
func (e *Engine) SetDrumLevels(l DrumLevels) {
	l = l.clamped()
	e.mu.Lock()
	e.levels = l
	e.mu.Unlock()
}

func (e *Engine) DrumLevels() DrumLevels {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.levels
}

// --- Effects ---

// SetEffectsEnabled moves the chain's mix gains; the topology never
// changes, so toggling is idempotent and tails survive an off period
func (e *Engine) SetEffectsEnabled(s EffectsState) {
	e.mu.Lock()
	e.fx.setState(s)
	e.mu.Unlock()
}

func (e *Engine) EffectsEnabled() EffectsState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fx.state
}

func (e *Engine) SetDelayEnabled(on bool) {
	e.mu.Lock()
	s := e.fx.state
	s.DelayOn = on
	e.fx.setState(s)
	e.mu.Unlock()
}

func (e *Engine) SetReverbEnabled(on bool) {
	e.mu.Lock()
	s := e.fx.state
	s.ReverbOn = on
	e.fx.setState(s)
	e.mu.Unlock()
}

func (e *Engine) SetCompressorEnabled(on bool) {
	e.mu.Lock()
	s := e.fx.state
	s.CompressorOn = on
	e.fx.setState(s)
	e.mu.Unlock()
}

func (e *Engine) SetDuckEnabled(on bool) {
	e.mu.Lock()
	s := e.fx.state
	s.DuckOnKick = on
	e.fx.setState(s)
	e.mu.Unlock()
}

// --- Master ---

// SetMasterVolume sets output gain 0..1, applied logarithmically
func (e *Engine) SetMasterVolume(v float64) {
	v = clampRange(v, parameter.MasterVolMin, parameter.MasterVolMax)
	e.out.Lock()
	e.applyVolume(v)
	e.out.Unlock()
}

// applyVolume mutates the beep volume stage; callers hold the output
// lock once the stream is live
func (e *Engine) applyVolume(v float64) {
	if v <= 0 {
		e.vol.Silent = true
	} else {
		e.vol.Silent = false
		e.vol.Volume = math.Log2(v)
	}
	e.volume.Store(math.Float64bits(v))
}

func (e *Engine) MasterVolume() float64 {
	return math.Float64frombits(e.volume.Load())
}

// SetMuted pauses the master chain. The render clock freezes with it,
// so the transport and tails hold their place until unmute.
func (e *Engine) SetMuted(m bool) {
	e.out.Lock()
	e.ctrl.Paused = m
	e.out.Unlock()
	e.muted.Store(m)
}

func (e *Engine) Muted() bool {
	return e.muted.Load()
}

// Stats snapshots the engine counters
func (e *Engine) Stats() Stats {
	return Stats{
		MelodicTriggers: e.melodicCount.Load(),
		DrumTriggers:    e.drumCount.Load(),
		DroppedTriggers: e.dropped.Load(),
		StepsAdvanced:   e.steps.Load(),
		ActiveVoices:    int(e.active.Load()),
	}
}

// --- Render path ---

// engineStream adapts the render loop to the beep streamer contract
type engineStream struct {
	e *Engine
}

func (s *engineStream) Stream(samples [][2]float64) (int, bool) {
	s.e.render(samples)
	return len(samples), true
}

func (s *engineStream) Err() error { return nil }

// render fills one buffer. Runs on the output's pull goroutine with the
// engine mutex held; the mutex covers compute only, the puller sleeps
// outside it.
func (e *Engine) render(samples [][2]float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.drainTriggers()

	for i := range samples {
		n := e.clock
		if step, ok := e.tr.advance(n); ok {
			e.fireStep(step, n)
		}

		var bus float64
		for _, v := range e.melodic {
			bus += v.sample(n)
		}
		l, r := e.fx.process(bus, n)

		var d float64
		for _, v := range e.drumVoices {
			d += v.sample(n)
		}

		samples[i][0] = softLimit(l + d)
		samples[i][1] = softLimit(r + d)
		e.clock++
	}

	e.pruneVoices()
	e.active.Store(int32(len(e.melodic) + len(e.drumVoices)))
}

// drainTriggers turns queued manual triggers into voices at the start
// of the buffer
func (e *Engine) drainTriggers() {
	for _, step := range e.pendingMelodic {
		e.melodic = append(e.melodic, newMelodicVoice(e.synth, stepFreq(step), e.clock, e.sr))
		e.melodicCount.Add(1)
	}
	e.pendingMelodic = e.pendingMelodic[:0]

	for _, kind := range e.pendingDrums {
		e.addDrumVoice(kind, e.clock)
	}
	e.pendingDrums = e.pendingDrums[:0]
}

// fireStep allocates the voices a step calls for, sample-accurately at
// clock n
func (e *Engine) fireStep(step int, n int64) {
	if e.pattern.Melodic[step] {
		e.melodic = append(e.melodic, newMelodicVoice(e.synth, stepFreq(step), n, e.sr))
		e.melodicCount.Add(1)
	}
	for k := core.DrumKind(0); k < core.DrumKindCount; k++ {
		if e.pattern.Drums[k][step] {
			e.addDrumVoice(k, n)
		}
	}
	e.steps.Add(1)
	e.curStep.Store(int32(e.tr.step))
}

// addDrumVoice allocates one percussion voice; a kick also schedules
// the duck on the melodic bus
func (e *Engine) addDrumVoice(kind core.DrumKind, n int64) {
	e.drumVoices = append(e.drumVoices, newDrumVoice(kind, e.drums, n, e.sr, e.levels.level(kind)))
	e.drumCount.Add(1)
	if kind == core.DrumKick {
		e.fx.scheduleDuck(n, e.tr.stepSamples)
	}
}

// pruneVoices drops finished voices, reusing the backing arrays
func (e *Engine) pruneVoices() {
	keep := e.melodic[:0]
	for _, v := range e.melodic {
		if !v.done(e.clock) {
			keep = append(keep, v)
		}
	}
	e.melodic = keep

	keepD := e.drumVoices[:0]
	for _, v := range e.drumVoices {
		if !v.done(e.clock) {
			keepD = append(keepD, v)
		}
	}
	e.drumVoices = keepD
}

// softLimit is the master saturation curve: linear below the knee, a
// smooth approach to full scale above it, hard clip at the rails
func softLimit(v float64) float64 {
	switch {
	case v > parameter.LimiterKnee:
		v = parameter.LimiterKnee + parameter.LimiterRange*(1.0-1.0/(1.0+(v-parameter.LimiterKnee)*parameter.LimiterSlope))
	case v < -parameter.LimiterKnee:
		v = -parameter.LimiterKnee - parameter.LimiterRange*(1.0-1.0/(1.0+(-v-parameter.LimiterKnee)*parameter.LimiterSlope))
	}
	if v > 1.0 {
		v = 1.0
	} else if v < -1.0 {
		v = -1.0
	}
	return v
}
