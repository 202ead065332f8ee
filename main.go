package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/acidbox/audio"
	"github.com/lixenwraith/acidbox/core"
	"github.com/lixenwraith/acidbox/parameter"
	"github.com/lixenwraith/acidbox/toml"
)

var (
	configPath  = flag.String("config", "acidbox.toml", "config file path")
	backendFlag = flag.String("backend", "", "override output backend: speaker, pipe, null")
	dumpConfig  = flag.Bool("dump-config", false, "print the effective config as TOML and exit")
)

// Lane 0 is the melodic voice; lanes 1.. are the drum kinds in order.
const laneCount = 1 + int(core.DrumKindCount)

func laneName(lane int) string {
	if lane == 0 {
		return "bass"
	}
	return core.DrumKind(lane - 1).String()
}

func laneKind(lane int) core.DrumKind {
	return core.DrumKind(lane - 1)
}

// synthParamRef lets the param strip address SynthParams fields by index
type synthParamRef struct {
	name string
	get  func(p audio.SynthParams) float64
	set  func(p *audio.SynthParams, v float64)
}

var synthParamTable = []synthParamRef{
	{"cutoff", func(p audio.SynthParams) float64 { return p.Cutoff }, func(p *audio.SynthParams, v float64) { p.Cutoff = v }},
	{"res", func(p audio.SynthParams) float64 { return p.Resonance }, func(p *audio.SynthParams, v float64) { p.Resonance = v }},
	{"atk", func(p audio.SynthParams) float64 { return p.Attack }, func(p *audio.SynthParams, v float64) { p.Attack = v }},
	{"dec", func(p audio.SynthParams) float64 { return p.Decay }, func(p *audio.SynthParams, v float64) { p.Decay = v }},
	{"sus", func(p audio.SynthParams) float64 { return p.Sustain }, func(p *audio.SynthParams, v float64) { p.Sustain = v }},
	{"rel", func(p audio.SynthParams) float64 { return p.Release }, func(p *audio.SynthParams, v float64) { p.Release = v }},
	{"dtime", func(p audio.SynthParams) float64 { return p.DelayTime }, func(p *audio.SynthParams, v float64) { p.DelayTime = v }},
	{"dfb", func(p audio.SynthParams) float64 { return p.DelayFeedback }, func(p *audio.SynthParams, v float64) { p.DelayFeedback = v }},
}

type App struct {
	screen  tcell.Screen
	eng     *audio.Engine
	presets []string

	cursorLane int
	cursorStep int
	paramSel   int

	message     string
	messageTime time.Time
}

func newApp(eng *audio.Engine) (*App, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.HideCursor()

	return &App{
		screen:  screen,
		eng:     eng,
		presets: audio.PresetNames(),
	}, nil
}

func (a *App) run() {
	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	core.Go(func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			events <- ev
		}
	})

	a.draw()
	for {
		select {
		case ev := <-events:
			if !a.handleEvent(ev) {
				return
			}
			a.draw()
		case <-ticker.C:
			a.draw()
		}
	}
}

func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		a.moveStep(-1)
	case tcell.KeyRight:
		a.moveStep(1)
	case tcell.KeyUp:
		a.moveLane(-1)
	case tcell.KeyDown:
		a.moveLane(1)
	case tcell.KeyHome:
		a.cursorStep = 0
	case tcell.KeyEnd:
		a.cursorStep = parameter.StepsPerBar - 1
	case tcell.KeyEnter:
		a.toggleCursorStep()
	case tcell.KeyTab:
		a.paramSel = (a.paramSel + 1) % len(synthParamTable)
	case tcell.KeyBacktab:
		a.paramSel = (a.paramSel + len(synthParamTable) - 1) % len(synthParamTable)
	case tcell.KeyRune:
		return a.handleRune(ev.Rune())
	}
	return true
}

func (a *App) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case ' ':
		if a.eng.IsRunning() {
			a.eng.StopTransport()
		} else {
			a.eng.StartTransport()
		}
	case 'h':
		a.moveStep(-1)
	case 'l':
		a.moveStep(1)
	case 'j':
		a.moveLane(1)
	case 'k':
		a.moveLane(-1)
	case 'g':
		a.cursorStep = 0
	case 'G':
		a.cursorStep = parameter.StepsPerBar - 1
	case 'x':
		a.toggleCursorStep()
	case 'X':
		a.clearCursorLane()
	case 't':
		a.audition()
	case 'm':
		a.eng.SetMuted(!a.eng.Muted())
	case '[':
		a.eng.SetTempo(a.eng.Tempo() - 1)
	case ']':
		a.eng.SetTempo(a.eng.Tempo() + 1)
	case '{':
		a.eng.SetTempo(a.eng.Tempo() - 5)
	case '}':
		a.eng.SetTempo(a.eng.Tempo() + 5)
	case '(':
		a.eng.SetSwing(a.eng.Swing() - 5)
	case ')':
		a.eng.SetSwing(a.eng.Swing() + 5)
	case '-':
		a.eng.SetMasterVolume(a.eng.MasterVolume() - 0.05)
	case '=', '+':
		a.eng.SetMasterVolume(a.eng.MasterVolume() + 0.05)
	case 'd':
		a.eng.SetDelayEnabled(!a.eng.EffectsEnabled().DelayOn)
	case 'r':
		a.eng.SetReverbEnabled(!a.eng.EffectsEnabled().ReverbOn)
	case 'c':
		a.eng.SetCompressorEnabled(!a.eng.EffectsEnabled().CompressorOn)
	case 'u':
		a.eng.SetDuckEnabled(!a.eng.EffectsEnabled().DuckOnKick)
	case 'w':
		p := a.eng.SynthParams()
		p.Waveform = (p.Waveform + 1) % core.WaveformCount
		a.eng.SetSynthParams(p)
	case ',':
		a.adjustParam(-5)
	case '.':
		a.adjustParam(5)
	case '<':
		a.adjustLevel(-0.05)
	case '>':
		a.adjustLevel(0.05)
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		a.applyPresetIndex(int(r - '1'))
	}
	return true
}

func (a *App) moveStep(d int) {
	a.cursorStep = (a.cursorStep + d + parameter.StepsPerBar) % parameter.StepsPerBar
}

func (a *App) moveLane(d int) {
	a.cursorLane = (a.cursorLane + d + laneCount) % laneCount
}

func (a *App) toggleCursorStep() {
	if a.cursorLane == 0 {
		a.eng.ToggleMelodicStep(a.cursorStep)
	} else {
		a.eng.ToggleDrumStep(laneKind(a.cursorLane), a.cursorStep)
	}
}

func (a *App) clearCursorLane() {
	empty := make([]bool, parameter.StepsPerBar)
	if a.cursorLane == 0 {
		a.eng.SetMelodicPattern(empty)
	} else {
		a.eng.SetDrumPattern(laneKind(a.cursorLane), empty)
	}
	a.setMessage("cleared %s", laneName(a.cursorLane))
}

func (a *App) audition() {
	if a.cursorLane == 0 {
		a.eng.TriggerMelodic(a.cursorStep)
	} else {
		a.eng.TriggerDrum(laneKind(a.cursorLane))
	}
}

func (a *App) adjustParam(d float64) {
	ref := synthParamTable[a.paramSel]
	p := a.eng.SynthParams()
	ref.set(&p, ref.get(p)+d)
	a.eng.SetSynthParams(p)
}

func (a *App) adjustLevel(d float64) {
	if a.cursorLane == 0 {
		a.setMessage("levels apply to drum lanes")
		return
	}
	l := a.eng.DrumLevels()
	bumpDrumLevel(&l, laneKind(a.cursorLane), d)
	a.eng.SetDrumLevels(l)
}

func (a *App) applyPresetIndex(i int) {
	if i >= len(a.presets) {
		a.setMessage("no preset %d", i+1)
		return
	}
	name := a.presets[i]
	if err := a.eng.ApplyPreset(name); err != nil {
		a.setMessage("%v", err)
		return
	}
	a.setMessage("preset: %s", name)
}

func (a *App) setMessage(format string, args ...any) {
	a.message = fmt.Sprintf(format, args...)
	a.messageTime = time.Now()
}

func drumLevel(l audio.DrumLevels, kind core.DrumKind) float64 {
	switch kind {
	case core.DrumKick:
		return l.Kick
	case core.DrumSnare:
		return l.Snare
	case core.DrumHihat:
		return l.Hihat
	case core.DrumTom:
		return l.Tom
	case core.DrumClap:
		return l.Clap
	case core.DrumPerc:
		return l.Perc
	}
	return 0
}

func bumpDrumLevel(l *audio.DrumLevels, kind core.DrumKind, d float64) {
	switch kind {
	case core.DrumKick:
		l.Kick += d
	case core.DrumSnare:
		l.Snare += d
	case core.DrumHihat:
		l.Hihat += d
	case core.DrumTom:
		l.Tom += d
	case core.DrumClap:
		l.Clap += d
	case core.DrumPerc:
		l.Perc += d
	}
}

// Grid geometry: 7-column lane labels, 2 columns per step, one extra
// space between each group of four
const gridLabelW = 7

func cellX(step int) int {
	return gridLabelW + step*2 + step/4
}

var (
	styleTitle    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleLabel    = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleBassOn   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleDrumOn   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleCursor   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true).Bold(true)
	styleMessage  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleSelected = tcell.StyleDefault.Reverse(true)
)

func (a *App) drawText(x, y int, style tcell.Style, text string) int {
	col := x
	for _, r := range text {
		a.screen.SetContent(col, y, r, nil, style)
		col++
	}
	return col
}

func (a *App) draw() {
	s := a.screen
	s.Clear()

	a.drawTitle(0)
	a.drawRuler(2)
	pat := a.eng.Patterns()
	for lane := 0; lane < laneCount; lane++ {
		a.drawLane(3+lane, lane, pat)
	}

	a.drawEffects(11)
	a.drawSynthStrip(12)
	a.drawLevels(13)
	a.drawPresets(14)

	a.drawText(1, 16, styleDim, "space play  hjkl/arrows move  x/enter toggle  X clear lane  t audition  1-9 preset  w wave")
	a.drawText(1, 17, styleDim, "[ ] tempo  { } tempo x5  ( ) swing  - = volume  m mute  d/r/c/u effects  tab , . param  < > level  q quit")

	a.drawStatus(18)

	s.Show()
}

func (a *App) drawTitle(y int) {
	state := "STOPPED"
	if a.eng.IsRunning() {
		state = "PLAYING"
	}
	if a.eng.Muted() {
		state += " (muted)"
	}
	bpm := a.eng.Tempo()
	title := fmt.Sprintf(" acidbox   %5.1f bpm   step %3dms   swing %3.0f   vol %3.0f%%   %s",
		bpm, parameter.StepDuration(bpm).Milliseconds(), a.eng.Swing(), a.eng.MasterVolume()*100, state)
	a.drawText(0, y, styleTitle, title)
}

func (a *App) drawRuler(y int) {
	for beat := 0; beat < parameter.StepsPerBar/4; beat++ {
		a.drawText(cellX(beat*4), y, styleDim, fmt.Sprintf("%d", beat+1))
	}
	if a.eng.IsRunning() {
		// CurrentStep is the next step to fire; the sounding one is behind it
		playing := (a.eng.CurrentStep() + parameter.StepsPerBar - 1) % parameter.StepsPerBar
		a.screen.SetContent(cellX(playing), y, '▼', nil, styleTitle)
	}
}

func (a *App) drawLane(y, lane int, pat audio.Pattern) {
	a.drawText(1, y, styleLabel, laneName(lane))

	onStyle := styleDrumOn
	var steps [parameter.StepsPerBar]bool
	if lane == 0 {
		onStyle = styleBassOn
		steps = pat.Melodic
	} else {
		steps = pat.Drums[laneKind(lane)]
	}

	playing := -1
	if a.eng.IsRunning() {
		playing = (a.eng.CurrentStep() + parameter.StepsPerBar - 1) % parameter.StepsPerBar
	}

	for i := 0; i < parameter.StepsPerBar; i++ {
		ch := '.'
		style := styleDim
		if steps[i] {
			ch = 'X'
			style = onStyle
		}
		if i == playing {
			style = style.Bold(true)
			if steps[i] {
				style = style.Reverse(true)
			}
		}
		if lane == a.cursorLane && i == a.cursorStep {
			style = styleCursor
		}
		a.screen.SetContent(cellX(i), y, ch, nil, style)
	}
}

func (a *App) drawEffects(y int) {
	st := a.eng.EffectsEnabled()
	x := a.drawText(1, y, styleLabel, "fx")
	x = a.drawFlag(x+5, y, "[d]elay", st.DelayOn)
	x = a.drawFlag(x+3, y, "[r]everb", st.ReverbOn)
	x = a.drawFlag(x+3, y, "[c]omp", st.CompressorOn)
	a.drawFlag(x+3, y, "d[u]ck", st.DuckOnKick)
}

func (a *App) drawFlag(x, y int, name string, on bool) int {
	style := styleDrumOn
	label := name + " on "
	if !on {
		style = styleDim
		label = name + " off"
	}
	return a.drawText(x, y, style, label)
}

func (a *App) drawSynthStrip(y int) {
	p := a.eng.SynthParams()
	x := a.drawText(1, y, styleLabel, "synth")
	x = a.drawText(x+2, y, tcell.StyleDefault, fmt.Sprintf("wave %s", p.Waveform))
	for i, ref := range synthParamTable {
		style := tcell.StyleDefault
		if i == a.paramSel {
			style = styleSelected
		}
		x = a.drawText(x+3, y, style, fmt.Sprintf("%s %3.0f", ref.name, ref.get(p)))
	}
}

func (a *App) drawLevels(y int) {
	l := a.eng.DrumLevels()
	x := a.drawText(1, y, styleLabel, "level")
	for k := core.DrumKind(0); k < core.DrumKindCount; k++ {
		style := tcell.StyleDefault
		if a.cursorLane == int(k)+1 {
			style = styleSelected
		}
		x = a.drawText(x+3, y, style, fmt.Sprintf("%s %4.2f", k, drumLevel(l, k)))
	}
}

func (a *App) drawPresets(y int) {
	x := a.drawText(1, y, styleLabel, "preset")
	for i, name := range a.presets {
		if i >= 9 {
			break
		}
		x = a.drawText(x+3, y, styleDim, fmt.Sprintf("%d %s", i+1, name))
	}
}

func (a *App) drawStatus(y int) {
	if a.message != "" && time.Since(a.messageTime) < 3*time.Second {
		a.drawText(1, y, styleMessage, a.message)
		return
	}
	st := a.eng.Stats()
	a.drawText(1, y, styleDim, fmt.Sprintf("steps %d   triggers %d bass / %d drum   dropped %d   voices %d",
		st.StepsAdvanced, st.MelodicTriggers, st.DrumTriggers, st.DroppedTriggers, st.ActiveVoices))
}

func (a *App) cleanup() {
	a.screen.Fini()
	a.eng.Close()
}

func main() {
	defer func() {
		core.HandleCrash(recover())
	}()

	flag.Parse()

	cfg := audio.LoadConfig(*configPath)
	if *backendFlag != "" {
		cfg.Backend = *backendFlag
	}

	if *dumpConfig {
		data, err := toml.Marshal(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dump-config: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	eng := audio.New(cfg)
	if err := eng.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Audio start failed: %v\n", err)
		os.Exit(1)
	}

	app, err := newApp(eng)
	if err != nil {
		eng.Close()
		fmt.Fprintf(os.Stderr, "Terminal init failed: %v\n", err)
		os.Exit(1)
	}
	defer app.cleanup()

	app.run()
}
