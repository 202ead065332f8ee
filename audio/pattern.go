package audio

import (
	"sort"
	"strings"
	"sync"

	"github.com/lixenwraith/acidbox/core"
	"github.com/lixenwraith/acidbox/parameter"
)

// Pattern holds one bar of sequencer state: a melodic lane plus one lane
// per drum kind, sixteen steps each
type Pattern struct {
	Melodic [parameter.StepsPerBar]bool
	Drums   [core.DrumKindCount][parameter.StepsPerBar]bool
}

// ToggleMelodicStep flips one melodic step. Out-of-range indices are
// ignored.
func (p *Pattern) ToggleMelodicStep(i int) {
	if i < 0 || i >= parameter.StepsPerBar {
		return
	}
	p.Melodic[i] = !p.Melodic[i]
}

// ToggleDrumStep flips one drum step. Unknown kinds and out-of-range
// indices are ignored.
func (p *Pattern) ToggleDrumStep(kind core.DrumKind, i int) {
	if kind < 0 || kind >= core.DrumKindCount || i < 0 || i >= parameter.StepsPerBar {
		return
	}
	p.Drums[kind][i] = !p.Drums[kind][i]
}

// ParsePatternLane reads the sixteen-character lane notation used by
// presets and config: 'X' or 'x' trigger a step, '.', '-' and ' ' rest
func ParsePatternLane(s string) ([parameter.StepsPerBar]bool, error) {
	var lane [parameter.StepsPerBar]bool
	if len(s) != parameter.StepsPerBar {
		return lane, ErrPatternLength
	}
	for i, c := range s {
		switch c {
		case 'X', 'x':
			lane[i] = true
		case '.', '-', ' ':
		default:
			return lane, ErrPatternLength
		}
	}
	return lane, nil
}

// FormatPatternLane renders a lane back into the notation
func FormatPatternLane(lane [parameter.StepsPerBar]bool) string {
	var b strings.Builder
	for _, on := range lane {
		if on {
			b.WriteByte('X')
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// Preset is a named pattern with an optional tempo. Zero tempo keeps
// whatever the engine is running at.
type Preset struct {
	Name    string
	Tempo   float64
	Pattern Pattern
}

var (
	presets  = make(map[string]*Preset)
	presetMu sync.RWMutex
)

// RegisterPreset adds a preset to the registry, replacing any previous
// entry with the same name
func RegisterPreset(p *Preset) {
	presetMu.Lock()
	presets[p.Name] = p
	presetMu.Unlock()
}

// GetPreset retrieves a preset by name
func GetPreset(name string) *Preset {
	presetMu.RLock()
	defer presetMu.RUnlock()
	return presets[name]
}

// PresetNames lists registered presets in stable order
func PresetNames() []string {
	presetMu.RLock()
	defer presetMu.RUnlock()
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mustLane(s string) [parameter.StepsPerBar]bool {
	lane, err := ParsePatternLane(s)
	if err != nil {
		panic("bad built-in lane: " + s)
	}
	return lane
}

// InitDefaultPresets registers built-in patterns
// Called at startup; config-loaded presets override these
func InitDefaultPresets() {
	// Straight four-on-the-floor with an offbeat hat
	fourFloor := Pattern{Melodic: mustLane("X..X..X...X..X..")}
	fourFloor.Drums[core.DrumKick] = mustLane("X...X...X...X...")
	fourFloor.Drums[core.DrumHihat] = mustLane("..X...X...X...X.")
	fourFloor.Drums[core.DrumClap] = mustLane("....X.......X...")
	RegisterPreset(&Preset{Name: "four-floor", Tempo: 120, Pattern: fourFloor})

	// Busy 303 line over a driving kit
	acid := Pattern{Melodic: mustLane("X.XX.X.XX.X..X.X")}
	acid.Drums[core.DrumKick] = mustLane("X...X...X...X...")
	acid.Drums[core.DrumHihat] = mustLane("X.X.X.X.X.X.X.X.")
	acid.Drums[core.DrumSnare] = mustLane("....X.......X...")
	RegisterPreset(&Preset{Name: "acid-line", Tempo: 130, Pattern: acid})

	// Sparse halftime with toms answering the line
	half := Pattern{Melodic: mustLane("X.....X...X.....")}
	half.Drums[core.DrumKick] = mustLane("X.........X.....")
	half.Drums[core.DrumSnare] = mustLane("........X.......")
	half.Drums[core.DrumHihat] = mustLane("..X...X...X...X.")
	half.Drums[core.DrumTom] = mustLane("......X.......X.")
	RegisterPreset(&Preset{Name: "halftime", Tempo: 70, Pattern: half})
}
