package audio

import (
	"log"
	"os"
	"strconv"

	"github.com/lixenwraith/acidbox/core"
	"github.com/lixenwraith/acidbox/parameter"
	"github.com/lixenwraith/acidbox/toml"
)

// Config is everything the engine takes at construction: output routing,
// initial musical state, the effect toggles, and user preset tables.
// Precedence is defaults, then the TOML file, then ACIDBOX_* environment
// overrides.
type Config struct {
	SampleRate   int     `toml:"sample_rate"`
	Backend      string  `toml:"backend"` // speaker | pipe | null
	Sink         string  `toml:"sink"`    // pipe sink override
	SinkPath     string  `toml:"sink_path"`
	MasterVolume float64 `toml:"master_volume"` // 0..1
	Muted        bool    `toml:"muted"`

	Tempo       float64 `toml:"tempo"`
	Swing       float64 `toml:"swing"`
	ImpulseWAV  string  `toml:"impulse_wav"`
	StartPreset string  `toml:"start_preset"`

	// Waveform sits outside [synth] because it is textual; everything in
	// the table is a slider
	Waveform string      `toml:"waveform"`
	Synth    SynthParams `toml:"synth"`
	Drums    DrumParams  `toml:"drums"`

	Levels  DrumLevels    `toml:"levels"`
	Effects EffectsConfig `toml:"effects"`

	Presets []PresetDef `toml:"preset"`
}

// DrumLevels are per-drum mix gains applied at trigger time
type DrumLevels struct {
	Kick  float64 `toml:"kick"`
	Snare float64 `toml:"snare"`
	Hihat float64 `toml:"hihat"`
	Tom   float64 `toml:"tom"`
	Clap  float64 `toml:"clap"`
	Perc  float64 `toml:"perc"`
}

func (l DrumLevels) clamped() DrumLevels {
	l.Kick = clampRange(l.Kick, parameter.DrumLevelMin, parameter.DrumLevelMax)
	l.Snare = clampRange(l.Snare, parameter.DrumLevelMin, parameter.DrumLevelMax)
	l.Hihat = clampRange(l.Hihat, parameter.DrumLevelMin, parameter.DrumLevelMax)
	l.Tom = clampRange(l.Tom, parameter.DrumLevelMin, parameter.DrumLevelMax)
	l.Clap = clampRange(l.Clap, parameter.DrumLevelMin, parameter.DrumLevelMax)
	l.Perc = clampRange(l.Perc, parameter.DrumLevelMin, parameter.DrumLevelMax)
	return l
}

func (l DrumLevels) level(kind core.DrumKind) float64 {
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
	return 1.0
}

// EffectsConfig mirrors EffectsState for the config file
type EffectsConfig struct {
	Delay      bool `toml:"delay"`
	Reverb     bool `toml:"reverb"`
	Compressor bool `toml:"compressor"`
	DuckOnKick bool `toml:"duck_on_kick"`
}

func (e EffectsConfig) state() EffectsState {
	return EffectsState{
		DelayOn:      e.Delay,
		ReverbOn:     e.Reverb,
		CompressorOn: e.Compressor,
		DuckOnKick:   e.DuckOnKick,
	}
}

// PresetDef is the [[preset]] table shape: lanes in the sixteen-character
// notation, empty lanes rest
type PresetDef struct {
	Name    string  `toml:"name"`
	Tempo   float64 `toml:"tempo"`
	Melodic string  `toml:"melodic"`
	Kick    string  `toml:"kick"`
	Snare   string  `toml:"snare"`
	Hihat   string  `toml:"hihat"`
	Tom     string  `toml:"tom"`
	Clap    string  `toml:"clap"`
	Perc    string  `toml:"perc"`
}

func (d PresetDef) toPreset() (*Preset, error) {
	p := &Preset{Name: d.Name, Tempo: d.Tempo}
	lanes := []struct {
		src string
		dst *[parameter.StepsPerBar]bool
	}{
		{d.Melodic, &p.Pattern.Melodic},
		{d.Kick, &p.Pattern.Drums[core.DrumKick]},
		{d.Snare, &p.Pattern.Drums[core.DrumSnare]},
		{d.Hihat, &p.Pattern.Drums[core.DrumHihat]},
		{d.Tom, &p.Pattern.Drums[core.DrumTom]},
		{d.Clap, &p.Pattern.Drums[core.DrumClap]},
		{d.Perc, &p.Pattern.Drums[core.DrumPerc]},
	}
	for _, l := range lanes {
		if l.src == "" {
			continue
		}
		lane, err := ParsePatternLane(l.src)
		if err != nil {
			return nil, err
		}
		*l.dst = lane
	}
	return p, nil
}

func DefaultConfig() *Config {
	return &Config{
		SampleRate:   parameter.AudioSampleRate,
		Backend:      BackendSpeaker.String(),
		MasterVolume: 0.8,
		Tempo:        parameter.DefaultBPM,
		Swing:        0,
		StartPreset:  "four-floor",
		Waveform:     core.WaveSaw.String(),
		Synth:        DefaultSynthParams(),
		Drums:        DefaultDrumParams(),
		Levels:       DrumLevels{Kick: 1, Snare: 1, Hihat: 1, Tom: 1, Clap: 1, Perc: 1},
		Effects:      EffectsConfig{Delay: true, Reverb: true, Compressor: true, DuckOnKick: true},
	}
}

// LoadConfig builds the effective configuration. A missing file is
// normal; a broken one is reported and skipped.
func LoadConfig(path string) *Config {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := toml.Unmarshal(data, cfg); err != nil {
				log.Printf("Config file '%s' unusable, keeping defaults: %v", path, err)
				cfg = DefaultConfig()
			}
		}
	}

	cfg.applyEnv()
	cfg.sanitize()
	return cfg
}

// applyEnv layers ACIDBOX_* overrides on top of the file values
func (c *Config) applyEnv() {
	if v := os.Getenv("ACIDBOX_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("ACIDBOX_SINK"); v != "" {
		c.Sink = v
	}
	if v := os.Getenv("ACIDBOX_SINK_PATH"); v != "" {
		c.SinkPath = v
	}

	// Master volume arrives as 0-100 and is converted to 0.0-1.0
	if v := os.Getenv("ACIDBOX_MASTER_VOLUME"); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			c.MasterVolume = float64(val) / 100.0
		}
	}
	if v := os.Getenv("ACIDBOX_MUTED"); v != "" {
		if val, err := strconv.ParseBool(v); err == nil {
			c.Muted = val
		}
	}
	if v := os.Getenv("ACIDBOX_TEMPO"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			c.Tempo = val
		}
	}
	if v := os.Getenv("ACIDBOX_SAMPLE_RATE"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			c.SampleRate = val
		}
	}
	if v := os.Getenv("ACIDBOX_IMPULSE_WAV"); v != "" {
		c.ImpulseWAV = v
	}
	if v := os.Getenv("ACIDBOX_PRESET"); v != "" {
		c.StartPreset = v
	}
}

// sanitize forces every field into its working range
func (c *Config) sanitize() {
	if c.SampleRate <= 0 {
		c.SampleRate = parameter.AudioSampleRate
	}
	if _, ok := ParseBackendType(c.Backend); !ok {
		c.Backend = BackendSpeaker.String()
	}
	c.MasterVolume = clampRange(c.MasterVolume, 0, 1)
	c.Tempo = clampRange(c.Tempo, parameter.MinBPM, parameter.MaxBPM)
	c.Swing = clampRange(c.Swing, parameter.MinSwing, parameter.MaxSwing)

	if w, ok := core.ParseWaveform(c.Waveform); ok {
		c.Synth.Waveform = w
	} else {
		c.Synth.Waveform = core.WaveSaw
	}
	c.Synth = c.Synth.clamped()
	c.Drums.Tempo = c.Tempo
	c.Drums = c.Drums.clamped()

	c.Levels = c.Levels.clamped()
}

// registerPresets pushes the config's preset tables into the registry,
// overriding built-ins that share a name. Bad tables are reported and
// skipped.
func (c *Config) registerPresets() {
	for _, def := range c.Presets {
		if def.Name == "" {
			log.Printf("Skipping unnamed preset table")
			continue
		}
		p, err := def.toPreset()
		if err != nil {
			log.Printf("Skipping preset '%s': %v", def.Name, err)
			continue
		}
		RegisterPreset(p)
	}
}
