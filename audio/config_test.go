package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/acidbox/core"
)

// TestDefaultConfig verifies the baked-in defaults
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.SampleRate != 44100 {
		t.Errorf("Expected default sample rate 44100, got %d", cfg.SampleRate)
	}
	if cfg.Backend != "speaker" {
		t.Errorf("Expected speaker backend, got %s", cfg.Backend)
	}
	if cfg.MasterVolume != 0.8 {
		t.Errorf("Expected default master volume 0.8, got %f", cfg.MasterVolume)
	}
	if cfg.Tempo != 120 {
		t.Errorf("Expected 120 BPM, got %f", cfg.Tempo)
	}
	if !cfg.Effects.Delay || !cfg.Effects.Reverb || !cfg.Effects.Compressor || !cfg.Effects.DuckOnKick {
		t.Error("Expected the full effects chain on by default")
	}
	if cfg.Levels.Kick != 1 || cfg.Levels.Perc != 1 {
		t.Error("Expected unity drum levels by default")
	}
}

// TestLoadConfigFile verifies the TOML file layers over the defaults
func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acidbox.toml")
	data := `
# session setup
tempo = 140
swing = 25
waveform = "square"
backend = "null"
master_volume = 0.5

[synth]
cutoff = 75
resonance = 60

[drums]
kick_decay = 600

[levels]
kick = 0.9

[effects]
delay = true
reverb = false
compressor = true
duck_on_kick = false

[[preset]]
name = "test-groove"
tempo = 125
melodic = "X...X...X...X..."
kick = "X.......X......."
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadConfig(path)

	if cfg.Tempo != 140 {
		t.Errorf("Expected tempo from the file, got %f", cfg.Tempo)
	}
	if cfg.Swing != 25 {
		t.Errorf("Expected swing from the file, got %f", cfg.Swing)
	}
	if cfg.Synth.Waveform != core.WaveSquare {
		t.Errorf("Expected square waveform, got %v", cfg.Synth.Waveform)
	}
	if cfg.Synth.Cutoff != 75 || cfg.Synth.Resonance != 60 {
		t.Errorf("Expected synth table values, got %+v", cfg.Synth)
	}
	if cfg.Synth.Attack != 5 {
		t.Errorf("Expected untouched defaults to survive, got %f", cfg.Synth.Attack)
	}
	if cfg.Drums.KickDecay != 600 {
		t.Errorf("Expected drum table values, got %f", cfg.Drums.KickDecay)
	}
	if cfg.Levels.Kick != 0.9 {
		t.Errorf("Expected level from the file, got %f", cfg.Levels.Kick)
	}
	if cfg.Effects.Reverb || !cfg.Effects.Delay {
		t.Error("Expected effects toggles from the file")
	}
	if cfg.Backend != "null" {
		t.Errorf("Expected null backend, got %s", cfg.Backend)
	}

	if len(cfg.Presets) != 1 || cfg.Presets[0].Name != "test-groove" {
		t.Fatalf("Expected one preset table, got %+v", cfg.Presets)
	}
	p, err := cfg.Presets[0].toPreset()
	if err != nil {
		t.Fatalf("Expected a clean preset, got %v", err)
	}
	if p.Tempo != 125 || !p.Pattern.Melodic[0] || !p.Pattern.Drums[core.DrumKick][8] {
		t.Errorf("Expected parsed preset lanes, got %+v", p)
	}
	if p.Pattern.Drums[core.DrumSnare][0] {
		t.Error("Expected omitted lanes to rest")
	}
}

// TestLoadConfigMissingFile verifies absence is not an error
func TestLoadConfigMissingFile(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if cfg.Tempo != 120 || cfg.Backend != "speaker" {
		t.Error("Expected pure defaults for a missing file")
	}
}

// TestLoadConfigBrokenFile verifies a bad file is skipped, not fatal
func TestLoadConfigBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("= = ="), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadConfig(path)
	if cfg.Tempo != 120 {
		t.Error("Expected defaults after a broken file")
	}
}

// TestConfigEnvOverrides verifies environment beats the file
func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("ACIDBOX_BACKEND", "pipe")
	t.Setenv("ACIDBOX_TEMPO", "150")
	t.Setenv("ACIDBOX_MASTER_VOLUME", "50")
	t.Setenv("ACIDBOX_MUTED", "true")

	cfg := LoadConfig("")

	if cfg.Backend != "pipe" {
		t.Errorf("Expected env backend, got %s", cfg.Backend)
	}
	if cfg.Tempo != 150 {
		t.Errorf("Expected env tempo, got %f", cfg.Tempo)
	}
	if cfg.MasterVolume != 0.5 {
		t.Errorf("Expected 50 to become 0.5, got %f", cfg.MasterVolume)
	}
	if !cfg.Muted {
		t.Error("Expected muted from env")
	}
}

// TestConfigSanitize verifies out-of-range values are forced back
func TestConfigSanitize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tempo = 999
	cfg.MasterVolume = 7
	cfg.Backend = "cassette"
	cfg.Waveform = "theremin"
	cfg.Levels.Kick = -3
	cfg.sanitize()

	if cfg.Tempo != 180 {
		t.Errorf("Expected tempo clamped to 180, got %f", cfg.Tempo)
	}
	if cfg.MasterVolume != 1 {
		t.Errorf("Expected volume clamped to 1, got %f", cfg.MasterVolume)
	}
	if cfg.Backend != "speaker" {
		t.Errorf("Expected unknown backend reset, got %s", cfg.Backend)
	}
	if cfg.Synth.Waveform != core.WaveSaw {
		t.Errorf("Expected unknown waveform reset to saw, got %v", cfg.Synth.Waveform)
	}
	if cfg.Levels.Kick != 0 {
		t.Errorf("Expected negative level clamped to 0, got %f", cfg.Levels.Kick)
	}
	if cfg.Drums.Tempo != 180 {
		t.Errorf("Expected drum tempo synced to the clamp, got %f", cfg.Drums.Tempo)
	}
}

// TestRegisterPresetsSkipsBad verifies broken tables are skipped while
// good ones land
func TestRegisterPresetsSkipsBad(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Presets = []PresetDef{
		{Name: "good", Melodic: "X...X...X...X..."},
		{Name: "", Melodic: "X...X...X...X..."},
		{Name: "bad-lane", Melodic: "X!"},
	}
	cfg.registerPresets()

	if GetPreset("good") == nil {
		t.Error("Expected the good preset registered")
	}
	if GetPreset("bad-lane") != nil {
		t.Error("Expected the bad preset skipped")
	}
}
