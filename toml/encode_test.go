package toml

import (
	"strings"
	"testing"
)

// TestMarshalScalars verifies scalar formatting, including the ".0"
// suffix on whole floats so they round-trip as floats
func TestMarshalScalars(t *testing.T) {
	type T struct {
		Backend string  `toml:"backend"`
		Tempo   float64 `toml:"tempo"`
		Swing   float64 `toml:"swing"`
		Steps   int     `toml:"steps"`
		Muted   bool    `toml:"muted"`
	}
	out, err := Marshal(T{Backend: "speaker", Tempo: 120, Swing: 12.5, Steps: 16, Muted: true})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(out)

	for _, want := range []string{
		`backend = "speaker"`,
		`tempo = 120.0`,
		`swing = 12.5`,
		`steps = 16`,
		`muted = true`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, s)
		}
	}
}

// TestMarshalStringEscapes verifies special characters survive encoding
func TestMarshalStringEscapes(t *testing.T) {
	type T struct {
		Path string `toml:"path"`
		Note string `toml:"note"`
	}
	out, err := Marshal(T{Path: `C:\ir\hall.wav`, Note: "line1\nline2"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `path = "C:\\ir\\hall.wav"`) {
		t.Errorf("Expected escaped backslashes, got:\n%s", s)
	}
	if !strings.Contains(s, `note = "line1\nline2"`) {
		t.Errorf("Expected escaped newline, got:\n%s", s)
	}
}

// TestMarshalTableOrdering verifies scalars precede tables and keys
// sort alphabetically, keeping generated configs diffable
func TestMarshalTableOrdering(t *testing.T) {
	type Synth struct {
		Cutoff float64 `toml:"cutoff"`
	}
	type T struct {
		Synth   Synth   `toml:"synth"`
		Backend string  `toml:"backend"`
		Tempo   float64 `toml:"tempo"`
	}
	out, err := Marshal(T{Synth: Synth{Cutoff: 75}, Backend: "null", Tempo: 120})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(out)

	backendPos := strings.Index(s, "backend")
	tempoPos := strings.Index(s, "tempo")
	tablePos := strings.Index(s, "[synth]")
	if backendPos < 0 || tempoPos < 0 || tablePos < 0 {
		t.Fatalf("Missing expected keys in:\n%s", s)
	}
	if backendPos > tempoPos {
		t.Error("Expected keys sorted alphabetically")
	}
	if tablePos < tempoPos {
		t.Error("Expected scalar keys before table headers")
	}
	if !strings.Contains(s, "cutoff = 75.0") {
		t.Errorf("Expected nested key under table, got:\n%s", s)
	}
}

// TestMarshalArrayOfTables verifies slices of structs emit [[header]]
// blocks in element order
func TestMarshalArrayOfTables(t *testing.T) {
	type Preset struct {
		Name string `toml:"name"`
		Kick string `toml:"kick"`
	}
	type T struct {
		Presets []Preset `toml:"preset"`
	}
	out, err := Marshal(T{Presets: []Preset{
		{Name: "four-floor", Kick: "X...X...X...X..."},
		{Name: "halftime", Kick: "X.........X....."},
	}})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(out)

	if strings.Count(s, "[[preset]]") != 2 {
		t.Errorf("Expected two [[preset]] headers, got:\n%s", s)
	}
	first := strings.Index(s, "four-floor")
	second := strings.Index(s, "halftime")
	if first < 0 || second < 0 || first > second {
		t.Errorf("Expected presets in element order, got:\n%s", s)
	}
}

// TestMarshalSkips verifies omitempty and "-" suppress fields
func TestMarshalSkips(t *testing.T) {
	type Inner struct {
		Value int `toml:"value"`
	}
	type T struct {
		Kept    string `toml:"kept"`
		Hidden  string `toml:"-"`
		Empty   *Inner `toml:"empty,omitempty"`
		Present *Inner `toml:"present,omitempty"`
	}
	out, err := Marshal(T{Kept: "yes", Hidden: "secret", Present: &Inner{Value: 7}})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(out)

	if !strings.Contains(s, `kept = "yes"`) {
		t.Errorf("Expected kept field, got:\n%s", s)
	}
	if strings.Contains(s, "secret") {
		t.Errorf("Expected hidden field suppressed, got:\n%s", s)
	}
	if strings.Contains(s, "empty") {
		t.Errorf("Expected nil omitempty pointer suppressed, got:\n%s", s)
	}
	if !strings.Contains(s, "[present]") || !strings.Contains(s, "value = 7") {
		t.Errorf("Expected non-nil pointer encoded, got:\n%s", s)
	}
}

// TestMarshalNonStruct verifies the root must be a struct
func TestMarshalNonStruct(t *testing.T) {
	if _, err := Marshal(map[string]any{"k": 1}); err == nil {
		t.Error("Expected error for map root")
	}
	if _, err := Marshal(42); err == nil {
		t.Error("Expected error for scalar root")
	}
}

// TestMarshalRoundTrip verifies a config-shaped struct survives
// Marshal then Unmarshal unchanged
func TestMarshalRoundTrip(t *testing.T) {
	type Synth struct {
		Cutoff    float64 `toml:"cutoff"`
		Resonance float64 `toml:"resonance"`
	}
	type Preset struct {
		Name string `toml:"name"`
		Kick string `toml:"kick"`
	}
	type Config struct {
		Backend string   `toml:"backend"`
		Tempo   float64  `toml:"tempo"`
		Muted   bool     `toml:"muted"`
		Synth   Synth    `toml:"synth"`
		Presets []Preset `toml:"preset"`
	}

	in := Config{
		Backend: "pipe",
		Tempo:   133,
		Muted:   true,
		Synth:   Synth{Cutoff: 80, Resonance: 45.5},
		Presets: []Preset{
			{Name: "acid-line", Kick: "X...X...X...X..."},
		},
	}

	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var out Config
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v\ninput:\n%s", err, data)
	}

	if out.Backend != in.Backend || out.Tempo != in.Tempo || out.Muted != in.Muted {
		t.Errorf("Scalar mismatch: %+v vs %+v", out, in)
	}
	if out.Synth != in.Synth {
		t.Errorf("Synth mismatch: %+v vs %+v", out.Synth, in.Synth)
	}
	if len(out.Presets) != 1 || out.Presets[0] != in.Presets[0] {
		t.Errorf("Preset mismatch: %+v vs %+v", out.Presets, in.Presets)
	}
}

// TestMarshalQuotedKeys verifies keys that would lex as values get
// quoted so the document re-parses
func TestMarshalQuotedKeys(t *testing.T) {
	type T struct {
		Numeric string `toml:"303"`
		Boolish string `toml:"true"`
	}
	out, err := Marshal(T{Numeric: "bass", Boolish: "yes"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `"303" = "bass"`) {
		t.Errorf("Expected numeric key quoted, got:\n%s", s)
	}
	if !strings.Contains(s, `"true" = "yes"`) {
		t.Errorf("Expected boolean key quoted, got:\n%s", s)
	}
}
