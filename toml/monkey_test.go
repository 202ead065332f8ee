package toml

import (
	"strings"
	"testing"
)

// Hostile-input tests. Every case here is something a hand-edited
// config file has produced at least once.

// TestParseMalformedFloat verifies garbage numerics error instead of
// silently becoming zero
func TestParseMalformedFloat(t *testing.T) {
	_, err := Parse([]byte("swing = 1.2.3"))
	if err == nil {
		t.Fatal("Expected error for 1.2.3")
	}
	if !strings.Contains(err.Error(), "1.2.3") {
		t.Errorf("Expected offending literal in error, got: %v", err)
	}
}

// TestParseMixedAlphanumeric verifies digit-led identifiers are
// rejected as values
func TestParseMixedAlphanumeric(t *testing.T) {
	if _, err := Parse([]byte("tempo = 12x4")); err == nil {
		t.Error("Expected error for 12x4")
	}
}

// TestParseIntegerFormats verifies hex, octal, binary, underscores,
// and signs all parse to the right values
func TestParseIntegerFormats(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"v = 0x1F", 31},
		{"v = 0o17", 15},
		{"v = 0b101", 5},
		{"v = 1_000", 1000},
		{"v = +42", 42},
		{"v = -17", -17},
	}

	for _, tt := range tests {
		m, err := Parse([]byte(tt.input))
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.input, err)
			continue
		}
		got, ok := m["v"].(int)
		if !ok {
			t.Errorf("Parse(%q): expected int, got %T", tt.input, m["v"])
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q): expected %d, got %d", tt.input, tt.want, got)
		}
	}
}

// TestParseUnterminatedString verifies an open quote fails with a line
// number instead of eating the rest of the file
func TestParseUnterminatedString(t *testing.T) {
	_, err := Parse([]byte("name = \"four-floor\ntempo = 120"))
	if err == nil {
		t.Fatal("Expected error for unterminated string")
	}
}

// TestParseDuplicateKey verifies the parser rejects redefinition
func TestParseDuplicateKey(t *testing.T) {
	if _, err := Parse([]byte("tempo = 120\ntempo = 130")); err == nil {
		t.Error("Expected error for duplicate key")
	}
}

// TestParseKeyScalarTableConflict verifies a scalar key cannot later
// reopen as a table
func TestParseKeyScalarTableConflict(t *testing.T) {
	if _, err := Parse([]byte("synth = 1\n[synth]\ncutoff = 75")); err == nil {
		t.Error("Expected error reopening scalar as table")
	}
	if _, err := Parse([]byte("[synth]\ncutoff = 75\n\ncutoff.sub = 1")); err == nil {
		t.Error("Expected error extending scalar with dotted key")
	}
}

// TestParseTableReentry verifies declaring the same table twice merges
// distinct keys rather than erroring
func TestParseTableReentry(t *testing.T) {
	m, err := Parse([]byte("[synth]\ncutoff = 75\n\n[synth]\nresonance = 60"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	synth, ok := m["synth"].(map[string]any)
	if !ok {
		t.Fatalf("Expected synth table, got %T", m["synth"])
	}
	if synth["cutoff"] != 75 || synth["resonance"] != 60 {
		t.Errorf("Expected merged table, got %v", synth)
	}
}

// TestParseCommentEdges verifies comments at EOF, after values, and on
// blank lines all vanish cleanly
func TestParseCommentEdges(t *testing.T) {
	m, err := Parse([]byte("# leading\ntempo = 120 # trailing\n\n# standalone\nswing = 10\n# no newline at eof"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m["tempo"] != 120 {
		t.Errorf("Expected tempo 120, got %v", m["tempo"])
	}
	if m["swing"] != 10 {
		t.Errorf("Expected swing 10, got %v", m["swing"])
	}
}

// TestParseDeepDottedKeys verifies a.b.c.d builds the nested maps
func TestParseDeepDottedKeys(t *testing.T) {
	m, err := Parse([]byte("drums.kick.env.decay = 400"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	drums, _ := m["drums"].(map[string]any)
	if drums == nil {
		t.Fatal("Expected drums table")
	}
	kick, _ := drums["kick"].(map[string]any)
	if kick == nil {
		t.Fatal("Expected kick table")
	}
	env, _ := kick["env"].(map[string]any)
	if env == nil {
		t.Fatal("Expected env table")
	}
	if env["decay"] != 400 {
		t.Errorf("Expected decay 400, got %v", env["decay"])
	}
}

// TestParseUnexpectedCharacter verifies stray symbols error with
// position info
func TestParseUnexpectedCharacter(t *testing.T) {
	_, err := Parse([]byte("tempo @ 120"))
	if err == nil {
		t.Fatal("Expected error for stray @")
	}
	if !strings.Contains(err.Error(), "line") {
		t.Errorf("Expected line info in error, got: %v", err)
	}
}

// TestParseEmptyAndWhitespace verifies degenerate documents parse to
// empty maps
func TestParseEmptyAndWhitespace(t *testing.T) {
	for _, input := range []string{"", "\n\n\n", "   \n\t\n", "# only a comment\n"} {
		m, err := Parse([]byte(input))
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", input, err)
			continue
		}
		if len(m) != 0 {
			t.Errorf("Parse(%q): expected empty map, got %v", input, m)
		}
	}
}

// TestDecodeUnexportedNoPanic verifies a key colliding with an
// unexported field name is skipped, not a reflect panic
func TestDecodeUnexportedNoPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Recovered from panic: %v", r)
		}
	}()

	type T struct {
		secret string
		Public string `toml:"public"`
	}
	var v T
	if err := Decode(map[string]any{"secret": "x", "public": "y"}, &v); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if v.Public != "y" {
		t.Errorf("Expected public set, got %q", v.Public)
	}
	if v.secret != "" {
		t.Errorf("Expected unexported field untouched, got %q", v.secret)
	}
}

// TestUnmarshalStringEscapeRoundTrip verifies escape sequences decode
// back to the original characters
func TestUnmarshalStringEscapeRoundTrip(t *testing.T) {
	type T struct {
		Path string `toml:"path"`
		Note string `toml:"note"`
	}
	var v T
	input := []byte(`path = "C:\\ir\\hall.wav"` + "\n" + `note = "tab\there\nnewline"`)
	if err := Unmarshal(input, &v); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if v.Path != `C:\ir\hall.wav` {
		t.Errorf("Expected backslashes restored, got %q", v.Path)
	}
	if v.Note != "tab\there\nnewline" {
		t.Errorf("Expected control chars restored, got %q", v.Note)
	}
}
