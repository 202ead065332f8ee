package audio

import (
	"errors"
)

// BackendType identifies the audio output backend
type BackendType int

const (
	BackendSpeaker BackendType = iota // gopxl/beep speaker (default)
	BackendPipe                       // s16le into a detected CLI sink
	BackendNull                       // headless, caller pulls samples
)

func (b BackendType) String() string {
	names := [...]string{"speaker", "pipe", "null"}
	if int(b) >= 0 && int(b) < len(names) {
		return names[b]
	}
	return "unknown"
}

// ParseBackendType maps a config name to its BackendType
func ParseBackendType(s string) (BackendType, bool) {
	switch s {
	case "speaker", "beep":
		return BackendSpeaker, true
	case "pipe":
		return BackendPipe, true
	case "null", "silent", "none":
		return BackendNull, true
	}
	return BackendSpeaker, false
}

// SinkType identifies the CLI sink used by the pipe backend
type SinkType int

const (
	SinkPulse SinkType = iota
	SinkPipeWire
	SinkALSA
	SinkSoX
	SinkFFplay
	SinkOSS
)

// SinkConfig describes a CLI audio sink
type SinkConfig struct {
	Type SinkType
	Name string
	Path string
	Args []string
}

// Sentinel errors
var (
	ErrNoAudioBackend = errors.New("no compatible audio backend found")
	ErrPipeClosed     = errors.New("audio pipe closed")
	ErrAlreadyStarted = errors.New("engine already started")
	ErrNotStarted     = errors.New("engine not started")
	ErrPatternLength  = errors.New("pattern must have exactly 16 steps")
	ErrUnknownDrum    = errors.New("unknown drum kind")
	ErrUnknownPreset  = errors.New("unknown pattern preset")
)
