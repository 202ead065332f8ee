package audio

import (
	"fmt"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/acidbox/parameter"
)

// Output owns the hardware side of playback. Exactly one goroutine pulls
// the engine's streamer, and Lock/Unlock serialize control mutations of
// the streamer chain against that pull.
type Output interface {
	Start(stream beep.Streamer) error
	Lock()
	Unlock()
	Suspend() error
	Resume() error
	Close() error
}

// NewOutput builds the backend selected by the config
func NewOutput(cfg *Config) Output {
	backend, _ := ParseBackendType(cfg.Backend)
	switch backend {
	case BackendPipe:
		return newPipeOutput(cfg)
	case BackendNull:
		return newNullOutput()
	}
	return newSpeakerOutput(cfg.SampleRate)
}

// speakerOutput plays through the gopxl/beep speaker
type speakerOutput struct {
	sr      beep.SampleRate
	started bool
}

func newSpeakerOutput(sampleRate int) *speakerOutput {
	return &speakerOutput{sr: beep.SampleRate(sampleRate)}
}

func (o *speakerOutput) Start(stream beep.Streamer) error {
	if o.started {
		return ErrAlreadyStarted
	}
	if err := speaker.Init(o.sr, o.sr.N(parameter.SpeakerBufferDuration)); err != nil {
		return fmt.Errorf("%w: %v", ErrNoAudioBackend, err)
	}
	speaker.Play(stream)
	o.started = true
	return nil
}

func (o *speakerOutput) Lock()   { speaker.Lock() }
func (o *speakerOutput) Unlock() { speaker.Unlock() }

func (o *speakerOutput) Suspend() error {
	if !o.started {
		return ErrNotStarted
	}
	return speaker.Suspend()
}

func (o *speakerOutput) Resume() error {
	if !o.started {
		return ErrNotStarted
	}
	return speaker.Resume()
}

func (o *speakerOutput) Close() error {
	if !o.started {
		return nil
	}
	speaker.Clear()
	speaker.Close()
	o.started = false
	return nil
}

// nullOutput is the headless backend: nothing pulls the streamer, the
// caller drives it directly. Offline rendering and tests use this.
type nullOutput struct {
	mu      sync.Mutex
	stream  beep.Streamer
	started bool
}

func newNullOutput() *nullOutput {
	return &nullOutput{}
}

func (o *nullOutput) Start(stream beep.Streamer) error {
	if o.started {
		return ErrAlreadyStarted
	}
	o.stream = stream
	o.started = true
	return nil
}

func (o *nullOutput) Lock()   { o.mu.Lock() }
func (o *nullOutput) Unlock() { o.mu.Unlock() }

func (o *nullOutput) Suspend() error { return nil }
func (o *nullOutput) Resume() error  { return nil }

func (o *nullOutput) Close() error {
	o.started = false
	o.stream = nil
	return nil
}
