package audio

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/acidbox/core"
	"github.com/lixenwraith/acidbox/parameter"
)

// pipeOutput feeds s16le stereo into a detected CLI sink process. A
// single writer goroutine pulls the streamer on a fixed tick; silence
// is written while suspended so the sink process stays alive.
type pipeOutput struct {
	cfg   *Config
	sink  *SinkConfig
	cmd   *exec.Cmd
	stdin io.WriteCloser
	dev   *os.File

	mu        sync.Mutex
	stream    beep.Streamer
	stopChan  chan struct{}
	stopped   atomic.Bool
	suspended atomic.Bool
	wg        sync.WaitGroup
	started   bool
}

func newPipeOutput(cfg *Config) *pipeOutput {
	return &pipeOutput{
		cfg:      cfg,
		stopChan: make(chan struct{}),
	}
}

func (p *pipeOutput) Start(stream beep.Streamer) error {
	if p.started {
		return ErrAlreadyStarted
	}

	sink, err := DetectSink(p.cfg)
	if err != nil {
		return err
	}
	p.sink = sink
	p.stream = stream

	var w io.Writer
	if sink.Type == SinkOSS {
		dev, err := os.OpenFile(sink.Path, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("%w: opening %s: %v", ErrNoAudioBackend, sink.Path, err)
		}
		p.dev = dev
		w = dev
	} else {
		cmd := exec.Command(sink.Path, sink.Args...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return fmt.Errorf("%w: sink stdin: %v", ErrNoAudioBackend, err)
		}
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("%w: starting %s: %v", ErrNoAudioBackend, sink.Name, err)
		}
		p.cmd = cmd
		p.stdin = stdin
		w = stdin

		p.wg.Add(1)
		core.Go(func() {
			defer p.wg.Done()
			p.monitorSink()
		})
	}

	log.Printf("Audio sink: %s (%s)", sink.Name, sink.Path)

	p.wg.Add(1)
	core.Go(func() {
		defer p.wg.Done()
		p.writeLoop(w)
	})

	p.started = true
	return nil
}

// writeLoop converts and writes one buffer per tick. The sink's own
// buffering absorbs ticker jitter.
func (p *pipeOutput) writeLoop(w io.Writer) {
	frames := p.cfg.SampleRate * int(parameter.AudioBufferDuration/time.Millisecond) / 1000
	buf := make([][2]float64, frames)
	bytes := make([]byte, frames*4)
	silence := make([]byte, frames*4)

	ticker := time.NewTicker(parameter.AudioBufferDuration)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			out := silence
			if !p.suspended.Load() {
				p.mu.Lock()
				n, _ := p.stream.Stream(buf)
				p.mu.Unlock()
				for i := n; i < len(buf); i++ {
					buf[i] = [2]float64{}
				}
				frameBytes(buf, bytes)
				out = bytes
			}
			if _, err := w.Write(out); err != nil {
				if !p.stopped.Swap(true) {
					log.Printf("Audio sink write failed, output stopped: %v", err)
				}
				return
			}
		}
	}
}

// monitorSink notices a sink process dying out from under us
func (p *pipeOutput) monitorSink() {
	err := p.cmd.Wait()
	if p.stopped.Load() {
		return
	}
	log.Printf("Audio sink %s exited: %v", p.sink.Name, err)
}

func (p *pipeOutput) Lock()   { p.mu.Lock() }
func (p *pipeOutput) Unlock() { p.mu.Unlock() }

func (p *pipeOutput) Suspend() error {
	if !p.started {
		return ErrNotStarted
	}
	p.suspended.Store(true)
	return nil
}

func (p *pipeOutput) Resume() error {
	if !p.started {
		return ErrNotStarted
	}
	p.suspended.Store(false)
	return nil
}

func (p *pipeOutput) Close() error {
	if !p.started {
		return nil
	}
	p.stopped.Store(true)
	close(p.stopChan)

	if p.stdin != nil {
		p.stdin.Close()
	}
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	if p.dev != nil {
		p.dev.Close()
	}

	p.wg.Wait()
	p.started = false
	return nil
}

// frameBytes converts stereo float frames to interleaved s16le.
// The limiter upstream keeps values in range; clamp anyway.
func frameBytes(frames [][2]float64, out []byte) {
	for i, f := range frames {
		for ch := 0; ch < 2; ch++ {
			v := f[ch]
			if v > 1.0 {
				v = 1.0
			} else if v < -1.0 {
				v = -1.0
			}
			s := int16(v * 32767)
			out[i*4+ch*2] = byte(s)
			out[i*4+ch*2+1] = byte(s >> 8)
		}
	}
}
