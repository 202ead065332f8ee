package audio

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

// sinkCandidate describes one CLI player the pipe backend can feed.
// Args are built per sample rate so a non-default rate reaches the sink.
type sinkCandidate struct {
	typ  SinkType
	name string
	bin  string
	args func(rate int) []string
}

// Detection priority: pacat > pw-cat > aplay > play (sox) > ffplay.
// OSS is handled separately since it is a device write, not an exec.
var sinkCandidates = []sinkCandidate{
	{
		typ:  SinkPulse,
		name: "pacat",
		bin:  "pacat",
		args: func(rate int) []string {
			return []string{
				"--raw",
				"--format=s16le",
				"--rate=" + strconv.Itoa(rate),
				"--channels=2",
				"--latency-msec=50",
				"--playback",
			}
		},
	},
	{
		typ:  SinkPipeWire,
		name: "pw-cat",
		bin:  "pw-cat",
		args: func(rate int) []string {
			return []string{
				"--playback",
				"--format=s16",
				"--rate=" + strconv.Itoa(rate),
				"--channels=2",
				"--latency=50ms",
				"-",
			}
		},
	},
	{
		typ:  SinkALSA,
		name: "aplay",
		bin:  "aplay",
		args: func(rate int) []string {
			return []string{
				"-t", "raw",
				"-f", "S16_LE",
				"-r", strconv.Itoa(rate),
				"-c", "2",
				"-q",
			}
		},
	},
	{
		typ:  SinkSoX,
		name: "sox",
		bin:  "play",
		args: func(rate int) []string {
			return []string{
				"-t", "raw",
				"-e", "signed",
				"-b", "16",
				"-c", "2",
				"-r", strconv.Itoa(rate),
				"-",
				"-d",
				"-q",
			}
		},
	},
	{
		typ:  SinkFFplay,
		name: "ffplay",
		bin:  "ffplay",
		args: func(rate int) []string {
			return []string{
				"-nodisp",
				"-autoexit",
				"-f", "s16le",
				"-ac", "2",
				"-ar", strconv.Itoa(rate),
				"-probesize", "32",
				"-analyzeduration", "0",
				"-i", "pipe:0",
				"-loglevel", "quiet",
			}
		},
	},
}

// DetectSink finds a usable CLI sink for the pipe backend. A configured
// sink name pins the choice instead of probing; a configured path skips
// PATH lookup for that sink.
func DetectSink(cfg *Config) (*SinkConfig, error) {
	if cfg.Sink != "" {
		return forcedSink(cfg)
	}

	for _, c := range sinkCandidates {
		path, err := exec.LookPath(c.bin)
		if err != nil {
			continue
		}
		return &SinkConfig{
			Type: c.typ,
			Name: c.name,
			Path: path,
			Args: c.args(cfg.SampleRate),
		}, nil
	}

	// FreeBSD OSS: direct device write, no exec needed
	if runtime.GOOS == "freebsd" {
		if _, err := os.Stat("/dev/dsp"); err == nil {
			return &SinkConfig{
				Type: SinkOSS,
				Name: "oss",
				Path: "/dev/dsp",
			}, nil
		}
	}

	return nil, ErrNoAudioBackend
}

// forcedSink resolves an explicitly configured sink. An unresolvable
// forced sink is an error, never a fallthrough to probing.
func forcedSink(cfg *Config) (*SinkConfig, error) {
	if cfg.Sink == "oss" {
		path := cfg.SinkPath
		if path == "" {
			path = "/dev/dsp"
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: oss device %s: %v", ErrNoAudioBackend, path, err)
		}
		return &SinkConfig{Type: SinkOSS, Name: "oss", Path: path}, nil
	}

	for _, c := range sinkCandidates {
		if cfg.Sink != c.name && cfg.Sink != c.bin {
			continue
		}
		path := cfg.SinkPath
		if path == "" {
			var err error
			path, err = exec.LookPath(c.bin)
			if err != nil {
				return nil, fmt.Errorf("%w: sink %s: %v", ErrNoAudioBackend, c.name, err)
			}
		}
		return &SinkConfig{
			Type: c.typ,
			Name: c.name,
			Path: path,
			Args: c.args(cfg.SampleRate),
		}, nil
	}

	return nil, fmt.Errorf("%w: unknown sink %q", ErrNoAudioBackend, cfg.Sink)
}
