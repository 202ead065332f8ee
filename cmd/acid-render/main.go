// acid-render bounces the configured pattern to a WAV file offline.
// It runs the full engine on the null backend and pulls samples as
// fast as they render, so a bounce takes a fraction of its play time.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/acidbox/audio"
	"github.com/lixenwraith/acidbox/parameter"
)

var (
	configPath = flag.String("config", "acidbox.toml", "config file path")
	outPath    = flag.String("o", "out.wav", "output WAV file")
	bars       = flag.Int("bars", 4, "number of 16-step bars to render")
	tailSec    = flag.Float64("tail", 1.0, "extra seconds after the last bar for effect tails")
	presetName = flag.String("preset", "", "preset to render (default: config start preset)")
	tempoFlag  = flag.Float64("tempo", 0, "tempo override in BPM")
)

func main() {
	flag.Parse()

	if *bars < 1 {
		fmt.Fprintln(os.Stderr, "bars must be at least 1")
		os.Exit(1)
	}

	cfg := audio.LoadConfig(*configPath)
	cfg.Backend = "null"
	cfg.Muted = false
	if *presetName != "" {
		cfg.StartPreset = *presetName
	}
	if *tempoFlag > 0 {
		cfg.Tempo = *tempoFlag
	}

	eng := audio.New(cfg)
	if err := eng.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "engine start: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	if *presetName != "" {
		if err := eng.ApplyPreset(*presetName); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}

	bpm := eng.Tempo()
	stepSamples := parameter.StepDurationSamples(bpm, float64(cfg.SampleRate))
	barFrames := stepSamples * float64(parameter.StepsPerBar)
	frames := int(math.Round(barFrames*float64(*bars))) + int(*tailSec*float64(cfg.SampleRate))

	eng.StartTransport()

	f, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", *outPath, err)
		os.Exit(1)
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(cfg.SampleRate),
		NumChannels: 2,
		Precision:   2,
	}
	if err := wav.Encode(f, beep.Take(frames, eng.Streamer()), format); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close %s: %v\n", *outPath, err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s: %d bars at %.1f bpm, %d frames (%.2fs) at %d Hz\n",
		*outPath, *bars, bpm, frames, float64(frames)/float64(cfg.SampleRate), cfg.SampleRate)
}
