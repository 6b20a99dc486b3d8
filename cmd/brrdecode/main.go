// brrdecode reads a Mid/Side BRR bitstream pair and writes a
// reconstructed stereo PCM WAV file at a caller-specified host rate.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-audio/audio"

	"github.com/cwbudde/snesbrr"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) (err error) {
	flagSet := flag.NewFlagSet("brrdecode", flag.ContinueOnError)

	midPath := flagSet.String("mid", "", "path to the Mid channel .brr file")
	sidePath := flagSet.String("side", "", "path to the Side channel .brr file")
	output := flagSet.String("output", "output.wav", "path to write the reconstructed stereo WAV file")
	midSr := flagSet.Int("mid-sr", 32000, "Mid channel's encoded sample rate")
	sideSr := flagSet.Int("side-sr", 16000, "Side channel's encoded sample rate")
	hostSr := flagSet.Int("host-sr", 44100, "playback sample rate to reconstruct at")
	gauss := flagSet.Bool("gauss", true, "apply the SPC700 Gauss output filter on decode")

	if err := flagSet.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	if *midPath == "" || *sidePath == "" {
		return fmt.Errorf("both -mid and -side are required")
	}

	midBytes, err := os.ReadFile(*midPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", *midPath, err)
	}

	sideBytes, err := os.ReadFile(*sidePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", *sidePath, err)
	}

	result := brr.EncodeResult{
		Mid:  brr.ParseBrrStream(midBytes, *midSr),
		Side: brr.ParseBrrStream(sideBytes, *sideSr),
	}

	pipeline, err := brr.NewPipeline(brr.Config{
		MidTargetSr:   *midSr,
		SideTargetSr:  *sideSr,
		GaussOnDecode: *gauss,
	}, brr.HostResampler{})
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	stereo, err := pipeline.Decode(context.Background(), result, *hostSr)
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	outFile, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", *output, err)
	}

	defer func() {
		if cerr := outFile.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
	}()

	n := len(stereo.L.Samples)
	interleaved := make([]float32, n*2)

	for i := range n {
		interleaved[i*2] = float32(stereo.L.Samples[i])
		interleaved[i*2+1] = float32(stereo.R.Samples[i])
	}

	outBuf := &audio.Float32Buffer{
		Data:   interleaved,
		Format: &audio.Format{NumChannels: 2, SampleRate: *hostSr},
	}

	if err := brr.WriteWav(outFile, outBuf); err != nil {
		return fmt.Errorf("failed to write WAV: %w", err)
	}

	log.Printf("wrote %d frames to %s at %dHz", len(stereo.L.Samples), *output, *hostSr)

	return nil
}
