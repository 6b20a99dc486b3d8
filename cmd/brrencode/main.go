// brrencode reads a PCM WAV file and writes its Mid and Side channels out
// as independent BRR bitstreams.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-audio/audio"

	"github.com/cwbudde/snesbrr"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) (err error) {
	flagSet := flag.NewFlagSet("brrencode", flag.ContinueOnError)

	input := flagSet.String("input", "", "path to the source PCM WAV file")
	midSr := flagSet.Int("mid-sr", 32000, "target sample rate for the Mid channel")
	sideSr := flagSet.Int("side-sr", 16000, "target sample rate for the Side channel")

	if err := flagSet.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	if *input == "" {
		return fmt.Errorf("missing -input")
	}

	file, err := os.Open(*input)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", *input, err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close input: %w", cerr)
		}
	}()

	wavBuf, err := brr.ReadWav(file)
	if err != nil {
		return fmt.Errorf("failed to read WAV: %w", err)
	}

	stereo, err := toStereo(wavBuf)
	if err != nil {
		return err
	}

	pipeline, err := brr.NewPipeline(brr.Config{
		MidTargetSr:  *midSr,
		SideTargetSr: *sideSr,
		OnNormalize: func(gain float64) {
			if gain != 1 {
				log.Printf("normalized Mid/Side by gain=%.4f", gain)
			}
		},
	}, brr.HostResampler{})
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	result, err := pipeline.Encode(context.Background(), stereo)
	if err != nil {
		return fmt.Errorf("encode failed: %w", err)
	}

	base := strings.TrimSuffix(*input, ".wav")

	if err := writeBrrFile(base+".mid.brr", result.Mid); err != nil {
		return err
	}

	if err := writeBrrFile(base+".side.brr", result.Side); err != nil {
		return err
	}

	log.Printf("wrote %d Mid blocks @ %dHz, %d Side blocks @ %dHz",
		len(result.Mid.Blocks), *midSr, len(result.Side.Blocks), *sideSr)

	return nil
}

func toStereo(buf *audio.Float32Buffer) (brr.StereoF, error) {
	sr := buf.Format.SampleRate
	numChans := buf.Format.NumChannels
	n := len(buf.Data) / numChans

	deinterleave := func(channel int) []brr.PcmF {
		out := make([]brr.PcmF, n)
		for i := range out {
			out[i] = brr.PcmF(buf.Data[i*numChans+channel])
		}

		return out
	}

	switch numChans {
	case 1:
		mono := deinterleave(0)
		return brr.StereoF{
			L:  brr.SignalF{Samples: mono, Sr: sr},
			R:  brr.SignalF{Samples: mono, Sr: sr},
			Sr: sr,
		}, nil
	case 2:
		return brr.StereoF{
			L:  brr.SignalF{Samples: deinterleave(0), Sr: sr},
			R:  brr.SignalF{Samples: deinterleave(1), Sr: sr},
			Sr: sr,
		}, nil
	default:
		return brr.StereoF{}, fmt.Errorf("unsupported channel count %d", numChans)
	}
}

func writeBrrFile(path string, stream brr.BrrStream) error {
	if err := os.WriteFile(path, stream.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
