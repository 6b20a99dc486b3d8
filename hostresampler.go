package brr

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// HostResampler adapts github.com/tphakala/go-audio-resampling's one-shot
// mono resampling function to the Resampler interface. It is the
// higher-quality path the router picks for target rates at or above
// 8 kHz, where aliasing risk from a simpler resampler is low.
//
// QualityHigh is used rather than the speech-tuned QualityLow some
// examples reach for, because this path feeds a lossy BRR encode with no
// further error correction downstream.
type HostResampler struct{}

func (HostResampler) Downsample(samples []PcmF, originalSr, targetSr int) ([]PcmF, error) {
	return hostResample(samples, originalSr, targetSr)
}

func (HostResampler) Upsample(samples []PcmF, originalSr, targetSr int) ([]PcmF, error) {
	return hostResample(samples, originalSr, targetSr)
}

func hostResample(samples []PcmF, originalSr, targetSr int) ([]PcmF, error) {
	if originalSr <= 0 || targetSr <= 0 {
		return nil, fmt.Errorf("%w: sample rates must be positive", ErrInvalidInput)
	}

	if len(samples) == 0 {
		return nil, nil
	}

	in := make([]float64, len(samples))
	for i, s := range samples {
		in[i] = float64(s)
	}

	out, err := resampling.ResampleMono(in, float64(originalSr), float64(targetSr), resampling.QualityHigh)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResamplerUnavailable, err)
	}

	result := make([]PcmF, len(out))
	for i, v := range out {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}

		result[i] = PcmF(v)
	}

	return result, nil
}
