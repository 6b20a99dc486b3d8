package brr

import "fmt"

// Split converts a stereo signal into its Mid/Side representation:
// M[i] = (L[i]+R[i])/2, S[i] = (L[i]-R[i])/2.
func Split(stereo StereoF) (MidSide, error) {
	if stereo.L.Sr <= 0 || stereo.R.Sr <= 0 {
		return MidSide{}, fmt.Errorf("%w: sample rate must be positive", ErrInvalidInput)
	}

	if len(stereo.L.Samples) != len(stereo.R.Samples) {
		return MidSide{}, fmt.Errorf("%w: L/R length mismatch (%d vs %d)", ErrInvalidInput,
			len(stereo.L.Samples), len(stereo.R.Samples))
	}

	n := len(stereo.L.Samples)
	mid := make([]PcmF, n)
	side := make([]PcmF, n)

	for i := range n {
		l, r := stereo.L.Samples[i], stereo.R.Samples[i]
		mid[i] = (l + r) / 2
		side[i] = (l - r) / 2
	}

	sr := stereo.L.Sr

	return MidSide{
		Mid:  SignalF{Samples: mid, Sr: sr},
		Side: SignalF{Samples: side, Sr: sr},
	}, nil
}

// Recombine converts a Mid/Side pair back into stereo: L[i] = M[i]+S[i],
// R[i] = M[i]-S[i]. If Mid and Side differ in length (as can happen after
// independently resampling each to its own target rate), the shorter
// signal is treated as zero-padded on the right and the output length is
// the longer of the two.
func Recombine(ms MidSide) (StereoF, error) {
	mid, side := ms.Mid, ms.Side

	sr := mid.Sr
	if sr <= 0 {
		sr = side.Sr
	}

	if sr <= 0 {
		return StereoF{}, fmt.Errorf("%w: sample rate must be positive", ErrInvalidInput)
	}

	n := len(mid.Samples)
	if len(side.Samples) > n {
		n = len(side.Samples)
	}

	l := make([]PcmF, n)
	r := make([]PcmF, n)

	for i := range n {
		var m, s PcmF
		if i < len(mid.Samples) {
			m = mid.Samples[i]
		}

		if i < len(side.Samples) {
			s = side.Samples[i]
		}

		l[i] = m + s
		r[i] = m - s
	}

	return StereoF{
		L:  SignalF{Samples: l, Sr: sr},
		R:  SignalF{Samples: r, Sr: sr},
		Sr: sr,
	}, nil
}

// normalizeTarget is the peak ceiling enforced by NormalizeCoupled.
const normalizeTarget = 0.95

// NormalizeCoupled scales Mid and Side by an identical gain so that
// max(max|M|, max|S|) <= 0.95. If the combined peak is already at or below
// 0.95 the pair is returned unchanged, with multiplier 1. The identical
// gain on both signals preserves the M:S ratio, and hence the stereo
// image, unlike an independent per-channel normalization.
func NormalizeCoupled(ms MidSide) (MidSide, float64) {
	peak := 0.0
	for _, v := range ms.Mid.Samples {
		if a := absF(v); a > peak {
			peak = a
		}
	}

	for _, v := range ms.Side.Samples {
		if a := absF(v); a > peak {
			peak = a
		}
	}

	if peak <= normalizeTarget || peak == 0 {
		return ms, 1
	}

	gain := normalizeTarget / peak

	mid := make([]PcmF, len(ms.Mid.Samples))
	for i, v := range ms.Mid.Samples {
		mid[i] = v * PcmF(gain)
	}

	side := make([]PcmF, len(ms.Side.Samples))
	for i, v := range ms.Side.Samples {
		side[i] = v * PcmF(gain)
	}

	return MidSide{
		Mid:  SignalF{Samples: mid, Sr: ms.Mid.Sr},
		Side: SignalF{Samples: side, Sr: ms.Side.Sr},
	}, gain
}

func absF(v PcmF) float64 {
	f := float64(v)
	if f < 0 {
		return -f
	}

	return f
}
