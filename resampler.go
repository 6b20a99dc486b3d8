package brr

import (
	"fmt"
	"math"
	"sync"
)

// firTaps is the fixed windowed-sinc kernel length used by the internal
// downsampler.
const firTaps = 64

// hostResamplerThreshold is the router cutoff: target rates below this use
// the internal FIR path, at or above it the host resampler is used.
const hostResamplerThreshold = 8000

// firKernelCache memoizes generated kernels by (originalSr, targetSr,
// taps). It is safe to share read-only across goroutines.
var firKernelCache sync.Map // map[firKernelKey][]float64

type firKernelKey struct {
	originalSr, targetSr, taps int
}

// generateFIRKernel builds a normalized windowed-sinc low-pass kernel with
// cutoff targetSr/2. Results are memoized.
func generateFIRKernel(originalSr, targetSr, taps int) []float64 {
	key := firKernelKey{originalSr, targetSr, taps}
	if cached, ok := firKernelCache.Load(key); ok {
		return cached.([]float64)
	}

	fc := (float64(targetSr) / 2) / float64(originalSr)

	h := make([]float64, taps)
	center := float64(taps-1) / 2

	for i := range taps {
		x := float64(i) - center

		var sinc float64
		if x == 0 {
			sinc = 1
		} else {
			arg := 2 * math.Pi * fc * x
			sinc = math.Sin(arg) / arg
		}

		blackman := 0.42 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(taps-1)) +
			0.08*math.Cos(4*math.Pi*float64(i)/float64(taps-1))

		h[i] = sinc * blackman
	}

	sum := 0.0
	for _, v := range h {
		sum += v
	}

	if sum != 0 {
		for i := range h {
			h[i] /= sum
		}
	}

	firKernelCache.Store(key, h)

	return h
}

// convolve applies h as a linear convolution centered on each input
// sample, zero-padding both ends.
func convolve(x []PcmF, h []float64) []PcmF {
	n := len(x)
	taps := len(h)
	half := taps / 2

	out := make([]PcmF, n)

	for i := range n {
		var acc float64

		for j := range taps {
			srcIdx := i - half + j
			if srcIdx < 0 || srcIdx >= n {
				continue
			}

			acc += float64(x[srcIdx]) * h[j]
		}

		out[i] = PcmF(acc)
	}

	return out
}

// manualDownsample is the internal windowed-sinc FIR downsampler: filter
// then decimate by floor(i*ratio). Output length is always
// floor(len(x) * targetSr / originalSr).
func manualDownsample(x []PcmF, originalSr, targetSr int) []PcmF {
	if originalSr <= 0 || targetSr <= 0 || len(x) == 0 {
		return nil
	}

	h := generateFIRKernel(originalSr, targetSr, firTaps)
	filtered := convolve(x, h)

	ratio := float64(originalSr) / float64(targetSr)
	outLen := int(float64(len(x)) / ratio)

	out := make([]PcmF, outLen)
	for i := range out {
		srcIdx := int(float64(i) * ratio)
		if srcIdx >= len(filtered) {
			srcIdx = len(filtered) - 1
		}

		out[i] = filtered[srcIdx]
	}

	return out
}

// Resampler abstracts the two downsample/upsample implementations the
// pipeline can use: the internal FIR path and a host-provided resampler.
type Resampler interface {
	// Downsample converts samples from originalSr to targetSr, where
	// targetSr < originalSr.
	Downsample(samples []PcmF, originalSr, targetSr int) ([]PcmF, error)
	// Upsample converts samples from originalSr to targetSr, where
	// targetSr > originalSr, producing ceil(N*targetSr/originalSr)
	// samples.
	Upsample(samples []PcmF, originalSr, targetSr int) ([]PcmF, error)
}

// internalFIRResampler implements Resampler using only the windowed-sinc
// FIR path. Its Upsample is a simple linear interpolation: upsampling is
// preview-only here, and band-limiting quality is delegated to the host
// where one is available.
type internalFIRResampler struct{}

func (internalFIRResampler) Downsample(samples []PcmF, originalSr, targetSr int) ([]PcmF, error) {
	if originalSr <= 0 || targetSr <= 0 {
		return nil, fmt.Errorf("%w: sample rates must be positive", ErrInvalidInput)
	}

	return manualDownsample(samples, originalSr, targetSr), nil
}

func (internalFIRResampler) Upsample(samples []PcmF, originalSr, targetSr int) ([]PcmF, error) {
	if originalSr <= 0 || targetSr <= 0 {
		return nil, fmt.Errorf("%w: sample rates must be positive", ErrInvalidInput)
	}

	if len(samples) == 0 {
		return nil, nil
	}

	outLen := int(math.Ceil(float64(len(samples)) * float64(targetSr) / float64(originalSr)))
	out := make([]PcmF, outLen)

	ratio := float64(originalSr) / float64(targetSr)

	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := pos - float64(idx)

		a := samples[idx]

		b := a
		if idx+1 < len(samples) {
			b = samples[idx+1]
		}

		out[i] = a + PcmF(frac)*(b-a)
	}

	return out, nil
}

// routedResampler implements the router policy: Downsample targets below
// hostResamplerThreshold use the internal FIR path, everything else uses
// the supplied host resampler. Upsample ignores the threshold and always
// tries the host first. Either way, a host error falls back to the
// internal path. If host is nil, the internal path is used
// unconditionally.
type routedResampler struct {
	host Resampler
}

// NewRouter builds the Resampler the pipeline actually drives. host may be
// nil, in which case every target rate falls back to the internal FIR
// path.
func NewRouter(host Resampler) Resampler {
	return routedResampler{host: host}
}

func (r routedResampler) Downsample(samples []PcmF, originalSr, targetSr int) ([]PcmF, error) {
	if targetSr < hostResamplerThreshold || r.host == nil {
		return internalFIRResampler{}.Downsample(samples, originalSr, targetSr)
	}

	out, err := r.host.Downsample(samples, originalSr, targetSr)
	if err == nil {
		return out, nil
	}

	// ErrResamplerUnavailable recovery: fall back to the internal path.
	return internalFIRResampler{}.Downsample(samples, originalSr, targetSr)
}

func (r routedResampler) Upsample(samples []PcmF, originalSr, targetSr int) ([]PcmF, error) {
	if r.host == nil {
		return internalFIRResampler{}.Upsample(samples, originalSr, targetSr)
	}

	out, err := r.host.Upsample(samples, originalSr, targetSr)
	if err == nil {
		return out, nil
	}

	return internalFIRResampler{}.Upsample(samples, originalSr, targetSr)
}
