package brr

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Config enumerates the pipeline's external configuration: the
// independent Mid/Side target sample rates and whether the decode path
// applies the Gauss output filter. There are no environment variables and
// no persisted state in the core.
type Config struct {
	MidTargetSr   int
	SideTargetSr  int
	GaussOnDecode bool

	// OnNormalize, if set, is called once per Encode with the gain
	// NormalizeCoupled actually applied (1 if no scaling occurred). This
	// is an optional logging hook.
	OnNormalize func(gain float64)
}

func (c Config) validate() error {
	if c.MidTargetSr <= 0 {
		return fmt.Errorf("%w: MidTargetSr must be positive", ErrInvalidInput)
	}

	if c.SideTargetSr <= 0 {
		return fmt.Errorf("%w: SideTargetSr must be positive", ErrInvalidInput)
	}

	return nil
}

// Pipeline wires the Mid/Side transform, the resampler, and the BRR codec
// into the full stereo encode/decode path.
type Pipeline struct {
	cfg    Config
	resamp Resampler
}

// NewPipeline builds a Pipeline. host may be nil, in which case the
// router always uses the internal FIR downsampler/upsampler regardless of
// target rate.
func NewPipeline(cfg Config, host Resampler) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Pipeline{cfg: cfg, resamp: NewRouter(host)}, nil
}

// EncodeResult is the primary output of Pipeline.Encode.
type EncodeResult struct {
	Mid, Side BrrStream
}

// Encode runs stereo PCM through split -> coupled normalize -> downsample
// -> BRR encode, processing Mid and Side concurrently since the two
// paths share no mutable state after the split. If either side fails or
// ctx is canceled, the other is aborted and no partial result is
// returned.
func (p *Pipeline) Encode(ctx context.Context, stereo StereoF) (EncodeResult, error) {
	ms, err := Split(stereo)
	if err != nil {
		return EncodeResult{}, err
	}

	normalized, gain := NormalizeCoupled(ms)
	if p.cfg.OnNormalize != nil {
		p.cfg.OnNormalize(gain)
	}

	eg, egCtx := errgroup.WithContext(ctx)

	var midStream, sideStream BrrStream

	eg.Go(func() error {
		stream, err := p.encodeChannel(egCtx, normalized.Mid, p.cfg.MidTargetSr)
		if err != nil {
			return fmt.Errorf("mid: %w", err)
		}

		midStream = stream

		return nil
	})

	eg.Go(func() error {
		stream, err := p.encodeChannel(egCtx, normalized.Side, p.cfg.SideTargetSr)
		if err != nil {
			return fmt.Errorf("side: %w", err)
		}

		sideStream = stream

		return nil
	})

	if err := eg.Wait(); err != nil {
		return EncodeResult{}, err
	}

	return EncodeResult{Mid: midStream, Side: sideStream}, nil
}

func (p *Pipeline) encodeChannel(ctx context.Context, sig SignalF, targetSr int) (BrrStream, error) {
	if err := ctx.Err(); err != nil {
		return BrrStream{}, err
	}

	down, err := p.resamp.Downsample(sig.Samples, sig.Sr, targetSr)
	if err != nil {
		return BrrStream{}, fmt.Errorf("downsample: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return BrrStream{}, err
	}

	stream, _ := EncodeBrr(down, PredState{}, EncodeOptions{})
	stream.Sr = targetSr

	return stream, nil
}

// Decode runs a Mid/Side BRR stream pair through BRR decode -> upsample ->
// optional Gauss -> recombine, reconstructing stereo PCM at hostSr.
// Mid and Side are decoded concurrently for the same reason as Encode.
func (p *Pipeline) Decode(ctx context.Context, enc EncodeResult, hostSr int) (StereoF, error) {
	if hostSr <= 0 {
		return StereoF{}, fmt.Errorf("%w: host sample rate must be positive", ErrInvalidInput)
	}

	eg, egCtx := errgroup.WithContext(ctx)

	var midSig, sideSig SignalF

	eg.Go(func() error {
		sig, err := p.decodeChannel(egCtx, enc.Mid, hostSr)
		if err != nil {
			return fmt.Errorf("mid: %w", err)
		}

		midSig = sig

		return nil
	})

	eg.Go(func() error {
		sig, err := p.decodeChannel(egCtx, enc.Side, hostSr)
		if err != nil {
			return fmt.Errorf("side: %w", err)
		}

		sideSig = sig

		return nil
	})

	if err := eg.Wait(); err != nil {
		return StereoF{}, err
	}

	return Recombine(MidSide{Mid: midSig, Side: sideSig})
}

func (p *Pipeline) decodeChannel(ctx context.Context, stream BrrStream, hostSr int) (SignalF, error) {
	if err := ctx.Err(); err != nil {
		return SignalF{}, err
	}

	pcm := DecodeBrr(stream, DecodeOptions{})

	if err := ctx.Err(); err != nil {
		return SignalF{}, err
	}

	up, err := p.resamp.Upsample(pcm, stream.Sr, hostSr)
	if err != nil {
		return SignalF{}, fmt.Errorf("upsample: %w", err)
	}

	if p.cfg.GaussOnDecode {
		up = GaussFilter(up)
	}

	return SignalF{Samples: up, Sr: hostSr}, nil
}
