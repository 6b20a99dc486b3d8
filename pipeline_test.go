package brr

import (
	"context"
	"testing"
)

func makeStereo(n, sr int, l, r PcmF) StereoF {
	ls := make([]PcmF, n)
	rs := make([]PcmF, n)

	for i := range n {
		ls[i] = l
		rs[i] = r
	}

	return StereoF{
		L:  SignalF{Samples: ls, Sr: sr},
		R:  SignalF{Samples: rs, Sr: sr},
		Sr: sr,
	}
}

func TestPipelineSilence(t *testing.T) {
	stereo := makeStereo(44100, 44100, 0, 0)

	p, err := NewPipeline(Config{MidTargetSr: 32000, SideTargetSr: 4000}, nil)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	result, err := p.Encode(context.Background(), stereo)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	for _, stream := range []BrrStream{result.Mid, result.Side} {
		pcm := DecodeBrrInt16(stream)
		for i, v := range pcm {
			if v != 0 {
				t.Fatalf("sample %d is %d, want 0 for silence", i, v)
			}
		}

		endCount := 0

		for i, blk := range stream.Blocks {
			if blk.End {
				endCount++

				if i != len(stream.Blocks)-1 {
					t.Fatalf("END not on last block")
				}
			}
		}

		if endCount != 1 {
			t.Fatalf("expected exactly one END block, got %d", endCount)
		}
	}
}

func TestPipelineImpulseLeftOnly(t *testing.T) {
	sr := 44100
	n := sr * 2

	l := make([]PcmF, n)
	r := make([]PcmF, n)
	l[0] = 1.0

	stereo := StereoF{
		L:  SignalF{Samples: l, Sr: sr},
		R:  SignalF{Samples: r, Sr: sr},
		Sr: sr,
	}

	ms, err := Split(stereo)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	if ms.Mid.Samples[0] != 0.5 || ms.Side.Samples[0] != 0.5 {
		t.Fatalf("M[0]=%v S[0]=%v, want 0.5/0.5", ms.Mid.Samples[0], ms.Side.Samples[0])
	}

	normalized, gain := NormalizeCoupled(ms)
	if gain != 1 {
		t.Fatalf("expected no normalization for peak 0.5, got gain %v", gain)
	}

	if normalized.Mid.Samples[0] != 0.5 {
		t.Fatalf("normalized M[0]=%v, want unchanged 0.5", normalized.Mid.Samples[0])
	}

	p, err := NewPipeline(Config{MidTargetSr: 32000, SideTargetSr: 32000}, nil)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	result, err := p.Encode(context.Background(), stereo)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	recon, err := p.Decode(context.Background(), result, sr)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	peakL, peakR := PcmF(0), PcmF(0)
	for i := range recon.L.Samples {
		if a := absPcm(recon.L.Samples[i]); a > peakL {
			peakL = a
		}

		if a := absPcm(recon.R.Samples[i]); a > peakR {
			peakR = a
		}
	}

	if peakL <= peakR {
		t.Fatalf("expected reconstructed L peak (%v) > R peak (%v)", peakL, peakR)
	}
}

func TestPipelineClippingPrevention(t *testing.T) {
	sr := 44100
	n := sr / 10

	l := make([]PcmF, n)
	r := make([]PcmF, n)

	for i := range n {
		l[i] = 0.99
		r[i] = 0.99
	}

	stereo := StereoF{L: SignalF{Samples: l, Sr: sr}, R: SignalF{Samples: r, Sr: sr}, Sr: sr}

	ms, err := Split(stereo)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	for i := range ms.Mid.Samples {
		if absPcm(ms.Mid.Samples[i]-0.99) > 1e-6 {
			t.Fatalf("M[%d]=%v, want 0.99", i, ms.Mid.Samples[i])
		}

		if ms.Side.Samples[i] != 0 {
			t.Fatalf("S[%d]=%v, want 0", i, ms.Side.Samples[i])
		}
	}

	normalized, gain := NormalizeCoupled(ms)

	wantGain := 0.95 / 0.99
	if absPcm(PcmF(gain)-PcmF(wantGain)) > 1e-6 {
		t.Fatalf("gain=%v, want %v", gain, wantGain)
	}

	peak := PcmF(0)
	for _, v := range normalized.Mid.Samples {
		if a := absPcm(v); a > peak {
			peak = a
		}
	}

	if absPcm(peak-0.95) > 1e-4 {
		t.Fatalf("normalized peak=%v, want ~0.95", peak)
	}

	for _, v := range normalized.Side.Samples {
		if v != 0 {
			t.Fatalf("side should stay zero, got %v", v)
		}
	}
}

func TestPipelineRejectsInvalidConfig(t *testing.T) {
	if _, err := NewPipeline(Config{MidTargetSr: 0, SideTargetSr: 4000}, nil); err == nil {
		t.Fatal("expected error for zero MidTargetSr")
	}

	if _, err := NewPipeline(Config{MidTargetSr: 32000, SideTargetSr: -1}, nil); err == nil {
		t.Fatal("expected error for negative SideTargetSr")
	}
}

func TestPipelineEncodeDecodeRoundTripsLength(t *testing.T) {
	stereo := makeStereo(16000, 44100, 0.3, -0.1)

	p, err := NewPipeline(Config{MidTargetSr: 16000, SideTargetSr: 16000, GaussOnDecode: true}, nil)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	result, err := p.Encode(context.Background(), stereo)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	recon, err := p.Decode(context.Background(), result, 44100)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(recon.L.Samples) == 0 || len(recon.R.Samples) == 0 {
		t.Fatal("expected non-empty reconstructed stereo output")
	}

	if len(recon.L.Samples) != len(recon.R.Samples) {
		t.Fatalf("L/R length mismatch after recombine: %d vs %d", len(recon.L.Samples), len(recon.R.Samples))
	}
}

func TestPipelineEncodeCanceledContext(t *testing.T) {
	stereo := makeStereo(1000, 44100, 0.1, 0.1)

	p, err := NewPipeline(Config{MidTargetSr: 16000, SideTargetSr: 16000}, nil)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Encode(ctx, stereo)
	if err == nil {
		t.Fatal("expected error when context is already canceled")
	}
}
