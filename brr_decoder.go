package brr

// DecodeOptions configures the BRR decoder.
type DecodeOptions struct {
	// Gauss applies the three-tap SPC700 output filter (gauss.go) to the
	// decoded float PCM before it is returned.
	Gauss bool
}

// DecodeBrr reconstructs int16 PCM from a BRR stream, following the
// SPC700 decode path exactly: per-nibble sign extension, the shift-13..15
// hardware quirk, 16-bit saturation after prediction, and the narrow-range
// 15-bit wrap before the sample is carried into predictor history. Output
// length is always len(blocks)*16.
func DecodeBrr(stream BrrStream, opts DecodeOptions) []PcmF {
	pcm := DecodeBrrInt16(stream)

	out := make([]PcmF, len(pcm))
	for i, s := range pcm {
		out[i] = PcmF(s) / 32768.0
	}

	if opts.Gauss {
		out = GaussFilter(out)
	}

	return out
}

// DecodeBrrInt16 is DecodeBrr without the final int16->float conversion or
// Gauss post-filter, exposed separately because the predictor history and
// the 15-bit wrap only make sense in the integer domain.
func DecodeBrrInt16(stream BrrStream) []int16 {
	out := make([]int16, 0, len(stream.Blocks)*16)

	var p1, p2 int16

	for _, blk := range stream.Blocks {
		for _, raw := range blk.Data {
			hi := int16(raw>>4) & 0x0F
			lo := int16(raw) & 0x0F

			for _, nibble := range [2]int16{hi, lo} {
				signed := nibble
				if signed&0x08 != 0 {
					signed -= 16
				}

				var sample int64
				if blk.Shift <= 12 {
					sample = asr(int64(signed)<<blk.Shift, 1)
				} else if signed < 0 {
					sample = -2048
				} else {
					sample = 2048
				}

				sample += int64(predict(blk.Filter, p1, p2))

				s16 := clamp16(float64(sample))

				// 15-bit wrap: the narrow-range post-clamp wrap unique
				// to the SPC700 decode path.
				wrapped := int64(s16)
				if wrapped > 16383 {
					wrapped -= 32768
				} else if wrapped < -16384 {
					wrapped += 32768
				}

				p2 = p1
				p1 = int16(wrapped)

				out = append(out, wrap16(int64(p1)*2))
			}
		}
	}

	return out
}
