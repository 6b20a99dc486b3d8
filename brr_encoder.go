package brr

import "math"

// oobPenalty is added to a trial's MSE whenever its reconstructed sample
// falls outside the int16 range, discouraging (but not disqualifying) that
// candidate in the search.
const oobPenalty = 1e12

// EncodeOptions configures the BRR encoder. The zero value is valid.
type EncodeOptions struct {
	// OnOutOfRange, if set, is called once per block whose winning trial
	// produced an out-of-int16-range reconstruction before wrapping. This
	// is diagnostic only; the encoder always proceeds.
	OnOutOfRange func(blockIndex int)
}

// EncodeBrr converts float PCM into a BRR stream, starting from the given
// predictor state (zero at the start of a fresh stream). It performs a
// brute-force 13x4 parameter search per 16-sample block and returns the
// final predictor state so callers can chain subsequent calls with
// continuous state.
func EncodeBrr(samples []PcmF, state PredState, opts EncodeOptions) (BrrStream, PredState) {
	if len(samples) == 0 {
		return BrrStream{}, state
	}

	pcm := make([]int16, len(samples))
	for i, s := range samples {
		pcm[i] = clamp16(float64(s) * 32767)
	}

	// Zero-pad to a multiple of 16.
	if rem := len(pcm) % 16; rem != 0 {
		pcm = append(pcm, make([]int16, 16-rem)...)
	}

	numBlocks := len(pcm) / 16
	blocks := make([]BrrBlock, numBlocks)

	for b := range numBlocks {
		var block [16]int16
		copy(block[:], pcm[b*16:b*16+16])

		bestMSE := math.Inf(1)
		bestShift, bestFilter := uint8(0), uint8(0)
		haveCandidate := false

		for shift := uint8(0); shift <= 12; shift++ {
			for filter := uint8(0); filter <= 3; filter++ {
				mse, _, _, _ := trialEncode(block, shift, filter, state, false)
				if mse < bestMSE {
					bestMSE = mse
					bestShift = shift
					bestFilter = filter
					haveCandidate = true
				}
			}
		}

		if !haveCandidate {
			// Unreachable under real arithmetic; guarded with a
			// deterministic fallback.
			bestShift, bestFilter = 0, 0
		}

		_, data, newState, oob := trialEncode(block, bestShift, bestFilter, state, true)
		if oob && opts.OnOutOfRange != nil {
			opts.OnOutOfRange(b)
		}

		state = newState

		blocks[b] = BrrBlock{
			Shift:  bestShift,
			Filter: bestFilter,
			Data:   data,
		}
	}

	blocks[numBlocks-1].End = true

	return BrrStream{Blocks: blocks}, state
}

// trialEncode runs the per-sample ADPCM quantization over one 16-sample
// block for a candidate (shift, filter). When writeMode is
// false, only the MSE is meaningful (data is left unpacked); this is the
// cheap path used 52 times per block during the search. When writeMode is
// true the packed nibble data is produced as well.
func trialEncode(block [16]int16, shift, filter uint8, state PredState, writeMode bool) (mse float64, data [8]byte, newState PredState, oob bool) {
	p1, p2 := state.P1, state.P2
	step := int64(1) << shift

	var errAcc float64

	for i, pcmSample := range block {
		pred := predict(filter, p1, p2)
		vlin := asr(int64(pred), 1)

		diff := asr(int64(pcmSample), 1) - vlin

		absDiff := diff
		if absDiff < 0 {
			absDiff = -absDiff
		}

		if absDiff > 16384 && absDiff < 32768 {
			if diff > 0 {
				diff -= 32768
			} else {
				diff += 32768
			}
		}

		d := diff + (step << 2) + (step >> 2)

		var c int64
		if d > 0 {
			if step > 1 {
				c = d / (step / 2)
			} else {
				c = d * 2
			}

			if c > 15 {
				c = 15
			}
		}

		nibble := c - 8
		lowNibble := byte(nibble & 0x0F)

		dp := asr(nibble<<shift, 1)
		half := vlin + dp
		clampedHalf := clamp16(float64(half))
		recon := int64(clampedHalf) * 2

		if recon > 32767 || recon < -32768 {
			errAcc += oobPenalty
			oob = true
		}

		wrappedRecon := wrap16(recon)

		delta := float64(pcmSample) - float64(wrappedRecon)
		errAcc += delta * delta

		p2 = p1
		p1 = wrappedRecon

		if writeMode {
			byteIdx := i / 2
			if i%2 == 0 {
				data[byteIdx] = (data[byteIdx] & 0x0F) | (lowNibble << 4)
			} else {
				data[byteIdx] = (data[byteIdx] & 0xF0) | lowNibble
			}
		}
	}

	mse = errAcc / 16
	newState = PredState{P1: p1, P2: p2}

	return mse, data, newState, oob
}
