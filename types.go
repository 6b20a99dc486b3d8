package brr

// Pcm16 is a 16-bit signed PCM sample in [-32768, 32767].
type Pcm16 = int16

// PcmF is a 32-bit floating point PCM sample, nominally in [-1, 1].
type PcmF = float32

// SignalF is a mono floating point signal at a fixed sample rate.
type SignalF struct {
	Samples []PcmF
	Sr      int
}

// StereoF is a pair of equal-length mono signals sharing a sample rate.
type StereoF struct {
	L, R SignalF
	Sr   int
}

// MidSide is a matched-length decorrelated Mid/Side pair.
type MidSide struct {
	Mid, Side SignalF
}

// BrrBlock is one 9-byte BRR block: a 1-byte header followed by 8 bytes of
// packed 4-bit ADPCM residuals (16 samples).
type BrrBlock struct {
	Shift  uint8 // 0..12 on encode; 13..15 only ever seen on decode of foreign data
	Filter uint8 // 0..3
	Loop   bool
	End    bool
	Data   [8]byte
}

// Header packs the block's header byte: shift[7:4] | filter[3:2] | loop[1] | end[0].
func (b BrrBlock) Header() byte {
	h := (b.Shift&0x0F)<<4 | (b.Filter&0x03)<<2
	if b.Loop {
		h |= 0x02
	}

	if b.End {
		h |= 0x01
	}

	return h
}

// Bytes serializes the block to its 9-byte on-disk representation.
func (b BrrBlock) Bytes() [9]byte {
	var out [9]byte
	out[0] = b.Header()
	copy(out[1:], b.Data[:])

	return out
}

// ParseBrrBlock decodes a 9-byte block back into its header fields and data.
func ParseBrrBlock(raw [9]byte) BrrBlock {
	header := raw[0]

	b := BrrBlock{
		Shift:  (header >> 4) & 0x0F,
		Filter: (header >> 2) & 0x03,
		Loop:   header&0x02 != 0,
		End:    header&0x01 != 0,
	}
	copy(b.Data[:], raw[1:])

	return b
}

// BrrStream is an ordered list of BrrBlock associated with the sample rate
// of the PCM it was encoded from (or decodes to).
type BrrStream struct {
	Blocks []BrrBlock
	Sr     int
}

// Bytes concatenates every block into the flat on-disk BRR byte layout.
func (s BrrStream) Bytes() []byte {
	out := make([]byte, 0, len(s.Blocks)*9)
	for _, blk := range s.Blocks {
		raw := blk.Bytes()
		out = append(out, raw[:]...)
	}

	return out
}

// ParseBrrStream splits a flat BRR byte buffer into blocks. Trailing bytes
// that don't make up a full 9-byte block are ignored.
func ParseBrrStream(data []byte, sr int) BrrStream {
	n := len(data) / 9

	blocks := make([]BrrBlock, n)
	for i := range blocks {
		var raw [9]byte
		copy(raw[:], data[i*9:i*9+9])
		blocks[i] = ParseBrrBlock(raw)
	}

	return BrrStream{Blocks: blocks, Sr: sr}
}

// PredState is the two-sample predictor history carried between consecutive
// BRR blocks. It is zero at the start of a stream.
type PredState struct {
	P1, P2 int16
}
