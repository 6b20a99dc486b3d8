package brr

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
)

// WAV container byte layout: standard little-endian RIFF/WAVE PCM
// integer, mono or stereo, 16 bits/sample. This is a stable external
// interface boundary, not part of the codec core proper; it exists so a
// caller can get PCM in and out of the pipeline without depending on a
// separate container library for the common case.
//
// PCM crosses this boundary as an *audio.Float32Buffer (interleaved,
// [-1,1]-normalized samples plus an audio.Format).

const wavBitsPerSample = 16

// WriteWav writes an interleaved float PCM buffer as a 16-bit PCM WAV
// file. Float samples are clamped to [-1, 1] and scaled:
// s < 0 ? s*32768 : s*32767.
func WriteWav(w io.Writer, buf *audio.Float32Buffer) error {
	if buf == nil || buf.Format == nil {
		return fmt.Errorf("%w: buffer and format must be set", ErrInvalidInput)
	}

	numChans := buf.Format.NumChannels
	sampleRate := buf.Format.SampleRate

	if numChans <= 0 {
		return fmt.Errorf("%w: channel count must be positive", ErrInvalidInput)
	}

	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive", ErrInvalidInput)
	}

	if len(buf.Data)%numChans != 0 {
		return fmt.Errorf("%w: interleaved data length %d is not a multiple of %d channels",
			ErrInvalidInput, len(buf.Data), numChans)
	}

	n := len(buf.Data) / numChans
	blockAlign := numChans * (wavBitsPerSample / 8)
	byteRate := sampleRate * blockAlign
	dataSize := n * blockAlign

	if err := writeLE(w, riff.RiffID); err != nil {
		return err
	}

	if err := writeLE(w, uint32(36+dataSize)); err != nil {
		return err
	}

	if err := writeLE(w, riff.WavFormatID); err != nil {
		return err
	}

	if err := writeLE(w, riff.FmtID); err != nil {
		return err
	}

	if err := writeLE(w, uint32(16)); err != nil {
		return err
	}

	if err := writeLE(w, uint16(1)); err != nil { // PCM
		return err
	}

	if err := writeLE(w, uint16(numChans)); err != nil {
		return err
	}

	if err := writeLE(w, uint32(sampleRate)); err != nil {
		return err
	}

	if err := writeLE(w, uint32(byteRate)); err != nil {
		return err
	}

	if err := writeLE(w, uint16(blockAlign)); err != nil {
		return err
	}

	if err := writeLE(w, uint16(wavBitsPerSample)); err != nil {
		return err
	}

	if err := writeLE(w, riff.DataFormatID); err != nil {
		return err
	}

	if err := writeLE(w, uint32(dataSize)); err != nil {
		return err
	}

	frame := make([]int16, numChans)

	for i := range n {
		for c := range numChans {
			frame[c] = floatToPCM16(buf.Data[i*numChans+c])
		}

		if err := writeLE(w, frame); err != nil {
			return fmt.Errorf("failed to write frame %d: %w", i, err)
		}
	}

	return nil
}

func floatToPCM16(s PcmF) int16 {
	v := float64(s)

	switch {
	case v > 1:
		v = 1
	case v < -1:
		v = -1
	}

	if v < 0 {
		return int16(v * 32768)
	}

	return int16(v * 32767)
}

func writeLE(w io.Writer, v any) error {
	return binary.Write(w, binary.LittleEndian, v)
}

// ReadWav reads a 16-bit integer PCM WAV file and returns it as an
// interleaved *audio.Float32Buffer in [-1, 1], with SourceBitDepth set
// to 16. Only PCM format (no compression) and 16-bit depth are
// supported.
func ReadWav(r io.Reader) (*audio.Float32Buffer, error) {
	parser := riff.New(r)

	id, size, err := parser.IDnSize()
	if err != nil {
		return nil, fmt.Errorf("failed to read RIFF header: %w", err)
	}

	parser.ID = id
	parser.Size = size

	if parser.ID != riff.RiffID {
		return nil, fmt.Errorf("%w: not a RIFF file", ErrInvalidInput)
	}

	if err := binary.Read(r, binary.BigEndian, &parser.Format); err != nil {
		return nil, fmt.Errorf("failed to read WAVE format: %w", err)
	}

	var (
		numChans  uint16
		bitDepth  uint16
		gotFmt    bool
		dataBytes []byte
		gotData   bool
	)

	for !gotFmt || !gotData {
		chunk, err := parser.NextChunk()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, fmt.Errorf("failed to read chunk: %w", err)
		}

		switch chunk.ID {
		case riff.FmtID:
			var (
				formatTag      uint16
				avgBytesPerSec uint32
				blockAlign     uint16
			)

			if err := chunk.ReadLE(&formatTag); err != nil {
				return nil, fmt.Errorf("failed to read format tag: %w", err)
			}

			if err := chunk.ReadLE(&numChans); err != nil {
				return nil, fmt.Errorf("failed to read channel count: %w", err)
			}

			if err := chunk.ReadLE(&parser.SampleRate); err != nil {
				return nil, fmt.Errorf("failed to read sample rate: %w", err)
			}

			if err := chunk.ReadLE(&avgBytesPerSec); err != nil {
				return nil, fmt.Errorf("failed to read byte rate: %w", err)
			}

			if err := chunk.ReadLE(&blockAlign); err != nil {
				return nil, fmt.Errorf("failed to read block align: %w", err)
			}

			if err := chunk.ReadLE(&bitDepth); err != nil {
				return nil, fmt.Errorf("failed to read bit depth: %w", err)
			}

			if formatTag != 1 {
				return nil, fmt.Errorf("%w: unsupported WAV format tag %d", ErrInvalidInput, formatTag)
			}

			if bitDepth != wavBitsPerSample {
				return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidInput, bitDepth)
			}

			chunk.Drain()

			gotFmt = true

		case riff.DataFormatID:
			dataBytes = make([]byte, chunk.Size)

			if _, err := io.ReadFull(chunk.R, dataBytes); err != nil {
				return nil, fmt.Errorf("failed to read PCM data: %w", err)
			}

			gotData = true

		default:
			chunk.Drain()
		}
	}

	if !gotFmt || !gotData {
		return nil, fmt.Errorf("%w: missing fmt or data chunk", ErrInvalidInput)
	}

	if numChans == 0 {
		return nil, fmt.Errorf("%w: zero channels", ErrInvalidInput)
	}

	bytesPerSample := wavBitsPerSample / 8
	frameSize := int(numChans) * bytesPerSample
	numFrames := len(dataBytes) / frameSize

	data := make([]float32, numFrames*int(numChans))

	for f := range numFrames {
		base := f * frameSize
		for c := range int(numChans) {
			off := base + c*bytesPerSample
			raw := int16(binary.LittleEndian.Uint16(dataBytes[off : off+2]))
			data[f*int(numChans)+c] = pcm16ToFloat(raw)
		}
	}

	return &audio.Float32Buffer{
		Data: data,
		Format: &audio.Format{
			NumChannels: int(numChans),
			SampleRate:  int(parser.SampleRate),
		},
		SourceBitDepth: wavBitsPerSample,
	}, nil
}

func pcm16ToFloat(s int16) PcmF {
	return PcmF(s) / 32768.0
}
