// Package brr implements a stereo Mid/Side BRR (Bit Rate Reduction) codec
// pipeline targeting the SNES SPC700's native ADPCM format.
//
// The pipeline stages are, in order:
//
//   - MidSide split and coupled peak normalization (midside.go)
//   - windowed-sinc FIR downsampling, with a host-resampler fallback for
//     higher target rates (resampler.go, hostresampler.go)
//   - brute-force BRR block encoding (brr_encoder.go) and the inverse
//     SPC700 decode path, including the optional Gauss output filter
//     (brr_decoder.go, gauss.go)
//
// Pipeline wires the stages together and is the only exported entry point
// most callers need; the individual stages remain independently usable and
// independently testable.
//
// The WAV container byte layout (wav.go) is a stable external interface:
// mono/stereo 16-bit integer PCM only, no metadata chunks, no compression.
package brr
