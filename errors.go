package brr

import "errors"

// Sentinel errors for the codec pipeline's error kinds.
var (
	// ErrInvalidInput covers non-stereo input to split, empty buffers where
	// disallowed, and non-positive sample rates.
	ErrInvalidInput = errors.New("brr: invalid input")

	// ErrResamplerUnavailable is returned by a host resampler adapter when
	// the underlying library declines a rate. The router recovers by
	// falling back to the internal FIR path; callers of Pipeline should
	// not normally observe this error.
	ErrResamplerUnavailable = errors.New("brr: host resampler unavailable")

	// ErrEmptyStream is returned when a BRR stream operation requires at
	// least one block (e.g. locating the END block) but the stream is
	// empty.
	ErrEmptyStream = errors.New("brr: empty BRR stream")
)
