// Package errs defines the sentinel errors shared across the rv module.
//
// Errors fall into four kinds, mirroring the propagation policy the batch
// tools rely on:
//
//   - IO and FormatViolation are recoverable at the per-archive boundary:
//     callers report them alongside the offending file path and continue
//     with the remaining archives.
//   - InvariantViolation and PreconditionViolation indicate a programming
//     or data-corruption bug. Most of these surface as panics rather than
//     error values, because the functions that can raise them (RadarGrid.ForArea)
//     have no error return in their contract; callers MUST NOT attempt to
//     recover from them except to abort the offending worker.
package errs

import "errors"

// IO errors: open/read/metadata failures, bz2/tar decoding failures.
var (
	ErrIO               = errors.New("rv: io error")
	ErrMalformedArchive = errors.New("rv: malformed bz2/tar framing")
)

// FormatViolation errors: unexpected header values, disagreeing per-frame
// times, wrong entry counts, truncated bodies.
var (
	ErrUnexpectedHeaderField   = errors.New("rv: unexpected header field value")
	ErrUnknownRecordIdentifier = errors.New("rv: unknown record identifier")
	ErrTimeMismatch            = errors.New("rv: disagreeing per-frame timestamps")
	ErrWrongEntryCount         = errors.New("rv: wrong number of archive entries")
	ErrTruncatedBody           = errors.New("rv: truncated binary body")
)

// ErrPayloadIndexOverflow is an InvariantViolation: a value that should be
// structurally impossible in a well-formed encode/decode pipeline.
// ErrDictTrainingUnavailable reports a build without cgo zstd, and
// ErrInvalidBuffer a malformed encoded buffer passed to sparse.Open.
var (
	ErrPayloadIndexOverflow    = errors.New("rv: payload index would exceed 0x7FFE")
	ErrDictTrainingUnavailable = errors.New("rv: dictionary training requires a cgo zstd build")
	ErrInvalidBuffer           = errors.New("rv: malformed sparse buffer")
)

// PreconditionViolation errors surfaced as errors instead of panics, for
// entry points (sparse.Encode) that already return an error.
var (
	ErrWrongTimeSlotCount = errors.New("rv: grid does not expose exactly 25 time slots")
)
