// Package errs defines the sentinel errors shared by every chartdata package.
//
// Errors are wrapped with additional context using fmt.Errorf("%w: ...") so callers
// should compare with errors.Is rather than equality.
package errs

import "errors"

// Usage errors.
var (
	// ErrIndexOutOfRange is returned (or panicked with) when a row index is outside [0, Count).
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNotSupportedOnFifo is returned by structural edits on a fifo (circular) backing.
	ErrNotSupportedOnFifo = errors.New("operation not supported on a fifo buffer")
	// ErrYValueCount is returned when the number of Y values does not match the series role.
	ErrYValueCount = errors.New("invalid number of y values for series type")
	// ErrColumnLengthMismatch is returned when parallel input slices have different lengths.
	ErrColumnLengthMismatch = errors.New("column lengths do not match")
	// ErrInvalidCapacity is returned for negative or zero fifo capacities where one is required.
	ErrInvalidCapacity = errors.New("invalid fifo capacity")
	// ErrInvalidSeriesType is returned for an unknown series type.
	ErrInvalidSeriesType = errors.New("invalid series type")
	// ErrInvalidColumnIndex is returned when a Y column index does not exist for the series role.
	ErrInvalidColumnIndex = errors.New("invalid y column index")
	// ErrNilArgument is returned when a required argument is nil.
	ErrNilArgument = errors.New("required argument is nil")
)

// Snapshot errors.
var (
	// ErrInvalidSnapshot is returned when snapshot bytes are truncated or malformed.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	// ErrSnapshotVersion is returned for a snapshot written by an unsupported format version.
	ErrSnapshotVersion = errors.New("unsupported snapshot version")
	// ErrChecksumMismatch is returned when the payload checksum does not match the header.
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")
	// ErrSeriesTypeMismatch is returned when restoring a snapshot into a different series role.
	ErrSeriesTypeMismatch = errors.New("series type mismatch")
	// ErrNumericTypeMismatch is returned when the snapshot's numeric kind (integer/floating)
	// differs from the requested element type.
	ErrNumericTypeMismatch = errors.New("numeric type mismatch")
)
