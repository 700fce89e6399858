// Package errs defines the sentinel errors returned by gridcodec packages.
//
// Callers should compare with errors.Is; call sites wrap these values with
// additional context using fmt.Errorf and the %w verb.
package errs

import "errors"

// Grid and mask errors.
var (
	// ErrOutOfBounds is returned when a (row, col) coordinate falls outside the fixed grid shape.
	ErrOutOfBounds = errors.New("cell coordinate out of bounds")
	// ErrInvalidShape is returned when a grid is created with non-positive dimensions.
	ErrInvalidShape = errors.New("invalid grid shape")
	// ErrInvalidCategory is returned for an unknown cell classification code.
	ErrInvalidCategory = errors.New("invalid cell category")
	// ErrEmptyMask is returned when an index is requested for a mask without active cells.
	ErrEmptyMask = errors.New("mask has no active cells")
	// ErrShapeMismatch is returned when two grid artifacts disagree on shape.
	ErrShapeMismatch = errors.New("grid shape mismatch")
)

// Decode errors. All of them are detected before any decoded value is returned.
var (
	ErrInvalidHeaderSize   = errors.New("invalid header size")
	ErrInvalidMagicNumber  = errors.New("invalid magic number")
	ErrInvalidHeaderFlags  = errors.New("invalid header flags")
	ErrCorruptIndex        = errors.New("corrupt active-cell index")
	ErrLengthMismatch      = errors.New("payload length mismatch")
	ErrMalformedStructure  = errors.New("malformed structure")
	ErrNonMonotonicTime    = errors.New("timestamps are not strictly increasing")
	ErrValueOutOfRange     = errors.New("value out of range for data kind")
	ErrUnsupportedDataKind = errors.New("unsupported data kind")
)

// Store errors.
var (
	// ErrStaleIndex is returned when a layer is paired with an index that no longer matches the mask.
	ErrStaleIndex = errors.New("active-cell index is stale")
	// ErrInvalidState is returned when a store operation is not allowed in the current state.
	ErrInvalidState = errors.New("operation not allowed in current state")
	// ErrUnknownLayer is returned when a layer name is not registered.
	ErrUnknownLayer = errors.New("unknown layer")
	// ErrArtifactNotFound is returned by backends for a missing artifact.
	ErrArtifactNotFound = errors.New("artifact not found")
	// ErrChecksumMismatch is returned when an artifact does not match its manifest checksum.
	ErrChecksumMismatch = errors.New("artifact checksum mismatch")
)
