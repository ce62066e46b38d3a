package rman

import "github.com/meigma/rman/internal/rmantype"

// Sentinel errors re-exported from internal/rmantype.
var (
	// ErrTruncated is returned when the input ends inside a fixed-size header field.
	ErrTruncated = rmantype.ErrTruncated

	// ErrInvalidHeader is returned when a complete header fails validation.
	ErrInvalidHeader = rmantype.ErrInvalidHeader

	// ErrSizeOverflow is returned when a size exceeds supported or configured limits.
	ErrSizeOverflow = rmantype.ErrSizeOverflow

	// ErrDecompression is returned when decompression fails or yields the wrong length.
	ErrDecompression = rmantype.ErrDecompression

	// ErrInvalidTable is returned when the manifest payload fails structural validation.
	ErrInvalidTable = rmantype.ErrInvalidTable

	// ErrUnresolved is returned when a file references a missing directory or chunk.
	ErrUnresolved = rmantype.ErrUnresolved

	// ErrMissingDirectory is returned when a directory id cannot be found.
	ErrMissingDirectory = rmantype.ErrMissingDirectory

	// ErrMissingChunk is returned when a chunk id cannot be found.
	ErrMissingChunk = rmantype.ErrMissingChunk

	// ErrDirectoryCycle is returned when a parent chain never reaches the root directory.
	ErrDirectoryCycle = rmantype.ErrDirectoryCycle

	// ErrTransport is returned when a bundle range cannot be fetched.
	ErrTransport = rmantype.ErrTransport
)

// Typed errors re-exported from internal/rmantype. Each matches its family
// sentinel with errors.Is.
type (
	ReadError               = rmantype.ReadError
	InvalidMagicError       = rmantype.InvalidMagicError
	UnsupportedVersionError = rmantype.UnsupportedVersionError
	InvalidOffsetError      = rmantype.InvalidOffsetError
	CompressedSizeError     = rmantype.CompressedSizeError
	ResolveError            = rmantype.ResolveError
	RefKind                 = rmantype.RefKind
	TransportError          = rmantype.TransportError
	ChunkError              = rmantype.ChunkError
)

// Reference kinds reported by ResolveError.
const (
	RefDirectory      = rmantype.RefDirectory
	RefChunk          = rmantype.RefChunk
	RefDirectoryCycle = rmantype.RefDirectoryCycle
)
