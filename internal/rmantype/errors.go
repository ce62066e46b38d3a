package rmantype

import (
	"errors"
	"fmt"
	"io"
)

// Sentinel errors for manifest decoding and downloading.
var (
	// ErrTruncated is returned when the input ends inside a fixed-size field.
	ErrTruncated = errors.New("rman: truncated input")

	// ErrInvalidHeader is returned when a complete header fails validation.
	ErrInvalidHeader = errors.New("rman: invalid header")

	// ErrSizeOverflow is returned when a size exceeds supported or configured limits.
	ErrSizeOverflow = errors.New("rman: size overflow")

	// ErrDecompression is returned when decompression fails or yields the wrong length.
	ErrDecompression = errors.New("rman: decompression failed")

	// ErrInvalidTable is returned when the manifest payload fails structural validation.
	ErrInvalidTable = errors.New("rman: invalid manifest table data")

	// ErrUnresolved is returned when a file references an entry that does not exist.
	ErrUnresolved = errors.New("rman: unresolved reference")

	// ErrMissingDirectory is returned when a directory id cannot be found.
	ErrMissingDirectory = errors.New("rman: missing directory")

	// ErrMissingChunk is returned when a chunk id cannot be found.
	ErrMissingChunk = errors.New("rman: missing chunk")

	// ErrDirectoryCycle is returned when a directory's parent chain never reaches the root.
	ErrDirectoryCycle = errors.New("rman: directory cycle")

	// ErrTransport is returned when a bundle range cannot be fetched.
	ErrTransport = errors.New("rman: transport failure")
)

// ReadError reports a fixed-size field that could not be read because the
// input is too short.
type ReadError struct {
	Field  string
	Offset int
	Need   int
	Have   int
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("rman: truncated input reading %s at offset %d (need %d bytes, have %d)",
		e.Field, e.Offset, e.Need, e.Have)
}

// Is matches ErrTruncated.
func (e *ReadError) Is(target error) bool { return target == ErrTruncated }

// Unwrap returns io.ErrUnexpectedEOF.
func (e *ReadError) Unwrap() error { return io.ErrUnexpectedEOF }

// InvalidMagicError reports a header whose magic is not "RMAN".
type InvalidMagicError struct {
	Magic    uint32
	Expected uint32
}

func (e *InvalidMagicError) Error() string {
	return fmt.Sprintf("rman: invalid magic bytes (expected: %#08x, was: %#08x)", e.Expected, e.Magic)
}

// Is matches ErrInvalidHeader.
func (e *InvalidMagicError) Is(target error) bool { return target == ErrInvalidHeader }

// UnsupportedVersionError reports a version byte rejected by strict version checking.
type UnsupportedVersionError struct {
	// Field is "major" or "minor".
	Field    string
	Version  uint8
	Expected uint8
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("rman: unsupported %s version (expected: %d, was: %d)", e.Field, e.Expected, e.Version)
}

// Is matches ErrInvalidHeader.
func (e *UnsupportedVersionError) Is(target error) bool { return target == ErrInvalidHeader }

// InvalidOffsetError reports a payload offset outside [28, FileSize).
type InvalidOffsetError struct {
	FileSize uint64
	Offset   uint32
}

func (e *InvalidOffsetError) Error() string {
	return fmt.Sprintf("rman: offset points outside of the file (file_size: %d, offset: %d)", e.FileSize, e.Offset)
}

// Is matches ErrInvalidHeader.
func (e *InvalidOffsetError) Is(target error) bool { return target == ErrInvalidHeader }

// CompressedSizeError reports a compressed payload that extends past the end of the file.
type CompressedSizeError struct {
	FileSize       uint64
	Offset         uint32
	CompressedSize uint32
}

func (e *CompressedSizeError) Error() string {
	return fmt.Sprintf("rman: compressed size overflows the file (file_size: %d, offset: %d, compressed_size: %d)",
		e.FileSize, e.Offset, e.CompressedSize)
}

// Is matches ErrInvalidHeader.
func (e *CompressedSizeError) Is(target error) bool { return target == ErrInvalidHeader }

// RefKind identifies which reference of a file entry could not be resolved.
type RefKind uint8

const (
	// RefDirectory is a directory id missing from the directory table.
	RefDirectory RefKind = iota

	// RefChunk is a chunk id missing from every bundle.
	RefChunk

	// RefDirectoryCycle is a parent chain that never reaches directory 0.
	RefDirectoryCycle
)

// String returns the string representation of the reference kind.
func (k RefKind) String() string {
	switch k {
	case RefDirectory:
		return "directory"
	case RefChunk:
		return "chunk"
	case RefDirectoryCycle:
		return "directory cycle"
	default:
		return "unknown"
	}
}

// ResolveError reports a file entry that references a missing directory or chunk.
type ResolveError struct {
	FileID   uint64
	FileName string
	Kind     RefKind
	// ID is the offending directory or chunk id.
	ID uint64
}

func (e *ResolveError) Error() string {
	switch e.Kind {
	case RefChunk:
		return fmt.Sprintf("rman: file %d (%q): chunk id %d (%016X) not found", e.FileID, e.FileName, e.ID, e.ID)
	case RefDirectoryCycle:
		return fmt.Sprintf("rman: file %d (%q): directory id %d is part of a cycle", e.FileID, e.FileName, e.ID)
	default:
		return fmt.Sprintf("rman: file %d (%q): directory id %d not found", e.FileID, e.FileName, e.ID)
	}
}

// Is matches ErrUnresolved and the sentinel for the reference kind.
func (e *ResolveError) Is(target error) bool {
	switch target {
	case ErrUnresolved:
		return true
	case ErrMissingDirectory:
		return e.Kind == RefDirectory
	case ErrMissingChunk:
		return e.Kind == RefChunk
	case ErrDirectoryCycle:
		return e.Kind == RefDirectoryCycle
	}
	return false
}

// TransportError reports a failed bundle range request.
type TransportError struct {
	// Resource is the URL or object key that was requested.
	Resource string
	From     uint64
	To       uint64

	// StatusCode is the HTTP status of a non-success response, or 0.
	StatusCode int

	// Err is the underlying transport error, if any.
	Err error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rman: fetch %s bytes=%d-%d: %v", e.Resource, e.From, e.To, e.Err)
	}
	return fmt.Sprintf("rman: fetch %s bytes=%d-%d: status %d", e.Resource, e.From, e.To, e.StatusCode)
}

// Is matches ErrTransport.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func (e *TransportError) Unwrap() error { return e.Err }

// ChunkError scopes a download failure to one chunk of a file.
type ChunkError struct {
	Path     string
	Index    int
	BundleID uint64
	Err      error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("rman: %s: chunk %d (bundle %016X): %v", e.Path, e.Index, e.BundleID, e.Err)
}

func (e *ChunkError) Unwrap() error { return e.Err }
