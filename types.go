package rman

import (
	"github.com/meigma/rman/internal/frame"
	"github.com/meigma/rman/internal/index"
	"github.com/meigma/rman/internal/rmantype"
)

// Re-export types from internal packages for the public API.
type (
	// Header is the decoded 28-byte manifest preamble.
	Header = frame.Header

	// BundleEntry is a remote blob holding chunks back to back.
	BundleEntry = rmantype.BundleEntry

	// ChunkEntry is one chunk row of a bundle.
	ChunkEntry = rmantype.ChunkEntry

	// DirectoryEntry is one node of the directory forest.
	DirectoryEntry = rmantype.DirectoryEntry

	// TagEntry names a tag (language or feature flag) bit.
	TagEntry = rmantype.TagEntry

	// KeyEntry is an opaque key pair.
	KeyEntry = rmantype.KeyEntry

	// ChunkingParamEntry describes content-defined chunking parameters.
	ChunkingParamEntry = rmantype.ChunkingParamEntry

	// FileEntry is a raw file row before resolution.
	FileEntry = rmantype.FileEntry

	// File is a resolved file ready for reconstruction.
	File = rmantype.File

	// ChunkRef locates one chunk of a File inside its bundle.
	ChunkRef = rmantype.ChunkRef

	// TableCounts holds the row count of every manifest table.
	TableCounts = index.Counts
)

// Header layout constants.
const (
	HeaderSize   = frame.Size
	Magic        = frame.Magic
	MajorVersion = frame.MajorVersion
	MinorVersion = frame.MinorVersion
)

// BundleName returns the resource name of a bundle: its id as 16 uppercase
// hex digits followed by ".bundle".
func BundleName(id uint64) string {
	return rmantype.BundleName(id)
}
