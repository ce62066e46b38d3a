package rmantype

import (
	"fmt"
	"slices"
)

// ChunkRef locates one chunk of a resolved file inside its bundle.
type ChunkRef struct {
	// BundleID names the bundle that stores the chunk.
	BundleID uint64

	// Offset is the chunk's byte offset inside the bundle.
	Offset uint64

	UncompressedSize uint32
	CompressedSize   uint32
}

// Range returns the inclusive byte range of the chunk inside its bundle.
// It must not be called for chunks with a zero compressed size.
func (c ChunkRef) Range() (from, to uint64) {
	return c.Offset, c.Offset + uint64(c.CompressedSize) - 1
}

// File is a file entry after path, tag, and chunk resolution.
type File struct {
	ID          uint64
	Name        string
	Permissions uint8
	Size        uint32

	// Path is the slash-separated path relative to the install root.
	Path string

	// Symlink is the link target, or empty for regular files.
	Symlink string

	// Tags lists the names of the tags that apply, in ascending bit order.
	Tags []string

	// Chunks lists the file's chunks in write order.
	Chunks []ChunkRef
}

// HasTag reports whether the named tag applies to the file.
func (f *File) HasTag(name string) bool {
	return slices.Contains(f.Tags, name)
}

// IsSymlink reports whether the file is a symbolic link.
func (f *File) IsSymlink() bool {
	return f.Symlink != ""
}

// CompressedSize returns the number of bytes fetched to reconstruct the file.
func (f *File) CompressedSize() uint64 {
	var total uint64
	for _, c := range f.Chunks {
		total += uint64(c.CompressedSize)
	}
	return total
}

// BundleName returns the resource name of a bundle: its id as 16 uppercase
// hex digits followed by ".bundle".
func BundleName(id uint64) string {
	return fmt.Sprintf("%016X.bundle", id)
}
