// Package rmantype defines the value types and errors shared by the manifest
// decoder, the resolver, and the downloader.
package rmantype

import "github.com/meigma/rman/internal/fb"

// ChunkEntry is one chunk row of a bundle.
type ChunkEntry struct {
	// ID identifies the chunk. Lookups treat it as unique across all bundles.
	ID uint64

	// CompressedSize is the number of bytes the chunk occupies in its bundle.
	CompressedSize uint32

	// UncompressedSize is the number of bytes the chunk decompresses to.
	UncompressedSize uint32
}

// BundleEntry is a remote blob holding chunks back to back.
//
// Chunk order is significant: a chunk's byte offset inside the bundle is the
// sum of the compressed sizes of the chunks before it.
type BundleEntry struct {
	ID     uint64
	Chunks []ChunkEntry
}

// DirectoryEntry is one node of the directory forest. Directory 0 is the root.
type DirectoryEntry struct {
	ID       uint64
	ParentID uint64
	Name     string
}

// TagEntry names a tag bit. Older manifests call these languages.
//
// Names are either locales such as "en_US" or feature flags such as
// "mature", "krrating", or "all_loc".
type TagEntry struct {
	ID   uint8
	Name string
}

// KeyEntry is an opaque key pair. Reserved, meaning unknown.
type KeyEntry struct {
	Unk0 uint16
	Unk1 uint32
}

// ChunkingParamEntry describes the content-defined chunking used to produce
// the manifest's chunks.
type ChunkingParamEntry struct {
	// Unk0 is reserved, meaning unknown.
	Unk0 uint16

	// ChunkingVersion selects the chunk hash type
	// (0 none, 1 SHA256, 2 SHA512, 3 RIOT_HKDF).
	ChunkingVersion uint8

	MinChunkSize uint32
	ChunkSize    uint32
	MaxChunkSize uint32
}

// FileEntry is a raw file row before path, tag, and chunk resolution.
type FileEntry struct {
	ID          uint64
	DirectoryID uint64
	Size        uint32
	Name        string

	// TagBitmask has bit i set when the tag with id i+1 applies.
	TagBitmask uint64

	// Unk5 and Unk6 are reserved, meaning unknown.
	Unk5 uint8
	Unk6 uint8

	// ChunkIDs lists the file's chunks in write order.
	ChunkIDs []uint64

	// Unk8 is reserved, meaning unknown.
	Unk8 uint8

	// Symlink is the link target, or empty for regular files.
	Symlink string

	// Unk10 is reserved, meaning unknown.
	Unk10 uint16

	ChunkingParamID uint8
	Permissions     uint8
}

// BundleEntryFromFlatBuffers copies a bundle row and its chunk list.
func BundleEntryFromFlatBuffers(b *fb.Bundle) BundleEntry {
	n := b.ChunksLength()
	chunks := make([]ChunkEntry, 0, n)
	var c fb.Chunk
	for i := range n {
		if !b.Chunks(&c, i) {
			break
		}
		chunks = append(chunks, ChunkEntryFromFlatBuffers(&c))
	}
	return BundleEntry{ID: b.Id(), Chunks: chunks}
}

// ChunkEntryFromFlatBuffers copies a chunk row.
func ChunkEntryFromFlatBuffers(c *fb.Chunk) ChunkEntry {
	return ChunkEntry{
		ID:               c.Id(),
		CompressedSize:   c.CompressedSize(),
		UncompressedSize: c.UncompressedSize(),
	}
}

// DirectoryEntryFromFlatBuffers copies a directory row.
func DirectoryEntryFromFlatBuffers(d *fb.Directory) DirectoryEntry {
	return DirectoryEntry{
		ID:       d.Id(),
		ParentID: d.ParentId(),
		Name:     string(d.Name()),
	}
}

// TagEntryFromFlatBuffers copies a tag row.
func TagEntryFromFlatBuffers(t *fb.Tag) TagEntry {
	return TagEntry{ID: t.Id(), Name: string(t.Name())}
}

// KeyEntryFromFlatBuffers copies a key row.
func KeyEntryFromFlatBuffers(k *fb.Key) KeyEntry {
	return KeyEntry{Unk0: k.Unk0(), Unk1: k.Unk1()}
}

// ChunkingParamEntryFromFlatBuffers copies a chunking parameter row.
func ChunkingParamEntryFromFlatBuffers(p *fb.ChunkingParam) ChunkingParamEntry {
	return ChunkingParamEntry{
		Unk0:            p.Unk0(),
		ChunkingVersion: p.ChunkingVersion(),
		MinChunkSize:    p.MinChunkSize(),
		ChunkSize:       p.ChunkSize(),
		MaxChunkSize:    p.MaxChunkSize(),
	}
}

// FileEntryFromFlatBuffers copies a file row, including its chunk id list.
func FileEntryFromFlatBuffers(f *fb.File) FileEntry {
	n := f.ChunkIdsLength()
	ids := make([]uint64, n)
	for i := range n {
		ids[i] = f.ChunkIds(i)
	}
	return FileEntry{
		ID:              f.Id(),
		DirectoryID:     f.DirectoryId(),
		Size:            f.Size(),
		Name:            string(f.Name()),
		TagBitmask:      f.TagBitmask(),
		Unk5:            f.Unk5(),
		Unk6:            f.Unk6(),
		ChunkIDs:        ids,
		Unk8:            f.Unk8(),
		Symlink:         string(f.Symlink()),
		Unk10:           f.Unk10(),
		ChunkingParamID: f.ChunkingParamId(),
		Permissions:     f.Permissions(),
	}
}
