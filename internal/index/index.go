// Package index exposes a decoded manifest payload as typed row sequences.
//
// The payload is a FlatBuffers Manifest table. Load verifies the buffer
// structure before any accessor runs, so iteration never reads out of bounds.
package index

import (
	"errors"
	"fmt"
	"iter"

	"github.com/meigma/rman/internal/fb"
	"github.com/meigma/rman/internal/rmantype"
)

// Index provides access to the six manifest tables.
type Index struct {
	data []byte
	root *fb.Manifest
}

// Counts holds the row count of each table.
type Counts struct {
	Bundles        int
	Chunks         int
	Tags           int
	Files          int
	Directories    int
	Keys           int
	ChunkingParams int
}

// Load verifies and parses a FlatBuffers-encoded manifest payload.
//
// The provided data is retained by the index; callers must not modify it
// after calling Load.
func Load(data []byte) (idx *Index, err error) {
	defer func() {
		if r := recover(); r != nil {
			idx = nil
			err = fmt.Errorf("%w: %v", rmantype.ErrInvalidTable, r)
		}
	}()
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", rmantype.ErrInvalidTable)
	}
	if err := Verify(data); err != nil {
		return nil, err
	}

	root := fb.GetRootAsManifest(data, 0)
	if root == nil {
		return nil, errors.New("rman: failed to parse manifest payload")
	}
	return &Index{data: data, root: root}, nil
}

// Counts returns the number of rows in each table.
func (idx *Index) Counts() Counts {
	c := Counts{
		Bundles:        idx.root.BundlesLength(),
		Tags:           idx.root.TagsLength(),
		Files:          idx.root.FilesLength(),
		Directories:    idx.root.DirectoriesLength(),
		Keys:           idx.root.KeysLength(),
		ChunkingParams: idx.root.ChunkingParamsLength(),
	}
	var b fb.Bundle
	for i := range c.Bundles {
		if idx.root.Bundles(&b, i) {
			c.Chunks += b.ChunksLength()
		}
	}
	return c
}

// Bundles returns an iterator over the bundle table.
func (idx *Index) Bundles() iter.Seq[rmantype.BundleEntry] {
	return func(yield func(rmantype.BundleEntry) bool) {
		var row fb.Bundle
		for i := range idx.root.BundlesLength() {
			if !idx.root.Bundles(&row, i) || !yield(rmantype.BundleEntryFromFlatBuffers(&row)) {
				return
			}
		}
	}
}

// Tags returns an iterator over the tag table.
func (idx *Index) Tags() iter.Seq[rmantype.TagEntry] {
	return func(yield func(rmantype.TagEntry) bool) {
		var row fb.Tag
		for i := range idx.root.TagsLength() {
			if !idx.root.Tags(&row, i) || !yield(rmantype.TagEntryFromFlatBuffers(&row)) {
				return
			}
		}
	}
}

// Files returns an iterator over the raw file table.
func (idx *Index) Files() iter.Seq[rmantype.FileEntry] {
	return func(yield func(rmantype.FileEntry) bool) {
		var row fb.File
		for i := range idx.root.FilesLength() {
			if !idx.root.Files(&row, i) || !yield(rmantype.FileEntryFromFlatBuffers(&row)) {
				return
			}
		}
	}
}

// Directories returns an iterator over the directory table.
func (idx *Index) Directories() iter.Seq[rmantype.DirectoryEntry] {
	return func(yield func(rmantype.DirectoryEntry) bool) {
		var row fb.Directory
		for i := range idx.root.DirectoriesLength() {
			if !idx.root.Directories(&row, i) || !yield(rmantype.DirectoryEntryFromFlatBuffers(&row)) {
				return
			}
		}
	}
}

// Keys returns an iterator over the key table.
func (idx *Index) Keys() iter.Seq[rmantype.KeyEntry] {
	return func(yield func(rmantype.KeyEntry) bool) {
		var row fb.Key
		for i := range idx.root.KeysLength() {
			if !idx.root.Keys(&row, i) || !yield(rmantype.KeyEntryFromFlatBuffers(&row)) {
				return
			}
		}
	}
}

// ChunkingParams returns an iterator over the chunking parameter table.
func (idx *Index) ChunkingParams() iter.Seq[rmantype.ChunkingParamEntry] {
	return func(yield func(rmantype.ChunkingParamEntry) bool) {
		var row fb.ChunkingParam
		for i := range idx.root.ChunkingParamsLength() {
			if !idx.root.ChunkingParams(&row, i) || !yield(rmantype.ChunkingParamEntryFromFlatBuffers(&row)) {
				return
			}
		}
	}
}
