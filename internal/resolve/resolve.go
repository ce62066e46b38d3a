// Package resolve turns raw file rows into self-contained files by joining
// them against the tag, directory, and chunk tables.
package resolve

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/meigma/rman/internal/rmantype"
	"github.com/meigma/rman/internal/sizing"
)

type dirNode struct {
	name   string
	parent uint64
}

// Resolver holds the lookup indices built from one manifest.
// It is read-only after construction and safe for concurrent use.
type Resolver struct {
	tags   map[uint8]string
	dirs   map[uint64]dirNode
	chunks map[uint64]rmantype.ChunkRef
	logger *slog.Logger
}

// New builds the tag, directory, and chunk indices.
//
// Duplicate tag, directory, or chunk ids keep the last row. A chunk's offset
// is the sum of the compressed sizes of the chunks before it in its bundle;
// a sum that does not fit in 64 bits returns rmantype.ErrSizeOverflow.
func New(bundles []rmantype.BundleEntry, dirs []rmantype.DirectoryEntry, tags []rmantype.TagEntry, logger *slog.Logger) (*Resolver, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Resolver{
		tags:   make(map[uint8]string, len(tags)),
		dirs:   make(map[uint64]dirNode, len(dirs)),
		logger: logger,
	}
	for _, t := range tags {
		r.tags[t.ID] = t.Name
	}
	for _, d := range dirs {
		r.dirs[d.ID] = dirNode{name: d.Name, parent: d.ParentID}
	}

	var n int
	for _, b := range bundles {
		n += len(b.Chunks)
	}
	r.chunks = make(map[uint64]rmantype.ChunkRef, n)
	for _, b := range bundles {
		var offset uint64
		for _, c := range b.Chunks {
			r.chunks[c.ID] = rmantype.ChunkRef{
				BundleID:         b.ID,
				Offset:           offset,
				UncompressedSize: c.UncompressedSize,
				CompressedSize:   c.CompressedSize,
			}
			next, ok := sizing.AddUint64(offset, uint64(c.CompressedSize))
			if !ok {
				return nil, fmt.Errorf("%w: bundle %016X: chunk %d offset overflows",
					rmantype.ErrSizeOverflow, b.ID, c.ID)
			}
			offset = next
		}
	}
	return r, nil
}

// ResolveAll resolves every file in order and stops at the first failure.
func (r *Resolver) ResolveAll(entries []rmantype.FileEntry) ([]rmantype.File, error) {
	files := make([]rmantype.File, 0, len(entries))
	for i := range entries {
		f, err := r.Resolve(&entries[i])
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// Resolve resolves one file row. A missing directory or chunk, or a parent
// chain that never reaches directory 0, returns a *rmantype.ResolveError.
func (r *Resolver) Resolve(e *rmantype.FileEntry) (rmantype.File, error) {
	dir, err := r.dirPath(e)
	if err != nil {
		return rmantype.File{}, err
	}

	chunks := make([]rmantype.ChunkRef, len(e.ChunkIDs))
	for i, id := range e.ChunkIDs {
		c, ok := r.chunks[id]
		if !ok {
			return rmantype.File{}, &rmantype.ResolveError{
				FileID: e.ID, FileName: e.Name, Kind: rmantype.RefChunk, ID: id,
			}
		}
		chunks[i] = c
	}

	return rmantype.File{
		ID:          e.ID,
		Name:        e.Name,
		Permissions: e.Permissions,
		Size:        e.Size,
		Path:        dir + e.Name,
		Symlink:     e.Symlink,
		Tags:        r.tagNames(e),
		Chunks:      chunks,
	}, nil
}

// dirPath walks parent links from the file's directory up to directory 0 and
// returns the joined names with a trailing "/" per directory.
func (r *Resolver) dirPath(e *rmantype.FileEntry) (string, error) {
	var names []string
	id := e.DirectoryID
	for id != 0 {
		// A chain longer than the table must revisit a directory.
		if len(names) > len(r.dirs) {
			return "", &rmantype.ResolveError{
				FileID: e.ID, FileName: e.Name, Kind: rmantype.RefDirectoryCycle, ID: e.DirectoryID,
			}
		}
		d, ok := r.dirs[id]
		if !ok {
			return "", &rmantype.ResolveError{
				FileID: e.ID, FileName: e.Name, Kind: rmantype.RefDirectory, ID: id,
			}
		}
		names = append(names, d.name)
		id = d.parent
	}

	var sb strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		sb.WriteString(names[i])
		sb.WriteByte('/')
	}
	return sb.String(), nil
}

// tagNames expands the bitmask in ascending bit order. Bits with no matching
// tag row are skipped.
func (r *Resolver) tagNames(e *rmantype.FileEntry) []string {
	if e.TagBitmask == 0 {
		return nil
	}
	var names []string
	for i := range 64 {
		if e.TagBitmask&(1<<i) == 0 {
			continue
		}
		id := uint8(i + 1) //nolint:gosec // i < 64
		name, ok := r.tags[id]
		if !ok {
			r.logger.Debug("skipping unknown tag id", "file", e.Name, "file_id", e.ID, "tag_id", id)
			continue
		}
		names = append(names, name)
	}
	return names
}
