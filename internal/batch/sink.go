package batch

import (
	"io"

	"github.com/meigma/rman/internal/rmantype"
)

// File is an alias for rmantype.File.
type File = rmantype.File

// Sink receives reconstructed file content during batch processing.
//
// Implementations determine where content is written and can filter which
// files to process.
type Sink interface {
	// ShouldProcess returns false if this file should be skipped.
	// This allows implementations to skip existing files.
	ShouldProcess(f *File) bool

	// Writer returns a writer for the file's content.
	// The returned Committer must have Commit() called after a successful
	// download, or Discard() called on any error.
	Writer(f *File) (Committer, error)
}

// Committer is a writer that can be committed or discarded.
//
// Implementations should stage writes until Commit is called. A file-based
// implementation writes to a temp file and renames it on Commit, or deletes
// it on Discard.
type Committer interface {
	io.Writer

	// Commit finalizes the write, making content available.
	Commit() error

	// Discard aborts the write and cleans up any temporary resources.
	Discard() error
}
