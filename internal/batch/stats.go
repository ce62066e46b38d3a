package batch

import digest "github.com/opencontainers/go-digest"

// FileResult describes one file written to the sink.
type FileResult struct {
	Path string

	// Size is the number of bytes written.
	Size uint64

	// Digest is the sha256 digest of the written content.
	Digest digest.Digest
}

// ProcessStats contains statistics from a batch processing operation.
type ProcessStats struct {
	// Processed is the number of files successfully written to the sink.
	Processed int

	// Skipped is the number of files skipped (ShouldProcess returned false).
	Skipped int

	// Symlinks is the number of symbolic link entries, which are never written.
	Symlinks int

	// TotalBytes is the number of bytes written across all processed files.
	TotalBytes uint64

	// Files lists the processed files sorted by path.
	Files []FileResult
}
