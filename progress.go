package rman

import "github.com/meigma/rman/internal/rmantype"

// Re-export progress types from internal/rmantype.
type (
	// ProgressEvent represents a progress update during download or extraction.
	ProgressEvent = rmantype.ProgressEvent

	// ProgressStage identifies the current phase of an operation.
	ProgressStage = rmantype.ProgressStage

	// ProgressFunc receives progress updates during operations.
	// Implementations must be safe for concurrent calls.
	ProgressFunc = rmantype.ProgressFunc
)

// Re-export progress stage constants.
const (
	// StageDownloading indicates a chunk was fetched and written.
	StageDownloading = rmantype.StageDownloading

	// StageExtracting indicates a file finished extracting.
	StageExtracting = rmantype.StageExtracting
)
