package rmantype

// ProgressEvent represents a progress update during download or extraction.
type ProgressEvent struct {
	// Stage identifies the current phase of the operation.
	Stage ProgressStage

	// Path is the file currently being processed, if applicable.
	Path string

	// BytesDone is the number of uncompressed bytes written for Path.
	BytesDone uint64

	// BytesTotal is the uncompressed size of Path.
	BytesTotal uint64

	// FilesDone is the number of files completed.
	FilesDone int

	// FilesTotal is the total number of files.
	// Zero indicates the total is unknown.
	FilesTotal int
}

// ProgressStage identifies the current phase of an operation.
type ProgressStage uint8

// Progress stages for download and extraction.
const (
	// StageDownloading indicates a chunk of Path was fetched and written.
	StageDownloading ProgressStage = iota

	// StageExtracting indicates a file finished extracting.
	StageExtracting
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageDownloading:
		return "downloading"
	case StageExtracting:
		return "extracting"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates during operations.
// Implementations must be safe for concurrent calls.
type ProgressFunc func(ProgressEvent)
