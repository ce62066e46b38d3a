// Package batch reconstructs many files concurrently, one independent
// pipeline per file.
package batch

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	digest "github.com/opencontainers/go-digest"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/rman/internal/rmantype"
)

// DownloadFunc writes the reconstructed content of f to w, in order.
type DownloadFunc func(ctx context.Context, f *File, w io.Writer) error

// Processor runs per-file download pipelines into a Sink.
type Processor struct {
	download DownloadFunc
	workers  int // 0 = auto, <0 = serial, >0 = fixed count
	progress rmantype.ProgressFunc
	logger   *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (p *Processor) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithWorkers sets the number of files downloaded concurrently.
// Values < 0 force serial processing. Zero uses GOMAXPROCS.
func WithWorkers(n int) ProcessorOption {
	return func(p *Processor) {
		p.workers = n
	}
}

// WithProgress sets a callback that receives a StageExtracting event as each
// file is committed.
func WithProgress(fn rmantype.ProgressFunc) ProcessorOption {
	return func(p *Processor) {
		p.progress = fn
	}
}

// WithProcessorLogger sets the logger for batch processing operations.
// If not set, logging is disabled.
func WithProcessorLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = logger
	}
}

// NewProcessor creates a batch processor that reconstructs files with download.
func NewProcessor(download DownloadFunc, opts ...ProcessorOption) *Processor {
	p := &Processor{download: download}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process downloads every file into the sink.
//
// Symlink entries are counted and skipped. Files are filtered through
// sink.ShouldProcess. The remaining files run concurrently, each through its
// own Committer; a failed file is discarded. Processing stops on the first
// error and the partial stats gathered so far are returned with it.
func (p *Processor) Process(ctx context.Context, files []*File, sink Sink) (ProcessStats, error) {
	var stats ProcessStats

	toProcess := make([]*File, 0, len(files))
	for _, f := range files {
		switch {
		case f.IsSymlink():
			stats.Symlinks++
		case !sink.ShouldProcess(f):
			stats.Skipped++
		default:
			toProcess = append(toProcess, f)
		}
	}
	if len(toProcess) == 0 {
		return stats, nil
	}

	workers := p.workerCount(len(toProcess))
	p.log().Debug("batch processing", "files", len(toProcess), "workers", workers,
		"skipped", stats.Skipped, "symlinks", stats.Symlinks)

	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, f := range toProcess {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := p.processFile(ctx, f, sink)
			if err != nil {
				return err
			}

			mu.Lock()
			stats.Processed++
			stats.TotalBytes += res.Size
			stats.Files = append(stats.Files, res)
			done := stats.Processed
			mu.Unlock()

			if p.progress != nil {
				p.progress(rmantype.ProgressEvent{
					Stage:      rmantype.StageExtracting,
					Path:       f.Path,
					BytesDone:  res.Size,
					BytesTotal: uint64(f.Size),
					FilesDone:  done,
					FilesTotal: len(toProcess),
				})
			}
			return nil
		})
	}
	err := eg.Wait()

	slices.SortFunc(stats.Files, func(a, b FileResult) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return stats, err
}

// processFile runs one pipeline: writer, download, then commit or discard.
func (p *Processor) processFile(ctx context.Context, f *File, sink Sink) (FileResult, error) {
	w, err := sink.Writer(f)
	if err != nil {
		return FileResult{}, fmt.Errorf("batch: %s: %w", f.Path, err)
	}

	digester := digest.Canonical.Digester()
	cw := &countingWriter{w: io.MultiWriter(w, digester.Hash())}
	if err := p.download(ctx, f, cw); err != nil {
		_ = w.Discard() //nolint:errcheck // download error takes precedence
		return FileResult{}, err
	}
	if err := w.Commit(); err != nil {
		return FileResult{}, fmt.Errorf("batch: %s: %w", f.Path, err)
	}

	p.log().Debug("file extracted", "path", f.Path, "bytes", cw.n)
	return FileResult{Path: f.Path, Size: cw.n, Digest: digester.Digest()}, nil
}

// workerCount determines the number of concurrent pipelines.
func (p *Processor) workerCount(files int) int {
	if p.workers < 0 {
		return 1
	}
	workers := p.workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return max(1, min(workers, files))
}

type countingWriter struct {
	w io.Writer
	n uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint64(n) //nolint:gosec // n is non-negative per io.Writer
	return n, err
}
