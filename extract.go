package rman

import (
	"context"

	"github.com/meigma/rman/internal/batch"
)

type (
	// ExtractStats summarizes an Extract call.
	ExtractStats = batch.ProcessStats

	// ExtractedFile reports one file written by Extract.
	ExtractedFile = batch.FileResult
)

// ExtractOption configures Extract.
type ExtractOption func(*extractConfig)

type extractConfig struct {
	workers   int
	overwrite bool
	filter    func(*File) bool
}

// ExtractWithWorkers sets the number of files reconstructed concurrently.
// Zero uses GOMAXPROCS; negative values force serial processing.
func ExtractWithWorkers(n int) ExtractOption {
	return func(c *extractConfig) {
		c.workers = n
	}
}

// ExtractWithOverwrite allows Extract to replace existing files.
// By default existing files are left alone and counted as skipped.
func ExtractWithOverwrite(overwrite bool) ExtractOption {
	return func(c *extractConfig) {
		c.overwrite = overwrite
	}
}

// ExtractWithFilter restricts extraction to files for which keep returns true.
func ExtractWithFilter(keep func(*File) bool) ExtractOption {
	return func(c *extractConfig) {
		c.filter = keep
	}
}

// Extract reconstructs files under destDir, one sequential Download per file
// with up to the configured number of files in flight.
//
// Each file is written to a temporary file that is renamed into place only
// after every chunk succeeded, so a failed or cancelled extraction leaves no
// partial files behind. Paths escaping destDir are rejected. Symlink entries
// are counted but not created. The first failure cancels the remaining work.
func (d *Downloader) Extract(ctx context.Context, files []File, destDir string, opts ...ExtractOption) (ExtractStats, error) {
	var cfg extractConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	selected := make([]*File, 0, len(files))
	for i := range files {
		if cfg.filter == nil || cfg.filter(&files[i]) {
			selected = append(selected, &files[i])
		}
	}

	p := batch.NewProcessor(d.Download,
		batch.WithWorkers(cfg.workers),
		batch.WithProgress(d.progress),
		batch.WithProcessorLogger(d.logger),
	)
	return p.Process(ctx, selected, batch.NewFileSink(destDir, batch.WithOverwrite(cfg.overwrite)))
}
