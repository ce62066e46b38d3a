package rman

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/singleflight"

	rmanhttp "github.com/meigma/rman/http"
	"github.com/meigma/rman/internal/codec"
	"github.com/meigma/rman/internal/rmantype"
	"github.com/meigma/rman/internal/sizing"
)

// Fetcher retrieves byte ranges of bundles from a bundle store.
//
// FetchRange returns bytes [from, to] (inclusive) of the bundle named by
// bundleID. Failures should be reported as *TransportError. Implementations
// must be safe for concurrent use.
type Fetcher interface {
	FetchRange(ctx context.Context, bundleID, from, to uint64) ([]byte, error)
}

// Downloader reconstructs files by fetching, decompressing, and writing their
// chunks in order. It is safe for concurrent use; each call to Download runs
// an independent sequential pipeline.
type Downloader struct {
	fetcher      Fetcher
	pool         *codec.Pool
	maxChunkSize uint64
	logger       *slog.Logger
	progress     ProgressFunc

	// inflight shares identical range requests issued concurrently by
	// different files. Nothing outlives the request, and a caller's
	// cancellation never fails another caller.
	inflight singleflight.Group
}

// DownloadOption configures a Downloader.
type DownloadOption func(*downloadConfig)

type downloadConfig struct {
	decoder      decoderConfig
	maxChunkSize uint64
	logger       *slog.Logger
	progress     ProgressFunc
}

// WithDownloadLogger sets the logger for per-chunk diagnostics.
func WithDownloadLogger(logger *slog.Logger) DownloadOption {
	return func(c *downloadConfig) {
		c.logger = logger
	}
}

// WithProgress sets a callback that receives a StageDownloading event after
// every chunk is written, and StageExtracting events from Extract.
func WithProgress(fn ProgressFunc) DownloadOption {
	return func(c *downloadConfig) {
		c.progress = fn
	}
}

// WithMaxChunkSize limits the compressed and uncompressed size of any single
// chunk. Set limit to 0 to disable the limit.
func WithMaxChunkSize(limit uint64) DownloadOption {
	return func(c *downloadConfig) {
		c.maxChunkSize = limit
	}
}

// WithDecodeOptions applies the decoder settings of opts (WithMaxDecoderMemory,
// WithDecoderConcurrency, WithDecoderLowmem) to chunk decompression.
// Other decode options are ignored.
func WithDecodeOptions(opts ...Option) DownloadOption {
	return func(c *downloadConfig) {
		dc := decodeConfig{decoderConfig: c.decoder}
		for _, opt := range opts {
			opt(&dc)
		}
		c.decoder = dc.decoderConfig
	}
}

// NewDownloader returns a Downloader reading bundles from f.
func NewDownloader(f Fetcher, opts ...DownloadOption) *Downloader {
	cfg := downloadConfig{
		decoder:      decoderConfig{maxDecoderMemory: codec.DefaultMaxDecoderMemory},
		maxChunkSize: DefaultMaxChunkSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Downloader{
		fetcher:      f,
		pool:         cfg.decoder.pool(),
		maxChunkSize: cfg.maxChunkSize,
		logger:       cfg.logger,
		progress:     cfg.progress,
	}
}

// log returns the logger, falling back to a discard logger if nil.
func (d *Downloader) log() *slog.Logger {
	if d.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.logger
}

// Download writes the reconstructed content of f to w.
//
// Chunks are processed strictly in order: chunk k is fetched, decompressed,
// and written before chunk k+1 is requested. The first failure aborts the
// download and is returned as a *ChunkError wrapping a *TransportError or
// ErrDecompression. Cancellation is observed at chunk boundaries. Bytes
// already written to w are not rolled back.
func (d *Downloader) Download(ctx context.Context, f *File, w io.Writer) error {
	total := uint64(f.Size)
	var done uint64
	for i, c := range f.Chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := d.chunk(ctx, c)
		if err != nil {
			return &ChunkError{Path: f.Path, Index: i, BundleID: c.BundleID, Err: err}
		}
		if len(data) > 0 {
			if _, err := w.Write(data); err != nil {
				return fmt.Errorf("write %s: %w", f.Path, err)
			}
		}
		next, ok := sizing.AddUint64(done, uint64(len(data)))
		if !ok {
			return &ChunkError{Path: f.Path, Index: i, BundleID: c.BundleID,
				Err: fmt.Errorf("%w: %s exceeds 64-bit size", ErrSizeOverflow, f.Path)}
		}
		done = next
		d.log().Debug("chunk written",
			"path", f.Path, "index", i,
			"bundle", rmantype.BundleName(c.BundleID),
			"offset", c.Offset, "size", c.CompressedSize)
		if d.progress != nil {
			d.progress(ProgressEvent{
				Stage:      StageDownloading,
				Path:       f.Path,
				BytesDone:  done,
				BytesTotal: total,
			})
		}
	}
	return nil
}

// chunk fetches and decompresses one chunk.
func (d *Downloader) chunk(ctx context.Context, c ChunkRef) ([]byte, error) {
	if c.CompressedSize == 0 {
		if c.UncompressedSize != 0 {
			return nil, fmt.Errorf("%w: empty chunk declares %d uncompressed bytes",
				ErrDecompression, c.UncompressedSize)
		}
		return nil, nil
	}
	if !sizing.WithinLimit(uint64(c.CompressedSize), d.maxChunkSize) ||
		!sizing.WithinLimit(uint64(c.UncompressedSize), d.maxChunkSize) {
		return nil, fmt.Errorf("%w: chunk of %d/%d bytes exceeds limit %d",
			ErrSizeOverflow, c.CompressedSize, c.UncompressedSize, d.maxChunkSize)
	}

	if _, ok := sizing.AddUint64(c.Offset, uint64(c.CompressedSize)); !ok {
		return nil, fmt.Errorf("%w: chunk at offset %d with %d bytes overflows",
			ErrSizeOverflow, c.Offset, c.CompressedSize)
	}
	from, to := c.Range()
	raw, err := d.fetch(ctx, c.BundleID, from, to)
	if err != nil {
		return nil, err
	}
	if uint64(len(raw)) != uint64(c.CompressedSize) {
		return nil, &TransportError{
			Resource: rmantype.BundleName(c.BundleID),
			From:     from,
			To:       to,
			Err:      fmt.Errorf("got %d bytes, want %d", len(raw), c.CompressedSize),
		}
	}
	return d.pool.DecompressExact(raw, uint64(c.UncompressedSize))
}

// fetch returns bytes [from, to] of a bundle. Concurrent requests for the
// same range share one fetch, which runs detached from any single caller's
// cancellation; each caller stops waiting as soon as its own ctx is done.
func (d *Downloader) fetch(ctx context.Context, bundleID, from, to uint64) ([]byte, error) {
	key := fmt.Sprintf("%016X:%d-%d", bundleID, from, to)
	shared := context.WithoutCancel(ctx)
	ch := d.inflight.DoChan(key, func() (any, error) {
		return d.fetcher.FetchRange(shared, bundleID, from, to)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		raw, _ := res.Val.([]byte) //nolint:errcheck // type assertion always succeeds when err is nil
		return raw, nil
	}
}

// DownloadFromURL reconstructs f into w from bundles served under baseURL
// as {baseURL}/{ID:016X}.bundle. It is a convenience wrapper around an HTTP
// Fetcher and a single-use Downloader.
func DownloadFromURL(ctx context.Context, f *File, w io.Writer, baseURL string, opts ...DownloadOption) error {
	fetcher, err := rmanhttp.NewFetcher(baseURL)
	if err != nil {
		return err
	}
	return NewDownloader(fetcher, opts...).Download(ctx, f, w)
}
