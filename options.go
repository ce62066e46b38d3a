package rman

import (
	"log/slog"

	"github.com/meigma/rman/internal/codec"
)

const (
	// DefaultMaxPayloadSize is the default limit on the declared uncompressed
	// payload size (256MB).
	DefaultMaxPayloadSize = 256 << 20

	// DefaultMaxManifestSize is the default limit on manifest bytes read by
	// DecodeReader and DecodeFile (512MB).
	DefaultMaxManifestSize = 512 << 20

	// DefaultMaxChunkSize is the default limit on a chunk's compressed and
	// uncompressed sizes during download (64MB).
	DefaultMaxChunkSize = 64 << 20
)

// Option configures decoding.
type Option func(*decodeConfig)

type decoderConfig struct {
	maxDecoderMemory      uint64
	decoderConcurrencySet bool
	decoderConcurrency    int
	decoderLowmemSet      bool
	decoderLowmem         bool
}

func (c *decoderConfig) options() []codec.Option {
	opts := make([]codec.Option, 0, 2)
	if c.decoderConcurrencySet {
		opts = append(opts, codec.WithDecoderConcurrency(c.decoderConcurrency))
	}
	if c.decoderLowmemSet {
		opts = append(opts, codec.WithDecoderLowmem(c.decoderLowmem))
	}
	return opts
}

// pool returns a decoder pool for repeated decompression, such as the chunks
// of a Downloader.
func (c *decoderConfig) pool() *codec.Pool {
	return codec.NewPool(c.maxDecoderMemory, c.options()...)
}

// oneShot returns a decoder source for a single payload decode.
func (c *decoderConfig) oneShot() *codec.Pool {
	return codec.NewOneShot(c.maxDecoderMemory, c.options()...)
}

type decodeConfig struct {
	decoderConfig
	strictMajor     bool
	strictMinor     bool
	maxPayloadSize  uint64
	maxManifestSize uint64
	logger          *slog.Logger
}

func newDecodeConfig(opts []Option) *decodeConfig {
	c := &decodeConfig{
		decoderConfig:   decoderConfig{maxDecoderMemory: codec.DefaultMaxDecoderMemory},
		maxPayloadSize:  DefaultMaxPayloadSize,
		maxManifestSize: DefaultMaxManifestSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// log returns the logger, falling back to a discard logger if nil.
func (c *decodeConfig) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// WithStrictVersion rejects manifests whose major or minor version differs
// from the supported version. By default a mismatch is logged and decoding
// continues.
func WithStrictVersion() Option {
	return func(c *decodeConfig) {
		c.strictMajor = true
		c.strictMinor = true
	}
}

// WithStrictMajorVersion rejects manifests with an unsupported major version.
func WithStrictMajorVersion() Option {
	return func(c *decodeConfig) {
		c.strictMajor = true
	}
}

// WithStrictMinorVersion rejects manifests with an unexpected minor version.
// The minor version is only checked when the major version is supported.
func WithStrictMinorVersion() Option {
	return func(c *decodeConfig) {
		c.strictMinor = true
	}
}

// WithMaxPayloadSize limits the declared uncompressed payload size.
// Set limit to 0 to disable the limit.
func WithMaxPayloadSize(limit uint64) Option {
	return func(c *decodeConfig) {
		c.maxPayloadSize = limit
	}
}

// WithMaxManifestSize limits the number of bytes DecodeReader and DecodeFile
// will read. Set limit to 0 to disable the limit.
func WithMaxManifestSize(limit uint64) Option {
	return func(c *decodeConfig) {
		c.maxManifestSize = limit
	}
}

// WithMaxDecoderMemory limits the maximum memory used by the zstd decoder.
// Set limit to 0 to disable the limit.
func WithMaxDecoderMemory(limit uint64) Option {
	return func(c *decodeConfig) {
		c.maxDecoderMemory = limit
	}
}

// WithDecoderConcurrency sets the zstd decoder concurrency (default: 1).
// Values < 0 are treated as 0 (use GOMAXPROCS).
func WithDecoderConcurrency(n int) Option {
	return func(c *decodeConfig) {
		c.decoderConcurrency = max(n, 0)
		c.decoderConcurrencySet = true
	}
}

// WithDecoderLowmem sets whether the zstd decoder should use low-memory mode (default: false).
func WithDecoderLowmem(enabled bool) Option {
	return func(c *decodeConfig) {
		c.decoderLowmem = enabled
		c.decoderLowmemSet = true
	}
}

// WithLogger sets the logger for decode diagnostics, including version
// mismatch warnings. If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *decodeConfig) {
		c.logger = logger
	}
}
