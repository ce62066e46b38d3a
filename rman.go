package rman

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/meigma/rman/internal/frame"
	"github.com/meigma/rman/internal/index"
	"github.com/meigma/rman/internal/resolve"
	"github.com/meigma/rman/internal/rmantype"
	"github.com/meigma/rman/internal/sizing"
)

// Manifest is the result of decoding: the validated header and the decoded
// tables with their resolved files.
type Manifest struct {
	Header Header
	Data   ManifestData

	// Counts holds the row count of every table, including the total number
	// of chunks across all bundles.
	Counts TableCounts
}

// Decode parses a complete manifest held in memory.
//
// Decoding validates the header, decompresses the payload to exactly its
// declared size, verifies the payload structure, and resolves every file.
// The first failure aborts decoding. Decode retains no reference to b.
func Decode(b []byte, opts ...Option) (*Manifest, error) {
	return decode(b, newDecodeConfig(opts))
}

// DecodeReader reads a manifest from r until EOF and decodes it.
// Reading stops with ErrSizeOverflow once the WithMaxManifestSize limit is exceeded.
func DecodeReader(r io.Reader, opts ...Option) (*Manifest, error) {
	cfg := newDecodeConfig(opts)
	b, err := sizing.ReadAllWithLimit(r, cfg.maxManifestSize, rmantype.ErrSizeOverflow)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return decode(b, cfg)
}

// DecodeFile reads the manifest at path fully before decoding it.
func DecodeFile(path string, opts ...Option) (*Manifest, error) {
	cfg := newDecodeConfig(opts)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() >= 0 &&
		!sizing.WithinLimit(uint64(info.Size()), cfg.maxManifestSize) {
		return nil, fmt.Errorf("%w: manifest %s is %d bytes (limit %d)",
			rmantype.ErrSizeOverflow, path, info.Size(), cfg.maxManifestSize)
	}
	b, err := sizing.ReadAllWithLimit(f, cfg.maxManifestSize, rmantype.ErrSizeOverflow)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return decode(b, cfg)
}

func decode(b []byte, cfg *decodeConfig) (*Manifest, error) {
	logger := cfg.log()

	h, err := frame.Parse(b, frame.Config{
		Versions: frame.VersionPolicy{StrictMajor: cfg.strictMajor, StrictMinor: cfg.strictMinor},
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("manifest header",
		"id", fmt.Sprintf("%016X", h.ManifestID),
		"major", h.Major, "minor", h.Minor, "flags", h.Flags,
		"offset", h.Offset, "compressed_size", h.CompressedSize,
		"uncompressed_size", h.UncompressedSize)

	if !sizing.WithinLimit(uint64(h.UncompressedSize), cfg.maxPayloadSize) {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds limit %d",
			rmantype.ErrSizeOverflow, h.UncompressedSize, cfg.maxPayloadSize)
	}
	payload, err := cfg.oneShot().DecompressExact(h.Payload(b), uint64(h.UncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("decompress payload: %w", err)
	}

	idx, err := index.Load(payload)
	if err != nil {
		return nil, err
	}
	data := ManifestData{
		Bundles:        slices.Collect(idx.Bundles()),
		Tags:           slices.Collect(idx.Tags()),
		FileEntries:    slices.Collect(idx.Files()),
		Directories:    slices.Collect(idx.Directories()),
		Keys:           slices.Collect(idx.Keys()),
		ChunkingParams: slices.Collect(idx.ChunkingParams()),
	}
	counts := idx.Counts()
	logger.Debug("manifest tables",
		"bundles", counts.Bundles, "chunks", counts.Chunks, "tags", counts.Tags,
		"files", counts.Files, "directories", counts.Directories, "keys", counts.Keys,
		"chunking_params", counts.ChunkingParams)

	r, err := resolve.New(data.Bundles, data.Directories, data.Tags, logger)
	if err != nil {
		return nil, err
	}
	if data.Files, err = r.ResolveAll(data.FileEntries); err != nil {
		return nil, err
	}
	return &Manifest{Header: h, Data: data, Counts: counts}, nil
}
