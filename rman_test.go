package rman

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/rman/internal/frame"
	"github.com/meigma/rman/internal/testutil"
)

func TestDecodeValid(t *testing.T) {
	t.Parallel()

	m, err := Decode(testutil.BuildManifest(t, testutil.ValidRows()))
	require.NoError(t, err)

	assert.Equal(t, uint32(Magic), m.Header.Magic)
	assert.Equal(t, uint8(2), m.Header.Major)
	assert.Equal(t, uint8(0), m.Header.Minor)
	assert.Equal(t, uint32(HeaderSize), m.Header.Offset)
	assert.Equal(t, testutil.ManifestID, m.Header.ManifestID)

	d := m.Data
	require.Len(t, d.Bundles, 1)
	assert.Equal(t, []ChunkEntry{{ID: 0, CompressedSize: 4, UncompressedSize: 4}}, d.Bundles[0].Chunks)
	assert.Equal(t, []TagEntry{{ID: 0, Name: "en_US"}}, d.Tags)
	assert.Len(t, d.Directories, 2)
	assert.Equal(t, []KeyEntry{{Unk0: 1, Unk1: 4}}, d.Keys)
	require.Len(t, d.ChunkingParams, 1)
	assert.Equal(t, uint32(8), d.ChunkingParams[0].ChunkSize)

	require.Len(t, d.FileEntries, 1)
	require.Len(t, d.Files, 1)
	f := d.Files[0]
	assert.Equal(t, "Test/file.txt", f.Path)
	assert.Equal(t, "file.txt", f.Name)
	assert.Equal(t, uint32(4), f.Size)
	assert.Empty(t, f.Tags)
	assert.Equal(t, []ChunkRef{{BundleID: 0, Offset: 0, UncompressedSize: 4, CompressedSize: 4}}, f.Chunks)

	assert.Equal(t, TableCounts{
		Bundles:        1,
		Chunks:         1,
		Tags:           1,
		Files:          1,
		Directories:    2,
		Keys:           1,
		ChunkingParams: 1,
	}, m.Counts)
}

func TestDecodeEmptyManifest(t *testing.T) {
	t.Parallel()

	for _, omit := range []bool{false, true} {
		m, err := Decode(testutil.BuildManifest(t, testutil.ManifestRows{OmitEmpty: omit}))
		require.NoError(t, err)
		assert.Empty(t, m.Data.Bundles)
		assert.Empty(t, m.Data.Tags)
		assert.Empty(t, m.Data.FileEntries)
		assert.Empty(t, m.Data.Directories)
		assert.Empty(t, m.Data.Keys)
		assert.Empty(t, m.Data.ChunkingParams)
		assert.Empty(t, m.Data.Files)
	}
}

func TestDecodeIsDeterministic(t *testing.T) {
	t.Parallel()

	b := testutil.BuildManifest(t, testutil.ValidRows())
	first, err := Decode(b)
	require.NoError(t, err)
	second, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecodeHeaderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*frame.Header)
		opts   []Option
		target error
		as     any
	}{
		{
			name:   "bad magic",
			mutate: func(h *frame.Header) { h.Magic = 0x12345678 },
			target: ErrInvalidHeader,
			as:     new(*InvalidMagicError),
		},
		{
			name:   "offset inside header",
			mutate: func(h *frame.Header) { h.Offset = 27 },
			target: ErrInvalidHeader,
			as:     new(*InvalidOffsetError),
		},
		{
			name:   "compressed size past end",
			mutate: func(h *frame.Header) { h.CompressedSize += 1 },
			target: ErrInvalidHeader,
			as:     new(*CompressedSizeError),
		},
		{
			name:   "strict major",
			mutate: func(h *frame.Header) { h.Major = 3 },
			opts:   []Option{WithStrictVersion()},
			target: ErrInvalidHeader,
			as:     new(*UnsupportedVersionError),
		},
		{
			name:   "strict minor",
			mutate: func(h *frame.Header) { h.Minor = 1 },
			opts:   []Option{WithStrictMinorVersion()},
			target: ErrInvalidHeader,
			as:     new(*UnsupportedVersionError),
		},
		{
			name:   "uncompressed size mismatch",
			mutate: func(h *frame.Header) { h.UncompressedSize++ },
			target: ErrDecompression,
		},
		{
			name:   "payload over limit",
			mutate: func(h *frame.Header) { h.UncompressedSize = 1 << 30 },
			target: ErrSizeOverflow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := testutil.BuildManifestWithHeader(t, testutil.ValidRows(), tt.mutate)
			_, err := Decode(b, tt.opts...)
			require.ErrorIs(t, err, tt.target)
			if tt.as != nil {
				assert.ErrorAs(t, err, tt.as)
			}
		})
	}
}

func TestDecodeTruncated(t *testing.T) {
	t.Parallel()

	b := testutil.BuildManifest(t, testutil.ValidRows())
	_, err := Decode(b[:10])
	require.ErrorIs(t, err, ErrTruncated)
	var re *ReadError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "offset", re.Field)

	_, err = Decode(nil)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeLenientVersionLogs(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	b := testutil.BuildManifestWithHeader(t, testutil.ValidRows(), func(h *frame.Header) { h.Major = 3 })

	m, err := Decode(b, WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, uint8(3), m.Header.Major)
	assert.Contains(t, logs.String(), "unsupported major version")
}

func TestDecodeCorruptPayload(t *testing.T) {
	t.Parallel()

	// A valid zstd frame whose content is not a manifest table.
	garbage := bytes.Repeat([]byte{0xFF}, 64)
	compressed := testutil.Compress(t, garbage)
	h := frame.Header{
		Magic:            Magic,
		Major:            MajorVersion,
		Offset:           HeaderSize,
		CompressedSize:   uint32(len(compressed)), //nolint:gosec // test data is small
		UncompressedSize: uint32(len(garbage)),
	}
	b, err := h.AppendBinary(nil)
	require.NoError(t, err)
	b = append(b, compressed...)

	_, err = Decode(b)
	require.ErrorIs(t, err, ErrInvalidTable)
}

func TestDecodeUnresolved(t *testing.T) {
	t.Parallel()

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		spec := testutil.ValidRows()
		spec.Files[0].DirectoryID = 42
		_, err := Decode(testutil.BuildManifest(t, spec))
		require.ErrorIs(t, err, ErrUnresolved)
		require.ErrorIs(t, err, ErrMissingDirectory)
		var re *ResolveError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, RefDirectory, re.Kind)
		assert.Equal(t, uint64(42), re.ID)
	})

	t.Run("chunk", func(t *testing.T) {
		t.Parallel()
		spec := testutil.ValidRows()
		spec.Files[0].ChunkIDs = []uint64{0, 0xBEEF}
		_, err := Decode(testutil.BuildManifest(t, spec))
		require.ErrorIs(t, err, ErrMissingChunk)
		var re *ResolveError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, RefChunk, re.Kind)
		assert.Equal(t, uint64(0xBEEF), re.ID)
	})
}

func TestDecodeReader(t *testing.T) {
	t.Parallel()

	b := testutil.BuildManifest(t, testutil.ValidRows())
	m, err := DecodeReader(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Len(t, m.Data.Files, 1)

	_, err = DecodeReader(bytes.NewReader(b), WithMaxManifestSize(uint64(len(b)-1)))
	require.ErrorIs(t, err, ErrSizeOverflow)
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()

	b := testutil.BuildManifest(t, testutil.ValidRows())
	path := filepath.Join(t.TempDir(), "test.manifest")
	require.NoError(t, os.WriteFile(path, b, 0o600))

	m, err := DecodeFile(path)
	require.NoError(t, err)
	fromBytes, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, fromBytes, m)

	_, err = DecodeFile(path, WithMaxManifestSize(16))
	require.ErrorIs(t, err, ErrSizeOverflow)

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing"))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestManifestDataHelpers(t *testing.T) {
	t.Parallel()

	d := ManifestData{
		Bundles: []BundleEntry{{ID: 7}, {ID: 3}, {ID: 7}},
		Files: []File{
			{Path: "a.txt"},
			{Path: "en/b.txt", Tags: []string{"en_US"}},
			{Path: "fr/c.txt", Tags: []string{"fr_FR"}},
		},
	}

	f, ok := d.FileByPath("en/b.txt")
	require.True(t, ok)
	assert.Equal(t, []string{"en_US"}, f.Tags)
	_, ok = d.FileByPath("missing")
	assert.False(t, ok)

	paths := func(files []File) []string {
		out := make([]string, 0, len(files))
		for _, f := range files {
			out = append(out, f.Path)
		}
		return out
	}
	assert.Equal(t, []string{"a.txt", "en/b.txt", "fr/c.txt"}, paths(d.FilesWithTags()))
	assert.Equal(t, []string{"a.txt", "en/b.txt"}, paths(d.FilesWithTags("en_US")))
	assert.Equal(t, []string{"a.txt"}, paths(d.FilesWithTags("de_DE")))

	assert.Equal(t, []uint64{7, 3}, d.BundleIDs())
}

func TestBundleName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "00000000DEADBEEF.bundle", BundleName(0xDEADBEEF))
}
