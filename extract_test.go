package rman

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	digest "github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/rman/internal/testutil"
)

func extractFixture(t *testing.T) (*Manifest, *testutil.MemFetcher) {
	t.Helper()
	b := testutil.NewBundle(0x42).
		AddChunk(t, 1, []byte("readme ")).
		AddChunk(t, 2, []byte("contents")).
		AddChunk(t, 3, []byte("bonjour"))
	spec := testutil.ManifestRows{
		Bundles: []BundleEntry{b.Entry()},
		Tags:    []TagEntry{{ID: 1, Name: "fr_FR"}},
		Directories: []DirectoryEntry{
			{ID: 0, ParentID: 0},
			{ID: 1, ParentID: 0, Name: "data"},
			{ID: 2, ParentID: 1, Name: "fr"},
		},
		Files: []FileEntry{
			{ID: 1, DirectoryID: 0, Name: "README", Size: 15, ChunkIDs: []uint64{1, 2}},
			{ID: 2, DirectoryID: 2, Name: "hello.txt", Size: 7, ChunkIDs: []uint64{3}, TagBitmask: 1},
			{ID: 3, DirectoryID: 1, Name: "link", Symlink: "../README"},
		},
	}
	m, err := Decode(testutil.BuildManifest(t, spec))
	require.NoError(t, err)
	return m, testutil.NewMemFetcher(b)
}

func TestExtract(t *testing.T) {
	t.Parallel()

	m, fetcher := extractFixture(t)
	dest := t.TempDir()

	var mu sync.Mutex
	var extracted []string
	d := NewDownloader(fetcher, WithProgress(func(e ProgressEvent) {
		if e.Stage != StageExtracting {
			return
		}
		mu.Lock()
		extracted = append(extracted, e.Path)
		mu.Unlock()
	}))

	stats, err := d.Extract(t.Context(), m.Data.Files, dest, ExtractWithWorkers(2))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 1, stats.Symlinks)
	assert.Equal(t, uint64(22), stats.TotalBytes)

	require.Len(t, stats.Files, 2)
	assert.Equal(t, "README", stats.Files[0].Path)
	assert.Equal(t, digest.FromString("readme contents"), stats.Files[0].Digest)
	assert.Equal(t, "data/fr/hello.txt", stats.Files[1].Path)

	got, err := os.ReadFile(filepath.Join(dest, "README"))
	require.NoError(t, err)
	assert.Equal(t, "readme contents", string(got))
	got, err = os.ReadFile(filepath.Join(dest, "data", "fr", "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bonjour", string(got))

	_, err = os.Lstat(filepath.Join(dest, "data", "link"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	mu.Lock()
	assert.ElementsMatch(t, []string{"README", "data/fr/hello.txt"}, extracted)
	mu.Unlock()

	// A second run skips existing files unless overwrite is enabled.
	stats, err = d.Extract(t.Context(), m.Data.Files, dest)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Processed)
	assert.Equal(t, 2, stats.Skipped)

	stats, err = d.Extract(t.Context(), m.Data.Files, dest, ExtractWithOverwrite(true))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)
}

func TestExtractWithFilter(t *testing.T) {
	t.Parallel()

	m, fetcher := extractFixture(t)
	dest := t.TempDir()

	stats, err := NewDownloader(fetcher).Extract(t.Context(), m.Data.Files, dest,
		ExtractWithFilter(func(f *File) bool { return f.HasTag("fr_FR") }))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)

	_, err = os.Stat(filepath.Join(dest, "README"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, err = os.Stat(filepath.Join(dest, "data", "fr", "hello.txt"))
	assert.NoError(t, err)
}

func TestExtractFailureLeavesNoPartialFile(t *testing.T) {
	t.Parallel()

	m, fetcher := extractFixture(t)
	fetcher.Fail(0x42, errors.New("unavailable"))
	dest := t.TempDir()

	_, err := NewDownloader(fetcher).Extract(t.Context(), m.Data.Files, dest, ExtractWithWorkers(-1))
	require.ErrorIs(t, err, ErrTransport)

	var leftovers []string
	require.NoError(t, filepath.WalkDir(dest, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			leftovers = append(leftovers, path)
		}
		return nil
	}))
	assert.Empty(t, leftovers)
}

func TestExtractRejectsEscapingPath(t *testing.T) {
	t.Parallel()

	files := []File{{Path: "../escape.txt"}}
	_, err := NewDownloader(testutil.NewMemFetcher()).Extract(t.Context(), files, t.TempDir())
	require.ErrorIs(t, err, os.ErrInvalid)
}
