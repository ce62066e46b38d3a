package rman

import (
	"bytes"
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/rman/internal/testutil"
)

// decodeFixture builds and decodes a manifest whose files live in the root
// directory and whose chunks come from bundles.
func decodeFixture(t *testing.T, bundles []*testutil.Bundle, files ...FileEntry) *Manifest {
	t.Helper()
	spec := testutil.ManifestRows{
		Directories: []DirectoryEntry{{ID: 0, ParentID: 0}},
		Files:       files,
	}
	for _, b := range bundles {
		spec.Bundles = append(spec.Bundles, b.Entry())
	}
	m, err := Decode(testutil.BuildManifest(t, spec))
	require.NoError(t, err)
	return m
}

func TestDownloadPreservesChunkOrder(t *testing.T) {
	t.Parallel()

	slow := testutil.NewBundle(0xA).AddChunk(t, 1, []byte("first,"))
	fast := testutil.NewBundle(0xB).
		AddChunk(t, 2, []byte("second,")).
		AddChunk(t, 3, []byte("third"))
	m := decodeFixture(t, []*testutil.Bundle{slow, fast},
		FileEntry{ID: 1, Name: "out.txt", Size: 18, ChunkIDs: []uint64{1, 2, 3}})

	fetcher := testutil.NewMemFetcher(slow, fast)
	fetcher.SetDelay(0xA, 50*time.Millisecond)

	var buf bytes.Buffer
	err := NewDownloader(fetcher).Download(t.Context(), &m.Data.Files[0], &buf)
	require.NoError(t, err)
	assert.Equal(t, "first,second,third", buf.String())

	reqs := fetcher.Requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, uint64(0xA), reqs[0].BundleID)
	assert.Equal(t, uint64(0xB), reqs[1].BundleID)
	assert.Equal(t, uint64(0), reqs[1].From)
	assert.Equal(t, reqs[1].To+1, reqs[2].From)
}

func TestDownloadSharedChunk(t *testing.T) {
	t.Parallel()

	b := testutil.NewBundle(1).AddChunk(t, 10, []byte("shared"))
	m := decodeFixture(t, []*testutil.Bundle{b},
		FileEntry{ID: 1, Name: "a", Size: 6, ChunkIDs: []uint64{10}},
		FileEntry{ID: 2, Name: "b", Size: 6, ChunkIDs: []uint64{10}},
	)
	fetcher := testutil.NewMemFetcher(b)
	fetcher.SetDelay(1, 20*time.Millisecond)
	d := NewDownloader(fetcher)

	var wg sync.WaitGroup
	outs := make([]bytes.Buffer, len(m.Data.Files))
	errs := make([]error, len(m.Data.Files))
	for i := range m.Data.Files {
		wg.Go(func() {
			errs[i] = d.Download(t.Context(), &m.Data.Files[i], &outs[i])
		})
	}
	wg.Wait()

	for i := range outs {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared", outs[i].String())
	}
	assert.LessOrEqual(t, len(fetcher.Requests()), 2)
}

func TestDownloadSharedChunkIndependentCancellation(t *testing.T) {
	t.Parallel()

	b := testutil.NewBundle(1).AddChunk(t, 10, []byte("shared content"))
	m := decodeFixture(t, []*testutil.Bundle{b},
		FileEntry{ID: 1, Name: "a", Size: 14, ChunkIDs: []uint64{10}},
		FileEntry{ID: 2, Name: "b", Size: 14, ChunkIDs: []uint64{10}},
	)
	fetcher := testutil.NewMemFetcher(b)
	fetcher.SetDelay(1, 200*time.Millisecond)
	d := NewDownloader(fetcher)

	ctxA, cancelA := context.WithCancel(t.Context())
	defer cancelA()

	var wg sync.WaitGroup
	var errA, errB error
	var outB bytes.Buffer
	wg.Go(func() {
		errA = d.Download(ctxA, &m.Data.Files[0], &bytes.Buffer{})
	})
	time.Sleep(20 * time.Millisecond)
	wg.Go(func() {
		errB = d.Download(t.Context(), &m.Data.Files[1], &outB)
	})
	time.Sleep(20 * time.Millisecond)
	cancelA()
	wg.Wait()

	require.ErrorIs(t, errA, context.Canceled)
	require.NoError(t, errB)
	assert.Equal(t, "shared content", outB.String())
}

func TestDownloadOffsetOverflow(t *testing.T) {
	t.Parallel()

	fetcher := testutil.NewMemFetcher()
	f := &File{Path: "f", Chunks: []ChunkRef{{
		BundleID:         1,
		Offset:           math.MaxUint64 - 2,
		CompressedSize:   8,
		UncompressedSize: 8,
	}}}
	err := NewDownloader(fetcher).Download(t.Context(), f, &bytes.Buffer{})
	require.ErrorIs(t, err, ErrSizeOverflow)
	assert.Empty(t, fetcher.Requests())
}

func TestDownloadDecompressionMismatch(t *testing.T) {
	t.Parallel()

	content := []byte("payload")
	b := testutil.NewBundle(1).AddRawChunk(5, testutil.Compress(t, content), uint32(len(content)+1))
	m := decodeFixture(t, []*testutil.Bundle{b},
		FileEntry{ID: 1, Name: "f", Size: 8, ChunkIDs: []uint64{5}})

	var buf bytes.Buffer
	err := NewDownloader(testutil.NewMemFetcher(b)).Download(t.Context(), &m.Data.Files[0], &buf)
	require.ErrorIs(t, err, ErrDecompression)

	var ce *ChunkError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "f", ce.Path)
	assert.Equal(t, 0, ce.Index)
	assert.Equal(t, uint64(1), ce.BundleID)
	assert.Zero(t, buf.Len())
}

func TestDownloadTransportError(t *testing.T) {
	t.Parallel()

	good := testutil.NewBundle(1).AddChunk(t, 1, []byte("ok"))
	bad := testutil.NewBundle(2).AddChunk(t, 2, []byte("never"))
	m := decodeFixture(t, []*testutil.Bundle{good, bad},
		FileEntry{ID: 1, Name: "f", Size: 7, ChunkIDs: []uint64{1, 2}})

	fetcher := testutil.NewMemFetcher(good, bad)
	fetcher.Fail(2, errors.New("connection reset"))

	var buf bytes.Buffer
	err := NewDownloader(fetcher).Download(t.Context(), &m.Data.Files[0], &buf)
	require.ErrorIs(t, err, ErrTransport)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, BundleName(2), te.Resource)
	var ce *ChunkError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 1, ce.Index)

	// The first chunk was already written when the second failed.
	assert.Equal(t, "ok", buf.String())
}

type shortFetcher struct{}

func (shortFetcher) FetchRange(_ context.Context, _, from, to uint64) ([]byte, error) {
	return make([]byte, to-from), nil
}

func TestDownloadShortResponse(t *testing.T) {
	t.Parallel()

	f := &File{Path: "f", Chunks: []ChunkRef{{BundleID: 1, Offset: 0, CompressedSize: 8, UncompressedSize: 8}}}
	err := NewDownloader(shortFetcher{}).Download(t.Context(), f, &bytes.Buffer{})
	require.ErrorIs(t, err, ErrTransport)
}

func TestDownloadZeroLengthChunk(t *testing.T) {
	t.Parallel()

	b := testutil.NewBundle(1).
		AddChunk(t, 1, []byte("abc")).
		AddRawChunk(2, nil, 0).
		AddChunk(t, 3, []byte("def"))
	m := decodeFixture(t, []*testutil.Bundle{b},
		FileEntry{ID: 1, Name: "f", Size: 6, ChunkIDs: []uint64{1, 2, 3}})

	fetcher := testutil.NewMemFetcher(b)
	var buf bytes.Buffer
	require.NoError(t, NewDownloader(fetcher).Download(t.Context(), &m.Data.Files[0], &buf))
	assert.Equal(t, "abcdef", buf.String())
	assert.Len(t, fetcher.Requests(), 2)

	bad := &File{Path: "g", Chunks: []ChunkRef{{BundleID: 1, UncompressedSize: 5}}}
	err := NewDownloader(fetcher).Download(t.Context(), bad, &bytes.Buffer{})
	require.ErrorIs(t, err, ErrDecompression)
}

func TestDownloadChunkLimit(t *testing.T) {
	t.Parallel()

	b := testutil.NewBundle(1).AddChunk(t, 1, bytes.Repeat([]byte("x"), 128))
	m := decodeFixture(t, []*testutil.Bundle{b},
		FileEntry{ID: 1, Name: "f", Size: 128, ChunkIDs: []uint64{1}})

	fetcher := testutil.NewMemFetcher(b)
	err := NewDownloader(fetcher, WithMaxChunkSize(64)).Download(t.Context(), &m.Data.Files[0], &bytes.Buffer{})
	require.ErrorIs(t, err, ErrSizeOverflow)
	assert.Empty(t, fetcher.Requests())
}

func TestDownloadCancellation(t *testing.T) {
	t.Parallel()

	b1 := testutil.NewBundle(1).AddChunk(t, 1, []byte("one"))
	b2 := testutil.NewBundle(2).AddChunk(t, 2, []byte("two"))
	m := decodeFixture(t, []*testutil.Bundle{b1, b2},
		FileEntry{ID: 1, Name: "f", Size: 6, ChunkIDs: []uint64{1, 2}})

	t.Run("before start", func(t *testing.T) {
		t.Parallel()
		fetcher := testutil.NewMemFetcher(b1, b2)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		err := NewDownloader(fetcher).Download(ctx, &m.Data.Files[0], &bytes.Buffer{})
		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, fetcher.Requests())
	})

	t.Run("between chunks", func(t *testing.T) {
		t.Parallel()
		fetcher := testutil.NewMemFetcher(b1, b2)
		fetcher.SetDelay(2, 10*time.Second)
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		// Cancel as soon as the first chunk is written.
		d := NewDownloader(fetcher, WithProgress(func(ProgressEvent) { cancel() }))
		var buf bytes.Buffer
		err := d.Download(ctx, &m.Data.Files[0], &buf)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, "one", buf.String())
		assert.Len(t, fetcher.Requests(), 1)
	})
}

func TestDownloadProgress(t *testing.T) {
	t.Parallel()

	b := testutil.NewBundle(1).
		AddChunk(t, 1, []byte("abcd")).
		AddChunk(t, 2, []byte("efgh"))
	m := decodeFixture(t, []*testutil.Bundle{b},
		FileEntry{ID: 1, Name: "f", Size: 8, ChunkIDs: []uint64{1, 2}})

	var events []ProgressEvent
	d := NewDownloader(testutil.NewMemFetcher(b), WithProgress(func(e ProgressEvent) {
		events = append(events, e)
	}))
	require.NoError(t, d.Download(t.Context(), &m.Data.Files[0], &bytes.Buffer{}))

	require.Len(t, events, 2)
	assert.Equal(t, StageDownloading, events[0].Stage)
	assert.Equal(t, uint64(4), events[0].BytesDone)
	assert.Equal(t, uint64(8), events[1].BytesDone)
	assert.Equal(t, uint64(8), events[1].BytesTotal)
}

func TestDownloadFromURL(t *testing.T) {
	t.Parallel()

	b := testutil.NewBundle(0x1F).
		AddChunk(t, 1, []byte("hello ")).
		AddChunk(t, 2, []byte("world"))
	m := decodeFixture(t, []*testutil.Bundle{b},
		FileEntry{ID: 1, Name: "f", Size: 11, ChunkIDs: []uint64{1, 2}})

	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		if !strings.HasSuffix(r.URL.Path, "/"+BundleName(0x1F)) {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, "bundle", time.Time{}, bytes.NewReader(b.Bytes()))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	require.NoError(t, DownloadFromURL(t.Context(), &m.Data.Files[0], &buf, srv.URL+"/bundles/"))
	assert.Equal(t, "hello world", buf.String())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/bundles/000000000000001F.bundle", "/bundles/000000000000001F.bundle"}, paths)

	err := DownloadFromURL(t.Context(), &m.Data.Files[0], &buf, "ftp://example.com")
	require.Error(t, err)
}
