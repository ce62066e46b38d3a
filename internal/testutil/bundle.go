package testutil

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/meigma/rman/internal/rmantype"
)

// Bundle accumulates independently compressed chunks back to back.
type Bundle struct {
	ID     uint64
	data   []byte
	chunks []rmantype.ChunkEntry
}

// NewBundle returns an empty bundle with the given id.
func NewBundle(id uint64) *Bundle {
	return &Bundle{ID: id}
}

// AddChunk compresses content and appends it as chunk id.
func (b *Bundle) AddChunk(tb testing.TB, id uint64, content []byte) *Bundle {
	tb.Helper()
	return b.AddRawChunk(id, Compress(tb, content), uint32(len(content))) //nolint:gosec // fixtures are small
}

// AddRawChunk appends stored bytes as chunk id with the given declared
// uncompressed size, without compressing them.
func (b *Bundle) AddRawChunk(id uint64, stored []byte, uncompressedSize uint32) *Bundle {
	b.data = append(b.data, stored...)
	b.chunks = append(b.chunks, rmantype.ChunkEntry{
		ID:               id,
		CompressedSize:   uint32(len(stored)), //nolint:gosec // fixtures are small
		UncompressedSize: uncompressedSize,
	})
	return b
}

// Entry returns the bundle's manifest row.
func (b *Bundle) Entry() rmantype.BundleEntry {
	return rmantype.BundleEntry{ID: b.ID, Chunks: slices.Clone(b.chunks)}
}

// Bytes returns the encoded bundle.
func (b *Bundle) Bytes() []byte {
	return b.data
}

// Request records one range fetch.
type Request struct {
	BundleID uint64
	From     uint64
	To       uint64
}

// MemFetcher serves bundle ranges from memory and records every request.
// It is safe for concurrent use.
type MemFetcher struct {
	mu       sync.Mutex
	bundles  map[uint64][]byte
	delays   map[uint64]time.Duration
	failures map[uint64]error
	requests []Request
}

// NewMemFetcher returns a fetcher serving the given bundles.
func NewMemFetcher(bundles ...*Bundle) *MemFetcher {
	f := &MemFetcher{
		bundles:  make(map[uint64][]byte),
		delays:   make(map[uint64]time.Duration),
		failures: make(map[uint64]error),
	}
	for _, b := range bundles {
		f.bundles[b.ID] = b.Bytes()
	}
	return f
}

// SetDelay delays every fetch from bundle id by d.
func (f *MemFetcher) SetDelay(id uint64, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays[id] = d
}

// Fail makes every fetch from bundle id return err.
func (f *MemFetcher) Fail(id uint64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[id] = err
}

// Requests returns the requests made so far, in call order.
func (f *MemFetcher) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.requests)
}

// FetchRange returns bytes [from, to] of the bundle.
func (f *MemFetcher) FetchRange(ctx context.Context, bundleID, from, to uint64) ([]byte, error) {
	f.mu.Lock()
	f.requests = append(f.requests, Request{BundleID: bundleID, From: from, To: to})
	data, ok := f.bundles[bundleID]
	delay := f.delays[bundleID]
	failure := f.failures[bundleID]
	f.mu.Unlock()

	resource := rmantype.BundleName(bundleID)
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, &rmantype.TransportError{Resource: resource, From: from, To: to, Err: ctx.Err()}
		case <-timer.C:
		}
	}
	if failure != nil {
		return nil, &rmantype.TransportError{Resource: resource, From: from, To: to, Err: failure}
	}
	if !ok {
		return nil, &rmantype.TransportError{Resource: resource, From: from, To: to, StatusCode: http.StatusNotFound}
	}
	if from > to || to >= uint64(len(data)) {
		return nil, &rmantype.TransportError{
			Resource:   resource,
			From:       from,
			To:         to,
			StatusCode: http.StatusRequestedRangeNotSatisfiable,
			Err:        fmt.Errorf("bundle has %d bytes", len(data)),
		}
	}
	return slices.Clone(data[from : to+1]), nil
}
