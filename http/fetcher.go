// Package http fetches bundle byte ranges over HTTP.
package http //nolint:revive // intentional naming for domain clarity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/semaphore"

	"github.com/meigma/rman/internal/rmantype"
	"github.com/meigma/rman/internal/sizing"
)

// Fetcher issues one range GET per call against {base}/{ID:016X}.bundle.
// It is safe for concurrent use.
type Fetcher struct {
	baseURL string
	client  *nethttp.Client
	headers nethttp.Header
	maxReqs int64
	sem     *semaphore.Weighted
	logger  *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets the HTTP client used for requests.
func WithClient(client *nethttp.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithHeaders sets additional headers on each request.
func WithHeaders(headers nethttp.Header) Option {
	return func(f *Fetcher) {
		if headers == nil {
			return
		}
		f.headers = headers.Clone()
	}
}

// WithHeader sets a single header on each request.
func WithHeader(key, value string) Option {
	return func(f *Fetcher) {
		if f.headers == nil {
			f.headers = make(nethttp.Header)
		}
		f.headers.Set(key, value)
	}
}

// WithMaxConcurrentRequests caps the number of requests in flight.
// Values < 1 remove the cap.
func WithMaxConcurrentRequests(n int) Option {
	return func(f *Fetcher) {
		f.maxReqs = int64(n)
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher for bundles stored under baseURL.
func NewFetcher(baseURL string, opts ...Option) (*Fetcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse bundle base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("bundle base url %q: unsupported scheme %q", baseURL, u.Scheme)
	}

	f := &Fetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  nethttp.DefaultClient,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = nethttp.DefaultClient
	}
	if f.maxReqs > 0 {
		f.sem = semaphore.NewWeighted(f.maxReqs)
	}
	return f, nil
}

func (f *Fetcher) log() *slog.Logger {
	if f.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return f.logger
}

// URL returns the resource URL of a bundle.
func (f *Fetcher) URL(bundleID uint64) string {
	return f.baseURL + "/" + rmantype.BundleName(bundleID)
}

// FetchRange returns bytes [from, to] (inclusive) of a bundle.
//
// Any failure, including a non-206 response or a short body, is returned as
// a *rmantype.TransportError. Requests are never retried.
func (f *Fetcher) FetchRange(ctx context.Context, bundleID, from, to uint64) ([]byte, error) {
	resource := f.URL(bundleID)
	fail := func(status int, err error) error {
		return &rmantype.TransportError{Resource: resource, From: from, To: to, StatusCode: status, Err: err}
	}
	if to < from {
		return nil, fail(0, fmt.Errorf("invalid range %d-%d", from, to))
	}
	length, err := sizing.ToInt(to-from+1, rmantype.ErrSizeOverflow)
	if err != nil {
		return nil, fail(0, err)
	}

	if f.sem != nil {
		if err := f.sem.Acquire(ctx, 1); err != nil {
			return nil, fail(0, err)
		}
		defer f.sem.Release(1)
	}

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, resource, nethttp.NoBody)
	if err != nil {
		return nil, fail(0, err)
	}
	for key, values := range f.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", "identity")
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", from, to))

	f.log().Debug("range request", "url", resource, "from", from, "to", to)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fail(0, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // best-effort drain for connection reuse
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case nethttp.StatusPartialContent:
		// ok
	case nethttp.StatusOK:
		return nil, fail(resp.StatusCode, errors.New("range requests not supported"))
	default:
		return nil, fail(resp.StatusCode, nil)
	}

	buf := make([]byte, length)
	n, err := io.ReadFull(resp.Body, buf)
	if err != nil {
		return nil, fail(resp.StatusCode, fmt.Errorf("read body (%d of %d bytes): %w", n, length, err))
	}
	return buf, nil
}
