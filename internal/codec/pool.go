// Package codec decompresses manifest payloads and bundle chunks.
package codec

import (
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// DefaultMaxDecoderMemory is the default maximum decoder memory (256MB).
const DefaultMaxDecoderMemory = 256 << 20

// Pool manages reusable zstd decoders to reduce allocation overhead.
// A nil *Pool, or one made by NewOneShot, creates a one-off decoder per call.
type Pool struct {
	pool                  *sync.Pool
	maxDecoderMemory      uint64
	decoderConcurrencySet bool
	decoderConcurrency    int
	decoderLowmemSet      bool
	decoderLowmem         bool
}

// Option configures a Pool.
type Option func(*Pool)

// WithDecoderConcurrency sets the decoder concurrency level (default: 1).
// Values < 0 are treated as 0 (use GOMAXPROCS).
func WithDecoderConcurrency(n int) Option {
	return func(p *Pool) {
		if n < 0 {
			n = 0
		}
		p.decoderConcurrency = n
		p.decoderConcurrencySet = true
	}
}

// WithDecoderLowmem enables or disables low-memory mode for decoders.
func WithDecoderLowmem(b bool) Option {
	return func(p *Pool) {
		p.decoderLowmem = b
		p.decoderLowmemSet = true
	}
}

// NewPool creates a new pool for zstd decoders.
// If maxMemory is 0, no memory limit is applied to decoders.
func NewPool(maxMemory uint64, opts ...Option) *Pool {
	p := NewOneShot(maxMemory, opts...)
	p.pool = &sync.Pool{
		New: func() any {
			dec, err := p.newDecoder(nil)
			if err != nil {
				return nil
			}
			return dec
		},
	}
	return p
}

// NewOneShot returns a Pool that creates a fresh decoder for every call and
// closes it on release. It suits single decodes, where pooling never reuses
// anything.
func NewOneShot(maxMemory uint64, opts ...Option) *Pool {
	p := &Pool{
		maxDecoderMemory:      maxMemory,
		decoderConcurrencySet: true,
		decoderConcurrency:    1,
		decoderLowmemSet:      true,
		decoderLowmem:         false,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get returns a decoder configured to read from r.
// The caller must call the returned release function when done.
// If an error is returned, no release function needs to be called.
func (p *Pool) Get(r io.Reader) (*zstd.Decoder, func(), error) {
	if p == nil || p.pool == nil {
		dec, err := p.newDecoder(r)
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil
	}

	dec, ok := p.pool.Get().(*zstd.Decoder)
	if !ok {
		// New failed or the pool held something else.
		dec, err := p.newDecoder(r)
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil
	}

	if err := dec.Reset(r); err != nil {
		dec.Close()
		dec, err := p.newDecoder(r)
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil
	}

	return dec, func() {
		_ = dec.Reset(nil) //nolint:errcheck // clearing state before pool return
		p.pool.Put(dec)
	}, nil
}

// newDecoder creates a new zstd decoder with the configured memory limit.
func (p *Pool) newDecoder(r io.Reader) (*zstd.Decoder, error) {
	if p == nil {
		return zstd.NewReader(r)
	}

	opts := make([]zstd.DOption, 0, 3)
	if p.decoderConcurrencySet {
		opts = append(opts, zstd.WithDecoderConcurrency(p.decoderConcurrency))
	}
	if p.decoderLowmemSet {
		opts = append(opts, zstd.WithDecoderLowmem(p.decoderLowmem))
	}
	if p.maxDecoderMemory != 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(p.maxDecoderMemory))
	}
	return zstd.NewReader(r, opts...)
}
