package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/meigma/rman/internal/rmantype"
	"github.com/meigma/rman/internal/sizing"
)

// DecompressExact decompresses the zstd frame in src into exactly size bytes.
//
// A codec failure, a short frame, or a frame that yields more than size bytes
// returns an error matching rmantype.ErrDecompression. No partial output is
// returned on failure.
func (p *Pool) DecompressExact(src []byte, size uint64) ([]byte, error) {
	n, err := sizing.ToInt(size, rmantype.ErrSizeOverflow)
	if err != nil {
		return nil, err
	}

	dec, release, err := p.Get(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rmantype.ErrDecompression, err)
	}
	defer release()

	out := make([]byte, n)
	read, err := io.ReadFull(dec, out)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: short output (%d of %d bytes)", rmantype.ErrDecompression, read, n)
		}
		return nil, fmt.Errorf("%w: %v", rmantype.ErrDecompression, err)
	}
	if err := EnsureNoExtra(dec); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureNoExtra reads from r and returns an error if any data is available.
// It detects decompressed output that exceeds the declared size.
func EnsureNoExtra(r io.Reader) error {
	var scratch [1]byte
	n, err := r.Read(scratch[:])
	if n > 0 {
		return fmt.Errorf("%w: output exceeds declared size", rmantype.ErrDecompression)
	}
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("%w: %v", rmantype.ErrDecompression, err)
}
