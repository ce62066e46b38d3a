// Package frame parses the fixed 28-byte preamble of an RMAN manifest.
package frame

import (
	"encoding/binary"
	"log/slog"

	"github.com/meigma/rman/internal/rmantype"
)

// Header layout constants.
const (
	// Size is the encoded length of a header in bytes.
	Size = 28

	// Magic is "RMAN" read as a little-endian uint32.
	Magic uint32 = 0x4E414D52

	// MajorVersion is the only major version this package understands.
	MajorVersion uint8 = 2

	// MinorVersion is the expected minor version for MajorVersion.
	MinorVersion uint8 = 0
)

// Header is the decoded manifest preamble.
type Header struct {
	Magic uint32
	Major uint8
	Minor uint8

	// Flags is opaque and never validated.
	Flags uint16

	// Offset is the absolute byte offset of the compressed payload.
	Offset uint32

	CompressedSize uint32

	// ManifestID is an opaque identifier.
	ManifestID uint64

	UncompressedSize uint32
}

// VersionPolicy controls how version mismatches are handled.
// A lenient mismatch is logged and decoding continues.
type VersionPolicy struct {
	StrictMajor bool
	StrictMinor bool
}

// Config configures Parse.
type Config struct {
	Versions VersionPolicy
	Logger   *slog.Logger
}

func (c *Config) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Parse decodes and validates the header at the start of b.
//
// b must be the complete manifest: the payload offset and compressed size are
// validated against len(b). A short buffer yields an error matching
// rmantype.ErrTruncated; a complete but malformed header yields an error
// matching rmantype.ErrInvalidHeader.
func Parse(b []byte, cfg Config) (Header, error) {
	var h Header
	r := reader{buf: b}
	fileSize := uint64(len(b))

	var err error
	if h.Magic, err = r.uint32("magic"); err != nil {
		return Header{}, err
	}
	if h.Magic != Magic {
		return Header{}, &rmantype.InvalidMagicError{Magic: h.Magic, Expected: Magic}
	}

	if h.Major, err = r.uint8("major"); err != nil {
		return Header{}, err
	}
	if h.Minor, err = r.uint8("minor"); err != nil {
		return Header{}, err
	}
	if err := checkVersion(h.Major, h.Minor, &cfg); err != nil {
		return Header{}, err
	}

	if h.Flags, err = r.uint16("flags"); err != nil {
		return Header{}, err
	}

	if h.Offset, err = r.uint32("offset"); err != nil {
		return Header{}, err
	}
	if h.Offset < Size || uint64(h.Offset) >= fileSize {
		return Header{}, &rmantype.InvalidOffsetError{FileSize: fileSize, Offset: h.Offset}
	}

	if h.CompressedSize, err = r.uint32("compressed_size"); err != nil {
		return Header{}, err
	}
	// fileSize > Size holds here because Offset passed its check.
	if uint64(h.CompressedSize) > fileSize-Size ||
		uint64(h.Offset)+uint64(h.CompressedSize) > fileSize {
		return Header{}, &rmantype.CompressedSizeError{
			FileSize:       fileSize,
			Offset:         h.Offset,
			CompressedSize: h.CompressedSize,
		}
	}

	if h.ManifestID, err = r.uint64("manifest_id"); err != nil {
		return Header{}, err
	}
	if h.UncompressedSize, err = r.uint32("uncompressed_size"); err != nil {
		return Header{}, err
	}
	return h, nil
}

// checkVersion applies the version policy. The minor version is only
// meaningful for the known major version.
func checkVersion(major, minor uint8, cfg *Config) error {
	if major != MajorVersion {
		if cfg.Versions.StrictMajor {
			return &rmantype.UnsupportedVersionError{Field: "major", Version: major, Expected: MajorVersion}
		}
		cfg.log().Warn("unsupported major version; decoding may fail",
			"major", major, "expected", MajorVersion)
		return nil
	}
	if minor != MinorVersion {
		if cfg.Versions.StrictMinor {
			return &rmantype.UnsupportedVersionError{Field: "minor", Version: minor, Expected: MinorVersion}
		}
		cfg.log().Info("unexpected minor version; decoding will probably still work",
			"minor", minor, "expected", MinorVersion)
	}
	return nil
}

// AppendBinary appends the 28-byte encoding of h to b.
func (h Header) AppendBinary(b []byte) ([]byte, error) {
	b = binary.LittleEndian.AppendUint32(b, h.Magic)
	b = append(b, h.Major, h.Minor)
	b = binary.LittleEndian.AppendUint16(b, h.Flags)
	b = binary.LittleEndian.AppendUint32(b, h.Offset)
	b = binary.LittleEndian.AppendUint32(b, h.CompressedSize)
	b = binary.LittleEndian.AppendUint64(b, h.ManifestID)
	b = binary.LittleEndian.AppendUint32(b, h.UncompressedSize)
	return b, nil
}

// Payload returns the compressed payload slice of a manifest whose header
// has already been validated by Parse.
func (h Header) Payload(b []byte) []byte {
	end := uint64(h.Offset) + uint64(h.CompressedSize)
	return b[h.Offset:end:end]
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) take(field string, n int) ([]byte, error) {
	if len(r.buf)-r.off < n {
		return nil, &rmantype.ReadError{Field: field, Offset: r.off, Need: n, Have: len(r.buf) - r.off}
	}
	p := r.buf[r.off : r.off+n]
	r.off += n
	return p, nil
}

func (r *reader) uint8(field string) (uint8, error) {
	p, err := r.take(field, 1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (r *reader) uint16(field string) (uint16, error) {
	p, err := r.take(field, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(p), nil
}

func (r *reader) uint32(field string) (uint32, error) {
	p, err := r.take(field, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(p), nil
}

func (r *reader) uint64(field string) (uint64, error) {
	p, err := r.take(field, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(p), nil
}
