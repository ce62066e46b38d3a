package index

import (
	"encoding/binary"
	"fmt"

	"github.com/meigma/rman/internal/rmantype"
)

// maxTables bounds the number of tables visited during verification. Shared
// offsets let a small buffer reference the same table many times.
const maxTables = 1 << 23

type fieldKind uint8

const (
	kindScalar fieldKind = iota
	kindString
	kindScalarVector
	kindTableVector
)

type field struct {
	name string
	kind fieldKind
	// size is the inline width of a scalar, or the element width of a
	// scalar vector.
	size int
	sub  *schema
}

type schema struct {
	name   string
	fields []field
}

func scalar(name string, size int) field { return field{name: name, kind: kindScalar, size: size} }
func str(name string) field              { return field{name: name, kind: kindString} }
func tables(name string, s *schema) field {
	return field{name: name, kind: kindTableVector, sub: s}
}

var (
	chunkSchema = &schema{name: "Chunk", fields: []field{
		scalar("id", 8), scalar("compressed_size", 4), scalar("uncompressed_size", 4),
	}}
	bundleSchema = &schema{name: "Bundle", fields: []field{
		scalar("id", 8), tables("chunks", chunkSchema),
	}}
	tagSchema = &schema{name: "Tag", fields: []field{
		scalar("id", 1), str("name"),
	}}
	fileSchema = &schema{name: "File", fields: []field{
		scalar("id", 8),
		scalar("directory_id", 8),
		scalar("size", 4),
		str("name"),
		scalar("tag_bitmask", 8),
		scalar("unk5", 1),
		scalar("unk6", 1),
		{name: "chunk_ids", kind: kindScalarVector, size: 8},
		scalar("unk8", 1),
		str("symlink"),
		scalar("unk10", 2),
		scalar("chunking_param_id", 1),
		scalar("permissions", 1),
	}}
	directorySchema = &schema{name: "Directory", fields: []field{
		scalar("id", 8), scalar("parent_id", 8), str("name"),
	}}
	keySchema = &schema{name: "Key", fields: []field{
		scalar("unk0", 2), scalar("unk1", 4),
	}}
	chunkingParamSchema = &schema{name: "ChunkingParam", fields: []field{
		scalar("unk0", 2),
		scalar("chunking_version", 1),
		scalar("min_chunk_size", 4),
		scalar("chunk_size", 4),
		scalar("max_chunk_size", 4),
	}}
	manifestSchema = &schema{name: "Manifest", fields: []field{
		tables("bundles", bundleSchema),
		tables("tags", tagSchema),
		tables("files", fileSchema),
		tables("directories", directorySchema),
		tables("keys", keySchema),
		tables("chunking_params", chunkingParamSchema),
	}}
)

// Verify checks that buf is a structurally sound Manifest buffer: every
// table, vtable, vector, and string the accessors can reach lies inside buf.
// Errors match rmantype.ErrInvalidTable.
func Verify(buf []byte) error {
	v := verifier{buf: buf}
	root, err := v.uoffset(0, "root")
	if err != nil {
		return err
	}
	return v.table(root, manifestSchema, "manifest")
}

type verifier struct {
	buf    []byte
	tables int
}

func (v *verifier) fail(path, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", rmantype.ErrInvalidTable, path, fmt.Sprintf(format, args...))
}

// in reports whether [pos, pos+n) lies inside the buffer.
func (v *verifier) in(pos, n uint64) bool {
	return pos <= uint64(len(v.buf)) && n <= uint64(len(v.buf))-pos
}

// uoffset follows the unsigned offset stored at pos.
func (v *verifier) uoffset(pos uint64, path string) (uint64, error) {
	if !v.in(pos, 4) {
		return 0, v.fail(path, "offset at %d out of bounds", pos)
	}
	target := pos + uint64(binary.LittleEndian.Uint32(v.buf[pos:]))
	if !v.in(target, 4) {
		return 0, v.fail(path, "offset target %d out of bounds", target)
	}
	return target, nil
}

func (v *verifier) table(pos uint64, s *schema, path string) error {
	v.tables++
	if v.tables > maxTables {
		return v.fail(path, "too many tables")
	}
	if !v.in(pos, 4) {
		return v.fail(path, "table at %d out of bounds", pos)
	}

	soff := int64(int32(binary.LittleEndian.Uint32(v.buf[pos:])))
	vt := int64(pos) - soff
	if vt < 0 || !v.in(uint64(vt), 4) {
		return v.fail(path, "vtable at %d out of bounds", vt)
	}
	vtPos := uint64(vt)
	vtSize := uint64(binary.LittleEndian.Uint16(v.buf[vtPos:]))
	tblSize := uint64(binary.LittleEndian.Uint16(v.buf[vtPos+2:]))
	if vtSize < 4 || vtSize%2 != 0 || !v.in(vtPos, vtSize) {
		return v.fail(path, "invalid vtable size %d", vtSize)
	}
	if tblSize < 4 || !v.in(pos, tblSize) {
		return v.fail(path, "invalid table size %d", tblSize)
	}

	for i, f := range s.fields {
		slot := uint64(4 + 2*i)
		if slot+2 > vtSize {
			// Fields past the end of the vtable take their defaults.
			break
		}
		off := uint64(binary.LittleEndian.Uint16(v.buf[vtPos+slot:]))
		if off == 0 {
			continue
		}
		fpath := path + "." + f.name
		width := uint64(4)
		if f.kind == kindScalar {
			width = uint64(f.size)
		}
		if off+width > tblSize {
			return v.fail(fpath, "field overruns table")
		}
		if err := v.field(pos+off, f, fpath); err != nil {
			return err
		}
	}
	return nil
}

func (v *verifier) field(pos uint64, f field, path string) error {
	switch f.kind {
	case kindScalar:
		return nil
	case kindString:
		start, n, err := v.vector(pos, 1, path)
		if err != nil {
			return err
		}
		if !v.in(start+n, 1) || v.buf[start+n] != 0 {
			return v.fail(path, "string is not null terminated")
		}
		return nil
	case kindScalarVector:
		_, _, err := v.vector(pos, uint64(f.size), path)
		return err
	case kindTableVector:
		start, n, err := v.vector(pos, 4, path)
		if err != nil {
			return err
		}
		for j := range n {
			epath := fmt.Sprintf("%s[%d]", path, j)
			elem, err := v.uoffset(start+4*j, epath)
			if err != nil {
				return err
			}
			if err := v.table(elem, f.sub, epath); err != nil {
				return err
			}
		}
		return nil
	default:
		return v.fail(path, "unknown field kind %d", f.kind)
	}
}

// vector follows the offset at pos and checks that n elements of elemSize
// bytes fit. It returns the position of the first element and the count.
func (v *verifier) vector(pos, elemSize uint64, path string) (start, n uint64, err error) {
	hdr, err := v.uoffset(pos, path)
	if err != nil {
		return 0, 0, err
	}
	n = uint64(binary.LittleEndian.Uint32(v.buf[hdr:]))
	start = hdr + 4
	if n > uint64(len(v.buf)) || !v.in(start, n*elemSize) {
		return 0, 0, v.fail(path, "vector of %d elements out of bounds", n)
	}
	return start, n, nil
}
