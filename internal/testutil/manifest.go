// Package testutil builds manifest fixtures and serves bundles from memory.
package testutil

import (
	"testing"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/zstd"

	"github.com/meigma/rman/internal/fb"
	"github.com/meigma/rman/internal/frame"
	"github.com/meigma/rman/internal/rmantype"
)

// ManifestID is the manifest id written by BuildManifest.
const ManifestID uint64 = 0x0123456789ABCDEF

// ManifestRows holds the rows of a test manifest.
type ManifestRows struct {
	Bundles        []rmantype.BundleEntry
	Tags           []rmantype.TagEntry
	Files          []rmantype.FileEntry
	Directories    []rmantype.DirectoryEntry
	Keys           []rmantype.KeyEntry
	ChunkingParams []rmantype.ChunkingParamEntry

	// OmitEmpty leaves empty tables out of the root table entirely instead
	// of writing zero-length vectors.
	OmitEmpty bool
}

// ValidRows returns a small manifest with one bundle holding one chunk, the
// root directory plus "Test", one tag, and a single file "Test/file.txt".
func ValidRows() ManifestRows {
	return ManifestRows{
		Bundles: []rmantype.BundleEntry{{
			ID:     0,
			Chunks: []rmantype.ChunkEntry{{ID: 0, CompressedSize: 4, UncompressedSize: 4}},
		}},
		Tags: []rmantype.TagEntry{{ID: 0, Name: "en_US"}},
		Files: []rmantype.FileEntry{{
			ID:          0,
			DirectoryID: 1,
			Size:        4,
			Name:        "file.txt",
			ChunkIDs:    []uint64{0},
		}},
		Directories: []rmantype.DirectoryEntry{
			{ID: 0, ParentID: 0, Name: ""},
			{ID: 1, ParentID: 0, Name: "Test"},
		},
		Keys:           []rmantype.KeyEntry{{Unk0: 1, Unk1: 4}},
		ChunkingParams: []rmantype.ChunkingParamEntry{{Unk0: 0, ChunkingVersion: 3, MinChunkSize: 2, ChunkSize: 8, MaxChunkSize: 32}},
	}
}

// BuildManifest encodes spec into a complete manifest: a valid header
// followed by the zstd-compressed payload.
func BuildManifest(tb testing.TB, spec ManifestRows) []byte {
	tb.Helper()
	return BuildManifestWithHeader(tb, spec, nil)
}

// BuildManifestWithHeader is like BuildManifest but lets mutate adjust the
// header before it is encoded.
func BuildManifestWithHeader(tb testing.TB, spec ManifestRows, mutate func(*frame.Header)) []byte {
	tb.Helper()

	payload := BuildPayload(tb, spec)
	compressed := Compress(tb, payload)

	h := frame.Header{
		Magic:            frame.Magic,
		Major:            frame.MajorVersion,
		Minor:            frame.MinorVersion,
		Offset:           frame.Size,
		CompressedSize:   uint32(len(compressed)), //nolint:gosec // fixtures are small
		ManifestID:       ManifestID,
		UncompressedSize: uint32(len(payload)), //nolint:gosec // fixtures are small
	}
	if mutate != nil {
		mutate(&h)
	}
	out, err := h.AppendBinary(make([]byte, 0, frame.Size+len(compressed)))
	if err != nil {
		tb.Fatalf("encode header: %v", err)
	}
	return append(out, compressed...)
}

// Compress returns data as a single zstd frame at the highest compression level.
func Compress(tb testing.TB, data []byte) []byte {
	tb.Helper()
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		tb.Fatalf("create zstd encoder: %v", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

// BuildPayload encodes spec as an uncompressed FlatBuffers Manifest.
func BuildPayload(tb testing.TB, spec ManifestRows) []byte {
	tb.Helper()

	b := flatbuffers.NewBuilder(1024)

	bundles := make([]flatbuffers.UOffsetT, len(spec.Bundles))
	for i, bundle := range spec.Bundles {
		chunks := make([]flatbuffers.UOffsetT, len(bundle.Chunks))
		for j, c := range bundle.Chunks {
			fb.ChunkStart(b)
			fb.ChunkAddId(b, c.ID)
			fb.ChunkAddCompressedSize(b, c.CompressedSize)
			fb.ChunkAddUncompressedSize(b, c.UncompressedSize)
			chunks[j] = fb.ChunkEnd(b)
		}
		chunkVec := offsetVector(b, fb.BundleStartChunksVector, chunks)

		fb.BundleStart(b)
		fb.BundleAddId(b, bundle.ID)
		fb.BundleAddChunks(b, chunkVec)
		bundles[i] = fb.BundleEnd(b)
	}

	tags := make([]flatbuffers.UOffsetT, len(spec.Tags))
	for i, t := range spec.Tags {
		name := b.CreateString(t.Name)
		fb.TagStart(b)
		fb.TagAddId(b, t.ID)
		fb.TagAddName(b, name)
		tags[i] = fb.TagEnd(b)
	}

	files := make([]flatbuffers.UOffsetT, len(spec.Files))
	for i, f := range spec.Files {
		name := b.CreateString(f.Name)
		symlink := b.CreateString(f.Symlink)
		fb.FileStartChunkIdsVector(b, len(f.ChunkIDs))
		for j := len(f.ChunkIDs) - 1; j >= 0; j-- {
			b.PrependUint64(f.ChunkIDs[j])
		}
		chunkIDs := b.EndVector(len(f.ChunkIDs))

		fb.FileStart(b)
		fb.FileAddId(b, f.ID)
		fb.FileAddDirectoryId(b, f.DirectoryID)
		fb.FileAddSize(b, f.Size)
		fb.FileAddName(b, name)
		fb.FileAddTagBitmask(b, f.TagBitmask)
		fb.FileAddUnk5(b, f.Unk5)
		fb.FileAddUnk6(b, f.Unk6)
		fb.FileAddChunkIds(b, chunkIDs)
		fb.FileAddUnk8(b, f.Unk8)
		fb.FileAddSymlink(b, symlink)
		fb.FileAddUnk10(b, f.Unk10)
		fb.FileAddChunkingParamId(b, f.ChunkingParamID)
		fb.FileAddPermissions(b, f.Permissions)
		files[i] = fb.FileEnd(b)
	}

	dirs := make([]flatbuffers.UOffsetT, len(spec.Directories))
	for i, d := range spec.Directories {
		name := b.CreateString(d.Name)
		fb.DirectoryStart(b)
		fb.DirectoryAddId(b, d.ID)
		fb.DirectoryAddParentId(b, d.ParentID)
		fb.DirectoryAddName(b, name)
		dirs[i] = fb.DirectoryEnd(b)
	}

	keys := make([]flatbuffers.UOffsetT, len(spec.Keys))
	for i, k := range spec.Keys {
		fb.KeyStart(b)
		fb.KeyAddUnk0(b, k.Unk0)
		fb.KeyAddUnk1(b, k.Unk1)
		keys[i] = fb.KeyEnd(b)
	}

	params := make([]flatbuffers.UOffsetT, len(spec.ChunkingParams))
	for i, p := range spec.ChunkingParams {
		fb.ChunkingParamStart(b)
		fb.ChunkingParamAddUnk0(b, p.Unk0)
		fb.ChunkingParamAddChunkingVersion(b, p.ChunkingVersion)
		fb.ChunkingParamAddMinChunkSize(b, p.MinChunkSize)
		fb.ChunkingParamAddChunkSize(b, p.ChunkSize)
		fb.ChunkingParamAddMaxChunkSize(b, p.MaxChunkSize)
		params[i] = fb.ChunkingParamEnd(b)
	}

	vec := func(start func(*flatbuffers.Builder, int) flatbuffers.UOffsetT, offs []flatbuffers.UOffsetT) flatbuffers.UOffsetT {
		if spec.OmitEmpty && len(offs) == 0 {
			return 0
		}
		return offsetVector(b, start, offs)
	}
	bundleVec := vec(fb.ManifestStartBundlesVector, bundles)
	tagVec := vec(fb.ManifestStartTagsVector, tags)
	fileVec := vec(fb.ManifestStartFilesVector, files)
	dirVec := vec(fb.ManifestStartDirectoriesVector, dirs)
	keyVec := vec(fb.ManifestStartKeysVector, keys)
	paramVec := vec(fb.ManifestStartChunkingParamsVector, params)

	fb.ManifestStart(b)
	// A zero offset leaves the slot unset.
	fb.ManifestAddBundles(b, bundleVec)
	fb.ManifestAddTags(b, tagVec)
	fb.ManifestAddFiles(b, fileVec)
	fb.ManifestAddDirectories(b, dirVec)
	fb.ManifestAddKeys(b, keyVec)
	fb.ManifestAddChunkingParams(b, paramVec)
	fb.FinishManifestBuffer(b, fb.ManifestEnd(b))

	return b.FinishedBytes()
}

func offsetVector(b *flatbuffers.Builder, start func(*flatbuffers.Builder, int) flatbuffers.UOffsetT, offs []flatbuffers.UOffsetT) flatbuffers.UOffsetT {
	start(b, len(offs))
	for i := len(offs) - 1; i >= 0; i-- {
		b.PrependUOffsetT(offs[i])
	}
	return b.EndVector(len(offs))
}
