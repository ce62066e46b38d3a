//go:generate flatc --go --go-namespace fb -o internal schema/manifest.fbs

// Package rman decodes RMAN content-delivery manifests and reconstructs the
// files they describe from remote bundles.
//
// A manifest is a 28-byte header followed by a zstd-compressed FlatBuffers
// payload with six tables: bundles (each with its chunk list), tags,
// files, directories, keys, and chunking parameters. Decode validates the
// header, decompresses and verifies the payload, and resolves every file
// entry into a self-contained File carrying its full path, tag names, and
// the location of each chunk inside its bundle.
//
// A Downloader reconstructs a File by fetching each chunk with a byte-range
// request, decompressing it, and writing it to the destination in chunk
// order. Bundles are fetched through a Fetcher; the http and s3
// subpackages provide implementations.
package rman
