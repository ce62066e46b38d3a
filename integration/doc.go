//go:build integration

// Package integration provides end-to-end tests for the rman library.
//
// The tests build real manifests and bundles, publish the bundles to a bundle
// store, and reconstruct the files through the public API. The S3 tests
// require Docker and start a MinIO container using testcontainers.
// Run with: go test -tags=integration ./integration/...
package integration
