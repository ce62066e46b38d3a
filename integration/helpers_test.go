//go:build integration

package integration

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/meigma/rman/internal/rmantype"
	"github.com/meigma/rman/internal/testutil"
)

const (
	minioUser     = "rmanadmin"
	minioPassword = "rmanadmin-secret"
	minioRegion   = "us-east-1"
)

// --- MinIO Container Setup ---

var (
	minioOnce     sync.Once
	minioEndpoint string
	minioErr      error
)

// getMinIO returns the shared MinIO endpoint, starting the container if needed.
// The container is shared across all tests for performance.
func getMinIO(tb testing.TB) string {
	tb.Helper()

	if os.Getenv("SKIP_DOCKER_TESTS") == "1" {
		tb.Skip("SKIP_DOCKER_TESTS is set")
	}

	minioOnce.Do(func() {
		minioEndpoint, minioErr = startMinIOContainer(context.Background())
	})

	if minioErr != nil {
		tb.Fatalf("start minio container: %v", minioErr)
	}

	return minioEndpoint
}

// startMinIOContainer starts a MinIO server and returns its http endpoint.
func startMinIOContainer(ctx context.Context) (string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Cmd:          []string{"server", "/data"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     minioUser,
			"MINIO_ROOT_PASSWORD": minioPassword,
		},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStatusCodeMatcher(isOKStatus),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start minio container: %w", err)
	}

	// Container cleanup is handled by the testcontainers Reaper.

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve minio host: %w", err)
	}

	port, err := container.MappedPort(ctx, "9000/tcp")
	if err != nil {
		return "", fmt.Errorf("resolve minio port: %w", err)
	}

	return fmt.Sprintf("http://%s:%s", host, port.Port()), nil
}

func isOKStatus(status int) bool {
	return status >= 200 && status < 300
}

// newS3Client returns a path-style client for the MinIO endpoint.
func newS3Client(endpoint string) *awss3.Client {
	return awss3.New(awss3.Options{
		Region:       minioRegion,
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider(minioUser, minioPassword, ""),
	})
}

// --- Release Fixtures ---

// release is a manifest plus the bundles its chunks live in.
type release struct {
	manifest []byte
	bundles  []*testutil.Bundle
}

// buildRelease splits every file into chunks of at most chunkSize bytes and
// distributes the chunks round-robin over nBundles bundles. Directories are
// derived from the slash-separated paths.
func buildRelease(tb testing.TB, files map[string][]byte, chunkSize, nBundles int) release {
	tb.Helper()

	bundles := make([]*testutil.Bundle, nBundles)
	for i := range bundles {
		bundles[i] = testutil.NewBundle(0xC0FFEE00 + uint64(i))
	}

	spec := testutil.ManifestRows{
		Directories: []rmantype.DirectoryEntry{{ID: 0, ParentID: 0}},
	}
	dirIDs := map[string]uint64{"": 0}
	dirID := func(dir string) uint64 {
		if dir == "." {
			dir = ""
		}
		parent := uint64(0)
		prefix := ""
		for part := range strings.SplitSeq(dir, "/") {
			if part == "" {
				continue
			}
			prefix = strings.TrimPrefix(prefix+"/"+part, "/")
			id, ok := dirIDs[prefix]
			if !ok {
				id = uint64(len(spec.Directories))
				dirIDs[prefix] = id
				spec.Directories = append(spec.Directories, rmantype.DirectoryEntry{ID: id, ParentID: parent, Name: part})
			}
			parent = id
		}
		return parent
	}

	nextChunk := uint64(1)
	for i, path := range slices.Sorted(maps.Keys(files)) {
		content := files[path]
		entry := rmantype.FileEntry{
			ID:          uint64(i + 1),
			DirectoryID: dirID(filepath.ToSlash(filepath.Dir(path))),
			Name:        filepath.Base(path),
			Size:        uint32(len(content)), //nolint:gosec // fixtures are small
		}
		for off := 0; off < len(content); off += chunkSize {
			end := min(off+chunkSize, len(content))
			bundles[int(nextChunk)%nBundles].AddChunk(tb, nextChunk, content[off:end])
			entry.ChunkIDs = append(entry.ChunkIDs, nextChunk)
			nextChunk++
		}
		spec.Files = append(spec.Files, entry)
	}
	for _, b := range bundles {
		spec.Bundles = append(spec.Bundles, b.Entry())
	}

	return release{manifest: testutil.BuildManifest(tb, spec), bundles: bundles}
}

// makeCompressibleContent creates content that benefits from compression.
func makeCompressibleContent(size int) []byte {
	pattern := []byte("This is a repeating pattern for compression testing. ")
	result := make([]byte, 0, size)
	for len(result) < size {
		result = append(result, pattern...)
	}
	return result[:size]
}

// nestedRelease contains nested directories and multi-chunk files.
var nestedRelease = map[string][]byte{
	"root.txt":        []byte("root file"),
	"dir1/a.txt":      []byte("file a in dir1"),
	"dir1/sub/c.txt":  []byte("file c in dir1/sub"),
	"dir2/deep/y.txt": []byte("file y in dir2/deep"),
	"data/large.bin":  makeCompressibleContent(100 * 1024),
	"empty/zero":      []byte(""),
}

// --- Assertion Helpers ---

// assertDirContents verifies that a directory contains the expected files with correct content.
func assertDirContents(tb testing.TB, dir string, expected map[string][]byte) {
	tb.Helper()

	for path, expectedContent := range expected {
		fullPath := filepath.Join(dir, filepath.FromSlash(path))
		gotContent, err := os.ReadFile(fullPath)
		require.NoError(tb, err, "ReadFile(%q)", fullPath)
		require.Equal(tb, expectedContent, gotContent, "content mismatch for %q", path)
	}
}
