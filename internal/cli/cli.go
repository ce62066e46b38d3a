// Package cli implements the rman command-line interface.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/meigma/rman"
	rmanhttp "github.com/meigma/rman/http"
	"github.com/meigma/rman/s3"
)

const usage = `usage: rman <command> [options] <manifest>
commands: info, list, download`

// Run executes the CLI with the given arguments. Command output goes to
// stdout; logs go to stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	switch args[0] {
	case "info":
		return runInfo(args[1:], stdout, stderr)
	case "list":
		return runList(args[1:], stdout, stderr)
	case "download":
		return runDownload(ctx, args[1:], stdout, stderr)
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// common holds the flags shared by every command.
type common struct {
	strict  bool
	verbose bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.BoolVar(&c.strict, "strict", false, "reject manifests with an unexpected version")
	fs.BoolVar(&c.verbose, "v", false, "enable debug logging")
}

func (c *common) logger(stderr io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

func (c *common) decode(path string, logger *slog.Logger) (*rman.Manifest, error) {
	opts := []rman.Option{rman.WithLogger(logger)}
	if c.strict {
		opts = append(opts, rman.WithStrictVersion())
	}
	return rman.DecodeFile(path, opts...)
}

// manifestArg returns the single positional manifest path.
func manifestArg(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", errors.New("exactly one manifest path is required")
	}
	return fs.Arg(0), nil
}

func runInfo(args []string, stdout, stderr io.Writer) error {
	var c common
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := manifestArg(fs)
	if err != nil {
		return err
	}

	m, err := c.decode(path, c.logger(stderr))
	if err != nil {
		return err
	}
	h, counts := m.Header, m.Counts
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "manifest id:\t%016X\n", h.ManifestID)
	fmt.Fprintf(tw, "version:\t%d.%d\n", h.Major, h.Minor)
	fmt.Fprintf(tw, "flags:\t0x%04X\n", h.Flags)
	fmt.Fprintf(tw, "payload:\toffset %d, %d bytes compressed, %d bytes uncompressed\n",
		h.Offset, h.CompressedSize, h.UncompressedSize)
	fmt.Fprintf(tw, "bundles:\t%d\n", counts.Bundles)
	fmt.Fprintf(tw, "chunks:\t%d\n", counts.Chunks)
	fmt.Fprintf(tw, "directories:\t%d\n", counts.Directories)
	fmt.Fprintf(tw, "files:\t%d\n", counts.Files)
	fmt.Fprintf(tw, "tags:\t%d\n", counts.Tags)
	fmt.Fprintf(tw, "keys:\t%d\n", counts.Keys)
	fmt.Fprintf(tw, "chunking params:\t%d\n", counts.ChunkingParams)
	return tw.Flush()
}

func runList(args []string, stdout, stderr io.Writer) error {
	var c common
	var tags stringList
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c.register(fs)
	fs.Var(&tags, "tag", "only list files with this tag or no tags (repeatable)")
	match := fs.String("match", "", "only list files whose path contains this substring")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := manifestArg(fs)
	if err != nil {
		return err
	}

	m, err := c.decode(path, c.logger(stderr))
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, f := range selectFiles(&m.Data, tags, *match) {
		target := ""
		if f.IsSymlink() {
			target = " -> " + f.Symlink
		}
		fmt.Fprintf(tw, "%s%s\t%d\t%s\n", f.Path, target, f.Size, strings.Join(f.Tags, ","))
	}
	return tw.Flush()
}

func selectFiles(d *rman.ManifestData, tags []string, match string) []rman.File {
	files := d.FilesWithTags(tags...)
	if match == "" {
		return files
	}
	out := files[:0]
	for _, f := range files {
		if strings.Contains(f.Path, match) {
			out = append(out, f)
		}
	}
	return out
}

type downloadFlags struct {
	common
	url         string
	bucket      string
	prefix      string
	region      string
	endpoint    string
	pathStyle   bool
	out         string
	tags        stringList
	match       string
	workers     int
	maxRequests int
	overwrite   bool
}

func (f *downloadFlags) validate() error {
	switch {
	case f.url == "" && f.bucket == "":
		return errors.New("one of -url or -s3-bucket is required")
	case f.url != "" && f.bucket != "":
		return errors.New("-url and -s3-bucket are mutually exclusive")
	case f.out == "":
		return errors.New("-out is required")
	}
	return nil
}

func (f *downloadFlags) fetcher(ctx context.Context, logger *slog.Logger) (rman.Fetcher, error) {
	if f.url != "" {
		return rmanhttp.NewFetcher(f.url,
			rmanhttp.WithMaxConcurrentRequests(f.maxRequests),
			rmanhttp.WithLogger(logger),
		)
	}
	return s3.NewFetcherFromConfig(ctx, f.bucket, s3.Config{
		Region:       f.region,
		Endpoint:     f.endpoint,
		UsePathStyle: f.pathStyle,
	}, s3.WithKeyPrefix(f.prefix), s3.WithLogger(logger))
}

func runDownload(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var f downloadFlags
	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f.register(fs)
	fs.StringVar(&f.url, "url", "", "bundle base URL")
	fs.StringVar(&f.bucket, "s3-bucket", "", "S3 bucket holding the bundles")
	fs.StringVar(&f.prefix, "s3-prefix", "", "key prefix of the bundles inside the bucket")
	fs.StringVar(&f.region, "s3-region", "", "S3 region (default from the environment)")
	fs.StringVar(&f.endpoint, "s3-endpoint", "", "S3-compatible endpoint URL")
	fs.BoolVar(&f.pathStyle, "s3-path-style", false, "use path-style S3 addressing")
	fs.StringVar(&f.out, "out", "", "destination directory")
	fs.Var(&f.tags, "tag", "only download files with this tag or no tags (repeatable)")
	fs.StringVar(&f.match, "match", "", "only download files whose path contains this substring")
	fs.IntVar(&f.workers, "workers", 0, "files downloaded concurrently (0 = GOMAXPROCS)")
	fs.IntVar(&f.maxRequests, "max-requests", 0, "maximum concurrent HTTP requests (0 = unlimited)")
	fs.BoolVar(&f.overwrite, "overwrite", false, "replace existing files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := f.validate(); err != nil {
		return err
	}
	path, err := manifestArg(fs)
	if err != nil {
		return err
	}

	logger := f.logger(stderr)
	m, err := f.decode(path, logger)
	if err != nil {
		return err
	}
	fetcher, err := f.fetcher(ctx, logger)
	if err != nil {
		return err
	}

	d := rman.NewDownloader(fetcher,
		rman.WithDownloadLogger(logger),
		rman.WithProgress(func(e rman.ProgressEvent) {
			if e.Stage == rman.StageExtracting {
				logger.Info("extracted", "path", e.Path, "bytes", e.BytesDone,
					"done", e.FilesDone, "total", e.FilesTotal)
			}
		}),
	)
	stats, err := d.Extract(ctx, selectFiles(&m.Data, f.tags, f.match), f.out,
		rman.ExtractWithWorkers(f.workers),
		rman.ExtractWithOverwrite(f.overwrite),
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%d files written (%d bytes), %d skipped, %d symlinks\n",
		stats.Processed, stats.TotalBytes, stats.Skipped, stats.Symlinks)
	return nil
}
