// Package s3 fetches bundle byte ranges from an S3-compatible object store.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/meigma/rman/internal/rmantype"
	"github.com/meigma/rman/internal/sizing"
)

// GetObjectAPI is the subset of the S3 client used by Fetcher.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
}

// Fetcher reads bundle ranges with ranged GetObject calls.
// Bundles are stored as {prefix}/{ID:016X}.bundle.
type Fetcher struct {
	client     GetObjectAPI
	bucket     string
	prefix     string
	clientOpts []func(*awss3.Options)
	logger     *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithKeyPrefix sets the key prefix under which bundles are stored.
func WithKeyPrefix(prefix string) Option {
	return func(f *Fetcher) {
		f.prefix = prefix
	}
}

// WithClientOptions sets per-request S3 client options.
func WithClientOptions(fns ...func(*awss3.Options)) Option {
	return func(f *Fetcher) {
		f.clientOpts = append(f.clientOpts, fns...)
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher reading from bucket through client.
func NewFetcher(client GetObjectAPI, bucket string, opts ...Option) *Fetcher {
	f := &Fetcher{client: client, bucket: bucket}
	for _, opt := range opts {
		opt(f)
	}
	if f.prefix != "" && !strings.HasSuffix(f.prefix, "/") {
		f.prefix += "/"
	}
	return f
}

// Config selects how NewFetcherFromConfig builds its S3 client.
// Zero values fall back to the default AWS configuration chain.
type Config struct {
	Region string

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string

	// AccessKeyID and SecretAccessKey select static credentials when both are set.
	AccessKeyID     string
	SecretAccessKey string

	UsePathStyle bool
}

// NewFetcherFromConfig creates a Fetcher with an S3 client built from the
// default AWS configuration, adjusted by cfg.
func NewFetcherFromConfig(ctx context.Context, bucket string, cfg Config, opts ...Option) (*Fetcher, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewFetcher(client, bucket, opts...), nil
}

func (f *Fetcher) log() *slog.Logger {
	if f.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return f.logger
}

// Key returns the object key of a bundle.
func (f *Fetcher) Key(bundleID uint64) string {
	return f.prefix + rmantype.BundleName(bundleID)
}

// FetchRange returns bytes [from, to] (inclusive) of a bundle.
// Failures are returned as *rmantype.TransportError.
func (f *Fetcher) FetchRange(ctx context.Context, bundleID, from, to uint64) ([]byte, error) {
	key := f.Key(bundleID)
	resource := fmt.Sprintf("s3://%s/%s", f.bucket, key)
	fail := func(err error) error {
		te := &rmantype.TransportError{Resource: resource, From: from, To: to, Err: err}
		var re *awshttp.ResponseError
		if errors.As(err, &re) {
			te.StatusCode = re.HTTPStatusCode()
		}
		return te
	}
	if to < from {
		return nil, fail(fmt.Errorf("invalid range %d-%d", from, to))
	}
	length, err := sizing.ToInt(to-from+1, rmantype.ErrSizeOverflow)
	if err != nil {
		return nil, fail(err)
	}

	f.log().Debug("get object range", "bucket", f.bucket, "key", key, "from", from, "to", to)
	out, err := f.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", from, to)),
	}, f.clientOpts...)
	if err != nil {
		return nil, fail(err)
	}
	defer out.Body.Close()

	buf := make([]byte, length)
	n, err := io.ReadFull(out.Body, buf)
	if err != nil {
		return nil, fail(fmt.Errorf("read body (%d of %d bytes): %w", n, length, err))
	}
	return buf, nil
}
