// Package fetch resolves content URIs (local paths, HTTP(S) URLs, S3 object
// URIs) into a single lazy byte-stream abstraction and materializes them
// into scoped temporary files.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrUnsupportedScheme indicates a URI whose scheme maps to no retrieval
// strategy. An unrecognized scheme is never treated as a local path.
var ErrUnsupportedScheme = errors.New("unsupported URI scheme")

// Source is a parsed content locator bound to exactly one retrieval
// strategy. A Source is single-use: once its byte stream has been consumed
// it cannot be reopened.
type Source struct {
	raw    string
	scheme string
	bucket string
	key    string
	path   string
	spent  bool
}

// Parse classifies a raw URI by scheme. It performs no network or
// filesystem access.
func Parse(raw string) (*Source, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse source %q: %w", raw, err)
	}

	switch u.Scheme {
	case "":
		return &Source{raw: raw, path: raw}, nil
	case "http", "https":
		return &Source{raw: raw, scheme: u.Scheme}, nil
	case "s3":
		bucket := u.Host
		key := strings.TrimPrefix(u.Path, "/")
		if bucket == "" || key == "" {
			return nil, fmt.Errorf("source %q must name a bucket and an object key", raw)
		}
		return &Source{raw: raw, scheme: "s3", bucket: bucket, key: key}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, raw)
	}
}

// Local reports whether the source is a plain local path.
func (s *Source) Local() bool {
	return s.scheme == ""
}

// LocalPath returns the filesystem path of a local source, empty otherwise.
func (s *Source) LocalPath() string {
	return s.path
}

// String returns the raw URI the source was parsed from.
func (s *Source) String() string {
	return s.raw
}

// objectGetter is the subset of the S3 client used to stream one object.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Fetcher opens sources as byte streams. The zero value is not usable;
// construct with NewFetcher.
type Fetcher struct {
	logger *slog.Logger
	client *http.Client
	s3     func(ctx context.Context) (objectGetter, error)
}

// NewFetcher constructs a Fetcher. The S3 client is built lazily from the
// ambient AWS configuration the first time an s3:// source is opened.
func NewFetcher(logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Fetcher{logger: logger, client: http.DefaultClient}
	f.s3 = f.defaultS3
	return f
}

func (f *Fetcher) defaultS3(ctx context.Context) (objectGetter, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS configuration: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Open resolves the source into a lazy, finite, non-restartable byte
// stream. The caller owns the returned reader.
func (f *Fetcher) Open(ctx context.Context, src *Source) (io.ReadCloser, error) {
	switch src.scheme {
	case "":
		file, err := os.Open(src.path)
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", src.path, err)
		}
		return file, nil
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.raw, nil)
		if err != nil {
			return nil, fmt.Errorf("build request for %q: %w", src.raw, err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("get %q: %w", src.raw, err)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("get %q: unexpected status %s", src.raw, resp.Status)
		}
		return resp.Body, nil
	case "s3":
		client, err := f.s3(ctx)
		if err != nil {
			return nil, err
		}
		out, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(src.bucket),
			Key:    aws.String(src.key),
		})
		if err != nil {
			return nil, fmt.Errorf("get s3 object %s/%s: %w", src.bucket, src.key, err)
		}
		return out.Body, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, src.raw)
	}
}
