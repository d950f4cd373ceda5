package edgelist

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"

	"github.com/dd0wney/cluso-linkcom/pkg/linkcom"
)

// ObjectGetter is the part of the S3 API used to fetch edge lists.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config configures the client built for s3:// sources.
type S3Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// Options controls how sources are opened.
type Options struct {
	// S3 is used for s3:// sources; when nil a client is built from S3Config.
	S3       ObjectGetter
	S3Config S3Config
	// Stdin is read for the "-" source; defaults to os.Stdin.
	Stdin io.Reader
}

// SnappySuffix marks snappy-framed edge lists.
const SnappySuffix = ".snappy"

// Load opens uri, parses it and closes it.
func Load(ctx context.Context, uri string, opts Options) ([]linkcom.RawPair, error) {
	rc, err := Open(ctx, uri, opts)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	pairs, err := Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", uri, err)
	}
	return pairs, nil
}

// Open returns a reader for uri: "-" for stdin, s3://bucket/key for S3, or a
// local path. Names ending in .snappy are decompressed.
func Open(ctx context.Context, uri string, opts Options) (io.ReadCloser, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	switch {
	case uri == "-":
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		rc = io.NopCloser(in)
	case strings.HasPrefix(uri, "s3://"):
		rc, err = openS3(ctx, uri, opts)
	case strings.Contains(uri, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, uri)
	default:
		rc, err = openMapped(uri)
	}
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(uri, SnappySuffix) {
		return &stackedReader{Reader: snappy.NewReader(rc), closer: rc}, nil
	}
	return rc, nil
}

type stackedReader struct {
	io.Reader
	closer io.Closer
}

func (s *stackedReader) Close() error { return s.closer.Close() }

// openMapped memory-maps a local file.
func openMapped(name string) (io.ReadCloser, error) {
	ra, err := mmap.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open edge list: %w", err)
	}
	return &stackedReader{
		Reader: io.NewSectionReader(ra, 0, int64(ra.Len())),
		closer: ra,
	}, nil
}

// ParseS3URI splits s3://bucket/key.
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedSource, uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("%w: s3 uri needs a bucket and an object key: %s", ErrUnsupportedSource, uri)
	}
	return bucket, key, nil
}

// BaseName returns the file name part of a source, for naming outputs.
func BaseName(uri string) string {
	if uri == "-" {
		return "stdin"
	}
	if _, key, err := ParseS3URI(uri); err == nil {
		return path.Base(key)
	}
	return uri
}

func openS3(ctx context.Context, uri string, opts Options) (io.ReadCloser, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}

	client := opts.S3
	if client == nil {
		c, err := NewS3Client(ctx, opts.S3Config)
		if err != nil {
			return nil, err
		}
		client = c
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", uri, err)
	}
	return out.Body, nil
}

// NewS3Client builds an S3 client from the default AWS configuration chain,
// overridden by any non-empty fields of cfg.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}
