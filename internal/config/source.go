package config

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/waypoint/internal/errors"
)

const s3Scheme = "s3://"

// ObjectGetter is the part of the S3 client used to fetch manifests.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configures the client built by NewS3Client.
type S3Options struct {
	// Region is the bucket region. Defaults to $AWS_REGION, then us-east-1.
	Region string

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	// Setting it enables path-style addressing.
	Endpoint string
}

// NewS3Client builds an S3 client with credentials from the standard AWS_*
// environment variables.
func NewS3Client(opts S3Options) *s3.Client {
	region := opts.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	o := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(envCredentials()),
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	}
	return s3.New(o)
}

func envCredentials() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		id := os.Getenv("AWS_ACCESS_KEY_ID")
		secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
		if id == "" || secret == "" {
			return aws.Credentials{}, stderrors.New("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
		}
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "environment",
		}, nil
	})
}

// ParseS3URI splits s3://bucket/key. ok is false for any other source.
func ParseS3URI(uri string) (bucket, key string, ok bool) {
	if !strings.HasPrefix(uri, s3Scheme) {
		return "", "", false
	}
	bucket, key, found := strings.Cut(strings.TrimPrefix(uri, s3Scheme), "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// IsRemote reports whether source names an object store location.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, s3Scheme)
}

// LoadS3 fetches and parses the manifest at an s3://bucket/key URI.
func LoadS3(ctx context.Context, client ObjectGetter, uri string) (*Config, error) {
	bucket, key, ok := ParseS3URI(uri)
	if !ok {
		return nil, errors.New("E304").
			WithDetail("Invalid object URI " + uri).
			WithSuggestion("Use the form s3://bucket/path/waypoint.json")
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if stderrors.As(err, &nsk) {
			return nil, errors.New("E301").WithDetail("No manifest found at " + uri)
		}
		return nil, errors.New("E304").Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("E304").Wrap(err)
	}

	cfg, err := Parse(data, FormatOf(key))
	if err != nil {
		return nil, err
	}
	cfg.source = uri
	return cfg, nil
}

// Open loads a manifest from a directory, a file or an s3:// URI. The S3
// client is built lazily with NewS3Client when client is nil.
func Open(ctx context.Context, source string, client ObjectGetter) (*Config, error) {
	if IsRemote(source) {
		if client == nil {
			client = NewS3Client(S3Options{Endpoint: os.Getenv("WAYPOINT_S3_ENDPOINT")})
		}
		return LoadS3(ctx, client, source)
	}

	info, err := os.Stat(source)
	if err == nil && info.IsDir() {
		return Load(source)
	}
	return LoadFile(source)
}
