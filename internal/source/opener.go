package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Opener resolves a location to a readable stream.
type Opener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// FileOpener opens locations as local file paths.
type FileOpener struct{}

// Open implements Opener.
func (FileOpener) Open(_ context.Context, location string) (io.ReadCloser, error) {
	return os.Open(location)
}

// ObjectGetter is the subset of the S3 client used to fetch objects.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Opener opens s3://bucket/key locations.
type S3Opener struct {
	Client ObjectGetter
}

// Open implements Opener.
func (o S3Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := parseS3Location(location)
	if err != nil {
		return nil, err
	}
	out, err := o.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3 object %s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

// LocationOpener routes s3:// locations to S3 and everything else to Files.
type LocationOpener struct {
	Files Opener
	S3    Opener
}

// Open implements Opener.
func (o LocationOpener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if strings.HasPrefix(location, s3Scheme) {
		if o.S3 == nil {
			return nil, fmt.Errorf("%s: s3 storage is not configured", location)
		}
		return o.S3.Open(ctx, location)
	}
	files := o.Files
	if files == nil {
		files = FileOpener{}
	}
	return files.Open(ctx, location)
}

const s3Scheme = "s3://"

func parseS3Location(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("%q is not an s3 location", location)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%q must have the form s3://bucket/key", location)
	}
	return bucket, key, nil
}

// S3Options configures NewS3Client.
type S3Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client builds a path-style S3 client. Static credentials are used when
// an access key is given, the default AWS chain otherwise.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	var loaders []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loaders = append(loaders, awsconfig.WithRegion(opts.Region))
	}
	if opts.Endpoint != "" {
		loaders = append(loaders, awsconfig.WithBaseEndpoint(opts.Endpoint))
	}
	if opts.AccessKey != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	}), nil
}
