package source

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"csvdash/internal/csvdata"
	"csvdash/internal/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by the S3 source.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3 reads CSV objects stored under bucket/prefix/{folder}/{file}.
type S3 struct {
	client S3API
	bucket string
	prefix string
}

// NewS3 builds a client from opts. Static credentials are used when both keys
// are set, otherwise the default AWS credential chain applies.
func NewS3(ctx context.Context, bucket, prefix string, opts S3Options) (*S3, error) {
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := opts.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if opts.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3WithClient(client, bucket, prefix), nil
}

// NewS3WithClient wraps an existing client.
func NewS3WithClient(client S3API, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Describe implements Source.
func (s *S3) Describe() string {
	if s.prefix == "" {
		return "s3://" + s.bucket
	}
	return "s3://" + s.bucket + "/" + s.prefix
}

func (s *S3) key(p string) string {
	return path.Join(s.prefix, strings.TrimPrefix(p, "/"))
}

// Load implements Loader.
func (s *S3) Load(ctx context.Context, p string) (*csvdata.Table, error) {
	folder, file := splitPath(p)
	if escapes(p) {
		return nil, errors.NewLoadError("invalid file path", folder, file, errors.InvalidPath, nil)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, errors.NewLoadError("file not found", folder, file, errors.FileNotFound, err)
		}
		return nil, errors.NewLoadError("failed to get object", folder, file, errors.LoadFailed, err)
	}
	defer out.Body.Close()

	table, err := csvdata.Parse(out.Body)
	if err != nil {
		return nil, errors.NewLoadError("failed to parse csv", folder, file, errors.ParseFailed, err)
	}
	return table, nil
}

// List implements Lister, returning object names directly under the folder.
func (s *S3) List(ctx context.Context, folder string) ([]string, error) {
	prefix := s.key(folder) + "/"
	var names []string
	var token *string
	for {
		page, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			Delimiter:         aws.String("/"),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, errors.NewLoadError("failed to list objects", folder, "", errors.LoadFailed, err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if name != "" && !strings.Contains(name, "/") {
				names = append(names, name)
			}
		}
		if !aws.ToBool(page.IsTruncated) || page.NextContinuationToken == nil {
			break
		}
		token = page.NextContinuationToken
	}
	sort.Strings(names)
	return names, nil
}
