// Package source loads catalog CSV files from a local directory or an S3 bucket.
package source

import (
	"context"
	"strings"

	"csvdash/internal/csvdata"
)

// Loader produces the parsed rows of the file at path ("{folder}/{file}").
type Loader interface {
	Load(ctx context.Context, path string) (*csvdata.Table, error)
}

// Lister lists file names directly under a folder.
type Lister interface {
	List(ctx context.Context, folder string) ([]string, error)
}

// Source is a Loader that can also list folders.
type Source interface {
	Loader
	Lister
	// Describe returns a human readable location, e.g. for the status line.
	Describe() string
}

// S3Options configures an S3-compatible backend.
type S3Options struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// Options selects and configures a backend.
type Options struct {
	// Root is a local directory or an s3://bucket/prefix URL.
	Root string
	S3   S3Options
}

// Open returns the backend for opts.Root.
func Open(ctx context.Context, opts Options) (Source, error) {
	if bucket, prefix, ok := ParseS3URL(opts.Root); ok {
		return NewS3(ctx, bucket, prefix, opts.S3)
	}
	return NewDir(opts.Root)
}

// ParseS3URL splits s3://bucket/prefix. ok is false for other roots.
func ParseS3URL(root string) (bucket, prefix string, ok bool) {
	rest, found := strings.CutPrefix(root, "s3://")
	if !found || rest == "" {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", false
	}
	return bucket, strings.Trim(prefix, "/"), true
}
