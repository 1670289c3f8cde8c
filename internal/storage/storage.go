package storage

import (
	"context"
	"io"
)

// ObjectStorage is where exported datasets are published. Implementations
// must be S3-compatible; the tracker only needs a handful of operations.
type ObjectStorage interface {
	// Upload writes an object.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download reads an object. The caller closes the returned body.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists checks whether an object is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes an object.
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL of an object.
	GetURL(key string) string

	// EnsureBucket creates the bucket if it does not exist.
	EnsureBucket(ctx context.Context) error
}
