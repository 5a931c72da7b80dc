package brandkit

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound is returned by ObjectStorage.StatObject for missing keys
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo is the metadata of a stored object
type ObjectInfo struct {
	Size        int64
	ContentType string
}

// ObjectStorage hands out presigned URLs so browsers upload and download
// brand assets directly
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	StatObject(ctx context.Context, key string) (*ObjectInfo, error)
	DeleteObject(ctx context.Context, key string) error
}
