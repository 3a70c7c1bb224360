package storage

import (
	"context"
	"io"
	"time"
)

// UploadOptions conveys upload destination metadata.
type UploadOptions struct {
	Bucket           string
	ContentType      string
	ProgressCallback func(done, total int64)
}

// Service stores export documents in remote object storage.
type Service interface {
	PutObject(ctx context.Context, key string, body io.Reader, size int64, opts UploadOptions) (string, error)
	DeletePrefix(ctx context.Context, bucket, prefix string) error
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}

// Location renders the s3:// URI stored on completed exports.
func Location(bucket, key string) string {
	return "s3://" + bucket + "/" + key
}
