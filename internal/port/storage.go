package port

import (
	"context"
	"io"
)

// ArchiveInput carries an uploaded prescription image for archival.
type ArchiveInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// ArchiveOutput describes where the archived image landed.
type ArchiveOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts object storage used to retain source images.
type ObjectStorage interface {
	Upload(ctx context.Context, input ArchiveInput) (*ArchiveOutput, error)
	GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
}
