package repositories

import (
	"context"
	"io"
	"time"
)

// AttachmentStore is the object-storage boundary for memo and minute
// attachment payloads. Metadata (name, URL) lives with the memo; the bytes
// live here.
type AttachmentStore interface {
	// PutObject uploads the payload and returns the stored object key.
	PutObject(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error)

	// PresignedGetURL returns a time-limited download URL for the object.
	PresignedGetURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)

	// RemoveObject deletes the object. Removing an absent object is a no-op.
	RemoveObject(ctx context.Context, objectKey string) error
}
