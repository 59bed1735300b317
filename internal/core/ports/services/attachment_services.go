package services

import (
	"context"
	"io"

	"github.com/ememohq/ememo_backend/internal/core/domain"
)

// AttachmentSvcFacade stores attachment payloads and resolves download URLs.
type AttachmentSvcFacade interface {
	// Upload stores the payload under the memo's namespace and returns the
	// resulting attachment reference.
	Upload(ctx context.Context, userID string, memoID string, fileName string, contentType string, size int64, reader io.Reader) (*domain.Attachment, error)

	// ResolveDownloadURL returns a time-limited download URL for a stored
	// attachment object key.
	ResolveDownloadURL(ctx context.Context, objectKey string) (string, error)

	// Remove deletes the stored payload.
	Remove(ctx context.Context, objectKey string) error
}
