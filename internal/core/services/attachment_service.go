package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ememohq/ememo_backend/internal/apperrors"
	"github.com/ememohq/ememo_backend/internal/core/domain"
	portsrepo "github.com/ememohq/ememo_backend/internal/core/ports/repositories"
	portssvc "github.com/ememohq/ememo_backend/internal/core/ports/services"
	"github.com/ememohq/ememo_backend/internal/utils"
	"github.com/google/uuid"
)

// maxAttachmentSize caps a single uploaded payload at 25 MiB.
const maxAttachmentSize = 25 << 20

// attachmentService stores attachment payloads in object storage. Attachment
// metadata lives with the memo; this service only handles the bytes.
type attachmentService struct {
	BaseService
	store     portsrepo.AttachmentStore
	urlExpiry time.Duration
}

// NewAttachmentService creates a new attachment service.
func NewAttachmentService(store portsrepo.AttachmentStore, urlExpiry time.Duration) portssvc.AttachmentSvcFacade {
	return &attachmentService{
		store:     store,
		urlExpiry: urlExpiry,
	}
}

// Ensure attachmentService implements the AttachmentSvcFacade interface
var _ portssvc.AttachmentSvcFacade = (*attachmentService)(nil)

// Upload stores the payload under the memo's namespace and returns the
// resulting attachment reference. The returned URL is the stable object key;
// download URLs are presigned on demand.
func (s *attachmentService) Upload(ctx context.Context, userID string, memoID string, fileName string, contentType string, size int64, reader io.Reader) (*domain.Attachment, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: attachment storage is not configured", apperrors.ErrValidation)
	}
	if fileName == "" {
		return nil, fmt.Errorf("%w: attachment file name is required", apperrors.ErrValidation)
	}
	if size <= 0 || size > maxAttachmentSize {
		return nil, fmt.Errorf("%w: attachment size %s is out of range (max %s)",
			apperrors.ErrValidation, utils.FormatByteSize(size), utils.FormatByteSize(maxAttachmentSize))
	}

	objectKey := fmt.Sprintf("memos/%s/%s-%s", memoID, uuid.NewString(), fileName)
	storedKey, err := s.store.PutObject(ctx, objectKey, reader, size, contentType)
	if err != nil {
		s.LogError(ctx, err, "Failed to upload attachment",
			slog.String("memo_id", memoID),
			slog.String("file_name", fileName))
		return nil, err
	}

	s.LogInfo(ctx, "Attachment uploaded",
		slog.String("memo_id", memoID),
		slog.String("object_key", storedKey),
		slog.String("category", utils.ClassifyFileName(fileName)),
		slog.String("size", utils.FormatByteSize(size)),
		slog.String("uploaded_by", userID))

	return &domain.Attachment{Name: fileName, URL: storedKey}, nil
}

// ResolveDownloadURL returns a time-limited download URL for a stored object key.
func (s *attachmentService) ResolveDownloadURL(ctx context.Context, objectKey string) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("%w: attachment storage is not configured", apperrors.ErrValidation)
	}
	url, err := s.store.PresignedGetURL(ctx, objectKey, s.urlExpiry)
	if err != nil {
		s.LogError(ctx, err, "Failed to presign attachment URL",
			slog.String("object_key", objectKey))
		return "", err
	}
	return url, nil
}

// Remove deletes the stored payload.
func (s *attachmentService) Remove(ctx context.Context, objectKey string) error {
	if s.store == nil {
		return fmt.Errorf("%w: attachment storage is not configured", apperrors.ErrValidation)
	}
	if err := s.store.RemoveObject(ctx, objectKey); err != nil {
		s.LogError(ctx, err, "Failed to remove attachment",
			slog.String("object_key", objectKey))
		return err
	}
	return nil
}
