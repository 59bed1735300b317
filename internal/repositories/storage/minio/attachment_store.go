package minio

import (
	"context"
	"fmt"
	"io"
	"time"

	portsrepo "github.com/ememohq/ememo_backend/internal/core/ports/repositories"
	"github.com/minio/minio-go/v7"
)

// MinioAttachmentStore stores attachment payloads in a MinIO bucket.
type MinioAttachmentStore struct {
	client *minio.Client
	bucket string
}

// NewMinioAttachmentStore creates a store over an existing client. The bucket
// must already exist; EnsureBucket handles creation at startup.
func NewMinioAttachmentStore(client *minio.Client, bucket string) portsrepo.AttachmentStore {
	return &MinioAttachmentStore{client: client, bucket: bucket}
}

// Ensure MinioAttachmentStore implements the interface
var _ portsrepo.AttachmentStore = (*MinioAttachmentStore)(nil)

// EnsureBucket creates the bucket if it does not exist yet.
func EnsureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return nil
}

// PutObject uploads the payload and returns the stored object key.
func (s *MinioAttachmentStore) PutObject(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", objectKey, err)
	}
	return objectKey, nil
}

// PresignedGetURL returns a time-limited download URL for the object.
func (s *MinioAttachmentStore) PresignedGetURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s: %w", objectKey, err)
	}
	return u.String(), nil
}

// RemoveObject deletes the object. MinIO treats removal of an absent object
// as success, which matches the store contract.
func (s *MinioAttachmentStore) RemoveObject(ctx context.Context, objectKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", objectKey, err)
	}
	return nil
}
