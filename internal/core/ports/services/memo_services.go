package services

import (
	"context"

	"github.com/ememohq/ememo_backend/internal/core/domain"
	portsrepo "github.com/ememohq/ememo_backend/internal/core/ports/repositories"
	"github.com/ememohq/ememo_backend/internal/dto"
)

// MemoReaderSvc defines read operations for memos.
type MemoReaderSvc interface {
	// GetMemoByID retrieves a memo the user may see (sender or recipient).
	GetMemoByID(ctx context.Context, userID string, memoID string) (*domain.Memo, error)

	// ListMemos retrieves the user's memos for a box with optional filters.
	ListMemos(ctx context.Context, userID string, params dto.ListMemosParams) ([]domain.Memo, error)
}

// MemoWriterSvc defines draft-side write operations.
type MemoWriterSvc interface {
	// CreateDraft creates a memo in initiated status.
	CreateDraft(ctx context.Context, fromUserID string, req dto.CreateMemoRequest) (*domain.Memo, error)

	// UpdateDraft updates allow-listed fields of a memo still in initiated
	// status.
	UpdateDraft(ctx context.Context, userID string, memoID string, req dto.UpdateMemoRequest) (*domain.Memo, error)

	// Send transitions the memo initiated -> pending.
	Send(ctx context.Context, userID string, memoID string) (*domain.Memo, error)

	// DeleteMemo hard-deletes a memo. Senders may delete their own drafts;
	// deleting a sent memo requires the memo:delete permission.
	DeleteMemo(ctx context.Context, actor *domain.User, memoID string) error
}

// MemoReviewSvc defines the review-side workflow operations.
type MemoReviewSvc interface {
	// AppendMinute appends a review minute and applies any induced status
	// transition atomically.
	AppendMinute(ctx context.Context, reviewer *domain.User, memoID string, req dto.AppendMinuteRequest) (*domain.Memo, error)

	// Archive and Unarchive toggle the archived flag at any status.
	Archive(ctx context.Context, userID string, memoID string) error
	Unarchive(ctx context.Context, userID string, memoID string) error

	// ForceStatus is the administrative override; it records an audit event.
	ForceStatus(ctx context.Context, actor *domain.User, memoID string, req dto.ForceStatusRequest) (*domain.Memo, error)
}

// MemoSvcFacade combines all memo-related service interfaces.
type MemoSvcFacade interface {
	MemoReaderSvc
	MemoWriterSvc
	MemoReviewSvc
}

// AuditReaderSvc exposes the audit trail of administrative overrides.
type AuditReaderSvc interface {
	ListMemoAuditEvents(ctx context.Context, actor *domain.User, memoID string, limit int) ([]domain.AuditEvent, error)
}

// DashboardSvcFacade aggregates per-user dashboard counts.
type DashboardSvcFacade interface {
	// GetCounts returns the dashboard aggregates, served from cache when
	// fresh. The second return reports a cache hit.
	GetCounts(ctx context.Context, userID string) (*portsrepo.DashboardCounts, bool, error)

	// InvalidateCounts drops the cached aggregates for a user.
	InvalidateCounts(ctx context.Context, userID string)
}
