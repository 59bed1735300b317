package repositories

import (
	"context"
	"time"

	"github.com/ememohq/ememo_backend/internal/core/domain"
)

// MemoBox selects which slice of a user's memos a listing targets.
type MemoBox string

const (
	BoxInbox    MemoBox = "inbox"    // user appears in to/cc, memo not a draft
	BoxSent     MemoBox = "sent"     // user is the sender
	BoxArchived MemoBox = "archived" // archived memos visible to the user
)

// MemoListFilter narrows a memo listing.
type MemoListFilter struct {
	UserID      string
	Box         MemoBox
	Status      *domain.MemoStatus
	IsFinancial *bool
	Limit       int
	Offset      int
}

// MemoReader defines read operations for memo data.
type MemoReader interface {
	// FindMemoByID retrieves a memo with its minutes and attachments loaded.
	FindMemoByID(ctx context.Context, memoID string) (*domain.Memo, error)

	// ListMemos retrieves memos matching the filter, newest first, minutes
	// omitted.
	ListMemos(ctx context.Context, filter MemoListFilter) ([]domain.Memo, error)

	// CountMemosByStatus returns per-status memo counts for the memos the
	// user can see (sender or recipient).
	CountMemosByStatus(ctx context.Context, userID string) (map[domain.MemoStatus]int64, error)
}

// MemoWriter defines write operations for memo data.
type MemoWriter interface {
	// SaveMemo persists a new memo with its initial attachments.
	SaveMemo(ctx context.Context, memo domain.Memo) error

	// UpdateMemoFields updates the draft-editable fields of a memo.
	UpdateMemoFields(ctx context.Context, memo domain.Memo) error

	// UpdateMemoStatus sets the memo status, recording the actor.
	UpdateMemoStatus(ctx context.Context, memoID string, status domain.MemoStatus, userID string, now time.Time) error

	// SetMemoArchived toggles the archived flag without touching status.
	SetMemoArchived(ctx context.Context, memoID string, archived bool, userID string, now time.Time) error

	// DeleteMemo removes the memo and its minutes.
	DeleteMemo(ctx context.Context, memoID string) error
}

// MinuteAppender appends review minutes under store-level serialization.
type MinuteAppender interface {
	// AppendMinute appends the minute and applies the status transition
	// chosen by decide as one atomic unit. The memo row is locked for the
	// duration, so concurrent appends serialize and none is lost; decide
	// runs under that lock against the current status. If decide returns an
	// error, nothing is written.
	AppendMinute(ctx context.Context, memoID string, minute domain.Minute, decide func(current domain.MemoStatus) (domain.MemoStatus, error)) (*domain.Memo, error)
}

// MemoRepositoryFacade combines all memo-related repository interfaces.
type MemoRepositoryFacade interface {
	MemoReader
	MemoWriter
	MinuteAppender
}
