package repositories

import (
	"context"
	"time"

	"github.com/ememohq/ememo_backend/internal/core/domain"
)

// DashboardCounts aggregates the per-user figures the dashboard renders.
type DashboardCounts struct {
	MemosByStatus  map[domain.MemoStatus]int64 `json:"memosByStatus"`
	FinancialMemos int64                       `json:"financialMemos"`
	ArchivedMemos  int64                       `json:"archivedMemos"`
	Folders        int64                       `json:"folders"`
	FiledDocuments int64                       `json:"filedDocuments"`
}

// DashboardRepository computes dashboard aggregates from the store.
type DashboardRepository interface {
	FetchDashboardCounts(ctx context.Context, userID string) (*DashboardCounts, error)
}

// DashboardCache is a read-through cache in front of DashboardRepository.
// A cache miss returns apperrors.ErrNotFound; cache failures must never be
// promoted to request failures by callers.
type DashboardCache interface {
	GetCounts(ctx context.Context, userID string) (*DashboardCounts, error)
	SetCounts(ctx context.Context, userID string, counts *DashboardCounts, ttl time.Duration) error
	InvalidateCounts(ctx context.Context, userID string) error
}
