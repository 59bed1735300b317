package dto

import (
	"github.com/ememohq/ememo_backend/internal/core/domain"
	portsrepo "github.com/ememohq/ememo_backend/internal/core/ports/repositories"
)

// DashboardResponse aggregates the per-user counts the dashboard renders.
type DashboardResponse struct {
	MemosByStatus  map[domain.MemoStatus]int64 `json:"memosByStatus"`
	FinancialMemos int64                       `json:"financialMemos"`
	ArchivedMemos  int64                       `json:"archivedMemos"`
	Folders        int64                       `json:"folders"`
	FiledDocuments int64                       `json:"filedDocuments"`
	FromCache      bool                        `json:"fromCache"`
}

// ToDashboardResponse converts repository counts.
func ToDashboardResponse(c *portsrepo.DashboardCounts, fromCache bool) DashboardResponse {
	return DashboardResponse{
		MemosByStatus:  c.MemosByStatus,
		FinancialMemos: c.FinancialMemos,
		ArchivedMemos:  c.ArchivedMemos,
		Folders:        c.Folders,
		FiledDocuments: c.FiledDocuments,
		FromCache:      fromCache,
	}
}
