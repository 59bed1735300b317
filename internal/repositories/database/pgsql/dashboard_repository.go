package pgsql

import (
	"context"
	"fmt"

	"github.com/ememohq/ememo_backend/internal/core/domain"
	portsrepo "github.com/ememohq/ememo_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxDashboardRepository computes dashboard aggregates straight from the
// database. Results are cached one layer up.
type PgxDashboardRepository struct {
	BaseRepository
}

// NewPgxDashboardRepository creates a new repository for dashboard aggregates.
func NewPgxDashboardRepository(pool *pgxpool.Pool) portsrepo.DashboardRepository {
	return &PgxDashboardRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxDashboardRepository implements the interface
var _ portsrepo.DashboardRepository = (*PgxDashboardRepository)(nil)

// FetchDashboardCounts gathers the per-user dashboard figures.
func (r *PgxDashboardRepository) FetchDashboardCounts(ctx context.Context, userID string) (*portsrepo.DashboardCounts, error) {
	counts := &portsrepo.DashboardCounts{
		MemosByStatus: make(map[domain.MemoStatus]int64),
	}

	statusQuery := `
		SELECT status, COUNT(*)
		FROM memos
		WHERE from_user_id = $1 OR $1 = ANY(recipients) OR $1 = ANY(cc_list)
		GROUP BY status;
	`
	rows, err := r.Pool.Query(ctx, statusQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count memos by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count row: %w", err)
		}
		counts.MemosByStatus[domain.MemoStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}

	flagQuery := `
		SELECT
			COUNT(*) FILTER (WHERE is_financial),
			COUNT(*) FILTER (WHERE is_archived)
		FROM memos
		WHERE from_user_id = $1 OR $1 = ANY(recipients) OR $1 = ANY(cc_list);
	`
	err = r.Pool.QueryRow(ctx, flagQuery, userID).Scan(&counts.FinancialMemos, &counts.ArchivedMemos)
	if err != nil {
		return nil, fmt.Errorf("failed to count flagged memos: %w", err)
	}

	folderQuery := `
		SELECT
			(SELECT COUNT(*) FROM folders WHERE owner_id = $1),
			(SELECT COUNT(*) FROM folder_documents fd JOIN folders f ON f.folder_id = fd.folder_id WHERE f.owner_id = $1);
	`
	err = r.Pool.QueryRow(ctx, folderQuery, userID).Scan(&counts.Folders, &counts.FiledDocuments)
	if err != nil {
		return nil, fmt.Errorf("failed to count folders and documents: %w", err)
	}

	return counts, nil
}
