package pgsql

import (
	portsrepo "github.com/ememohq/ememo_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgsql-backed repositories. The cache and
// attachment store are attached separately by the caller when configured.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	folderRepo := NewPgxFolderRepository(dbPool)
	memoRepo := NewPgxMemoRepository(dbPool)
	userRepo := NewPgxUserRepository(dbPool)
	auditRepo := NewPgxAuditRepository(dbPool)
	dashboardRepo := NewPgxDashboardRepository(dbPool)

	return portsrepo.RepositoryProvider{
		FolderRepo:    folderRepo,
		MemoRepo:      memoRepo,
		UserRepo:      userRepo,
		AuditRepo:     auditRepo,
		DashboardRepo: dashboardRepo,
	}
}
