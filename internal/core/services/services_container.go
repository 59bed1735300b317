package services

import (
	portsrepo "github.com/ememohq/ememo_backend/internal/core/ports/repositories"
	portssvc "github.com/ememohq/ememo_backend/internal/core/ports/services"
	"github.com/ememohq/ememo_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Dashboard first; folder and memo mutations invalidate its cache.
	container.Dashboard = NewDashboardService(repos.DashboardRepo, repos.DashboardCache, cfg.DashboardCacheTTL)

	container.Folder = NewFolderService(
		repos.FolderRepo,
		WithFolderDashboard(container.Dashboard),
	)
	container.Memo = NewMemoService(
		repos.MemoRepo,
		repos.AuditRepo,
		WithMemoDashboard(container.Dashboard),
	)
	container.User = NewUserService(repos.UserRepo)
	container.Audit = NewAuditService(repos.AuditRepo)
	container.Attachment = NewAttachmentService(repos.AttachmentStore, cfg.AttachmentURLExpiry)

	container.TokenService = NewTokenService(cfg)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.FolderSvcFacade = (*folderService)(nil)
	_ portssvc.MemoSvcFacade   = (*memoService)(nil)
	_ portssvc.UserSvcFacade   = (*userService)(nil)
)
