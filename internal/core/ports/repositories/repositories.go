package repositories

// RepositoryProvider bundles every repository implementation handed to the
// service container at startup.
type RepositoryProvider struct {
	FolderRepo    FolderRepositoryFacade
	MemoRepo      MemoRepositoryFacade
	UserRepo      UserRepositoryFacade
	AuditRepo     AuditRepository
	DashboardRepo DashboardRepository

	// Optional collaborators; services degrade gracefully when nil.
	DashboardCache  DashboardCache
	AttachmentStore AttachmentStore
}
