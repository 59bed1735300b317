package services

import (
	"context"
	"log/slog"

	"github.com/ememohq/ememo_backend/internal/core/domain"
	portsrepo "github.com/ememohq/ememo_backend/internal/core/ports/repositories"
	portssvc "github.com/ememohq/ememo_backend/internal/core/ports/services"
)

// auditService exposes the audit trail of administrative overrides.
type auditService struct {
	BaseService
	auditRepo portsrepo.AuditRepository
}

// NewAuditService creates a new audit service.
func NewAuditService(auditRepo portsrepo.AuditRepository) portssvc.AuditReaderSvc {
	return &auditService{auditRepo: auditRepo}
}

// Ensure auditService implements the AuditReaderSvc interface
var _ portssvc.AuditReaderSvc = (*auditService)(nil)

// ListMemoAuditEvents retrieves the recent audit events for a memo.
func (s *auditService) ListMemoAuditEvents(ctx context.Context, actor *domain.User, memoID string, limit int) ([]domain.AuditEvent, error) {
	if err := s.RequirePermission(ctx, actor, domain.PermAuditRead); err != nil {
		return nil, err
	}

	events, err := s.auditRepo.ListAuditEvents(ctx, "memo", memoID, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit events",
			slog.String("memo_id", memoID))
		return nil, err
	}
	if events == nil {
		return []domain.AuditEvent{}, nil
	}
	return events, nil
}
