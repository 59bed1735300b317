package repositories

import (
	"context"

	"github.com/ememohq/ememo_backend/internal/core/domain"
)

// AuditRepository stores administrative audit events. Events are append-only.
type AuditRepository interface {
	SaveAuditEvent(ctx context.Context, event domain.AuditEvent) error
	ListAuditEvents(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditEvent, error)
}
