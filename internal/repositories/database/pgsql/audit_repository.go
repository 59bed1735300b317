package pgsql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ememohq/ememo_backend/internal/core/domain"
	portsrepo "github.com/ememohq/ememo_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAuditRepository stores audit events using pgx.
type PgxAuditRepository struct {
	BaseRepository
}

// NewPgxAuditRepository creates a new repository for audit events.
func NewPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepository {
	return &PgxAuditRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxAuditRepository implements the interface
var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

// SaveAuditEvent inserts an audit event. Events are never updated or deleted.
func (r *PgxAuditRepository) SaveAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	query := `
		INSERT INTO audit_events (event_id, entity_type, entity_id, action, actor_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		event.EventID,
		event.EntityType,
		event.EntityID,
		event.Action,
		event.ActorID,
		nullableString(event.Detail),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit event %s: %w", event.EventID, err)
	}
	return nil
}

// ListAuditEvents retrieves the most recent events for an entity.
func (r *PgxAuditRepository) ListAuditEvents(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT event_id, entity_type, entity_id, action, actor_id, detail, created_at
		FROM audit_events
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		var detail sql.NullString
		if err := rows.Scan(&e.EventID, &e.EntityType, &e.EntityID, &e.Action, &e.ActorID, &detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit event row: %w", err)
		}
		e.Detail = detail.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit events: %w", err)
	}
	return events, nil
}
