package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/notioncoach/notioncoach-api/internal/models"
)

// AuditRepository persists admin-action audit events.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new instance of AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert stores one audit event.
func (r *AuditRepository) Insert(ctx context.Context, event *models.AuditEvent) error {
	const query = `INSERT INTO audit_events (id, actor_id, action, target_id, detail, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.ActorID,
		event.Action,
		event.TargetID,
		event.Detail,
		event.IPAddress,
		event.UserAgent,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByActor returns the most recent events recorded for an actor, newest
// first, bounded by limit.
func (r *AuditRepository) ListByActor(ctx context.Context, actorID string, limit int) ([]models.AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `SELECT id, actor_id, action, target_id, detail, ip_address, user_agent, created_at
		FROM audit_events WHERE actor_id = $1 ORDER BY created_at DESC LIMIT $2`
	var events []models.AuditEvent
	if err := r.db.SelectContext(ctx, &events, query, actorID, limit); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}
