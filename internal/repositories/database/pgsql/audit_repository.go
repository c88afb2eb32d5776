package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
)

type PgxAuditRepository struct {
	BaseRepository
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

func marshalSnapshot(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// SaveAuditEvent stores an event; before/after images go into jsonb columns.
func (r *PgxAuditRepository) SaveAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	before, err := marshalSnapshot(event.Before)
	if err != nil {
		return fmt.Errorf("failed to encode audit before image: %w", err)
	}
	after, err := marshalSnapshot(event.After)
	if err != nil {
		return fmt.Errorf("failed to encode audit after image: %w", err)
	}
	query := `
		INSERT INTO audit_events (event_id, actor, entity_type, entity_id, action, from_status, to_status, before, after, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = r.db.Exec(ctx, query,
		event.EventID,
		event.Actor,
		event.EntityType,
		event.EntityID,
		event.Action,
		event.FromStatus,
		event.ToStatus,
		before,
		after,
		event.OccurredAt,
	)
	return mapError(err, "audit event", event.EventID)
}

// ListAuditEventsByEntity returns the events of one entity, oldest first.
func (r *PgxAuditRepository) ListAuditEventsByEntity(ctx context.Context, entityType, entityID string) ([]domain.AuditEvent, error) {
	query := `
		SELECT event_id, actor, entity_type, entity_id, action, from_status, to_status, before, after, occurred_at
		FROM audit_events
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY occurred_at, event_id;
	`
	rows, err := r.db.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events for %s %s: %w", entityType, entityID, err)
	}
	defer rows.Close()

	events := []domain.AuditEvent{}
	for rows.Next() {
		var e domain.AuditEvent
		var before, after []byte
		if err := rows.Scan(&e.EventID, &e.Actor, &e.EntityType, &e.EntityID, &e.Action, &e.FromStatus, &e.ToStatus, &before, &after, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit event row: %w", err)
		}
		if len(before) > 0 {
			e.Before = json.RawMessage(before)
		}
		if len(after) > 0 {
			e.After = json.RawMessage(after)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit event rows: %w", err)
	}
	return events, nil
}
