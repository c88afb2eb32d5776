package repositories

import (
	"context"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// AuditRepositoryFacade stores and reads audit events.
type AuditRepositoryFacade interface {
	SaveAuditEvent(ctx context.Context, event domain.AuditEvent) error
	ListAuditEventsByEntity(ctx context.Context, entityType, entityID string) ([]domain.AuditEvent, error)
}
