package services

import (
	"context"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// AuditSink receives an event after each committed state change.
// Implementations must not fail the caller; they log their own errors.
type AuditSink interface {
	Record(ctx context.Context, event domain.AuditEvent)
}
