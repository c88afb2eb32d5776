package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/middleware"
)

// LogAuditSink writes audit events to the structured log.
type LogAuditSink struct{}

var _ portssvc.AuditSink = LogAuditSink{}

func (LogAuditSink) Record(ctx context.Context, event domain.AuditEvent) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("audit",
		slog.String("event_id", event.EventID),
		slog.String("actor", event.Actor),
		slog.String("entity_type", event.EntityType),
		slog.String("entity_id", event.EntityID),
		slog.String("action", event.Action),
		slog.String("from_status", event.FromStatus),
		slog.String("to_status", event.ToStatus),
	)
}

// RepositoryAuditSink stores audit events. Failures are logged and swallowed
// because the audited change has already committed.
type RepositoryAuditSink struct {
	repo portsrepo.AuditRepositoryFacade
}

var _ portssvc.AuditSink = (*RepositoryAuditSink)(nil)

func NewRepositoryAuditSink(repo portsrepo.AuditRepositoryFacade) *RepositoryAuditSink {
	return &RepositoryAuditSink{repo: repo}
}

func (s *RepositoryAuditSink) Record(ctx context.Context, event domain.AuditEvent) {
	if err := s.repo.SaveAuditEvent(ctx, event); err != nil {
		logger := middleware.GetLoggerFromCtx(ctx)
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("Failed to store audit event",
			slog.String("error", err.Error()),
			slog.String("entity_type", event.EntityType),
			slog.String("entity_id", event.EntityID),
			slog.String("action", event.Action))
	}
}

// MultiAuditSink fans an event out to several sinks in order.
type MultiAuditSink []portssvc.AuditSink

func (m MultiAuditSink) Record(ctx context.Context, event domain.AuditEvent) {
	for _, sink := range m {
		sink.Record(ctx, event)
	}
}
