package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/core/fsm"
	"github.com/SscSPs/backoffice_ledger/internal/core/oplock"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// BaseService provides common functionality for all services
type BaseService struct {
	clock func() time.Time
	audit portssvc.AuditSink
}

// Option is a functional option shared by every service constructor.
type Option func(*BaseService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *BaseService) {
		s.clock = clock
	}
}

// WithAuditSink sets where committed state changes are reported.
func WithAuditSink(sink portssvc.AuditSink) Option {
	return func(s *BaseService) {
		s.audit = sink
	}
}

func newBaseService(opts []Option) BaseService {
	var b BaseService
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now returns the current time in UTC at database precision.
func (s *BaseService) Now() time.Time {
	now := time.Now()
	if s.clock != nil {
		now = s.clock()
	}
	return now.UTC().Truncate(time.Microsecond)
}

// Today returns the current business date.
func (s *BaseService) Today() time.Time {
	return domain.NormalizeDate(s.Now())
}

// dateOrToday normalizes an optional business date, defaulting to today.
func (s *BaseService) dateOrToday(d *time.Time) time.Time {
	if d == nil || d.IsZero() {
		return s.Today()
	}
	return domain.NormalizeDate(*d)
}

// RecordAudit hands a committed change to the audit sink, if one is set.
func (s *BaseService) RecordAudit(ctx context.Context, event domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	event.EventID = uuid.NewString()
	event.OccurredAt = s.Now()
	s.audit.Record(ctx, event)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Requests carry gin binding tags; reuse them for in-process callers.
	validate.SetTagName("binding")
}

// validateRequest runs struct validation and classifies failures as validation errors.
func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return nil
}

func requireActor(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: actor is required", apperrors.ErrValidation)
	}
	return nil
}

// checkTransition validates the status change first, then the caller's version.
func checkTransition[S ~string](m *fsm.StateMachine[S], from, to S, current int64, expected *int64) error {
	if err := m.ValidateTransition(from, to); err != nil {
		return err
	}
	return oplock.ValidateVersion(&current, expected)
}
