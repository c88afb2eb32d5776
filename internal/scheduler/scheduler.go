package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/robfig/cron/v3"
)

// SalaryGenerator is the part of the payroll service the scheduler drives.
type SalaryGenerator interface {
	Generate(ctx context.Context, req dto.GenerateSalaryRequest, userID string) (*dto.GenerateSalaryResponse, error)
}

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron    *cron.Cron
	payroll SalaryGenerator
	actor   string
	logger  *slog.Logger
	now     func() time.Time
}

// NewScheduler registers the monthly salary generation job under schedule, a
// standard five field cron expression evaluated in UTC. An empty schedule
// registers nothing.
func NewScheduler(payroll SalaryGenerator, schedule string, actor string, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		payroll: payroll,
		actor:   actor,
		logger:  logger.With(slog.String("component", "scheduler")),
		now:     time.Now,
	}

	if schedule == "" {
		s.logger.Info("Payroll generation schedule not configured")
		return s, nil
	}
	if _, err := s.cron.AddFunc(schedule, func() { _ = s.RunPayrollGeneration(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid payroll generation schedule %q: %w", schedule, err)
	}
	s.logger.Info("Payroll generation job registered", slog.String("schedule", schedule))
	return s, nil
}

// RunPayrollGeneration creates the current month's salary payments.
// Payments that already exist are left alone, so reruns are harmless.
func (s *Scheduler) RunPayrollGeneration(ctx context.Context) error {
	now := s.now().UTC()
	req := dto.GenerateSalaryRequest{Year: now.Year(), Month: int(now.Month())}
	logger := s.logger.With(slog.Int("year", req.Year), slog.Int("month", req.Month))

	resp, err := s.payroll.Generate(ctx, req, s.actor)
	if err != nil {
		logger.Error("Scheduled payroll generation failed", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Scheduled payroll generation finished", slog.Int("created", resp.Created))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Cron scheduler started", slog.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler stopped")
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}
