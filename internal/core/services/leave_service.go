package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/core/oplock"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/google/uuid"
)

type leaveService struct {
	BaseService
	repos     portsrepo.RepositoryProvider
	txManager portsrepo.TransactionManager
}

var _ portssvc.LeaveSvcFacade = (*leaveService)(nil)

// NewLeaveService creates the leave request workflow.
func NewLeaveService(repos portsrepo.RepositoryProvider, txManager portsrepo.TransactionManager, opts ...Option) portssvc.LeaveSvcFacade {
	return &leaveService{BaseService: newBaseService(opts), repos: repos, txManager: txManager}
}

func (s *leaveService) RequestLeave(ctx context.Context, req dto.CreateLeaveRequest, userID string) (*domain.Leave, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	start, end := domain.NormalizeDate(req.StartDate), domain.NormalizeDate(req.EndDate)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: leave ends before it starts", apperrors.ErrValidation)
	}
	if _, err := activeEmployee(ctx, s.repos.EmployeeRepo, req.EmployeeID); err != nil {
		return nil, err
	}

	l := domain.Leave{
		LeaveID:     uuid.NewString(),
		EmployeeID:  req.EmployeeID,
		LeaveType:   req.LeaveType,
		StartDate:   start,
		EndDate:     end,
		Reason:      req.Reason,
		Status:      domain.LeavePending,
		Version:     1,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.repos.LeaveRepo.SaveLeave(ctx, l); err != nil {
		s.LogError(ctx, err, "Failed to save leave")
		return nil, err
	}

	s.LogInfo(ctx, "Leave requested", slog.String("leave_id", l.LeaveID), slog.Int("days", l.Days()))
	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "leave",
		EntityID:   l.LeaveID,
		Action:     "request",
		ToStatus:   string(l.Status),
		After:      l,
	})
	return &l, nil
}

func (s *leaveService) GetLeave(ctx context.Context, leaveID string) (*domain.Leave, error) {
	return s.repos.LeaveRepo.FindLeaveByID(ctx, leaveID)
}

// ListApprovedLeaves returns approved leaves overlapping the inclusive range.
func (s *leaveService) ListApprovedLeaves(ctx context.Context, params dto.ListLeavesParams) ([]domain.Leave, error) {
	if err := validateRequest(params); err != nil {
		return nil, err
	}
	from, to := domain.NormalizeDate(params.From), domain.NormalizeDate(params.To)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range ends before it starts", apperrors.ErrValidation)
	}
	leaves, err := s.repos.LeaveRepo.ListApprovedLeavesOverlapping(ctx, params.EmployeeID, from, to)
	if err != nil {
		return nil, err
	}
	if leaves == nil {
		leaves = []domain.Leave{}
	}
	return leaves, nil
}

func (s *leaveService) ApproveLeave(ctx context.Context, leaveID string, req dto.TransitionRequest, userID string) (*domain.Leave, error) {
	return s.review(ctx, leaveID, domain.LeaveApproved, req, userID)
}

func (s *leaveService) RejectLeave(ctx context.Context, leaveID string, req dto.TransitionRequest, userID string) (*domain.Leave, error) {
	return s.review(ctx, leaveID, domain.LeaveRejected, req, userID)
}

// DeleteLeave removes a leave request that has not been reviewed yet.
func (s *leaveService) DeleteLeave(ctx context.Context, leaveID string, req dto.TransitionRequest, userID string) error {
	if err := requireActor(userID); err != nil {
		return err
	}

	var before domain.Leave
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		l, err := repos.LeaveRepo.FindLeaveByID(ctx, leaveID)
		if err != nil {
			return err
		}
		before = *l
		if l.Status != domain.LeavePending {
			return fmt.Errorf("%w: only pending leave can be deleted", apperrors.ErrBusinessRule)
		}
		if err := oplock.ValidateVersion(&l.Version, req.Version); err != nil {
			return err
		}
		return repos.LeaveRepo.DeleteLeave(ctx, leaveID, l.Version)
	})
	if err != nil {
		s.logWriteError(ctx, err, "Failed to delete leave", slog.String("leave_id", leaveID))
		return err
	}

	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "leave",
		EntityID:   leaveID,
		Action:     "delete",
		FromStatus: string(before.Status),
		Before:     before,
	})
	return nil
}

func (s *leaveService) review(ctx context.Context, leaveID string, to domain.LeaveStatus, req dto.TransitionRequest, userID string) (*domain.Leave, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}

	var before, after domain.Leave
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		l, err := repos.LeaveRepo.FindLeaveByID(ctx, leaveID)
		if err != nil {
			return err
		}
		before = *l
		if err := checkTransition(domain.LeaveMachine, l.Status, to, l.Version, req.Version); err != nil {
			return err
		}

		now := s.Now()
		prev := l.Version
		l.Status = to
		l.ReviewedBy = userID
		l.ReviewedAt = &now
		l.Version = oplock.IncrementVersion(&prev)
		l.Touch(userID, now)
		if err := repos.LeaveRepo.UpdateLeave(ctx, *l, prev); err != nil {
			return err
		}
		after = *l
		return nil
	})
	if err != nil {
		s.logWriteError(ctx, err, "Leave review failed", slog.String("leave_id", leaveID))
		return nil, err
	}

	s.LogInfo(ctx, "Leave reviewed", slog.String("leave_id", leaveID), slog.String("status", string(after.Status)))
	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "leave",
		EntityID:   leaveID,
		Action:     string(to),
		FromStatus: string(before.Status),
		ToStatus:   string(after.Status),
		Before:     before,
		After:      after,
	})
	return &after, nil
}
