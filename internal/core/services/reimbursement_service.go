package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/core/oplock"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/google/uuid"
)

type reimbursementService struct {
	BaseService
	repos     portsrepo.RepositoryProvider
	txManager portsrepo.TransactionManager
	ledger    portssvc.LedgerTxSvc
}

var _ portssvc.ReimbursementSvcFacade = (*reimbursementService)(nil)

// NewReimbursementService creates the expense claim workflow.
func NewReimbursementService(repos portsrepo.RepositoryProvider, txManager portsrepo.TransactionManager, ledger portssvc.LedgerTxSvc, opts ...Option) portssvc.ReimbursementSvcFacade {
	return &reimbursementService{
		BaseService: newBaseService(opts),
		repos:       repos,
		txManager:   txManager,
		ledger:      ledger,
	}
}

func (s *reimbursementService) SubmitReimbursement(ctx context.Context, req dto.CreateReimbursementRequest, userID string) (*domain.Reimbursement, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if _, err := activeEmployee(ctx, s.repos.EmployeeRepo, req.EmployeeID); err != nil {
		return nil, err
	}

	r := domain.Reimbursement{
		ReimbursementID: uuid.NewString(),
		EmployeeID:      req.EmployeeID,
		Amount:          req.Amount,
		CurrencyCode:    req.CurrencyCode,
		Category:        req.Category,
		Description:     req.Description,
		VoucherRefs:     append([]string{}, req.VoucherRefs...),
		Status:          domain.ReimbursementPending,
		Version:         1,
		AuditFields:     domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.repos.ReimbursementRepo.SaveReimbursement(ctx, r); err != nil {
		s.LogError(ctx, err, "Failed to save reimbursement")
		return nil, err
	}

	s.LogInfo(ctx, "Reimbursement submitted", slog.String("reimbursement_id", r.ReimbursementID))
	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "reimbursement",
		EntityID:   r.ReimbursementID,
		Action:     "submit",
		ToStatus:   string(r.Status),
		After:      r,
	})
	return &r, nil
}

func (s *reimbursementService) GetReimbursement(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error) {
	return s.repos.ReimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
}

func (s *reimbursementService) ApproveReimbursement(ctx context.Context, reimbursementID string, req dto.TransitionRequest, userID string) (*domain.Reimbursement, error) {
	return s.transition(ctx, reimbursementID, domain.ReimbursementApproved, req.Version, userID, "approve",
		func(_ context.Context, _ portsrepo.RepositoryProvider, r *domain.Reimbursement, now time.Time) error {
			r.ReviewedBy = userID
			r.ReviewedAt = &now
			return nil
		})
}

func (s *reimbursementService) RejectReimbursement(ctx context.Context, reimbursementID string, req dto.TransitionRequest, userID string) (*domain.Reimbursement, error) {
	return s.transition(ctx, reimbursementID, domain.ReimbursementRejected, req.Version, userID, "reject",
		func(_ context.Context, _ portsrepo.RepositoryProvider, r *domain.Reimbursement, now time.Time) error {
			r.ReviewedBy = userID
			r.ReviewedAt = &now
			r.RejectReason = req.Reason
			return nil
		})
}

// PayReimbursement books the claim as an expense on the paying account.
func (s *reimbursementService) PayReimbursement(ctx context.Context, reimbursementID string, req dto.PayoutRequest, userID string) (*domain.Reimbursement, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	bizDate := s.dateOrToday(req.BizDate)

	return s.transition(ctx, reimbursementID, domain.ReimbursementPaid, req.Version, userID, "pay",
		func(ctx context.Context, repos portsrepo.RepositoryProvider, r *domain.Reimbursement, now time.Time) error {
			res, err := postWorkflowEntry(ctx, repos, s.ledger, workflowEntry{
				AccountID:    req.AccountID,
				CurrencyCode: r.CurrencyCode,
				Kind:         domain.PostingExpense,
				Amount:       -r.Amount,
				BizDate:      bizDate,
				Category:     r.Category,
				Counterparty: r.EmployeeID,
				Memo:         r.Description,
			}, userID)
			if err != nil {
				return err
			}
			if len(r.VoucherRefs) > 0 {
				if err := repos.LedgerRepo.UpdatePostingVoucherRefs(ctx, res.Posting.PostingID, r.VoucherRefs); err != nil {
					return err
				}
			}
			r.PaymentAccountID = req.AccountID
			r.PaymentPostingID = res.Posting.PostingID
			r.PaidBy = userID
			r.PaidAt = &now
			return nil
		})
}

// DeleteReimbursement removes a claim that has not been reviewed yet.
func (s *reimbursementService) DeleteReimbursement(ctx context.Context, reimbursementID string, req dto.TransitionRequest, userID string) error {
	if err := requireActor(userID); err != nil {
		return err
	}

	var before domain.Reimbursement
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		r, err := repos.ReimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
		if err != nil {
			return err
		}
		before = *r
		if r.Status != domain.ReimbursementPending {
			return fmt.Errorf("%w: only pending reimbursements can be deleted", apperrors.ErrBusinessRule)
		}
		if err := oplock.ValidateVersion(&r.Version, req.Version); err != nil {
			return err
		}
		return repos.ReimbursementRepo.DeleteReimbursement(ctx, reimbursementID, r.Version)
	})
	if err != nil {
		s.logWriteError(ctx, err, "Failed to delete reimbursement", slog.String("reimbursement_id", reimbursementID))
		return err
	}

	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "reimbursement",
		EntityID:   reimbursementID,
		Action:     "delete",
		FromStatus: string(before.Status),
		Before:     before,
	})
	return nil
}

type reimbursementMutator func(ctx context.Context, repos portsrepo.RepositoryProvider, r *domain.Reimbursement, now time.Time) error

func (s *reimbursementService) transition(ctx context.Context, reimbursementID string, to domain.ReimbursementStatus, expected *int64, userID, action string, mutate reimbursementMutator) (*domain.Reimbursement, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}

	var before, after domain.Reimbursement
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		r, err := repos.ReimbursementRepo.FindReimbursementByID(ctx, reimbursementID)
		if err != nil {
			return err
		}
		before = *r
		if err := checkTransition(domain.ReimbursementMachine, r.Status, to, r.Version, expected); err != nil {
			return err
		}

		now := s.Now()
		if err := mutate(ctx, repos, r, now); err != nil {
			return err
		}
		prev := r.Version
		r.Status = to
		r.Version = oplock.IncrementVersion(&prev)
		r.Touch(userID, now)
		if err := repos.ReimbursementRepo.UpdateReimbursement(ctx, *r, prev); err != nil {
			return err
		}
		after = *r
		return nil
	})
	if err != nil {
		s.logWriteError(ctx, err, "Reimbursement transition failed",
			slog.String("reimbursement_id", reimbursementID), slog.String("action", action))
		return nil, err
	}

	s.LogInfo(ctx, "Reimbursement transitioned",
		slog.String("reimbursement_id", reimbursementID),
		slog.String("from", string(before.Status)),
		slog.String("to", string(after.Status)))
	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "reimbursement",
		EntityID:   reimbursementID,
		Action:     action,
		FromStatus: string(before.Status),
		ToStatus:   string(after.Status),
		Before:     before,
		After:      after,
	})
	return &after, nil
}
