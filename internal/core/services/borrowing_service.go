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

type borrowingService struct {
	BaseService
	repos     portsrepo.RepositoryProvider
	txManager portsrepo.TransactionManager
	ledger    portssvc.LedgerTxSvc
}

var _ portssvc.BorrowingSvcFacade = (*borrowingService)(nil)

// NewBorrowingService creates the employee loan workflow.
func NewBorrowingService(repos portsrepo.RepositoryProvider, txManager portsrepo.TransactionManager, ledger portssvc.LedgerTxSvc, opts ...Option) portssvc.BorrowingSvcFacade {
	return &borrowingService{
		BaseService: newBaseService(opts),
		repos:       repos,
		txManager:   txManager,
		ledger:      ledger,
	}
}

func (s *borrowingService) RequestBorrowing(ctx context.Context, req dto.CreateBorrowingRequest, userID string) (*domain.Borrowing, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if _, err := activeEmployee(ctx, s.repos.EmployeeRepo, req.EmployeeID); err != nil {
		return nil, err
	}

	b := domain.Borrowing{
		BorrowingID:  uuid.NewString(),
		EmployeeID:   req.EmployeeID,
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
		Reason:       req.Reason,
		Status:       domain.BorrowingPending,
		Version:      1,
		AuditFields:  domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.repos.BorrowingRepo.SaveBorrowing(ctx, b); err != nil {
		s.LogError(ctx, err, "Failed to save borrowing")
		return nil, err
	}

	s.LogInfo(ctx, "Borrowing requested", slog.String("borrowing_id", b.BorrowingID), slog.Int64("amount", b.Amount))
	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "borrowing",
		EntityID:   b.BorrowingID,
		Action:     "request",
		ToStatus:   string(b.Status),
		After:      b,
	})
	return &b, nil
}

func (s *borrowingService) GetBorrowing(ctx context.Context, borrowingID string) (*dto.BorrowingResponse, error) {
	b, err := s.repos.BorrowingRepo.FindBorrowingByID(ctx, borrowingID)
	if err != nil {
		return nil, err
	}
	repayments, err := s.repos.BorrowingRepo.ListRepaymentsByBorrowingID(ctx, borrowingID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list repayments", slog.String("borrowing_id", borrowingID))
		return nil, err
	}
	return &dto.BorrowingResponse{Borrowing: *b, Repayments: repayments}, nil
}

func (s *borrowingService) ApproveBorrowing(ctx context.Context, borrowingID string, req dto.TransitionRequest, userID string) (*domain.Borrowing, error) {
	return s.transition(ctx, borrowingID, domain.BorrowingApproved, req.Version, userID, "approve",
		func(_ context.Context, _ portsrepo.RepositoryProvider, b *domain.Borrowing, now time.Time) error {
			b.ReviewedBy = userID
			b.ReviewedAt = &now
			return nil
		})
}

func (s *borrowingService) RejectBorrowing(ctx context.Context, borrowingID string, req dto.TransitionRequest, userID string) (*domain.Borrowing, error) {
	return s.transition(ctx, borrowingID, domain.BorrowingRejected, req.Version, userID, "reject",
		func(_ context.Context, _ portsrepo.RepositoryProvider, b *domain.Borrowing, now time.Time) error {
			b.ReviewedBy = userID
			b.ReviewedAt = &now
			b.RejectReason = req.Reason
			return nil
		})
}

// DisburseBorrowing pays the loan out of an account and leaves it outstanding.
func (s *borrowingService) DisburseBorrowing(ctx context.Context, borrowingID string, req dto.PayoutRequest, userID string) (*domain.Borrowing, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	bizDate := s.dateOrToday(req.BizDate)

	return s.transition(ctx, borrowingID, domain.BorrowingOutstanding, req.Version, userID, "disburse",
		func(ctx context.Context, repos portsrepo.RepositoryProvider, b *domain.Borrowing, now time.Time) error {
			res, err := postWorkflowEntry(ctx, repos, s.ledger, workflowEntry{
				AccountID:    req.AccountID,
				CurrencyCode: b.CurrencyCode,
				Kind:         domain.PostingExpense,
				Amount:       -b.Amount,
				BizDate:      bizDate,
				Category:     "borrowing",
				Counterparty: b.EmployeeID,
				Memo:         b.Reason,
			}, userID)
			if err != nil {
				return err
			}
			b.DisbursementAccountID = req.AccountID
			b.DisbursementPostingID = res.Posting.PostingID
			b.DisbursedBy = userID
			b.DisbursedAt = &now
			return nil
		})
}

// DeleteBorrowing removes a borrowing that has not been reviewed yet.
func (s *borrowingService) DeleteBorrowing(ctx context.Context, borrowingID string, req dto.TransitionRequest, userID string) error {
	if err := requireActor(userID); err != nil {
		return err
	}

	var before domain.Borrowing
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		b, err := repos.BorrowingRepo.FindBorrowingByID(ctx, borrowingID)
		if err != nil {
			return err
		}
		before = *b
		if b.Status != domain.BorrowingPending {
			return fmt.Errorf("%w: only pending borrowings can be deleted", apperrors.ErrBusinessRule)
		}
		if err := oplock.ValidateVersion(&b.Version, req.Version); err != nil {
			return err
		}
		return repos.BorrowingRepo.DeleteBorrowing(ctx, borrowingID, b.Version)
	})
	if err != nil {
		s.logWriteError(ctx, err, "Failed to delete borrowing", slog.String("borrowing_id", borrowingID))
		return err
	}

	s.LogInfo(ctx, "Borrowing deleted", slog.String("borrowing_id", borrowingID))
	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "borrowing",
		EntityID:   borrowingID,
		Action:     "delete",
		FromStatus: string(before.Status),
		Before:     before,
	})
	return nil
}

// RequestRepayment records money an employee says they returned. It only
// counts once confirmed.
func (s *borrowingService) RequestRepayment(ctx context.Context, borrowingID string, req dto.CreateRepaymentRequest, userID string) (*domain.Repayment, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var rp domain.Repayment
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		b, err := repos.BorrowingRepo.FindBorrowingByID(ctx, borrowingID)
		if err != nil {
			return err
		}
		if b.Status != domain.BorrowingOutstanding && b.Status != domain.BorrowingPartial {
			return fmt.Errorf("%w: borrowing is %s, nothing to repay", apperrors.ErrBusinessRule, b.Status)
		}
		if req.Amount > b.Outstanding() {
			return fmt.Errorf("%w: repayment %d exceeds outstanding %d", apperrors.ErrBusinessRule, req.Amount, b.Outstanding())
		}
		if _, err := repos.AccountRepo.FindAccountByID(ctx, req.AccountID); err != nil {
			return fmt.Errorf("account %s: %w", req.AccountID, err)
		}

		rp = domain.Repayment{
			RepaymentID: uuid.NewString(),
			BorrowingID: borrowingID,
			Amount:      req.Amount,
			AccountID:   req.AccountID,
			BizDate:     s.dateOrToday(req.BizDate),
			Status:      domain.RepaymentPending,
			Version:     1,
			AuditFields: domain.NewAuditFields(userID, s.Now()),
		}
		return repos.BorrowingRepo.SaveRepayment(ctx, rp)
	})
	if err != nil {
		s.logWriteError(ctx, err, "Failed to request repayment", slog.String("borrowing_id", borrowingID))
		return nil, err
	}

	s.LogInfo(ctx, "Repayment requested", slog.String("repayment_id", rp.RepaymentID), slog.Int64("amount", rp.Amount))
	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "repayment",
		EntityID:   rp.RepaymentID,
		Action:     "request",
		ToStatus:   string(rp.Status),
		After:      rp,
	})
	return &rp, nil
}

// ConfirmRepayment books the repayment as income and moves the borrowing to
// partial or repaid.
func (s *borrowingService) ConfirmRepayment(ctx context.Context, repaymentID string, req dto.TransitionRequest, userID string) (*domain.Repayment, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}

	var (
		rpBefore, rpAfter domain.Repayment
		bBefore, bAfter   domain.Borrowing
	)
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		rp, err := repos.BorrowingRepo.FindRepaymentByID(ctx, repaymentID)
		if err != nil {
			return err
		}
		rpBefore = *rp
		if err := checkTransition(domain.RepaymentMachine, rp.Status, domain.RepaymentConfirmed, rp.Version, req.Version); err != nil {
			return err
		}

		b, err := repos.BorrowingRepo.FindBorrowingByID(ctx, rp.BorrowingID)
		if err != nil {
			return err
		}
		bBefore = *b
		if rp.Amount > b.Outstanding() {
			return fmt.Errorf("%w: repayment %d exceeds outstanding %d", apperrors.ErrBusinessRule, rp.Amount, b.Outstanding())
		}
		target := b.StatusAfterRepaid(b.RepaidAmount + rp.Amount)
		if target != b.Status {
			if err := domain.BorrowingMachine.ValidateTransition(b.Status, target); err != nil {
				return err
			}
		}

		res, err := postWorkflowEntry(ctx, repos, s.ledger, workflowEntry{
			AccountID:    rp.AccountID,
			CurrencyCode: b.CurrencyCode,
			Kind:         domain.PostingIncome,
			Amount:       rp.Amount,
			BizDate:      rp.BizDate,
			Category:     "borrowing_repayment",
			Counterparty: b.EmployeeID,
			Memo:         req.Reason,
		}, userID)
		if err != nil {
			return err
		}

		now := s.Now()
		prevRp := rp.Version
		rp.Status = domain.RepaymentConfirmed
		rp.PostingID = res.Posting.PostingID
		rp.ReviewedBy = userID
		rp.ReviewedAt = &now
		rp.Version = oplock.IncrementVersion(&prevRp)
		rp.Touch(userID, now)
		if err := repos.BorrowingRepo.UpdateRepayment(ctx, *rp, prevRp); err != nil {
			return err
		}

		prevB := b.Version
		b.RepaidAmount += rp.Amount
		b.Status = target
		b.Version = oplock.IncrementVersion(&prevB)
		b.Touch(userID, now)
		if err := repos.BorrowingRepo.UpdateBorrowing(ctx, *b, prevB); err != nil {
			return err
		}
		rpAfter, bAfter = *rp, *b
		return nil
	})
	if err != nil {
		s.logWriteError(ctx, err, "Failed to confirm repayment", slog.String("repayment_id", repaymentID))
		return nil, err
	}

	s.LogInfo(ctx, "Repayment confirmed",
		slog.String("repayment_id", repaymentID),
		slog.String("borrowing_status", string(bAfter.Status)),
		slog.Int64("outstanding", bAfter.Outstanding()))
	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "repayment",
		EntityID:   repaymentID,
		Action:     "confirm",
		FromStatus: string(rpBefore.Status),
		ToStatus:   string(rpAfter.Status),
		Before:     rpBefore,
		After:      rpAfter,
	})
	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "borrowing",
		EntityID:   bAfter.BorrowingID,
		Action:     "repay",
		FromStatus: string(bBefore.Status),
		ToStatus:   string(bAfter.Status),
		Before:     bBefore,
		After:      bAfter,
	})
	return &rpAfter, nil
}

func (s *borrowingService) RejectRepayment(ctx context.Context, repaymentID string, req dto.TransitionRequest, userID string) (*domain.Repayment, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}

	var before, after domain.Repayment
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		rp, err := repos.BorrowingRepo.FindRepaymentByID(ctx, repaymentID)
		if err != nil {
			return err
		}
		before = *rp
		if err := checkTransition(domain.RepaymentMachine, rp.Status, domain.RepaymentRejected, rp.Version, req.Version); err != nil {
			return err
		}
		now := s.Now()
		prev := rp.Version
		rp.Status = domain.RepaymentRejected
		rp.ReviewedBy = userID
		rp.ReviewedAt = &now
		rp.Version = oplock.IncrementVersion(&prev)
		rp.Touch(userID, now)
		if err := repos.BorrowingRepo.UpdateRepayment(ctx, *rp, prev); err != nil {
			return err
		}
		after = *rp
		return nil
	})
	if err != nil {
		s.logWriteError(ctx, err, "Failed to reject repayment", slog.String("repayment_id", repaymentID))
		return nil, err
	}

	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "repayment",
		EntityID:   repaymentID,
		Action:     "reject",
		FromStatus: string(before.Status),
		ToStatus:   string(after.Status),
		Before:     before,
		After:      after,
	})
	return &after, nil
}

type borrowingMutator func(ctx context.Context, repos portsrepo.RepositoryProvider, b *domain.Borrowing, now time.Time) error

func (s *borrowingService) transition(ctx context.Context, borrowingID string, to domain.BorrowingStatus, expected *int64, userID, action string, mutate borrowingMutator) (*domain.Borrowing, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}

	var before, after domain.Borrowing
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		b, err := repos.BorrowingRepo.FindBorrowingByID(ctx, borrowingID)
		if err != nil {
			return err
		}
		before = *b
		if err := checkTransition(domain.BorrowingMachine, b.Status, to, b.Version, expected); err != nil {
			return err
		}

		now := s.Now()
		if err := mutate(ctx, repos, b, now); err != nil {
			return err
		}
		prev := b.Version
		b.Status = to
		b.Version = oplock.IncrementVersion(&prev)
		b.Touch(userID, now)
		if err := repos.BorrowingRepo.UpdateBorrowing(ctx, *b, prev); err != nil {
			return err
		}
		after = *b
		return nil
	})
	if err != nil {
		s.logWriteError(ctx, err, "Borrowing transition failed",
			slog.String("borrowing_id", borrowingID), slog.String("action", action))
		return nil, err
	}

	s.LogInfo(ctx, "Borrowing transitioned",
		slog.String("borrowing_id", borrowingID),
		slog.String("from", string(before.Status)),
		slog.String("to", string(after.Status)))
	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "borrowing",
		EntityID:   borrowingID,
		Action:     action,
		FromStatus: string(before.Status),
		ToStatus:   string(after.Status),
		Before:     before,
		After:      after,
	})
	return &after, nil
}
