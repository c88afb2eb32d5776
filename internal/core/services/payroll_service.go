package services

import (
	"context"
	"errors"
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
	"github.com/shopspring/decimal"
)

// DefaultAllocationTolerancePercent is how far allocations may drift from the salary after conversion.
var DefaultAllocationTolerancePercent = decimal.NewFromInt(1)

type payrollService struct {
	BaseService
	repos     portsrepo.RepositoryProvider
	txManager portsrepo.TransactionManager
	ledger    portssvc.LedgerTxSvc
	tolerance decimal.Decimal
}

var _ portssvc.PayrollSvcFacade = (*payrollService)(nil)

// NewPayrollService creates the salary workflow. A non-positive tolerance
// falls back to DefaultAllocationTolerancePercent.
func NewPayrollService(repos portsrepo.RepositoryProvider, txManager portsrepo.TransactionManager, ledger portssvc.LedgerTxSvc, tolerancePercent decimal.Decimal, opts ...Option) portssvc.PayrollSvcFacade {
	if !tolerancePercent.IsPositive() {
		tolerancePercent = DefaultAllocationTolerancePercent
	}
	return &payrollService{
		BaseService: newBaseService(opts),
		repos:       repos,
		txManager:   txManager,
		ledger:      ledger,
		tolerance:   tolerancePercent,
	}
}

// Generate creates one pending payment per eligible employee for the month.
// Employees that already have a payment for the month are skipped, so the
// call can be repeated safely.
func (s *payrollService) Generate(ctx context.Context, req dto.GenerateSalaryRequest, userID string) (*dto.GenerateSalaryResponse, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	month := time.Month(req.Month)
	first, last := domain.MonthBounds(req.Year, month)
	days := domain.DaysInMonth(req.Year, month)
	created := []string{}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		created = created[:0]
		employees, err := repos.EmployeeRepo.ListActiveEmployeesJoinedBy(ctx, last)
		if err != nil {
			return err
		}
		for _, e := range employees {
			if !e.EligibleFor(last) {
				continue
			}
			exists, err := repos.SalaryRepo.ExistsSalaryPaymentForPeriod(ctx, e.EmployeeID, req.Year, req.Month)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			base, err := repos.EmployeeRepo.FindSalaryBase(ctx, e.EmployeeID, e.SalaryCurrency)
			if errors.Is(err, apperrors.ErrNotFound) {
				s.GetLogger(ctx).Warn("Employee has no salary base, skipping",
					slog.String("employee_id", e.EmployeeID),
					slog.String("currency_code", e.SalaryCurrency))
				continue
			}
			if err != nil {
				return err
			}

			leaveDays, err := s.unpaidLeaveDays(ctx, repos, e.EmployeeID, first, last)
			if err != nil {
				return err
			}

			payment := domain.SalaryPayment{
				PaymentID:        uuid.NewString(),
				EmployeeID:       e.EmployeeID,
				Year:             req.Year,
				Month:            req.Month,
				CurrencyCode:     e.SalaryCurrency,
				BaseAmount:       base.Amount,
				DaysInMonth:      days,
				LeaveDays:        leaveDays,
				Amount:           domain.ProrateSalary(base.Amount, days, leaveDays),
				Status:           domain.SalaryPendingEmployeeConfirmation,
				AllocationStatus: domain.AllocationNone,
				Version:          1,
				AuditFields:      domain.NewAuditFields(userID, s.Now()),
			}
			if err := repos.SalaryRepo.SaveSalaryPayment(ctx, payment); err != nil {
				return err
			}
			created = append(created, payment.PaymentID)
		}
		return nil
	})
	if err != nil {
		s.logWriteError(ctx, err, "Failed to generate salary payments", slog.Int("year", req.Year), slog.Int("month", req.Month))
		return nil, err
	}

	s.LogInfo(ctx, "Salary payments generated",
		slog.Int("year", req.Year), slog.Int("month", req.Month), slog.Int("created", len(created)))
	for _, id := range created {
		s.RecordAudit(ctx, domain.AuditEvent{
			Actor:      userID,
			EntityType: "salary_payment",
			EntityID:   id,
			Action:     "generate",
			ToStatus:   string(domain.SalaryPendingEmployeeConfirmation),
		})
	}
	return &dto.GenerateSalaryResponse{Created: len(created), PaymentIDs: created}, nil
}

// unpaidLeaveDays counts approved salary-deducting leave days inside the month.
func (s *payrollService) unpaidLeaveDays(ctx context.Context, repos portsrepo.RepositoryProvider, employeeID string, first, last time.Time) (int, error) {
	leaves, err := repos.LeaveRepo.ListApprovedLeavesOverlapping(ctx, employeeID, first, last)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, l := range leaves {
		if l.LeaveType.DeductsSalary() {
			total += l.DaysWithin(first, last)
		}
	}
	if days := domain.OverlapDays(first, last, first, last); total > days {
		total = days
	}
	return total, nil
}

func (s *payrollService) GetSalaryPayment(ctx context.Context, paymentID string) (*dto.SalaryPaymentResponse, error) {
	return s.loadPaymentResponse(ctx, s.repos, paymentID)
}

func (s *payrollService) ListSalaryPayments(ctx context.Context, year int, month int) ([]domain.SalaryPayment, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", apperrors.ErrValidation)
	}
	payments, err := s.repos.SalaryRepo.ListSalaryPaymentsByPeriod(ctx, year, month)
	if err != nil {
		s.LogError(ctx, err, "Failed to list salary payments")
		return nil, err
	}
	if payments == nil {
		return []domain.SalaryPayment{}, nil
	}
	return payments, nil
}

func (s *payrollService) EmployeeConfirm(ctx context.Context, paymentID string, req dto.TransitionRequest, userID string) (*domain.SalaryPayment, error) {
	return s.transition(ctx, paymentID, domain.SalaryPendingFinanceApproval, req.Version, userID, "employee_confirm",
		func(_ context.Context, _ portsrepo.RepositoryProvider, p *domain.SalaryPayment, now time.Time) error {
			p.EmployeeConfirmedBy = userID
			p.EmployeeConfirmedAt = &now
			return nil
		})
}

// FinanceApprove only proceeds with no allocation or a fully approved one.
func (s *payrollService) FinanceApprove(ctx context.Context, paymentID string, req dto.TransitionRequest, userID string) (*domain.SalaryPayment, error) {
	return s.transition(ctx, paymentID, domain.SalaryPendingPayment, req.Version, userID, "finance_approve",
		func(ctx context.Context, repos portsrepo.RepositoryProvider, p *domain.SalaryPayment, now time.Time) error {
			switch p.AllocationStatus {
			case domain.AllocationRequested:
				return fmt.Errorf("%w: allocation is still pending review", apperrors.ErrBusinessRule)
			case domain.AllocationRejected:
				return fmt.Errorf("%w: allocation was rejected; request a new one first", apperrors.ErrBusinessRule)
			case domain.AllocationApproved:
				allocations, err := repos.SalaryRepo.ListAllocationsByPaymentID(ctx, p.PaymentID)
				if err != nil {
					return err
				}
				for _, a := range allocations {
					if a.Status != domain.AllocationItemApproved {
						return fmt.Errorf("%w: allocation %s is %s", apperrors.ErrBusinessRule, a.AllocationID, a.Status)
					}
				}
			}
			p.FinanceApprovedBy = userID
			p.FinanceApprovedAt = &now
			return nil
		})
}

func (s *payrollService) FinanceReturn(ctx context.Context, paymentID string, req dto.TransitionRequest, userID string) (*domain.SalaryPayment, error) {
	return s.transition(ctx, paymentID, domain.SalaryPendingEmployeeConfirmation, req.Version, userID, "finance_return",
		func(_ context.Context, _ portsrepo.RepositoryProvider, p *domain.SalaryPayment, _ time.Time) error {
			p.Note = req.Reason
			p.EmployeeConfirmedBy = ""
			p.EmployeeConfirmedAt = nil
			return nil
		})
}

// Pay books the salary as expenses: one per approved allocation row, or a
// single one for the full amount when the salary was not split. A zero
// salary moves on without a posting.
func (s *payrollService) Pay(ctx context.Context, paymentID string, req dto.PayoutRequest, userID string) (*domain.SalaryPayment, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	bizDate := s.dateOrToday(req.BizDate)

	return s.transition(ctx, paymentID, domain.SalaryPendingPaymentConfirmation, req.Version, userID, "pay",
		func(ctx context.Context, repos portsrepo.RepositoryProvider, p *domain.SalaryPayment, now time.Time) error {
			memo := fmt.Sprintf("salary %04d-%02d", p.Year, p.Month)
			entry := workflowEntry{
				AccountID:    req.AccountID,
				CurrencyCode: p.CurrencyCode,
				Kind:         domain.PostingExpense,
				Amount:       -p.Amount,
				BizDate:      bizDate,
				Category:     "salary",
				Counterparty: p.EmployeeID,
				Memo:         memo,
			}

			if p.AllocationStatus == domain.AllocationApproved {
				allocations, err := repos.SalaryRepo.ListAllocationsByPaymentID(ctx, p.PaymentID)
				if err != nil {
					return err
				}
				for _, a := range allocations {
					if a.Status != domain.AllocationItemApproved {
						continue
					}
					e := entry
					e.CurrencyCode = a.CurrencyCode
					e.Amount = -a.Amount
					if a.AccountID != "" {
						e.AccountID = a.AccountID
					}
					res, err := postWorkflowEntry(ctx, repos, s.ledger, e, userID)
					if err != nil {
						return err
					}
					a.PostingID = res.Posting.PostingID
					a.Touch(userID, now)
					if err := repos.SalaryRepo.UpdateAllocation(ctx, a); err != nil {
						return err
					}
				}
			} else if p.Amount != 0 {
				res, err := postWorkflowEntry(ctx, repos, s.ledger, entry, userID)
				if err != nil {
					return err
				}
				p.PaymentPostingID = res.Posting.PostingID
			}

			p.PaymentAccountID = req.AccountID
			p.PaidBizDate = &bizDate
			p.PaidBy = userID
			p.PaidAt = &now
			return nil
		})
}

func (s *payrollService) ConfirmPayment(ctx context.Context, paymentID string, req dto.TransitionRequest, userID string) (*domain.SalaryPayment, error) {
	return s.transition(ctx, paymentID, domain.SalaryCompleted, req.Version, userID, "confirm_payment",
		func(_ context.Context, _ portsrepo.RepositoryProvider, p *domain.SalaryPayment, now time.Time) error {
			p.PaymentConfirmedBy = userID
			p.PaymentConfirmedAt = &now
			return nil
		})
}

// Delete soft-deletes a payment that the employee has not confirmed yet.
func (s *payrollService) Delete(ctx context.Context, paymentID string, req dto.TransitionRequest, userID string) (*domain.SalaryPayment, error) {
	return s.transition(ctx, paymentID, domain.SalaryDeleted, req.Version, userID, "delete",
		func(_ context.Context, _ portsrepo.RepositoryProvider, p *domain.SalaryPayment, _ time.Time) error {
			if req.Reason != "" {
				p.Note = req.Reason
			}
			return nil
		})
}

// RequestAllocation replaces the allocation rows of a payment. After
// conversion into the payment currency the rows must add up to the salary
// within the configured tolerance.
func (s *payrollService) RequestAllocation(ctx context.Context, paymentID string, req dto.RequestAllocationRequest, userID string) (*dto.SalaryPaymentResponse, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var (
		resp   *dto.SalaryPaymentResponse
		before domain.SalaryPayment
	)
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		p, err := repos.SalaryRepo.FindSalaryPaymentByID(ctx, paymentID)
		if err != nil {
			return err
		}
		before = *p
		if p.Status != domain.SalaryPendingEmployeeConfirmation && p.Status != domain.SalaryPendingFinanceApproval {
			return fmt.Errorf("%w: allocations cannot change once the payment is %s", apperrors.ErrBusinessRule, p.Status)
		}
		if err := oplock.ValidateVersion(&p.Version, req.Version); err != nil {
			return err
		}

		now := s.Now()
		onDate := domain.NormalizeDate(now)
		sum := decimal.Zero
		rows := make([]domain.SalaryPaymentAllocation, 0, len(req.Items))
		for _, item := range req.Items {
			if item.AccountID != "" {
				if err := s.checkAllocationAccount(ctx, repos, item); err != nil {
					return err
				}
			}
			converted, err := convertAmount(ctx, repos.ExchangeRateRepo, item.Amount, item.CurrencyCode, p.CurrencyCode, onDate)
			if err != nil {
				return err
			}
			sum = sum.Add(converted)
			rows = append(rows, domain.SalaryPaymentAllocation{
				AllocationID:    uuid.NewString(),
				PaymentID:       p.PaymentID,
				CurrencyCode:    item.CurrencyCode,
				Amount:          item.Amount,
				AccountID:       item.AccountID,
				ConvertedAmount: converted.Round(0).IntPart(),
				Status:          domain.AllocationItemPending,
				AuditFields:     domain.NewAuditFields(userID, now),
			})
		}

		if !domain.WithinTolerance(p.Amount, sum, s.tolerance) {
			return fmt.Errorf("%w: allocations total %s %s, salary is %d (tolerance %s%%)",
				apperrors.ErrBusinessRule, sum.Round(0).String(), p.CurrencyCode, p.Amount, s.tolerance.String())
		}

		if err := repos.SalaryRepo.ReplaceAllocations(ctx, p.PaymentID, rows); err != nil {
			return err
		}
		prev := p.Version
		p.AllocationStatus = domain.AllocationRequested
		p.Version = oplock.IncrementVersion(&prev)
		p.Touch(userID, now)
		if err := repos.SalaryRepo.UpdateSalaryPayment(ctx, *p, prev); err != nil {
			return err
		}
		resp = &dto.SalaryPaymentResponse{Payment: *p, Allocations: rows}
		return nil
	})
	if err != nil {
		s.logWriteError(ctx, err, "Failed to request allocation", slog.String("payment_id", paymentID))
		return nil, err
	}

	s.LogInfo(ctx, "Allocation requested", slog.String("payment_id", paymentID), slog.Int("rows", len(resp.Allocations)))
	s.recordAllocationAudit(ctx, userID, "request_allocation", before, resp.Payment)
	return resp, nil
}

func (s *payrollService) checkAllocationAccount(ctx context.Context, repos portsrepo.RepositoryProvider, item dto.AllocationItem) error {
	account, err := repos.AccountRepo.FindAccountByID(ctx, item.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("account %s: %w", item.AccountID, apperrors.ErrNotFound)
		}
		return err
	}
	if account.CurrencyCode != item.CurrencyCode {
		return fmt.Errorf("%w: account %s holds %s, allocation is in %s",
			apperrors.ErrValidation, account.AccountID, account.CurrencyCode, item.CurrencyCode)
	}
	return nil
}

// ApproveAllocation approves the named pending rows, or all of them. The
// payment's allocation status becomes approved once nothing is pending.
func (s *payrollService) ApproveAllocation(ctx context.Context, paymentID string, req dto.ReviewAllocationRequest, userID string) (*dto.SalaryPaymentResponse, error) {
	return s.reviewAllocation(ctx, paymentID, req, userID, domain.AllocationItemApproved)
}

// RejectAllocation rejects the named pending rows, or all of them, and marks
// the allocation as rejected.
func (s *payrollService) RejectAllocation(ctx context.Context, paymentID string, req dto.ReviewAllocationRequest, userID string) (*dto.SalaryPaymentResponse, error) {
	return s.reviewAllocation(ctx, paymentID, req, userID, domain.AllocationItemRejected)
}

func (s *payrollService) reviewAllocation(ctx context.Context, paymentID string, req dto.ReviewAllocationRequest, userID string, decision domain.AllocationItemStatus) (*dto.SalaryPaymentResponse, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var (
		resp   *dto.SalaryPaymentResponse
		before domain.SalaryPayment
	)
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		p, err := repos.SalaryRepo.FindSalaryPaymentByID(ctx, paymentID)
		if err != nil {
			return err
		}
		before = *p
		if p.AllocationStatus != domain.AllocationRequested {
			return fmt.Errorf("%w: no allocation request is awaiting review", apperrors.ErrBusinessRule)
		}

		rows, err := repos.SalaryRepo.ListAllocationsByPaymentID(ctx, p.PaymentID)
		if err != nil {
			return err
		}
		selected := make(map[string]bool, len(req.AllocationIDs))
		for _, id := range req.AllocationIDs {
			selected[id] = false
		}

		now := s.Now()
		pending := 0
		for i := range rows {
			a := &rows[i]
			if _, named := selected[a.AllocationID]; named {
				selected[a.AllocationID] = true
			} else if len(selected) > 0 {
				if a.Status == domain.AllocationItemPending {
					pending++
				}
				continue
			}
			if a.Status != domain.AllocationItemPending {
				continue
			}
			a.Status = decision
			a.ReviewedBy = userID
			a.ReviewedAt = &now
			a.Touch(userID, now)
			if err := repos.SalaryRepo.UpdateAllocation(ctx, *a); err != nil {
				return err
			}
		}
		for id, found := range selected {
			if !found {
				return fmt.Errorf("allocation %s: %w", id, apperrors.ErrNotFound)
			}
		}

		next := p.AllocationStatus
		switch {
		case decision == domain.AllocationItemRejected:
			next = domain.AllocationRejected
		case pending == 0:
			next = domain.AllocationApproved
		}
		if next != p.AllocationStatus || req.Reason != "" {
			prev := p.Version
			p.AllocationStatus = next
			if req.Reason != "" {
				p.Note = req.Reason
			}
			p.Version = oplock.IncrementVersion(&prev)
			p.Touch(userID, now)
			if err := repos.SalaryRepo.UpdateSalaryPayment(ctx, *p, prev); err != nil {
				return err
			}
		}
		resp = &dto.SalaryPaymentResponse{Payment: *p, Allocations: rows}
		return nil
	})
	if err != nil {
		s.logWriteError(ctx, err, "Failed to review allocation", slog.String("payment_id", paymentID))
		return nil, err
	}

	s.LogInfo(ctx, "Allocation reviewed",
		slog.String("payment_id", paymentID),
		slog.String("decision", string(decision)),
		slog.String("allocation_status", string(resp.Payment.AllocationStatus)))
	s.recordAllocationAudit(ctx, userID, string(decision)+"_allocation", before, resp.Payment)
	return resp, nil
}

// paymentMutator applies step-specific changes before the status moves.
type paymentMutator func(ctx context.Context, repos portsrepo.RepositoryProvider, p *domain.SalaryPayment, now time.Time) error

// transition moves a payment to a new status inside one unit of work:
// state machine check, version check, step changes, then a versioned write.
func (s *payrollService) transition(ctx context.Context, paymentID string, to domain.SalaryPaymentStatus, expected *int64, userID, action string, mutate paymentMutator) (*domain.SalaryPayment, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}

	var before, after domain.SalaryPayment
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		p, err := repos.SalaryRepo.FindSalaryPaymentByID(ctx, paymentID)
		if err != nil {
			return err
		}
		before = *p
		if err := checkTransition(domain.SalaryPaymentMachine, p.Status, to, p.Version, expected); err != nil {
			return err
		}

		now := s.Now()
		if mutate != nil {
			if err := mutate(ctx, repos, p, now); err != nil {
				return err
			}
		}

		prev := p.Version
		p.Status = to
		p.Version = oplock.IncrementVersion(&prev)
		p.Touch(userID, now)
		if err := repos.SalaryRepo.UpdateSalaryPayment(ctx, *p, prev); err != nil {
			return err
		}
		after = *p
		return nil
	})
	if err != nil {
		s.logWriteError(ctx, err, "Salary payment transition failed",
			slog.String("payment_id", paymentID), slog.String("action", action), slog.String("to", string(to)))
		return nil, err
	}

	s.LogInfo(ctx, "Salary payment transitioned",
		slog.String("payment_id", paymentID),
		slog.String("from", string(before.Status)),
		slog.String("to", string(after.Status)),
		slog.Int64("version", after.Version))
	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "salary_payment",
		EntityID:   paymentID,
		Action:     action,
		FromStatus: string(before.Status),
		ToStatus:   string(after.Status),
		Before:     before,
		After:      after,
	})
	return &after, nil
}

func (s *payrollService) recordAllocationAudit(ctx context.Context, userID, action string, before, after domain.SalaryPayment) {
	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "salary_payment",
		EntityID:   after.PaymentID,
		Action:     action,
		FromStatus: string(before.AllocationStatus),
		ToStatus:   string(after.AllocationStatus),
		Before:     before,
		After:      after,
	})
}

func (s *payrollService) loadPaymentResponse(ctx context.Context, repos portsrepo.RepositoryProvider, paymentID string) (*dto.SalaryPaymentResponse, error) {
	p, err := repos.SalaryRepo.FindSalaryPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	allocations, err := repos.SalaryRepo.ListAllocationsByPaymentID(ctx, paymentID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list allocations", slog.String("payment_id", paymentID))
		return nil, err
	}
	return &dto.SalaryPaymentResponse{Payment: *p, Allocations: allocations}, nil
}
