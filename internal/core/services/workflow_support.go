package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
)

// workflowEntry is a ledger movement caused by a workflow step.
type workflowEntry struct {
	AccountID    string
	CurrencyCode string
	Kind         domain.PostingKind
	Amount       int64
	BizDate      time.Time
	Category     string
	Counterparty string
	Memo         string
}

// postWorkflowEntry books e through the ledger inside the caller's unit of work.
// The account must hold the entry's currency.
func postWorkflowEntry(ctx context.Context, repos portsrepo.RepositoryProvider, ledger portssvc.LedgerTxSvc, e workflowEntry, userID string) (*domain.PostingResult, error) {
	account, err := repos.AccountRepo.FindAccountByID(ctx, e.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("account %s: %w", e.AccountID, apperrors.ErrNotFound)
		}
		return nil, err
	}
	if account.CurrencyCode != e.CurrencyCode {
		return nil, fmt.Errorf("%w: account %s holds %s, entry is in %s",
			apperrors.ErrBusinessRule, account.AccountID, account.CurrencyCode, e.CurrencyCode)
	}

	return ledger.PostSingleEntryInTx(ctx, repos, dto.PostSingleEntryRequest{
		AccountID:    e.AccountID,
		Kind:         e.Kind,
		Amount:       e.Amount,
		BizDate:      e.BizDate,
		Category:     e.Category,
		Counterparty: e.Counterparty,
		Memo:         e.Memo,
	}, userID)
}

// activeEmployee loads an employee that can still take part in workflows.
func activeEmployee(ctx context.Context, repo portsrepo.EmployeeReader, employeeID string) (*domain.Employee, error) {
	employee, err := repo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("employee %s: %w", employeeID, apperrors.ErrNotFound)
		}
		return nil, err
	}
	if !employee.IsActive {
		return nil, fmt.Errorf("%w: employee %s is inactive", apperrors.ErrBusinessRule, employeeID)
	}
	return employee, nil
}
