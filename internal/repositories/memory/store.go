// Package memory provides an in-process implementation of the repository
// ports, used by tests and local development.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
)

// Store holds every table in maps guarded by a single mutex.
// A transaction holds the mutex for its whole duration, so units of work are
// fully serialized.
type Store struct {
	mu   sync.Mutex
	data *dataset
}

type dataset struct {
	accounts       map[string]domain.Account
	currencies     map[string]domain.Currency
	rates          []domain.ExchangeRate
	postings       map[string]domain.Posting
	snapshots      []domain.AccountTransaction
	transfers      map[string]domain.Transfer
	documents      map[string]domain.Document
	settlements    []domain.Settlement
	employees      map[string]domain.Employee
	salaryBases    map[string]domain.SalaryBase
	payments       map[string]domain.SalaryPayment
	allocations    map[string][]domain.SalaryPaymentAllocation
	borrowings     map[string]domain.Borrowing
	repayments     map[string]domain.Repayment
	reimbursements map[string]domain.Reimbursement
	leaves         map[string]domain.Leave
	audit          []domain.AuditEvent
}

func newDataset() *dataset {
	return &dataset{
		accounts:       make(map[string]domain.Account),
		currencies:     make(map[string]domain.Currency),
		postings:       make(map[string]domain.Posting),
		transfers:      make(map[string]domain.Transfer),
		documents:      make(map[string]domain.Document),
		employees:      make(map[string]domain.Employee),
		salaryBases:    make(map[string]domain.SalaryBase),
		payments:       make(map[string]domain.SalaryPayment),
		allocations:    make(map[string][]domain.SalaryPaymentAllocation),
		borrowings:     make(map[string]domain.Borrowing),
		repayments:     make(map[string]domain.Repayment),
		reimbursements: make(map[string]domain.Reimbursement),
		leaves:         make(map[string]domain.Leave),
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copies every table. Stored values are never mutated in place, so a
// shallow copy of each value is enough.
func (d *dataset) clone() *dataset {
	allocs := make(map[string][]domain.SalaryPaymentAllocation, len(d.allocations))
	for k, v := range d.allocations {
		allocs[k] = append([]domain.SalaryPaymentAllocation(nil), v...)
	}
	return &dataset{
		accounts:       copyMap(d.accounts),
		currencies:     copyMap(d.currencies),
		rates:          append([]domain.ExchangeRate(nil), d.rates...),
		postings:       copyMap(d.postings),
		snapshots:      append([]domain.AccountTransaction(nil), d.snapshots...),
		transfers:      copyMap(d.transfers),
		documents:      copyMap(d.documents),
		settlements:    append([]domain.Settlement(nil), d.settlements...),
		employees:      copyMap(d.employees),
		salaryBases:    copyMap(d.salaryBases),
		payments:       copyMap(d.payments),
		allocations:    allocs,
		borrowings:     copyMap(d.borrowings),
		repayments:     copyMap(d.repayments),
		reimbursements: copyMap(d.reimbursements),
		leaves:         copyMap(d.leaves),
		audit:          append([]domain.AuditEvent(nil), d.audit...),
	}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newDataset()}
}

// base is embedded by every repository. inTx repositories run while the
// owning transaction already holds the mutex.
type base struct {
	s    *Store
	inTx bool
}

func (b base) lock() func() {
	if b.inTx {
		return func() {}
	}
	b.s.mu.Lock()
	return b.s.mu.Unlock
}

func (s *Store) provider(inTx bool) portsrepo.RepositoryProvider {
	b := base{s: s, inTx: inTx}
	return portsrepo.RepositoryProvider{
		AccountRepo:       &accountRepository{b},
		CurrencyRepo:      &currencyRepository{b},
		ExchangeRateRepo:  &exchangeRateRepository{b},
		LedgerRepo:        &ledgerRepository{b},
		DocumentRepo:      &documentRepository{b},
		EmployeeRepo:      &employeeRepository{b},
		SalaryRepo:        &salaryRepository{b},
		BorrowingRepo:     &borrowingRepository{b},
		ReimbursementRepo: &reimbursementRepository{b},
		LeaveRepo:         &leaveRepository{b},
		AuditRepo:         &auditRepository{b},
	}
}

// Repositories returns repositories that each lock the store per call.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return s.provider(false)
}

// WithTransaction runs fn with exclusive access to the store. Writes made by
// fn are discarded when it returns an error.
func (s *Store) WithTransaction(ctx context.Context, fn portsrepo.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.data.clone()
	if err := fn(ctx, s.provider(true)); err != nil {
		s.data = backup
		return err
	}
	return nil
}

var _ portsrepo.TransactionManager = (*Store)(nil)
