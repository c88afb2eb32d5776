package services

import (
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// Unless opts override it, committed changes are audited to the log and to the audit table.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, txManager portsrepo.TransactionManager, opts ...Option) *portssvc.ServiceContainer {
	base := []Option{WithAuditSink(MultiAuditSink{LogAuditSink{}, NewRepositoryAuditSink(repos.AuditRepo)})}
	opts = append(base, opts...)

	// Every workflow posts through the same ledger so snapshots stay consistent.
	ledger := NewLedgerService(repos, txManager, opts...)

	container := &portssvc.ServiceContainer{
		Account:       NewAccountService(repos.AccountRepo, repos.CurrencyRepo, opts...),
		Currency:      NewCurrencyService(repos.CurrencyRepo, opts...),
		ExchangeRate:  NewExchangeRateService(repos.ExchangeRateRepo, repos.CurrencyRepo, opts...),
		Ledger:        ledger,
		Settlement:    NewSettlementService(repos, txManager, ledger, opts...),
		Employee:      NewEmployeeService(repos.EmployeeRepo, repos.CurrencyRepo, opts...),
		Payroll:       NewPayrollService(repos, txManager, ledger, cfg.AllocationTolerancePercent, opts...),
		Borrowing:     NewBorrowingService(repos, txManager, ledger, opts...),
		Reimbursement: NewReimbursementService(repos, txManager, ledger, opts...),
		Leave:         NewLeaveService(repos, txManager, opts...),
	}
	return container
}
