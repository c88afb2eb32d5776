package pgsql

import (
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider returns repositories that run each call on the pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return newRepositoryProvider(dbPool, false)
}

func newRepositoryProvider(db querier, inTx bool) portsrepo.RepositoryProvider {
	base := BaseRepository{db: db, inTx: inTx}
	return portsrepo.RepositoryProvider{
		AccountRepo:       &PgxAccountRepository{base},
		CurrencyRepo:      &PgxCurrencyRepository{base},
		ExchangeRateRepo:  &PgxExchangeRateRepository{base},
		LedgerRepo:        &PgxLedgerRepository{base},
		DocumentRepo:      &PgxDocumentRepository{base},
		EmployeeRepo:      &PgxEmployeeRepository{base},
		SalaryRepo:        &PgxSalaryRepository{base},
		BorrowingRepo:     &PgxBorrowingRepository{base},
		ReimbursementRepo: &PgxReimbursementRepository{base},
		LeaveRepo:         &PgxLeaveRepository{base},
		AuditRepo:         &PgxAuditRepository{base},
	}
}
