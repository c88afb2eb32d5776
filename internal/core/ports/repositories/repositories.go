package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo       AccountRepositoryFacade
	CurrencyRepo      CurrencyRepositoryFacade
	ExchangeRateRepo  ExchangeRateRepositoryFacade
	LedgerRepo        LedgerRepositoryFacade
	DocumentRepo      DocumentRepositoryFacade
	EmployeeRepo      EmployeeRepositoryFacade
	SalaryRepo        SalaryPaymentRepositoryFacade
	BorrowingRepo     BorrowingRepositoryFacade
	ReimbursementRepo ReimbursementRepositoryFacade
	LeaveRepo         LeaveRepositoryFacade
	AuditRepo         AuditRepositoryFacade
}
