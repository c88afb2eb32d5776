package repositories

import (
	"context"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// SalaryPaymentReader defines read operations for salary payments and allocations
type SalaryPaymentReader interface {
	// FindSalaryPaymentByID retrieves a payment. Inside a transaction the row stays locked.
	FindSalaryPaymentByID(ctx context.Context, paymentID string) (*domain.SalaryPayment, error)

	// ExistsSalaryPaymentForPeriod reports whether the employee already has a payment for the month.
	ExistsSalaryPaymentForPeriod(ctx context.Context, employeeID string, year int, month int) (bool, error)

	// ListSalaryPaymentsByPeriod returns all payments for a month.
	ListSalaryPaymentsByPeriod(ctx context.Context, year int, month int) ([]domain.SalaryPayment, error)

	// ListAllocationsByPaymentID returns the allocation rows of a payment.
	ListAllocationsByPaymentID(ctx context.Context, paymentID string) ([]domain.SalaryPaymentAllocation, error)
}

// SalaryPaymentWriter defines write operations for salary payments and allocations
type SalaryPaymentWriter interface {
	// SaveSalaryPayment persists a new payment.
	SaveSalaryPayment(ctx context.Context, payment domain.SalaryPayment) error

	// UpdateSalaryPayment stores the payment if the stored version equals expectedVersion.
	UpdateSalaryPayment(ctx context.Context, payment domain.SalaryPayment, expectedVersion int64) error

	// ReplaceAllocations deletes every allocation row of the payment and inserts the given ones.
	ReplaceAllocations(ctx context.Context, paymentID string, allocations []domain.SalaryPaymentAllocation) error

	// UpdateAllocation stores the status, review and posting fields of one allocation row.
	UpdateAllocation(ctx context.Context, allocation domain.SalaryPaymentAllocation) error
}

// SalaryPaymentRepositoryFacade combines all salary-related repository interfaces
type SalaryPaymentRepositoryFacade interface {
	SalaryPaymentReader
	SalaryPaymentWriter
}
