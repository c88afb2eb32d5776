package repositories

import (
	"context"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// BorrowingReader defines read operations for borrowings and repayments
type BorrowingReader interface {
	FindBorrowingByID(ctx context.Context, borrowingID string) (*domain.Borrowing, error)
	FindRepaymentByID(ctx context.Context, repaymentID string) (*domain.Repayment, error)
	ListRepaymentsByBorrowingID(ctx context.Context, borrowingID string) ([]domain.Repayment, error)
}

// BorrowingWriter defines write operations for borrowings and repayments.
// Update and delete methods only touch the row when its version equals expectedVersion.
type BorrowingWriter interface {
	SaveBorrowing(ctx context.Context, borrowing domain.Borrowing) error
	UpdateBorrowing(ctx context.Context, borrowing domain.Borrowing, expectedVersion int64) error
	DeleteBorrowing(ctx context.Context, borrowingID string, expectedVersion int64) error
	SaveRepayment(ctx context.Context, repayment domain.Repayment) error
	UpdateRepayment(ctx context.Context, repayment domain.Repayment, expectedVersion int64) error
}

// BorrowingRepositoryFacade combines all borrowing-related repository interfaces
type BorrowingRepositoryFacade interface {
	BorrowingReader
	BorrowingWriter
}
