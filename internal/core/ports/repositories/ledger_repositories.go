package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// LedgerReader defines read operations for postings and balance snapshots
type LedgerReader interface {
	// FindPostingByID retrieves a posting by its unique identifier.
	FindPostingByID(ctx context.Context, postingID string) (*domain.Posting, error)

	// CountPostingsByBizDate counts postings already issued for the business date.
	CountPostingsByBizDate(ctx context.Context, bizDate time.Time) (int, error)

	// FindLatestAccountTransaction returns the snapshot of the account ordered last
	// by (biz date, created at) among those not after the given key.
	// Returns apperrors.ErrNotFound when the account has no snapshot yet.
	FindLatestAccountTransaction(ctx context.Context, accountID string, bizDate time.Time, createdAt time.Time) (*domain.AccountTransaction, error)

	// ListAccountTransactions returns snapshots newest first using a cursor token.
	ListAccountTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountTransaction, *string, error)

	// FindTransferByID retrieves a transfer and the ids of its two legs.
	FindTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error)
}

// LedgerWriter defines write operations for postings and balance snapshots
type LedgerWriter interface {
	// SavePosting persists a new posting.
	SavePosting(ctx context.Context, posting domain.Posting) error

	// SaveAccountTransaction persists the snapshot computed for a posting.
	SaveAccountTransaction(ctx context.Context, txn domain.AccountTransaction) error

	// SaveTransfer persists the link between the two transfer legs.
	SaveTransfer(ctx context.Context, transfer domain.Transfer) error

	// UpdatePostingVoucherRefs replaces the voucher references of a posting.
	UpdatePostingVoucherRefs(ctx context.Context, postingID string, refs []string) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
