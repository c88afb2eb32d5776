package services

import (
	"context"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
)

// LedgerPosterSvc writes postings.
type LedgerPosterSvc interface {
	// PostSingleEntry records an income or expense and its balance snapshot atomically.
	PostSingleEntry(ctx context.Context, req dto.PostSingleEntryRequest, userID string) (*domain.PostingResult, error)

	// PostTransfer records the two legs of a transfer atomically.
	PostTransfer(ctx context.Context, req dto.PostTransferRequest, userID string) (*domain.TransferResult, error)

	// AttachVouchers replaces the voucher references of a posting.
	AttachVouchers(ctx context.Context, postingID string, req dto.AttachVouchersRequest, userID string) (*domain.Posting, error)
}

// LedgerReaderSvc reads postings and balances.
type LedgerReaderSvc interface {
	GetPosting(ctx context.Context, postingID string) (*domain.Posting, error)
	GetTransfer(ctx context.Context, transferID string) (*domain.Transfer, error)

	// GetAccountBalance returns the balance after the latest snapshot, or the opening balance.
	GetAccountBalance(ctx context.Context, accountID string) (*dto.AccountBalanceResponse, error)

	ListAccountTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListAccountTransactionsResponse, error)
}

// LedgerTxSvc lets other engines post inside their own unit of work.
type LedgerTxSvc interface {
	PostSingleEntryInTx(ctx context.Context, repos portsrepo.RepositoryProvider, req dto.PostSingleEntryRequest, userID string) (*domain.PostingResult, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerPosterSvc
	LedgerReaderSvc
	LedgerTxSvc
}
