package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/google/uuid"
)

const defaultTransactionPageSize = 20

// endOfTime sorts after every real snapshot key.
var endOfTime = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// LedgerService writes postings together with their balance snapshots.
type LedgerService struct {
	BaseService
	repos     portsrepo.RepositoryProvider
	txManager portsrepo.TransactionManager
}

var _ portssvc.LedgerSvcFacade = (*LedgerService)(nil)

// NewLedgerService creates a new ledger service.
func NewLedgerService(repos portsrepo.RepositoryProvider, txManager portsrepo.TransactionManager, opts ...Option) *LedgerService {
	return &LedgerService{
		BaseService: newBaseService(opts),
		repos:       repos,
		txManager:   txManager,
	}
}

// PostSingleEntry records an income or expense and its snapshot in one unit of work.
func (s *LedgerService) PostSingleEntry(ctx context.Context, req dto.PostSingleEntryRequest, userID string) (*domain.PostingResult, error) {
	var result *domain.PostingResult
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		var err error
		result, err = s.PostSingleEntryInTx(ctx, repos, req, userID)
		return err
	})
	if err != nil {
		s.logWriteError(ctx, err, "Failed to post single entry", slog.String("account_id", req.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Posting recorded",
		slog.String("posting_id", result.Posting.PostingID),
		slog.String("voucher_no", result.Posting.VoucherNo),
		slog.Int64("balance_after", result.Snapshot.BalanceAfter))
	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "posting",
		EntityID:   result.Posting.PostingID,
		Action:     "post_single_entry",
		After:      result,
	})
	return result, nil
}

// PostSingleEntryInTx is PostSingleEntry for callers that already hold a unit of work.
func (s *LedgerService) PostSingleEntryInTx(ctx context.Context, repos portsrepo.RepositoryProvider, req dto.PostSingleEntryRequest, userID string) (*domain.PostingResult, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.Kind.IsTransfer() {
		return nil, fmt.Errorf("%w: transfer legs must be posted as a transfer", apperrors.ErrValidation)
	}
	if !req.Kind.AcceptsAmount(req.Amount) {
		return nil, fmt.Errorf("%w: amount %d does not match the sign of a %s posting", apperrors.ErrValidation, req.Amount, req.Kind)
	}

	posting := domain.Posting{
		PostingID:    uuid.NewString(),
		BizDate:      domain.NormalizeDate(req.BizDate),
		Kind:         req.Kind,
		AccountID:    req.AccountID,
		Amount:       req.Amount,
		Category:     req.Category,
		Site:         req.Site,
		Department:   req.Department,
		Counterparty: req.Counterparty,
		Memo:         req.Memo,
		VoucherRefs:  append([]string{}, req.VoucherRefs...),
		CreatedBy:    userID,
		CreatedAt:    s.Now(),
	}
	return s.post(ctx, repos, posting)
}

// PostTransfer writes the outgoing and incoming legs of a transfer atomically.
// The rate is kept for reference only; both amounts are taken as given.
func (s *LedgerService) PostTransfer(ctx context.Context, req dto.PostTransferRequest, userID string) (*domain.TransferResult, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.Rate != nil && !req.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: transfer rate must be positive", apperrors.ErrValidation)
	}

	bizDate := domain.NormalizeDate(req.BizDate)
	transfer := domain.Transfer{
		TransferID:    uuid.NewString(),
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		FromAmount:    req.FromAmount,
		ToAmount:      req.ToAmount,
		Rate:          req.Rate,
		BizDate:       bizDate,
		Memo:          req.Memo,
		CreatedBy:     userID,
		CreatedAt:     s.Now(),
	}
	leg := func(kind domain.PostingKind, accountID string, amount int64) domain.Posting {
		return domain.Posting{
			PostingID:   uuid.NewString(),
			BizDate:     bizDate,
			Kind:        kind,
			AccountID:   accountID,
			Amount:      amount,
			Memo:        req.Memo,
			VoucherRefs: append([]string{}, req.VoucherRefs...),
			TransferID:  transfer.TransferID,
			CreatedBy:   userID,
			CreatedAt:   transfer.CreatedAt,
		}
	}

	var result domain.TransferResult
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		// Lock both accounts in a fixed order so opposite transfers cannot deadlock.
		ids := []string{req.FromAccountID, req.ToAccountID}
		sort.Strings(ids)
		for _, id := range ids {
			if _, err := s.activeAccount(ctx, repos, id); err != nil {
				return err
			}
		}

		out, err := s.post(ctx, repos, leg(domain.PostingTransferOut, req.FromAccountID, -req.FromAmount))
		if err != nil {
			return err
		}
		in, err := s.post(ctx, repos, leg(domain.PostingTransferIn, req.ToAccountID, req.ToAmount))
		if err != nil {
			return err
		}

		transfer.OutPostingID = out.Posting.PostingID
		transfer.InPostingID = in.Posting.PostingID
		if err := repos.LedgerRepo.SaveTransfer(ctx, transfer); err != nil {
			return err
		}
		result = domain.TransferResult{Transfer: transfer, Out: *out, In: *in}
		return nil
	})
	if err != nil {
		s.logWriteError(ctx, err, "Failed to post transfer",
			slog.String("from_account_id", req.FromAccountID),
			slog.String("to_account_id", req.ToAccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Transfer recorded",
		slog.String("transfer_id", transfer.TransferID),
		slog.String("out_voucher_no", result.Out.Posting.VoucherNo),
		slog.String("in_voucher_no", result.In.Posting.VoucherNo))
	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "transfer",
		EntityID:   transfer.TransferID,
		Action:     "post_transfer",
		After:      result,
	})
	return &result, nil
}

// AttachVouchers replaces the voucher references of an existing posting.
func (s *LedgerService) AttachVouchers(ctx context.Context, postingID string, req dto.AttachVouchersRequest, userID string) (*domain.Posting, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var posting *domain.Posting
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		p, err := repos.LedgerRepo.FindPostingByID(ctx, postingID)
		if err != nil {
			return err
		}
		if err := repos.LedgerRepo.UpdatePostingVoucherRefs(ctx, postingID, req.VoucherRefs); err != nil {
			return err
		}
		p.VoucherRefs = append([]string{}, req.VoucherRefs...)
		posting = p
		return nil
	})
	if err != nil {
		s.logWriteError(ctx, err, "Failed to attach vouchers", slog.String("posting_id", postingID))
		return nil, err
	}

	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "posting",
		EntityID:   postingID,
		Action:     "attach_vouchers",
		After:      posting.VoucherRefs,
	})
	return posting, nil
}

func (s *LedgerService) GetPosting(ctx context.Context, postingID string) (*domain.Posting, error) {
	return s.repos.LedgerRepo.FindPostingByID(ctx, postingID)
}

func (s *LedgerService) GetTransfer(ctx context.Context, transferID string) (*domain.Transfer, error) {
	return s.repos.LedgerRepo.FindTransferByID(ctx, transferID)
}

// GetAccountBalance reads the balance after the newest snapshot, or the opening balance.
func (s *LedgerService) GetAccountBalance(ctx context.Context, accountID string) (*dto.AccountBalanceResponse, error) {
	account, err := s.repos.AccountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	balance, err := s.balanceAt(ctx, s.repos, account, endOfTime, endOfTime)
	if err != nil {
		s.LogError(ctx, err, "Failed to read account balance", slog.String("account_id", accountID))
		return nil, err
	}
	return &dto.AccountBalanceResponse{
		AccountID:    account.AccountID,
		CurrencyCode: account.CurrencyCode,
		Balance:      balance,
	}, nil
}

func (s *LedgerService) ListAccountTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListAccountTransactionsResponse, error) {
	if err := validateRequest(params); err != nil {
		return nil, err
	}
	if _, err := s.repos.AccountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultTransactionPageSize
	}
	txns, next, err := s.repos.LedgerRepo.ListAccountTransactions(ctx, accountID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account transactions", slog.String("account_id", accountID))
		return nil, err
	}
	if txns == nil {
		txns = []domain.AccountTransaction{}
	}
	return &dto.ListAccountTransactionsResponse{Transactions: txns, NextToken: next}, nil
}

// post numbers the posting, computes its snapshot from the newest earlier one
// and writes both. The caller owns the unit of work.
func (s *LedgerService) post(ctx context.Context, repos portsrepo.RepositoryProvider, posting domain.Posting) (*domain.PostingResult, error) {
	account, err := s.activeAccount(ctx, repos, posting.AccountID)
	if err != nil {
		return nil, err
	}

	count, err := repos.LedgerRepo.CountPostingsByBizDate(ctx, posting.BizDate)
	if err != nil {
		return nil, err
	}
	posting.VoucherNo = domain.FormatVoucherNo(posting.BizDate, count+1)

	before, err := s.balanceAt(ctx, repos, account, posting.BizDate, posting.CreatedAt)
	if err != nil {
		return nil, err
	}
	snapshot := domain.NewAccountTransaction(uuid.NewString(), posting, before)

	if err := repos.LedgerRepo.SavePosting(ctx, posting); err != nil {
		return nil, err
	}
	if err := repos.LedgerRepo.SaveAccountTransaction(ctx, snapshot); err != nil {
		return nil, err
	}
	if _, err := repos.AccountRepo.IncrementAccountVersion(ctx, account.AccountID, posting.CreatedBy, posting.CreatedAt); err != nil {
		return nil, err
	}

	s.LogDebug(ctx, "Snapshot computed",
		slog.String("account_id", account.AccountID),
		slog.Int64("balance_before", snapshot.BalanceBefore),
		slog.Int64("balance_after", snapshot.BalanceAfter))
	return &domain.PostingResult{Posting: posting, Snapshot: snapshot}, nil
}

// balanceAt is the balance after the newest snapshot at or before (bizDate, createdAt).
func (s *LedgerService) balanceAt(ctx context.Context, repos portsrepo.RepositoryProvider, account *domain.Account, bizDate, createdAt time.Time) (int64, error) {
	latest, err := repos.LedgerRepo.FindLatestAccountTransaction(ctx, account.AccountID, bizDate, createdAt)
	switch {
	case err == nil:
		return latest.BalanceAfter, nil
	case errors.Is(err, apperrors.ErrNotFound):
		return account.OpeningBalance, nil
	default:
		return 0, err
	}
}

// activeAccount loads (and, inside a transaction, locks) an account that can take postings.
func (s *LedgerService) activeAccount(ctx context.Context, repos portsrepo.RepositoryProvider, accountID string) (*domain.Account, error) {
	account, err := repos.AccountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrBusinessRule, accountID)
	}
	return account, nil
}

// logWriteError logs unexpected failures; classified errors are the caller's concern.
func (s *BaseService) logWriteError(ctx context.Context, err error, msg string, keyvals ...any) {
	for _, expected := range []error{
		apperrors.ErrValidation,
		apperrors.ErrNotFound,
		apperrors.ErrBusinessRule,
		apperrors.ErrInvalidTransition,
		apperrors.ErrConcurrentModification,
	} {
		if errors.Is(err, expected) {
			s.LogDebug(ctx, msg, append([]any{slog.String("error", err.Error())}, keyvals...)...)
			return
		}
	}
	s.LogError(ctx, err, msg, keyvals...)
}
