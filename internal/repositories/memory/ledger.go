package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/backoffice_ledger/internal/utils/pagination"
)

type accountRepository struct{ base }

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	defer r.lock()()
	acc, ok := r.s.data.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (r *accountRepository) ListAccounts(_ context.Context, limit int, offset int) ([]domain.Account, error) {
	defer r.lock()()
	all := make([]domain.Account, 0, len(r.s.data.accounts))
	for _, acc := range r.s.data.accounts {
		all = append(all, acc)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].AccountID < all[j].AccountID
	})
	return page(all, limit, offset), nil
}

func (r *accountRepository) SaveAccount(_ context.Context, account domain.Account) error {
	defer r.lock()()
	if _, exists := r.s.data.accounts[account.AccountID]; exists {
		return apperrors.ErrDuplicate
	}
	r.s.data.accounts[account.AccountID] = account
	return nil
}

func (r *accountRepository) UpdateAccount(_ context.Context, account domain.Account, expectedVersion int64) error {
	defer r.lock()()
	stored, ok := r.s.data.accounts[account.AccountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return &apperrors.ConcurrentModificationError{Current: stored.Version, Expected: expectedVersion}
	}
	stored.Name = account.Name
	stored.Description = account.Description
	stored.IsActive = account.IsActive
	stored.Version = account.Version
	stored.LastUpdatedAt = account.LastUpdatedAt
	stored.LastUpdatedBy = account.LastUpdatedBy
	r.s.data.accounts[account.AccountID] = stored
	return nil
}

func (r *accountRepository) IncrementAccountVersion(_ context.Context, accountID string, userID string, now time.Time) (int64, error) {
	defer r.lock()()
	stored, ok := r.s.data.accounts[accountID]
	if !ok {
		return 0, apperrors.ErrNotFound
	}
	stored.Version++
	stored.Touch(userID, now)
	r.s.data.accounts[accountID] = stored
	return stored.Version, nil
}

type currencyRepository struct{ base }

var _ portsrepo.CurrencyRepositoryFacade = (*currencyRepository)(nil)

func (r *currencyRepository) FindCurrencyByCode(_ context.Context, currencyCode string) (*domain.Currency, error) {
	defer r.lock()()
	c, ok := r.s.data.currencies[strings.ToUpper(currencyCode)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (r *currencyRepository) ListCurrencies(_ context.Context) ([]domain.Currency, error) {
	defer r.lock()()
	out := make([]domain.Currency, 0, len(r.s.data.currencies))
	for _, c := range r.s.data.currencies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyCode < out[j].CurrencyCode })
	return out, nil
}

func (r *currencyRepository) SaveCurrency(_ context.Context, currency domain.Currency) error {
	defer r.lock()()
	if _, exists := r.s.data.currencies[currency.CurrencyCode]; exists {
		return apperrors.ErrDuplicate
	}
	r.s.data.currencies[currency.CurrencyCode] = currency
	return nil
}

type exchangeRateRepository struct{ base }

var _ portsrepo.ExchangeRateRepositoryFacade = (*exchangeRateRepository)(nil)

func (r *exchangeRateRepository) FindExchangeRate(_ context.Context, from, to string, onDate time.Time) (*domain.ExchangeRate, error) {
	defer r.lock()()
	var best *domain.ExchangeRate
	for i := range r.s.data.rates {
		rate := r.s.data.rates[i]
		if rate.FromCurrencyCode != from || rate.ToCurrencyCode != to || rate.EffectiveDate.After(onDate) {
			continue
		}
		if best == nil || rate.EffectiveDate.After(best.EffectiveDate) ||
			(rate.EffectiveDate.Equal(best.EffectiveDate) && rate.CreatedAt.After(best.CreatedAt)) {
			best = &rate
		}
	}
	if best == nil {
		return nil, apperrors.ErrNotFound
	}
	return best, nil
}

func (r *exchangeRateRepository) SaveExchangeRate(_ context.Context, rate domain.ExchangeRate) error {
	defer r.lock()()
	r.s.data.rates = append(r.s.data.rates, rate)
	return nil
}

type ledgerRepository struct{ base }

var _ portsrepo.LedgerRepositoryFacade = (*ledgerRepository)(nil)

func (r *ledgerRepository) FindPostingByID(_ context.Context, postingID string) (*domain.Posting, error) {
	defer r.lock()()
	p, ok := r.s.data.postings[postingID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	p.VoucherRefs = append([]string(nil), p.VoucherRefs...)
	return &p, nil
}

func (r *ledgerRepository) CountPostingsByBizDate(_ context.Context, bizDate time.Time) (int, error) {
	defer r.lock()()
	n := 0
	for _, p := range r.s.data.postings {
		if p.BizDate.Equal(bizDate) {
			n++
		}
	}
	return n, nil
}

// snapshotAfter orders snapshots oldest first by (biz date, created at, id).
func snapshotAfter(a, b domain.AccountTransaction) bool {
	if !a.BizDate.Equal(b.BizDate) {
		return a.BizDate.After(b.BizDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.TransactionID > b.TransactionID
}

func (r *ledgerRepository) FindLatestAccountTransaction(_ context.Context, accountID string, bizDate time.Time, createdAt time.Time) (*domain.AccountTransaction, error) {
	defer r.lock()()
	var latest *domain.AccountTransaction
	for i := range r.s.data.snapshots {
		snap := r.s.data.snapshots[i]
		if snap.AccountID != accountID {
			continue
		}
		if snap.BizDate.After(bizDate) || (snap.BizDate.Equal(bizDate) && snap.CreatedAt.After(createdAt)) {
			continue
		}
		if latest == nil || snapshotAfter(snap, *latest) {
			latest = &snap
		}
	}
	if latest == nil {
		return nil, apperrors.ErrNotFound
	}
	return latest, nil
}

func (r *ledgerRepository) ListAccountTransactions(_ context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountTransaction, *string, error) {
	defer r.lock()()
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	var rows []domain.AccountTransaction
	for _, snap := range r.s.data.snapshots {
		if snap.AccountID != accountID {
			continue
		}
		if cursor != nil && !cursor.Before(snap.BizDate, snap.CreatedAt, snap.TransactionID) {
			continue
		}
		rows = append(rows, snap)
	}
	sort.Slice(rows, func(i, j int) bool { return snapshotAfter(rows[i], rows[j]) })

	var next *string
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		token := pagination.EncodeToken(pagination.Cursor{BizDate: last.BizDate, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		next = &token
	}
	return rows, next, nil
}

func (r *ledgerRepository) FindTransferByID(_ context.Context, transferID string) (*domain.Transfer, error) {
	defer r.lock()()
	t, ok := r.s.data.transfers[transferID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

func (r *ledgerRepository) SavePosting(_ context.Context, posting domain.Posting) error {
	defer r.lock()()
	if _, exists := r.s.data.postings[posting.PostingID]; exists {
		return apperrors.ErrDuplicate
	}
	for _, p := range r.s.data.postings {
		if p.VoucherNo == posting.VoucherNo {
			return apperrors.ErrDuplicate
		}
	}
	posting.VoucherRefs = append([]string(nil), posting.VoucherRefs...)
	r.s.data.postings[posting.PostingID] = posting
	return nil
}

func (r *ledgerRepository) SaveAccountTransaction(_ context.Context, txn domain.AccountTransaction) error {
	defer r.lock()()
	for _, snap := range r.s.data.snapshots {
		if snap.PostingID == txn.PostingID {
			return apperrors.ErrDuplicate
		}
	}
	r.s.data.snapshots = append(r.s.data.snapshots, txn)
	return nil
}

func (r *ledgerRepository) SaveTransfer(_ context.Context, transfer domain.Transfer) error {
	defer r.lock()()
	if _, exists := r.s.data.transfers[transfer.TransferID]; exists {
		return apperrors.ErrDuplicate
	}
	r.s.data.transfers[transfer.TransferID] = transfer
	return nil
}

func (r *ledgerRepository) UpdatePostingVoucherRefs(_ context.Context, postingID string, refs []string) error {
	defer r.lock()()
	p, ok := r.s.data.postings[postingID]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.VoucherRefs = append([]string(nil), refs...)
	r.s.data.postings[postingID] = p
	return nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
