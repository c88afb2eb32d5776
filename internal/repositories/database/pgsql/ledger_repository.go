package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/backoffice_ledger/internal/models"
	"github.com/SscSPs/backoffice_ledger/internal/utils/mapping"
	"github.com/SscSPs/backoffice_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const postingColumns = `posting_id, voucher_no, biz_date, kind, account_id, amount, category, site, department,
	counterparty, memo, voucher_refs, transfer_id, created_by, created_at`

const snapshotColumns = `transaction_id, account_id, posting_id, biz_date, amount, balance_before, balance_after, created_at`

func scanPosting(row pgx.Row) (models.Posting, error) {
	var m models.Posting
	err := row.Scan(
		&m.PostingID,
		&m.VoucherNo,
		&m.BizDate,
		&m.Kind,
		&m.AccountID,
		&m.Amount,
		&m.Category,
		&m.Site,
		&m.Department,
		&m.Counterparty,
		&m.Memo,
		&m.VoucherRefs,
		&m.TransferID,
		&m.CreatedBy,
		&m.CreatedAt,
	)
	return m, err
}

func scanSnapshot(row pgx.Row) (models.AccountTransaction, error) {
	var m models.AccountTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.AccountID,
		&m.PostingID,
		&m.BizDate,
		&m.Amount,
		&m.BalanceBefore,
		&m.BalanceAfter,
		&m.CreatedAt,
	)
	return m, err
}

// FindPostingByID retrieves a posting by its ID.
func (r *PgxLedgerRepository) FindPostingByID(ctx context.Context, postingID string) (*domain.Posting, error) {
	query := `SELECT ` + postingColumns + ` FROM postings WHERE posting_id = $1;`
	m, err := scanPosting(r.db.QueryRow(ctx, query, postingID))
	if err != nil {
		return nil, mapError(err, "posting", postingID)
	}
	p := mapping.ToDomainPosting(m)
	return &p, nil
}

// CountPostingsByBizDate counts postings of a business date. Inside a
// transaction it also takes the voucher sequence lock for that date, so the
// caller can safely use count+1 as the next sequence number.
func (r *PgxLedgerRepository) CountPostingsByBizDate(ctx context.Context, bizDate time.Time) (int, error) {
	if err := r.lockSequence(ctx, "voucher:"+bizDate.Format(time.DateOnly)); err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM postings WHERE biz_date = $1;`, bizDate).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count postings for %s: %w", bizDate.Format(time.DateOnly), err)
	}
	return n, nil
}

// FindLatestAccountTransaction returns the newest snapshot of the account
// at or before the (biz date, created at) key.
func (r *PgxLedgerRepository) FindLatestAccountTransaction(ctx context.Context, accountID string, bizDate time.Time, createdAt time.Time) (*domain.AccountTransaction, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM account_transactions
		WHERE account_id = $1 AND (biz_date, created_at) <= ($2, $3)
		ORDER BY biz_date DESC, created_at DESC, transaction_id DESC
		LIMIT 1;
	`
	m, err := scanSnapshot(r.db.QueryRow(ctx, query, accountID, bizDate, createdAt))
	if err != nil {
		return nil, mapError(err, "account transaction", accountID)
	}
	t := mapping.ToDomainAccountTransaction(m)
	return &t, nil
}

// ListAccountTransactions returns the snapshots of an account newest first.
// One extra row is fetched to decide whether a next page exists.
func (r *PgxLedgerRepository) ListAccountTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountTransaction, *string, error) {
	args := []any{accountID}
	query := `SELECT ` + snapshotColumns + ` FROM account_transactions WHERE account_id = $1`
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (biz_date, created_at, transaction_id) < ($2, $3, $4)`
		args = append(args, c.BizDate, c.CreatedAt, c.ID)
	}
	query += fmt.Sprintf(` ORDER BY biz_date DESC, created_at DESC, transaction_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list account transactions for %s: %w", accountID, err)
	}
	defer rows.Close()

	txns := []domain.AccountTransaction{}
	for rows.Next() {
		m, err := scanSnapshot(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan account transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainAccountTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating account transaction rows: %w", err)
	}

	var next *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(pagination.Cursor{BizDate: last.BizDate, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		next = &token
	}
	return txns, next, nil
}

// FindTransferByID retrieves a transfer record.
func (r *PgxLedgerRepository) FindTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error) {
	query := `
		SELECT transfer_id, from_account_id, to_account_id, from_amount, to_amount, rate, biz_date, memo,
		       out_posting_id, in_posting_id, created_by, created_at
		FROM transfers
		WHERE transfer_id = $1;
	`
	var m models.Transfer
	err := r.db.QueryRow(ctx, query, transferID).Scan(
		&m.TransferID,
		&m.FromAccountID,
		&m.ToAccountID,
		&m.FromAmount,
		&m.ToAmount,
		&m.Rate,
		&m.BizDate,
		&m.Memo,
		&m.OutPostingID,
		&m.InPostingID,
		&m.CreatedBy,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err, "transfer", transferID)
	}
	t := mapping.ToDomainTransfer(m)
	return &t, nil
}

// SavePosting inserts a posting. Voucher numbers are unique.
func (r *PgxLedgerRepository) SavePosting(ctx context.Context, posting domain.Posting) error {
	m := mapping.ToModelPosting(posting)
	query := `
		INSERT INTO postings (` + postingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.db.Exec(ctx, query,
		m.PostingID,
		m.VoucherNo,
		m.BizDate,
		m.Kind,
		m.AccountID,
		m.Amount,
		m.Category,
		m.Site,
		m.Department,
		m.Counterparty,
		m.Memo,
		m.VoucherRefs,
		m.TransferID,
		m.CreatedBy,
		m.CreatedAt,
	)
	return mapError(err, "posting", m.VoucherNo)
}

// SaveAccountTransaction inserts the snapshot of a posting.
func (r *PgxLedgerRepository) SaveAccountTransaction(ctx context.Context, txn domain.AccountTransaction) error {
	m := mapping.ToModelAccountTransaction(txn)
	query := `INSERT INTO account_transactions (` + snapshotColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	_, err := r.db.Exec(ctx, query,
		m.TransactionID,
		m.AccountID,
		m.PostingID,
		m.BizDate,
		m.Amount,
		m.BalanceBefore,
		m.BalanceAfter,
		m.CreatedAt,
	)
	return mapError(err, "account transaction", m.PostingID)
}

// SaveTransfer inserts the transfer linking two postings.
func (r *PgxLedgerRepository) SaveTransfer(ctx context.Context, transfer domain.Transfer) error {
	m := mapping.ToModelTransfer(transfer)
	query := `
		INSERT INTO transfers (transfer_id, from_account_id, to_account_id, from_amount, to_amount, rate, biz_date, memo,
			out_posting_id, in_posting_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		m.TransferID,
		m.FromAccountID,
		m.ToAccountID,
		m.FromAmount,
		m.ToAmount,
		m.Rate,
		m.BizDate,
		m.Memo,
		m.OutPostingID,
		m.InPostingID,
		m.CreatedBy,
		m.CreatedAt,
	)
	return mapError(err, "transfer", m.TransferID)
}

// UpdatePostingVoucherRefs replaces the attachment references of a posting.
func (r *PgxLedgerRepository) UpdatePostingVoucherRefs(ctx context.Context, postingID string, refs []string) error {
	if refs == nil {
		refs = []string{}
	}
	tag, err := r.db.Exec(ctx, `UPDATE postings SET voucher_refs = $1 WHERE posting_id = $2;`, refs, postingID)
	if err != nil {
		return mapError(err, "posting", postingID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("posting %s: %w", postingID, apperrors.ErrNotFound)
	}
	return nil
}
