package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type PgxBorrowingRepository struct {
	BaseRepository
}

var _ portsrepo.BorrowingRepositoryFacade = (*PgxBorrowingRepository)(nil)

const borrowingSelect = `
	SELECT borrowing_id, employee_id, amount, currency_code, reason, status, repaid_amount, version,
	       COALESCE(disbursement_account_id, ''), COALESCE(disbursement_posting_id, ''),
	       reviewed_by, reviewed_at, reject_reason, disbursed_by, disbursed_at,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM borrowings`

const repaymentSelect = `
	SELECT repayment_id, borrowing_id, amount, account_id, biz_date, status, COALESCE(posting_id, ''), version,
	       reviewed_by, reviewed_at, created_at, created_by, last_updated_at, last_updated_by
	FROM repayments`

func scanBorrowing(row pgx.Row) (domain.Borrowing, error) {
	var b domain.Borrowing
	err := row.Scan(
		&b.BorrowingID,
		&b.EmployeeID,
		&b.Amount,
		&b.CurrencyCode,
		&b.Reason,
		&b.Status,
		&b.RepaidAmount,
		&b.Version,
		&b.DisbursementAccountID,
		&b.DisbursementPostingID,
		&b.ReviewedBy,
		&b.ReviewedAt,
		&b.RejectReason,
		&b.DisbursedBy,
		&b.DisbursedAt,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	return b, err
}

func scanRepayment(row pgx.Row) (domain.Repayment, error) {
	var p domain.Repayment
	err := row.Scan(
		&p.RepaymentID,
		&p.BorrowingID,
		&p.Amount,
		&p.AccountID,
		&p.BizDate,
		&p.Status,
		&p.PostingID,
		&p.Version,
		&p.ReviewedBy,
		&p.ReviewedAt,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	p.BizDate = domain.NormalizeDate(p.BizDate)
	return p, err
}

func (r *PgxBorrowingRepository) FindBorrowingByID(ctx context.Context, borrowingID string) (*domain.Borrowing, error) {
	b, err := scanBorrowing(r.db.QueryRow(ctx, borrowingSelect+` WHERE borrowing_id = $1`+r.forUpdate()+`;`, borrowingID))
	if err != nil {
		return nil, mapError(err, "borrowing", borrowingID)
	}
	return &b, nil
}

func (r *PgxBorrowingRepository) FindRepaymentByID(ctx context.Context, repaymentID string) (*domain.Repayment, error) {
	p, err := scanRepayment(r.db.QueryRow(ctx, repaymentSelect+` WHERE repayment_id = $1`+r.forUpdate()+`;`, repaymentID))
	if err != nil {
		return nil, mapError(err, "repayment", repaymentID)
	}
	return &p, nil
}

func (r *PgxBorrowingRepository) ListRepaymentsByBorrowingID(ctx context.Context, borrowingID string) ([]domain.Repayment, error) {
	rows, err := r.db.Query(ctx, repaymentSelect+` WHERE borrowing_id = $1 ORDER BY created_at, repayment_id;`, borrowingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list repayments for borrowing %s: %w", borrowingID, err)
	}
	defer rows.Close()

	repayments := []domain.Repayment{}
	for rows.Next() {
		p, err := scanRepayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan repayment row: %w", err)
		}
		repayments = append(repayments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating repayment rows: %w", err)
	}
	return repayments, nil
}

func (r *PgxBorrowingRepository) SaveBorrowing(ctx context.Context, b domain.Borrowing) error {
	query := `
		INSERT INTO borrowings (borrowing_id, employee_id, amount, currency_code, reason, status, repaid_amount, version,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		b.BorrowingID,
		b.EmployeeID,
		b.Amount,
		b.CurrencyCode,
		b.Reason,
		b.Status,
		b.RepaidAmount,
		b.Version,
		b.CreatedAt,
		b.CreatedBy,
		b.LastUpdatedAt,
		b.LastUpdatedBy,
	)
	return mapError(err, "borrowing", b.BorrowingID)
}

func (r *PgxBorrowingRepository) UpdateBorrowing(ctx context.Context, b domain.Borrowing, expectedVersion int64) error {
	query := `
		UPDATE borrowings
		SET status = $1, repaid_amount = $2, version = $3,
		    disbursement_account_id = NULLIF($4, ''), disbursement_posting_id = NULLIF($5, ''),
		    reviewed_by = $6, reviewed_at = $7, reject_reason = $8, disbursed_by = $9, disbursed_at = $10,
		    last_updated_at = $11, last_updated_by = $12
		WHERE borrowing_id = $13 AND version = $14;
	`
	tag, err := r.db.Exec(ctx, query,
		b.Status,
		b.RepaidAmount,
		b.Version,
		b.DisbursementAccountID,
		b.DisbursementPostingID,
		b.ReviewedBy,
		b.ReviewedAt,
		b.RejectReason,
		b.DisbursedBy,
		b.DisbursedAt,
		b.LastUpdatedAt,
		b.LastUpdatedBy,
		b.BorrowingID,
		expectedVersion,
	)
	if err != nil {
		return mapError(err, "borrowing", b.BorrowingID)
	}
	return r.checkVersioned(ctx, tag, "borrowings", "borrowing_id", b.BorrowingID, expectedVersion)
}

func (r *PgxBorrowingRepository) DeleteBorrowing(ctx context.Context, borrowingID string, expectedVersion int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM borrowings WHERE borrowing_id = $1 AND version = $2;`, borrowingID, expectedVersion)
	if err != nil {
		return mapError(err, "borrowing", borrowingID)
	}
	return r.checkVersioned(ctx, tag, "borrowings", "borrowing_id", borrowingID, expectedVersion)
}

func (r *PgxBorrowingRepository) SaveRepayment(ctx context.Context, p domain.Repayment) error {
	query := `
		INSERT INTO repayments (repayment_id, borrowing_id, amount, account_id, biz_date, status, version,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.Exec(ctx, query,
		p.RepaymentID,
		p.BorrowingID,
		p.Amount,
		p.AccountID,
		p.BizDate,
		p.Status,
		p.Version,
		p.CreatedAt,
		p.CreatedBy,
		p.LastUpdatedAt,
		p.LastUpdatedBy,
	)
	return mapError(err, "repayment", p.RepaymentID)
}

func (r *PgxBorrowingRepository) UpdateRepayment(ctx context.Context, p domain.Repayment, expectedVersion int64) error {
	query := `
		UPDATE repayments
		SET status = $1, posting_id = NULLIF($2, ''), version = $3, reviewed_by = $4, reviewed_at = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE repayment_id = $8 AND version = $9;
	`
	tag, err := r.db.Exec(ctx, query,
		p.Status,
		p.PostingID,
		p.Version,
		p.ReviewedBy,
		p.ReviewedAt,
		p.LastUpdatedAt,
		p.LastUpdatedBy,
		p.RepaymentID,
		expectedVersion,
	)
	if err != nil {
		return mapError(err, "repayment", p.RepaymentID)
	}
	return r.checkVersioned(ctx, tag, "repayments", "repayment_id", p.RepaymentID, expectedVersion)
}
