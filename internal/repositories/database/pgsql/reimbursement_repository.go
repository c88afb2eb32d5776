package pgsql

import (
	"context"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
)

type PgxReimbursementRepository struct {
	BaseRepository
}

var _ portsrepo.ReimbursementRepositoryFacade = (*PgxReimbursementRepository)(nil)

func (r *PgxReimbursementRepository) FindReimbursementByID(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error) {
	query := `
		SELECT reimbursement_id, employee_id, amount, currency_code, category, description, voucher_refs, status, version,
		       COALESCE(payment_account_id, ''), COALESCE(payment_posting_id, ''),
		       reviewed_by, reviewed_at, reject_reason, paid_by, paid_at,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM reimbursements
		WHERE reimbursement_id = $1` + r.forUpdate() + `;`
	var m domain.Reimbursement
	err := r.db.QueryRow(ctx, query, reimbursementID).Scan(
		&m.ReimbursementID,
		&m.EmployeeID,
		&m.Amount,
		&m.CurrencyCode,
		&m.Category,
		&m.Description,
		&m.VoucherRefs,
		&m.Status,
		&m.Version,
		&m.PaymentAccountID,
		&m.PaymentPostingID,
		&m.ReviewedBy,
		&m.ReviewedAt,
		&m.RejectReason,
		&m.PaidBy,
		&m.PaidAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapError(err, "reimbursement", reimbursementID)
	}
	return &m, nil
}

func (r *PgxReimbursementRepository) SaveReimbursement(ctx context.Context, m domain.Reimbursement) error {
	refs := m.VoucherRefs
	if refs == nil {
		refs = []string{}
	}
	query := `
		INSERT INTO reimbursements (reimbursement_id, employee_id, amount, currency_code, category, description,
			voucher_refs, status, version, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db.Exec(ctx, query,
		m.ReimbursementID,
		m.EmployeeID,
		m.Amount,
		m.CurrencyCode,
		m.Category,
		m.Description,
		refs,
		m.Status,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapError(err, "reimbursement", m.ReimbursementID)
}

func (r *PgxReimbursementRepository) UpdateReimbursement(ctx context.Context, m domain.Reimbursement, expectedVersion int64) error {
	query := `
		UPDATE reimbursements
		SET status = $1, version = $2, payment_account_id = NULLIF($3, ''), payment_posting_id = NULLIF($4, ''),
		    reviewed_by = $5, reviewed_at = $6, reject_reason = $7, paid_by = $8, paid_at = $9,
		    last_updated_at = $10, last_updated_by = $11
		WHERE reimbursement_id = $12 AND version = $13;
	`
	tag, err := r.db.Exec(ctx, query,
		m.Status,
		m.Version,
		m.PaymentAccountID,
		m.PaymentPostingID,
		m.ReviewedBy,
		m.ReviewedAt,
		m.RejectReason,
		m.PaidBy,
		m.PaidAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.ReimbursementID,
		expectedVersion,
	)
	if err != nil {
		return mapError(err, "reimbursement", m.ReimbursementID)
	}
	return r.checkVersioned(ctx, tag, "reimbursements", "reimbursement_id", m.ReimbursementID, expectedVersion)
}

func (r *PgxReimbursementRepository) DeleteReimbursement(ctx context.Context, reimbursementID string, expectedVersion int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reimbursements WHERE reimbursement_id = $1 AND version = $2;`, reimbursementID, expectedVersion)
	if err != nil {
		return mapError(err, "reimbursement", reimbursementID)
	}
	return r.checkVersioned(ctx, tag, "reimbursements", "reimbursement_id", reimbursementID, expectedVersion)
}
