package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type PgxSalaryRepository struct {
	BaseRepository
}

var _ portsrepo.SalaryPaymentRepositoryFacade = (*PgxSalaryRepository)(nil)

// Optional references are stored as NULL and read back as empty strings.
const salaryPaymentSelect = `
	SELECT payment_id, employee_id, year, month, currency_code, base_amount, days_in_month, leave_days, amount,
	       status, allocation_status, version,
	       COALESCE(payment_account_id, ''), COALESCE(payment_posting_id, ''), paid_biz_date, note,
	       employee_confirmed_by, employee_confirmed_at, finance_approved_by, finance_approved_at,
	       paid_by, paid_at, payment_confirmed_by, payment_confirmed_at,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM salary_payments`

func scanSalaryPayment(row pgx.Row) (domain.SalaryPayment, error) {
	var p domain.SalaryPayment
	err := row.Scan(
		&p.PaymentID,
		&p.EmployeeID,
		&p.Year,
		&p.Month,
		&p.CurrencyCode,
		&p.BaseAmount,
		&p.DaysInMonth,
		&p.LeaveDays,
		&p.Amount,
		&p.Status,
		&p.AllocationStatus,
		&p.Version,
		&p.PaymentAccountID,
		&p.PaymentPostingID,
		&p.PaidBizDate,
		&p.Note,
		&p.EmployeeConfirmedBy,
		&p.EmployeeConfirmedAt,
		&p.FinanceApprovedBy,
		&p.FinanceApprovedAt,
		&p.PaidBy,
		&p.PaidAt,
		&p.PaymentConfirmedBy,
		&p.PaymentConfirmedAt,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

func (r *PgxSalaryRepository) FindSalaryPaymentByID(ctx context.Context, paymentID string) (*domain.SalaryPayment, error) {
	query := salaryPaymentSelect + ` WHERE payment_id = $1` + r.forUpdate() + `;`
	p, err := scanSalaryPayment(r.db.QueryRow(ctx, query, paymentID))
	if err != nil {
		return nil, mapError(err, "salary payment", paymentID)
	}
	return &p, nil
}

func (r *PgxSalaryRepository) ExistsSalaryPaymentForPeriod(ctx context.Context, employeeID string, year int, month int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM salary_payments WHERE employee_id = $1 AND year = $2 AND month = $3);`
	if err := r.db.QueryRow(ctx, query, employeeID, year, month).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check salary payment for %s %d-%02d: %w", employeeID, year, month, err)
	}
	return exists, nil
}

func (r *PgxSalaryRepository) ListSalaryPaymentsByPeriod(ctx context.Context, year int, month int) ([]domain.SalaryPayment, error) {
	query := salaryPaymentSelect + ` WHERE year = $1 AND month = $2 ORDER BY created_at, payment_id;`
	rows, err := r.db.Query(ctx, query, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary payments for %d-%02d: %w", year, month, err)
	}
	defer rows.Close()

	payments := []domain.SalaryPayment{}
	for rows.Next() {
		p, err := scanSalaryPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating salary payment rows: %w", err)
	}
	return payments, nil
}

func (r *PgxSalaryRepository) ListAllocationsByPaymentID(ctx context.Context, paymentID string) ([]domain.SalaryPaymentAllocation, error) {
	query := `
		SELECT allocation_id, payment_id, currency_code, amount, COALESCE(account_id, ''), converted_amount, status,
		       COALESCE(posting_id, ''), reviewed_by, reviewed_at, created_at, created_by, last_updated_at, last_updated_by
		FROM salary_payment_allocations
		WHERE payment_id = $1
		ORDER BY created_at, allocation_id;
	`
	rows, err := r.db.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations for payment %s: %w", paymentID, err)
	}
	defer rows.Close()

	allocations := []domain.SalaryPaymentAllocation{}
	for rows.Next() {
		var a domain.SalaryPaymentAllocation
		if err := rows.Scan(
			&a.AllocationID,
			&a.PaymentID,
			&a.CurrencyCode,
			&a.Amount,
			&a.AccountID,
			&a.ConvertedAmount,
			&a.Status,
			&a.PostingID,
			&a.ReviewedBy,
			&a.ReviewedAt,
			&a.CreatedAt,
			&a.CreatedBy,
			&a.LastUpdatedAt,
			&a.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan allocation row: %w", err)
		}
		allocations = append(allocations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocation rows: %w", err)
	}
	return allocations, nil
}

// SaveSalaryPayment inserts a payment; (employee, year, month) is unique.
func (r *PgxSalaryRepository) SaveSalaryPayment(ctx context.Context, p domain.SalaryPayment) error {
	query := `
		INSERT INTO salary_payments (payment_id, employee_id, year, month, currency_code, base_amount, days_in_month,
			leave_days, amount, status, allocation_status, version, note,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.db.Exec(ctx, query,
		p.PaymentID,
		p.EmployeeID,
		p.Year,
		p.Month,
		p.CurrencyCode,
		p.BaseAmount,
		p.DaysInMonth,
		p.LeaveDays,
		p.Amount,
		p.Status,
		p.AllocationStatus,
		p.Version,
		p.Note,
		p.CreatedAt,
		p.CreatedBy,
		p.LastUpdatedAt,
		p.LastUpdatedBy,
	)
	return mapError(err, "salary payment", fmt.Sprintf("%s %d-%02d", p.EmployeeID, p.Year, p.Month))
}

func (r *PgxSalaryRepository) UpdateSalaryPayment(ctx context.Context, p domain.SalaryPayment, expectedVersion int64) error {
	query := `
		UPDATE salary_payments
		SET status = $1, allocation_status = $2, version = $3,
		    payment_account_id = NULLIF($4, ''), payment_posting_id = NULLIF($5, ''), paid_biz_date = $6, note = $7,
		    employee_confirmed_by = $8, employee_confirmed_at = $9, finance_approved_by = $10, finance_approved_at = $11,
		    paid_by = $12, paid_at = $13, payment_confirmed_by = $14, payment_confirmed_at = $15,
		    last_updated_at = $16, last_updated_by = $17
		WHERE payment_id = $18 AND version = $19;
	`
	tag, err := r.db.Exec(ctx, query,
		p.Status,
		p.AllocationStatus,
		p.Version,
		p.PaymentAccountID,
		p.PaymentPostingID,
		p.PaidBizDate,
		p.Note,
		p.EmployeeConfirmedBy,
		p.EmployeeConfirmedAt,
		p.FinanceApprovedBy,
		p.FinanceApprovedAt,
		p.PaidBy,
		p.PaidAt,
		p.PaymentConfirmedBy,
		p.PaymentConfirmedAt,
		p.LastUpdatedAt,
		p.LastUpdatedBy,
		p.PaymentID,
		expectedVersion,
	)
	if err != nil {
		return mapError(err, "salary payment", p.PaymentID)
	}
	return r.checkVersioned(ctx, tag, "salary_payments", "payment_id", p.PaymentID, expectedVersion)
}

// ReplaceAllocations swaps the whole allocation set of a payment. The caller
// holds the payment row lock, so no version check is needed here.
func (r *PgxSalaryRepository) ReplaceAllocations(ctx context.Context, paymentID string, allocations []domain.SalaryPaymentAllocation) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM salary_payment_allocations WHERE payment_id = $1;`, paymentID); err != nil {
		return fmt.Errorf("failed to clear allocations for payment %s: %w", paymentID, err)
	}
	query := `
		INSERT INTO salary_payment_allocations (allocation_id, payment_id, currency_code, amount, account_id,
			converted_amount, status, posting_id, reviewed_by, reviewed_at,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, NULLIF($8, ''), $9, $10, $11, $12, $13, $14);
	`
	for _, a := range allocations {
		_, err := r.db.Exec(ctx, query,
			a.AllocationID,
			paymentID,
			a.CurrencyCode,
			a.Amount,
			a.AccountID,
			a.ConvertedAmount,
			a.Status,
			a.PostingID,
			a.ReviewedBy,
			a.ReviewedAt,
			a.CreatedAt,
			a.CreatedBy,
			a.LastUpdatedAt,
			a.LastUpdatedBy,
		)
		if err != nil {
			return mapError(err, "salary allocation", a.AllocationID)
		}
	}
	return nil
}

func (r *PgxSalaryRepository) UpdateAllocation(ctx context.Context, a domain.SalaryPaymentAllocation) error {
	query := `
		UPDATE salary_payment_allocations
		SET status = $1, posting_id = NULLIF($2, ''), reviewed_by = $3, reviewed_at = $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE allocation_id = $7;
	`
	tag, err := r.db.Exec(ctx, query,
		a.Status,
		a.PostingID,
		a.ReviewedBy,
		a.ReviewedAt,
		a.LastUpdatedAt,
		a.LastUpdatedBy,
		a.AllocationID,
	)
	if err != nil {
		return mapError(err, "salary allocation", a.AllocationID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "salary allocation", a.AllocationID)
	}
	return nil
}
