package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type PgxEmployeeRepository struct {
	BaseRepository
}

var _ portsrepo.EmployeeRepositoryFacade = (*PgxEmployeeRepository)(nil)

const employeeColumns = `employee_id, name, join_date, salary_currency, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanEmployee(row pgx.Row) (domain.Employee, error) {
	var e domain.Employee
	err := row.Scan(
		&e.EmployeeID,
		&e.Name,
		&e.JoinDate,
		&e.SalaryCurrency,
		&e.IsActive,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	e.JoinDate = domain.NormalizeDate(e.JoinDate)
	return e, err
}

func (r *PgxEmployeeRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_id = $1;`
	e, err := scanEmployee(r.db.QueryRow(ctx, query, employeeID))
	if err != nil {
		return nil, mapError(err, "employee", employeeID)
	}
	return &e, nil
}

// ListActiveEmployeesJoinedBy returns active employees who had joined by date, ordered by name.
func (r *PgxEmployeeRepository) ListActiveEmployeesJoinedBy(ctx context.Context, date time.Time) ([]domain.Employee, error) {
	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE is_active AND join_date <= $1
		ORDER BY name, employee_id;
	`
	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee row: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employee rows: %w", err)
	}
	return employees, nil
}

func (r *PgxEmployeeRepository) FindSalaryBase(ctx context.Context, employeeID string, currencyCode string) (*domain.SalaryBase, error) {
	query := `
		SELECT employee_id, currency_code, amount, created_at, created_by, last_updated_at, last_updated_by
		FROM salary_bases
		WHERE employee_id = $1 AND currency_code = $2;
	`
	var b domain.SalaryBase
	err := r.db.QueryRow(ctx, query, employeeID, currencyCode).Scan(
		&b.EmployeeID,
		&b.CurrencyCode,
		&b.Amount,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapError(err, "salary base", employeeID+"/"+currencyCode)
	}
	return &b, nil
}

func (r *PgxEmployeeRepository) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db.Exec(ctx, query,
		employee.EmployeeID,
		employee.Name,
		employee.JoinDate,
		employee.SalaryCurrency,
		employee.IsActive,
		employee.CreatedAt,
		employee.CreatedBy,
		employee.LastUpdatedAt,
		employee.LastUpdatedBy,
	)
	return mapError(err, "employee", employee.EmployeeID)
}

func (r *PgxEmployeeRepository) UpdateEmployee(ctx context.Context, employee domain.Employee) error {
	query := `
		UPDATE employees
		SET name = $1, join_date = $2, salary_currency = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE employee_id = $7;
	`
	tag, err := r.db.Exec(ctx, query,
		employee.Name,
		employee.JoinDate,
		employee.SalaryCurrency,
		employee.IsActive,
		employee.LastUpdatedAt,
		employee.LastUpdatedBy,
		employee.EmployeeID,
	)
	if err != nil {
		return mapError(err, "employee", employee.EmployeeID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "employee", employee.EmployeeID)
	}
	return nil
}

// UpsertSalaryBase keeps the original creation stamp when replacing an amount.
func (r *PgxEmployeeRepository) UpsertSalaryBase(ctx context.Context, base domain.SalaryBase) error {
	query := `
		INSERT INTO salary_bases (employee_id, currency_code, amount, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, currency_code) DO UPDATE
		SET amount = EXCLUDED.amount, last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.db.Exec(ctx, query,
		base.EmployeeID,
		base.CurrencyCode,
		base.Amount,
		base.CreatedAt,
		base.CreatedBy,
		base.LastUpdatedAt,
		base.LastUpdatedBy,
	)
	return mapError(err, "salary base", base.EmployeeID+"/"+base.CurrencyCode)
}
