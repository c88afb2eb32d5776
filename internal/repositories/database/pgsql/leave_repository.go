package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type PgxLeaveRepository struct {
	BaseRepository
}

var _ portsrepo.LeaveRepositoryFacade = (*PgxLeaveRepository)(nil)

const leaveSelect = `
	SELECT leave_id, employee_id, leave_type, start_date, end_date, reason, status, version, reviewed_by, reviewed_at,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM leaves`

func scanLeave(row pgx.Row) (domain.Leave, error) {
	var l domain.Leave
	err := row.Scan(
		&l.LeaveID,
		&l.EmployeeID,
		&l.LeaveType,
		&l.StartDate,
		&l.EndDate,
		&l.Reason,
		&l.Status,
		&l.Version,
		&l.ReviewedBy,
		&l.ReviewedAt,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	l.StartDate = domain.NormalizeDate(l.StartDate)
	l.EndDate = domain.NormalizeDate(l.EndDate)
	return l, err
}

func (r *PgxLeaveRepository) FindLeaveByID(ctx context.Context, leaveID string) (*domain.Leave, error) {
	l, err := scanLeave(r.db.QueryRow(ctx, leaveSelect+` WHERE leave_id = $1`+r.forUpdate()+`;`, leaveID))
	if err != nil {
		return nil, mapError(err, "leave", leaveID)
	}
	return &l, nil
}

// ListApprovedLeavesOverlapping returns approved leaves sharing at least one day with from..to.
func (r *PgxLeaveRepository) ListApprovedLeavesOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]domain.Leave, error) {
	query := leaveSelect + `
		WHERE employee_id = $1 AND status = $2 AND start_date <= $4 AND end_date >= $3
		ORDER BY start_date, leave_id;`
	rows, err := r.db.Query(ctx, query, employeeID, domain.LeaveApproved, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves for employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	leaves := []domain.Leave{}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave row: %w", err)
		}
		leaves = append(leaves, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leave rows: %w", err)
	}
	return leaves, nil
}

func (r *PgxLeaveRepository) SaveLeave(ctx context.Context, l domain.Leave) error {
	query := `
		INSERT INTO leaves (leave_id, employee_id, leave_type, start_date, end_date, reason, status, version,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		l.LeaveID,
		l.EmployeeID,
		l.LeaveType,
		l.StartDate,
		l.EndDate,
		l.Reason,
		l.Status,
		l.Version,
		l.CreatedAt,
		l.CreatedBy,
		l.LastUpdatedAt,
		l.LastUpdatedBy,
	)
	return mapError(err, "leave", l.LeaveID)
}

func (r *PgxLeaveRepository) UpdateLeave(ctx context.Context, l domain.Leave, expectedVersion int64) error {
	query := `
		UPDATE leaves
		SET status = $1, version = $2, reviewed_by = $3, reviewed_at = $4, last_updated_at = $5, last_updated_by = $6
		WHERE leave_id = $7 AND version = $8;
	`
	tag, err := r.db.Exec(ctx, query, l.Status, l.Version, l.ReviewedBy, l.ReviewedAt, l.LastUpdatedAt, l.LastUpdatedBy, l.LeaveID, expectedVersion)
	if err != nil {
		return mapError(err, "leave", l.LeaveID)
	}
	return r.checkVersioned(ctx, tag, "leaves", "leave_id", l.LeaveID, expectedVersion)
}

func (r *PgxLeaveRepository) DeleteLeave(ctx context.Context, leaveID string, expectedVersion int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM leaves WHERE leave_id = $1 AND version = $2;`, leaveID, expectedVersion)
	if err != nil {
		return mapError(err, "leave", leaveID)
	}
	return r.checkVersioned(ctx, tag, "leaves", "leave_id", leaveID, expectedVersion)
}
