package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/backoffice_ledger/internal/models"
	"github.com/SscSPs/backoffice_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxAccountRepository struct {
	BaseRepository
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, name, currency_code, opening_balance, description, is_active, version,
	created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Name,
		&m.CurrencyCode,
		&m.OpeningBalance,
		&m.Description,
		&m.IsActive,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.CurrencyCode,
		m.OpeningBalance,
		m.Description,
		m.IsActive,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapError(err, "account", m.AccountID)
}

// FindAccountByID retrieves an account by its ID, locking it inside a transaction.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1` + r.forUpdate() + `;`
	m, err := scanAccount(r.db.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, mapError(err, "account", accountID)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// ListAccounts retrieves a page of accounts ordered by name.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY name, account_id LIMIT $1 OFFSET $2;`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var ms []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// UpdateAccount stores mutable fields when the stored version still matches.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account, expectedVersion int64) error {
	query := `
		UPDATE accounts
		SET name = $1, description = $2, is_active = $3, version = $4, last_updated_at = $5, last_updated_by = $6
		WHERE account_id = $7 AND version = $8;
	`
	tag, err := r.db.Exec(ctx, query,
		account.Name,
		account.Description,
		account.IsActive,
		account.Version,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
		account.AccountID,
		expectedVersion,
	)
	if err != nil {
		return mapError(err, "account", account.AccountID)
	}
	return r.checkVersioned(ctx, tag, "accounts", "account_id", account.AccountID, expectedVersion)
}

// IncrementAccountVersion bumps the version after a posting hits the account.
func (r *PgxAccountRepository) IncrementAccountVersion(ctx context.Context, accountID string, userID string, now time.Time) (int64, error) {
	query := `
		UPDATE accounts
		SET version = version + 1, last_updated_at = $1, last_updated_by = $2
		WHERE account_id = $3
		RETURNING version;
	`
	var version int64
	if err := r.db.QueryRow(ctx, query, now, userID, accountID).Scan(&version); err != nil {
		return 0, mapError(err, "account", accountID)
	}
	return version, nil
}
