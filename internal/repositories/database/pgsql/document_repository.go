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

type PgxDocumentRepository struct {
	BaseRepository
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

const documentColumns = `document_id, doc_no, kind, party, amount, currency_code, issue_date, due_date, status,
	settled_amount, confirmed, confirmed_posting_id, confirmed_by, confirmed_at, memo, version,
	created_at, created_by, last_updated_at, last_updated_by`

func scanDocument(row pgx.Row) (models.Document, error) {
	var m models.Document
	err := row.Scan(
		&m.DocumentID,
		&m.DocNo,
		&m.Kind,
		&m.Party,
		&m.Amount,
		&m.CurrencyCode,
		&m.IssueDate,
		&m.DueDate,
		&m.Status,
		&m.SettledAmount,
		&m.Confirmed,
		&m.ConfirmedPostingID,
		&m.ConfirmedBy,
		&m.ConfirmedAt,
		&m.Memo,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindDocumentByID retrieves a document, locking it inside a transaction.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE document_id = $1` + r.forUpdate() + `;`
	m, err := scanDocument(r.db.QueryRow(ctx, query, documentID))
	if err != nil {
		return nil, mapError(err, "document", documentID)
	}
	d := mapping.ToDomainDocument(m)
	return &d, nil
}

// CountDocumentsByKindAndIssueDate counts documents of a kind issued on a date,
// holding the number sequence lock for (kind, date) inside a transaction.
func (r *PgxDocumentRepository) CountDocumentsByKindAndIssueDate(ctx context.Context, kind domain.DocumentKind, issueDate time.Time) (int, error) {
	if err := r.lockSequence(ctx, "document:"+string(kind)+":"+issueDate.Format(time.DateOnly)); err != nil {
		return 0, err
	}
	var n int
	query := `SELECT COUNT(*) FROM documents WHERE kind = $1 AND issue_date = $2;`
	if err := r.db.QueryRow(ctx, query, string(kind), issueDate).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s documents for %s: %w", kind, issueDate.Format(time.DateOnly), err)
	}
	return n, nil
}

// ListSettlementsByDocumentID returns settlements in the order they were recorded.
func (r *PgxDocumentRepository) ListSettlementsByDocumentID(ctx context.Context, documentID string) ([]domain.Settlement, error) {
	query := `
		SELECT settlement_id, document_id, posting_id, amount, settled_date, created_by, created_at
		FROM settlements
		WHERE document_id = $1
		ORDER BY created_at, settlement_id;
	`
	rows, err := r.db.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements for document %s: %w", documentID, err)
	}
	defer rows.Close()

	settlements := []domain.Settlement{}
	for rows.Next() {
		var m models.Settlement
		if err := rows.Scan(&m.SettlementID, &m.DocumentID, &m.PostingID, &m.Amount, &m.SettledDate, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement row: %w", err)
		}
		settlements = append(settlements, mapping.ToDomainSettlement(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settlement rows: %w", err)
	}
	return settlements, nil
}

// SaveDocument inserts a document. Document numbers are unique.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, document domain.Document) error {
	m := mapping.ToModelDocument(document)
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.db.Exec(ctx, query,
		m.DocumentID,
		m.DocNo,
		m.Kind,
		m.Party,
		m.Amount,
		m.CurrencyCode,
		m.IssueDate,
		m.DueDate,
		m.Status,
		m.SettledAmount,
		m.Confirmed,
		m.ConfirmedPostingID,
		m.ConfirmedBy,
		m.ConfirmedAt,
		m.Memo,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapError(err, "document", m.DocNo)
}

// UpdateDocument stores the mutable fields when the stored version still matches.
func (r *PgxDocumentRepository) UpdateDocument(ctx context.Context, document domain.Document, expectedVersion int64) error {
	m := mapping.ToModelDocument(document)
	query := `
		UPDATE documents
		SET party = $1, due_date = $2, status = $3, settled_amount = $4, confirmed = $5,
		    confirmed_posting_id = $6, confirmed_by = $7, confirmed_at = $8, memo = $9, version = $10,
		    last_updated_at = $11, last_updated_by = $12
		WHERE document_id = $13 AND version = $14;
	`
	tag, err := r.db.Exec(ctx, query,
		m.Party,
		m.DueDate,
		m.Status,
		m.SettledAmount,
		m.Confirmed,
		m.ConfirmedPostingID,
		m.ConfirmedBy,
		m.ConfirmedAt,
		m.Memo,
		m.Version,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.DocumentID,
		expectedVersion,
	)
	if err != nil {
		return mapError(err, "document", m.DocumentID)
	}
	return r.checkVersioned(ctx, tag, "documents", "document_id", m.DocumentID, expectedVersion)
}

// SaveSettlement inserts a settlement.
func (r *PgxDocumentRepository) SaveSettlement(ctx context.Context, settlement domain.Settlement) error {
	m := mapping.ToModelSettlement(settlement)
	query := `
		INSERT INTO settlements (settlement_id, document_id, posting_id, amount, settled_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query, m.SettlementID, m.DocumentID, m.PostingID, m.Amount, m.SettledDate, m.CreatedBy, m.CreatedAt)
	return mapError(err, "settlement", m.SettlementID)
}
