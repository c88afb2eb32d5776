package models

import (
	"database/sql"
	"time"
)

// Document is a row of the documents table (receivables and payables).
type Document struct {
	DocumentID         string         `db:"document_id"`
	DocNo              string         `db:"doc_no"`
	Kind               string         `db:"kind"`
	Party              string         `db:"party"`
	Amount             int64          `db:"amount"`
	CurrencyCode       string         `db:"currency_code"`
	IssueDate          time.Time      `db:"issue_date"`
	DueDate            sql.NullTime   `db:"due_date"`
	Status             string         `db:"status"`
	SettledAmount      int64          `db:"settled_amount"`
	Confirmed          bool           `db:"confirmed"`
	ConfirmedPostingID sql.NullString `db:"confirmed_posting_id"`
	ConfirmedBy        sql.NullString `db:"confirmed_by"`
	ConfirmedAt        sql.NullTime   `db:"confirmed_at"`
	Memo               string         `db:"memo"`
	Version            int64          `db:"version"`
	AuditFields
}

// Settlement is a row of the settlements table.
type Settlement struct {
	SettlementID string    `db:"settlement_id"`
	DocumentID   string    `db:"document_id"`
	PostingID    string    `db:"posting_id"`
	Amount       int64     `db:"amount"`
	SettledDate  time.Time `db:"settled_date"`
	CreatedBy    string    `db:"created_by"`
	CreatedAt    time.Time `db:"created_at"`
}
