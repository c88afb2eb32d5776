package domain

import (
	"fmt"
	"time"
)

// DocumentKind distinguishes receivables from payables.
type DocumentKind string

const (
	DocumentReceivable DocumentKind = "AR"
	DocumentPayable    DocumentKind = "AP"
)

// IsValid reports whether k is a known kind.
func (k DocumentKind) IsValid() bool {
	return k == DocumentReceivable || k == DocumentPayable
}

// PostingKind is the ledger kind used when the document is confirmed.
func (k DocumentKind) PostingKind() PostingKind {
	if k == DocumentPayable {
		return PostingExpense
	}
	return PostingIncome
}

// SignedAmount turns a document amount into the confirmed posting amount.
func (k DocumentKind) SignedAmount(amount int64) int64 {
	if k == DocumentPayable {
		return -amount
	}
	return amount
}

// DocumentStatus is derived from the settled total; it is never set directly.
type DocumentStatus string

const (
	DocumentOpen             DocumentStatus = "open"
	DocumentPartiallySettled DocumentStatus = "partially_settled"
	DocumentSettled          DocumentStatus = "settled"
)

// DeriveDocumentStatus maps a settled total to a status. Settling past the
// document amount still reads as settled.
func DeriveDocumentStatus(amount, settled int64) DocumentStatus {
	switch {
	case settled <= 0:
		return DocumentOpen
	case settled < amount:
		return DocumentPartiallySettled
	default:
		return DocumentSettled
	}
}

// FormatDocumentNo renders {KIND}{YYYYMMDD}-{seq:3}.
func FormatDocumentNo(kind DocumentKind, issueDate time.Time, seq int) string {
	return fmt.Sprintf("%s%s-%03d", kind, issueDate.Format("20060102"), seq)
}

// Document is a receivable or payable against a counterparty.
type Document struct {
	DocumentID         string         `json:"documentID"`
	DocNo              string         `json:"docNo"`
	Kind               DocumentKind   `json:"kind"`
	Party              string         `json:"party"`
	Amount             int64          `json:"amount"`
	CurrencyCode       string         `json:"currencyCode"`
	IssueDate          time.Time      `json:"issueDate"`
	DueDate            *time.Time     `json:"dueDate,omitempty"`
	Status             DocumentStatus `json:"status"`
	SettledAmount      int64          `json:"settledAmount"`
	Confirmed          bool           `json:"confirmed"`
	ConfirmedPostingID string         `json:"confirmedPostingID,omitempty"`
	ConfirmedBy        string         `json:"confirmedBy,omitempty"`
	ConfirmedAt        *time.Time     `json:"confirmedAt,omitempty"`
	Memo               string         `json:"memo"`
	Version            int64          `json:"version"`
	AuditFields
}

// Settlement links a document to a posting for part or all of its amount.
type Settlement struct {
	SettlementID string    `json:"settlementID"`
	DocumentID   string    `json:"documentID"`
	PostingID    string    `json:"postingID"`
	Amount       int64     `json:"amount"`
	SettledDate  time.Time `json:"settledDate"`
	CreatedBy    string    `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
}
