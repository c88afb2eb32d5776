package dto

import (
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// CreateDocumentRequest registers a receivable (AR) or payable (AP).
// IssueDate defaults to today.
type CreateDocumentRequest struct {
	Kind         domain.DocumentKind `json:"kind" binding:"required,oneof=AR AP"`
	Party        string              `json:"party" binding:"required"`
	Amount       int64               `json:"amount" binding:"required,gt=0"`
	CurrencyCode string              `json:"currencyCode" binding:"required,uppercase,len=3"`
	IssueDate    *time.Time          `json:"issueDate"`
	DueDate      *time.Time          `json:"dueDate"`
	Memo         string              `json:"memo"`
}

// SettleDocumentRequest matches part of a document against a posting.
type SettleDocumentRequest struct {
	PostingID   string     `json:"postingID" binding:"required"`
	Amount      int64      `json:"amount" binding:"required,gt=0"`
	SettledDate *time.Time `json:"settledDate"`
}

// ConfirmDocumentRequest books the full document amount on an account.
type ConfirmDocumentRequest struct {
	AccountID string     `json:"accountID" binding:"required"`
	BizDate   *time.Time `json:"bizDate"`
	Category  string     `json:"category"`
	Memo      string     `json:"memo"`
}

// DocumentResponse is a document with its settlements.
type DocumentResponse struct {
	Document    domain.Document     `json:"document"`
	Settlements []domain.Settlement `json:"settlements"`
}
