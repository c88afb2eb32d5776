package dto

import (
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostSingleEntryRequest records one income or expense movement on an account.
// Amount is signed: positive for income, negative for expense.
type PostSingleEntryRequest struct {
	AccountID    string             `json:"accountID" binding:"required"`
	Kind         domain.PostingKind `json:"kind" binding:"required,oneof=income expense"`
	Amount       int64              `json:"amount" binding:"required"`
	BizDate      time.Time          `json:"bizDate" binding:"required"`
	Category     string             `json:"category"`
	Site         string             `json:"site"`
	Department   string             `json:"department"`
	Counterparty string             `json:"counterparty"`
	Memo         string             `json:"memo"`
	VoucherRefs  []string           `json:"voucherRefs" binding:"omitempty,dive,required"`
}

// PostTransferRequest moves money between two internal accounts.
type PostTransferRequest struct {
	FromAccountID string           `json:"fromAccountID" binding:"required"`
	ToAccountID   string           `json:"toAccountID" binding:"required,nefield=FromAccountID"`
	FromAmount    int64            `json:"fromAmount" binding:"required,gt=0"`
	ToAmount      int64            `json:"toAmount" binding:"required,gt=0"`
	Rate          *decimal.Decimal `json:"rate" swaggertype:"string"`
	BizDate       time.Time        `json:"bizDate" binding:"required"`
	Memo          string           `json:"memo"`
	VoucherRefs   []string         `json:"voucherRefs" binding:"omitempty,dive,required"`
}

// AttachVouchersRequest replaces the voucher references of a posting.
type AttachVouchersRequest struct {
	VoucherRefs []string `json:"voucherRefs" binding:"required,min=1,dive,required"`
}

// ListTransactionsParams defines parameters for listing account transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListAccountTransactionsResponse is one page of balance snapshots, newest first.
type ListAccountTransactionsResponse struct {
	Transactions []domain.AccountTransaction `json:"transactions"`
	NextToken    *string                     `json:"nextToken,omitempty"`
}

// AccountBalanceResponse reports the running balance of an account.
type AccountBalanceResponse struct {
	AccountID    string `json:"accountID"`
	CurrencyCode string `json:"currencyCode"`
	Balance      int64  `json:"balance"`
}
