package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PostingKind classifies a ledger posting.
type PostingKind string

const (
	PostingIncome      PostingKind = "income"
	PostingExpense     PostingKind = "expense"
	PostingTransferIn  PostingKind = "transfer_in"
	PostingTransferOut PostingKind = "transfer_out"
)

// IsValid reports whether k is a known kind.
func (k PostingKind) IsValid() bool {
	switch k {
	case PostingIncome, PostingExpense, PostingTransferIn, PostingTransferOut:
		return true
	}
	return false
}

// IsTransfer reports whether k is one leg of a transfer.
func (k PostingKind) IsTransfer() bool {
	return k == PostingTransferIn || k == PostingTransferOut
}

// AcceptsAmount checks the sign convention: inflows positive, outflows negative.
func (k PostingKind) AcceptsAmount(amount int64) bool {
	switch k {
	case PostingIncome, PostingTransferIn:
		return amount > 0
	case PostingExpense, PostingTransferOut:
		return amount < 0
	}
	return false
}

// VoucherPrefix starts every posting voucher number.
const VoucherPrefix = "JZ"

// FormatVoucherNo renders JZ{YYYYMMDD}-{seq:3}.
func FormatVoucherNo(bizDate time.Time, seq int) string {
	return fmt.Sprintf("%s%s-%03d", VoucherPrefix, bizDate.Format("20060102"), seq)
}

// Posting is one signed money movement on one account. Immutable once
// written, except for its voucher references.
type Posting struct {
	PostingID    string      `json:"postingID"`
	VoucherNo    string      `json:"voucherNo"`
	BizDate      time.Time   `json:"bizDate"`
	Kind         PostingKind `json:"kind"`
	AccountID    string      `json:"accountID"`
	Amount       int64       `json:"amount"` // signed, minor units
	Category     string      `json:"category"`
	Site         string      `json:"site"`
	Department   string      `json:"department"`
	Counterparty string      `json:"counterparty"`
	Memo         string      `json:"memo"`
	VoucherRefs  []string    `json:"voucherRefs"`
	TransferID   string      `json:"transferID,omitempty"`
	CreatedBy    string      `json:"createdBy"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// AccountTransaction is the balance snapshot written alongside a posting.
// BalanceBefore is fixed at write time and never recomputed.
type AccountTransaction struct {
	TransactionID string    `json:"transactionID"`
	AccountID     string    `json:"accountID"`
	PostingID     string    `json:"postingID"`
	BizDate       time.Time `json:"bizDate"`
	Amount        int64     `json:"amount"`
	BalanceBefore int64     `json:"balanceBefore"`
	BalanceAfter  int64     `json:"balanceAfter"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewAccountTransaction derives the snapshot for a posting given the balance
// the account held just before it.
func NewAccountTransaction(id string, p Posting, balanceBefore int64) AccountTransaction {
	return AccountTransaction{
		TransactionID: id,
		AccountID:     p.AccountID,
		PostingID:     p.PostingID,
		BizDate:       p.BizDate,
		Amount:        p.Amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore + p.Amount,
		CreatedAt:     p.CreatedAt,
	}
}

// Transfer links the two postings of a movement between internal accounts.
// Rate is informational; amounts on the two legs are taken as given.
type Transfer struct {
	TransferID    string           `json:"transferID"`
	FromAccountID string           `json:"fromAccountID"`
	ToAccountID   string           `json:"toAccountID"`
	FromAmount    int64            `json:"fromAmount"`
	ToAmount      int64            `json:"toAmount"`
	Rate          *decimal.Decimal `json:"rate,omitempty" swaggertype:"string"`
	BizDate       time.Time        `json:"bizDate"`
	Memo          string           `json:"memo"`
	OutPostingID  string           `json:"outPostingID"`
	InPostingID   string           `json:"inPostingID"`
	CreatedBy     string           `json:"createdBy"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// PostingResult is what a ledger write hands back: the posting and its snapshot.
type PostingResult struct {
	Posting  Posting            `json:"posting"`
	Snapshot AccountTransaction `json:"snapshot"`
}

// TransferResult carries both legs of a transfer.
type TransferResult struct {
	Transfer Transfer      `json:"transfer"`
	Out      PostingResult `json:"out"`
	In       PostingResult `json:"in"`
}
