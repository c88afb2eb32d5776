package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Posting is a row of the postings table.
type Posting struct {
	PostingID    string         `db:"posting_id"`
	VoucherNo    string         `db:"voucher_no"`
	BizDate      time.Time      `db:"biz_date"`
	Kind         string         `db:"kind"`
	AccountID    string         `db:"account_id"`
	Amount       int64          `db:"amount"`
	Category     string         `db:"category"`
	Site         string         `db:"site"`
	Department   string         `db:"department"`
	Counterparty string         `db:"counterparty"`
	Memo         string         `db:"memo"`
	VoucherRefs  []string       `db:"voucher_refs"`
	TransferID   sql.NullString `db:"transfer_id"`
	CreatedBy    string         `db:"created_by"`
	CreatedAt    time.Time      `db:"created_at"`
}

// AccountTransaction is the balance snapshot stored with each posting.
type AccountTransaction struct {
	TransactionID string    `db:"transaction_id"`
	AccountID     string    `db:"account_id"`
	PostingID     string    `db:"posting_id"`
	BizDate       time.Time `db:"biz_date"`
	Amount        int64     `db:"amount"`
	BalanceBefore int64     `db:"balance_before"`
	BalanceAfter  int64     `db:"balance_after"`
	CreatedAt     time.Time `db:"created_at"`
}

// Transfer links the out and in legs of an internal transfer.
type Transfer struct {
	TransferID    string              `db:"transfer_id"`
	FromAccountID string              `db:"from_account_id"`
	ToAccountID   string              `db:"to_account_id"`
	FromAmount    int64               `db:"from_amount"`
	ToAmount      int64               `db:"to_amount"`
	Rate          decimal.NullDecimal `db:"rate"`
	BizDate       time.Time           `db:"biz_date"`
	Memo          string              `db:"memo"`
	OutPostingID  string              `db:"out_posting_id"`
	InPostingID   string              `db:"in_posting_id"`
	CreatedBy     string              `db:"created_by"`
	CreatedAt     time.Time           `db:"created_at"`
}
