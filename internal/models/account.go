package models

// Account is a row of the accounts table. The balance is not stored here;
// it lives on the newest account_transactions row.
type Account struct {
	AccountID      string `db:"account_id"`
	Name           string `db:"name"`
	CurrencyCode   string `db:"currency_code"`
	OpeningBalance int64  `db:"opening_balance"`
	Description    string `db:"description"`
	IsActive       bool   `db:"is_active"`
	Version        int64  `db:"version"`
	AuditFields
}
