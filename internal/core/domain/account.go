package domain

// Account is an internal money holder (bank account, cash box, wallet).
// Its balance is never stored; it is read from the latest AccountTransaction.
type Account struct {
	AccountID      string `json:"accountID"`
	Name           string `json:"name"`
	CurrencyCode   string `json:"currencyCode"`
	OpeningBalance int64  `json:"openingBalance"` // minor units
	Description    string `json:"description"`
	IsActive       bool   `json:"isActive"`
	Version        int64  `json:"version"` // bumped by every posting on the account
	AuditFields
}
