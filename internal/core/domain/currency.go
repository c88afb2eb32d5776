package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // e.g. "USD"
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	AuditFields
}

// ExchangeRate converts one unit of FromCurrencyCode into ToCurrencyCode,
// valid from EffectiveDate until a newer rate for the same pair exists.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate" swaggertype:"string"`
	EffectiveDate    time.Time       `json:"effectiveDate"`
	AuditFields
}

// Convert applies the rate to an amount in minor units.
func (r ExchangeRate) Convert(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Mul(r.Rate)
}
