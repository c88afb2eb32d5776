package dto

import (
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name           string `json:"name" binding:"required,max=255"`
	CurrencyCode   string `json:"currencyCode" binding:"required,uppercase,len=3"`
	OpeningBalance int64  `json:"openingBalance"` // minor units, may be negative
	Description    string `json:"description"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
	Version     *int64  `json:"version"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string    `json:"accountID"`
	Name           string    `json:"name"`
	CurrencyCode   string    `json:"currencyCode"`
	OpeningBalance int64     `json:"openingBalance"`
	Balance        *int64    `json:"balance,omitempty"`
	Description    string    `json:"description"`
	IsActive       bool      `json:"isActive"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy  string    `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		Name:           acc.Name,
		CurrencyCode:   acc.CurrencyCode,
		OpeningBalance: acc.OpeningBalance,
		Description:    acc.Description,
		IsActive:       acc.IsActive,
		Version:        acc.Version,
		CreatedAt:      acc.CreatedAt,
		CreatedBy:      acc.CreatedBy,
		LastUpdatedAt:  acc.LastUpdatedAt,
		LastUpdatedBy:  acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to response DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}
