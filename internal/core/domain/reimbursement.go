package domain

import (
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/fsm"
)

type ReimbursementStatus string

const (
	ReimbursementPending  ReimbursementStatus = "pending"
	ReimbursementApproved ReimbursementStatus = "approved"
	ReimbursementRejected ReimbursementStatus = "rejected"
	ReimbursementPaid     ReimbursementStatus = "paid"
)

var ReimbursementMachine = fsm.New("reimbursement", map[ReimbursementStatus][]ReimbursementStatus{
	ReimbursementPending:  {ReimbursementApproved, ReimbursementRejected},
	ReimbursementApproved: {ReimbursementPaid},
	ReimbursementPaid:     {},
	ReimbursementRejected: {},
})

// Reimbursement is an expense claim paid back to an employee.
type Reimbursement struct {
	ReimbursementID string              `json:"reimbursementID"`
	EmployeeID      string              `json:"employeeID"`
	Amount          int64               `json:"amount"`
	CurrencyCode    string              `json:"currencyCode"`
	Category        string              `json:"category"`
	Description     string              `json:"description"`
	VoucherRefs     []string            `json:"voucherRefs"`
	Status          ReimbursementStatus `json:"status"`
	Version         int64               `json:"version"`

	PaymentAccountID string     `json:"paymentAccountID,omitempty"`
	PaymentPostingID string     `json:"paymentPostingID,omitempty"`
	ReviewedBy       string     `json:"reviewedBy,omitempty"`
	ReviewedAt       *time.Time `json:"reviewedAt,omitempty"`
	RejectReason     string     `json:"rejectReason,omitempty"`
	PaidBy           string     `json:"paidBy,omitempty"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
	AuditFields
}
