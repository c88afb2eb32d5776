package domain

import (
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/fsm"
	"github.com/shopspring/decimal"
)

// SalaryPaymentStatus is the workflow state of a monthly salary payment.
type SalaryPaymentStatus string

const (
	SalaryPendingEmployeeConfirmation SalaryPaymentStatus = "pending_employee_confirmation"
	SalaryPendingFinanceApproval      SalaryPaymentStatus = "pending_finance_approval"
	SalaryPendingPayment              SalaryPaymentStatus = "pending_payment"
	SalaryPendingPaymentConfirmation  SalaryPaymentStatus = "pending_payment_confirmation"
	SalaryCompleted                   SalaryPaymentStatus = "completed"
	SalaryDeleted                     SalaryPaymentStatus = "deleted"
)

// SalaryPaymentMachine guards every salary payment status change.
var SalaryPaymentMachine = fsm.New("salary_payment", map[SalaryPaymentStatus][]SalaryPaymentStatus{
	SalaryPendingEmployeeConfirmation: {SalaryPendingFinanceApproval, SalaryDeleted},
	SalaryPendingFinanceApproval:      {SalaryPendingPayment, SalaryPendingEmployeeConfirmation},
	SalaryPendingPayment:              {SalaryPendingPaymentConfirmation},
	SalaryPendingPaymentConfirmation:  {SalaryCompleted},
	SalaryCompleted:                   {},
	SalaryDeleted:                     {},
})

// AllocationStatus summarises the allocation rows of a payment.
type AllocationStatus string

const (
	AllocationNone      AllocationStatus = "none"
	AllocationRequested AllocationStatus = "requested"
	AllocationApproved  AllocationStatus = "approved"
	AllocationRejected  AllocationStatus = "rejected"
)

// AllocationItemStatus is the review state of a single allocation row.
type AllocationItemStatus string

const (
	AllocationItemPending  AllocationItemStatus = "pending"
	AllocationItemApproved AllocationItemStatus = "approved"
	AllocationItemRejected AllocationItemStatus = "rejected"
)

// SalaryPayment is one employee's salary for one month in one currency.
type SalaryPayment struct {
	PaymentID        string              `json:"paymentID"`
	EmployeeID       string              `json:"employeeID"`
	Year             int                 `json:"year"`
	Month            int                 `json:"month"`
	CurrencyCode     string              `json:"currencyCode"`
	BaseAmount       int64               `json:"baseAmount"`
	DaysInMonth      int                 `json:"daysInMonth"`
	LeaveDays        int                 `json:"leaveDays"`
	Amount           int64               `json:"amount"`
	Status           SalaryPaymentStatus `json:"status"`
	AllocationStatus AllocationStatus    `json:"allocationStatus"`
	Version          int64               `json:"version"`

	PaymentAccountID string     `json:"paymentAccountID,omitempty"`
	PaymentPostingID string     `json:"paymentPostingID,omitempty"`
	PaidBizDate      *time.Time `json:"paidBizDate,omitempty"`
	Note             string     `json:"note,omitempty"`

	EmployeeConfirmedBy string     `json:"employeeConfirmedBy,omitempty"`
	EmployeeConfirmedAt *time.Time `json:"employeeConfirmedAt,omitempty"`
	FinanceApprovedBy   string     `json:"financeApprovedBy,omitempty"`
	FinanceApprovedAt   *time.Time `json:"financeApprovedAt,omitempty"`
	PaidBy              string     `json:"paidBy,omitempty"`
	PaidAt              *time.Time `json:"paidAt,omitempty"`
	PaymentConfirmedBy  string     `json:"paymentConfirmedBy,omitempty"`
	PaymentConfirmedAt  *time.Time `json:"paymentConfirmedAt,omitempty"`
	AuditFields
}

// SalaryPaymentAllocation pays part of a salary in a given currency,
// optionally from a given account.
type SalaryPaymentAllocation struct {
	AllocationID    string               `json:"allocationID"`
	PaymentID       string               `json:"paymentID"`
	CurrencyCode    string               `json:"currencyCode"`
	Amount          int64                `json:"amount"`
	AccountID       string               `json:"accountID,omitempty"`
	ConvertedAmount int64                `json:"convertedAmount"` // in the payment currency
	Status          AllocationItemStatus `json:"status"`
	PostingID       string               `json:"postingID,omitempty"`
	ReviewedBy      string               `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time           `json:"reviewedAt,omitempty"`
	AuditFields
}

// ProrateSalary reduces a monthly base by the share of unpaid days,
// rounding half-up to whole minor units. Leave days are clamped to the month.
func ProrateSalary(base int64, daysInMonth, leaveDays int) int64 {
	if daysInMonth <= 0 || leaveDays <= 0 {
		return base
	}
	if leaveDays > daysInMonth {
		leaveDays = daysInMonth
	}
	paid := decimal.NewFromInt(base).
		Mul(decimal.NewFromInt(int64(daysInMonth - leaveDays))).
		Div(decimal.NewFromInt(int64(daysInMonth)))
	return paid.Round(0).IntPart()
}

// WithinTolerance reports whether sum is within tolerancePercent of total.
func WithinTolerance(total int64, sum decimal.Decimal, tolerancePercent decimal.Decimal) bool {
	t := decimal.NewFromInt(total)
	allowed := t.Abs().Mul(tolerancePercent).Div(decimal.NewFromInt(100))
	return sum.Sub(t).Abs().LessThanOrEqual(allowed)
}
