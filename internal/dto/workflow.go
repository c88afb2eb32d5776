package dto

import (
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// TransitionRequest carries the version the caller last saw and an optional note.
// A nil Version skips the concurrency check.
type TransitionRequest struct {
	Version *int64 `json:"version"`
	Reason  string `json:"reason"`
}

// PayoutRequest moves money out of (or into) an account as part of a workflow step.
// BizDate defaults to today.
type PayoutRequest struct {
	AccountID string     `json:"accountID" binding:"required"`
	BizDate   *time.Time `json:"bizDate"`
	Version   *int64     `json:"version"`
}

// CreateEmployeeRequest registers an employee for payroll.
type CreateEmployeeRequest struct {
	Name           string    `json:"name" binding:"required"`
	JoinDate       time.Time `json:"joinDate" binding:"required"`
	SalaryCurrency string    `json:"salaryCurrency" binding:"required,uppercase,len=3"`
}

// UpdateEmployeeRequest changes mutable employee fields.
type UpdateEmployeeRequest struct {
	Name           *string `json:"name"`
	SalaryCurrency *string `json:"salaryCurrency" binding:"omitempty,uppercase,len=3"`
	IsActive       *bool   `json:"isActive"`
}

// SetSalaryBaseRequest sets the monthly base salary in one currency.
type SetSalaryBaseRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,uppercase,len=3"`
	Amount       int64  `json:"amount" binding:"required,gt=0"`
}

// GenerateSalaryRequest creates the salary payments of one month.
type GenerateSalaryRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=9999"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// GenerateSalaryResponse reports what a generation run created.
type GenerateSalaryResponse struct {
	Created    int      `json:"created"`
	PaymentIDs []string `json:"paymentIDs"`
}

// AllocationItem is one requested slice of a salary.
type AllocationItem struct {
	CurrencyCode string `json:"currencyCode" binding:"required,uppercase,len=3"`
	Amount       int64  `json:"amount" binding:"required,gt=0"`
	AccountID    string `json:"accountID"`
}

// RequestAllocationRequest replaces all allocation rows of a payment.
type RequestAllocationRequest struct {
	Items   []AllocationItem `json:"items" binding:"required,min=1,dive"`
	Version *int64           `json:"version"`
}

// ReviewAllocationRequest approves or rejects allocation rows. An empty list means every pending row.
type ReviewAllocationRequest struct {
	AllocationIDs []string `json:"allocationIDs" binding:"omitempty,dive,required"`
	Reason        string   `json:"reason"`
}

// SalaryPaymentResponse is a payment with its allocation rows.
type SalaryPaymentResponse struct {
	Payment     domain.SalaryPayment             `json:"payment"`
	Allocations []domain.SalaryPaymentAllocation `json:"allocations"`
}

// CreateBorrowingRequest asks for a loan to an employee.
type CreateBorrowingRequest struct {
	EmployeeID   string `json:"employeeID" binding:"required"`
	Amount       int64  `json:"amount" binding:"required,gt=0"`
	CurrencyCode string `json:"currencyCode" binding:"required,uppercase,len=3"`
	Reason       string `json:"reason"`
}

// CreateRepaymentRequest records money returned against a borrowing.
type CreateRepaymentRequest struct {
	Amount    int64      `json:"amount" binding:"required,gt=0"`
	AccountID string     `json:"accountID" binding:"required"`
	BizDate   *time.Time `json:"bizDate"`
}

// BorrowingResponse is a borrowing with its repayments.
type BorrowingResponse struct {
	Borrowing  domain.Borrowing   `json:"borrowing"`
	Repayments []domain.Repayment `json:"repayments"`
}

// CreateReimbursementRequest submits an expense claim.
type CreateReimbursementRequest struct {
	EmployeeID   string   `json:"employeeID" binding:"required"`
	Amount       int64    `json:"amount" binding:"required,gt=0"`
	CurrencyCode string   `json:"currencyCode" binding:"required,uppercase,len=3"`
	Category     string   `json:"category" binding:"required"`
	Description  string   `json:"description"`
	VoucherRefs  []string `json:"voucherRefs" binding:"omitempty,dive,required"`
}

// CreateLeaveRequest asks for an absence. EndDate is inclusive.
type CreateLeaveRequest struct {
	EmployeeID string           `json:"employeeID" binding:"required"`
	LeaveType  domain.LeaveType `json:"leaveType" binding:"required,oneof=annual sick personal unpaid other"`
	StartDate  time.Time        `json:"startDate" binding:"required"`
	EndDate    time.Time        `json:"endDate" binding:"required"`
	Reason     string           `json:"reason"`
}

// ListLeavesParams selects the approved leaves of an employee that touch From..To.
type ListLeavesParams struct {
	EmployeeID string    `form:"employeeID" binding:"required"`
	From       time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To         time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}
