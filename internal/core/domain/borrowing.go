package domain

import (
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/fsm"
)

// BorrowingStatus is the workflow state of an employee loan.
type BorrowingStatus string

const (
	BorrowingPending     BorrowingStatus = "pending"
	BorrowingApproved    BorrowingStatus = "approved"
	BorrowingRejected    BorrowingStatus = "rejected"
	BorrowingOutstanding BorrowingStatus = "outstanding"
	BorrowingPartial     BorrowingStatus = "partial"
	BorrowingRepaid      BorrowingStatus = "repaid"
)

var BorrowingMachine = fsm.New("borrowing", map[BorrowingStatus][]BorrowingStatus{
	BorrowingPending:     {BorrowingApproved, BorrowingRejected},
	BorrowingApproved:    {BorrowingOutstanding},
	BorrowingOutstanding: {BorrowingPartial, BorrowingRepaid},
	BorrowingPartial:     {BorrowingRepaid},
	BorrowingRepaid:      {},
	BorrowingRejected:    {},
})

// Borrowing is money lent to an employee.
type Borrowing struct {
	BorrowingID  string          `json:"borrowingID"`
	EmployeeID   string          `json:"employeeID"`
	Amount       int64           `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	Reason       string          `json:"reason"`
	Status       BorrowingStatus `json:"status"`
	RepaidAmount int64           `json:"repaidAmount"`
	Version      int64           `json:"version"`

	DisbursementAccountID string     `json:"disbursementAccountID,omitempty"`
	DisbursementPostingID string     `json:"disbursementPostingID,omitempty"`
	ReviewedBy            string     `json:"reviewedBy,omitempty"`
	ReviewedAt            *time.Time `json:"reviewedAt,omitempty"`
	RejectReason          string     `json:"rejectReason,omitempty"`
	DisbursedBy           string     `json:"disbursedBy,omitempty"`
	DisbursedAt           *time.Time `json:"disbursedAt,omitempty"`
	AuditFields
}

// Outstanding is what the employee still owes.
func (b Borrowing) Outstanding() int64 {
	return b.Amount - b.RepaidAmount
}

// StatusAfterRepaid is the status the borrowing moves to once repaid reaches the given total.
func (b Borrowing) StatusAfterRepaid(repaid int64) BorrowingStatus {
	if repaid >= b.Amount {
		return BorrowingRepaid
	}
	return BorrowingPartial
}

// RepaymentStatus is the review state of a repayment.
type RepaymentStatus string

const (
	RepaymentPending   RepaymentStatus = "pending"
	RepaymentConfirmed RepaymentStatus = "confirmed"
	RepaymentRejected  RepaymentStatus = "rejected"
)

var RepaymentMachine = fsm.New("repayment", map[RepaymentStatus][]RepaymentStatus{
	RepaymentPending: {RepaymentConfirmed, RepaymentRejected},
})

// Repayment is money returned by an employee against a borrowing.
type Repayment struct {
	RepaymentID string          `json:"repaymentID"`
	BorrowingID string          `json:"borrowingID"`
	Amount      int64           `json:"amount"`
	AccountID   string          `json:"accountID"`
	BizDate     time.Time       `json:"bizDate"`
	Status      RepaymentStatus `json:"status"`
	PostingID   string          `json:"postingID,omitempty"`
	Version     int64           `json:"version"`
	ReviewedBy  string          `json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewedAt,omitempty"`
	AuditFields
}
