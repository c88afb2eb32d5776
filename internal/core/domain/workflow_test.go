package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSalaryPaymentMachine(t *testing.T) {
	m := domain.SalaryPaymentMachine

	assert.True(t, m.CanTransition(domain.SalaryPendingEmployeeConfirmation, domain.SalaryPendingFinanceApproval))
	assert.True(t, m.CanTransition(domain.SalaryPendingFinanceApproval, domain.SalaryPendingEmployeeConfirmation))
	assert.False(t, m.CanTransition(domain.SalaryCompleted, domain.SalaryPendingPayment))
	assert.False(t, m.CanTransition(domain.SalaryPendingPayment, domain.SalaryDeleted))
	assert.True(t, m.IsTerminal(domain.SalaryCompleted))
	assert.True(t, m.IsTerminal(domain.SalaryDeleted))
	assert.Equal(t,
		[]domain.SalaryPaymentStatus{domain.SalaryDeleted, domain.SalaryPendingFinanceApproval},
		m.PossibleTransitions(domain.SalaryPendingEmployeeConfirmation))
}

func TestBorrowingAndRepaymentMachines(t *testing.T) {
	assert.True(t, domain.BorrowingMachine.CanTransition(domain.BorrowingOutstanding, domain.BorrowingPartial))
	assert.True(t, domain.BorrowingMachine.CanTransition(domain.BorrowingPartial, domain.BorrowingRepaid))
	assert.False(t, domain.BorrowingMachine.CanTransition(domain.BorrowingPending, domain.BorrowingOutstanding))
	assert.True(t, domain.BorrowingMachine.IsTerminal(domain.BorrowingRejected))

	assert.True(t, domain.RepaymentMachine.IsTerminal(domain.RepaymentConfirmed))
	assert.False(t, domain.RepaymentMachine.CanTransition(domain.RepaymentRejected, domain.RepaymentConfirmed))

	assert.True(t, domain.ReimbursementMachine.CanTransition(domain.ReimbursementApproved, domain.ReimbursementPaid))
	assert.True(t, domain.LeaveMachine.IsTerminal(domain.LeaveApproved))
}

func TestBorrowing_StatusAfterRepaid(t *testing.T) {
	b := domain.Borrowing{Amount: 1000, RepaidAmount: 200}
	assert.Equal(t, int64(800), b.Outstanding())
	assert.Equal(t, domain.BorrowingPartial, b.StatusAfterRepaid(600))
	assert.Equal(t, domain.BorrowingRepaid, b.StatusAfterRepaid(1000))
}

func TestProrateSalary(t *testing.T) {
	tests := []struct {
		name  string
		base  int64
		days  int
		leave int
		want  int64
	}{
		{"no leave", 300000, 30, 0, 300000},
		{"three days off", 300000, 30, 3, 270000},
		{"rounds half up", 100, 3, 1, 67},
		{"clamped to month", 300000, 30, 45, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ProrateSalary(tt.base, tt.days, tt.leave))
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	one := decimal.NewFromInt(1)
	assert.True(t, domain.WithinTolerance(100000, decimal.NewFromInt(100000), one))
	assert.True(t, domain.WithinTolerance(100000, decimal.NewFromInt(101000), one))
	assert.True(t, domain.WithinTolerance(100000, decimal.NewFromInt(99000), one))
	assert.False(t, domain.WithinTolerance(100000, decimal.NewFromInt(101001), one))
	assert.False(t, domain.WithinTolerance(100000, decimal.NewFromInt(110000), one))
}

func TestLeaveDays(t *testing.T) {
	l := domain.Leave{
		StartDate: time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 4, l.Days())

	febStart, febEnd := domain.MonthBounds(2024, time.February)
	assert.Equal(t, 2, l.DaysWithin(febStart, febEnd))
	assert.Equal(t, 29, domain.DaysInMonth(2024, time.February))

	marStart, marEnd := domain.MonthBounds(2024, time.March)
	assert.Equal(t, 0, l.DaysWithin(marStart, marEnd))
}

func TestEmployee_EligibleFor(t *testing.T) {
	_, janEnd := domain.MonthBounds(2024, time.January)
	e := domain.Employee{IsActive: true, JoinDate: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)}
	assert.True(t, e.EligibleFor(janEnd))

	e.JoinDate = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, e.EligibleFor(janEnd))

	e.JoinDate = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	e.IsActive = false
	assert.False(t, e.EligibleFor(janEnd))
}
