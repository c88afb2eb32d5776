package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PayrollServiceTestSuite struct {
	suite.Suite
	f       *fixture
	usdBank string
	eurBank string
}

func (s *PayrollServiceTestSuite) SetupTest() {
	s.f = newFixture(s.T())
	s.usdBank = s.f.account(s.T(), "USD Bank", "USD", 0)
	s.eurBank = s.f.account(s.T(), "EUR Bank", "EUR", 0)

	_, err := s.f.svc.ExchangeRate.CreateExchangeRate(s.f.ctx, dto.CreateExchangeRateRequest{
		FromCurrencyCode: "EUR",
		ToCurrencyCode:   "USD",
		Rate:             decimal.RequireFromString("1.1"),
		EffectiveDate:    date(2024, 1, 1),
	}, testUser)
	s.Require().NoError(err)
}

func TestPayrollServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PayrollServiceTestSuite))
}

func (s *PayrollServiceTestSuite) approvedLeave(employeeID string, leaveType domain.LeaveType, from, to time.Time) {
	l, err := s.f.svc.Leave.RequestLeave(s.f.ctx, dto.CreateLeaveRequest{
		EmployeeID: employeeID,
		LeaveType:  leaveType,
		StartDate:  from,
		EndDate:    to,
	}, testUser)
	s.Require().NoError(err)
	_, err = s.f.svc.Leave.ApproveLeave(s.f.ctx, l.LeaveID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)
}

// singlePayment generates February 2024 for one employee earning 100000 USD.
func (s *PayrollServiceTestSuite) singlePayment() *domain.SalaryPayment {
	s.f.employee(s.T(), "Erin", date(2023, 1, 1), "USD", 100000)
	resp, err := s.f.svc.Payroll.Generate(s.f.ctx, dto.GenerateSalaryRequest{Year: 2024, Month: 2}, testUser)
	s.Require().NoError(err)
	s.Require().Equal(1, resp.Created)

	got, err := s.f.svc.Payroll.GetSalaryPayment(s.f.ctx, resp.PaymentIDs[0])
	s.Require().NoError(err)
	return &got.Payment
}

func (s *PayrollServiceTestSuite) requestAllocation(paymentID string, items ...dto.AllocationItem) (*dto.SalaryPaymentResponse, error) {
	return s.f.svc.Payroll.RequestAllocation(s.f.ctx, paymentID, dto.RequestAllocationRequest{Items: items}, testUser)
}

func (s *PayrollServiceTestSuite) TestGenerate_ProratesByUnpaidLeave() {
	alice := s.f.employee(s.T(), "Alice", date(2023, 6, 1), "USD", 31000)
	s.approvedLeave(alice, domain.LeaveSick, date(2024, 1, 10), date(2024, 1, 12))
	s.approvedLeave(alice, domain.LeaveUnpaid, date(2023, 12, 30), date(2024, 1, 2))
	s.approvedLeave(alice, domain.LeaveAnnual, date(2024, 1, 20), date(2024, 1, 21))

	s.f.employee(s.T(), "Bob", date(2024, 2, 5), "USD", 31000)
	carol := s.f.employee(s.T(), "Carol", date(2023, 1, 1), "USD", 31000)
	inactive := false
	_, err := s.f.svc.Employee.UpdateEmployee(s.f.ctx, carol, dto.UpdateEmployeeRequest{IsActive: &inactive}, testUser)
	s.Require().NoError(err)
	s.f.employee(s.T(), "Dave", date(2023, 1, 1), "USD", 0)

	resp, err := s.f.svc.Payroll.Generate(s.f.ctx, dto.GenerateSalaryRequest{Year: 2024, Month: 1}, testUser)
	s.Require().NoError(err)
	s.Require().Equal(1, resp.Created)

	payments, err := s.f.svc.Payroll.ListSalaryPayments(s.f.ctx, 2024, 1)
	s.Require().NoError(err)
	s.Require().Len(payments, 1)
	p := payments[0]
	s.Equal(alice, p.EmployeeID)
	s.Equal(31, p.DaysInMonth)
	s.Equal(5, p.LeaveDays)
	s.Equal(int64(31000), p.BaseAmount)
	s.Equal(int64(26000), p.Amount)
	s.Equal(domain.SalaryPendingEmployeeConfirmation, p.Status)
	s.Equal(domain.AllocationNone, p.AllocationStatus)
	s.Equal(int64(1), p.Version)
}

func (s *PayrollServiceTestSuite) TestGenerate_SkipsExistingPayments() {
	s.singlePayment()

	again, err := s.f.svc.Payroll.Generate(s.f.ctx, dto.GenerateSalaryRequest{Year: 2024, Month: 2}, testUser)
	s.Require().NoError(err)
	s.Equal(0, again.Created)
	s.Empty(again.PaymentIDs)
}

func (s *PayrollServiceTestSuite) TestTransition_OptimisticLock() {
	p := s.singlePayment()

	confirmed, err := s.f.svc.Payroll.EmployeeConfirm(s.f.ctx, p.PaymentID, dto.TransitionRequest{Version: version(1)}, testUser)
	s.Require().NoError(err)
	s.Equal(int64(2), confirmed.Version)
	s.Equal(testUser, confirmed.EmployeeConfirmedBy)

	returned, err := s.f.svc.Payroll.FinanceReturn(s.f.ctx, p.PaymentID, dto.TransitionRequest{Version: version(2), Reason: "wrong month"}, testUser)
	s.Require().NoError(err)
	s.Equal(int64(3), returned.Version)
	s.Equal(domain.SalaryPendingEmployeeConfirmation, returned.Status)
	s.Equal("wrong month", returned.Note)

	again, err := s.f.svc.Payroll.EmployeeConfirm(s.f.ctx, p.PaymentID, dto.TransitionRequest{Version: version(3)}, testUser)
	s.Require().NoError(err)
	s.Equal(int64(4), again.Version)

	_, err = s.f.svc.Payroll.FinanceApprove(s.f.ctx, p.PaymentID, dto.TransitionRequest{Version: version(2)}, testUser)
	var cmErr *apperrors.ConcurrentModificationError
	s.Require().ErrorAs(err, &cmErr)
	s.Equal(int64(4), cmErr.Current)
	s.Equal(int64(2), cmErr.Expected)

	got, err := s.f.svc.Payroll.GetSalaryPayment(s.f.ctx, p.PaymentID)
	s.Require().NoError(err)
	s.Equal(domain.SalaryPendingFinanceApproval, got.Payment.Status)
	s.Equal(int64(4), got.Payment.Version)
}

func (s *PayrollServiceTestSuite) TestTransition_InvalidTransitionCheckedFirst() {
	p := s.singlePayment()

	_, err := s.f.svc.Payroll.ConfirmPayment(s.f.ctx, p.PaymentID, dto.TransitionRequest{Version: version(99)}, testUser)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
	s.NotErrorIs(err, apperrors.ErrConcurrentModification)
}

func (s *PayrollServiceTestSuite) TestDelete_OnlyBeforeEmployeeConfirmation() {
	p := s.singlePayment()

	deleted, err := s.f.svc.Payroll.Delete(s.f.ctx, p.PaymentID, dto.TransitionRequest{Reason: "duplicate"}, testUser)
	s.Require().NoError(err)
	s.Equal(domain.SalaryDeleted, deleted.Status)

	_, err = s.f.svc.Payroll.EmployeeConfirm(s.f.ctx, p.PaymentID, dto.TransitionRequest{}, testUser)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (s *PayrollServiceTestSuite) TestRequestAllocation_Tolerance() {
	p := s.singlePayment()

	ok, err := s.requestAllocation(p.PaymentID,
		dto.AllocationItem{CurrencyCode: "USD", Amount: 60000},
		dto.AllocationItem{CurrencyCode: "USD", Amount: 41000})
	s.Require().NoError(err)
	s.Equal(domain.AllocationRequested, ok.Payment.AllocationStatus)
	s.Len(ok.Allocations, 2)

	_, err = s.requestAllocation(p.PaymentID,
		dto.AllocationItem{CurrencyCode: "USD", Amount: 60000},
		dto.AllocationItem{CurrencyCode: "USD", Amount: 41001})
	s.ErrorIs(err, apperrors.ErrBusinessRule)

	got, err := s.f.svc.Payroll.GetSalaryPayment(s.f.ctx, p.PaymentID)
	s.Require().NoError(err)
	s.Require().Len(got.Allocations, 2)
	s.Equal(int64(41000), got.Allocations[1].Amount)
}

func (s *PayrollServiceTestSuite) TestRequestAllocation_ConvertsCurrencies() {
	p := s.singlePayment()

	resp, err := s.requestAllocation(p.PaymentID,
		dto.AllocationItem{CurrencyCode: "USD", Amount: 45000},
		dto.AllocationItem{CurrencyCode: "EUR", Amount: 50000, AccountID: s.eurBank})
	s.Require().NoError(err)
	s.Equal(int64(55000), resp.Allocations[1].ConvertedAmount)

	_, err = s.requestAllocation(p.PaymentID, dto.AllocationItem{CurrencyCode: "CNY", Amount: 700000})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.requestAllocation(p.PaymentID,
		dto.AllocationItem{CurrencyCode: "USD", Amount: 45000, AccountID: s.eurBank},
		dto.AllocationItem{CurrencyCode: "EUR", Amount: 50000})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PayrollServiceTestSuite) TestAllocation_FullFlow() {
	p := s.singlePayment()
	resp, err := s.requestAllocation(p.PaymentID,
		dto.AllocationItem{CurrencyCode: "USD", Amount: 45000},
		dto.AllocationItem{CurrencyCode: "EUR", Amount: 50000, AccountID: s.eurBank})
	s.Require().NoError(err)

	_, err = s.f.svc.Payroll.EmployeeConfirm(s.f.ctx, p.PaymentID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)

	_, err = s.f.svc.Payroll.FinanceApprove(s.f.ctx, p.PaymentID, dto.TransitionRequest{}, testUser)
	s.ErrorIs(err, apperrors.ErrBusinessRule)

	partial, err := s.f.svc.Payroll.ApproveAllocation(s.f.ctx, p.PaymentID,
		dto.ReviewAllocationRequest{AllocationIDs: []string{resp.Allocations[0].AllocationID}}, testUser)
	s.Require().NoError(err)
	s.Equal(domain.AllocationRequested, partial.Payment.AllocationStatus)
	s.Equal(domain.AllocationItemApproved, partial.Allocations[0].Status)
	s.Equal(domain.AllocationItemPending, partial.Allocations[1].Status)

	_, err = s.f.svc.Payroll.FinanceApprove(s.f.ctx, p.PaymentID, dto.TransitionRequest{}, testUser)
	s.ErrorIs(err, apperrors.ErrBusinessRule)

	all, err := s.f.svc.Payroll.ApproveAllocation(s.f.ctx, p.PaymentID, dto.ReviewAllocationRequest{}, testUser)
	s.Require().NoError(err)
	s.Equal(domain.AllocationApproved, all.Payment.AllocationStatus)

	_, err = s.f.svc.Payroll.FinanceApprove(s.f.ctx, p.PaymentID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)

	_, err = s.requestAllocation(p.PaymentID, dto.AllocationItem{CurrencyCode: "USD", Amount: 100000})
	s.ErrorIs(err, apperrors.ErrBusinessRule)

	paid, err := s.f.svc.Payroll.Pay(s.f.ctx, p.PaymentID, dto.PayoutRequest{AccountID: s.usdBank}, testUser)
	s.Require().NoError(err)
	s.Equal(domain.SalaryPendingPaymentConfirmation, paid.Status)
	s.Empty(paid.PaymentPostingID)
	s.Equal(int64(-45000), s.f.balance(s.T(), s.usdBank))
	s.Equal(int64(-50000), s.f.balance(s.T(), s.eurBank))

	got, err := s.f.svc.Payroll.GetSalaryPayment(s.f.ctx, p.PaymentID)
	s.Require().NoError(err)
	for _, a := range got.Allocations {
		s.NotEmpty(a.PostingID)
	}

	done, err := s.f.svc.Payroll.ConfirmPayment(s.f.ctx, p.PaymentID, dto.TransitionRequest{Version: version(paid.Version)}, testUser)
	s.Require().NoError(err)
	s.Equal(domain.SalaryCompleted, done.Status)
}

func (s *PayrollServiceTestSuite) TestAllocation_RejectedBlocksApproval() {
	p := s.singlePayment()
	_, err := s.requestAllocation(p.PaymentID, dto.AllocationItem{CurrencyCode: "USD", Amount: 100000})
	s.Require().NoError(err)
	_, err = s.f.svc.Payroll.EmployeeConfirm(s.f.ctx, p.PaymentID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)

	rejected, err := s.f.svc.Payroll.RejectAllocation(s.f.ctx, p.PaymentID, dto.ReviewAllocationRequest{Reason: "use one account"}, testUser)
	s.Require().NoError(err)
	s.Equal(domain.AllocationRejected, rejected.Payment.AllocationStatus)
	s.Equal(domain.AllocationItemRejected, rejected.Allocations[0].Status)

	_, err = s.f.svc.Payroll.FinanceApprove(s.f.ctx, p.PaymentID, dto.TransitionRequest{}, testUser)
	s.ErrorIs(err, apperrors.ErrBusinessRule)

	_, err = s.f.svc.Payroll.ApproveAllocation(s.f.ctx, p.PaymentID, dto.ReviewAllocationRequest{}, testUser)
	s.ErrorIs(err, apperrors.ErrBusinessRule)

	again, err := s.requestAllocation(p.PaymentID, dto.AllocationItem{CurrencyCode: "USD", Amount: 100000})
	s.Require().NoError(err)
	s.Equal(domain.AllocationRequested, again.Payment.AllocationStatus)
}

func (s *PayrollServiceTestSuite) TestPay_WithoutAllocation() {
	p := s.singlePayment()
	_, err := s.f.svc.Payroll.EmployeeConfirm(s.f.ctx, p.PaymentID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)
	_, err = s.f.svc.Payroll.FinanceApprove(s.f.ctx, p.PaymentID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)

	_, err = s.f.svc.Payroll.Pay(s.f.ctx, p.PaymentID, dto.PayoutRequest{AccountID: s.eurBank}, testUser)
	s.ErrorIs(err, apperrors.ErrBusinessRule)
	got, err := s.f.svc.Payroll.GetSalaryPayment(s.f.ctx, p.PaymentID)
	s.Require().NoError(err)
	s.Equal(domain.SalaryPendingPayment, got.Payment.Status)

	paid, err := s.f.svc.Payroll.Pay(s.f.ctx, p.PaymentID, dto.PayoutRequest{AccountID: s.usdBank}, testUser)
	s.Require().NoError(err)
	s.NotEmpty(paid.PaymentPostingID)
	s.Equal(s.usdBank, paid.PaymentAccountID)
	s.Equal(int64(-100000), s.f.balance(s.T(), s.usdBank))

	posting, err := s.f.svc.Ledger.GetPosting(s.f.ctx, paid.PaymentPostingID)
	s.Require().NoError(err)
	s.Equal(domain.PostingExpense, posting.Kind)
	s.Equal("salary", posting.Category)
}

func (s *PayrollServiceTestSuite) TestPay_FailureRollsBackEarlierPostings() {
	p := s.singlePayment()
	_, err := s.requestAllocation(p.PaymentID,
		dto.AllocationItem{CurrencyCode: "USD", Amount: 45000, AccountID: s.usdBank},
		dto.AllocationItem{CurrencyCode: "EUR", Amount: 50000, AccountID: s.eurBank})
	s.Require().NoError(err)
	_, err = s.f.svc.Payroll.ApproveAllocation(s.f.ctx, p.PaymentID, dto.ReviewAllocationRequest{}, testUser)
	s.Require().NoError(err)
	_, err = s.f.svc.Payroll.EmployeeConfirm(s.f.ctx, p.PaymentID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)
	_, err = s.f.svc.Payroll.FinanceApprove(s.f.ctx, p.PaymentID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)

	s.Require().NoError(s.f.svc.Account.DeactivateAccount(s.f.ctx, s.eurBank, testUser))

	_, err = s.f.svc.Payroll.Pay(s.f.ctx, p.PaymentID, dto.PayoutRequest{AccountID: s.usdBank}, testUser)
	s.ErrorIs(err, apperrors.ErrBusinessRule)
	s.Equal(int64(0), s.f.balance(s.T(), s.usdBank))
	s.Equal(0, s.f.postingsOn(s.T(), date(2024, 2, 10)))

	got, err := s.f.svc.Payroll.GetSalaryPayment(s.f.ctx, p.PaymentID)
	s.Require().NoError(err)
	s.Equal(domain.SalaryPendingPayment, got.Payment.Status)
	for _, a := range got.Allocations {
		s.Empty(a.PostingID)
	}
}

func (s *PayrollServiceTestSuite) TestFinanceApprove_RequiresEveryRowApproved() {
	p := s.singlePayment()
	_, err := s.requestAllocation(p.PaymentID,
		dto.AllocationItem{CurrencyCode: "USD", Amount: 50000},
		dto.AllocationItem{CurrencyCode: "USD", Amount: 50000})
	s.Require().NoError(err)
	all, err := s.f.svc.Payroll.ApproveAllocation(s.f.ctx, p.PaymentID, dto.ReviewAllocationRequest{}, testUser)
	s.Require().NoError(err)
	s.Require().Equal(domain.AllocationApproved, all.Payment.AllocationStatus)
	_, err = s.f.svc.Payroll.EmployeeConfirm(s.f.ctx, p.PaymentID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)

	row := all.Allocations[1]
	row.Status = domain.AllocationItemRejected
	s.Require().NoError(s.f.repos.SalaryRepo.UpdateAllocation(s.f.ctx, row))

	_, err = s.f.svc.Payroll.FinanceApprove(s.f.ctx, p.PaymentID, dto.TransitionRequest{}, testUser)
	s.ErrorIs(err, apperrors.ErrBusinessRule)
	got, err := s.f.svc.Payroll.GetSalaryPayment(s.f.ctx, p.PaymentID)
	s.Require().NoError(err)
	s.Equal(domain.SalaryPendingFinanceApproval, got.Payment.Status)
}

func (s *PayrollServiceTestSuite) TestPay_ZeroSalarySkipsPosting() {
	erin := s.f.employee(s.T(), "Erin", date(2023, 1, 1), "USD", 100000)
	s.approvedLeave(erin, domain.LeaveUnpaid, date(2024, 2, 1), date(2024, 2, 29))

	resp, err := s.f.svc.Payroll.Generate(s.f.ctx, dto.GenerateSalaryRequest{Year: 2024, Month: 2}, testUser)
	s.Require().NoError(err)
	s.Require().Equal(1, resp.Created)
	id := resp.PaymentIDs[0]

	got, err := s.f.svc.Payroll.GetSalaryPayment(s.f.ctx, id)
	s.Require().NoError(err)
	s.Equal(int64(0), got.Payment.Amount)
	s.Equal(29, got.Payment.LeaveDays)

	_, err = s.f.svc.Payroll.EmployeeConfirm(s.f.ctx, id, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)
	_, err = s.f.svc.Payroll.FinanceApprove(s.f.ctx, id, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)

	paid, err := s.f.svc.Payroll.Pay(s.f.ctx, id, dto.PayoutRequest{AccountID: s.usdBank}, testUser)
	s.Require().NoError(err)
	s.Equal(domain.SalaryPendingPaymentConfirmation, paid.Status)
	s.Empty(paid.PaymentPostingID)
	s.Equal(s.usdBank, paid.PaymentAccountID)
	s.Equal(int64(0), s.f.balance(s.T(), s.usdBank))
	s.Equal(0, s.f.postingsOn(s.T(), date(2024, 2, 10)))

	done, err := s.f.svc.Payroll.ConfirmPayment(s.f.ctx, id, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)
	s.Equal(domain.SalaryCompleted, done.Status)
}
