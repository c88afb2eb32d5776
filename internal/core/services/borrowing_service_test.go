package services_test

import (
	"testing"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type BorrowingServiceTestSuite struct {
	suite.Suite
	f        *fixture
	bank     string
	employee string
}

func (s *BorrowingServiceTestSuite) SetupTest() {
	s.f = newFixture(s.T())
	s.bank = s.f.account(s.T(), "Bank", "USD", 10000)
	s.employee = s.f.employee(s.T(), "Grace", date(2023, 1, 1), "USD", 0)
}

func TestBorrowingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BorrowingServiceTestSuite))
}

func (s *BorrowingServiceTestSuite) request(amount int64) *domain.Borrowing {
	b, err := s.f.svc.Borrowing.RequestBorrowing(s.f.ctx, dto.CreateBorrowingRequest{
		EmployeeID:   s.employee,
		Amount:       amount,
		CurrencyCode: "USD",
		Reason:       "rent deposit",
	}, testUser)
	s.Require().NoError(err)
	return b
}

func (s *BorrowingServiceTestSuite) outstanding(amount int64) *domain.Borrowing {
	b := s.request(amount)
	_, err := s.f.svc.Borrowing.ApproveBorrowing(s.f.ctx, b.BorrowingID, dto.TransitionRequest{Version: version(1)}, testUser)
	s.Require().NoError(err)
	out, err := s.f.svc.Borrowing.DisburseBorrowing(s.f.ctx, b.BorrowingID, dto.PayoutRequest{AccountID: s.bank}, testUser)
	s.Require().NoError(err)
	return out
}

func (s *BorrowingServiceTestSuite) repay(borrowingID string, amount int64) *domain.Repayment {
	rp, err := s.f.svc.Borrowing.RequestRepayment(s.f.ctx, borrowingID, dto.CreateRepaymentRequest{Amount: amount, AccountID: s.bank}, testUser)
	s.Require().NoError(err)
	return rp
}

func (s *BorrowingServiceTestSuite) TestFullRepaymentFlow() {
	b := s.outstanding(3000)
	s.Equal(domain.BorrowingOutstanding, b.Status)
	s.Equal(int64(3), b.Version)
	s.NotEmpty(b.DisbursementPostingID)
	s.Equal(int64(7000), s.f.balance(s.T(), s.bank))

	first := s.repay(b.BorrowingID, 1000)
	s.Equal(domain.RepaymentPending, first.Status)
	s.Equal(int64(7000), s.f.balance(s.T(), s.bank))

	confirmed, err := s.f.svc.Borrowing.ConfirmRepayment(s.f.ctx, first.RepaymentID, dto.TransitionRequest{Version: version(1)}, testUser)
	s.Require().NoError(err)
	s.Equal(domain.RepaymentConfirmed, confirmed.Status)
	s.NotEmpty(confirmed.PostingID)
	s.Equal(int64(8000), s.f.balance(s.T(), s.bank))

	got, err := s.f.svc.Borrowing.GetBorrowing(s.f.ctx, b.BorrowingID)
	s.Require().NoError(err)
	s.Equal(domain.BorrowingPartial, got.Borrowing.Status)
	s.Equal(int64(2000), got.Borrowing.Outstanding())

	second := s.repay(b.BorrowingID, 1500)
	_, err = s.f.svc.Borrowing.ConfirmRepayment(s.f.ctx, second.RepaymentID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)
	third := s.repay(b.BorrowingID, 500)
	_, err = s.f.svc.Borrowing.ConfirmRepayment(s.f.ctx, third.RepaymentID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)

	got, err = s.f.svc.Borrowing.GetBorrowing(s.f.ctx, b.BorrowingID)
	s.Require().NoError(err)
	s.Equal(domain.BorrowingRepaid, got.Borrowing.Status)
	s.Equal(int64(3000), got.Borrowing.RepaidAmount)
	s.Len(got.Repayments, 3)
	s.Equal(int64(10000), s.f.balance(s.T(), s.bank))

	_, err = s.f.svc.Borrowing.RequestRepayment(s.f.ctx, b.BorrowingID, dto.CreateRepaymentRequest{Amount: 1, AccountID: s.bank}, testUser)
	s.ErrorIs(err, apperrors.ErrBusinessRule)
}

func (s *BorrowingServiceTestSuite) TestRepayment_CannotExceedOutstanding() {
	b := s.outstanding(1000)

	_, err := s.f.svc.Borrowing.RequestRepayment(s.f.ctx, b.BorrowingID, dto.CreateRepaymentRequest{Amount: 1001, AccountID: s.bank}, testUser)
	s.ErrorIs(err, apperrors.ErrBusinessRule)

	// Two pending repayments may each fit, but only the first can be confirmed.
	first := s.repay(b.BorrowingID, 800)
	second := s.repay(b.BorrowingID, 800)
	_, err = s.f.svc.Borrowing.ConfirmRepayment(s.f.ctx, first.RepaymentID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)
	_, err = s.f.svc.Borrowing.ConfirmRepayment(s.f.ctx, second.RepaymentID, dto.TransitionRequest{}, testUser)
	s.ErrorIs(err, apperrors.ErrBusinessRule)

	got, err := s.f.svc.Borrowing.GetBorrowing(s.f.ctx, b.BorrowingID)
	s.Require().NoError(err)
	s.Equal(int64(800), got.Borrowing.RepaidAmount)
	s.Equal(domain.BorrowingPartial, got.Borrowing.Status)
}

func (s *BorrowingServiceTestSuite) TestRepayment_BeforeDisbursement() {
	b := s.request(1000)

	_, err := s.f.svc.Borrowing.RequestRepayment(s.f.ctx, b.BorrowingID, dto.CreateRepaymentRequest{Amount: 100, AccountID: s.bank}, testUser)
	s.ErrorIs(err, apperrors.ErrBusinessRule)
}

func (s *BorrowingServiceTestSuite) TestRejectRepayment() {
	b := s.outstanding(1000)
	rp := s.repay(b.BorrowingID, 400)

	rejected, err := s.f.svc.Borrowing.RejectRepayment(s.f.ctx, rp.RepaymentID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)
	s.Equal(domain.RepaymentRejected, rejected.Status)

	_, err = s.f.svc.Borrowing.ConfirmRepayment(s.f.ctx, rp.RepaymentID, dto.TransitionRequest{}, testUser)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)

	got, err := s.f.svc.Borrowing.GetBorrowing(s.f.ctx, b.BorrowingID)
	s.Require().NoError(err)
	s.Equal(domain.BorrowingOutstanding, got.Borrowing.Status)
	s.Equal(int64(9000), s.f.balance(s.T(), s.bank))
}

func (s *BorrowingServiceTestSuite) TestRejectBorrowing() {
	b := s.request(1000)

	rejected, err := s.f.svc.Borrowing.RejectBorrowing(s.f.ctx, b.BorrowingID, dto.TransitionRequest{Reason: "too large"}, testUser)
	s.Require().NoError(err)
	s.Equal(domain.BorrowingRejected, rejected.Status)
	s.Equal("too large", rejected.RejectReason)

	_, err = s.f.svc.Borrowing.DisburseBorrowing(s.f.ctx, b.BorrowingID, dto.PayoutRequest{AccountID: s.bank}, testUser)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (s *BorrowingServiceTestSuite) TestDeleteBorrowing() {
	pending := s.request(1000)
	err := s.f.svc.Borrowing.DeleteBorrowing(s.f.ctx, pending.BorrowingID, dto.TransitionRequest{Version: version(2)}, testUser)
	var cmErr *apperrors.ConcurrentModificationError
	s.ErrorAs(err, &cmErr)

	s.Require().NoError(s.f.svc.Borrowing.DeleteBorrowing(s.f.ctx, pending.BorrowingID, dto.TransitionRequest{Version: version(1)}, testUser))
	_, err = s.f.svc.Borrowing.GetBorrowing(s.f.ctx, pending.BorrowingID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	approved := s.request(1000)
	_, err = s.f.svc.Borrowing.ApproveBorrowing(s.f.ctx, approved.BorrowingID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)
	err = s.f.svc.Borrowing.DeleteBorrowing(s.f.ctx, approved.BorrowingID, dto.TransitionRequest{}, testUser)
	s.ErrorIs(err, apperrors.ErrBusinessRule)
}

func (s *BorrowingServiceTestSuite) TestDisburse_CurrencyMismatchRollsBack() {
	eur := s.f.account(s.T(), "EUR Bank", "EUR", 0)
	b := s.request(1000)
	_, err := s.f.svc.Borrowing.ApproveBorrowing(s.f.ctx, b.BorrowingID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)

	_, err = s.f.svc.Borrowing.DisburseBorrowing(s.f.ctx, b.BorrowingID, dto.PayoutRequest{AccountID: eur}, testUser)
	s.ErrorIs(err, apperrors.ErrBusinessRule)

	got, err := s.f.svc.Borrowing.GetBorrowing(s.f.ctx, b.BorrowingID)
	s.Require().NoError(err)
	s.Equal(domain.BorrowingApproved, got.Borrowing.Status)
	s.Empty(got.Borrowing.DisbursementPostingID)
}

func (s *BorrowingServiceTestSuite) TestRequestBorrowing_InactiveEmployee() {
	inactive := false
	_, err := s.f.svc.Employee.UpdateEmployee(s.f.ctx, s.employee, dto.UpdateEmployeeRequest{IsActive: &inactive}, testUser)
	s.Require().NoError(err)

	_, err = s.f.svc.Borrowing.RequestBorrowing(s.f.ctx, dto.CreateBorrowingRequest{
		EmployeeID: s.employee, Amount: 10, CurrencyCode: "USD",
	}, testUser)
	s.ErrorIs(err, apperrors.ErrBusinessRule)
}
