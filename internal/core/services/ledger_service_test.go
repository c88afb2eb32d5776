package services_test

import (
	"testing"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	f    *fixture
	cash string
	bank string
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.f = newFixture(s.T())
	s.cash = s.f.account(s.T(), "Cash", "USD", 1000)
	s.bank = s.f.account(s.T(), "Bank", "EUR", 0)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func (s *LedgerServiceTestSuite) post(accountID string, kind domain.PostingKind, amount int64, day int) *domain.PostingResult {
	res, err := s.f.svc.Ledger.PostSingleEntry(s.f.ctx, dto.PostSingleEntryRequest{
		AccountID: accountID,
		Kind:      kind,
		Amount:    amount,
		BizDate:   date(2023, 1, day),
	}, testUser)
	s.Require().NoError(err)
	return res
}

func (s *LedgerServiceTestSuite) TestPostSingleEntry_ComputesSnapshots() {
	first := s.post(s.cash, domain.PostingIncome, 500, 1)
	s.Equal("JZ20230101-001", first.Posting.VoucherNo)
	s.Equal(int64(1000), first.Snapshot.BalanceBefore)
	s.Equal(int64(1500), first.Snapshot.BalanceAfter)

	second := s.post(s.cash, domain.PostingExpense, -200, 1)
	s.Equal("JZ20230101-002", second.Posting.VoucherNo)
	s.Equal(int64(1500), second.Snapshot.BalanceBefore)
	s.Equal(int64(1300), second.Snapshot.BalanceAfter)

	s.Equal(int64(1300), s.f.balance(s.T(), s.cash))

	acc, err := s.f.svc.Account.GetAccountByID(s.f.ctx, s.cash)
	s.Require().NoError(err)
	s.Equal(int64(3), acc.Version)
}

func (s *LedgerServiceTestSuite) TestPostSingleEntry_BackdatedDoesNotRewriteHistory() {
	s.post(s.cash, domain.PostingIncome, 500, 5)
	backdated := s.post(s.cash, domain.PostingIncome, 100, 3)

	s.Equal("JZ20230103-001", backdated.Posting.VoucherNo)
	s.Equal(int64(1000), backdated.Snapshot.BalanceBefore)
	s.Equal(int64(1100), backdated.Snapshot.BalanceAfter)

	page, err := s.f.svc.Ledger.ListAccountTransactions(s.f.ctx, s.cash, dto.ListTransactionsParams{})
	s.Require().NoError(err)
	s.Require().Len(page.Transactions, 2)
	// Newest business date first; its snapshot was not recomputed.
	s.Equal(int64(1000), page.Transactions[0].BalanceBefore)
	s.Equal(int64(1500), page.Transactions[0].BalanceAfter)
	s.Equal(int64(1500), s.f.balance(s.T(), s.cash))
}

func (s *LedgerServiceTestSuite) TestPostSingleEntry_BackdatedBetweenPostingsStartsFromEarlierSnapshot() {
	first := s.post(s.cash, domain.PostingIncome, 500, 1)
	later := s.post(s.cash, domain.PostingIncome, 300, 9)
	s.Equal(int64(1500), later.Snapshot.BalanceBefore)
	s.Equal(int64(1800), later.Snapshot.BalanceAfter)

	middle := s.post(s.cash, domain.PostingExpense, -200, 5)
	s.Equal(first.Snapshot.BalanceAfter, middle.Snapshot.BalanceBefore)
	s.Equal(int64(1500), middle.Snapshot.BalanceBefore)
	s.Equal(int64(1300), middle.Snapshot.BalanceAfter)

	page, err := s.f.svc.Ledger.ListAccountTransactions(s.f.ctx, s.cash, dto.ListTransactionsParams{})
	s.Require().NoError(err)
	s.Require().Len(page.Transactions, 3)
	s.Equal(later.Posting.PostingID, page.Transactions[0].PostingID)
	s.Equal(int64(1500), page.Transactions[0].BalanceBefore)
	s.Equal(int64(1800), page.Transactions[0].BalanceAfter)
	s.Equal(int64(1600), s.f.balance(s.T(), s.cash))
}

func (s *LedgerServiceTestSuite) TestPostSingleEntry_Rejections() {
	cases := []struct {
		name string
		req  dto.PostSingleEntryRequest
		want error
	}{
		{"zero amount", dto.PostSingleEntryRequest{AccountID: s.cash, Kind: domain.PostingIncome, Amount: 0, BizDate: date(2023, 1, 1)}, apperrors.ErrValidation},
		{"income with negative amount", dto.PostSingleEntryRequest{AccountID: s.cash, Kind: domain.PostingIncome, Amount: -5, BizDate: date(2023, 1, 1)}, apperrors.ErrValidation},
		{"expense with positive amount", dto.PostSingleEntryRequest{AccountID: s.cash, Kind: domain.PostingExpense, Amount: 5, BizDate: date(2023, 1, 1)}, apperrors.ErrValidation},
		{"transfer kind", dto.PostSingleEntryRequest{AccountID: s.cash, Kind: domain.PostingTransferIn, Amount: 5, BizDate: date(2023, 1, 1)}, apperrors.ErrValidation},
		{"missing biz date", dto.PostSingleEntryRequest{AccountID: s.cash, Kind: domain.PostingIncome, Amount: 5}, apperrors.ErrValidation},
		{"unknown account", dto.PostSingleEntryRequest{AccountID: "nope", Kind: domain.PostingIncome, Amount: 5, BizDate: date(2023, 1, 1)}, apperrors.ErrNotFound},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.f.svc.Ledger.PostSingleEntry(s.f.ctx, tc.req, testUser)
			s.ErrorIs(err, tc.want)
		})
	}
	s.Equal(0, s.f.postingsOn(s.T(), date(2023, 1, 1)))
}

func (s *LedgerServiceTestSuite) TestPostSingleEntry_InactiveAccount() {
	s.Require().NoError(s.f.svc.Account.DeactivateAccount(s.f.ctx, s.cash, testUser))

	_, err := s.f.svc.Ledger.PostSingleEntry(s.f.ctx, dto.PostSingleEntryRequest{
		AccountID: s.cash, Kind: domain.PostingIncome, Amount: 10, BizDate: date(2023, 1, 1),
	}, testUser)
	s.ErrorIs(err, apperrors.ErrBusinessRule)
}

func (s *LedgerServiceTestSuite) TestPostTransfer_WritesBothLegs() {
	rate := decimal.RequireFromString("0.9")
	res, err := s.f.svc.Ledger.PostTransfer(s.f.ctx, dto.PostTransferRequest{
		FromAccountID: s.cash,
		ToAccountID:   s.bank,
		FromAmount:    500,
		ToAmount:      450,
		Rate:          &rate,
		BizDate:       date(2023, 1, 2),
		Memo:          "fx",
	}, testUser)
	s.Require().NoError(err)

	s.Equal(domain.PostingTransferOut, res.Out.Posting.Kind)
	s.Equal(int64(-500), res.Out.Posting.Amount)
	s.Equal("JZ20230102-001", res.Out.Posting.VoucherNo)
	s.Equal(domain.PostingTransferIn, res.In.Posting.Kind)
	s.Equal(int64(450), res.In.Posting.Amount)
	s.Equal("JZ20230102-002", res.In.Posting.VoucherNo)
	s.Equal(res.Transfer.TransferID, res.Out.Posting.TransferID)
	s.Equal(res.Transfer.TransferID, res.In.Posting.TransferID)

	s.Equal(int64(500), s.f.balance(s.T(), s.cash))
	s.Equal(int64(450), s.f.balance(s.T(), s.bank))

	stored, err := s.f.svc.Ledger.GetTransfer(s.f.ctx, res.Transfer.TransferID)
	s.Require().NoError(err)
	s.Equal(res.Out.Posting.PostingID, stored.OutPostingID)
	s.Equal(res.In.Posting.PostingID, stored.InPostingID)
}

func (s *LedgerServiceTestSuite) TestPostTransfer_InactiveAccountWritesNothing() {
	s.Require().NoError(s.f.svc.Account.DeactivateAccount(s.f.ctx, s.bank, testUser))

	_, err := s.f.svc.Ledger.PostTransfer(s.f.ctx, dto.PostTransferRequest{
		FromAccountID: s.cash,
		ToAccountID:   s.bank,
		FromAmount:    500,
		ToAmount:      450,
		BizDate:       date(2023, 1, 2),
	}, testUser)
	s.ErrorIs(err, apperrors.ErrBusinessRule)
	s.Equal(0, s.f.postingsOn(s.T(), date(2023, 1, 2)))
	s.Equal(int64(1000), s.f.balance(s.T(), s.cash))
}

func (s *LedgerServiceTestSuite) TestPostTransfer_SameAccount() {
	_, err := s.f.svc.Ledger.PostTransfer(s.f.ctx, dto.PostTransferRequest{
		FromAccountID: s.cash,
		ToAccountID:   s.cash,
		FromAmount:    1,
		ToAmount:      1,
		BizDate:       date(2023, 1, 2),
	}, testUser)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestAttachVouchers() {
	res := s.post(s.cash, domain.PostingIncome, 10, 1)

	updated, err := s.f.svc.Ledger.AttachVouchers(s.f.ctx, res.Posting.PostingID, dto.AttachVouchersRequest{VoucherRefs: []string{"inv-1.pdf"}}, testUser)
	s.Require().NoError(err)
	s.Equal([]string{"inv-1.pdf"}, updated.VoucherRefs)

	stored, err := s.f.svc.Ledger.GetPosting(s.f.ctx, res.Posting.PostingID)
	s.Require().NoError(err)
	s.Equal([]string{"inv-1.pdf"}, stored.VoucherRefs)
	s.Equal(res.Posting.Amount, stored.Amount)

	_, err = s.f.svc.Ledger.AttachVouchers(s.f.ctx, "missing", dto.AttachVouchersRequest{VoucherRefs: []string{"x"}}, testUser)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestListAccountTransactions_Pages() {
	for day := 1; day <= 3; day++ {
		s.post(s.cash, domain.PostingIncome, 10, day)
	}

	first, err := s.f.svc.Ledger.ListAccountTransactions(s.f.ctx, s.cash, dto.ListTransactionsParams{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(first.Transactions, 2)
	s.Require().NotNil(first.NextToken)
	s.Equal(date(2023, 1, 3), first.Transactions[0].BizDate)

	second, err := s.f.svc.Ledger.ListAccountTransactions(s.f.ctx, s.cash, dto.ListTransactionsParams{Limit: 2, NextToken: first.NextToken})
	s.Require().NoError(err)
	s.Require().Len(second.Transactions, 1)
	s.Nil(second.NextToken)
	s.Equal(int64(1010), second.Transactions[0].BalanceAfter)

	bad := "!!!"
	_, err = s.f.svc.Ledger.ListAccountTransactions(s.f.ctx, s.cash, dto.ListTransactionsParams{NextToken: &bad})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestAuditRecordedAfterCommit() {
	s.post(s.cash, domain.PostingIncome, 10, 1)

	events := s.f.audit.Events()
	s.Require().NotEmpty(events)
	last := events[len(events)-1]
	s.Equal("posting", last.EntityType)
	s.Equal("post_single_entry", last.Action)
	s.Equal(testUser, last.Actor)
	s.NotEmpty(last.EventID)
}
