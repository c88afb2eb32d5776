package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
)

const (
	testJWTSecret = "test-secret-key-that-is-long-enough"
	testIssuer    = "backoffice-test"
)

// generateTestToken creates a signed JWT carrying userID as its subject.
func generateTestToken(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
}

func int64Ptr(v int64) *int64 { return &v }

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) PostSingleEntry(ctx context.Context, req dto.PostSingleEntryRequest, userID string) (*domain.PostingResult, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingResult), args.Error(1)
}

func (m *MockLedgerService) PostSingleEntryInTx(ctx context.Context, repos portsrepo.RepositoryProvider, req dto.PostSingleEntryRequest, userID string) (*domain.PostingResult, error) {
	args := m.Called(ctx, repos, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingResult), args.Error(1)
}

func (m *MockLedgerService) PostTransfer(ctx context.Context, req dto.PostTransferRequest, userID string) (*domain.TransferResult, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferResult), args.Error(1)
}

func (m *MockLedgerService) AttachVouchers(ctx context.Context, postingID string, req dto.AttachVouchersRequest, userID string) (*domain.Posting, error) {
	args := m.Called(ctx, postingID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Posting), args.Error(1)
}

func (m *MockLedgerService) GetPosting(ctx context.Context, postingID string) (*domain.Posting, error) {
	args := m.Called(ctx, postingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Posting), args.Error(1)
}

func (m *MockLedgerService) GetTransfer(ctx context.Context, transferID string) (*domain.Transfer, error) {
	args := m.Called(ctx, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockLedgerService) GetAccountBalance(ctx context.Context, accountID string) (*dto.AccountBalanceResponse, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AccountBalanceResponse), args.Error(1)
}

func (m *MockLedgerService) ListAccountTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListAccountTransactionsResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAccountTransactionsResponse), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock SettlementService ---
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, userID string) (*domain.Document, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockSettlementService) GetDocument(ctx context.Context, documentID string) (*dto.DocumentResponse, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DocumentResponse), args.Error(1)
}

func (m *MockSettlementService) Settle(ctx context.Context, documentID string, req dto.SettleDocumentRequest, userID string) (*domain.Settlement, error) {
	args := m.Called(ctx, documentID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

func (m *MockSettlementService) Confirm(ctx context.Context, documentID string, req dto.ConfirmDocumentRequest, userID string) (*domain.PostingResult, error) {
	args := m.Called(ctx, documentID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingResult), args.Error(1)
}

var _ portssvc.SettlementSvcFacade = (*MockSettlementService)(nil)

// --- Mock PayrollService ---
type MockPayrollService struct {
	mock.Mock
}

func (m *MockPayrollService) payment(args mock.Arguments) (*domain.SalaryPayment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalaryPayment), args.Error(1)
}

func (m *MockPayrollService) paymentResponse(args mock.Arguments) (*dto.SalaryPaymentResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SalaryPaymentResponse), args.Error(1)
}

func (m *MockPayrollService) Generate(ctx context.Context, req dto.GenerateSalaryRequest, userID string) (*dto.GenerateSalaryResponse, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GenerateSalaryResponse), args.Error(1)
}

func (m *MockPayrollService) GetSalaryPayment(ctx context.Context, paymentID string) (*dto.SalaryPaymentResponse, error) {
	return m.paymentResponse(m.Called(ctx, paymentID))
}

func (m *MockPayrollService) ListSalaryPayments(ctx context.Context, year int, month int) ([]domain.SalaryPayment, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SalaryPayment), args.Error(1)
}

func (m *MockPayrollService) EmployeeConfirm(ctx context.Context, paymentID string, req dto.TransitionRequest, userID string) (*domain.SalaryPayment, error) {
	return m.payment(m.Called(ctx, paymentID, req, userID))
}

func (m *MockPayrollService) RequestAllocation(ctx context.Context, paymentID string, req dto.RequestAllocationRequest, userID string) (*dto.SalaryPaymentResponse, error) {
	return m.paymentResponse(m.Called(ctx, paymentID, req, userID))
}

func (m *MockPayrollService) ApproveAllocation(ctx context.Context, paymentID string, req dto.ReviewAllocationRequest, userID string) (*dto.SalaryPaymentResponse, error) {
	return m.paymentResponse(m.Called(ctx, paymentID, req, userID))
}

func (m *MockPayrollService) RejectAllocation(ctx context.Context, paymentID string, req dto.ReviewAllocationRequest, userID string) (*dto.SalaryPaymentResponse, error) {
	return m.paymentResponse(m.Called(ctx, paymentID, req, userID))
}

func (m *MockPayrollService) FinanceApprove(ctx context.Context, paymentID string, req dto.TransitionRequest, userID string) (*domain.SalaryPayment, error) {
	return m.payment(m.Called(ctx, paymentID, req, userID))
}

func (m *MockPayrollService) FinanceReturn(ctx context.Context, paymentID string, req dto.TransitionRequest, userID string) (*domain.SalaryPayment, error) {
	return m.payment(m.Called(ctx, paymentID, req, userID))
}

func (m *MockPayrollService) Pay(ctx context.Context, paymentID string, req dto.PayoutRequest, userID string) (*domain.SalaryPayment, error) {
	return m.payment(m.Called(ctx, paymentID, req, userID))
}

func (m *MockPayrollService) ConfirmPayment(ctx context.Context, paymentID string, req dto.TransitionRequest, userID string) (*domain.SalaryPayment, error) {
	return m.payment(m.Called(ctx, paymentID, req, userID))
}

func (m *MockPayrollService) Delete(ctx context.Context, paymentID string, req dto.TransitionRequest, userID string) (*domain.SalaryPayment, error) {
	return m.payment(m.Called(ctx, paymentID, req, userID))
}

var _ portssvc.PayrollSvcFacade = (*MockPayrollService)(nil)

// --- Mock LeaveService ---
type MockLeaveService struct {
	mock.Mock
}

func (m *MockLeaveService) leave(args mock.Arguments) (*domain.Leave, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Leave), args.Error(1)
}

func (m *MockLeaveService) RequestLeave(ctx context.Context, req dto.CreateLeaveRequest, userID string) (*domain.Leave, error) {
	return m.leave(m.Called(ctx, req, userID))
}

func (m *MockLeaveService) GetLeave(ctx context.Context, leaveID string) (*domain.Leave, error) {
	return m.leave(m.Called(ctx, leaveID))
}

func (m *MockLeaveService) ApproveLeave(ctx context.Context, leaveID string, req dto.TransitionRequest, userID string) (*domain.Leave, error) {
	return m.leave(m.Called(ctx, leaveID, req, userID))
}

func (m *MockLeaveService) RejectLeave(ctx context.Context, leaveID string, req dto.TransitionRequest, userID string) (*domain.Leave, error) {
	return m.leave(m.Called(ctx, leaveID, req, userID))
}

func (m *MockLeaveService) DeleteLeave(ctx context.Context, leaveID string, req dto.TransitionRequest, userID string) error {
	return m.Called(ctx, leaveID, req, userID).Error(0)
}

func (m *MockLeaveService) ListApprovedLeaves(ctx context.Context, params dto.ListLeavesParams) ([]domain.Leave, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Leave), args.Error(1)
}

var _ portssvc.LeaveSvcFacade = (*MockLeaveService)(nil)
