package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/core/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account, expectedVersion int64) error {
	args := m.Called(ctx, account, expectedVersion)
	return args.Error(0)
}

func (m *MockAccountRepository) IncrementAccountVersion(ctx context.Context, accountID string, userID string, now time.Time) (int64, error) {
	args := m.Called(ctx, accountID, userID, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockCurrencyRepository is a mock type for the CurrencyRepositoryFacade interface
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockAccountRepository
	mockCurrency *MockCurrencyRepository
	service      portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.mockCurrency = new(MockCurrencyRepository)
	suite.service = services.NewAccountService(suite.mockRepo, suite.mockCurrency, services.WithAuditSink(&recordingSink{}))
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Name:           "Petty Cash",
		CurrencyCode:   "USD",
		OpeningBalance: 5000,
	}

	suite.mockCurrency.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	createdAccount, err := suite.service.CreateAccount(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(createdAccount)
	suite.NotEmpty(createdAccount.AccountID)
	suite.Equal(req.Name, createdAccount.Name)
	suite.Equal(int64(5000), createdAccount.OpeningBalance)
	suite.Equal(int64(1), createdAccount.Version)
	suite.True(createdAccount.IsActive)
	suite.Equal(creatorUserID, createdAccount.CreatedBy)
	suite.WithinDuration(time.Now(), createdAccount.CreatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCurrency.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownCurrency() {
	ctx := context.Background()
	suite.mockCurrency.On("FindCurrencyByCode", ctx, "XYZ").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Name: "Odd", CurrencyCode: "XYZ"}, "user")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	ctx := context.Background()
	dbErr := fmt.Errorf("connection reset")
	suite.mockCurrency.On("FindCurrencyByCode", ctx, "EUR").Return(&domain.Currency{CurrencyCode: "EUR"}, nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(dbErr).Once()

	createdAccount, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Name: "Broken", CurrencyCode: "EUR"}, "user")

	suite.ErrorIs(err, dbErr)
	suite.Nil(createdAccount)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RequiresActor() {
	_, err := suite.service.CreateAccount(context.Background(), dto.CreateAccountRequest{Name: "Cash", CurrencyCode: "USD"}, "")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_StaleVersion() {
	ctx := context.Background()
	stored := &domain.Account{AccountID: "acc-1", Name: "Cash", IsActive: true, Version: 3}
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(stored, nil).Once()

	name := "Main Cash"
	stale := int64(2)
	_, err := suite.service.UpdateAccount(ctx, "acc-1", dto.UpdateAccountRequest{Name: &name, Version: &stale}, "user")

	var cmErr *apperrors.ConcurrentModificationError
	suite.Require().ErrorAs(err, &cmErr)
	suite.Equal(int64(3), cmErr.Current)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_BumpsVersion() {
	ctx := context.Background()
	stored := &domain.Account{AccountID: "acc-1", Name: "Cash", IsActive: true, Version: 3}
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(stored, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Main Cash" && a.Version == 4
	}), int64(3)).Return(nil).Once()

	name := "Main Cash"
	updated, err := suite.service.UpdateAccount(ctx, "acc-1", dto.UpdateAccountRequest{Name: &name, Version: version(3)}, "user")

	suite.Require().NoError(err)
	suite.Equal(int64(4), updated.Version)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_AlreadyInactive() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(&domain.Account{AccountID: "acc-1", Version: 2}, nil).Once()

	err := suite.service.DeactivateAccount(ctx, "acc-1", "user")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	acc, err := suite.service.GetAccountByID(ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(acc)
}

func (suite *AccountServiceTestSuite) TestListAccounts_EmptyIsNotNil() {
	ctx := context.Background()
	suite.mockRepo.On("ListAccounts", ctx, 20, 0).Return(nil, nil).Once()

	accounts, err := suite.service.ListAccounts(ctx, 20, 0)
	suite.Require().NoError(err)
	suite.NotNil(accounts)
	suite.Empty(accounts)
}
