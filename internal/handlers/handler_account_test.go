package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/SscSPs/backoffice_ledger/internal/handlers"
	"github.com/SscSPs/backoffice_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
	mockLedgerService  *MockLedgerService
	userID             string
	token              string
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(middleware.AuthMiddleware(testJWTSecret, testIssuer))

	suite.mockAccountService = new(MockAccountService)
	suite.mockLedgerService = new(MockLedgerService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterAccountRoutes(v1, suite.mockAccountService, suite.mockLedgerService)
	handlers.RegisterLedgerRoutes(v1, suite.mockLedgerService)

	suite.userID = uuid.NewString()
	token, err := generateTestToken(suite.userID)
	suite.Require().NoError(err)
	suite.token = token
}

func TestAccountHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}

func (suite *AccountHandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		jsonBody, err := json.Marshal(body)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	reqDTO := dto.CreateAccountRequest{Name: "Petty Cash", CurrencyCode: "USD", OpeningBalance: 5000}
	expected := &domain.Account{
		AccountID:      uuid.NewString(),
		Name:           reqDTO.Name,
		CurrencyCode:   reqDTO.CurrencyCode,
		OpeningBalance: reqDTO.OpeningBalance,
		IsActive:       true,
		Version:        1,
	}
	suite.mockAccountService.On("CreateAccount", mock.Anything, reqDTO, suite.userID).Return(expected, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", reqDTO)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.AccountID, resp.AccountID)
	suite.Equal(int64(5000), resp.OpeningBalance)
	suite.Equal(int64(1), resp.Version)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_BindingError() {
	w := suite.do(http.MethodPost, "/api/v1/accounts", gin.H{"name": "No currency"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_UnknownCurrency() {
	reqDTO := dto.CreateAccountRequest{Name: "Odd", CurrencyCode: "XYZ"}
	suite.mockAccountService.On("CreateAccount", mock.Anything, reqDTO, suite.userID).
		Return(nil, fmt.Errorf("%w: currency XYZ does not exist", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", reqDTO)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "currency XYZ")
}

func (suite *AccountHandlerTestSuite) TestGetAccount_IncludesBalance() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("GetAccountByID", mock.Anything, accountID).
		Return(&domain.Account{AccountID: accountID, Name: "Bank", CurrencyCode: "EUR", Version: 4}, nil).Once()
	suite.mockLedgerService.On("GetAccountBalance", mock.Anything, accountID).
		Return(&dto.AccountBalanceResponse{AccountID: accountID, CurrencyCode: "EUR", Balance: 1250}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/"+accountID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.Balance)
	suite.Equal(int64(1250), *resp.Balance)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	suite.mockAccountService.On("GetAccountByID", mock.Anything, "missing").
		Return(nil, fmt.Errorf("account missing: %w", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "GetAccountBalance", mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestUpdateAccount_VersionConflict() {
	name := "Main Cash"
	reqDTO := dto.UpdateAccountRequest{Name: &name, Version: int64Ptr(2)}
	suite.mockAccountService.On("UpdateAccount", mock.Anything, "acc-1", reqDTO, suite.userID).
		Return(nil, &apperrors.ConcurrentModificationError{Current: 3, Expected: 2}).Once()

	w := suite.do(http.MethodPut, "/api/v1/accounts/acc-1", reqDTO)

	suite.Equal(http.StatusConflict, w.Code)
	var resp handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.CurrentVersion)
	suite.Require().NotNil(resp.ExpectedVersion)
	suite.Equal(int64(3), *resp.CurrentVersion)
	suite.Equal(int64(2), *resp.ExpectedVersion)
}

func (suite *AccountHandlerTestSuite) TestDeactivateAccount() {
	suite.mockAccountService.On("DeactivateAccount", mock.Anything, "acc-1", suite.userID).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/accounts/acc-1", nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestListAccounts_DefaultPaging() {
	suite.mockAccountService.On("ListAccounts", mock.Anything, 20, 0).
		Return([]domain.Account{{AccountID: "a"}, {AccountID: "b"}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp struct {
		Accounts []dto.AccountResponse `json:"accounts"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Accounts, 2)
}

func (suite *AccountHandlerTestSuite) TestListAccounts_InvalidLimit() {
	w := suite.do(http.MethodGet, "/api/v1/accounts?limit=1000", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestListAccountTransactions_PassesToken() {
	token := "next-page"
	params := dto.ListTransactionsParams{Limit: 10, NextToken: &token}
	suite.mockLedgerService.On("ListAccountTransactions", mock.Anything, "acc-1", params).
		Return(&dto.ListAccountTransactionsResponse{
			Transactions: []domain.AccountTransaction{{TransactionID: "t-1", BalanceBefore: 0, BalanceAfter: 100, Amount: 100}},
		}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-1/transactions?limit=10&nextToken=next-page", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListAccountTransactionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Transactions, 1)
	suite.Equal(int64(100), resp.Transactions[0].BalanceAfter)
	suite.Nil(resp.NextToken)
}

func (suite *AccountHandlerTestSuite) TestPostSingleEntry_InactiveAccount() {
	suite.mockLedgerService.On("PostSingleEntry", mock.Anything, mock.MatchedBy(func(req dto.PostSingleEntryRequest) bool {
		return req.AccountID == "acc-1" && req.Amount == -300 && req.Kind == domain.PostingExpense
	}), suite.userID).Return(nil, fmt.Errorf("%w: account acc-1 is inactive", apperrors.ErrBusinessRule)).Once()

	w := suite.do(http.MethodPost, "/api/v1/postings", gin.H{
		"accountID": "acc-1",
		"kind":      "expense",
		"amount":    -300,
		"bizDate":   "2024-03-01T00:00:00Z",
	})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestPostSingleEntry_ZeroAmountRejected() {
	w := suite.do(http.MethodPost, "/api/v1/postings", gin.H{
		"accountID": "acc-1",
		"kind":      "income",
		"amount":    0,
		"bizDate":   "2024-03-01T00:00:00Z",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AccountHandlerTestSuite) TestUnclassifiedErrorIsHidden() {
	suite.mockLedgerService.On("GetPosting", mock.Anything, "p-1").Return(nil, fmt.Errorf("connection reset by peer")).Once()

	w := suite.do(http.MethodGet, "/api/v1/postings/p-1", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "connection reset")
}

func (suite *AccountHandlerTestSuite) TestMissingToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything, mock.Anything)
}
