package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/appclub-tech/Billog-sub001/internal/apperrors"
	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	portssvc "github.com/appclub-tech/Billog-sub001/internal/core/ports/services"
	"github.com/appclub-tech/Billog-sub001/internal/handlers"
	"github.com/appclub-tech/Billog-sub001/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock service facades ---

type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) GetOrCreateAccount(ctx context.Context, userID, sourceID string, ledger int32, code domain.AccountCode, creatorID string) (*domain.Account, error) {
	args := m.Called(ctx, userID, sourceID, ledger, code, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetOrCreateUserAccounts(ctx context.Context, userID, sourceID string, ledger int32, creatorID string) (*domain.UserAccounts, error) {
	args := m.Called(ctx, userID, sourceID, ledger, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserAccounts), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

type MockTransferService struct {
	mock.Mock
}

var _ portssvc.TransferSvcFacade = (*MockTransferService)(nil)

func (m *MockTransferService) CreateTransfer(ctx context.Context, params portssvc.CreateTransferParams, creatorID string) (*domain.Transfer, error) {
	args := m.Called(ctx, params, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferService) CreateLinkedTransfers(ctx context.Context, params []portssvc.CreateTransferParams, creatorID string) ([]domain.Transfer, error) {
	args := m.Called(ctx, params, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transfer), args.Error(1)
}

func (m *MockTransferService) PostPendingTransfer(ctx context.Context, pendingTransferID, creatorID string) (*domain.Transfer, error) {
	args := m.Called(ctx, pendingTransferID, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferService) VoidPendingTransfer(ctx context.Context, pendingTransferID, creatorID string) (*domain.Transfer, error) {
	args := m.Called(ctx, pendingTransferID, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferService) GetTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error) {
	args := m.Called(ctx, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferService) ListTransfersBySource(ctx context.Context, sourceID string, ledger int32, limit int, nextToken *string) ([]domain.Transfer, *string, error) {
	args := m.Called(ctx, sourceID, ledger, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transfer), returnedNextToken, args.Error(2)
}

type MockBalanceService struct {
	mock.Mock
}

var _ portssvc.BalanceSvcFacade = (*MockBalanceService)(nil)

func (m *MockBalanceService) GetUserBalance(ctx context.Context, userID, sourceID string, ledger int32) (*domain.UserBalance, error) {
	args := m.Called(ctx, userID, sourceID, ledger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserBalance), args.Error(1)
}

func (m *MockBalanceService) GetGroupBalances(ctx context.Context, sourceID string, ledger int32) ([]domain.MemberBalance, error) {
	args := m.Called(ctx, sourceID, ledger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MemberBalance), args.Error(1)
}

func (m *MockBalanceService) GetDebts(ctx context.Context, sourceID string, ledger int32) ([]domain.Debt, error) {
	args := m.Called(ctx, sourceID, ledger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}

func (m *MockBalanceService) IsExpenseSettled(ctx context.Context, expenseID string) (bool, decimal.Decimal, error) {
	args := m.Called(ctx, expenseID)
	return args.Bool(0), args.Get(1).(decimal.Decimal), args.Error(2)
}

type MockExpenseService struct {
	mock.Mock
}

var _ portssvc.ExpenseSvcFacade = (*MockExpenseService)(nil)

func (m *MockExpenseService) CreateExpense(ctx context.Context, params portssvc.CreateExpenseParams, creatorID string) (*domain.Expense, []domain.Transfer, error) {
	args := m.Called(ctx, params, creatorID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Expense), args.Get(1).([]domain.Transfer), args.Error(2)
}

func (m *MockExpenseService) GetExpense(ctx context.Context, expenseID string) (*domain.Expense, []domain.Transfer, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Expense), args.Get(1).([]domain.Transfer), args.Error(2)
}

func (m *MockExpenseService) CreateSettlement(ctx context.Context, params portssvc.CreateSettlementParams, creatorID string) (*domain.Transfer, error) {
	args := m.Called(ctx, params, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

type MockReconciliationService struct {
	mock.Mock
}

var _ portssvc.ReconciliationSvcFacade = (*MockReconciliationService)(nil)

func (m *MockReconciliationService) ReconcileExpense(ctx context.Context, expenseID string, adjustments []domain.Adjustment, creatorID string) (*domain.Expense, []domain.Transfer, error) {
	args := m.Called(ctx, expenseID, adjustments, creatorID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Expense), args.Get(1).([]domain.Transfer), args.Error(2)
}

// --- Test suite ---

type ExpenseHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockExpenseSvc  *MockExpenseService
	mockBalanceSvc  *MockBalanceService
	mockTransferSvc *MockTransferService
	callerID        string
}

func (suite *ExpenseHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockExpenseSvc = new(MockExpenseService)
	suite.mockBalanceSvc = new(MockBalanceService)
	suite.mockTransferSvc = new(MockTransferService)
	suite.callerID = uuid.NewString()

	container := &portssvc.ServiceContainer{
		Account:        new(MockAccountService),
		Transfer:       suite.mockTransferSvc,
		Balance:        suite.mockBalanceSvc,
		Expense:        suite.mockExpenseSvc,
		Reconciliation: new(MockReconciliationService),
	}
	cfg := &config.Config{RateLimit: "1000-M", IsProduction: true}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, container)
}

func (suite *ExpenseHandlerTestSuite) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Caller-ID", suite.callerID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ExpenseHandlerTestSuite) TestCreateExpense_Success() {
	expenseID := uuid.NewString()
	expense := &domain.Expense{
		ExpenseID:    expenseID,
		SourceID:     "grp-1",
		PayerID:      "alice",
		Total:        decimal.NewFromInt(300),
		CurrencyCode: "THB",
		Ledger:       764,
		SplitPolicy:  domain.SplitEqual,
	}
	transfers := []domain.Transfer{{TransferID: uuid.NewString(), Amount: decimal.NewFromInt(100), Code: domain.TransferCodeExpenseSplit}}

	suite.mockExpenseSvc.On("CreateExpense", mock.Anything, mock.MatchedBy(func(p portssvc.CreateExpenseParams) bool {
		return p.SourceID == "grp-1" && p.PayerID == "alice" && p.SplitPolicy == domain.SplitEqual
	}), suite.callerID).Return(expense, transfers, nil).Once()

	body := `{"payerID":"alice","total":"300","currencyCode":"THB","splitPolicy":"EQUAL","participantIDs":["alice","bob","carol"]}`
	w := suite.request(http.MethodPost, "/api/v1/sources/grp-1/expenses", body)

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expenseID, resp["expenseID"])
	suite.Equal("EQUAL", resp["splitPolicy"])
	suite.mockExpenseSvc.AssertExpectations(suite.T())
}

func (suite *ExpenseHandlerTestSuite) TestCreateExpense_MissingCallerID() {
	body := `{"payerID":"alice","total":"300","currencyCode":"THB","splitPolicy":"EQUAL"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sources/grp-1/expenses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockExpenseSvc.AssertNotCalled(suite.T(), "CreateExpense", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseHandlerTestSuite) TestCreateExpense_InvalidSplitPolicy() {
	body := `{"payerID":"alice","total":"300","currencyCode":"THB","splitPolicy":"HALVSIES"}`
	w := suite.request(http.MethodPost, "/api/v1/sources/grp-1/expenses", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockExpenseSvc.AssertNotCalled(suite.T(), "CreateExpense", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseHandlerTestSuite) TestCreateExpense_ValidationErrorFromService() {
	suite.mockExpenseSvc.On("CreateExpense", mock.Anything, mock.Anything, suite.callerID).
		Return(nil, nil, apperrors.NewAppError(400, "exact split amounts exceed the total", apperrors.ErrValidation)).Once()

	body := `{"payerID":"alice","total":"100","currencyCode":"THB","splitPolicy":"EXACT","targets":[{"userID":"bob","amount":"140"}]}`
	w := suite.request(http.MethodPost, "/api/v1/sources/grp-1/expenses", body)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ExpenseHandlerTestSuite) TestGetExpense_NotFound() {
	expenseID := uuid.NewString()
	suite.mockExpenseSvc.On("GetExpense", mock.Anything, expenseID).
		Return(nil, nil, apperrors.NewNotFoundError("expense not found")).Once()

	w := suite.request(http.MethodGet, "/api/v1/expenses/"+expenseID, "")

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ExpenseHandlerTestSuite) TestGetExpenseSettled() {
	expenseID := uuid.NewString()
	suite.mockBalanceSvc.On("IsExpenseSettled", mock.Anything, expenseID).
		Return(true, decimal.Zero, nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/expenses/"+expenseID+"/settled", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(true, resp["settled"])
}

func (suite *ExpenseHandlerTestSuite) TestGetTransfer() {
	transferID := uuid.NewString()
	transfer := &domain.Transfer{
		TransferID:      transferID,
		DebitAccountID:  uuid.NewString(),
		CreditAccountID: uuid.NewString(),
		Amount:          decimal.NewFromInt(50),
		Ledger:          764,
		Code:            domain.TransferCodeSettlement,
	}
	suite.mockTransferSvc.On("GetTransferByID", mock.Anything, transferID).
		Return(transfer, nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/transfers/"+transferID, "")

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(transferID, resp["transferID"])
	suite.Equal("SETTLEMENT", resp["code"])
	suite.mockTransferSvc.AssertExpectations(suite.T())
}

func (suite *ExpenseHandlerTestSuite) TestGetTransfer_NotFound() {
	transferID := uuid.NewString()
	suite.mockTransferSvc.On("GetTransferByID", mock.Anything, transferID).
		Return(nil, apperrors.NewNotFoundError("transfer not found")).Once()

	w := suite.request(http.MethodGet, "/api/v1/transfers/"+transferID, "")

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ExpenseHandlerTestSuite) TestResolvePending_Conflict() {
	transferID := uuid.NewString()
	suite.mockTransferSvc.On("PostPendingTransfer", mock.Anything, transferID, suite.callerID).
		Return(nil, apperrors.NewAppError(409, "pending transfer already resolved", apperrors.ErrConflict)).Once()

	w := suite.request(http.MethodPost, "/api/v1/settlements/"+transferID+"/resolve", `{"action":"post"}`)

	suite.Equal(http.StatusConflict, w.Code)
}

func TestExpenseHandler(t *testing.T) {
	suite.Run(t, new(ExpenseHandlerTestSuite))
}
