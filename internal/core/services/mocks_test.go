package services_test

import (
	"context"
	"time"

	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	portsrepo "github.com/appclub-tech/Billog-sub001/internal/core/ports/repositories"
	portssvc "github.com/appclub-tech/Billog-sub001/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccount(ctx context.Context, userID, sourceID string, ledger int32, code domain.AccountCode) (*domain.Account, error) {
	args := m.Called(ctx, userID, sourceID, ledger, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsBySource(ctx context.Context, sourceID string, ledger int32) ([]domain.Account, error) {
	args := m.Called(ctx, sourceID, ledger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByUser(ctx context.Context, userID, sourceID string, ledger int32) ([]domain.Account, error) {
	args := m.Called(ctx, userID, sourceID, ledger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplyCounterChangesInTx(ctx context.Context, tx pgx.Tx, changes map[string]domain.CounterChange, userID string, now time.Time) error {
	args := m.Called(ctx, tx, changes, userID, now)
	return args.Error(0)
}

// --- Mock TransferRepository ---

type MockTransferRepository struct {
	mock.Mock
}

var _ portsrepo.TransferRepositoryWithTx = (*MockTransferRepository)(nil)

func (m *MockTransferRepository) FindTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error) {
	args := m.Called(ctx, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) FindTransfersByExpenseID(ctx context.Context, expenseID string) ([]domain.Transfer, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) ListTransfersBySource(ctx context.Context, sourceID string, ledger int32, limit int, nextToken *string) ([]domain.Transfer, *string, error) {
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

func (m *MockTransferRepository) SaveTransfers(ctx context.Context, transfers []domain.Transfer) error {
	args := m.Called(ctx, transfers)
	return args.Error(0)
}

func (m *MockTransferRepository) SaveTransfersInTx(ctx context.Context, tx pgx.Tx, transfers []domain.Transfer) error {
	args := m.Called(ctx, tx, transfers)
	return args.Error(0)
}

func (m *MockTransferRepository) FindTransferByIDForUpdate(ctx context.Context, tx pgx.Tx, transferID string) (*domain.Transfer, error) {
	args := m.Called(ctx, tx, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) FindTransfersByPendingID(ctx context.Context, tx pgx.Tx, pendingID string) ([]domain.Transfer, error) {
	args := m.Called(ctx, tx, pendingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTransferRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransferRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock ExpenseRepository ---

type MockExpenseRepository struct {
	mock.Mock
}

var _ portsrepo.ExpenseRepositoryWithTx = (*MockExpenseRepository)(nil)

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) SaveExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense, items []domain.Item) error {
	args := m.Called(ctx, tx, expense, items)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindExpenseByIDForUpdate(ctx context.Context, tx pgx.Tx, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, tx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ReplaceItemsInTx(ctx context.Context, tx pgx.Tx, expenseID string, items []domain.Item) error {
	args := m.Called(ctx, tx, expenseID, items)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error {
	args := m.Called(ctx, tx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockExpenseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockExpenseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock AccountSvc ---

type MockAccountSvc struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountSvc)(nil)

func (m *MockAccountSvc) GetOrCreateAccount(ctx context.Context, userID, sourceID string, ledger int32, code domain.AccountCode, creatorID string) (*domain.Account, error) {
	args := m.Called(ctx, userID, sourceID, ledger, code, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) GetOrCreateUserAccounts(ctx context.Context, userID, sourceID string, ledger int32, creatorID string) (*domain.UserAccounts, error) {
	args := m.Called(ctx, userID, sourceID, ledger, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserAccounts), args.Error(1)
}

func (m *MockAccountSvc) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Mock TransferSvc ---

type MockTransferSvc struct {
	mock.Mock
}

var _ portssvc.TransferSvcFacade = (*MockTransferSvc)(nil)

func (m *MockTransferSvc) CreateTransfer(ctx context.Context, params portssvc.CreateTransferParams, creatorID string) (*domain.Transfer, error) {
	args := m.Called(ctx, params, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferSvc) CreateLinkedTransfers(ctx context.Context, params []portssvc.CreateTransferParams, creatorID string) ([]domain.Transfer, error) {
	args := m.Called(ctx, params, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transfer), args.Error(1)
}

func (m *MockTransferSvc) PostPendingTransfer(ctx context.Context, pendingTransferID, creatorID string) (*domain.Transfer, error) {
	args := m.Called(ctx, pendingTransferID, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferSvc) VoidPendingTransfer(ctx context.Context, pendingTransferID, creatorID string) (*domain.Transfer, error) {
	args := m.Called(ctx, pendingTransferID, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferSvc) GetTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error) {
	args := m.Called(ctx, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferSvc) ListTransfersBySource(ctx context.Context, sourceID string, ledger int32, limit int, nextToken *string) ([]domain.Transfer, *string, error) {
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
