package services_test

import (
	"context"
	"testing"

	"github.com/appclub-tech/Billog-sub001/internal/apperrors"
	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/appclub-tech/Billog-sub001/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockAccountSvc   *MockAccountSvc
	mockAccountRepo  *MockAccountRepository
	mockTransferRepo *MockTransferRepository
	mockExpenseRepo  *MockExpenseRepository
	service          *services.ReconciliationService
	sourceID         string
	callerID         string
	aliceAccounts    *domain.UserAccounts
	bobAccounts      *domain.UserAccounts
	carolAccounts    *domain.UserAccounts
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockAccountSvc = new(MockAccountSvc)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTransferRepo = new(MockTransferRepository)
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.service = services.NewReconciliationService(suite.mockAccountSvc, suite.mockAccountRepo, suite.mockTransferRepo, suite.mockExpenseRepo)
	suite.sourceID = uuid.NewString()
	suite.callerID = uuid.NewString()
	suite.aliceAccounts = userAccounts("alice", suite.sourceID)
	suite.bobAccounts = userAccounts("bob", suite.sourceID)
	suite.carolAccounts = userAccounts("carol", suite.sourceID)
}

// accountsByID maps the given pairs the way the repository would return them.
func accountsByID(pairs ...*domain.UserAccounts) map[string]domain.Account {
	m := make(map[string]domain.Account)
	for _, p := range pairs {
		m[p.Asset.AccountID] = p.Asset
		m[p.Liability.AccountID] = p.Liability
	}
	return m
}

func (suite *ReconciliationServiceTestSuite) itemExpense(expenseID string, assignees []string) *domain.Expense {
	return &domain.Expense{
		ExpenseID:      expenseID,
		SourceID:       suite.sourceID,
		PayerID:        "alice",
		Total:          decimal.NewFromInt(50),
		CurrencyCode:   "THB",
		Ledger:         764,
		SplitPolicy:    domain.SplitItem,
		ParticipantIDs: []string{"alice", "bob"},
		Items: []domain.Item{
			{
				ItemID:      "item-1",
				ExpenseID:   expenseID,
				Name:        "noodles",
				Quantity:    decimal.NewFromInt(1),
				Price:       decimal.NewFromInt(50),
				Total:       decimal.NewFromInt(50),
				AssigneeIDs: assignees,
			},
		},
	}
}

func (suite *ReconciliationServiceTestSuite) splitTransfer(expenseID string, debit, credit string, amount int64) domain.Transfer {
	return domain.Transfer{
		TransferID:      uuid.NewString(),
		DebitAccountID:  debit,
		CreditAccountID: credit,
		Amount:          decimal.NewFromInt(amount),
		Ledger:          764,
		Code:            domain.TransferCodeExpenseSplit,
		ExpenseID:       &expenseID,
	}
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_ReassignItem() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	expense := suite.itemExpense(expenseID, []string{"bob"})
	split := suite.splitTransfer(expenseID, suite.bobAccounts.Liability.AccountID, suite.aliceAccounts.Asset.AccountID, 50)

	suite.mockExpenseRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByIDForUpdate", ctx, nil, expenseID).Return(expense, nil).Once()
	suite.mockTransferRepo.On("FindTransfersByExpenseID", ctx, expenseID).Return([]domain.Transfer{split}, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accountsByID(suite.aliceAccounts, suite.bobAccounts), nil).Once()
	suite.mockAccountSvc.On("GetOrCreateUserAccounts", ctx, "alice", suite.sourceID, int32(764), suite.callerID).Return(suite.aliceAccounts, nil).Once()
	suite.mockAccountSvc.On("GetOrCreateUserAccounts", ctx, "bob", suite.sourceID, int32(764), suite.callerID).Return(suite.bobAccounts, nil).Once()
	suite.mockAccountSvc.On("GetOrCreateUserAccounts", ctx, "carol", suite.sourceID, int32(764), suite.callerID).Return(suite.carolAccounts, nil).Once()
	suite.mockTransferRepo.On("SaveTransfersInTx", ctx, nil, mock.AnythingOfType("[]domain.Transfer")).Return(nil).Once()
	suite.mockExpenseRepo.On("ReplaceItemsInTx", ctx, nil, expenseID, mock.AnythingOfType("[]domain.Item")).Return(nil).Once()
	suite.mockExpenseRepo.On("UpdateExpenseInTx", ctx, nil, mock.AnythingOfType("domain.Expense")).Return(nil).Once()
	suite.mockExpenseRepo.On("Commit", ctx, nil).Return(nil).Once()
	suite.mockExpenseRepo.On("Rollback", ctx, nil).Return(nil).Once()

	updated, transfers, err := suite.service.ReconcileExpense(ctx, expenseID, []domain.Adjustment{
		{Op: domain.OpReassignItem, ItemID: "item-1", AssigneeIDs: []string{"carol"}},
	}, suite.callerID)

	suite.Require().NoError(err)
	suite.Contains(updated.ParticipantIDs, "carol")
	suite.Equal([]string{"carol"}, updated.Items[0].AssigneeIDs)

	// Two compensating transfers: bob's 50 is released, carol's 50 is raised.
	suite.Require().Len(transfers, 2)
	byDebit := map[string]domain.Transfer{}
	for _, tr := range transfers {
		suite.Equal(domain.TransferCodeAdjustment, tr.Code)
		suite.True(decimal.NewFromInt(50).Equal(tr.Amount))
		byDebit[tr.DebitAccountID] = tr
	}
	release, ok := byDebit[suite.aliceAccounts.Asset.AccountID]
	suite.Require().True(ok, "expected a transfer releasing bob's share")
	suite.Equal(suite.bobAccounts.Liability.AccountID, release.CreditAccountID)

	raise, ok := byDebit[suite.carolAccounts.Liability.AccountID]
	suite.Require().True(ok, "expected a transfer raising carol's share")
	suite.Equal(suite.aliceAccounts.Asset.AccountID, raise.CreditAccountID)

	suite.mockExpenseRepo.AssertExpectations(suite.T())
	suite.mockTransferRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_RepeatIsIdempotent() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	// The item already points at carol and the prior adjustment pair is in
	// the history, so reconciling the same correction again changes nothing.
	expense := suite.itemExpense(expenseID, []string{"carol"})
	expense.ParticipantIDs = []string{"alice", "bob", "carol"}

	split := suite.splitTransfer(expenseID, suite.bobAccounts.Liability.AccountID, suite.aliceAccounts.Asset.AccountID, 50)
	release := domain.Transfer{
		TransferID:      uuid.NewString(),
		DebitAccountID:  suite.aliceAccounts.Asset.AccountID,
		CreditAccountID: suite.bobAccounts.Liability.AccountID,
		Amount:          decimal.NewFromInt(50),
		Ledger:          764,
		Code:            domain.TransferCodeAdjustment,
		ExpenseID:       &expenseID,
	}
	raise := domain.Transfer{
		TransferID:      uuid.NewString(),
		DebitAccountID:  suite.carolAccounts.Liability.AccountID,
		CreditAccountID: suite.aliceAccounts.Asset.AccountID,
		Amount:          decimal.NewFromInt(50),
		Ledger:          764,
		Code:            domain.TransferCodeAdjustment,
		ExpenseID:       &expenseID,
	}

	suite.mockExpenseRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByIDForUpdate", ctx, nil, expenseID).Return(expense, nil).Once()
	suite.mockTransferRepo.On("FindTransfersByExpenseID", ctx, expenseID).Return([]domain.Transfer{split, release, raise}, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accountsByID(suite.aliceAccounts, suite.bobAccounts, suite.carolAccounts), nil).Once()
	suite.mockExpenseRepo.On("ReplaceItemsInTx", ctx, nil, expenseID, mock.AnythingOfType("[]domain.Item")).Return(nil).Once()
	suite.mockExpenseRepo.On("UpdateExpenseInTx", ctx, nil, mock.AnythingOfType("domain.Expense")).Return(nil).Once()
	suite.mockExpenseRepo.On("Commit", ctx, nil).Return(nil).Once()
	suite.mockExpenseRepo.On("Rollback", ctx, nil).Return(nil).Once()

	_, transfers, err := suite.service.ReconcileExpense(ctx, expenseID, []domain.Adjustment{
		{Op: domain.OpReassignItem, ItemID: "item-1", AssigneeIDs: []string{"carol"}},
	}, suite.callerID)

	suite.Require().NoError(err)
	suite.Empty(transfers, "a repeated reconciliation must not post new transfers")
	suite.mockTransferRepo.AssertNotCalled(suite.T(), "SaveTransfersInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_MetadataOnlyPostsNothing() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	expense := &domain.Expense{
		ExpenseID:      expenseID,
		SourceID:       suite.sourceID,
		PayerID:        "alice",
		Total:          decimal.NewFromInt(100),
		CurrencyCode:   "THB",
		Ledger:         764,
		SplitPolicy:    domain.SplitExact,
		ParticipantIDs: []string{"alice", "bob"},
	}
	split := suite.splitTransfer(expenseID, suite.bobAccounts.Liability.AccountID, suite.aliceAccounts.Asset.AccountID, 40)

	suite.mockExpenseRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByIDForUpdate", ctx, nil, expenseID).Return(expense, nil).Once()
	suite.mockTransferRepo.On("FindTransfersByExpenseID", ctx, expenseID).Return([]domain.Transfer{split}, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accountsByID(suite.aliceAccounts, suite.bobAccounts), nil).Once()
	suite.mockExpenseRepo.On("ReplaceItemsInTx", ctx, nil, expenseID, mock.AnythingOfType("[]domain.Item")).Return(nil).Once()
	suite.mockExpenseRepo.On("UpdateExpenseInTx", ctx, nil, mock.AnythingOfType("domain.Expense")).Return(nil).Once()
	suite.mockExpenseRepo.On("Commit", ctx, nil).Return(nil).Once()
	suite.mockExpenseRepo.On("Rollback", ctx, nil).Return(nil).Once()

	updated, transfers, err := suite.service.ReconcileExpense(ctx, expenseID, []domain.Adjustment{
		{Op: domain.OpUpdateCategory, Category: "groceries"},
	}, suite.callerID)

	suite.Require().NoError(err)
	suite.Equal("groceries", updated.Category)
	suite.Empty(transfers)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_MetadataOnlyOnTargetedEqual() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	// An EQUAL expense created with explicit targets stores the dividing pool
	// (targets plus payer) as its participants. A metadata correction must
	// recompute the same 30/30 shares and post nothing, even though the group
	// has more members than the pool.
	expense := &domain.Expense{
		ExpenseID:      expenseID,
		SourceID:       suite.sourceID,
		PayerID:        "alice",
		Total:          decimal.NewFromInt(90),
		CurrencyCode:   "THB",
		Ledger:         764,
		SplitPolicy:    domain.SplitEqual,
		ParticipantIDs: []string{"bob", "carol", "alice"},
	}
	splits := []domain.Transfer{
		suite.splitTransfer(expenseID, suite.bobAccounts.Liability.AccountID, suite.aliceAccounts.Asset.AccountID, 30),
		suite.splitTransfer(expenseID, suite.carolAccounts.Liability.AccountID, suite.aliceAccounts.Asset.AccountID, 30),
	}

	suite.mockExpenseRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByIDForUpdate", ctx, nil, expenseID).Return(expense, nil).Once()
	suite.mockTransferRepo.On("FindTransfersByExpenseID", ctx, expenseID).Return(splits, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accountsByID(suite.aliceAccounts, suite.bobAccounts, suite.carolAccounts), nil).Once()
	suite.mockExpenseRepo.On("ReplaceItemsInTx", ctx, nil, expenseID, mock.AnythingOfType("[]domain.Item")).Return(nil).Once()
	suite.mockExpenseRepo.On("UpdateExpenseInTx", ctx, nil, mock.AnythingOfType("domain.Expense")).Return(nil).Once()
	suite.mockExpenseRepo.On("Commit", ctx, nil).Return(nil).Once()
	suite.mockExpenseRepo.On("Rollback", ctx, nil).Return(nil).Once()

	updated, transfers, err := suite.service.ReconcileExpense(ctx, expenseID, []domain.Adjustment{
		{Op: domain.OpUpdateCategory, Category: "travel"},
	}, suite.callerID)

	suite.Require().NoError(err)
	suite.Equal("travel", updated.Category)
	suite.Empty(transfers, "a metadata correction must not redistribute shares")
	suite.mockTransferRepo.AssertNotCalled(suite.T(), "SaveTransfersInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_RemoveFromSplitDropsDuplicatedAssignee() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	// Bob appears twice on the item's assignee list; removing him from the
	// split has to drop every occurrence or he keeps accruing shares.
	expense := suite.itemExpense(expenseID, []string{"bob", "bob", "carol"})
	splits := []domain.Transfer{
		suite.splitTransfer(expenseID, suite.bobAccounts.Liability.AccountID, suite.aliceAccounts.Asset.AccountID, 25),
		suite.splitTransfer(expenseID, suite.carolAccounts.Liability.AccountID, suite.aliceAccounts.Asset.AccountID, 25),
	}

	suite.mockExpenseRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByIDForUpdate", ctx, nil, expenseID).Return(expense, nil).Once()
	suite.mockTransferRepo.On("FindTransfersByExpenseID", ctx, expenseID).Return(splits, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accountsByID(suite.aliceAccounts, suite.bobAccounts, suite.carolAccounts), nil).Once()
	suite.mockAccountSvc.On("GetOrCreateUserAccounts", ctx, "alice", suite.sourceID, int32(764), suite.callerID).Return(suite.aliceAccounts, nil).Once()
	suite.mockAccountSvc.On("GetOrCreateUserAccounts", ctx, "bob", suite.sourceID, int32(764), suite.callerID).Return(suite.bobAccounts, nil).Once()
	suite.mockAccountSvc.On("GetOrCreateUserAccounts", ctx, "carol", suite.sourceID, int32(764), suite.callerID).Return(suite.carolAccounts, nil).Once()
	suite.mockTransferRepo.On("SaveTransfersInTx", ctx, nil, mock.AnythingOfType("[]domain.Transfer")).Return(nil).Once()
	suite.mockExpenseRepo.On("ReplaceItemsInTx", ctx, nil, expenseID, mock.AnythingOfType("[]domain.Item")).Return(nil).Once()
	suite.mockExpenseRepo.On("UpdateExpenseInTx", ctx, nil, mock.AnythingOfType("domain.Expense")).Return(nil).Once()
	suite.mockExpenseRepo.On("Commit", ctx, nil).Return(nil).Once()
	suite.mockExpenseRepo.On("Rollback", ctx, nil).Return(nil).Once()

	updated, transfers, err := suite.service.ReconcileExpense(ctx, expenseID, []domain.Adjustment{
		{Op: domain.OpRemoveFromSplit, UserID: "bob"},
	}, suite.callerID)

	suite.Require().NoError(err)
	suite.Equal([]string{"carol"}, updated.Items[0].AssigneeIDs)
	suite.NotContains(updated.ParticipantIDs, "bob")

	// Carol takes over the whole item: bob's 25 is released, hers rises by 25.
	suite.Require().Len(transfers, 2)
	byDebit := map[string]domain.Transfer{}
	for _, tr := range transfers {
		suite.True(decimal.NewFromInt(25).Equal(tr.Amount))
		byDebit[tr.DebitAccountID] = tr
	}
	release, ok := byDebit[suite.aliceAccounts.Asset.AccountID]
	suite.Require().True(ok, "expected a transfer releasing bob's share")
	suite.Equal(suite.bobAccounts.Liability.AccountID, release.CreditAccountID)

	raise, ok := byDebit[suite.carolAccounts.Liability.AccountID]
	suite.Require().True(ok, "expected a transfer raising carol's share")
	suite.Equal(suite.aliceAccounts.Asset.AccountID, raise.CreditAccountID)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_ShareOpRejectedForExactSplit() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	expense := &domain.Expense{
		ExpenseID:      expenseID,
		SourceID:       suite.sourceID,
		PayerID:        "alice",
		Total:          decimal.NewFromInt(100),
		CurrencyCode:   "THB",
		Ledger:         764,
		SplitPolicy:    domain.SplitExact,
		ParticipantIDs: []string{"alice", "bob"},
	}

	suite.mockExpenseRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByIDForUpdate", ctx, nil, expenseID).Return(expense, nil).Once()
	suite.mockTransferRepo.On("FindTransfersByExpenseID", ctx, expenseID).Return([]domain.Transfer{}, nil).Once()
	suite.mockExpenseRepo.On("Rollback", ctx, nil).Return(nil).Once()

	_, _, err := suite.service.ReconcileExpense(ctx, expenseID, []domain.Adjustment{
		{Op: domain.OpAddToSplit, UserID: "carol"},
	}, suite.callerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_UnknownOp() {
	_, _, err := suite.service.ReconcileExpense(context.Background(), uuid.NewString(), []domain.Adjustment{
		{Op: domain.AdjustmentOp("rename_payer")},
	}, suite.callerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_EmptyAdjustments() {
	_, _, err := suite.service.ReconcileExpense(context.Background(), uuid.NewString(), nil, suite.callerID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReconciliationServiceTestSuite) TestApplyAdjustments_UpdateItemMovesTotal() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	// Total 60 with a 50 item: 10 of payer-absorbed overhead. Repricing the
	// item to 70 moves the total to 80, keeping the overhead.
	expense := suite.itemExpense(expenseID, []string{"bob"})
	expense.Total = decimal.NewFromInt(60)
	split := suite.splitTransfer(expenseID, suite.bobAccounts.Liability.AccountID, suite.aliceAccounts.Asset.AccountID, 50)

	suite.mockExpenseRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByIDForUpdate", ctx, nil, expenseID).Return(expense, nil).Once()
	suite.mockTransferRepo.On("FindTransfersByExpenseID", ctx, expenseID).Return([]domain.Transfer{split}, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accountsByID(suite.aliceAccounts, suite.bobAccounts), nil).Once()
	suite.mockAccountSvc.On("GetOrCreateUserAccounts", ctx, "alice", suite.sourceID, int32(764), suite.callerID).Return(suite.aliceAccounts, nil).Once()
	suite.mockAccountSvc.On("GetOrCreateUserAccounts", ctx, "bob", suite.sourceID, int32(764), suite.callerID).Return(suite.bobAccounts, nil).Once()
	suite.mockTransferRepo.On("SaveTransfersInTx", ctx, nil, mock.AnythingOfType("[]domain.Transfer")).Return(nil).Once()
	suite.mockExpenseRepo.On("ReplaceItemsInTx", ctx, nil, expenseID, mock.AnythingOfType("[]domain.Item")).Return(nil).Once()
	suite.mockExpenseRepo.On("UpdateExpenseInTx", ctx, nil, mock.AnythingOfType("domain.Expense")).Return(nil).Once()
	suite.mockExpenseRepo.On("Commit", ctx, nil).Return(nil).Once()
	suite.mockExpenseRepo.On("Rollback", ctx, nil).Return(nil).Once()

	updated, transfers, err := suite.service.ReconcileExpense(ctx, expenseID, []domain.Adjustment{
		{Op: domain.OpUpdateItem, ItemID: "item-1", Item: &domain.Item{
			Name:        "noodles",
			Quantity:    decimal.NewFromInt(1),
			Price:       decimal.NewFromInt(70),
			AssigneeIDs: []string{"bob"},
		}},
	}, suite.callerID)

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(80).Equal(updated.Total), "total should move by the item delta, got %s", updated.Total)

	// Bob's share rises from 50 to 70: one adjustment for the 20 difference.
	suite.Require().Len(transfers, 1)
	suite.True(decimal.NewFromInt(20).Equal(transfers[0].Amount))
	suite.Equal(suite.bobAccounts.Liability.AccountID, transfers[0].DebitAccountID)
	suite.Equal(suite.aliceAccounts.Asset.AccountID, transfers[0].CreditAccountID)
}

func TestReconciliationService(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
