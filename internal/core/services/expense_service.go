package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/appclub-tech/Billog-sub001/internal/apperrors"
	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	portsrepo "github.com/appclub-tech/Billog-sub001/internal/core/ports/repositories"
	portssvc "github.com/appclub-tech/Billog-sub001/internal/core/ports/services"
	"github.com/appclub-tech/Billog-sub001/internal/middleware"
	"github.com/appclub-tech/Billog-sub001/internal/utils/splitting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseService records expenses, posts their split transfers and records
// settlements between members.
type ExpenseService struct {
	AccountSvc         portssvc.AccountSvcFacade
	TransferSvc        portssvc.TransferSvcFacade
	ExpenseRepository  portsrepo.ExpenseRepositoryWithTx
	TransferRepository portsrepo.TransferRepositoryFacade
}

var _ portssvc.ExpenseSvcFacade = (*ExpenseService)(nil)

func NewExpenseService(accountSvc portssvc.AccountSvcFacade, transferSvc portssvc.TransferSvcFacade, expenseRepo portsrepo.ExpenseRepositoryWithTx, transferRepo portsrepo.TransferRepositoryFacade) *ExpenseService {
	return &ExpenseService{
		AccountSvc:         accountSvc,
		TransferSvc:        transferSvc,
		ExpenseRepository:  expenseRepo,
		TransferRepository: transferRepo,
	}
}

// CreateExpense records an expense, computes the split and posts the linked
// split transfers. The expense row, its items and the transfer batch commit
// in one transaction so a half-recorded expense can never be observed.
func (s *ExpenseService) CreateExpense(ctx context.Context, params portssvc.CreateExpenseParams, creatorID string) (*domain.Expense, []domain.Transfer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	currency, err := domain.CurrencyByCode(params.CurrencyCode)
	if err != nil {
		return nil, nil, apperrors.NewAppError(400, err.Error(), apperrors.ErrValidation)
	}
	if !params.SplitPolicy.Valid() {
		return nil, nil, apperrors.NewAppError(400, fmt.Sprintf("unknown split policy %q", params.SplitPolicy), apperrors.ErrValidation)
	}
	if !params.Total.IsPositive() {
		return nil, nil, apperrors.NewAppError(400, fmt.Sprintf("expense total must be positive, got %s", params.Total.String()), apperrors.ErrValidation)
	}

	now := time.Now()
	expenseID := uuid.NewString()
	items, err := buildItems(expenseID, params.Items, params.Total, creatorID, now)
	if err != nil {
		return nil, nil, apperrors.NewAppError(400, err.Error(), apperrors.ErrValidation)
	}

	shares, err := splitting.Compute(splitting.Input{
		Total:        params.Total,
		Exponent:     currency.Exponent,
		Policy:       params.SplitPolicy,
		PayerID:      params.PayerID,
		Participants: params.ParticipantIDs,
		Targets:      params.Targets,
		Items:        items,
	})
	if err != nil {
		return nil, nil, apperrors.NewAppError(400, err.Error(), apperrors.ErrValidation)
	}

	expense := domain.Expense{
		ExpenseID:      expenseID,
		SourceID:       params.SourceID,
		PayerID:        params.PayerID,
		Total:          params.Total,
		CurrencyCode:   currency.Code,
		Ledger:         currency.Ledger,
		SplitPolicy:    params.SplitPolicy,
		ParticipantIDs: resolveParticipants(params),
		Category:       params.Category,
		Description:    params.Description,
		Items:          items,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	transfers, err := s.buildSplitTransfers(ctx, expense, shares, creatorID, now)
	if err != nil {
		return nil, nil, err
	}

	tx, err := s.ExpenseRepository.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.ExpenseRepository.Rollback(ctx, tx)

	if err := s.ExpenseRepository.SaveExpenseInTx(ctx, tx, expense, items); err != nil {
		logger.Error("Failed to save expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, nil, err
	}
	if len(transfers) > 0 {
		if err := s.TransferRepository.SaveTransfersInTx(ctx, tx, transfers); err != nil {
			logger.Error("Failed to save split transfers", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
			return nil, nil, err
		}
	}
	if err := s.ExpenseRepository.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit expense transaction", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Expense recorded", slog.String("expense_id", expenseID), slog.String("payer_id", params.PayerID), slog.Int("split_count", len(transfers)))
	return &expense, transfers, nil
}

// buildSplitTransfers ensures the involved accounts exist and builds one
// EXPENSE_SPLIT transfer per share: the ower's liability is debited, the
// payer's asset is credited.
func (s *ExpenseService) buildSplitTransfers(ctx context.Context, expense domain.Expense, shares []splitting.Share, creatorID string, now time.Time) ([]domain.Transfer, error) {
	if len(shares) == 0 {
		return nil, nil
	}

	payerAccounts, err := s.AccountSvc.GetOrCreateUserAccounts(ctx, expense.PayerID, expense.SourceID, expense.Ledger, creatorID)
	if err != nil {
		return nil, err
	}

	transfers := make([]domain.Transfer, 0, len(shares))
	for _, share := range shares {
		owerAccounts, err := s.AccountSvc.GetOrCreateUserAccounts(ctx, share.UserID, expense.SourceID, expense.Ledger, creatorID)
		if err != nil {
			return nil, err
		}
		expenseID := expense.ExpenseID
		transfers = append(transfers, domain.Transfer{
			TransferID:      uuid.NewString(),
			DebitAccountID:  owerAccounts.Liability.AccountID,
			CreditAccountID: payerAccounts.Asset.AccountID,
			Amount:          share.Amount,
			Ledger:          expense.Ledger,
			Code:            domain.TransferCodeExpenseSplit,
			ExpenseID:       &expenseID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorID,
			},
		})
	}
	return transfers, nil
}

// buildItems normalizes raw line items: assigns ids, derives totals and
// rejects item sets that exceed the expense total. An item sum below the
// total is allowed; the difference (tax, fees) falls to the payer.
func buildItems(expenseID string, raw []domain.Item, total decimal.Decimal, creatorID string, now time.Time) ([]domain.Item, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	items := make([]domain.Item, len(raw))
	itemSum := decimal.Zero
	for i, it := range raw {
		if it.Quantity.IsNegative() || it.Price.IsNegative() {
			return nil, fmt.Errorf("item %q must have non-negative quantity and price", it.Name)
		}
		itemID := it.ItemID
		if itemID == "" {
			itemID = uuid.NewString()
		}
		itemTotal := it.Total
		if itemTotal.IsZero() {
			itemTotal = it.Quantity.Mul(it.Price)
		}
		itemSum = itemSum.Add(itemTotal)
		items[i] = domain.Item{
			ItemID:      itemID,
			ExpenseID:   expenseID,
			Name:        it.Name,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Total:       itemTotal,
			AssigneeIDs: it.AssigneeIDs,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorID,
			},
		}
	}
	if itemSum.GreaterThan(total) {
		return nil, fmt.Errorf("item totals sum to %s which exceeds the expense total %s", itemSum.String(), total.String())
	}
	return items, nil
}

// resolveParticipants returns the participant pool persisted on the expense.
// A targeted EQUAL split stores exactly its dividing pool (the targets plus
// the payer); persisting bystanders would change the denominator the next
// time the split is recomputed. Every other policy stores the union of
// explicit participants, split targets, item assignees and the payer.
func resolveParticipants(params portssvc.CreateExpenseParams) []string {
	seen := make(map[string]struct{})
	pool := make([]string, 0, len(params.ParticipantIDs)+1)
	add := func(userID string) {
		if userID == "" {
			return
		}
		if _, ok := seen[userID]; ok {
			return
		}
		seen[userID] = struct{}{}
		pool = append(pool, userID)
	}
	if params.SplitPolicy == domain.SplitEqual && len(params.Targets) > 0 {
		for _, t := range params.Targets {
			add(t.UserID)
		}
		add(params.PayerID)
		return pool
	}
	for _, id := range params.ParticipantIDs {
		add(id)
	}
	for _, t := range params.Targets {
		add(t.UserID)
	}
	for _, it := range params.Items {
		for _, id := range it.AssigneeIDs {
			add(id)
		}
	}
	add(params.PayerID)
	return pool
}

// GetExpense retrieves an expense with its items and transfer history.
func (s *ExpenseService) GetExpense(ctx context.Context, expenseID string) (*domain.Expense, []domain.Transfer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expense, err := s.ExpenseRepository.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		}
		return nil, nil, err
	}
	transfers, err := s.TransferRepository.FindTransfersByExpenseID(ctx, expenseID)
	if err != nil {
		logger.Error("Failed to find expense transfers", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, nil, err
	}
	return expense, transfers, nil
}

// CreateSettlement records a repayment: the receiver's asset is debited and
// the payer's liability is credited, shrinking both sides of the debt.
func (s *ExpenseService) CreateSettlement(ctx context.Context, params portssvc.CreateSettlementParams, creatorID string) (*domain.Transfer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	currency, err := domain.CurrencyByCode(params.CurrencyCode)
	if err != nil {
		return nil, apperrors.NewAppError(400, err.Error(), apperrors.ErrValidation)
	}
	if !params.Amount.IsPositive() {
		return nil, apperrors.NewAppError(400, fmt.Sprintf("settlement amount must be positive, got %s", params.Amount.String()), apperrors.ErrValidation)
	}
	if params.FromUserID == params.ToUserID {
		return nil, apperrors.NewAppError(400, "a settlement needs two distinct users", apperrors.ErrValidation)
	}

	fromAccounts, err := s.AccountSvc.GetOrCreateUserAccounts(ctx, params.FromUserID, params.SourceID, currency.Ledger, creatorID)
	if err != nil {
		return nil, err
	}
	toAccounts, err := s.AccountSvc.GetOrCreateUserAccounts(ctx, params.ToUserID, params.SourceID, currency.Ledger, creatorID)
	if err != nil {
		return nil, err
	}

	transfer, err := s.TransferSvc.CreateTransfer(ctx, portssvc.CreateTransferParams{
		DebitAccountID:  toAccounts.Asset.AccountID,
		CreditAccountID: fromAccounts.Liability.AccountID,
		Amount:          params.Amount,
		Ledger:          currency.Ledger,
		Code:            domain.TransferCodeSettlement,
		ExpenseID:       params.ExpenseID,
		Pending:         params.Pending,
		Timeout:         params.Timeout,
	}, creatorID)
	if err != nil {
		return nil, err
	}

	logger.Info("Settlement recorded", slog.String("transfer_id", transfer.TransferID), slog.String("from", params.FromUserID), slog.String("to", params.ToUserID), slog.Bool("pending", params.Pending))
	return transfer, nil
}
