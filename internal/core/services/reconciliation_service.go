package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
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

// ReconciliationService corrects recorded expenses after the fact. It never
// rewrites existing transfers; instead it recomputes what everyone should owe
// and posts compensating ADJUSTMENT transfers for the differences, so the
// audit trail stays append-only.
type ReconciliationService struct {
	AccountSvc         portssvc.AccountSvcFacade
	AccountRepository  portsrepo.AccountReader
	TransferRepository portsrepo.TransferRepositoryFacade
	ExpenseRepository  portsrepo.ExpenseRepositoryWithTx
}

var _ portssvc.ReconciliationSvcFacade = (*ReconciliationService)(nil)

func NewReconciliationService(accountSvc portssvc.AccountSvcFacade, accountRepo portsrepo.AccountReader, transferRepo portsrepo.TransferRepositoryFacade, expenseRepo portsrepo.ExpenseRepositoryWithTx) *ReconciliationService {
	return &ReconciliationService{
		AccountSvc:         accountSvc,
		AccountRepository:  accountRepo,
		TransferRepository: transferRepo,
		ExpenseRepository:  expenseRepo,
	}
}

// ReconcileExpense applies a batch of adjustments, recomputes the split and
// posts compensating transfers for the share deltas. The expense rewrite and
// the adjustment transfers commit in one transaction; the expense row is
// locked throughout so concurrent reconciliations serialize.
func (s *ReconciliationService) ReconcileExpense(ctx context.Context, expenseID string, adjustments []domain.Adjustment, creatorID string) (*domain.Expense, []domain.Transfer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(adjustments) == 0 {
		return nil, nil, apperrors.NewAppError(400, "reconciliation needs at least one adjustment", apperrors.ErrValidation)
	}
	for _, adj := range adjustments {
		if !adj.Op.Valid() {
			return nil, nil, apperrors.NewAppError(400, fmt.Sprintf("unknown adjustment op %q", adj.Op), apperrors.ErrValidation)
		}
	}

	tx, err := s.ExpenseRepository.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.ExpenseRepository.Rollback(ctx, tx)

	expense, err := s.ExpenseRepository.FindExpenseByIDForUpdate(ctx, tx, expenseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to lock expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		}
		return nil, nil, err
	}

	currency, err := domain.CurrencyByLedger(expense.Ledger)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, err.Error(), apperrors.ErrInternal)
	}

	// Shares already in effect, derived from the split and prior adjustments.
	// The expense lock keeps this stable for the rest of the transaction.
	oldOwed, err := s.effectiveShares(ctx, *expense)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := applyAdjustments(expense, adjustments, creatorID, now); err != nil {
		return nil, nil, apperrors.NewAppError(400, err.Error(), apperrors.ErrValidation)
	}
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = creatorID

	newOwed, err := recomputeShares(*expense, currency.Exponent, oldOwed)
	if err != nil {
		return nil, nil, apperrors.NewAppError(400, err.Error(), apperrors.ErrValidation)
	}

	transfers, err := s.buildAdjustmentTransfers(ctx, *expense, oldOwed, newOwed, creatorID, now)
	if err != nil {
		return nil, nil, err
	}

	if len(transfers) > 0 {
		if err := s.TransferRepository.SaveTransfersInTx(ctx, tx, transfers); err != nil {
			logger.Error("Failed to save adjustment transfers", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
			return nil, nil, err
		}
	}
	if err := s.ExpenseRepository.ReplaceItemsInTx(ctx, tx, expenseID, expense.Items); err != nil {
		logger.Error("Failed to replace expense items", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, nil, err
	}
	if err := s.ExpenseRepository.UpdateExpenseInTx(ctx, tx, *expense); err != nil {
		logger.Error("Failed to update expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, nil, err
	}
	if err := s.ExpenseRepository.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit reconciliation", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Expense reconciled", slog.String("expense_id", expenseID), slog.Int("adjustment_count", len(adjustments)), slog.Int("transfer_count", len(transfers)))
	return expense, transfers, nil
}

// effectiveShares reconstructs what each non-payer currently owes for the
// expense from its transfer history: split and adjustment rows relative to
// the payer's asset account. Settlements are repayments, not share changes,
// so they are excluded.
func (s *ReconciliationService) effectiveShares(ctx context.Context, expense domain.Expense) (map[string]decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	transfers, err := s.TransferRepository.FindTransfersByExpenseID(ctx, expense.ExpenseID)
	if err != nil {
		logger.Error("Failed to load expense transfers", slog.String("error", err.Error()), slog.String("expense_id", expense.ExpenseID))
		return nil, err
	}

	owed := make(map[string]decimal.Decimal)
	if len(transfers) == 0 {
		return owed, nil
	}

	accountIDs := make([]string, 0, len(transfers)*2)
	for _, t := range transfers {
		accountIDs = append(accountIDs, t.DebitAccountID, t.CreditAccountID)
	}
	accounts, err := s.AccountRepository.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		logger.Error("Failed to load transfer accounts", slog.String("error", err.Error()), slog.String("expense_id", expense.ExpenseID))
		return nil, err
	}

	payerAssetID := ""
	for id, a := range accounts {
		if a.UserID == expense.PayerID && a.Code == domain.AccountCodeAsset {
			payerAssetID = id
			break
		}
	}
	if payerAssetID == "" {
		return owed, nil
	}

	for _, t := range transfers {
		if t.Code == domain.TransferCodeSettlement {
			continue
		}
		if t.Flags.Has(domain.FlagPending) || t.Flags.Has(domain.FlagVoidPending) {
			continue
		}
		switch payerAssetID {
		case t.CreditAccountID:
			ower := accounts[t.DebitAccountID].UserID
			owed[ower] = owed[ower].Add(t.Amount)
		case t.DebitAccountID:
			ower := accounts[t.CreditAccountID].UserID
			owed[ower] = owed[ower].Sub(t.Amount)
		}
	}
	return owed, nil
}

// recomputeShares runs the split calculator over the corrected expense.
// EXACT and PERCENTAGE splits have no recomputable pool, so their shares
// stay as they are; applyAdjustments already rejected share-affecting ops
// for those policies.
func recomputeShares(expense domain.Expense, exponent int32, oldOwed map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	switch expense.SplitPolicy {
	case domain.SplitEqual, domain.SplitItem:
	default:
		return oldOwed, nil
	}

	shares, err := splitting.Compute(splitting.Input{
		Total:        expense.Total,
		Exponent:     exponent,
		Policy:       expense.SplitPolicy,
		PayerID:      expense.PayerID,
		Participants: expense.ParticipantIDs,
		Items:        expense.Items,
	})
	if err != nil {
		return nil, err
	}
	return splitting.ToMap(shares), nil
}

// buildAdjustmentTransfers turns share deltas into compensating transfers.
// A raised share debits the ower's liability and credits the payer's asset;
// a lowered share runs the other way. Zero deltas post nothing.
func (s *ReconciliationService) buildAdjustmentTransfers(ctx context.Context, expense domain.Expense, oldOwed, newOwed map[string]decimal.Decimal, creatorID string, now time.Time) ([]domain.Transfer, error) {
	users := make([]string, 0, len(newOwed)+len(oldOwed))
	seen := make(map[string]struct{})
	for _, pool := range []map[string]decimal.Decimal{newOwed, oldOwed} {
		for userID := range pool {
			if _, ok := seen[userID]; !ok {
				seen[userID] = struct{}{}
				users = append(users, userID)
			}
		}
	}
	// Map iteration order is random; deterministic output needs a sort.
	sort.Strings(users)

	var transfers []domain.Transfer
	var payerAccounts *domain.UserAccounts
	expenseID := expense.ExpenseID
	for _, userID := range users {
		if userID == expense.PayerID {
			continue
		}
		delta := newOwed[userID].Sub(oldOwed[userID])
		if delta.IsZero() {
			continue
		}
		if payerAccounts == nil {
			var err error
			payerAccounts, err = s.AccountSvc.GetOrCreateUserAccounts(ctx, expense.PayerID, expense.SourceID, expense.Ledger, creatorID)
			if err != nil {
				return nil, err
			}
		}
		owerAccounts, err := s.AccountSvc.GetOrCreateUserAccounts(ctx, userID, expense.SourceID, expense.Ledger, creatorID)
		if err != nil {
			return nil, err
		}

		transfer := domain.Transfer{
			TransferID: uuid.NewString(),
			Amount:     delta.Abs(),
			Ledger:     expense.Ledger,
			Code:       domain.TransferCodeAdjustment,
			ExpenseID:  &expenseID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorID,
			},
		}
		if delta.IsPositive() {
			transfer.DebitAccountID = owerAccounts.Liability.AccountID
			transfer.CreditAccountID = payerAccounts.Asset.AccountID
		} else {
			transfer.DebitAccountID = payerAccounts.Asset.AccountID
			transfer.CreditAccountID = owerAccounts.Liability.AccountID
		}
		transfers = append(transfers, transfer)
	}
	return transfers, nil
}

// applyAdjustments mutates the expense in place. Share-affecting ops are only
// meaningful for EQUAL and ITEM splits; EXACT and PERCENTAGE expenses accept
// metadata corrections only. Item edits move the expense total by the item-sum
// delta, so payer-absorbed overhead like tax is preserved.
func applyAdjustments(expense *domain.Expense, adjustments []domain.Adjustment, creatorID string, now time.Time) error {
	recomputable := expense.SplitPolicy == domain.SplitEqual || expense.SplitPolicy == domain.SplitItem

	oldItemSum := itemSum(expense.Items)
	for _, adj := range adjustments {
		switch adj.Op {
		case domain.OpUpdateCategory:
			expense.Category = adj.Category
			continue
		case domain.OpUpdateDescription:
			expense.Description = adj.Description
			continue
		}

		if !recomputable {
			return fmt.Errorf("op %s is not supported for %s splits", adj.Op, expense.SplitPolicy)
		}

		switch adj.Op {
		case domain.OpReassignItem:
			item := findItem(expense.Items, adj.ItemID)
			if item == nil {
				return fmt.Errorf("item %s not found on expense %s", adj.ItemID, expense.ExpenseID)
			}
			item.AssigneeIDs = adj.AssigneeIDs
			item.LastUpdatedAt = now
			item.LastUpdatedBy = creatorID
			addParticipants(expense, adj.AssigneeIDs)

		case domain.OpUpdateItem:
			if adj.Item == nil {
				return fmt.Errorf("op %s needs an item payload", adj.Op)
			}
			item := findItem(expense.Items, adj.ItemID)
			if item == nil {
				return fmt.Errorf("item %s not found on expense %s", adj.ItemID, expense.ExpenseID)
			}
			if adj.Item.Quantity.IsNegative() || adj.Item.Price.IsNegative() {
				return fmt.Errorf("item %q must have non-negative quantity and price", adj.Item.Name)
			}
			item.Name = adj.Item.Name
			item.Quantity = adj.Item.Quantity
			item.Price = adj.Item.Price
			item.Total = adj.Item.Quantity.Mul(adj.Item.Price)
			item.AssigneeIDs = adj.Item.AssigneeIDs
			item.LastUpdatedAt = now
			item.LastUpdatedBy = creatorID
			addParticipants(expense, adj.Item.AssigneeIDs)

		case domain.OpAddItem:
			if adj.Item == nil {
				return fmt.Errorf("op %s needs an item payload", adj.Op)
			}
			if adj.Item.Quantity.IsNegative() || adj.Item.Price.IsNegative() {
				return fmt.Errorf("item %q must have non-negative quantity and price", adj.Item.Name)
			}
			expense.Items = append(expense.Items, domain.Item{
				ItemID:      uuid.NewString(),
				ExpenseID:   expense.ExpenseID,
				Name:        adj.Item.Name,
				Quantity:    adj.Item.Quantity,
				Price:       adj.Item.Price,
				Total:       adj.Item.Quantity.Mul(adj.Item.Price),
				AssigneeIDs: adj.Item.AssigneeIDs,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     creatorID,
					LastUpdatedAt: now,
					LastUpdatedBy: creatorID,
				},
			})
			addParticipants(expense, adj.Item.AssigneeIDs)

		case domain.OpRemoveItem:
			idx := -1
			for i := range expense.Items {
				if expense.Items[i].ItemID == adj.ItemID {
					idx = i
					break
				}
			}
			if idx < 0 {
				return fmt.Errorf("item %s not found on expense %s", adj.ItemID, expense.ExpenseID)
			}
			expense.Items = append(expense.Items[:idx], expense.Items[idx+1:]...)

		case domain.OpAddToSplit:
			if adj.UserID == "" {
				return fmt.Errorf("op %s needs a user id", adj.Op)
			}
			addParticipants(expense, []string{adj.UserID})

		case domain.OpRemoveFromSplit:
			if adj.UserID == expense.PayerID {
				return fmt.Errorf("the payer cannot be removed from the split")
			}
			if !removeParticipant(expense, adj.UserID) {
				return fmt.Errorf("user %s is not a participant of expense %s", adj.UserID, expense.ExpenseID)
			}
		}
	}

	newItemSum := itemSum(expense.Items)
	expense.Total = expense.Total.Add(newItemSum.Sub(oldItemSum))
	if expense.Total.IsNegative() {
		return fmt.Errorf("adjustments would make the expense total negative")
	}
	return nil
}

func itemSum(items []domain.Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Total)
	}
	return sum
}

func findItem(items []domain.Item, itemID string) *domain.Item {
	for i := range items {
		if items[i].ItemID == itemID {
			return &items[i]
		}
	}
	return nil
}

func addParticipants(expense *domain.Expense, userIDs []string) {
	for _, userID := range userIDs {
		if userID == "" {
			continue
		}
		found := false
		for _, existing := range expense.ParticipantIDs {
			if existing == userID {
				found = true
				break
			}
		}
		if !found {
			expense.ParticipantIDs = append(expense.ParticipantIDs, userID)
		}
	}
}

// removeParticipant drops the user from the sharing pool and from every
// item's assignee list. It reports whether the user was a participant.
func removeParticipant(expense *domain.Expense, userID string) bool {
	found := false
	for i, existing := range expense.ParticipantIDs {
		if existing == userID {
			expense.ParticipantIDs = append(expense.ParticipantIDs[:i], expense.ParticipantIDs[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}
	// Assignee lists may carry duplicates; every occurrence has to go or the
	// user keeps accruing item shares.
	for i := range expense.Items {
		kept := expense.Items[i].AssigneeIDs[:0]
		for _, a := range expense.Items[i].AssigneeIDs {
			if a != userID {
				kept = append(kept, a)
			}
		}
		expense.Items[i].AssigneeIDs = kept
	}
	return true
}
