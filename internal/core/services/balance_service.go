package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/appclub-tech/Billog-sub001/internal/apperrors"
	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	portsrepo "github.com/appclub-tech/Billog-sub001/internal/core/ports/repositories"
	portssvc "github.com/appclub-tech/Billog-sub001/internal/core/ports/services"
	"github.com/appclub-tech/Billog-sub001/internal/middleware"
	"github.com/appclub-tech/Billog-sub001/internal/utils/accounting"
	"github.com/appclub-tech/Billog-sub001/internal/utils/netting"
	"github.com/shopspring/decimal"
)

// BalanceService answers the read-side questions: who owes what, to whom,
// and whether an expense has been paid back. Everything derives from account
// counters and transfer rows; this service never writes.
type BalanceService struct {
	AccountRepository  portsrepo.AccountReader
	TransferRepository portsrepo.TransferReader
	ExpenseRepository  portsrepo.ExpenseReader
}

var _ portssvc.BalanceSvcFacade = (*BalanceService)(nil)

func NewBalanceService(accountRepo portsrepo.AccountReader, transferRepo portsrepo.TransferReader, expenseRepo portsrepo.ExpenseReader) *BalanceService {
	return &BalanceService{
		AccountRepository:  accountRepo,
		TransferRepository: transferRepo,
		ExpenseRepository:  expenseRepo,
	}
}

// GetUserBalance returns one user's position on a source+ledger. Users with
// no accounts yet get a zero balance, not an error.
func (s *BalanceService) GetUserBalance(ctx context.Context, userID, sourceID string, ledger int32) (*domain.UserBalance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	accounts, err := s.AccountRepository.FindAccountsByUser(ctx, userID, sourceID, ledger)
	if err != nil {
		logger.Error("Failed to find user accounts", slog.String("error", err.Error()), slog.String("user_id", userID), slog.String("source_id", sourceID))
		return nil, fmt.Errorf("failed to find accounts for user %s: %w", userID, err)
	}

	balance := domain.UserBalance{
		UserID:    userID,
		SourceID:  sourceID,
		Ledger:    ledger,
		Asset:     decimal.Zero,
		Liability: decimal.Zero,
	}
	for _, a := range accounts {
		switch a.Code {
		case domain.AccountCodeAsset:
			balance.Asset = a.Balance()
		case domain.AccountCodeLiability:
			balance.Liability = a.Balance()
		}
	}
	balance.Net = balance.Asset.Sub(balance.Liability)
	return &balance, nil
}

// GetGroupBalances returns every member's net position on a source+ledger,
// in account creation order so output is deterministic.
func (s *BalanceService) GetGroupBalances(ctx context.Context, sourceID string, ledger int32) ([]domain.MemberBalance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	accounts, err := s.AccountRepository.FindAccountsBySource(ctx, sourceID, ledger)
	if err != nil {
		logger.Error("Failed to find source accounts", slog.String("error", err.Error()), slog.String("source_id", sourceID))
		return nil, fmt.Errorf("failed to find accounts for source %s: %w", sourceID, err)
	}

	byUser := make(map[string]*domain.UserAccounts)
	order := make([]string, 0, len(accounts)/2)
	for _, a := range accounts {
		pair, ok := byUser[a.UserID]
		if !ok {
			pair = &domain.UserAccounts{}
			byUser[a.UserID] = pair
			order = append(order, a.UserID)
		}
		switch a.Code {
		case domain.AccountCodeAsset:
			pair.Asset = a
		case domain.AccountCodeLiability:
			pair.Liability = a
		}
	}

	balances := make([]domain.MemberBalance, 0, len(order))
	for _, userID := range order {
		pair := byUser[userID]
		balances = append(balances, domain.MemberBalance{
			UserID: userID,
			Net:    accounting.UserNet(&pair.Asset, &pair.Liability),
		})
	}
	return balances, nil
}

// GetDebts returns a minimal payment plan that settles the source.
func (s *BalanceService) GetDebts(ctx context.Context, sourceID string, ledger int32) ([]domain.Debt, error) {
	balances, err := s.GetGroupBalances(ctx, sourceID, ledger)
	if err != nil {
		return nil, err
	}
	return netting.Settle(balances), nil
}

// IsExpenseSettled reports whether the expense's split has been fully repaid.
// It walks the expense's transfer history relative to the payer's asset
// account: credits raised what others owe the payer, debits repaid it.
func (s *BalanceService) IsExpenseSettled(ctx context.Context, expenseID string) (bool, decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expense, err := s.ExpenseRepository.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		}
		return false, decimal.Zero, err
	}

	payerAsset, err := s.AccountRepository.FindAccount(ctx, expense.PayerID, expense.SourceID, expense.Ledger, domain.AccountCodeAsset)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// No payer account means no split was ever posted.
			return true, decimal.Zero, nil
		}
		logger.Error("Failed to find payer asset account", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return false, decimal.Zero, err
	}

	transfers, err := s.TransferRepository.FindTransfersByExpenseID(ctx, expenseID)
	if err != nil {
		logger.Error("Failed to find expense transfers", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return false, decimal.Zero, err
	}

	remaining := decimal.Zero
	for _, t := range transfers {
		// Only rows with posted effect count: plain transfers and the post
		// half of a two-phase pair. Pending rows and voids contribute nothing.
		if t.Flags.Has(domain.FlagPending) || t.Flags.Has(domain.FlagVoidPending) {
			continue
		}
		switch payerAsset.AccountID {
		case t.CreditAccountID:
			remaining = remaining.Add(t.Amount)
		case t.DebitAccountID:
			remaining = remaining.Sub(t.Amount)
		}
	}

	return !remaining.IsPositive(), remaining, nil
}
