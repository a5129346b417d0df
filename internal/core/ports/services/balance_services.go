package services

import (
	"context"

	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceSvcFacade defines the read-side balance queries. All of them derive
// from account counters; nothing here writes.
type BalanceSvcFacade interface {
	// GetUserBalance returns one user's position on a source+ledger. Users
	// with no accounts yet get a zero balance, not an error.
	GetUserBalance(ctx context.Context, userID, sourceID string, ledger int32) (*domain.UserBalance, error)

	// GetGroupBalances returns every member's net position on a source+ledger.
	GetGroupBalances(ctx context.Context, sourceID string, ledger int32) ([]domain.MemberBalance, error)

	// GetDebts returns a minimal payment plan that settles the source.
	GetDebts(ctx context.Context, sourceID string, ledger int32) ([]domain.Debt, error)

	// IsExpenseSettled reports whether an expense's split has been fully
	// repaid, along with the amount still outstanding.
	IsExpenseSettled(ctx context.Context, expenseID string) (bool, decimal.Decimal, error)
}
