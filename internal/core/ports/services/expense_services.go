package services

import (
	"context"
	"time"

	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseParams carries everything needed to record one expense and
// post its split.
type CreateExpenseParams struct {
	SourceID       string
	PayerID        string
	Total          decimal.Decimal
	CurrencyCode   string
	SplitPolicy    domain.SplitPolicy
	ParticipantIDs []string
	Targets        []domain.SplitTarget
	Items          []domain.Item
	Category       string
	Description    string
}

// CreateSettlementParams carries everything needed to record one repayment.
type CreateSettlementParams struct {
	SourceID     string
	FromUserID   string
	ToUserID     string
	Amount       decimal.Decimal
	CurrencyCode string
	ExpenseID    *string
	Pending      bool
	Timeout      *time.Duration
}

// ExpenseSvcFacade defines the expense and settlement operations.
type ExpenseSvcFacade interface {
	// CreateExpense records an expense, computes the split and posts the
	// linked split transfers in one transaction. Returns the persisted
	// expense and its transfers.
	CreateExpense(ctx context.Context, params CreateExpenseParams, creatorID string) (*domain.Expense, []domain.Transfer, error)

	// GetExpense retrieves an expense with its items and transfer history.
	GetExpense(ctx context.Context, expenseID string) (*domain.Expense, []domain.Transfer, error)

	// CreateSettlement records a repayment from one member to another,
	// optionally as a pending transfer awaiting confirmation.
	CreateSettlement(ctx context.Context, params CreateSettlementParams, creatorID string) (*domain.Transfer, error)
}
