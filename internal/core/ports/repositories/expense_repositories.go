package repositories

import (
	"context"

	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ExpenseReader defines read operations for expense data.
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense with its items.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
}

// ExpenseWriter defines write operations for expense data.
type ExpenseWriter interface {
	// SaveExpenseInTx persists an expense and its items within the given
	// transaction.
	SaveExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense, items []domain.Item) error

	// FindExpenseByIDForUpdate retrieves an expense with its items and locks
	// the expense row.
	FindExpenseByIDForUpdate(ctx context.Context, tx pgx.Tx, expenseID string) (*domain.Expense, error)

	// ReplaceItemsInTx replaces an expense's item set within the given
	// transaction.
	ReplaceItemsInTx(ctx context.Context, tx pgx.Tx, expenseID string, items []domain.Item) error

	// UpdateExpenseInTx updates an expense's total, participants, category and
	// description within the given transaction.
	UpdateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces.
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}

// ExpenseRepositoryWithTx extends the facade with transaction management.
type ExpenseRepositoryWithTx interface {
	ExpenseRepositoryFacade
	TransactionManager
}
