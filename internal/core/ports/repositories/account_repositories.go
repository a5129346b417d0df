package repositories

import (
	"context"
	"time"

	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccount retrieves one account by its (user, source, ledger, code) key.
	FindAccount(ctx context.Context, userID, sourceID string, ledger int32, code domain.AccountCode) (*domain.Account, error)

	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountsBySource retrieves every account on a source+ledger,
	// ordered by creation time for deterministic aggregation.
	FindAccountsBySource(ctx context.Context, sourceID string, ledger int32) ([]domain.Account, error)

	// FindAccountsByUser retrieves a user's accounts on a source+ledger.
	FindAccountsByUser(ctx context.Context, userID, sourceID string, ledger int32) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account. A unique-key collision surfaces as
	// apperrors.ErrDuplicate so callers can re-fetch the winning row.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountTransactionSupport defines operations used inside transfer transactions.
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks the rows for update.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// ApplyCounterChangesInTx applies counter deltas to multiple accounts
	// within the given transaction.
	ApplyCounterChangesInTx(ctx context.Context, tx pgx.Tx, changes map[string]domain.CounterChange, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
