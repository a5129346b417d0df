package services

import (
	"context"

	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
)

// AccountSvcFacade defines the account lifecycle operations.
type AccountSvcFacade interface {
	// GetOrCreateAccount returns the account for the given key, creating it
	// with zeroed counters on first use. Safe to call concurrently; a lost
	// insert race falls back to reading the winning row.
	GetOrCreateAccount(ctx context.Context, userID, sourceID string, ledger int32, code domain.AccountCode, creatorID string) (*domain.Account, error)

	// GetOrCreateUserAccounts returns the user's ASSET/LIABILITY pair on a
	// source+ledger, creating whichever side is missing.
	GetOrCreateUserAccounts(ctx context.Context, userID, sourceID string, ledger int32, creatorID string) (*domain.UserAccounts, error)

	// GetAccountByID retrieves an account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}
