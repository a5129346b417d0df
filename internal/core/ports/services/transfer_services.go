package services

import (
	"context"
	"time"

	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransferParams carries everything needed to create one transfer.
type CreateTransferParams struct {
	DebitAccountID  string
	CreditAccountID string
	Amount          decimal.Decimal
	Ledger          int32
	Code            domain.TransferCode
	ExpenseID       *string
	Pending         bool
	Timeout         *time.Duration
}

// TransferSvcFacade defines the transfer operations.
type TransferSvcFacade interface {
	// CreateTransfer validates and persists a single transfer together with
	// its account counter updates.
	CreateTransfer(ctx context.Context, params CreateTransferParams, creatorID string) (*domain.Transfer, error)

	// CreateLinkedTransfers persists a batch atomically: either every transfer
	// lands or none does.
	CreateLinkedTransfers(ctx context.Context, params []CreateTransferParams, creatorID string) ([]domain.Transfer, error)

	// PostPendingTransfer confirms a pending transfer, moving its amount from
	// the pending counters into the posted ones. Returns
	// apperrors.ErrConflict when the pending transfer was already resolved.
	PostPendingTransfer(ctx context.Context, pendingTransferID, creatorID string) (*domain.Transfer, error)

	// VoidPendingTransfer cancels a pending transfer, releasing its amount
	// from the pending counters. Returns apperrors.ErrConflict when the
	// pending transfer was already resolved.
	VoidPendingTransfer(ctx context.Context, pendingTransferID, creatorID string) (*domain.Transfer, error)

	// GetTransferByID retrieves a transfer by its unique identifier.
	GetTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error)

	// ListTransfersBySource retrieves a token-paginated transfer history.
	ListTransfersBySource(ctx context.Context, sourceID string, ledger int32, limit int, nextToken *string) ([]domain.Transfer, *string, error)
}
