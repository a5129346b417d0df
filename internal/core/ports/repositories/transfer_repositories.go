package repositories

import (
	"context"

	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransferReader defines read operations for transfer data.
type TransferReader interface {
	// FindTransferByID retrieves a transfer by its unique identifier.
	FindTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error)

	// FindTransfersByExpenseID retrieves all transfers tied to an expense,
	// ordered by creation time.
	FindTransfersByExpenseID(ctx context.Context, expenseID string) ([]domain.Transfer, error)

	// ListTransfersBySource retrieves a token-paginated transfer history for a
	// source+ledger.
	ListTransfersBySource(ctx context.Context, sourceID string, ledger int32, limit int, nextToken *string) ([]domain.Transfer, *string, error)
}

// TransferWriter defines write operations for transfer data.
type TransferWriter interface {
	// SaveTransfers persists a transfer batch and the implied account counter
	// updates in one atomic transaction of its own.
	SaveTransfers(ctx context.Context, transfers []domain.Transfer) error

	// SaveTransfersInTx is SaveTransfers inside a caller-owned transaction.
	SaveTransfersInTx(ctx context.Context, tx pgx.Tx, transfers []domain.Transfer) error

	// FindTransferByIDForUpdate retrieves a transfer and locks its row.
	FindTransferByIDForUpdate(ctx context.Context, tx pgx.Tx, transferID string) (*domain.Transfer, error)

	// FindTransfersByPendingID retrieves post/void transfers referencing a
	// pending parent, within the given transaction.
	FindTransfersByPendingID(ctx context.Context, tx pgx.Tx, pendingID string) ([]domain.Transfer, error)
}

// TransferRepositoryFacade combines all transfer-related repository interfaces.
type TransferRepositoryFacade interface {
	TransferReader
	TransferWriter
}

// TransferRepositoryWithTx extends the facade with transaction management.
type TransferRepositoryWithTx interface {
	TransferRepositoryFacade
	TransactionManager
}
