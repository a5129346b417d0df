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
	"github.com/appclub-tech/Billog-sub001/internal/utils/accounting"
	"github.com/google/uuid"
)

// TransferService creates transfers and drives the two-phase pending flow.
// Transfers are immutable once written; every correction is a new transfer.
type TransferService struct {
	TransferRepository portsrepo.TransferRepositoryWithTx
}

var _ portssvc.TransferSvcFacade = (*TransferService)(nil)

func NewTransferService(repo portsrepo.TransferRepositoryWithTx) *TransferService {
	return &TransferService{TransferRepository: repo}
}

func buildTransfer(p portssvc.CreateTransferParams, creatorID string, now time.Time) domain.Transfer {
	var flags domain.TransferFlags
	if p.Pending {
		flags |= domain.FlagPending
	}
	return domain.Transfer{
		TransferID:      uuid.NewString(),
		DebitAccountID:  p.DebitAccountID,
		CreditAccountID: p.CreditAccountID,
		Amount:          p.Amount,
		Ledger:          p.Ledger,
		Code:            p.Code,
		Flags:           flags,
		ExpenseID:       p.ExpenseID,
		Timeout:         p.Timeout,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
}

// CreateTransfer validates and persists a single transfer together with its
// account counter updates.
func (s *TransferService) CreateTransfer(ctx context.Context, params portssvc.CreateTransferParams, creatorID string) (*domain.Transfer, error) {
	transfers, err := s.CreateLinkedTransfers(ctx, []portssvc.CreateTransferParams{params}, creatorID)
	if err != nil {
		return nil, err
	}
	return &transfers[0], nil
}

// CreateLinkedTransfers persists a batch atomically: either every transfer
// lands or none does.
func (s *TransferService) CreateLinkedTransfers(ctx context.Context, params []portssvc.CreateTransferParams, creatorID string) ([]domain.Transfer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if len(params) == 0 {
		return nil, apperrors.NewAppError(400, "transfer batch must not be empty", apperrors.ErrValidation)
	}

	now := time.Now()
	transfers := make([]domain.Transfer, len(params))
	for i, p := range params {
		transfers[i] = buildTransfer(p, creatorID, now)
		if err := accounting.ValidateTransfer(transfers[i]); err != nil {
			return nil, apperrors.NewAppError(400, err.Error(), apperrors.ErrValidation)
		}
	}

	if err := s.TransferRepository.SaveTransfers(ctx, transfers); err != nil {
		logger.Error("Failed to save transfer batch", slog.String("error", err.Error()), slog.Int("count", len(transfers)))
		return nil, err
	}

	logger.Info("Transfer batch saved", slog.Int("count", len(transfers)), slog.String("code", transfers[0].Code.String()))
	return transfers, nil
}

// PostPendingTransfer confirms a pending transfer, moving its amount from the
// pending counters into the posted ones.
func (s *TransferService) PostPendingTransfer(ctx context.Context, pendingTransferID, creatorID string) (*domain.Transfer, error) {
	return s.resolvePending(ctx, pendingTransferID, creatorID, domain.FlagPostPending)
}

// VoidPendingTransfer cancels a pending transfer, releasing its amount from
// the pending counters.
func (s *TransferService) VoidPendingTransfer(ctx context.Context, pendingTransferID, creatorID string) (*domain.Transfer, error) {
	return s.resolvePending(ctx, pendingTransferID, creatorID, domain.FlagVoidPending)
}

// resolvePending writes the post or void half of a two-phase transfer. The
// pending row is locked for the duration so two racing resolutions serialize;
// the second one sees the first's child row and fails with ErrConflict.
func (s *TransferService) resolvePending(ctx context.Context, pendingTransferID, creatorID string, resolution domain.TransferFlags) (*domain.Transfer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.TransferRepository.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.TransferRepository.Rollback(ctx, tx)

	pending, err := s.TransferRepository.FindTransferByIDForUpdate(ctx, tx, pendingTransferID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to lock pending transfer", slog.String("error", err.Error()), slog.String("transfer_id", pendingTransferID))
		}
		return nil, err
	}
	if !pending.Flags.Has(domain.FlagPending) {
		return nil, apperrors.NewAppError(400, fmt.Sprintf("transfer %s is not a pending transfer", pendingTransferID), apperrors.ErrValidation)
	}

	resolutions, err := s.TransferRepository.FindTransfersByPendingID(ctx, tx, pendingTransferID)
	if err != nil {
		logger.Error("Failed to check for prior resolutions", slog.String("error", err.Error()), slog.String("transfer_id", pendingTransferID))
		return nil, err
	}
	if len(resolutions) > 0 {
		return nil, apperrors.NewAppError(409, fmt.Sprintf("pending transfer %s was already resolved by transfer %s", pendingTransferID, resolutions[0].TransferID), apperrors.ErrConflict)
	}

	now := time.Now()
	child := domain.Transfer{
		TransferID:      uuid.NewString(),
		DebitAccountID:  pending.DebitAccountID,
		CreditAccountID: pending.CreditAccountID,
		Amount:          pending.Amount,
		Ledger:          pending.Ledger,
		Code:            pending.Code,
		Flags:           resolution,
		ExpenseID:       pending.ExpenseID,
		PendingID:       &pending.TransferID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.TransferRepository.SaveTransfersInTx(ctx, tx, []domain.Transfer{child}); err != nil {
		logger.Error("Failed to save resolution transfer", slog.String("error", err.Error()), slog.String("pending_id", pendingTransferID))
		return nil, err
	}

	if err := s.TransferRepository.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit resolution transaction", slog.String("error", err.Error()), slog.String("pending_id", pendingTransferID))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Pending transfer resolved", slog.String("pending_id", pendingTransferID), slog.String("transfer_id", child.TransferID), slog.String("resolution", resolutionName(resolution)))
	return &child, nil
}

func resolutionName(f domain.TransferFlags) string {
	if f.Has(domain.FlagVoidPending) {
		return "void"
	}
	return "post"
}

// GetTransferByID retrieves a transfer by its unique identifier.
func (s *TransferService) GetTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	transfer, err := s.TransferRepository.FindTransferByID(ctx, transferID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find transfer by ID in repository", slog.String("error", err.Error()), slog.String("transfer_id", transferID))
		}
		return nil, err
	}
	return transfer, nil
}

// ListTransfersBySource retrieves a token-paginated transfer history.
func (s *TransferService) ListTransfersBySource(ctx context.Context, sourceID string, ledger int32, limit int, nextToken *string) ([]domain.Transfer, *string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	transfers, token, err := s.TransferRepository.ListTransfersBySource(ctx, sourceID, ledger, limit, nextToken)
	if err != nil {
		logger.Error("Failed to list transfers from repository", slog.String("error", err.Error()), slog.String("source_id", sourceID))
		return nil, nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return transfers, token, nil
}
