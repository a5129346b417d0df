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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountService manages per-user ledger accounts.
type AccountService struct {
	AccountRepository portsrepo.AccountRepositoryFacade
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

func NewAccountService(repo portsrepo.AccountRepositoryFacade) *AccountService {
	return &AccountService{AccountRepository: repo}
}

// GetOrCreateAccount returns the account for (userID, sourceID, ledger, code),
// creating it with zeroed counters on first use. Concurrent first-use races
// resolve through the unique key: the loser gets apperrors.ErrDuplicate and
// re-reads the winning row.
func (s *AccountService) GetOrCreateAccount(ctx context.Context, userID, sourceID string, ledger int32, code domain.AccountCode, creatorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !code.Valid() {
		return nil, apperrors.NewAppError(400, fmt.Sprintf("unknown account code %d", code), apperrors.ErrValidation)
	}

	account, err := s.AccountRepository.FindAccount(ctx, userID, sourceID, ledger, code)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to find account in repository", slog.String("error", err.Error()), slog.String("user_id", userID), slog.String("source_id", sourceID))
		return nil, err
	}

	now := time.Now()
	newAccount := domain.Account{
		AccountID:      uuid.NewString(),
		UserID:         userID,
		SourceID:       sourceID,
		Ledger:         ledger,
		Code:           code,
		DebitsPosted:   decimal.Zero,
		CreditsPosted:  decimal.Zero,
		DebitsPending:  decimal.Zero,
		CreditsPending: decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	err = s.AccountRepository.SaveAccount(ctx, newAccount)
	if err == nil {
		logger.Info("Account created", slog.String("account_id", newAccount.AccountID), slog.String("user_id", userID), slog.String("code", code.String()))
		return &newAccount, nil
	}
	if !errors.Is(err, apperrors.ErrDuplicate) {
		logger.Error("Failed to save account in repository", slog.String("error", err.Error()), slog.String("account_id", newAccount.AccountID))
		return nil, err
	}

	// Lost the insert race; another request created the account first.
	account, err = s.AccountRepository.FindAccount(ctx, userID, sourceID, ledger, code)
	if err != nil {
		logger.Error("Failed to re-fetch account after duplicate insert", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, err
	}
	return account, nil
}

// GetOrCreateUserAccounts returns the user's ASSET/LIABILITY pair on a
// source+ledger, creating whichever side is missing.
func (s *AccountService) GetOrCreateUserAccounts(ctx context.Context, userID, sourceID string, ledger int32, creatorID string) (*domain.UserAccounts, error) {
	asset, err := s.GetOrCreateAccount(ctx, userID, sourceID, ledger, domain.AccountCodeAsset, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure asset account for user %s: %w", userID, err)
	}
	liability, err := s.GetOrCreateAccount(ctx, userID, sourceID, ledger, domain.AccountCodeLiability, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure liability account for user %s: %w", userID, err)
	}
	return &domain.UserAccounts{Asset: *asset, Liability: *liability}, nil
}

// GetAccountByID retrieves an account by its unique identifier.
func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.AccountRepository.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by ID in repository", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}
