package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/appclub-tech/Billog-sub001/internal/apperrors"
	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	portsrepo "github.com/appclub-tech/Billog-sub001/internal/core/ports/repositories"
	"github.com/appclub-tech/Billog-sub001/internal/models"
	"github.com/appclub-tech/Billog-sub001/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, user_id, source_id, ledger, code, debits_posted, credits_posted, debits_pending, credits_pending, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccountRow(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.SourceID,
		&m.Ledger,
		&m.Code,
		&m.DebitsPosted,
		&m.CreditsPosted,
		&m.DebitsPending,
		&m.CreditsPending,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectAccounts(rows pgx.Rows) ([]models.Account, error) {
	defer rows.Close()
	accounts := []models.Account{}
	for rows.Next() {
		m, err := scanAccountRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// SaveAccount inserts a new account. The UNIQUE(user_id, source_id, ledger,
// code) constraint makes concurrent first-use creation safe; the loser of the
// race receives apperrors.ErrDuplicate.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.SourceID,
		m.Ledger,
		m.Code,
		m.DebitsPosted,
		m.CreditsPosted,
		m.DebitsPending,
		m.CreditsPending,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: account for user %s already exists on this ledger", apperrors.ErrDuplicate, m.UserID)
			}
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccount retrieves one account by its natural key.
func (r *PgxAccountRepository) FindAccount(ctx context.Context, userID, sourceID string, ledger int32, code domain.AccountCode) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND source_id = $2 AND ledger = $3 AND code = $4;
	`
	m, err := scanAccountRow(r.Pool.QueryRow(ctx, query, userID, sourceID, ledger, int16(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account for user %s: %w", userID, err)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = $1;
	`
	m, err := scanAccountRow(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs. IDs with no
// matching row are simply absent from the result map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	ms, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}

	accountsMap := make(map[string]domain.Account, len(ms))
	for _, m := range ms {
		accountsMap[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return accountsMap, nil
}

// FindAccountsBySource retrieves every account on a source+ledger, ordered by
// creation time so aggregation output stays deterministic.
func (r *PgxAccountRepository) FindAccountsBySource(ctx context.Context, sourceID string, ledger int32) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE source_id = $1 AND ledger = $2
		ORDER BY created_at, account_id;
	`
	rows, err := r.Pool.Query(ctx, query, sourceID, ledger)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for source %s: %w", sourceID, err)
	}
	ms, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// FindAccountsByUser retrieves a user's accounts on a source+ledger.
func (r *PgxAccountRepository) FindAccountsByUser(ctx context.Context, userID, sourceID string, ledger int32) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND source_id = $2 AND ledger = $3
		ORDER BY code;
	`
	rows, err := r.Pool.Query(ctx, query, userID, sourceID, ledger)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for user %s: %w", userID, err)
	}
	ms, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// FindAccountsByIDsForUpdate retrieves multiple accounts by IDs and locks the
// rows for update. Must be called within a transaction. Rows are locked in a
// stable order (the query sorts by account_id) to avoid lock-order deadlocks
// between concurrent transfer batches.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs for update: %w", err)
	}
	ms, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}

	accountsMap := make(map[string]domain.Account, len(ms))
	for _, m := range ms {
		accountsMap[m.AccountID] = mapping.ToDomainAccount(m)
	}

	// Check if all requested accounts were found and locked
	requested := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		requested[id] = true
	}
	if len(accountsMap) != len(requested) {
		missing := []string{}
		for id := range requested {
			if _, found := accountsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}

	return accountsMap, nil
}

// ApplyCounterChangesInTx applies counter deltas to multiple accounts within
// a transaction. The rows must already be locked via
// FindAccountsByIDsForUpdate.
func (r *PgxAccountRepository) ApplyCounterChangesInTx(ctx context.Context, tx pgx.Tx, changes map[string]domain.CounterChange, userID string, now time.Time) error {
	if len(changes) == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET debits_posted = debits_posted + $2,
			credits_posted = credits_posted + $3,
			debits_pending = debits_pending + $4,
			credits_pending = credits_pending + $5,
			last_updated_at = $6,
			last_updated_by = $7
		WHERE account_id = $1;
	`

	batch := &pgx.Batch{}
	accountIDs := make([]string, 0, len(changes))
	for accountID, change := range changes {
		if change.IsZero() {
			continue
		}
		batch.Queue(query, accountID, change.DebitsPosted, change.CreditsPosted, change.DebitsPending, change.CreditsPending, now, userID)
		accountIDs = append(accountIDs, accountID)
	}

	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update counters for account %s: %w", accountIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 {
			if batchErr == nil {
				batchErr = fmt.Errorf("%w: account %s not found during counter update", apperrors.ErrNotFound, accountIDs[i])
			}
		}
	}

	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close counter update batch: %w", err)
	}
	return batchErr
}
