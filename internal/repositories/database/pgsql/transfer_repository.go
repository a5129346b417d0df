package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appclub-tech/Billog-sub001/internal/apperrors"
	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	portsrepo "github.com/appclub-tech/Billog-sub001/internal/core/ports/repositories"
	"github.com/appclub-tech/Billog-sub001/internal/models"
	"github.com/appclub-tech/Billog-sub001/internal/utils/accounting"
	"github.com/appclub-tech/Billog-sub001/internal/utils/mapping"
	"github.com/appclub-tech/Billog-sub001/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transferColumns = `transfer_id, debit_account_id, credit_account_id, amount, ledger, code, flags, expense_id, pending_id, timeout_ns, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransferRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
}

// newPgxTransferRepository creates a new repository for transfer data. It
// needs the account repository because saving transfers and moving account
// counters happen in the same transaction.
func newPgxTransferRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository) *PgxTransferRepository {
	return &PgxTransferRepository{BaseRepository: BaseRepository{Pool: pool}, accountRepo: accountRepo}
}

// Ensure PgxTransferRepository implements portsrepo.TransferRepositoryWithTx
var _ portsrepo.TransferRepositoryWithTx = (*PgxTransferRepository)(nil)

func scanTransferRow(row pgx.Row) (models.Transfer, error) {
	var m models.Transfer
	var timeoutNs *int64
	err := row.Scan(
		&m.TransferID,
		&m.DebitAccountID,
		&m.CreditAccountID,
		&m.Amount,
		&m.Ledger,
		&m.Code,
		&m.Flags,
		&m.ExpenseID,
		&m.PendingID,
		&timeoutNs,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if timeoutNs != nil {
		d := time.Duration(*timeoutNs)
		m.Timeout = &d
	}
	return m, err
}

func collectTransfers(rows pgx.Rows) ([]models.Transfer, error) {
	defer rows.Close()
	transfers := []models.Transfer{}
	for rows.Next() {
		m, err := scanTransferRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer row: %w", err)
		}
		transfers = append(transfers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfer rows: %w", err)
	}
	return transfers, nil
}

// SaveTransfers persists a transfer batch and its counter updates in one
// transaction of its own.
func (r *PgxTransferRepository) SaveTransfers(ctx context.Context, transfers []domain.Transfer) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.SaveTransfersInTx(ctx, tx, transfers); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveTransfersInTx inserts the transfer rows and applies their counter
// deltas to the involved accounts, which are locked for the duration. Every
// account must exist and live on the transfer's ledger.
func (r *PgxTransferRepository) SaveTransfersInTx(ctx context.Context, tx pgx.Tx, transfers []domain.Transfer) error {
	if len(transfers) == 0 {
		return nil
	}

	changes, err := accounting.CalculateCounterChanges(transfers)
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	accountIDs := make([]string, 0, len(changes))
	for accountID := range changes {
		accountIDs = append(accountIDs, accountID)
	}
	accounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return err
	}

	now := time.Now()
	insertQuery := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	batch := &pgx.Batch{}
	for _, t := range transfers {
		debit, okD := accounts[t.DebitAccountID]
		credit, okC := accounts[t.CreditAccountID]
		if !okD || !okC {
			return fmt.Errorf("%w: transfer %s references a missing account", apperrors.ErrNotFound, t.TransferID)
		}
		if debit.Ledger != t.Ledger || credit.Ledger != t.Ledger {
			return fmt.Errorf("%w: transfer %s crosses ledgers (debit %d, credit %d, transfer %d)", apperrors.ErrValidation, t.TransferID, debit.Ledger, credit.Ledger, t.Ledger)
		}

		m := mapping.ToModelTransfer(t)
		var timeoutNs *int64
		if m.Timeout != nil {
			ns := int64(*m.Timeout)
			timeoutNs = &ns
		}
		batch.Queue(insertQuery,
			m.TransferID,
			m.DebitAccountID,
			m.CreditAccountID,
			m.Amount,
			m.Ledger,
			m.Code,
			m.Flags,
			m.ExpenseID,
			m.PendingID,
			timeoutNs,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				batchErr = fmt.Errorf("%w: transfer %s already exists", apperrors.ErrDuplicate, transfers[i].TransferID)
			} else {
				batchErr = fmt.Errorf("failed to insert transfer %s: %w", transfers[i].TransferID, err)
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close transfer insert batch: %w", err)
	}
	if batchErr != nil {
		return batchErr
	}

	creatorID := transfers[0].CreatedBy
	return r.accountRepo.ApplyCounterChangesInTx(ctx, tx, changes, creatorID, now)
}

// FindTransferByID retrieves a transfer by its ID.
func (r *PgxTransferRepository) FindTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE transfer_id = $1;
	`
	m, err := scanTransferRow(r.Pool.QueryRow(ctx, query, transferID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transfer by ID %s: %w", transferID, err)
	}
	d := mapping.ToDomainTransfer(m)
	return &d, nil
}

// FindTransferByIDForUpdate retrieves a transfer and locks its row.
func (r *PgxTransferRepository) FindTransferByIDForUpdate(ctx context.Context, tx pgx.Tx, transferID string) (*domain.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE transfer_id = $1
		FOR UPDATE;
	`
	m, err := scanTransferRow(tx.QueryRow(ctx, query, transferID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock transfer %s: %w", transferID, err)
	}
	d := mapping.ToDomainTransfer(m)
	return &d, nil
}

// FindTransfersByPendingID retrieves post/void transfers referencing a
// pending parent, within the given transaction.
func (r *PgxTransferRepository) FindTransfersByPendingID(ctx context.Context, tx pgx.Tx, pendingID string) ([]domain.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE pending_id = $1
		ORDER BY created_at, transfer_id;
	`
	rows, err := tx.Query(ctx, query, pendingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers by pending ID %s: %w", pendingID, err)
	}
	ms, err := collectTransfers(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainTransferSlice(ms), nil
}

// FindTransfersByExpenseID retrieves all transfers tied to an expense,
// ordered by creation time.
func (r *PgxTransferRepository) FindTransfersByExpenseID(ctx context.Context, expenseID string) ([]domain.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE expense_id = $1
		ORDER BY created_at, transfer_id;
	`
	rows, err := r.Pool.Query(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers by expense ID %s: %w", expenseID, err)
	}
	ms, err := collectTransfers(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainTransferSlice(ms), nil
}

// ListTransfersBySource retrieves a keyset-paginated transfer history for a
// source+ledger, newest first. The debit account carries the source; both
// sides of a transfer always belong to the same source.
func (r *PgxTransferRepository) ListTransfersBySource(ctx context.Context, sourceID string, ledger int32, limit int, nextToken *string) ([]domain.Transfer, *string, error) {
	args := []interface{}{sourceID, ledger, limit + 1}
	query := `
		SELECT t.` + transferColumnsAliased("t") + `
		FROM transfers t
		JOIN accounts a ON a.account_id = t.debit_account_id
		WHERE a.source_id = $1 AND t.ledger = $2
	`
	if nextToken != nil && *nextToken != "" {
		createdAt, transferID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (t.created_at, t.transfer_id) < ($4, $5)`
		args = append(args, createdAt, transferID)
	}
	query += `
		ORDER BY t.created_at DESC, t.transfer_id DESC
		LIMIT $3;
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transfers for source %s: %w", sourceID, err)
	}
	ms, err := collectTransfers(rows)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.TransferID)
		token = &t
	}
	return mapping.ToDomainTransferSlice(ms), token, nil
}

// transferColumnsAliased prefixes every transfer column with the given table
// alias for use in joins.
func transferColumnsAliased(alias string) string {
	cols := ""
	for i, c := range []string{"transfer_id", "debit_account_id", "credit_account_id", "amount", "ledger", "code", "flags", "expense_id", "pending_id", "timeout_ns", "created_at", "created_by", "last_updated_at", "last_updated_by"} {
		if i > 0 {
			cols += ", " + alias + "."
		}
		cols += c
	}
	return cols
}
