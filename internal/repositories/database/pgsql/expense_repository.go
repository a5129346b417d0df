package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/appclub-tech/Billog-sub001/internal/apperrors"
	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	portsrepo "github.com/appclub-tech/Billog-sub001/internal/core/ports/repositories"
	"github.com/appclub-tech/Billog-sub001/internal/models"
	"github.com/appclub-tech/Billog-sub001/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const expenseColumns = `expense_id, source_id, payer_id, total, currency_code, ledger, split_policy, participant_ids, category, description, created_at, created_by, last_updated_at, last_updated_by`
const itemColumns = `item_id, expense_id, name, quantity, price, total, assignee_ids, created_at, created_by, last_updated_at, last_updated_by`

type PgxExpenseRepository struct {
	BaseRepository
}

// newPgxExpenseRepository creates a new repository for expense data.
func newPgxExpenseRepository(pool *pgxpool.Pool) *PgxExpenseRepository {
	return &PgxExpenseRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxExpenseRepository implements portsrepo.ExpenseRepositoryWithTx
var _ portsrepo.ExpenseRepositoryWithTx = (*PgxExpenseRepository)(nil)

func scanExpenseRow(row pgx.Row) (models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.SourceID,
		&m.PayerID,
		&m.Total,
		&m.CurrencyCode,
		&m.Ledger,
		&m.SplitPolicy,
		&m.ParticipantIDs,
		&m.Category,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PgxExpenseRepository) findItems(ctx context.Context, q rowQuerier, expenseID string) ([]models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM expense_items
		WHERE expense_id = $1
		ORDER BY created_at, item_id;
	`
	rows, err := q.Query(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for expense %s: %w", expenseID, err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var m models.Item
		err := rows.Scan(
			&m.ItemID,
			&m.ExpenseID,
			&m.Name,
			&m.Quantity,
			&m.Price,
			&m.Total,
			&m.AssigneeIDs,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}
	return items, nil
}

// FindExpenseByID retrieves an expense with its items.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE expense_id = $1;
	`
	m, err := scanExpenseRow(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by ID %s: %w", expenseID, err)
	}

	items, err := r.findItems(ctx, r.Pool, expenseID)
	if err != nil {
		return nil, err
	}

	d := mapping.ToDomainExpense(m)
	d.Items = mapping.ToDomainItemSlice(items)
	return &d, nil
}

// FindExpenseByIDForUpdate retrieves an expense with its items and locks the
// expense row. Must be called within a transaction.
func (r *PgxExpenseRepository) FindExpenseByIDForUpdate(ctx context.Context, tx pgx.Tx, expenseID string) (*domain.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE expense_id = $1
		FOR UPDATE;
	`
	m, err := scanExpenseRow(tx.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock expense %s: %w", expenseID, err)
	}

	items, err := r.findItems(ctx, tx, expenseID)
	if err != nil {
		return nil, err
	}

	d := mapping.ToDomainExpense(m)
	d.Items = mapping.ToDomainItemSlice(items)
	return &d, nil
}

// SaveExpenseInTx persists an expense and its items within the given
// transaction.
func (r *PgxExpenseRepository) SaveExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense, items []domain.Item) error {
	m := mapping.ToModelExpense(expense)

	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		m.ExpenseID,
		m.SourceID,
		m.PayerID,
		m.Total,
		m.CurrencyCode,
		m.Ledger,
		m.SplitPolicy,
		m.ParticipantIDs,
		m.Category,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: expense %s already exists", apperrors.ErrDuplicate, m.ExpenseID)
		}
		return fmt.Errorf("failed to save expense %s: %w", m.ExpenseID, err)
	}

	return r.insertItems(ctx, tx, expense.ExpenseID, items)
}

// ReplaceItemsInTx replaces an expense's item set within the given
// transaction.
func (r *PgxExpenseRepository) ReplaceItemsInTx(ctx context.Context, tx pgx.Tx, expenseID string, items []domain.Item) error {
	if _, err := tx.Exec(ctx, `DELETE FROM expense_items WHERE expense_id = $1;`, expenseID); err != nil {
		return fmt.Errorf("failed to clear items for expense %s: %w", expenseID, err)
	}
	return r.insertItems(ctx, tx, expenseID, items)
}

func (r *PgxExpenseRepository) insertItems(ctx context.Context, tx pgx.Tx, expenseID string, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO expense_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, it := range items {
		m := mapping.ToModelItem(it)
		batch.Queue(query,
			m.ItemID,
			expenseID,
			m.Name,
			m.Quantity,
			m.Price,
			m.Total,
			m.AssigneeIDs,
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
			batchErr = fmt.Errorf("failed to insert item %s: %w", items[i].ItemID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close item insert batch: %w", err)
	}
	return batchErr
}

// UpdateExpenseInTx updates an expense's total, participants, category and
// description within the given transaction.
func (r *PgxExpenseRepository) UpdateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)

	query := `
		UPDATE expenses
		SET total = $2,
			participant_ids = $3,
			category = $4,
			description = $5,
			last_updated_at = $6,
			last_updated_by = $7
		WHERE expense_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.ExpenseID,
		m.Total,
		m.ParticipantIDs,
		m.Category,
		m.Description,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense %s: %w", m.ExpenseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
