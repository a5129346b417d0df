package services

import (
	"context"

	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
)

// ReconciliationSvcFacade defines the post-hoc expense correction flow.
type ReconciliationSvcFacade interface {
	// ReconcileExpense applies a batch of adjustments to a recorded expense,
	// recomputes everyone's share and posts compensating ADJUSTMENT transfers
	// for the deltas. The expense rewrite and the adjustment transfers land
	// in one transaction. When the corrections change no share, no transfers
	// are posted.
	ReconcileExpense(ctx context.Context, expenseID string, adjustments []domain.Adjustment, creatorID string) (*domain.Expense, []domain.Transfer, error)
}
