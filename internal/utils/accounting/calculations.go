package accounting

import (
	"fmt"

	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidateTransfer checks the structural double-entry invariants of a single
// transfer before any write happens.
func ValidateTransfer(t domain.Transfer) error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("transfer %s amount must be positive, got %s", t.TransferID, t.Amount.String())
	}
	if t.DebitAccountID == t.CreditAccountID {
		return fmt.Errorf("transfer %s debit and credit account must differ", t.TransferID)
	}
	if !t.Code.Valid() {
		return fmt.Errorf("transfer %s has unknown code %d", t.TransferID, t.Code)
	}
	if t.Flags.Has(domain.FlagPostPending) || t.Flags.Has(domain.FlagVoidPending) {
		if t.PendingID == nil {
			return fmt.Errorf("transfer %s posts or voids a pending transfer but carries no pending id", t.TransferID)
		}
	}
	return nil
}

// CalculateCounterChanges turns a transfer batch into per-account counter
// deltas. A plain transfer increments the posted counters; a pending transfer
// increments the pending counters; post/void transfers move or release the
// pending amount. The debit and credit side always receive the same amount,
// which is what keeps the ledger zero-sum.
func CalculateCounterChanges(transfers []domain.Transfer) (map[string]domain.CounterChange, error) {
	changes := make(map[string]domain.CounterChange, len(transfers)*2)
	for _, t := range transfers {
		if err := ValidateTransfer(t); err != nil {
			return nil, err
		}
		var debit, credit domain.CounterChange
		switch {
		case t.Flags.Has(domain.FlagPending):
			debit.DebitsPending = t.Amount
			credit.CreditsPending = t.Amount
		case t.Flags.Has(domain.FlagPostPending):
			debit.DebitsPending = t.Amount.Neg()
			debit.DebitsPosted = t.Amount
			credit.CreditsPending = t.Amount.Neg()
			credit.CreditsPosted = t.Amount
		case t.Flags.Has(domain.FlagVoidPending):
			debit.DebitsPending = t.Amount.Neg()
			credit.CreditsPending = t.Amount.Neg()
		default:
			debit.DebitsPosted = t.Amount
			credit.CreditsPosted = t.Amount
		}
		changes[t.DebitAccountID] = changes[t.DebitAccountID].Add(debit)
		changes[t.CreditAccountID] = changes[t.CreditAccountID].Add(credit)
	}
	return changes, nil
}

// UserNet computes a user's net position from their account pair.
// Net = asset balance - liability balance.
func UserNet(asset, liability *domain.Account) decimal.Decimal {
	net := decimal.Zero
	if asset != nil {
		net = net.Add(asset.Balance())
	}
	if liability != nil {
		net = net.Sub(liability.Balance())
	}
	return net
}
