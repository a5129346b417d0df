package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferCode classifies the business meaning of a transfer.
// The numeric values are part of the persisted schema and must not change.
type TransferCode int16

const (
	TransferCodeExpenseSplit TransferCode = 1
	TransferCodeSettlement   TransferCode = 2
	TransferCodeAdjustment   TransferCode = 3
)

// Valid reports whether the code is one of the known transfer codes.
func (c TransferCode) Valid() bool {
	switch c {
	case TransferCodeExpenseSplit, TransferCodeSettlement, TransferCodeAdjustment:
		return true
	}
	return false
}

func (c TransferCode) String() string {
	switch c {
	case TransferCodeExpenseSplit:
		return "EXPENSE_SPLIT"
	case TransferCodeSettlement:
		return "SETTLEMENT"
	case TransferCodeAdjustment:
		return "ADJUSTMENT"
	}
	return "UNKNOWN"
}

// TransferFlags marks the two-phase lifecycle stage of a transfer row.
type TransferFlags int16

const (
	// FlagPending posts into the pending counters instead of the posted ones.
	FlagPending TransferFlags = 1 << 0
	// FlagPostPending moves a pending amount into the posted counters.
	FlagPostPending TransferFlags = 1 << 1
	// FlagVoidPending reverses a pending amount without touching posted counters.
	FlagVoidPending TransferFlags = 1 << 2
)

// Has reports whether flag is set.
func (f TransferFlags) Has(flag TransferFlags) bool {
	return f&flag != 0
}

// Transfer is an immutable double-entry movement between two accounts.
// The debit and credit amount are always equal; corrections are new transfers,
// never mutations of existing rows.
type Transfer struct {
	TransferID      string          `json:"transferID"` // Primary key (UUID)
	DebitAccountID  string          `json:"debitAccountID"`
	CreditAccountID string          `json:"creditAccountID"`
	Amount          decimal.Decimal `json:"amount"` // Strictly positive
	Ledger          int32           `json:"ledger"`
	Code            TransferCode    `json:"code"`
	Flags           TransferFlags   `json:"flags"`
	ExpenseID       *string         `json:"expenseID,omitempty"` // Set for split/settlement/adjustment transfers tied to an expense
	PendingID       *string         `json:"pendingID,omitempty"` // Links a post/void transfer back to its pending parent
	Timeout         *time.Duration  `json:"timeout,omitempty"`   // Advisory only; the caller must act on it
	AuditFields
}
