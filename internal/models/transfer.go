package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferCode is the persisted numeric business classification of a transfer.
type TransferCode int16

const (
	TransferCodeExpenseSplit TransferCode = 1
	TransferCodeSettlement   TransferCode = 2
	TransferCodeAdjustment   TransferCode = 3
)

// TransferFlags is the persisted two-phase lifecycle bitfield.
type TransferFlags int16

// Transfer mirrors the transfers table. Rows are append-only.
type Transfer struct {
	TransferID      string          `json:"transferID"`
	DebitAccountID  string          `json:"debitAccountID"`
	CreditAccountID string          `json:"creditAccountID"`
	Amount          decimal.Decimal `json:"amount"`
	Ledger          int32           `json:"ledger"`
	Code            TransferCode    `json:"code"`
	Flags           TransferFlags   `json:"flags"`
	ExpenseID       *string         `json:"expenseID,omitempty"`
	PendingID       *string         `json:"pendingID,omitempty"`
	Timeout         *time.Duration  `json:"timeout,omitempty"`
	AuditFields
}
