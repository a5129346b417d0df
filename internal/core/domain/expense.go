package domain

import (
	"github.com/shopspring/decimal"
)

// SplitPolicy selects how an expense amount is divided among participants.
type SplitPolicy string

const (
	SplitEqual      SplitPolicy = "EQUAL"
	SplitExact      SplitPolicy = "EXACT"
	SplitPercentage SplitPolicy = "PERCENTAGE"
	SplitItem       SplitPolicy = "ITEM"
)

// Valid reports whether the policy is one of the known split policies.
func (p SplitPolicy) Valid() bool {
	switch p {
	case SplitEqual, SplitExact, SplitPercentage, SplitItem:
		return true
	}
	return false
}

// SplitTarget names a participant who owes part of an expense. Amount is set
// for EXACT splits, Percent for PERCENTAGE splits; both are nil otherwise.
type SplitTarget struct {
	UserID  string           `json:"userID"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	Percent *decimal.Decimal `json:"percent,omitempty"`
}

// Item is a single line item of an expense. An item with no assignees is
// shared equally by all participants.
type Item struct {
	ItemID      string          `json:"itemID"` // Primary key (UUID)
	ExpenseID   string          `json:"expenseID"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"` // quantity * price
	AssigneeIDs []string        `json:"assigneeIDs"`
	AuditFields
}

// Expense is the ledger's view of a recorded group expense. The surrounding
// chatbot/OCR layers construct it; the ledger owns its persisted items and
// total so that reconciliation can reload and rewrite them.
type Expense struct {
	ExpenseID    string          `json:"expenseID"` // Primary key (UUID)
	SourceID     string          `json:"sourceID"`
	PayerID      string          `json:"payerID"`
	Total        decimal.Decimal `json:"total"`
	CurrencyCode string          `json:"currencyCode"`
	Ledger       int32           `json:"ledger"`
	SplitPolicy  SplitPolicy     `json:"splitPolicy"`
	// ParticipantIDs is the sharing pool the split was computed over,
	// including the payer. Reconciliation recomputes against it.
	ParticipantIDs []string `json:"participantIDs"`
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	Items          []Item   `json:"items,omitempty"`
	AuditFields
}
