package models

import "github.com/shopspring/decimal"

// SplitPolicy is the persisted split policy discriminator.
type SplitPolicy string

// Expense mirrors the expenses table. ParticipantIDs is stored as a text array.
type Expense struct {
	ExpenseID      string          `json:"expenseID"`
	SourceID       string          `json:"sourceID"`
	PayerID        string          `json:"payerID"`
	Total          decimal.Decimal `json:"total"`
	CurrencyCode   string          `json:"currencyCode"`
	Ledger         int32           `json:"ledger"`
	SplitPolicy    SplitPolicy     `json:"splitPolicy"`
	ParticipantIDs []string        `json:"participantIDs"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	AuditFields
}

// Item mirrors the expense_items table. AssigneeIDs is stored as a text array.
type Item struct {
	ItemID      string          `json:"itemID"`
	ExpenseID   string          `json:"expenseID"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	AssigneeIDs []string        `json:"assigneeIDs"`
	AuditFields
}
