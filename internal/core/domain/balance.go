package domain

import "github.com/shopspring/decimal"

// UserBalance is a single user's position on one currency ledger.
// Net = Asset - Liability.
type UserBalance struct {
	UserID    string          `json:"userID"`
	SourceID  string          `json:"sourceID"`
	Ledger    int32           `json:"ledger"`
	Asset     decimal.Decimal `json:"asset"`
	Liability decimal.Decimal `json:"liability"`
	Net       decimal.Decimal `json:"net"`
}

// MemberBalance is one member's net position within a source.
type MemberBalance struct {
	UserID string          `json:"userID"`
	Net    decimal.Decimal `json:"net"`
}

// Debt is one leg of a settlement plan: FromUserID pays ToUserID.
type Debt struct {
	FromUserID string          `json:"fromUserID"`
	ToUserID   string          `json:"toUserID"`
	Amount     decimal.Decimal `json:"amount"`
}
