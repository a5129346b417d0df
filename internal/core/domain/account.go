package domain

import (
	"github.com/shopspring/decimal"
)

// AccountCode identifies the side of the ledger an account lives on.
// The numeric values are part of the persisted schema and must not change.
type AccountCode int16

const (
	AccountCodeAsset     AccountCode = 100
	AccountCodeLiability AccountCode = 200
)

// Valid reports whether the code is one of the known account codes.
func (c AccountCode) Valid() bool {
	return c == AccountCodeAsset || c == AccountCodeLiability
}

func (c AccountCode) String() string {
	switch c {
	case AccountCodeAsset:
		return "ASSET"
	case AccountCodeLiability:
		return "LIABILITY"
	}
	return "UNKNOWN"
}

// Account is a per-user, per-source, per-ledger balance record. Exactly one
// ASSET and one LIABILITY account exist per (user, source, ledger) key.
//
// The four counters are monotonically increasing; they are only ever moved
// down by the paired pending->posted/void transition. Balances are derived,
// never stored.
type Account struct {
	AccountID      string          `json:"accountID"` // Primary key (UUID)
	UserID         string          `json:"userID"`
	SourceID       string          `json:"sourceID"` // Chat group or DM the account belongs to
	Ledger         int32           `json:"ledger"`   // Currency ledger id (ISO-4217 numeric)
	Code           AccountCode     `json:"code"`
	DebitsPosted   decimal.Decimal `json:"debitsPosted"`
	CreditsPosted  decimal.Decimal `json:"creditsPosted"`
	DebitsPending  decimal.Decimal `json:"debitsPending"`
	CreditsPending decimal.Decimal `json:"creditsPending"`
	AuditFields
}

// UserAccounts is the ASSET/LIABILITY account pair a user holds on one
// source+ledger.
type UserAccounts struct {
	Asset     Account `json:"asset"`
	Liability Account `json:"liability"`
}

// CounterChange is the set of deltas a transfer batch applies to one
// account's monotonic counters. Pending decrements only ever appear as the
// paired half of a post/void transition.
type CounterChange struct {
	DebitsPosted   decimal.Decimal
	CreditsPosted  decimal.Decimal
	DebitsPending  decimal.Decimal
	CreditsPending decimal.Decimal
}

// Add merges another change into the receiver.
func (c CounterChange) Add(o CounterChange) CounterChange {
	return CounterChange{
		DebitsPosted:   c.DebitsPosted.Add(o.DebitsPosted),
		CreditsPosted:  c.CreditsPosted.Add(o.CreditsPosted),
		DebitsPending:  c.DebitsPending.Add(o.DebitsPending),
		CreditsPending: c.CreditsPending.Add(o.CreditsPending),
	}
}

// IsZero reports whether every counter delta is zero.
func (c CounterChange) IsZero() bool {
	return c.DebitsPosted.IsZero() && c.CreditsPosted.IsZero() &&
		c.DebitsPending.IsZero() && c.CreditsPending.IsZero()
}

// Balance derives the posted balance for the account.
// ASSET: credits - debits (positive = amount owed to this user).
// LIABILITY: debits - credits (positive = amount this user owes).
func (a Account) Balance() decimal.Decimal {
	if a.Code == AccountCodeAsset {
		return a.CreditsPosted.Sub(a.DebitsPosted)
	}
	return a.DebitsPosted.Sub(a.CreditsPosted)
}

// PendingBalance derives the balance of the pending counters with the same
// sign convention as Balance.
func (a Account) PendingBalance() decimal.Decimal {
	if a.Code == AccountCodeAsset {
		return a.CreditsPending.Sub(a.DebitsPending)
	}
	return a.DebitsPending.Sub(a.CreditsPending)
}
