package models

import "github.com/shopspring/decimal"

// AccountCode is the persisted numeric account type discriminator.
type AccountCode int16

const (
	AccountCodeAsset     AccountCode = 100
	AccountCodeLiability AccountCode = 200
)

// Account mirrors the accounts table. One ASSET and one LIABILITY row exist
// per (user, source, ledger) key; counters only ever grow.
type Account struct {
	AccountID      string          `json:"accountID"`
	UserID         string          `json:"userID"`
	SourceID       string          `json:"sourceID"`
	Ledger         int32           `json:"ledger"`
	Code           AccountCode     `json:"code"`
	DebitsPosted   decimal.Decimal `json:"debitsPosted"`
	CreditsPosted  decimal.Decimal `json:"creditsPosted"`
	DebitsPending  decimal.Decimal `json:"debitsPending"`
	CreditsPending decimal.Decimal `json:"creditsPending"`
	AuditFields
}
