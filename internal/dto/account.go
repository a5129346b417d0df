package dto

import (
	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EnsureMemberRequest registers a user into a source, creating their account
// pair for the given currency if it does not exist yet.
type EnsureMemberRequest struct {
	UserID       string `json:"userID" binding:"required"`
	CurrencyCode string `json:"currencyCode" binding:"required,len=3"`
}

// AccountResponse is the API representation of one ledger account.
type AccountResponse struct {
	AccountID      string          `json:"accountID"`
	UserID         string          `json:"userID"`
	SourceID       string          `json:"sourceID"`
	Ledger         int32           `json:"ledger"`
	Code           string          `json:"code"`
	DebitsPosted   decimal.Decimal `json:"debitsPosted"`
	CreditsPosted  decimal.Decimal `json:"creditsPosted"`
	DebitsPending  decimal.Decimal `json:"debitsPending"`
	CreditsPending decimal.Decimal `json:"creditsPending"`
	Balance        decimal.Decimal `json:"balance"`
}

// MemberAccountsResponse is the account pair returned by member registration.
type MemberAccountsResponse struct {
	Asset     AccountResponse `json:"asset"`
	Liability AccountResponse `json:"liability"`
}

// ToAccountResponse converts a domain Account to its API representation.
func ToAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      a.AccountID,
		UserID:         a.UserID,
		SourceID:       a.SourceID,
		Ledger:         a.Ledger,
		Code:           a.Code.String(),
		DebitsPosted:   a.DebitsPosted,
		CreditsPosted:  a.CreditsPosted,
		DebitsPending:  a.DebitsPending,
		CreditsPending: a.CreditsPending,
		Balance:        a.Balance(),
	}
}

// ToMemberAccountsResponse converts a domain account pair.
func ToMemberAccountsResponse(p domain.UserAccounts) MemberAccountsResponse {
	return MemberAccountsResponse{
		Asset:     ToAccountResponse(p.Asset),
		Liability: ToAccountResponse(p.Liability),
	}
}
