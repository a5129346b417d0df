package dto

import (
	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UserBalanceResponse is one user's position on a currency ledger.
type UserBalanceResponse struct {
	UserID       string          `json:"userID"`
	SourceID     string          `json:"sourceID"`
	CurrencyCode string          `json:"currencyCode"`
	Asset        decimal.Decimal `json:"asset"`
	Liability    decimal.Decimal `json:"liability"`
	Net          decimal.Decimal `json:"net"`
}

// MemberBalanceResponse is one member's net position within a source.
type MemberBalanceResponse struct {
	UserID string          `json:"userID"`
	Net    decimal.Decimal `json:"net"`
}

// GroupBalancesResponse lists every member's net position on one ledger.
type GroupBalancesResponse struct {
	SourceID     string                  `json:"sourceID"`
	CurrencyCode string                  `json:"currencyCode"`
	Balances     []MemberBalanceResponse `json:"balances"`
}

// DebtResponse is one leg of a settlement plan.
type DebtResponse struct {
	FromUserID string          `json:"fromUserID"`
	ToUserID   string          `json:"toUserID"`
	Amount     decimal.Decimal `json:"amount"`
}

// DebtsResponse is the minimal set of payments that settles a source.
type DebtsResponse struct {
	SourceID     string         `json:"sourceID"`
	CurrencyCode string         `json:"currencyCode"`
	Debts        []DebtResponse `json:"debts"`
}

// ExpenseSettledResponse reports whether an expense has been fully repaid.
type ExpenseSettledResponse struct {
	ExpenseID string          `json:"expenseID"`
	Settled   bool            `json:"settled"`
	Remaining decimal.Decimal `json:"remaining"`
}

// ToUserBalanceResponse converts a domain UserBalance.
func ToUserBalanceResponse(b domain.UserBalance, currencyCode string) UserBalanceResponse {
	return UserBalanceResponse{
		UserID:       b.UserID,
		SourceID:     b.SourceID,
		CurrencyCode: currencyCode,
		Asset:        b.Asset,
		Liability:    b.Liability,
		Net:          b.Net,
	}
}

// ToGroupBalancesResponse converts member balances for one source+ledger.
func ToGroupBalancesResponse(sourceID, currencyCode string, balances []domain.MemberBalance) GroupBalancesResponse {
	resp := GroupBalancesResponse{SourceID: sourceID, CurrencyCode: currencyCode}
	for _, b := range balances {
		resp.Balances = append(resp.Balances, MemberBalanceResponse{UserID: b.UserID, Net: b.Net})
	}
	return resp
}

// ToDebtsResponse converts a settlement plan.
func ToDebtsResponse(sourceID, currencyCode string, debts []domain.Debt) DebtsResponse {
	resp := DebtsResponse{SourceID: sourceID, CurrencyCode: currencyCode}
	for _, d := range debts {
		resp.Debts = append(resp.Debts, DebtResponse{FromUserID: d.FromUserID, ToUserID: d.ToUserID, Amount: d.Amount})
	}
	return resp
}
