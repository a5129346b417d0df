// Package netting turns a set of member net positions into a settlement plan
// with a greedy largest-debtor/largest-creditor matcher. The plan always
// zero-sums; it is not guaranteed to be the global minimum transfer count.
package netting

import (
	"sort"

	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

type party struct {
	userID string
	amount decimal.Decimal
}

// Settle computes who pays whom. Members with zero net are ignored. Ties in
// magnitude keep the original input order (stable sort).
func Settle(balances []domain.MemberBalance) []domain.Debt {
	creditors := make([]party, 0, len(balances))
	debtors := make([]party, 0, len(balances))
	for _, b := range balances {
		switch {
		case b.Net.IsPositive():
			creditors = append(creditors, party{userID: b.UserID, amount: b.Net})
		case b.Net.IsNegative():
			debtors = append(debtors, party{userID: b.UserID, amount: b.Net.Neg()})
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].amount.GreaterThan(creditors[j].amount)
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].amount.GreaterThan(debtors[j].amount)
	})

	plan := make([]domain.Debt, 0, len(debtors))
	ci, di := 0, 0
	for ci < len(creditors) && di < len(debtors) {
		amount := decimal.Min(creditors[ci].amount, debtors[di].amount)
		if amount.IsPositive() {
			plan = append(plan, domain.Debt{
				FromUserID: debtors[di].userID,
				ToUserID:   creditors[ci].userID,
				Amount:     amount,
			})
		}
		creditors[ci].amount = creditors[ci].amount.Sub(amount)
		debtors[di].amount = debtors[di].amount.Sub(amount)
		if creditors[ci].amount.IsZero() {
			ci++
		}
		if debtors[di].amount.IsZero() {
			di++
		}
	}
	return plan
}
