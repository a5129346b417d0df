// Package splitting converts an expense amount plus a split policy into the
// per-user owed amounts. All arithmetic happens in integral minor units of the
// expense currency so that owed amounts always reconcile with the total.
package splitting

import (
	"fmt"

	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Share is one user's owed amount. Shares keep the deterministic iteration
// order the remainder rule depends on.
type Share struct {
	UserID string
	Amount decimal.Decimal
}

// Input is everything the calculator needs. Participants and target user ids
// are already resolved to opaque user ids by the member-resolution layer
// (@all, nicknames and raw channel ids never reach this package).
type Input struct {
	Total        decimal.Decimal
	Exponent     int32 // Currency minor-unit digits
	Policy       domain.SplitPolicy
	PayerID      string
	Participants []string
	Targets      []domain.SplitTarget
	Items        []domain.Item
}

var hundred = decimal.NewFromInt(100)

// Compute returns the owed amount per non-payer participant. The payer's own
// share is implicit: whatever part of the total is not owed by others.
func Compute(in Input) ([]Share, error) {
	if in.Total.IsNegative() {
		return nil, fmt.Errorf("expense total must be non-negative, got %s", in.Total.String())
	}
	totalMU, err := toMinorUnits(in.Total, in.Exponent)
	if err != nil {
		return nil, fmt.Errorf("expense total: %w", err)
	}

	var shares []Share
	switch in.Policy {
	case domain.SplitEqual:
		shares, err = computeEqual(in, totalMU)
	case domain.SplitExact:
		shares, err = computeExact(in)
	case domain.SplitPercentage:
		shares, err = computePercentage(in, totalMU)
	case domain.SplitItem:
		shares, err = computeItem(in)
	default:
		return nil, fmt.Errorf("unknown split policy %q", in.Policy)
	}
	if err != nil {
		return nil, err
	}
	return dropPayerAndZeroes(shares, in.PayerID, in.Exponent), nil
}

// ToMap flattens shares into a userID -> amount mapping.
func ToMap(shares []Share) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(shares))
	for _, s := range shares {
		m[s.UserID] = s.Amount
	}
	return m
}

func computeEqual(in Input, totalMU int64) ([]Share, error) {
	// The dividing pool is the explicit target list when given, otherwise the
	// full participant list. The payer always counts toward the denominator.
	pool := make([]string, 0, len(in.Participants)+1)
	if len(in.Targets) > 0 {
		for _, t := range in.Targets {
			pool = append(pool, t.UserID)
		}
	} else {
		pool = append(pool, in.Participants...)
	}
	pool = uniqueStrings(pool)
	if !containsString(pool, in.PayerID) {
		pool = append(pool, in.PayerID)
	}
	if len(pool) < 2 {
		return nil, fmt.Errorf("equal split needs at least two participants including the payer")
	}
	return divideEvenly(totalMU, pool, in.Exponent), nil
}

func computeExact(in Input) ([]Share, error) {
	if len(in.Targets) == 0 {
		return nil, fmt.Errorf("exact split needs at least one target with an amount")
	}
	sum := decimal.Zero
	shares := make([]Share, 0, len(in.Targets))
	seen := make(map[string]struct{}, len(in.Targets))
	for _, t := range in.Targets {
		if t.Amount == nil {
			return nil, fmt.Errorf("exact split target %s has no amount", t.UserID)
		}
		if t.Amount.IsNegative() {
			return nil, fmt.Errorf("exact split target %s has negative amount %s", t.UserID, t.Amount.String())
		}
		if _, err := toMinorUnits(*t.Amount, in.Exponent); err != nil {
			return nil, fmt.Errorf("exact split target %s: %w", t.UserID, err)
		}
		if _, dup := seen[t.UserID]; dup {
			return nil, fmt.Errorf("exact split target %s appears more than once", t.UserID)
		}
		seen[t.UserID] = struct{}{}
		sum = sum.Add(*t.Amount)
		shares = append(shares, Share{UserID: t.UserID, Amount: *t.Amount})
	}
	// Excess over the total is an error condition, never silently absorbed.
	if sum.GreaterThan(in.Total) {
		return nil, fmt.Errorf("exact split amounts sum to %s which exceeds the total %s", sum.String(), in.Total.String())
	}
	return shares, nil
}

func computePercentage(in Input, totalMU int64) ([]Share, error) {
	if len(in.Targets) == 0 {
		return nil, fmt.Errorf("percentage split needs at least one target with a percentage")
	}
	pctSum := decimal.Zero
	seen := make(map[string]struct{}, len(in.Targets))
	for _, t := range in.Targets {
		if t.Percent == nil {
			return nil, fmt.Errorf("percentage split target %s has no percentage", t.UserID)
		}
		if t.Percent.IsNegative() || t.Percent.GreaterThan(hundred) {
			return nil, fmt.Errorf("percentage split target %s has percentage %s outside 0-100", t.UserID, t.Percent.String())
		}
		if _, dup := seen[t.UserID]; dup {
			return nil, fmt.Errorf("percentage split target %s appears more than once", t.UserID)
		}
		seen[t.UserID] = struct{}{}
		pctSum = pctSum.Add(*t.Percent)
	}
	if pctSum.GreaterThan(hundred) {
		return nil, fmt.Errorf("percentages sum to %s which exceeds 100", pctSum.String())
	}

	total := decimal.NewFromInt(totalMU)
	// Allocated amount in minor units; exact when percentages sum to 100.
	allocatedMU := total.Mul(pctSum).Div(hundred).Round(0).IntPart()

	baseSum := int64(0)
	bases := make([]int64, len(in.Targets))
	for i, t := range in.Targets {
		bases[i] = total.Mul(*t.Percent).Div(hundred).Floor().IntPart()
		baseSum += bases[i]
	}

	// Leftover minor units from flooring go to the earliest targets so the
	// allocated sum is met exactly.
	remainder := allocatedMU - baseSum
	shares := make([]Share, len(in.Targets))
	for i, t := range in.Targets {
		mu := bases[i]
		if remainder > 0 {
			mu++
			remainder--
		}
		shares[i] = Share{UserID: t.UserID, Amount: fromMinorUnits(mu, in.Exponent)}
	}
	return shares, nil
}

func computeItem(in Input) ([]Share, error) {
	participants := uniqueStrings(in.Participants)
	if !containsString(participants, in.PayerID) {
		participants = append(participants, in.PayerID)
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("item split needs at least one participant")
	}

	owedMU := make(map[string]int64, len(participants))
	order := make([]string, 0, len(participants))
	record := func(userID string, mu int64) {
		if _, ok := owedMU[userID]; !ok {
			order = append(order, userID)
		}
		owedMU[userID] += mu
	}

	for _, item := range in.Items {
		itemMU, err := toMinorUnits(item.Total, in.Exponent)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", item.ItemID, err)
		}
		assignees := uniqueStrings(item.AssigneeIDs)
		if len(assignees) == 0 {
			// Unassigned items are shared by everyone.
			assignees = participants
		}
		for _, s := range divideEvenly(itemMU, assignees, in.Exponent) {
			mu, err := toMinorUnits(s.Amount, in.Exponent)
			if err != nil {
				return nil, err
			}
			record(s.UserID, mu)
		}
	}

	shares := make([]Share, 0, len(order))
	for _, userID := range order {
		shares = append(shares, Share{UserID: userID, Amount: fromMinorUnits(owedMU[userID], in.Exponent)})
	}
	return shares, nil
}

// divideEvenly splits totalMU minor units across users; the remainder of the
// integer division is handed out one unit at a time to the earliest users so
// the shares always sum back to totalMU.
func divideEvenly(totalMU int64, users []string, exponent int32) []Share {
	n := int64(len(users))
	base := totalMU / n
	remainder := totalMU % n
	shares := make([]Share, len(users))
	for i, userID := range users {
		mu := base
		if int64(i) < remainder {
			mu++
		}
		shares[i] = Share{UserID: userID, Amount: fromMinorUnits(mu, exponent)}
	}
	return shares
}

func dropPayerAndZeroes(shares []Share, payerID string, exponent int32) []Share {
	out := make([]Share, 0, len(shares))
	for _, s := range shares {
		if s.UserID == payerID || s.Amount.IsZero() {
			continue
		}
		out = append(out, Share{UserID: s.UserID, Amount: s.Amount.Round(exponent)})
	}
	return out
}

// toMinorUnits converts an amount to integral minor units, rejecting values
// with more precision than the currency carries.
func toMinorUnits(d decimal.Decimal, exponent int32) (int64, error) {
	shifted := d.Shift(exponent)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("amount %s has more precision than the currency's %d minor-unit digits", d.String(), exponent)
	}
	return shifted.IntPart(), nil
}

func fromMinorUnits(mu int64, exponent int32) decimal.Decimal {
	return decimal.NewFromInt(mu).Shift(-exponent)
}

func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
