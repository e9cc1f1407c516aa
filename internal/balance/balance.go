// Package balance computes per-member balances for a group's expense ledger.
// It is a pure function of its inputs: no storage access, no caching, no
// state between calls.
package balance

import (
	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/models"
)

// Compute derives each member's paid/owed/net position plus the group total.
//
// Every expense is split evenly across the current member set, regardless of
// who was a member when the expense was recorded. An expense whose payer is
// not in the member set still contributes to every member's owed share and
// to the total, but to nobody's paid sum.
//
// Amounts are accumulated as decimals and rounded once at the end to two
// places with banker's rounding (round half to even). Balance is derived
// from the rounded paid/owed so balance == owed - paid holds exactly on the
// returned values.
func Compute(members []models.GroupMember, expenses []models.Expense) ([]models.MemberBalance, float64) {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}

	if len(members) == 0 {
		return []models.MemberBalance{}, round2(total)
	}

	paid := make(map[string]decimal.Decimal, len(members))
	owed := make(map[string]decimal.Decimal, len(members))
	for _, m := range members {
		paid[m.ID] = decimal.Zero
		owed[m.ID] = decimal.Zero
	}

	count := decimal.NewFromInt(int64(len(members)))
	for _, e := range expenses {
		amount := decimal.NewFromFloat(e.Amount)
		share := amount.Div(count)
		for _, m := range members {
			owed[m.ID] = owed[m.ID].Add(share)
		}
		if _, ok := paid[e.PayerID]; ok {
			paid[e.PayerID] = paid[e.PayerID].Add(amount)
		}
	}

	balances := make([]models.MemberBalance, 0, len(members))
	for _, m := range members {
		p := paid[m.ID].RoundBank(2)
		o := owed[m.ID].RoundBank(2)
		balances = append(balances, models.MemberBalance{
			UserID:  m.ID,
			Name:    m.Name,
			Email:   m.Email,
			Paid:    p.InexactFloat64(),
			Owed:    o.InexactFloat64(),
			Balance: o.Sub(p).InexactFloat64(),
		})
	}
	return balances, round2(total)
}

func round2(d decimal.Decimal) float64 {
	return d.RoundBank(2).InexactFloat64()
}
