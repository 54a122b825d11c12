package service

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitly/internal/calculator"
	"github.com/mmynk/splitly/internal/models"
	api "github.com/mmynk/splitly/pkg/api"
)

// round2 rounds an amount to cents for display. Computation always uses the
// unrounded values. Non-finite values are returned unchanged.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

func groupToAPI(g *models.Group) *api.Group {
	return &api.Group{
		Id:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
	}
}

func memberToAPI(m *models.Member) *api.Member {
	return &api.Member{
		Id:   m.ID,
		Name: m.Name,
	}
}

func expenseToAPI(e *models.Expense) *api.Expense {
	participants := make([]string, len(e.Participants))
	copy(participants, e.Participants)
	return &api.Expense{
		Id:           e.ID,
		Description:  e.Description,
		Amount:       round2(e.Amount),
		PaidBy:       e.PaidBy,
		Participants: participants,
		Category:     e.Category,
		CreatedAt:    e.CreatedAt,
	}
}

func balancesToAPI(balances []calculator.MemberBalance) []*api.MemberBalance {
	out := make([]*api.MemberBalance, len(balances))
	for i, b := range balances {
		out[i] = &api.MemberBalance{
			Name:  b.Name,
			Paid:  round2(b.Paid),
			Split: round2(b.Split),
			Net:   round2(b.Net),
		}
	}
	return out
}

func transactionsToAPI(txns []calculator.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txns))
	for i, t := range txns {
		out[i] = &api.Transaction{
			From:   t.From,
			To:     t.To,
			Amount: round2(t.Amount),
		}
	}
	return out
}

// summaryToAPI converts a summary; balances supply the top payers.
func summaryToAPI(s calculator.Summary, balances []calculator.MemberBalance) *api.Summary {
	out := &api.Summary{
		Total:      round2(s.Total),
		Count:      int32(s.Count),
		Average:    round2(s.Average),
		Largest:    round2(s.Largest),
		ByCategory: make([]api.CategoryTotal, len(s.ByCategory)),
		TopPayers:  []string{},
	}
	for i, c := range s.ByCategory {
		out.ByCategory[i] = api.CategoryTotal{Category: c.Category, Total: round2(c.Total)}
	}
	for _, b := range calculator.RankByPaid(balances) {
		if b.Paid <= 0 {
			break
		}
		out.TopPayers = append(out.TopPayers, b.Name)
	}
	return out
}
