// Package ledger owns a snapshot of one group's members and expenses and
// derives balances, the settlement plan and spending summary from it.
//
// A Ledger never changes after New; callers build a fresh one whenever the
// underlying data changes. Cache memoizes derived reports by content.
package ledger

import (
	"github.com/mmynk/splitly/internal/calculator"
	"github.com/mmynk/splitly/internal/models"
)

// Report bundles everything derived from a ledger.
type Report struct {
	// Balances are in member order.
	Balances   []calculator.MemberBalance
	Settlement []calculator.Transaction
	Summary    calculator.Summary
}

// Ledger is an immutable snapshot of a group's members and expenses.
type Ledger struct {
	members  []calculator.Member
	expenses []calculator.Expense
}

// New copies members and expenses into a snapshot.
func New(members []*models.Member, expenses []*models.Expense) *Ledger {
	l := &Ledger{
		members:  make([]calculator.Member, len(members)),
		expenses: make([]calculator.Expense, len(expenses)),
	}
	for i, m := range members {
		l.members[i] = calculator.Member{Name: m.Name}
	}
	for i, e := range expenses {
		participants := make([]string, len(e.Participants))
		copy(participants, e.Participants)
		l.expenses[i] = calculator.Expense{
			Amount:       e.Amount,
			PaidBy:       e.PaidBy,
			Participants: participants,
			Category:     e.Category,
		}
	}
	return l
}

// Balances returns every member's balance in member order.
func (l *Ledger) Balances() []calculator.MemberBalance {
	return calculator.OrderedBalances(l.members, l.expenses)
}

// Settlement returns the payments that settle the group. Members earlier in
// the group win ties between equal amounts.
func (l *Ledger) Settlement() []calculator.Transaction {
	return calculator.PlanSettlementOrdered(l.Balances())
}

// Summary returns spending totals for the group.
func (l *Ledger) Summary() calculator.Summary {
	return calculator.Summarize(l.expenses)
}

// Report computes balances, settlement and summary in one pass over the balances.
func (l *Ledger) Report() Report {
	balances := l.Balances()
	return Report{
		Balances:   balances,
		Settlement: calculator.PlanSettlementOrdered(balances),
		Summary:    l.Summary(),
	}
}
