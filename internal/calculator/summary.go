package calculator

import (
	"math"
	"sort"
)

// Categories lists the known expense categories in display order.
var Categories = []string{"Food", "Travel", "Shopping", "Utilities", "Entertainment", "Rent", "Other"}

// DefaultCategory is used when an expense is recorded without one.
const DefaultCategory = "Other"

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category string
	Total    float64
}

// Summary aggregates spending across a set of expenses.
type Summary struct {
	Total      float64
	Count      int
	Average    float64 // 0 when there are no expenses
	Largest    float64
	ByCategory []CategoryTotal
}

// IsCategory reports whether name is one of the known categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Summarize computes spending totals. Expenses with an amount that is not a
// finite positive number are left out entirely.
//
// ByCategory lists known categories in Categories order followed by any other
// category names sorted alphabetically; categories with nothing spent are omitted.
func Summarize(expenses []Expense) Summary {
	var s Summary
	totals := make(map[string]float64)

	for _, exp := range expenses {
		if math.IsNaN(exp.Amount) || math.IsInf(exp.Amount, 0) || exp.Amount <= 0 {
			continue
		}
		s.Total += exp.Amount
		s.Count++
		if exp.Amount > s.Largest {
			s.Largest = exp.Amount
		}

		category := exp.Category
		if category == "" {
			category = DefaultCategory
		}
		totals[category] += exp.Amount
	}

	if s.Count > 0 {
		s.Average = s.Total / float64(s.Count)
	}

	for _, c := range Categories {
		if totals[c] > 0 {
			s.ByCategory = append(s.ByCategory, CategoryTotal{Category: c, Total: totals[c]})
		}
		delete(totals, c)
	}

	var extra []string
	for c := range totals {
		extra = append(extra, c)
	}
	sort.Strings(extra)
	for _, c := range extra {
		s.ByCategory = append(s.ByCategory, CategoryTotal{Category: c, Total: totals[c]})
	}

	return s
}

// RankByPaid returns the balances ordered by amount paid, highest first.
// Members who paid the same amount keep their relative order.
func RankByPaid(balances []MemberBalance) []MemberBalance {
	ranked := make([]MemberBalance, len(balances))
	copy(ranked, balances)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Paid > ranked[j].Paid
	})
	return ranked
}
