package calculator

import "math"

// Expense represents an expense with the minimal information needed for balance calculations.
type Expense struct {
	Amount       float64
	PaidBy       string
	Participants []string
	Category     string
}

// Member represents a known group member. Only the name takes part in the calculation.
type Member struct {
	Name string
}

// EqualShare returns the amount each participant owes for the expense.
// The second return value is false when the expense cannot be split:
// no participants, or an amount that is not a finite positive number.
func EqualShare(exp Expense) (float64, bool) {
	if len(exp.Participants) == 0 {
		return 0, false
	}
	if math.IsNaN(exp.Amount) || math.IsInf(exp.Amount, 0) || exp.Amount <= 0 {
		return 0, false
	}
	return exp.Amount / float64(len(exp.Participants)), true
}
