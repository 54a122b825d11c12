package models

// DefaultDescription is used for expenses recorded without a description.
const DefaultDescription = "Untitled"

// Expense represents an amount paid by one member and split equally among
// a set of members.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is the human-readable label (e.g., "Dinner", "Cab").
	Description string

	// Amount is the total paid. Always a finite positive number.
	Amount float64

	// PaidBy is the name of the member who paid.
	PaidBy string

	// Participants are the names of the members splitting this expense, in
	// the order they were selected. Never empty.
	Participants []string

	// Category is one of calculator.Categories.
	Category string

	// CreatedAt is the Unix timestamp (nanoseconds) when the expense was recorded.
	CreatedAt int64
}
