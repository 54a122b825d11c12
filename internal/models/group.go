package models

// Group represents one shared-expense ledger.
// Members and expenses belong to exactly one group and are removed with it.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Goa Trip", "Flat 4B").
	Name string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
