package models

// Member represents a named participant in a group.
//
// Names are unique within a group, compared case-insensitively, at the time
// the member is added. There is no rename.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// GroupID is the group this member belongs to.
	GroupID string

	// Name is the display name, trimmed of surrounding whitespace.
	Name string

	// CreatedAt is the Unix timestamp (nanoseconds) when the member was added.
	// Members are listed in this order.
	CreatedAt int64
}
