// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitly/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a group, member or expense does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateMember is returned when a group already has a member with the
	// same name, compared case-insensitively.
	ErrDuplicateMember = errors.New("member already exists")

	// ErrNotMember is returned when an expense names a payer or participant
	// who is not a member of the group.
	ErrNotMember = errors.New("not a member of the group")
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateGroup persists a new group. ID and CreatedAt are populated by the store when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by its ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns all groups, newest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// DeleteGroup removes a group together with its members and expenses.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddMember adds a member to a group.
	// Returns ErrDuplicateMember if the name is already taken in the group.
	AddMember(ctx context.Context, member *models.Member) error

	// ListMembers returns the group's members in the order they were added.
	ListMembers(ctx context.Context, groupID string) ([]*models.Member, error)

	// RemoveMember deletes a member. Expenses referencing the name are kept.
	RemoveMember(ctx context.Context, groupID, memberID string) error

	// AddExpense persists a new expense.
	// Returns ErrNotMember if the payer or a participant is not a current member.
	AddExpense(ctx context.Context, expense *models.Expense) error

	// ListExpenses returns the group's expenses in the order they were recorded.
	ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)

	// RemoveExpense deletes an expense.
	RemoveExpense(ctx context.Context, groupID, expenseID string) error

	// ClearGroup deletes every member and expense of a group, keeping the group itself.
	ClearGroup(ctx context.Context, groupID string) error

	// Close releases any resources held by the store.
	Close() error
}
