// Package models defines the core domain models for Splitly.
//
// A Group is a ledger of Members and Expenses. Members are identified inside
// an expense by name, not by ID: an expense keeps the names it was recorded
// with even after a member is removed, and balance calculation simply skips
// names that no longer belong to the group.
//
// Expenses are immutable once created. The only mutations are adding and
// removing whole records.
//
// Balances and settlement plans are never stored; they are derived from the
// current members and expenses on every read (see internal/ledger).
package models
