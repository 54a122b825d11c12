package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitly/internal/models"
	"github.com/mmynk/splitly/internal/storage"
)

// nameKey is the case-insensitive form of a member name used for uniqueness.
func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// requireMember returns a storage.ErrNotMember error unless name is a member
// of the group, spelled as stored.
func requireMember(ctx context.Context, q querier, groupID, name string) error {
	var exists int
	err := q.QueryRowContext(ctx,
		"SELECT 1 FROM members WHERE group_id = ? AND name = ?",
		groupID, name,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%q: %w", name, storage.ErrNotMember)
	}
	if err != nil {
		return fmt.Errorf("failed to check member: %w", err)
	}
	return nil
}

// AddMember inserts a new member into a group.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.Member) error {
	member.Name = strings.TrimSpace(member.Name)
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().UnixNano()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireGroup(ctx, tx, member.GroupID); err != nil {
		return err
	}

	var existing string
	err = tx.QueryRowContext(ctx,
		"SELECT name FROM members WHERE group_id = ? AND name_key = ?",
		member.GroupID, nameKey(member.Name),
	).Scan(&existing)
	if err == nil {
		return fmt.Errorf("%q conflicts with %q: %w", member.Name, existing, storage.ErrDuplicateMember)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check member name: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO members (id, group_id, name, name_key, created_at) VALUES (?, ?, ?, ?, ?)",
		member.ID, member.GroupID, member.Name, nameKey(member.Name), member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListMembers retrieves a group's members in the order they were added.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]*models.Member, error) {
	if err := requireGroup(ctx, s.db, groupID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, name, created_at
		 FROM members WHERE group_id = ? ORDER BY created_at, rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member := &models.Member{}
		if err := rows.Scan(&member.ID, &member.GroupID, &member.Name, &member.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// RemoveMember deletes a member from a group.
func (s *SQLiteStore) RemoveMember(ctx context.Context, groupID, memberID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM members WHERE id = ? AND group_id = ?",
		memberID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("member %s: %w", memberID, storage.ErrNotFound)
	}
	return nil
}
