package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitly/internal/models"
	"github.com/mmynk/splitly/internal/storage"
)

// AddExpense persists a new expense and its participants.
func (s *SQLiteStore) AddExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().UnixNano()
	}
	if expense.Description == "" {
		expense.Description = models.DefaultDescription
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireGroup(ctx, tx, expense.GroupID); err != nil {
		return err
	}
	if err := requireMember(ctx, tx, expense.GroupID, expense.PaidBy); err != nil {
		return err
	}
	for _, name := range expense.Participants {
		if err := requireMember(ctx, tx, expense.GroupID, name); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, amount, paid_by, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description, expense.Amount,
		expense.PaidBy, expense.Category, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, name := range expense.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, position, name) VALUES (?, ?, ?)",
			expense.ID, i, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpenses retrieves a group's expenses in the order they were recorded,
// each with its participants in selection order.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	if err := requireGroup(ctx, s.db, groupID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, description, amount, paid_by, category, created_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at, rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		exp := &models.Expense{}
		if err := rows.Scan(&exp.ID, &exp.GroupID, &exp.Description, &exp.Amount,
			&exp.PaidBy, &exp.Category, &exp.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
		byID[exp.ID] = exp
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	if len(expenses) == 0 {
		return expenses, nil
	}

	// One query for all participants; the first result set must be closed
	// before this runs since the pool holds a single connection.
	partRows, err := s.db.QueryContext(ctx,
		`SELECT p.expense_id, p.name
		 FROM expense_participants p
		 JOIN expenses e ON e.id = p.expense_id
		 WHERE e.group_id = ?
		 ORDER BY p.expense_id, p.position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer partRows.Close()

	for partRows.Next() {
		var expenseID, name string
		if err := partRows.Scan(&expenseID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if exp, ok := byID[expenseID]; ok {
			exp.Participants = append(exp.Participants, name)
		}
	}
	if err := partRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return expenses, nil
}

// RemoveExpense deletes an expense and its participants.
func (s *SQLiteStore) RemoveExpense(ctx context.Context, groupID, expenseID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND group_id = ?",
		expenseID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_participants WHERE expense_id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
