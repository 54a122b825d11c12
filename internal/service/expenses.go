package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitly/internal/middleware"
	api "github.com/mmynk/splitly/pkg/api"
)

// AddExpense records an expense split equally among its participants.
// The payer and every participant must be current members of the group.
func (s *GroupService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"group_id", req.Msg.GroupId,
		"amount", req.Msg.Amount,
		"paid_by", req.Msg.PaidBy,
		"participants_count", len(req.Msg.Participants),
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, req.Msg.GroupId)
	if err != nil {
		slog.Error("AddExpense failed to load members", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}

	expense, err := newExpense(req.Msg, members)
	if err != nil {
		slog.Warn("AddExpense rejected", "group_id", req.Msg.GroupId, "error", err)
		return nil, err
	}

	if err := s.store.AddExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.RecordExpense(expense.Category)

	slog.Info("Expense added",
		"group_id", expense.GroupID,
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"category", expense.Category,
		"token_group", middleware.GetGroupID(ctx),
	)

	return connect.NewResponse(&api.AddExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// RemoveExpense deletes an expense.
func (s *GroupService) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	slog.Info("RemoveExpense request received", "group_id", req.Msg.GroupId, "expense_id", req.Msg.ExpenseId)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if err := s.store.RemoveExpense(ctx, req.Msg.GroupId, req.Msg.ExpenseId); err != nil {
		slog.Error("RemoveExpense failed", "group_id", req.Msg.GroupId, "expense_id", req.Msg.ExpenseId, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense removed", "group_id", req.Msg.GroupId, "expense_id", req.Msg.ExpenseId, "token_group", middleware.GetGroupID(ctx))

	return connect.NewResponse(&api.RemoveExpenseResponse{}), nil
}

// ListExpenses returns the group's expenses in the order they were recorded.
func (s *GroupService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, req.Msg.GroupId)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToAPI(e)
	}

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}
