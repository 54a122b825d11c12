package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"connectrpc.com/connect"

	"github.com/mmynk/splitly/internal/ledger"
	api "github.com/mmynk/splitly/pkg/api"
)

// report loads the group's current members and expenses and derives its
// balances, settlement and summary.
func (s *GroupService) report(ctx context.Context, groupID string) (ledger.Report, error) {
	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return ledger.Report{}, err
	}
	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		return ledger.Report{}, err
	}

	r, hit := s.cache.Report(ledger.New(members, expenses))
	s.metrics.RecordCacheLookup(hit)

	if !isFinite(r) {
		return ledger.Report{}, fmt.Errorf("group %s: %w", groupID, errLedgerOverflow)
	}

	slog.Debug("Ledger report computed",
		"group_id", groupID,
		"members_count", len(members),
		"expenses_count", len(expenses),
		"cache_hit", hit,
	)

	return r, nil
}

var errLedgerOverflow = errors.New("ledger totals exceed the representable range")

// isFinite reports whether every amount in r is a finite number.
func isFinite(r ledger.Report) bool {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
	for _, b := range r.Balances {
		if !finite(b.Paid) || !finite(b.Split) || !finite(b.Net) {
			return false
		}
	}
	for _, t := range r.Settlement {
		if !finite(t.Amount) {
			return false
		}
	}
	return finite(r.Summary.Total) && finite(r.Summary.Average) && finite(r.Summary.Largest)
}

// GetBalances returns every member's paid, split and net amounts.
func (s *GroupService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	slog.Info("GetBalances request received", "group_id", req.Msg.GroupId)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	r, err := s.report(ctx, req.Msg.GroupId)
	if err != nil {
		slog.Error("GetBalances failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetBalancesResponse{Balances: balancesToAPI(r.Balances)}), nil
}

// GetSettlementPlan returns the payments that settle every balance.
func (s *GroupService) GetSettlementPlan(ctx context.Context, req *connect.Request[api.GetSettlementPlanRequest]) (*connect.Response[api.GetSettlementPlanResponse], error) {
	slog.Info("GetSettlementPlan request received", "group_id", req.Msg.GroupId)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	r, err := s.report(ctx, req.Msg.GroupId)
	if err != nil {
		slog.Error("GetSettlementPlan failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.RecordSettlement(len(r.Settlement))

	slog.Info("GetSettlementPlan successful",
		"group_id", req.Msg.GroupId,
		"transactions_count", len(r.Settlement),
	)

	return connect.NewResponse(&api.GetSettlementPlanResponse{Transactions: transactionsToAPI(r.Settlement)}), nil
}

// GetSummary returns spending totals, the per-category breakdown and the
// members who paid the most.
func (s *GroupService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	slog.Info("GetSummary request received", "group_id", req.Msg.GroupId)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	r, err := s.report(ctx, req.Msg.GroupId)
	if err != nil {
		slog.Error("GetSummary failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetSummaryResponse{Summary: summaryToAPI(r.Summary, r.Balances)}), nil
}
