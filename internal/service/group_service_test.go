package service

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitly/internal/auth"
	"github.com/mmynk/splitly/internal/ledger"
	"github.com/mmynk/splitly/internal/metrics"
	"github.com/mmynk/splitly/internal/middleware"
	"github.com/mmynk/splitly/internal/models"
	"github.com/mmynk/splitly/internal/storage"
	"github.com/mmynk/splitly/internal/storage/sqlite"
	api "github.com/mmynk/splitly/pkg/api"
	"github.com/mmynk/splitly/pkg/api/apiconnect"
	"github.com/mmynk/splitly/pkg/logging"
)

type testServer struct {
	client *apiconnect.GroupServiceClient
	store  *sqlite.SQLiteStore
	cache  *ledger.Cache
}

// setupTestServer starts a GroupService over a temp database. With a non-nil
// token manager every procedure except CreateGroup requires a group token.
func setupTestServer(t *testing.T, tokens *auth.TokenManager) *testServer {
	t.Helper()
	return newTestServer(t, tokens, nil)
}

// newTestServer is setupTestServer with an optional wrapper around the store
// the service sees.
func newTestServer(t *testing.T, tokens *auth.TokenManager, wrap func(storage.Store) storage.Store) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	var svcStore storage.Store = store
	if wrap != nil {
		svcStore = wrap(store)
	}

	cache := ledger.NewCache(16)
	m := metrics.New(prometheus.NewRegistry())
	opts := []Option{WithCache(cache), WithMetrics(m)}
	interceptors := []connect.Interceptor{middleware.MetricsInterceptor(m)}
	if tokens != nil {
		opts = append(opts, WithTokens(tokens))
		interceptors = append(interceptors, middleware.RequireGroupToken(tokens, apiconnect.GroupServiceCreateGroupProcedure))
	}

	path, handler := apiconnect.NewGroupServiceHandler(
		NewGroupService(svcStore, opts...),
		connect.WithInterceptors(interceptors...),
	)
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{
		client: apiconnect.NewGroupServiceClient(server.Client(), server.URL),
		store:  store,
		cache:  cache,
	}
}

func (s *testServer) createGroup(t *testing.T, name string, members ...string) string {
	t.Helper()
	ctx := context.Background()

	resp, err := s.client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: name}))
	require.NoError(t, err)
	groupID := resp.Msg.Group.Id

	for _, m := range members {
		_, err := s.client.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupId: groupID, Name: m}))
		require.NoError(t, err)
	}
	return groupID
}

func (s *testServer) addExpense(t *testing.T, groupID string, amount float64, paidBy string, participants ...string) *api.Expense {
	t.Helper()
	resp, err := s.client.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		GroupId:      groupID,
		Amount:       amount,
		PaidBy:       paidBy,
		Participants: participants,
	}))
	require.NoError(t, err)
	return resp.Msg.Expense
}

func (s *testServer) balances(t *testing.T, groupID string) map[string]*api.MemberBalance {
	t.Helper()
	resp, err := s.client.GetBalances(context.Background(), connect.NewRequest(&api.GetBalancesRequest{GroupId: groupID}))
	require.NoError(t, err)
	out := make(map[string]*api.MemberBalance, len(resp.Msg.Balances))
	for _, b := range resp.Msg.Balances {
		out[b.Name] = b
	}
	return out
}

func (s *testServer) settlement(t *testing.T, groupID string) []*api.Transaction {
	t.Helper()
	resp, err := s.client.GetSettlementPlan(context.Background(), connect.NewRequest(&api.GetSettlementPlanRequest{GroupId: groupID}))
	require.NoError(t, err)
	return resp.Msg.Transactions
}

func assertCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, connect.CodeOf(err), "error: %v", err)
}

func TestCreateGroup(t *testing.T) {
	srv := setupTestServer(t, nil)

	resp, err := srv.client.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{Name: "  Goa Trip "}))
	require.NoError(t, err)

	group := resp.Msg.Group
	require.NotNil(t, group)
	assert.NotEmpty(t, group.Id)
	assert.Equal(t, "Goa Trip", group.Name)
	assert.NotZero(t, group.CreatedAt)
	assert.Empty(t, resp.Msg.Token, "no token is issued when auth is disabled")
}

func TestCreateGroup_GeneratedName(t *testing.T) {
	srv := setupTestServer(t, nil)

	resp, err := srv.client.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Msg.Group.Name, "Group - "), "got %q", resp.Msg.Group.Name)
}

func TestCreateGroup_NameTooLong(t *testing.T) {
	srv := setupTestServer(t, nil)

	_, err := srv.client.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{Name: strings.Repeat("x", 101)}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestGetGroup(t *testing.T) {
	srv := setupTestServer(t, nil)
	groupID := srv.createGroup(t, "Flat 4B")

	resp, err := srv.client.GetGroup(context.Background(), connect.NewRequest(&api.GetGroupRequest{GroupId: groupID}))
	require.NoError(t, err)
	assert.Equal(t, "Flat 4B", resp.Msg.Group.Name)

	_, err = srv.client.GetGroup(context.Background(), connect.NewRequest(&api.GetGroupRequest{GroupId: "nonexistent-id"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = srv.client.GetGroup(context.Background(), connect.NewRequest(&api.GetGroupRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestDeleteGroup(t *testing.T) {
	srv := setupTestServer(t, nil)
	ctx := context.Background()
	groupID := srv.createGroup(t, "Trip", "A", "B")
	srv.addExpense(t, groupID, 10, "A", "A", "B")

	_, err := srv.client.DeleteGroup(ctx, connect.NewRequest(&api.DeleteGroupRequest{GroupId: groupID}))
	require.NoError(t, err)

	_, err = srv.client.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupId: groupID}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = srv.client.DeleteGroup(ctx, connect.NewRequest(&api.DeleteGroupRequest{GroupId: groupID}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestClearGroup(t *testing.T) {
	srv := setupTestServer(t, nil)
	ctx := context.Background()
	groupID := srv.createGroup(t, "Trip", "A", "B")
	srv.addExpense(t, groupID, 10, "A", "A", "B")

	_, err := srv.client.ClearGroup(ctx, connect.NewRequest(&api.ClearGroupRequest{GroupId: groupID}))
	require.NoError(t, err)

	members, err := srv.client.ListMembers(ctx, connect.NewRequest(&api.ListMembersRequest{GroupId: groupID}))
	require.NoError(t, err)
	assert.Empty(t, members.Msg.Members)

	expenses, err := srv.client.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{GroupId: groupID}))
	require.NoError(t, err)
	assert.Empty(t, expenses.Msg.Expenses)

	_, err = srv.client.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupId: groupID}))
	assert.NoError(t, err, "the group itself survives a clear")
}

func TestAddMember(t *testing.T) {
	srv := setupTestServer(t, nil)
	ctx := context.Background()
	groupID := srv.createGroup(t, "Trip")

	resp, err := srv.client.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupId: groupID, Name: "  Alice  "}))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Msg.Member.Id)
	assert.Equal(t, "Alice", resp.Msg.Member.Name)

	tests := []struct {
		name    string
		groupID string
		member  string
		code    connect.Code
	}{
		{"duplicate ignoring case", groupID, "ALICE", connect.CodeAlreadyExists},
		{"blank", groupID, "   ", connect.CodeInvalidArgument},
		{"empty", groupID, "", connect.CodeInvalidArgument},
		{"too long", groupID, strings.Repeat("n", 51), connect.CodeInvalidArgument},
		{"missing group", "nonexistent-id", "Bob", connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srv.client.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupId: tt.groupID, Name: tt.member}))
			assertCode(t, err, tt.code)
		})
	}
}

func TestListMembers_Order(t *testing.T) {
	srv := setupTestServer(t, nil)
	groupID := srv.createGroup(t, "Trip", "Zed", "Amy", "Kim")

	resp, err := srv.client.ListMembers(context.Background(), connect.NewRequest(&api.ListMembersRequest{GroupId: groupID}))
	require.NoError(t, err)

	var names []string
	for _, m := range resp.Msg.Members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Zed", "Amy", "Kim"}, names)
}

func TestRemoveMember(t *testing.T) {
	srv := setupTestServer(t, nil)
	ctx := context.Background()
	groupID := srv.createGroup(t, "Trip", "A", "B")

	members, err := srv.client.ListMembers(ctx, connect.NewRequest(&api.ListMembersRequest{GroupId: groupID}))
	require.NoError(t, err)
	memberID := members.Msg.Members[0].Id

	_, err = srv.client.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{GroupId: groupID, MemberId: memberID}))
	require.NoError(t, err)

	_, err = srv.client.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{GroupId: groupID, MemberId: memberID}))
	assertCode(t, err, connect.CodeNotFound)

	otherGroup := srv.createGroup(t, "Other")
	_, err = srv.client.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{GroupId: otherGroup, MemberId: members.Msg.Members[1].Id}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestAddExpense(t *testing.T) {
	srv := setupTestServer(t, nil)
	groupID := srv.createGroup(t, "Trip", "Alice", "Bob")

	resp, err := srv.client.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		GroupId:      groupID,
		Amount:       42.5,
		PaidBy:       "alice",
		Participants: []string{" bob ", "Alice"},
	}))
	require.NoError(t, err)

	exp := resp.Msg.Expense
	assert.NotEmpty(t, exp.Id)
	assert.Equal(t, 42.5, exp.Amount)
	assert.Equal(t, "Alice", exp.PaidBy, "names are stored as the member spells them")
	assert.Equal(t, []string{"Bob", "Alice"}, exp.Participants)
	assert.Equal(t, "Other", exp.Category)
	assert.Equal(t, "Untitled", exp.Description)
	assert.NotZero(t, exp.CreatedAt)
}

func TestAddExpense_Validation(t *testing.T) {
	srv := setupTestServer(t, nil)
	groupID := srv.createGroup(t, "Trip", "Alice", "Bob")

	valid := func() *api.AddExpenseRequest {
		return &api.AddExpenseRequest{
			GroupId:      groupID,
			Description:  "Dinner",
			Amount:       30,
			PaidBy:       "Alice",
			Participants: []string{"Alice", "Bob"},
			Category:     "Food",
		}
	}

	tests := []struct {
		name   string
		modify func(*api.AddExpenseRequest)
		code   connect.Code
	}{
		{"zero amount", func(r *api.AddExpenseRequest) { r.Amount = 0 }, connect.CodeInvalidArgument},
		{"amount above limit", func(r *api.AddExpenseRequest) { r.Amount = api.MaxExpenseAmount + 0.01 }, connect.CodeInvalidArgument},
		{"huge amount", func(r *api.AddExpenseRequest) { r.Amount = 1e308 }, connect.CodeInvalidArgument},
		{"negative amount", func(r *api.AddExpenseRequest) { r.Amount = -5 }, connect.CodeInvalidArgument},
		{"blank payer", func(r *api.AddExpenseRequest) { r.PaidBy = "  " }, connect.CodeInvalidArgument},
		{"payer not a member", func(r *api.AddExpenseRequest) { r.PaidBy = "Carol" }, connect.CodeInvalidArgument},
		{"no participants", func(r *api.AddExpenseRequest) { r.Participants = nil }, connect.CodeInvalidArgument},
		{"blank participant", func(r *api.AddExpenseRequest) { r.Participants = []string{"Alice", " "} }, connect.CodeInvalidArgument},
		{"participant not a member", func(r *api.AddExpenseRequest) { r.Participants = []string{"Alice", "Carol"} }, connect.CodeInvalidArgument},
		{"participant listed twice", func(r *api.AddExpenseRequest) { r.Participants = []string{"Alice", "alice"} }, connect.CodeInvalidArgument},
		{"unknown category", func(r *api.AddExpenseRequest) { r.Category = "Gambling" }, connect.CodeInvalidArgument},
		{"missing group", func(r *api.AddExpenseRequest) { r.GroupId = "nonexistent-id" }, connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.modify(req)
			_, err := srv.client.AddExpense(context.Background(), connect.NewRequest(req))
			assertCode(t, err, tt.code)
		})
	}

	expenses, err := srv.client.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{GroupId: groupID}))
	require.NoError(t, err)
	assert.Empty(t, expenses.Msg.Expenses, "rejected expenses must not be stored")
}

func TestRemoveExpense(t *testing.T) {
	srv := setupTestServer(t, nil)
	ctx := context.Background()
	groupID := srv.createGroup(t, "Trip", "A", "B")
	first := srv.addExpense(t, groupID, 10, "A", "A", "B")
	srv.addExpense(t, groupID, 20, "B", "A", "B")

	_, err := srv.client.RemoveExpense(ctx, connect.NewRequest(&api.RemoveExpenseRequest{GroupId: groupID, ExpenseId: first.Id}))
	require.NoError(t, err)

	resp, err := srv.client.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{GroupId: groupID}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Expenses, 1)
	assert.Equal(t, 20.0, resp.Msg.Expenses[0].Amount)

	_, err = srv.client.RemoveExpense(ctx, connect.NewRequest(&api.RemoveExpenseRequest{GroupId: groupID, ExpenseId: first.Id}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestBalancesAndSettlement_Scenarios(t *testing.T) {
	t.Run("one payer for three", func(t *testing.T) {
		srv := setupTestServer(t, nil)
		groupID := srv.createGroup(t, "Trip", "A", "B", "C")
		srv.addExpense(t, groupID, 90, "A", "A", "B", "C")

		b := srv.balances(t, groupID)
		assert.Equal(t, api.MemberBalance{Name: "A", Paid: 90, Split: 30, Net: 60}, *b["A"])
		assert.Equal(t, api.MemberBalance{Name: "B", Paid: 0, Split: 30, Net: -30}, *b["B"])
		assert.Equal(t, api.MemberBalance{Name: "C", Paid: 0, Split: 30, Net: -30}, *b["C"])

		txns := srv.settlement(t, groupID)
		require.Len(t, txns, 2)
		assert.Equal(t, api.Transaction{From: "B", To: "A", Amount: 30}, *txns[0])
		assert.Equal(t, api.Transaction{From: "C", To: "A", Amount: 30}, *txns[1])
	})

	t.Run("even exchange settles to nothing", func(t *testing.T) {
		srv := setupTestServer(t, nil)
		groupID := srv.createGroup(t, "Trip", "A", "B")
		srv.addExpense(t, groupID, 50, "A", "A", "B")
		srv.addExpense(t, groupID, 50, "B", "A", "B")

		b := srv.balances(t, groupID)
		assert.Zero(t, b["A"].Net)
		assert.Zero(t, b["B"].Net)
		assert.Empty(t, srv.settlement(t, groupID))
	})

	t.Run("largest debtor settles first", func(t *testing.T) {
		srv := setupTestServer(t, nil)
		groupID := srv.createGroup(t, "Trip", "A", "B", "C", "D")
		srv.addExpense(t, groupID, 100, "A", "A", "B", "C", "D")
		srv.addExpense(t, groupID, 40, "B", "B", "C")

		b := srv.balances(t, groupID)
		assert.Equal(t, 75.0, b["A"].Net)
		assert.Equal(t, -5.0, b["B"].Net)
		assert.Equal(t, -45.0, b["C"].Net)
		assert.Equal(t, -25.0, b["D"].Net)

		txns := srv.settlement(t, groupID)
		require.Len(t, txns, 3)
		assert.Equal(t, api.Transaction{From: "C", To: "A", Amount: 45}, *txns[0])
		assert.Equal(t, api.Transaction{From: "D", To: "A", Amount: 25}, *txns[1])
		assert.Equal(t, api.Transaction{From: "B", To: "A", Amount: 5}, *txns[2])
	})

	t.Run("single member without expenses", func(t *testing.T) {
		srv := setupTestServer(t, nil)
		groupID := srv.createGroup(t, "Solo", "A")

		b := srv.balances(t, groupID)
		require.Len(t, b, 1)
		assert.Equal(t, api.MemberBalance{Name: "A"}, *b["A"])
		assert.Empty(t, srv.settlement(t, groupID))
	})

	t.Run("removed member is ignored", func(t *testing.T) {
		srv := setupTestServer(t, nil)
		ctx := context.Background()
		groupID := srv.createGroup(t, "Trip", "A", "B", "C")
		srv.addExpense(t, groupID, 90, "A", "A", "B", "C")

		members, err := srv.client.ListMembers(ctx, connect.NewRequest(&api.ListMembersRequest{GroupId: groupID}))
		require.NoError(t, err)
		_, err = srv.client.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{GroupId: groupID, MemberId: members.Msg.Members[2].Id}))
		require.NoError(t, err)

		b := srv.balances(t, groupID)
		require.Len(t, b, 2)
		assert.Equal(t, api.MemberBalance{Name: "A", Paid: 90, Split: 30, Net: 60}, *b["A"])
		assert.Equal(t, api.MemberBalance{Name: "B", Paid: 0, Split: 30, Net: -30}, *b["B"])

		txns := srv.settlement(t, groupID)
		require.Len(t, txns, 1)
		assert.Equal(t, api.Transaction{From: "B", To: "A", Amount: 30}, *txns[0])
	})
}

func TestGetBalances_RoundsToCents(t *testing.T) {
	srv := setupTestServer(t, nil)
	groupID := srv.createGroup(t, "Trip", "A", "B", "C")
	srv.addExpense(t, groupID, 100, "A", "A", "B", "C")

	resp, err := srv.client.GetBalances(context.Background(), connect.NewRequest(&api.GetBalancesRequest{GroupId: groupID}))
	require.NoError(t, err)

	require.Len(t, resp.Msg.Balances, 3)
	assert.Equal(t, "A", resp.Msg.Balances[0].Name)
	assert.Equal(t, 33.33, resp.Msg.Balances[0].Split)
	assert.Equal(t, 66.67, resp.Msg.Balances[0].Net)
	assert.Equal(t, -33.33, resp.Msg.Balances[1].Net)
}

func TestGetBalances_UsesCache(t *testing.T) {
	srv := setupTestServer(t, nil)
	groupID := srv.createGroup(t, "Trip", "A", "B")
	srv.addExpense(t, groupID, 10, "A", "A", "B")

	srv.balances(t, groupID)
	srv.settlement(t, groupID)
	assert.Equal(t, 1, srv.cache.Len(), "unchanged ledger reuses the cached report")

	srv.addExpense(t, groupID, 10, "B", "A", "B")
	srv.balances(t, groupID)
	assert.Equal(t, 2, srv.cache.Len())
}

func TestGetSummary(t *testing.T) {
	srv := setupTestServer(t, nil)
	ctx := context.Background()
	groupID := srv.createGroup(t, "Trip", "A", "B", "C")

	for _, e := range []*api.AddExpenseRequest{
		{GroupId: groupID, Amount: 60, PaidBy: "B", Participants: []string{"A", "B", "C"}, Category: "Food"},
		{GroupId: groupID, Amount: 30, PaidBy: "A", Participants: []string{"A", "B"}, Category: "Travel"},
		{GroupId: groupID, Amount: 10, PaidBy: "B", Participants: []string{"C"}, Category: "Food"},
	} {
		_, err := srv.client.AddExpense(ctx, connect.NewRequest(e))
		require.NoError(t, err)
	}

	resp, err := srv.client.GetSummary(ctx, connect.NewRequest(&api.GetSummaryRequest{GroupId: groupID}))
	require.NoError(t, err)

	s := resp.Msg.Summary
	assert.Equal(t, 100.0, s.Total)
	assert.Equal(t, int32(3), s.Count)
	assert.Equal(t, 33.33, s.Average)
	assert.Equal(t, 60.0, s.Largest)
	assert.Equal(t, []api.CategoryTotal{{Category: "Food", Total: 70}, {Category: "Travel", Total: 30}}, s.ByCategory)
	assert.Equal(t, []string{"B", "A"}, s.TopPayers)
}

func TestGetSummary_EmptyGroup(t *testing.T) {
	srv := setupTestServer(t, nil)
	groupID := srv.createGroup(t, "Trip")

	resp, err := srv.client.GetSummary(context.Background(), connect.NewRequest(&api.GetSummaryRequest{GroupId: groupID}))
	require.NoError(t, err)
	assert.Zero(t, resp.Msg.Summary.Total)
	assert.Zero(t, resp.Msg.Summary.Count)
	assert.Zero(t, resp.Msg.Summary.Average)
	assert.Empty(t, resp.Msg.Summary.TopPayers)
}

func TestDerivedViews_MissingGroup(t *testing.T) {
	srv := setupTestServer(t, nil)
	ctx := context.Background()

	_, err := srv.client.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{GroupId: "nonexistent-id"}))
	assertCode(t, err, connect.CodeNotFound)
	_, err = srv.client.GetSettlementPlan(ctx, connect.NewRequest(&api.GetSettlementPlanRequest{GroupId: "nonexistent-id"}))
	assertCode(t, err, connect.CodeNotFound)
	_, err = srv.client.GetSummary(ctx, connect.NewRequest(&api.GetSummaryRequest{GroupId: "nonexistent-id"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestGroupTokens(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret-key-for-groups", time.Hour)
	srv := setupTestServer(t, tokens)
	ctx := context.Background()

	created, err := srv.client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Private"}))
	require.NoError(t, err)
	groupID := created.Msg.Group.Id
	require.NotEmpty(t, created.Msg.Token)

	claims, err := tokens.Validate(created.Msg.Token)
	require.NoError(t, err)
	assert.Equal(t, groupID, claims.GroupID)

	other, err := srv.client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Other"}))
	require.NoError(t, err)

	withToken := func(token string) *connect.Request[api.GetBalancesRequest] {
		req := connect.NewRequest(&api.GetBalancesRequest{GroupId: groupID})
		if token != "" {
			req.Header().Set("Authorization", "Bearer "+token)
		}
		return req
	}

	_, err = srv.client.GetBalances(ctx, withToken(""))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = srv.client.GetBalances(ctx, withToken("not-a-jwt"))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = srv.client.GetBalances(ctx, withToken(other.Msg.Token))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = srv.client.GetBalances(ctx, withToken(created.Msg.Token))
	assert.NoError(t, err)
}

func TestAddExpense_MaxAmount(t *testing.T) {
	srv := setupTestServer(t, nil)
	groupID := srv.createGroup(t, "Trip", "A", "B")

	exp := srv.addExpense(t, groupID, api.MaxExpenseAmount, "A", "A", "B")
	assert.Equal(t, float64(api.MaxExpenseAmount), exp.Amount)
}

func TestDerivedViews_OverflowingTotals(t *testing.T) {
	srv := setupTestServer(t, nil)
	ctx := context.Background()
	groupID := srv.createGroup(t, "Trip", "A", "B")

	// Stored directly: the API would reject amounts this large.
	for i := 0; i < 2; i++ {
		err := srv.store.AddExpense(ctx, &models.Expense{
			GroupID: groupID, Amount: 1e308, PaidBy: "A", Participants: []string{"A", "B"}, Category: "Other",
		})
		require.NoError(t, err)
	}

	_, err := srv.client.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{GroupId: groupID}))
	assertCode(t, err, connect.CodeInternal)
	_, err = srv.client.GetSettlementPlan(ctx, connect.NewRequest(&api.GetSettlementPlanRequest{GroupId: groupID}))
	assertCode(t, err, connect.CodeInternal)
	_, err = srv.client.GetSummary(ctx, connect.NewRequest(&api.GetSummaryRequest{GroupId: groupID}))
	assertCode(t, err, connect.CodeInternal)

	// The group stays usable once the offending expenses are gone.
	_, err = srv.client.ClearGroup(ctx, connect.NewRequest(&api.ClearGroupRequest{GroupId: groupID}))
	require.NoError(t, err)
	_, err = srv.client.GetSummary(ctx, connect.NewRequest(&api.GetSummaryRequest{GroupId: groupID}))
	assert.NoError(t, err)
}

func TestRound2_NonFinite(t *testing.T) {
	assert.True(t, math.IsInf(round2(math.Inf(1)), 1))
	assert.True(t, math.IsInf(round2(math.Inf(-1)), -1))
	assert.True(t, math.IsNaN(round2(math.NaN())))
	assert.Equal(t, 1.24, round2(1.235))
}

// staleRoster reports a member that has since been removed, as a ListMembers
// racing with RemoveMember would.
type staleRoster struct {
	storage.Store
	ghost string
}

func (s staleRoster) ListMembers(ctx context.Context, groupID string) ([]*models.Member, error) {
	members, err := s.Store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return append(members, &models.Member{GroupID: groupID, Name: s.ghost}), nil
}

func TestAddExpense_PayerRemovedConcurrently(t *testing.T) {
	srv := newTestServer(t, nil, func(store storage.Store) storage.Store {
		return staleRoster{Store: store, ghost: "Ghost"}
	})
	groupID := srv.createGroup(t, "Trip", "A", "B")

	_, err := srv.client.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		GroupId:      groupID,
		Amount:       30,
		PaidBy:       "Ghost",
		Participants: []string{"A", "B"},
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	expenses, err := srv.store.ListExpenses(context.Background(), groupID)
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestMutationLogsTokenGroup(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, slog.LevelInfo, logging.FormatJSON))
	t.Cleanup(func() { slog.SetDefault(prev) })

	tokens := auth.NewTokenManager("test-secret-key-for-groups", time.Hour)
	srv := setupTestServer(t, tokens)
	ctx := context.Background()

	created, err := srv.client.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Private"}))
	require.NoError(t, err)
	groupID := created.Msg.Group.Id

	req := connect.NewRequest(&api.ClearGroupRequest{GroupId: groupID})
	req.Header().Set("Authorization", "Bearer "+created.Msg.Token)
	_, err = srv.client.ClearGroup(ctx, req)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"msg":"Group cleared"`)
	assert.Contains(t, buf.String(), `"token_group":"`+groupID+`"`)
}
