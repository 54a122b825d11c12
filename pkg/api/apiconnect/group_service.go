// Package apiconnect wires the splitly.v1.GroupService messages to Connect
// handlers and clients.
package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	api "github.com/mmynk/splitly/pkg/api"
)

// GroupServiceName is the fully-qualified name of the GroupService service.
const GroupServiceName = "splitly.v1.GroupService"

// Procedure paths of the GroupService RPCs.
const (
	GroupServiceCreateGroupProcedure       = "/splitly.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure          = "/splitly.v1.GroupService/GetGroup"
	GroupServiceDeleteGroupProcedure       = "/splitly.v1.GroupService/DeleteGroup"
	GroupServiceClearGroupProcedure        = "/splitly.v1.GroupService/ClearGroup"
	GroupServiceAddMemberProcedure         = "/splitly.v1.GroupService/AddMember"
	GroupServiceRemoveMemberProcedure      = "/splitly.v1.GroupService/RemoveMember"
	GroupServiceListMembersProcedure       = "/splitly.v1.GroupService/ListMembers"
	GroupServiceAddExpenseProcedure        = "/splitly.v1.GroupService/AddExpense"
	GroupServiceRemoveExpenseProcedure     = "/splitly.v1.GroupService/RemoveExpense"
	GroupServiceListExpensesProcedure      = "/splitly.v1.GroupService/ListExpenses"
	GroupServiceGetBalancesProcedure       = "/splitly.v1.GroupService/GetBalances"
	GroupServiceGetSettlementPlanProcedure = "/splitly.v1.GroupService/GetSettlementPlan"
	GroupServiceGetSummaryProcedure        = "/splitly.v1.GroupService/GetSummary"
)

// GroupServiceHandler is implemented by the server side of GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	ClearGroup(context.Context, *connect.Request[api.ClearGroupRequest]) (*connect.Response[api.ClearGroupResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlementPlan(context.Context, *connect.Request[api.GetSettlementPlanRequest]) (*connect.Response[api.GetSettlementPlanResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler serving every GroupService
// procedure. It returns the path on which to mount the handler.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GroupServiceCreateGroupProcedure, connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(GroupServiceGetGroupProcedure, connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...))
	mux.Handle(GroupServiceDeleteGroupProcedure, connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...))
	mux.Handle(GroupServiceClearGroupProcedure, connect.NewUnaryHandler(GroupServiceClearGroupProcedure, svc.ClearGroup, opts...))
	mux.Handle(GroupServiceAddMemberProcedure, connect.NewUnaryHandler(GroupServiceAddMemberProcedure, svc.AddMember, opts...))
	mux.Handle(GroupServiceRemoveMemberProcedure, connect.NewUnaryHandler(GroupServiceRemoveMemberProcedure, svc.RemoveMember, opts...))
	mux.Handle(GroupServiceListMembersProcedure, connect.NewUnaryHandler(GroupServiceListMembersProcedure, svc.ListMembers, opts...))
	mux.Handle(GroupServiceAddExpenseProcedure, connect.NewUnaryHandler(GroupServiceAddExpenseProcedure, svc.AddExpense, opts...))
	mux.Handle(GroupServiceRemoveExpenseProcedure, connect.NewUnaryHandler(GroupServiceRemoveExpenseProcedure, svc.RemoveExpense, opts...))
	mux.Handle(GroupServiceListExpensesProcedure, connect.NewUnaryHandler(GroupServiceListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(GroupServiceGetBalancesProcedure, connect.NewUnaryHandler(GroupServiceGetBalancesProcedure, svc.GetBalances, opts...))
	mux.Handle(GroupServiceGetSettlementPlanProcedure, connect.NewUnaryHandler(GroupServiceGetSettlementPlanProcedure, svc.GetSettlementPlan, opts...))
	mux.Handle(GroupServiceGetSummaryProcedure, connect.NewUnaryHandler(GroupServiceGetSummaryProcedure, svc.GetSummary, opts...))

	return "/" + GroupServiceName + "/", mux
}

// GroupServiceClient is a client for the splitly.v1.GroupService service.
type GroupServiceClient struct {
	createGroup       *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup          *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	deleteGroup       *connect.Client[api.DeleteGroupRequest, api.DeleteGroupResponse]
	clearGroup        *connect.Client[api.ClearGroupRequest, api.ClearGroupResponse]
	addMember         *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	removeMember      *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
	listMembers       *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	addExpense        *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	removeExpense     *connect.Client[api.RemoveExpenseRequest, api.RemoveExpenseResponse]
	listExpenses      *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	getBalances       *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getSettlementPlan *connect.Client[api.GetSettlementPlanRequest, api.GetSettlementPlanResponse]
	getSummary        *connect.Client[api.GetSummaryRequest, api.GetSummaryResponse]
}

// NewGroupServiceClient constructs a client for the GroupService served at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GroupServiceClient {
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &GroupServiceClient{
		createGroup:       connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:          connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		deleteGroup:       connect.NewClient[api.DeleteGroupRequest, api.DeleteGroupResponse](httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...),
		clearGroup:        connect.NewClient[api.ClearGroupRequest, api.ClearGroupResponse](httpClient, baseURL+GroupServiceClearGroupProcedure, opts...),
		addMember:         connect.NewClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL+GroupServiceAddMemberProcedure, opts...),
		removeMember:      connect.NewClient[api.RemoveMemberRequest, api.RemoveMemberResponse](httpClient, baseURL+GroupServiceRemoveMemberProcedure, opts...),
		listMembers:       connect.NewClient[api.ListMembersRequest, api.ListMembersResponse](httpClient, baseURL+GroupServiceListMembersProcedure, opts...),
		addExpense:        connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](httpClient, baseURL+GroupServiceAddExpenseProcedure, opts...),
		removeExpense:     connect.NewClient[api.RemoveExpenseRequest, api.RemoveExpenseResponse](httpClient, baseURL+GroupServiceRemoveExpenseProcedure, opts...),
		listExpenses:      connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+GroupServiceListExpensesProcedure, opts...),
		getBalances:       connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+GroupServiceGetBalancesProcedure, opts...),
		getSettlementPlan: connect.NewClient[api.GetSettlementPlanRequest, api.GetSettlementPlanResponse](httpClient, baseURL+GroupServiceGetSettlementPlanProcedure, opts...),
		getSummary:        connect.NewClient[api.GetSummaryRequest, api.GetSummaryResponse](httpClient, baseURL+GroupServiceGetSummaryProcedure, opts...),
	}
}

func (c *GroupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ClearGroup(ctx context.Context, req *connect.Request[api.ClearGroupRequest]) (*connect.Response[api.ClearGroupResponse], error) {
	return c.clearGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *GroupServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *GroupServiceClient) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	return c.removeExpense.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetSettlementPlan(ctx context.Context, req *connect.Request[api.GetSettlementPlanRequest]) (*connect.Response[api.GetSettlementPlanResponse], error) {
	return c.getSettlementPlan.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}
