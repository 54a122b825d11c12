package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitly/internal/auth"
	"github.com/mmynk/splitly/internal/ledger"
	"github.com/mmynk/splitly/internal/metrics"
	"github.com/mmynk/splitly/internal/middleware"
	"github.com/mmynk/splitly/internal/models"
	"github.com/mmynk/splitly/internal/storage"
	api "github.com/mmynk/splitly/pkg/api"
	"github.com/mmynk/splitly/pkg/api/apiconnect"
)

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService.
type GroupService struct {
	store   storage.Store
	cache   *ledger.Cache
	metrics *metrics.Metrics
	tokens  *auth.TokenManager
}

// Option configures a GroupService.
type Option func(*GroupService)

// WithCache sets the cache used for derived ledger reports.
func WithCache(cache *ledger.Cache) Option {
	return func(s *GroupService) { s.cache = cache }
}

// WithMetrics sets the collectors the service records to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *GroupService) { s.metrics = m }
}

// WithTokens makes CreateGroup issue a group token.
func WithTokens(tokens *auth.TokenManager) Option {
	return func(s *GroupService) { s.tokens = tokens }
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, opts ...Option) *GroupService {
	s := &GroupService{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = ledger.NewCache(ledger.DefaultCacheSize)
	}
	return s
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received", "name", req.Msg.Name)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group := &models.Group{Name: trimName(req.Msg.Name)}

	// Save to storage (generates ID, CreatedAt and a name when blank)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.CreateGroupResponse{Group: groupToAPI(group)}
	if s.tokens != nil {
		token, err := s.tokens.Generate(group.ID)
		if err != nil {
			slog.Error("CreateGroup failed to issue token", "group_id", group.ID, "error", err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		resp.Token = token
	}

	slog.Info("Group created", "group_id", group.ID, "name", group.Name)

	return connect.NewResponse(resp), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupId)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupId)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: groupToAPI(group)}), nil
}

// DeleteGroup removes a group with all of its members and expenses.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupId)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupId); err != nil {
		slog.Error("DeleteGroup failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupId, "token_group", middleware.GetGroupID(ctx))

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// ClearGroup removes every member and expense but keeps the group.
func (s *GroupService) ClearGroup(ctx context.Context, req *connect.Request[api.ClearGroupRequest]) (*connect.Response[api.ClearGroupResponse], error) {
	slog.Info("ClearGroup request received", "group_id", req.Msg.GroupId)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if err := s.store.ClearGroup(ctx, req.Msg.GroupId); err != nil {
		slog.Error("ClearGroup failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group cleared", "group_id", req.Msg.GroupId, "token_group", middleware.GetGroupID(ctx))

	return connect.NewResponse(&api.ClearGroupResponse{}), nil
}
