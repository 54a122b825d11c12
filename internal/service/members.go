package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitly/internal/middleware"
	"github.com/mmynk/splitly/internal/models"
	api "github.com/mmynk/splitly/pkg/api"
)

// AddMember adds a named member to a group.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "group_id", req.Msg.GroupId, "name", req.Msg.Name)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	name := trimName(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name must not be blank")
	}

	member := &models.Member{GroupID: req.Msg.GroupId, Name: name}
	if err := s.store.AddMember(ctx, member); err != nil {
		slog.Error("AddMember failed", "group_id", req.Msg.GroupId, "name", name, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.RecordMemberChange("added")

	slog.Info("Member added", "group_id", member.GroupID, "member_id", member.ID, "name", member.Name, "token_group", middleware.GetGroupID(ctx))

	return connect.NewResponse(&api.AddMemberResponse{Member: memberToAPI(member)}), nil
}

// RemoveMember removes a member. Their expenses stay on record and the name
// is ignored from then on when computing balances.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received", "group_id", req.Msg.GroupId, "member_id", req.Msg.MemberId)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if err := s.store.RemoveMember(ctx, req.Msg.GroupId, req.Msg.MemberId); err != nil {
		slog.Error("RemoveMember failed", "group_id", req.Msg.GroupId, "member_id", req.Msg.MemberId, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.RecordMemberChange("removed")

	slog.Info("Member removed", "group_id", req.Msg.GroupId, "member_id", req.Msg.MemberId, "token_group", middleware.GetGroupID(ctx))

	return connect.NewResponse(&api.RemoveMemberResponse{}), nil
}

// ListMembers returns the group's members in the order they were added.
func (s *GroupService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, req.Msg.GroupId)
	if err != nil {
		slog.Error("ListMembers failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Member, len(members))
	for i, m := range members {
		out[i] = memberToAPI(m)
	}

	return connect.NewResponse(&api.ListMembersResponse{Members: out}), nil
}
