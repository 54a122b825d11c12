package api

type AddMemberRequest struct {
	GroupId string `json:"group_id" validate:"required"`
	Name    string `json:"name" validate:"required,max=50"`
}

func (r *AddMemberRequest) GetGroupId() string { return r.GroupId }

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

type RemoveMemberRequest struct {
	GroupId  string `json:"group_id" validate:"required"`
	MemberId string `json:"member_id" validate:"required"`
}

func (r *RemoveMemberRequest) GetGroupId() string { return r.GroupId }

type RemoveMemberResponse struct{}

type ListMembersRequest struct {
	GroupId string `json:"group_id" validate:"required"`
}

func (r *ListMembersRequest) GetGroupId() string { return r.GroupId }

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}
