package api

type CreateGroupRequest struct {
	// Name is optional; a dated name is generated when blank.
	Name string `json:"name" validate:"max=100"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
	// Token grants access to the group when the server requires auth.
	Token string `json:"token,omitempty"`
}

type GetGroupRequest struct {
	GroupId string `json:"group_id" validate:"required"`
}

func (r *GetGroupRequest) GetGroupId() string { return r.GroupId }

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupId string `json:"group_id" validate:"required"`
}

func (r *DeleteGroupRequest) GetGroupId() string { return r.GroupId }

type DeleteGroupResponse struct{}

type ClearGroupRequest struct {
	GroupId string `json:"group_id" validate:"required"`
}

func (r *ClearGroupRequest) GetGroupId() string { return r.GroupId }

type ClearGroupResponse struct{}
