package api

type GetBalancesRequest struct {
	GroupId string `json:"group_id" validate:"required"`
}

func (r *GetBalancesRequest) GetGroupId() string { return r.GroupId }

type GetBalancesResponse struct {
	// Balances are in the order members were added.
	Balances []*MemberBalance `json:"balances"`
}

type GetSettlementPlanRequest struct {
	GroupId string `json:"group_id" validate:"required"`
}

func (r *GetSettlementPlanRequest) GetGroupId() string { return r.GroupId }

type GetSettlementPlanResponse struct {
	// Transactions are in the order the planner emitted them.
	Transactions []*Transaction `json:"transactions"`
}

type GetSummaryRequest struct {
	GroupId string `json:"group_id" validate:"required"`
}

func (r *GetSummaryRequest) GetGroupId() string { return r.GroupId }

type GetSummaryResponse struct {
	Summary *Summary `json:"summary"`
}
