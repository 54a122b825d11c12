package api

// MaxExpenseAmount is the largest amount a single expense may record.
const MaxExpenseAmount = 1_000_000_000

type AddExpenseRequest struct {
	GroupId     string `json:"group_id" validate:"required"`
	Description string `json:"description" validate:"max=200"`
	// Amount must be greater than zero and at most MaxExpenseAmount.
	Amount       float64  `json:"amount" validate:"gt=0,lte=1000000000"`
	PaidBy       string   `json:"paid_by" validate:"required"`
	Participants []string `json:"participants" validate:"required,min=1,dive,required"`
	// Category defaults to "Other" when blank.
	Category string `json:"category"`
}

func (r *AddExpenseRequest) GetGroupId() string { return r.GroupId }

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type RemoveExpenseRequest struct {
	GroupId   string `json:"group_id" validate:"required"`
	ExpenseId string `json:"expense_id" validate:"required"`
}

func (r *RemoveExpenseRequest) GetGroupId() string { return r.GroupId }

type RemoveExpenseResponse struct{}

type ListExpensesRequest struct {
	GroupId string `json:"group_id" validate:"required"`
}

func (r *ListExpensesRequest) GetGroupId() string { return r.GroupId }

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}
