package api

// Group is a shared-expense ledger.
type Group struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

// Member is a participant in a group.
type Member struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// Expense is a recorded payment split among members.
type Expense struct {
	Id           string   `json:"id"`
	Description  string   `json:"description"`
	Amount       float64  `json:"amount"`
	PaidBy       string   `json:"paid_by"`
	Participants []string `json:"participants"`
	Category     string   `json:"category"`
	CreatedAt    int64    `json:"created_at"`
}

// MemberBalance is a member's derived balance. Net > 0 means the group owes
// the member; Net < 0 means the member owes the group.
type MemberBalance struct {
	Name  string  `json:"name"`
	Paid  float64 `json:"paid"`
	Split float64 `json:"split"`
	Net   float64 `json:"net"`
}

// Transaction is one payment of a settlement plan.
type Transaction struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// Summary aggregates a group's spending.
type Summary struct {
	Total      float64         `json:"total"`
	Count      int32           `json:"count"`
	Average    float64         `json:"average"`
	Largest    float64         `json:"largest"`
	ByCategory []CategoryTotal `json:"by_category"`
	// TopPayers lists member names by amount paid, highest first.
	TopPayers []string `json:"top_payers"`
}
