package calculator

// Balance holds the derived figures for one member.
type Balance struct {
	Paid  float64 // Total amount paid across all expenses
	Split float64 // Sum of this member's equal shares
	Net   float64 // Positive = owed money, Negative = owes money
}

// MemberBalance pairs a member name with its balance.
type MemberBalance struct {
	Name string
	Balance
}

// ComputeBalances derives paid/split/net for every known member.
//
// Algorithm:
//   - Every member starts at zero
//   - For each expense: payer gets +amount paid, each participant gets +amount/len(participants) split
//   - Names that are not known members are ignored
//   - net = paid - split
//
// Expenses that cannot be split (see EqualShare) contribute nothing, so the
// nets of all members still sum to zero.
func ComputeBalances(members []Member, expenses []Expense) map[string]Balance {
	balances := make(map[string]*Balance, len(members))
	for _, m := range members {
		balances[m.Name] = &Balance{}
	}

	for _, exp := range expenses {
		share, ok := EqualShare(exp)
		if !ok {
			continue
		}

		if payer, exists := balances[exp.PaidBy]; exists {
			payer.Paid += exp.Amount
		}

		for _, name := range exp.Participants {
			if bal, exists := balances[name]; exists {
				bal.Split += share
			}
		}
	}

	result := make(map[string]Balance, len(balances))
	for name, bal := range balances {
		bal.Net = bal.Paid - bal.Split
		result[name] = *bal
	}
	return result
}

// OrderedBalances computes balances like ComputeBalances and returns them in
// member order. Duplicate member names appear once, at their first position.
func OrderedBalances(members []Member, expenses []Expense) []MemberBalance {
	balances := ComputeBalances(members, expenses)

	ordered := make([]MemberBalance, 0, len(balances))
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		ordered = append(ordered, MemberBalance{Name: m.Name, Balance: balances[m.Name]})
	}
	return ordered
}
