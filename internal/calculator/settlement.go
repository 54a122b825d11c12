package calculator

import (
	"container/heap"
	"sort"
)

// Epsilon is the currency-unit tolerance below which a balance is treated as settled.
const Epsilon = 0.01

// Transaction represents one payment from a debtor to a creditor.
type Transaction struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount float64
}

// party is a debtor or creditor with the magnitude still outstanding.
type party struct {
	name      string
	remaining float64
	seq       int // position in the input; lower wins ties
}

// partyHeap is a max-heap on remaining magnitude.
type partyHeap []*party

func (h partyHeap) Len() int { return len(h) }

func (h partyHeap) Less(i, j int) bool {
	if h[i].remaining != h[j].remaining {
		return h[i].remaining > h[j].remaining
	}
	return h[i].seq < h[j].seq
}

func (h partyHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *partyHeap) Push(x any) { *h = append(*h, x.(*party)) }

func (h *partyHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return p
}

// PlanSettlement returns the payments that bring every net balance to zero.
// Ties between equal magnitudes are broken by member name, ascending.
func PlanSettlement(balances map[string]Balance) []Transaction {
	names := make([]string, 0, len(balances))
	for name := range balances {
		names = append(names, name)
	}
	sort.Strings(names)

	ordered := make([]MemberBalance, len(names))
	for i, name := range names {
		ordered[i] = MemberBalance{Name: name, Balance: balances[name]}
	}
	return PlanSettlementOrdered(ordered)
}

// PlanSettlementOrdered returns the payments that bring every net balance to zero.
//
// Greedy algorithm: repeatedly match the largest debtor with the largest
// creditor and transfer the smaller of the two magnitudes. Members within
// Epsilon of zero are considered settled. Among equal magnitudes the member
// appearing first in balances is picked first.
//
// Every round settles at least one party, so the plan has at most
// (unsettled members - 1) transactions. The loop is additionally capped at
// the number of parties so malformed input that does not sum to zero still
// terminates, leaving residue on one side.
func PlanSettlementOrdered(balances []MemberBalance) []Transaction {
	var debtors, creditors partyHeap
	for i, bal := range balances {
		switch {
		case bal.Net < -Epsilon:
			debtors = append(debtors, &party{name: bal.Name, remaining: -bal.Net, seq: i})
		case bal.Net > Epsilon:
			creditors = append(creditors, &party{name: bal.Name, remaining: bal.Net, seq: i})
		}
	}
	heap.Init(&debtors)
	heap.Init(&creditors)

	maxRounds := debtors.Len() + creditors.Len()
	var txns []Transaction

	for round := 0; round < maxRounds && debtors.Len() > 0 && creditors.Len() > 0; round++ {
		debtor := heap.Pop(&debtors).(*party)
		creditor := heap.Pop(&creditors).(*party)

		amount := min(debtor.remaining, creditor.remaining)
		txns = append(txns, Transaction{
			From:   debtor.name,
			To:     creditor.name,
			Amount: amount,
		})

		debtor.remaining -= amount
		creditor.remaining -= amount

		// Still-outstanding parties go back in with their reduced magnitude
		if debtor.remaining >= Epsilon {
			heap.Push(&debtors, debtor)
		}
		if creditor.remaining >= Epsilon {
			heap.Push(&creditors, creditor)
		}
	}

	return txns
}
