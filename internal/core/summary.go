package core

// Summary is the derived income/expense/balance triple for an account or for
// the whole book. Summaries are never stored, always recomputed.
type Summary struct {
	Income  Money `json:"income"`
	Expense Money `json:"expense"`
	Balance Money `json:"balance"`
}

// Summarize computes the summary of a single account. An account with no
// transactions yields the zero summary. The result does not depend on
// transaction order.
func Summarize(a Account) Summary {
	var income, expense int64
	for _, t := range a.Transactions {
		switch t.Type {
		case Income:
			income += t.Amount.Cents
		case Expense:
			expense += t.Amount.Cents
		}
	}
	return Summary{
		Income:  Money{Cents: income},
		Expense: Money{Cents: expense},
		Balance: Money{Cents: income - expense},
	}
}

// TotalBalance sums the balances of all accounts.
func TotalBalance(accounts []Account) Money {
	var total int64
	for _, a := range accounts {
		total += Summarize(a).Balance.Cents
	}
	return Money{Cents: total}
}
