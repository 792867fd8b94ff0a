package aggregate

import "moneymanagement/internal/core"

// Summary holds the income, expense, and balance totals of a snapshot.
type Summary struct {
	TotalIncome  core.Money `json:"total_income"`
	TotalExpense core.Money `json:"total_expense"`
	Balance      int64      `json:"balance"`
}

// Summarize reduces the snapshot to its totals. Balance is income minus
// expense and may be negative. An empty snapshot yields the zero Summary.
// Entries with a missing category still count through their own type and
// amount.
func Summarize(txs []core.TransactionWithCategory) Summary {
	var s Summary
	for _, tx := range txs {
		switch tx.Transaction.Type {
		case core.Income:
			s.TotalIncome = s.TotalIncome.Add(tx.Transaction.Amount)
		case core.Expense:
			s.TotalExpense = s.TotalExpense.Add(tx.Transaction.Amount)
		}
	}
	s.Balance = s.TotalIncome.Cents - s.TotalExpense.Cents
	return s
}

// SummarizePeriod is Summarize restricted to transactions dated within a
// calendar year (AllYears disables the filter). Unparseable dates are
// excluded, consistent with Bucketize's year filtering.
func SummarizePeriod(txs []core.TransactionWithCategory, year int) Summary {
	if year == AllYears {
		return Summarize(txs)
	}
	filtered := make([]core.TransactionWithCategory, 0, len(txs))
	for _, tx := range txs {
		if date, ok := core.ParseDisplayDate(tx.Transaction.Date); ok && date.Year == year {
			filtered = append(filtered, tx)
		}
	}
	return Summarize(filtered)
}
