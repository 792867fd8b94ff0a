// Package aggregate derives the presentation-ready views of a transaction
// snapshot: category totals, date-grouped list items, time-bucketed chart
// series, and income/expense summaries. Every function is a pure
// transformation of its input; nothing here performs I/O or retains state
// between calls, so callers may re-invoke freely on every snapshot refresh.
package aggregate

import (
	"sort"

	"moneymanagement/internal/core"
)

// DefaultTopLimit caps TopCategories when the caller passes no explicit limit.
const DefaultTopLimit = 5

// CategoryGroup is one category's slice of a snapshot: the category, the sum
// of its transactions' amounts, their count, and the contributing entries.
// Groups are ephemeral and recomputed from scratch on every call.
type CategoryGroup struct {
	Category         core.Category
	TotalAmount      core.Money
	TransactionCount int
	Transactions     []core.TransactionWithCategory
}

// GroupByCategory partitions the snapshot by category id and returns one
// group per distinct category, sorted by total amount descending. Ties keep
// the categories' first-encounter order. Entries whose category join missed
// cannot contribute to any group and are left out.
func GroupByCategory(txs []core.TransactionWithCategory) []CategoryGroup {
	byID := make(map[int64]int)
	groups := make([]CategoryGroup, 0)

	for _, tx := range txs {
		if tx.Category == nil {
			continue
		}
		idx, ok := byID[tx.Category.ID]
		if !ok {
			idx = len(groups)
			byID[tx.Category.ID] = idx
			groups = append(groups, CategoryGroup{Category: *tx.Category})
		}
		groups[idx].TotalAmount = groups[idx].TotalAmount.Add(tx.Transaction.Amount)
		groups[idx].TransactionCount++
		groups[idx].Transactions = append(groups[idx].Transactions, tx)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalAmount.Cents > groups[j].TotalAmount.Cents
	})

	return groups
}

// GroupByCategoryAndType is GroupByCategory over the subset of the snapshot
// whose transaction type matches t.
func GroupByCategoryAndType(txs []core.TransactionWithCategory, t core.TransactionType) []CategoryGroup {
	filtered := make([]core.TransactionWithCategory, 0, len(txs))
	for _, tx := range txs {
		if tx.Transaction.Type == t {
			filtered = append(filtered, tx)
		}
	}
	return GroupByCategory(filtered)
}

// TotalForType sums the totals of the groups whose category carries type t.
// Used to derive overall income or expense from an already-grouped list.
func TotalForType(groups []CategoryGroup, t core.TransactionType) core.Money {
	var total core.Money
	for _, g := range groups {
		if g.Category.Type == t {
			total = total.Add(g.TotalAmount)
		}
	}
	return total
}

// PercentageOf returns the group's share of total as a percentage. A
// non-positive total yields 0 rather than NaN or an error.
func PercentageOf(g CategoryGroup, total core.Money) float64 {
	if total.Cents <= 0 {
		return 0
	}
	return float64(g.TotalAmount.Cents) / float64(total.Cents) * 100
}

// TopCategories returns the first limit groups of GroupByCategory. A
// non-positive limit falls back to DefaultTopLimit.
func TopCategories(txs []core.TransactionWithCategory, limit int) []CategoryGroup {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	groups := GroupByCategory(txs)
	if len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}
