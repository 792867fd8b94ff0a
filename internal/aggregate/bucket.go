package aggregate

import (
	"fmt"
	"log/slog"
	"sort"

	"moneymanagement/internal/core"
)

// Period selects the calendar granularity of a chart series.
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// AllYears is the year-filter sentinel: no year filtering is applied.
const AllYears = 0

// Caps on emitted buckets; when more periods exist, the oldest are dropped.
const (
	maxMonthlyBuckets = 12
	maxWeeklyBuckets  = 20
	maxDailyBuckets   = 30
)

// Bucket accumulates income and expense totals for one calendar period.
// Label is period-appropriate: "dd/MM" for days, "W3" for weeks, "MM/yyyy"
// for months, "T7" for the cross-year monthly series.
type Bucket struct {
	Label   string
	Income  core.Money
	Expense core.Money
}

func (b *Bucket) add(tx core.Transaction) {
	switch tx.Type {
	case core.Income:
		b.Income = b.Income.Add(tx.Amount)
	case core.Expense:
		b.Expense = b.Expense.Add(tx.Amount)
	}
}

// IsValid reports whether p is a known period selector.
func (p Period) IsValid() bool {
	switch p {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

// Bucketize groups the snapshot into period buckets, sorted oldest to newest
// and capped to the period's bucket limit (most recent kept). When year is
// not AllYears, only transactions dated in that calendar year participate. A
// transaction whose date fails to parse is skipped from the pass with a
// warning; the rest of the snapshot is still processed.
func Bucketize(txs []core.TransactionWithCategory, p Period, year int) []Bucket {
	type keyed struct {
		sortKey string
		bucket  Bucket
	}

	byKey := make(map[string]int)
	buckets := make([]keyed, 0)

	for _, tx := range txs {
		date, ok := core.ParseDisplayDate(tx.Transaction.Date)
		if !ok {
			slog.Warn("skipping transaction with unparseable date",
				"transaction_id", tx.Transaction.ID,
				"date", tx.Transaction.Date,
				"period", string(p))
			continue
		}
		if year != AllYears && date.Year != year {
			continue
		}

		sortKey, label := bucketKey(p, date)
		idx, seen := byKey[sortKey]
		if !seen {
			idx = len(buckets)
			byKey[sortKey] = idx
			buckets = append(buckets, keyed{sortKey: sortKey, bucket: Bucket{Label: label}})
		}
		buckets[idx].bucket.add(tx.Transaction)
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].sortKey < buckets[j].sortKey
	})

	if limit := bucketCap(p); len(buckets) > limit {
		buckets = buckets[len(buckets)-limit:]
	}

	out := make([]Bucket, len(buckets))
	for i, k := range buckets {
		out[i] = k.bucket
	}
	return out
}

// MonthlySeries is the line-chart variant: buckets keyed by month number 1-12
// regardless of year, so without a year filter the same month of different
// years aggregates together. Output is ascending by month, uncapped, labelled
// "T<month>".
func MonthlySeries(txs []core.TransactionWithCategory) []Bucket {
	byMonth := make(map[int]*Bucket)

	for _, tx := range txs {
		date, ok := core.ParseDisplayDate(tx.Transaction.Date)
		if !ok {
			slog.Warn("skipping transaction with unparseable date",
				"transaction_id", tx.Transaction.ID,
				"date", tx.Transaction.Date,
				"period", "monthly-series")
			continue
		}
		b, seen := byMonth[date.Month]
		if !seen {
			b = &Bucket{Label: fmt.Sprintf("T%d", date.Month)}
			byMonth[date.Month] = b
		}
		b.add(tx.Transaction)
	}

	months := make([]int, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Ints(months)

	out := make([]Bucket, len(months))
	for i, m := range months {
		out[i] = *byMonth[m]
	}
	return out
}

// bucketKey derives the sortable key and display label for a date under a
// period. Sort keys are built so that lexicographic order is chronological.
func bucketKey(p Period, d core.Date) (sortKey, label string) {
	switch p {
	case Weekly:
		// ISO-8601 week numbering: weeks start on Monday, week 1 holds the
		// first Thursday of the year.
		wy, week := d.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", wy, week), fmt.Sprintf("W%d", week)
	case Monthly:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month), fmt.Sprintf("%02d/%04d", d.Month, d.Year)
	default:
		return d.ISO(), fmt.Sprintf("%02d/%02d", d.Day, d.Month)
	}
}

func bucketCap(p Period) int {
	switch p {
	case Weekly:
		return maxWeeklyBuckets
	case Monthly:
		return maxMonthlyBuckets
	default:
		return maxDailyBuckets
	}
}
