package aggregate

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"moneymanagement/internal/core"
)

type (
	// ListItem is one element of the flattened list a transaction screen
	// renders without further transformation: either a date header or a
	// transaction row under the preceding header.
	ListItem interface {
		listItem()
	}

	// DateHeader opens a date partition. Date is the literal date string the
	// partition was keyed on; Weekday is the formatted day name, empty when
	// the date string did not parse.
	DateHeader struct {
		Date    string
		Weekday string
	}

	// TransactionRow is a single transaction under its date header.
	TransactionRow struct {
		Entry core.TransactionWithCategory
	}
)

func (DateHeader) listItem()     {}
func (TransactionRow) listItem() {}

// GroupByDate partitions the snapshot by its literal date strings and emits a
// flat header/rows sequence, most recent date first. A date string that fails
// to parse is not dropped: its partition sorts as the oldest and its header
// carries an empty weekday label. Rows inside a partition keep the snapshot's
// encounter order, which the storage layer supplies as creation time
// descending. The namer renders weekday labels; nil selects English.
func GroupByDate(txs []core.TransactionWithCategory, namer core.WeekdayNamer) []ListItem {
	if namer == nil {
		namer = core.EnglishWeekday
	}

	type partition struct {
		key     string
		date    core.Date
		parsed  bool
		entries []core.TransactionWithCategory
	}

	byKey := make(map[string]int)
	parts := make([]partition, 0)

	for _, tx := range txs {
		key := tx.Transaction.Date
		idx, ok := byKey[key]
		if !ok {
			date, parsed := core.ParseDisplayDate(key)
			idx = len(parts)
			byKey[key] = idx
			parts = append(parts, partition{key: key, date: date, parsed: parsed})
		}
		parts[idx].entries = append(parts[idx].entries, tx)
	}

	// Unparseable keys carry the zero date and therefore sort last.
	sort.SliceStable(parts, func(i, j int) bool {
		return parts[j].date.Before(parts[i].date)
	})

	items := make([]ListItem, 0, len(parts)+len(txs))
	for _, p := range parts {
		weekday := ""
		if p.parsed {
			weekday = upperFirst(namer(p.date.Weekday()))
		}
		items = append(items, DateHeader{Date: p.key, Weekday: weekday})
		for _, e := range p.entries {
			items = append(items, TransactionRow{Entry: e})
		}
	}

	return items
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
