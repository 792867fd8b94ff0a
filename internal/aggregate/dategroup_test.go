package aggregate

import (
	"testing"
	"time"

	"moneymanagement/internal/core"
)

func TestGroupByDate_OrdersMostRecentFirst(t *testing.T) {
	snapshot := []core.TransactionWithCategory{
		entry(1, 100, "Food", "01/05/2024"),
		entry(2, 50, "Food", "02/05/2024"),
		entry(3, 200, "Salary", "01/05/2024"),
	}

	items := GroupByDate(snapshot, nil)

	// Two headers plus three rows.
	if len(items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(items))
	}

	h0, ok := items[0].(DateHeader)
	if !ok {
		t.Fatalf("item 0 is %T, want DateHeader", items[0])
	}
	if h0.Date != "02/05/2024" {
		t.Errorf("first header = %s, want 02/05/2024", h0.Date)
	}
	if h0.Weekday != "Thursday" {
		t.Errorf("weekday = %q, want Thursday", h0.Weekday)
	}

	h2, ok := items[2].(DateHeader)
	if !ok {
		t.Fatalf("item 2 is %T, want DateHeader", items[2])
	}
	if h2.Date != "01/05/2024" {
		t.Errorf("second header = %s, want 01/05/2024", h2.Date)
	}
}

func TestGroupByDate_PartitionCompleteness(t *testing.T) {
	snapshot := []core.TransactionWithCategory{
		entry(1, 100, "Food", "01/05/2024"),
		entry(2, 50, "Food", "02/05/2024"),
		entry(3, 200, "Salary", "01/05/2024"),
		entry(4, 75, "Travel", "invalid"),
	}

	items := GroupByDate(snapshot, nil)

	seen := map[int64]int{}
	rows := 0
	for _, item := range items {
		if row, ok := item.(TransactionRow); ok {
			rows++
			seen[row.Entry.Transaction.ID]++
		}
	}
	if rows != len(snapshot) {
		t.Errorf("row count %d != input count %d", rows, len(snapshot))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("transaction %d appears %d times", id, n)
		}
	}
}

func TestGroupByDate_UnparseableDateSortsOldest(t *testing.T) {
	snapshot := []core.TransactionWithCategory{
		entry(1, 75, "Travel", "invalid"),
		entry(2, 100, "Food", "01/05/2024"),
	}

	items := GroupByDate(snapshot, nil)
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}

	last, ok := items[2].(DateHeader)
	if !ok {
		t.Fatalf("item 2 is %T, want DateHeader", items[2])
	}
	if last.Date != "invalid" {
		t.Errorf("oldest header = %q, want the unparseable key", last.Date)
	}
	if last.Weekday != "" {
		t.Errorf("unparseable date weekday = %q, want empty", last.Weekday)
	}
	if _, ok := items[3].(TransactionRow); !ok {
		t.Errorf("unparseable-date transaction was dropped")
	}
}

func TestGroupByDate_KeepsEncounterOrderWithinPartition(t *testing.T) {
	snapshot := []core.TransactionWithCategory{
		entry(3, 10, "Food", "01/05/2024"),
		entry(1, 20, "Food", "01/05/2024"),
		entry(2, 30, "Food", "01/05/2024"),
	}

	items := GroupByDate(snapshot, nil)
	wantOrder := []int64{3, 1, 2}
	got := make([]int64, 0, 3)
	for _, item := range items {
		if row, ok := item.(TransactionRow); ok {
			got = append(got, row.Entry.Transaction.ID)
		}
	}
	for i := range wantOrder {
		if got[i] != wantOrder[i] {
			t.Fatalf("row order %v, want %v", got, wantOrder)
		}
	}
}

func TestGroupByDate_CustomWeekdayNamerIsCapitalized(t *testing.T) {
	namer := func(d time.Weekday) string {
		if d == time.Wednesday {
			return "mercoledì"
		}
		return "altro"
	}

	items := GroupByDate([]core.TransactionWithCategory{
		entry(1, 100, "Food", "01/05/2024"),
	}, namer)

	h, ok := items[0].(DateHeader)
	if !ok {
		t.Fatalf("item 0 is %T, want DateHeader", items[0])
	}
	if h.Weekday != "Mercoledì" {
		t.Errorf("weekday = %q, want first letter capitalized", h.Weekday)
	}
}

func TestGroupByDate_Empty(t *testing.T) {
	if items := GroupByDate(nil, nil); len(items) != 0 {
		t.Errorf("expected empty sequence, got %d items", len(items))
	}
}
