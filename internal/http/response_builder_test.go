package http

import (
	"testing"

	"moneymanagement/internal/aggregate"
	"moneymanagement/internal/core"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{1250, "12.50"},
		{150000, "1500.00"},
	}
	for _, tt := range tests {
		if got := formatAmount(core.Money{Cents: tt.cents}); got != tt.want {
			t.Errorf("formatAmount(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestSerializeListItems(t *testing.T) {
	cat := core.Category{ID: 1, Name: "Food", Type: core.Expense}
	items := []aggregate.ListItem{
		aggregate.DateHeader{Date: "02/05/2024", Weekday: "Thursday"},
		aggregate.TransactionRow{Entry: core.TransactionWithCategory{
			Transaction: core.Transaction{ID: 7, Name: "lunch", Amount: core.Money{Cents: 1250}, Type: core.Expense},
			Category:    &cat,
		}},
		aggregate.TransactionRow{Entry: core.TransactionWithCategory{
			Transaction: core.Transaction{ID: 8, Name: "orphan", Type: core.Expense},
		}},
	}

	got := serializeListItems(items)
	if len(got) != 3 {
		t.Fatalf("got %d items, want 3", len(got))
	}
	if got[0].Kind != "header" || got[0].Weekday != "Thursday" {
		t.Errorf("header = %+v", got[0])
	}
	if got[1].Kind != "transaction" || got[1].Transaction.Amount != "12.50" {
		t.Errorf("row = %+v", got[1])
	}
	if got[1].Category == nil || got[1].Category.Name != "Food" {
		t.Errorf("row category = %+v", got[1].Category)
	}
	if got[2].Category != nil {
		t.Error("orphan row should have no category")
	}
}
