package memory

import (
	"context"
	"testing"

	"moneymanagement/internal/core"
)

func mirroredTransaction(id int64) core.TransactionWithCategory {
	return core.TransactionWithCategory{
		Transaction: core.Transaction{
			ID:         id,
			UserID:     "u1",
			CategoryID: 5,
			Name:       "Groceries",
			Amount:     core.Money{Cents: 1500},
			Date:       "01/05/2024",
			Type:       core.Expense,
		},
		Category: &core.Category{ID: 5, UserID: "u1", Name: "Food", Type: core.Expense},
	}
}

func TestAppendAndRemove(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.AppendTransaction(ctx, mirroredTransaction(1))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref == "" {
		t.Error("expected non-empty row reference")
	}
	if _, err := s.AppendTransaction(ctx, mirroredTransaction(2)); err != nil {
		t.Fatalf("append second: %v", err)
	}

	if err := s.RemoveTransaction(ctx, "u1", 1); err != nil {
		t.Fatalf("remove: %v", err)
	}

	items := s.Transactions()
	if len(items) != 1 || items[0].Transaction.ID != 2 {
		t.Errorf("after remove got %d items, want only id 2", len(items))
	}

	// Removing a transaction the mirror never saw is not an error.
	if err := s.RemoveTransaction(ctx, "u1", 99); err != nil {
		t.Errorf("remove of absent row: %v", err)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()

	bad := mirroredTransaction(1)
	bad.Transaction.Name = ""
	if _, err := s.AppendTransaction(context.Background(), bad); err == nil {
		t.Error("expected validation error")
	}
	if len(s.Transactions()) != 0 {
		t.Error("invalid transaction must not be stored")
	}
}

func TestProfileRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	profile := core.UserProfile{ID: "u1", Email: "u1@example.com", Name: "User One"}
	if err := s.SaveProfile(ctx, profile); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.LoadProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != profile {
		t.Errorf("profile mismatch: %+v", got)
	}

	if _, err := s.LoadProfile(ctx, "unknown"); err == nil {
		t.Error("expected error for unknown user")
	}
}
