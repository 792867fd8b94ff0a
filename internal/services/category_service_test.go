package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"moneymanagement/internal/core"
	"moneymanagement/internal/feed"
)

func TestCategoryCRUD(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewCategoryService(repo, nil)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, core.Category{
		UserID: "u1", Name: "Food", Icon: "food", Type: core.Expense,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	cat.Name = "Groceries"
	if err := svc.UpdateCategory(ctx, cat); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.GetCategory(ctx, "u1", cat.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Groceries" {
		t.Errorf("name = %s, want Groceries", got.Name)
	}

	if err := svc.DeleteCategory(ctx, "u1", cat.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	cats, err := svc.ListCategories(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 0 {
		t.Errorf("got %d categories after delete, want 0", len(cats))
	}
}

func TestCreateCategoryValidates(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewCategoryService(repo, nil)

	_, err := svc.CreateCategory(context.Background(), core.Category{
		UserID: "u1", Name: "Weird", Type: "TRANSFER",
	})
	if !errors.Is(err, core.ErrInvalidType) {
		t.Errorf("expected ErrInvalidType, got %v", err)
	}
}

func TestListCategoriesByTypeRejectsInvalid(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewCategoryService(repo, nil)

	if _, err := svc.ListCategoriesByType(context.Background(), "u1", "TRANSFER"); !errors.Is(err, core.ErrInvalidType) {
		t.Errorf("expected ErrInvalidType, got %v", err)
	}
}

func TestDeleteCategoryPublishesSnapshot(t *testing.T) {
	repo := newTestStorage(t)
	changes := feed.New()
	cats := NewCategoryService(repo, changes)
	txs := NewTransactionService(repo, nil, nil)
	ctx := context.Background()

	cat := seedCategory(t, repo, "u1", "Food", core.Expense)
	if _, err := txs.CreateTransaction(ctx, TransactionInput{
		UserID: "u1", CategoryID: cat.ID, Name: "lunch",
		Amount: core.Money{Cents: 100}, Date: "01/05/2024",
	}); err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	sub := changes.Subscribe()
	defer sub.Cancel()

	if err := cats.DeleteCategory(ctx, "u1", cat.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	select {
	case snapshot := <-sub.C:
		if len(snapshot.Transactions) != 0 {
			t.Errorf("snapshot after cascade has %d transactions, want 0", len(snapshot.Transactions))
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot published after category delete")
	}
}

func TestEnsureDefaults(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewCategoryService(repo, nil)
	ctx := context.Background()

	if err := svc.EnsureDefaults(ctx, "u1"); err != nil {
		t.Fatalf("ensure defaults: %v", err)
	}
	cats, err := svc.ListCategories(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) == 0 {
		t.Error("expected seeded default categories")
	}
}
