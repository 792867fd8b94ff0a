package services

import (
	"context"
	"fmt"
	"log/slog"

	"moneymanagement/internal/core"
	"moneymanagement/internal/feed"
	"moneymanagement/internal/storage"
)

// CategoryService owns the category catalog. Deleting a category cascades to
// its transactions, so deletions publish a snapshot too.
type CategoryService struct {
	storage *storage.SQLiteRepository
	changes *feed.Feed
}

func NewCategoryService(storage *storage.SQLiteRepository, changes *feed.Feed) *CategoryService {
	return &CategoryService{storage: storage, changes: changes}
}

func (s *CategoryService) CreateCategory(ctx context.Context, cat core.Category) (core.Category, error) {
	if err := cat.Validate(); err != nil {
		return core.Category{}, err
	}
	return s.storage.CreateCategory(ctx, cat)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, cat core.Category) error {
	if err := cat.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateCategory(ctx, cat); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	// Transactions keep their recorded type; they join the renamed category
	// on the next read.
	s.publishSnapshot(ctx, cat.UserID)
	return nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, userID string, id int64) error {
	if err := s.storage.DeleteCategory(ctx, userID, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	// The cascade removed the category's transactions.
	s.publishSnapshot(ctx, userID)
	return nil
}

func (s *CategoryService) GetCategory(ctx context.Context, userID string, id int64) (core.Category, error) {
	return s.storage.GetCategory(ctx, userID, id)
}

func (s *CategoryService) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	return s.storage.ListCategories(ctx, userID)
}

func (s *CategoryService) ListCategoriesByType(ctx context.Context, userID string, t core.TransactionType) ([]core.Category, error) {
	if !t.IsValid() {
		return nil, core.ErrInvalidType
	}
	return s.storage.ListCategoriesByType(ctx, userID, t)
}

// EnsureDefaults seeds the built-in catalog for a user with no categories.
func (s *CategoryService) EnsureDefaults(ctx context.Context, userID string) error {
	return s.storage.EnsureDefaultCategories(ctx, userID)
}

func (s *CategoryService) publishSnapshot(ctx context.Context, userID string) {
	if s.changes == nil {
		return
	}
	list, err := s.storage.ListTransactionsWithCategory(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build feed snapshot", "user_id", userID, "error", err)
		return
	}
	s.changes.Publish(feed.Snapshot{UserID: userID, Transactions: list})
}
