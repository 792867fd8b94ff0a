package storage

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"moneymanagement/internal/core"
)

//go:embed default_categories.yaml
var defaultCategoriesYAML []byte

type seedCategory struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

type seedCatalog struct {
	Income  []seedCategory `yaml:"income"`
	Expense []seedCategory `yaml:"expense"`
}

// DefaultCategories returns the built-in category catalog for a new user.
func DefaultCategories(userID string) ([]core.Category, error) {
	var catalog seedCatalog
	if err := yaml.Unmarshal(defaultCategoriesYAML, &catalog); err != nil {
		return nil, fmt.Errorf("parse default category catalog: %w", err)
	}

	var out []core.Category
	for _, c := range catalog.Income {
		out = append(out, core.Category{UserID: userID, Name: c.Name, Icon: c.Icon, Type: core.Income})
	}
	for _, c := range catalog.Expense {
		out = append(out, core.Category{UserID: userID, Name: c.Name, Icon: c.Icon, Type: core.Expense})
	}
	return out, nil
}

// EnsureDefaultCategories seeds the built-in catalog for users that have no
// categories yet. Users that already have any are left untouched.
func (r *SQLiteRepository) EnsureDefaultCategories(ctx context.Context, userID string) error {
	n, err := r.CountCategories(ctx, userID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	defaults, err := DefaultCategories(userID)
	if err != nil {
		return err
	}

	for _, cat := range defaults {
		if _, err := r.CreateCategory(ctx, cat); err != nil {
			return fmt.Errorf("seed category %q: %w", cat.Name, err)
		}
	}

	slog.InfoContext(ctx, "Default categories seeded", "user_id", userID, "count", len(defaults))
	return nil
}
