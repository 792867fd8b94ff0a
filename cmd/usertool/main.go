// Command usertool provisions API users: it creates or refreshes an
// account, seeds the default category catalog, and prints the bearer
// token clients authenticate with.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"moneymanagement/internal/config"
	"moneymanagement/internal/core"
	applog "moneymanagement/internal/log"
	"moneymanagement/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	var (
		id       = flag.String("id", "", "user id (generated when empty)")
		email    = flag.String("email", "", "user email (required)")
		name     = flag.String("name", "", "display name (required)")
		imageURL = flag.String("image-url", "", "avatar URL")
		token    = flag.String("token", "", "bearer token (generated when empty)")
	)
	flag.Parse()

	if *email == "" || *name == "" {
		fmt.Fprintln(os.Stderr, "usage: usertool -email <email> -name <name> [-id <id>] [-image-url <url>] [-token <token>]")
		os.Exit(2)
	}

	if *id == "" {
		*id = uuid.NewString()
	}
	if *token == "" {
		*token = uuid.NewString()
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()
	profile := core.UserProfile{
		ID:       *id,
		Email:    *email,
		Name:     *name,
		ImageURL: *imageURL,
	}

	if err := repo.UpsertUser(ctx, profile, *token); err != nil {
		logger.Error("Failed to upsert user", "error", err, "user_id", *id)
		os.Exit(1)
	}
	if err := repo.EnsureDefaultCategories(ctx, *id); err != nil {
		logger.Error("Failed to seed default categories", "error", err, "user_id", *id)
		os.Exit(1)
	}

	fmt.Printf("user_id: %s\ntoken: %s\n", *id, *token)
}
