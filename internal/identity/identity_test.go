package identity

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"moneymanagement/internal/core"
	"moneymanagement/internal/storage"
)

func TestStorageProviderAuthenticate(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	profile := core.UserProfile{ID: "u1", Email: "u1@example.com", Name: "User One"}
	if err := repo.UpsertUser(ctx, profile, "good-token"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	p := NewStorageProvider(repo)

	got, err := p.Authenticate(ctx, "good-token")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != "u1" {
		t.Errorf("authenticated as %s, want u1", got.ID)
	}

	if _, err := p.Authenticate(ctx, "bad-token"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("unknown token: got %v, want ErrUnauthenticated", err)
	}
	if _, err := p.Authenticate(ctx, "  "); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("blank token: got %v, want ErrUnauthenticated", err)
	}
}

func TestFromAuthorizationHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"Bearer   abc123  ", "abc123"},
		{"Basic abc123", ""},
		{"Bearer", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FromAuthorizationHeader(tt.header); got != tt.want {
			t.Errorf("FromAuthorizationHeader(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
