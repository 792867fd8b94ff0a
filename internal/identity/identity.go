// Package identity resolves API bearer tokens to user profiles.
package identity

import (
	"context"
	"errors"
	"strings"

	"moneymanagement/internal/core"
	"moneymanagement/internal/storage"
)

// ErrUnauthenticated is returned when a token is missing or unknown.
var ErrUnauthenticated = errors.New("identity: unauthenticated")

// Provider authenticates a bearer token.
type Provider interface {
	Authenticate(ctx context.Context, token string) (core.UserProfile, error)
}

// StorageProvider authenticates tokens against the users table.
type StorageProvider struct {
	storage *storage.SQLiteRepository
}

func NewStorageProvider(storage *storage.SQLiteRepository) *StorageProvider {
	return &StorageProvider{storage: storage}
}

func (p *StorageProvider) Authenticate(ctx context.Context, token string) (core.UserProfile, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return core.UserProfile{}, ErrUnauthenticated
	}

	profile, err := p.storage.GetUserByToken(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		return core.UserProfile{}, ErrUnauthenticated
	}
	if err != nil {
		return core.UserProfile{}, err
	}
	return profile, nil
}

// FromAuthorizationHeader extracts the bearer token from an Authorization
// header value. Returns the empty string when the header doesn't carry one.
func FromAuthorizationHeader(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
