// Package memory is an in-process mirror used for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"moneymanagement/internal/core"
	ports "moneymanagement/internal/remote"
)

type Store struct {
	mu       sync.Mutex
	items    []core.TransactionWithCategory
	profiles map[string]core.UserProfile
}

var (
	_ ports.TransactionMirror = (*Store)(nil)
	_ ports.ProfileStore      = (*Store)(nil)
)

func New() *Store {
	return &Store{profiles: make(map[string]core.UserProfile)}
}

// AppendTransaction stores the transaction and returns a synthetic row
// reference.
func (s *Store) AppendTransaction(_ context.Context, tx core.TransactionWithCategory) (string, error) {
	if err := tx.Transaction.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// RemoveTransaction drops the mirrored transaction if present. Absent rows
// are ignored, matching the remote adapter's behavior.
func (s *Store) RemoveTransaction(_ context.Context, userID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.Transaction.ID == id && item.Transaction.UserID == userID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Store) SaveProfile(_ context.Context, profile core.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = profile
	return nil
}

func (s *Store) LoadProfile(_ context.Context, userID string) (core.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return core.UserProfile{}, fmt.Errorf("no profile stored for %s", userID)
	}
	return profile, nil
}

// Transactions returns a copy of the mirrored transactions, for assertions.
func (s *Store) Transactions() []core.TransactionWithCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.TransactionWithCategory(nil), s.items...)
}
