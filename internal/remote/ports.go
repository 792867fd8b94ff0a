// Package remote defines the outbound ports for mirroring a user's data to
// an external store. The local SQLite database stays authoritative; mirrors
// are best-effort replicas kept in sync by the worker.
package remote

import (
	"context"

	"moneymanagement/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionMirror replicates transaction mutations to a remote store.
	TransactionMirror interface {
		// AppendTransaction writes the transaction and returns an opaque
		// reference to where it landed.
		AppendTransaction(ctx context.Context, tx core.TransactionWithCategory) (rowRef string, err error)

		// RemoveTransaction deletes the mirrored transaction by its local id.
		RemoveTransaction(ctx context.Context, userID string, id int64) error
	}

	// ProfileStore persists user profile data remotely.
	ProfileStore interface {
		SaveProfile(ctx context.Context, profile core.UserProfile) error
		LoadProfile(ctx context.Context, userID string) (core.UserProfile, error)
	}
)
