// Package worker reconciles the local database with the remote mirror,
// driven by sync messages from the AMQP queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"moneymanagement/internal/amqp"
	"moneymanagement/internal/core"
	"moneymanagement/internal/remote"
	"moneymanagement/internal/storage"
)

// SyncWorker applies transaction sync messages against the mirror.
type SyncWorker struct {
	storage  *storage.SQLiteRepository
	mirror   remote.TransactionMirror
	profiles remote.ProfileStore
}

func NewSyncWorker(storage *storage.SQLiteRepository, mirror remote.TransactionMirror, profiles remote.ProfileStore) *SyncWorker {
	return &SyncWorker{
		storage:  storage,
		mirror:   mirror,
		profiles: profiles,
	}
}

// HandleMessage processes a single sync message. Upserts are applied as
// remove-then-append so a re-delivered or updated transaction never
// duplicates its mirror row.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	if w.mirror == nil {
		slog.WarnContext(ctx, "No mirror configured, dropping sync message",
			"message_id", msg.MessageID, "op", msg.Op)
		return nil
	}

	switch msg.Op {
	case amqp.OpUpsert:
		return w.upsert(ctx, msg)
	case amqp.OpDelete:
		return w.remove(ctx, msg)
	default:
		// Validate catches this before delivery; kept for safety.
		return fmt.Errorf("unknown op %q", msg.Op)
	}
}

func (w *SyncWorker) upsert(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	tx, err := w.storage.GetTransaction(ctx, msg.UserID, msg.TransactionID)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted locally between publish and delivery. The delete message
		// that follows will clean up the mirror.
		slog.WarnContext(ctx, "Transaction vanished before sync, skipping",
			"transaction_id", msg.TransactionID, "user_id", msg.UserID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	item := core.TransactionWithCategory{Transaction: tx}
	cat, err := w.storage.GetCategory(ctx, msg.UserID, tx.CategoryID)
	switch {
	case err == nil:
		item.Category = &cat
	case errors.Is(err, storage.ErrNotFound):
		// Mirror the transaction without its category.
	default:
		return fmt.Errorf("get category from storage: %w", err)
	}

	if err := w.mirror.RemoveTransaction(ctx, msg.UserID, msg.TransactionID); err != nil {
		return fmt.Errorf("remove stale mirror row: %w", err)
	}

	ref, err := w.mirror.AppendTransaction(ctx, item)
	if err != nil {
		return fmt.Errorf("append to mirror: %w", err)
	}

	slog.InfoContext(ctx, "Transaction synced to mirror",
		"transaction_id", tx.ID,
		"user_id", tx.UserID,
		"mirror_ref", ref,
		"amount_cents", tx.Amount.Cents)

	return nil
}

func (w *SyncWorker) remove(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	if err := w.mirror.RemoveTransaction(ctx, msg.UserID, msg.TransactionID); err != nil {
		return fmt.Errorf("remove from mirror: %w", err)
	}

	slog.InfoContext(ctx, "Transaction removed from mirror",
		"transaction_id", msg.TransactionID, "user_id", msg.UserID)

	return nil
}

// SyncProfile pushes the user's current profile to the mirror.
func (w *SyncWorker) SyncProfile(ctx context.Context, userID string) error {
	if w.profiles == nil {
		return nil
	}

	profile, err := w.storage.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user from storage: %w", err)
	}

	if err := w.profiles.SaveProfile(ctx, profile); err != nil {
		return fmt.Errorf("save profile to mirror: %w", err)
	}

	slog.InfoContext(ctx, "Profile synced to mirror", "user_id", userID)
	return nil
}
