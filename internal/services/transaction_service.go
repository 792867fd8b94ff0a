// Package services orchestrates domain operations across storage, the
// change feed and the AMQP sync queue.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"moneymanagement/internal/amqp"
	"moneymanagement/internal/core"
	"moneymanagement/internal/feed"
	"moneymanagement/internal/storage"
)

// TransactionInput carries the caller-supplied fields of a transaction. The
// type is never part of the input: it always comes from the category.
type TransactionInput struct {
	UserID     string
	CategoryID int64
	Name       string
	Amount     core.Money
	Date       string
	Note       string
}

// TransactionService owns transaction mutations. Every successful mutation
// publishes a fresh snapshot on the feed and a sync message for the mirror
// worker.
type TransactionService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	changes    *feed.Feed
}

func NewTransactionService(storage *storage.SQLiteRepository, amqpClient *amqp.Client, changes *feed.Feed) *TransactionService {
	return &TransactionService{
		storage:    storage,
		amqpClient: amqpClient,
		changes:    changes,
	}
}

// CreateTransaction validates the input against its category and saves it.
// The transaction's type is inherited from the category, so a transaction
// can never contradict the category it belongs to.
func (s *TransactionService) CreateTransaction(ctx context.Context, in TransactionInput) (core.Transaction, error) {
	cat, err := s.storage.GetCategory(ctx, in.UserID, in.CategoryID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("resolve category: %w", err)
	}

	tx := core.Transaction{
		UserID:     in.UserID,
		CategoryID: cat.ID,
		Name:       in.Name,
		Amount:     in.Amount,
		Date:       in.Date,
		Note:       in.Note,
		Type:       cat.Type,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.storage.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishSnapshot(ctx, saved.UserID)
	s.publishSync(ctx, amqp.NewUpsertMessage(saved.UserID, saved.ID))

	return saved, nil
}

// UpdateTransaction rewrites a transaction, re-deriving the type in case the
// transaction moved to a category of the other kind.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id int64, in TransactionInput) (core.Transaction, error) {
	cat, err := s.storage.GetCategory(ctx, in.UserID, in.CategoryID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("resolve category: %w", err)
	}

	tx := core.Transaction{
		ID:         id,
		UserID:     in.UserID,
		CategoryID: cat.ID,
		Name:       in.Name,
		Amount:     in.Amount,
		Date:       in.Date,
		Note:       in.Note,
		Type:       cat.Type,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if err := s.storage.UpdateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	updated, err := s.storage.GetTransaction(ctx, in.UserID, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("reload transaction: %w", err)
	}

	s.publishSnapshot(ctx, in.UserID)
	s.publishSync(ctx, amqp.NewUpsertMessage(in.UserID, id))

	return updated, nil
}

// DeleteTransaction removes the transaction locally and tells the worker to
// remove it from the mirror.
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID string, id int64) error {
	if err := s.storage.DeleteTransaction(ctx, userID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publishSnapshot(ctx, userID)
	s.publishSync(ctx, amqp.NewDeleteMessage(userID, id))

	return nil
}

// ListTransactions returns the user's transactions with categories, newest
// first.
func (s *TransactionService) ListTransactions(ctx context.Context, userID string) ([]core.TransactionWithCategory, error) {
	return s.storage.ListTransactionsWithCategory(ctx, userID)
}

func (s *TransactionService) GetTransaction(ctx context.Context, userID string, id int64) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, userID, id)
}

func (s *TransactionService) publishSnapshot(ctx context.Context, userID string) {
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

func (s *TransactionService) publishSync(ctx context.Context, msg *amqp.TransactionSyncMessage) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return
	}
	if err := s.amqpClient.PublishSync(ctx, msg); err != nil {
		// The mutation already succeeded locally, don't fail the request.
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"op", msg.Op, "transaction_id", msg.TransactionID, "error", err)
	}
}

// Close releases the service's storage and AMQP connections.
func (s *TransactionService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}
	return nil
}
