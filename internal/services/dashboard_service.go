package services

import (
	"context"
	"log/slog"
	"time"

	"moneymanagement/internal/aggregate"
	"moneymanagement/internal/cache"
	"moneymanagement/internal/core"
	"moneymanagement/internal/feed"
	"moneymanagement/internal/storage"
)

// BreakdownEntry is one category's slice of the spending (or earning) pie.
type BreakdownEntry struct {
	Category         core.Category `json:"category"`
	TotalAmount      core.Money    `json:"total_amount"`
	TransactionCount int           `json:"transaction_count"`
	Percentage       float64       `json:"percentage"`
}

// DashboardService computes the derived read views. Snapshots are cached per
// user; the change feed keeps the cache warm so a mutation is visible on the
// next read without hitting the database.
type DashboardService struct {
	storage   *storage.SQLiteRepository
	snapshots *cache.LRU[[]core.TransactionWithCategory]
	changes   *feed.Feed
}

func NewDashboardService(storage *storage.SQLiteRepository, changes *feed.Feed) *DashboardService {
	return &DashboardService{
		storage:   storage,
		snapshots: cache.NewLRU[[]core.TransactionWithCategory](256, 5*time.Minute),
		changes:   changes,
	}
}

// SnapshotCache exposes the cache for expiry management.
func (s *DashboardService) SnapshotCache() cache.Cleaner {
	return s.snapshots
}

// Run consumes the change feed until ctx is canceled, replacing cached
// snapshots as mutations happen.
func (s *DashboardService) Run(ctx context.Context) {
	if s.changes == nil {
		return
	}
	sub := s.changes.Subscribe()
	defer sub.Cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-sub.C:
			if !ok {
				return
			}
			s.snapshots.Set(snapshot.UserID, snapshot.Transactions)
			slog.DebugContext(ctx, "Dashboard snapshot refreshed",
				"user_id", snapshot.UserID, "transactions", len(snapshot.Transactions))
		}
	}
}

// Summary returns the user's all-time totals and balance.
func (s *DashboardService) Summary(ctx context.Context, userID string) (aggregate.Summary, error) {
	snapshot, err := s.snapshot(ctx, userID)
	if err != nil {
		return aggregate.Summary{}, err
	}
	return aggregate.Summarize(snapshot), nil
}

// GroupedTransactions returns the date-partitioned transaction list, newest
// day first.
func (s *DashboardService) GroupedTransactions(ctx context.Context, userID string) ([]aggregate.ListItem, error) {
	snapshot, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return aggregate.GroupByDate(snapshot, core.EnglishWeekday), nil
}

// Breakdown returns the per-category totals of one transaction type, largest
// first, with each category's share of the type total. With topOnly set, the
// list is cut to the top categories.
func (s *DashboardService) Breakdown(ctx context.Context, userID string, t core.TransactionType, topOnly bool) ([]BreakdownEntry, error) {
	if !t.IsValid() {
		return nil, core.ErrInvalidType
	}
	snapshot, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	groups := aggregate.GroupByCategoryAndType(snapshot, t)
	total := aggregate.TotalForType(groups, t)
	if topOnly && len(groups) > aggregate.DefaultTopLimit {
		groups = groups[:aggregate.DefaultTopLimit]
	}

	entries := make([]BreakdownEntry, len(groups))
	for i, g := range groups {
		entries[i] = BreakdownEntry{
			Category:         g.Category,
			TotalAmount:      g.TotalAmount,
			TransactionCount: g.TransactionCount,
			Percentage:       aggregate.PercentageOf(g, total),
		}
	}
	return entries, nil
}

// Series returns time-bucketed income and expense totals for charting.
func (s *DashboardService) Series(ctx context.Context, userID string, period aggregate.Period, year int) ([]aggregate.Bucket, error) {
	snapshot, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return aggregate.Bucketize(snapshot, period, year), nil
}

// MonthlySeries returns the cross-year month buckets (January through
// December) used by the trend chart.
func (s *DashboardService) MonthlySeries(ctx context.Context, userID string) ([]aggregate.Bucket, error) {
	snapshot, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return aggregate.MonthlySeries(snapshot), nil
}

func (s *DashboardService) snapshot(ctx context.Context, userID string) ([]core.TransactionWithCategory, error) {
	if cached, ok := s.snapshots.Get(userID); ok {
		return cached, nil
	}

	list, err := s.storage.ListTransactionsWithCategory(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.snapshots.Set(userID, list)
	return list, nil
}
