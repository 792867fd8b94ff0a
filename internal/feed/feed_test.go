package feed

import (
	"testing"
	"time"

	"moneymanagement/internal/core"
)

func snapshotFor(userID string, n int) Snapshot {
	txs := make([]core.TransactionWithCategory, n)
	for i := range txs {
		txs[i] = core.TransactionWithCategory{
			Transaction: core.Transaction{ID: int64(i + 1), UserID: userID},
		}
	}
	return Snapshot{UserID: userID, Transactions: txs}
}

func TestFeedDeliversToAllSubscribers(t *testing.T) {
	f := New()
	a := f.Subscribe()
	b := f.Subscribe()
	defer a.Cancel()
	defer b.Cancel()

	f.Publish(snapshotFor("u1", 3))

	for name, sub := range map[string]*Subscription{"a": a, "b": b} {
		select {
		case s := <-sub.C:
			if s.UserID != "u1" || len(s.Transactions) != 3 {
				t.Errorf("subscriber %s got %s/%d, want u1/3", name, s.UserID, len(s.Transactions))
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s did not receive snapshot", name)
		}
	}
}

func TestFeedPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	f := New()
	slow := f.Subscribe()
	defer slow.Cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			f.Publish(snapshotFor("u1", i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on an undrained subscriber")
	}

	// The subscriber sees the most recent snapshot, not a stale one.
	s := <-slow.C
	if len(s.Transactions) != 9 {
		t.Errorf("pending snapshot has %d transactions, want the latest (9)", len(s.Transactions))
	}
}

func TestSubscriptionCancel(t *testing.T) {
	f := New()
	sub := f.Subscribe()

	sub.Cancel()
	sub.Cancel() // idempotent

	if f.SubscriberCount() != 0 {
		t.Errorf("subscriber count = %d after cancel, want 0", f.SubscriberCount())
	}

	if _, open := <-sub.C; open {
		t.Error("channel should be closed after cancel")
	}

	// Publishing to a feed with no subscribers is a no-op.
	f.Publish(snapshotFor("u1", 1))
}
