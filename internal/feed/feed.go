// Package feed implements the push-based observation model: on every
// mutation the owning service publishes the user's full refreshed snapshot,
// and subscribers recompute their derived views from scratch. There is no
// delta protocol; a snapshot always replaces whatever the subscriber held.
package feed

import (
	"sync"

	"moneymanagement/internal/core"
)

// Snapshot is one consistent, fully materialized copy of a user's
// transaction collection as of a point in time.
type Snapshot struct {
	UserID       string
	Transactions []core.TransactionWithCategory
}

// Feed fans snapshots out to subscribers. Publishing never blocks: a
// subscriber that has not drained its previous snapshot has it replaced by
// the newer one, which is safe because snapshots are self-contained.
type Feed struct {
	mu   sync.Mutex
	subs map[int]chan Snapshot
	next int
}

// Subscription receives snapshots until Cancel is called.
type Subscription struct {
	C      <-chan Snapshot
	id     int
	feed   *Feed
	cancel sync.Once
}

func New() *Feed {
	return &Feed{subs: make(map[int]chan Snapshot)}
}

// Subscribe registers a new subscriber. Each subscriber holds at most one
// pending snapshot.
func (f *Feed) Subscribe() *Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan Snapshot, 1)
	id := f.next
	f.next++
	f.subs[id] = ch

	return &Subscription{C: ch, id: id, feed: f}
}

// Publish delivers the snapshot to every subscriber, dropping each
// subscriber's stale pending snapshot if it has one.
func (f *Feed) Publish(s Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subs {
		select {
		case ch <- s:
		default:
			// Swap the stale snapshot for the fresh one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

// Cancel removes the subscription and closes its channel. Safe to call more
// than once.
func (s *Subscription) Cancel() {
	s.cancel.Do(func() {
		s.feed.mu.Lock()
		defer s.feed.mu.Unlock()
		if ch, ok := s.feed.subs[s.id]; ok {
			delete(s.feed.subs, s.id)
			close(ch)
		}
	})
}

// SubscriberCount returns the number of active subscriptions.
func (f *Feed) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
