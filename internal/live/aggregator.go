package live

import (
	"context"
	"sync"

	"dompet/internal/model"
	"dompet/pkg/logger"
)

// Feed delivers full snapshots of one entry collection of one user until
// ctx is done. Implemented by store.RedisStore.
type Feed interface {
	Follow(ctx context.Context, userID string, kind model.Kind, emit func([]model.Entry)) error
}

// Aggregator merges the income, outcome and transfer feeds of a user into
// one unified collection.
type Aggregator struct {
	feed Feed
}

func NewAggregator(feed Feed) *Aggregator {
	return &Aggregator{feed: feed}
}

// Subscription is one user's merged view. Updates carries the full unified
// collection after every partial update; it is unordered, consumers sort.
// Only the latest collection is kept if the consumer falls behind.
type Subscription struct {
	userID  string
	cancel  context.CancelFunc
	updates chan []model.Entry
	done    chan struct{}

	mu     sync.Mutex
	slices map[model.Kind][]model.Entry
	err    error
}

// Subscribe starts the three feeds for userID. The subscription ends when
// ctx is done, Close is called, or any feed fails; all three feeds are
// released together and Updates is closed.
func (a *Aggregator) Subscribe(ctx context.Context, userID string) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		userID:  userID,
		cancel:  cancel,
		updates: make(chan []model.Entry, 1),
		done:    make(chan struct{}),
		slices:  make(map[model.Kind][]model.Entry, len(model.Kinds)),
	}

	var wg sync.WaitGroup
	for _, kind := range model.Kinds {
		wg.Add(1)
		go func(kind model.Kind) {
			defer wg.Done()
			err := a.feed.Follow(ctx, userID, kind, func(snap []model.Entry) {
				s.apply(ctx, kind, snap)
			})
			if err != nil && ctx.Err() == nil {
				logger.WithUser(userID).Errorf("live feed %s: %v", kind.Collection(), err)
				s.fail(err)
			}
		}(kind)
	}

	go func() {
		wg.Wait()
		close(s.updates)
		close(s.done)
	}()
	return s
}

func (s *Subscription) Updates() <-chan []model.Entry { return s.updates }

func (s *Subscription) UserID() string { return s.userID }

// Err returns the feed error that ended the subscription, if any.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close releases all feeds and waits for them to stop.
func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}

func (s *Subscription) fail(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	s.cancel()
}

// apply replaces the slice of one kind with snap and publishes the merged
// collection. Entries of another kind in snap are ignored, so replaying the
// same snapshot is harmless.
func (s *Subscription) apply(ctx context.Context, kind model.Kind, snap []model.Entry) {
	fresh := make([]model.Entry, 0, len(snap))
	for _, e := range snap {
		if e.Kind == kind {
			fresh = append(fresh, e)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	s.slices[kind] = fresh

	total := 0
	for _, k := range model.Kinds {
		total += len(s.slices[k])
	}
	merged := make([]model.Entry, 0, total)
	for _, k := range model.Kinds {
		merged = append(merged, s.slices[k]...)
	}

	select {
	case <-s.updates:
	default:
	}
	s.updates <- merged
}
