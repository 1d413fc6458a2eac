package live

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"dompet/internal/model"
)

type fakeFeed struct {
	mu      sync.Mutex
	emits   map[model.Kind]func([]model.Entry)
	fail    map[model.Kind]error
	ready   chan model.Kind
	stopped chan model.Kind
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		emits:   make(map[model.Kind]func([]model.Entry)),
		fail:    make(map[model.Kind]error),
		ready:   make(chan model.Kind, 3),
		stopped: make(chan model.Kind, 3),
	}
}

func (f *fakeFeed) Follow(ctx context.Context, userID string, kind model.Kind, emit func([]model.Entry)) error {
	f.mu.Lock()
	f.emits[kind] = emit
	err := f.fail[kind]
	f.mu.Unlock()

	f.ready <- kind
	if err != nil {
		return err
	}
	<-ctx.Done()
	f.stopped <- kind
	return nil
}

func (f *fakeFeed) emit(kind model.Kind, entries ...model.Entry) {
	f.mu.Lock()
	fn := f.emits[kind]
	f.mu.Unlock()
	fn(entries)
}

func waitReady(t *testing.T, f *fakeFeed) {
	t.Helper()
	for i := 0; i < 3; i++ {
		select {
		case <-f.ready:
		case <-time.After(time.Second):
			t.Fatal("feeds did not start")
		}
	}
}

func next(t *testing.T, s *Subscription) []model.Entry {
	t.Helper()
	select {
	case got, ok := <-s.Updates():
		if !ok {
			t.Fatal("updates closed")
		}
		return got
	case <-time.After(time.Second):
		t.Fatal("no update")
	}
	return nil
}

func entry(kind model.Kind, id string) model.Entry {
	if kind == model.KindTransfer {
		return model.FromTransfer(model.Transfer{ID: id})
	}
	return model.FromLedger(model.LedgerEntry{ID: id, Kind: kind})
}

func idsOf(entries []model.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID())
	}
	sort.Strings(out)
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSubscription_MergesByKind(t *testing.T) {
	feed := newFakeFeed()
	sub := NewAggregator(feed).Subscribe(context.Background(), "u1")
	defer sub.Close()
	waitReady(t, feed)

	feed.emit(model.KindIncome, entry(model.KindIncome, "i1"), entry(model.KindIncome, "i2"))
	if got := idsOf(next(t, sub)); !equal(got, []string{"i1", "i2"}) {
		t.Fatalf("after incomes = %v", got)
	}

	feed.emit(model.KindTransfer, entry(model.KindTransfer, "t1"))
	if got := idsOf(next(t, sub)); !equal(got, []string{"i1", "i2", "t1"}) {
		t.Fatalf("after transfers = %v", got)
	}

	// a new income snapshot replaces only the income slice
	feed.emit(model.KindIncome, entry(model.KindIncome, "i2"))
	if got := idsOf(next(t, sub)); !equal(got, []string{"i2", "t1"}) {
		t.Fatalf("after income delete = %v", got)
	}

	// replaying the same snapshot changes nothing
	feed.emit(model.KindIncome, entry(model.KindIncome, "i2"))
	if got := idsOf(next(t, sub)); !equal(got, []string{"i2", "t1"}) {
		t.Fatalf("after replay = %v", got)
	}
}

func TestSubscription_IgnoresForeignKinds(t *testing.T) {
	feed := newFakeFeed()
	sub := NewAggregator(feed).Subscribe(context.Background(), "u1")
	defer sub.Close()
	waitReady(t, feed)

	feed.emit(model.KindOutcome, entry(model.KindOutcome, "o1"), entry(model.KindIncome, "stray"))
	if got := idsOf(next(t, sub)); !equal(got, []string{"o1"}) {
		t.Errorf("merged = %v", got)
	}
}

func TestSubscription_LatestWins(t *testing.T) {
	feed := newFakeFeed()
	sub := NewAggregator(feed).Subscribe(context.Background(), "u1")
	defer sub.Close()
	waitReady(t, feed)

	feed.emit(model.KindIncome, entry(model.KindIncome, "i1"))
	feed.emit(model.KindOutcome, entry(model.KindOutcome, "o1"))
	if got := idsOf(next(t, sub)); !equal(got, []string{"i1", "o1"}) {
		t.Fatalf("merged = %v", got)
	}
	select {
	case got := <-sub.Updates():
		t.Errorf("stale update still queued: %v", idsOf(got))
	default:
	}
}

func TestSubscription_CloseReleasesAllFeeds(t *testing.T) {
	feed := newFakeFeed()
	sub := NewAggregator(feed).Subscribe(context.Background(), "u1")
	waitReady(t, feed)
	if sub.UserID() != "u1" {
		t.Errorf("UserID = %q", sub.UserID())
	}

	sub.Close()
	stopped := map[model.Kind]bool{}
	for i := 0; i < 3; i++ {
		select {
		case k := <-feed.stopped:
			stopped[k] = true
		case <-time.After(time.Second):
			t.Fatal("feed not released")
		}
	}
	if len(stopped) != 3 {
		t.Errorf("stopped = %v", stopped)
	}
	if _, ok := <-sub.Updates(); ok {
		t.Error("updates still open after Close")
	}
	if sub.Err() != nil {
		t.Errorf("Err = %v after Close", sub.Err())
	}
}

func TestSubscription_FeedErrorEndsAll(t *testing.T) {
	feed := newFakeFeed()
	boom := errors.New("boom")
	feed.fail[model.KindTransfer] = boom

	sub := NewAggregator(feed).Subscribe(context.Background(), "u1")
	waitReady(t, feed)

	done := make(chan struct{})
	go func() {
		for range sub.Updates() {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("subscription did not end after feed error")
	}
	if !errors.Is(sub.Err(), boom) {
		t.Errorf("Err = %v, want boom", sub.Err())
	}
	sub.Close()
}

func TestSubscription_ContextCancel(t *testing.T) {
	feed := newFakeFeed()
	ctx, cancel := context.WithCancel(context.Background())
	sub := NewAggregator(feed).Subscribe(ctx, "u1")
	waitReady(t, feed)

	cancel()
	select {
	case _, ok := <-sub.Updates():
		if ok {
			t.Error("unexpected update")
		}
	case <-time.After(time.Second):
		t.Fatal("updates not closed after cancel")
	}
}
