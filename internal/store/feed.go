package store

import (
	"context"
	"errors"
	"fmt"

	"dompet/internal/model"

	"github.com/redis/go-redis/v9"
)

// Snapshot returns the full current content of one entry collection.
func (s *RedisStore) Snapshot(ctx context.Context, userID string, kind model.Kind) ([]model.Entry, error) {
	switch kind {
	case model.KindIncome, model.KindOutcome:
		entries, err := loadLedgerEntries(ctx, s.rdb, userID, kind)
		if err != nil {
			return nil, err
		}
		out := make([]model.Entry, 0, len(entries))
		for _, e := range entries {
			out = append(out, model.FromLedger(e))
		}
		return out, nil
	case model.KindTransfer:
		transfers, err := loadTransfers(ctx, s.rdb, userID)
		if err != nil {
			return nil, err
		}
		out := make([]model.Entry, 0, len(transfers))
		for _, t := range transfers {
			out = append(out, model.FromTransfer(t))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unknown entry type %q", model.ErrValidation, kind)
}

// Follow delivers a full snapshot of one collection, then a fresh snapshot
// every time the user's change stream reports a mutation in that
// collection. It blocks until ctx is done and returns nil in that case.
func (s *RedisStore) Follow(ctx context.Context, userID string, kind model.Kind, emit func([]model.Entry)) error {
	stream := keyStream(userID)

	// Posisi stream diambil sebelum snapshot supaya event di antaranya tidak hilang.
	last := "0-0"
	tail, err := s.rdb.XRevRangeN(ctx, stream, "+", "-", 1).Result()
	if err != nil {
		return fmt.Errorf("follow %s: %w", kind.Collection(), err)
	}
	if len(tail) == 1 {
		last = tail[0].ID
	}

	snap, err := s.Snapshot(ctx, userID, kind)
	if err != nil {
		return fmt.Errorf("follow %s: %w", kind.Collection(), err)
	}
	emit(snap)

	for {
		if ctx.Err() != nil {
			return nil
		}
		res, err := s.rdb.XRead(ctx, &redis.XReadArgs{
			Streams: []string{stream, last},
			Count:   100,
			Block:   s.FollowBlock,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("follow %s: %w", kind.Collection(), err)
		}

		changed := false
		for _, strm := range res {
			for _, msg := range strm.Messages {
				last = msg.ID
				if c, _ := msg.Values["collection"].(string); c == string(kind) {
					changed = true
				}
			}
		}
		if !changed {
			continue
		}

		snap, err := s.Snapshot(ctx, userID, kind)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("follow %s: %w", kind.Collection(), err)
		}
		emit(snap)
	}
}
