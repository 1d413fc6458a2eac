package store

import (
	"context"
	"fmt"
	"time"

	"dompet/internal/model"

	"github.com/redis/go-redis/v9"
)

// CreateLedgerEntry writes an income/outcome and applies its balance delta in
// the same script. e.ID, e.Kind, e.WalletID and e.Currency must be set; the
// server clock assigns CreatedAt. Returns the stored entry and the new
// wallet balance.
func (s *RedisStore) CreateLedgerEntry(ctx context.Context, userID string, e model.LedgerEntry) (model.LedgerEntry, int64, error) {
	keys := []string{
		keyWallet(userID, e.WalletID),
		keyEntry(userID, e.Kind, e.ID),
		keyIndex(userID, e.Kind),
		keyRev(userID),
		keyStream(userID),
		StreamLedger,
	}
	res, err := s.run(ctx, s.scrEntryCreate, keys,
		string(e.Kind), e.ID, e.WalletID, fmtAmount(e.Amount), e.Description, e.Currency, userID)
	if err != nil {
		return model.LedgerEntry{}, 0, err
	}
	e.CreatedAt = time.UnixMilli(res[2]).UTC()
	e.EditHistory = nil
	return e, res[1], nil
}

// EditLedgerEntry overwrites amount and description, appending the pre-edit
// state to the edit history. walletID is the wallet the caller read the entry
// with; a mismatch aborts with model.ErrConflict.
func (s *RedisStore) EditLedgerEntry(ctx context.Context, userID string, kind model.Kind, id, walletID string, amount int64, description string) (int64, error) {
	keys := []string{
		keyWallet(userID, walletID),
		keyEntry(userID, kind, id),
		keyHistory(userID, kind, id),
		keyRev(userID),
		keyStream(userID),
		StreamLedger,
	}
	res, err := s.run(ctx, s.scrEntryEdit, keys,
		string(kind), id, walletID, fmtAmount(amount), description, userID)
	if err != nil {
		return 0, err
	}
	return res[1], nil
}

// DeleteLedgerEntry removes an entry and reverses its balance effect.
func (s *RedisStore) DeleteLedgerEntry(ctx context.Context, userID string, kind model.Kind, id, walletID string) (int64, error) {
	keys := []string{
		keyWallet(userID, walletID),
		keyEntry(userID, kind, id),
		keyHistory(userID, kind, id),
		keyIndex(userID, kind),
		keyRev(userID),
		keyStream(userID),
		StreamLedger,
	}
	res, err := s.run(ctx, s.scrEntryDelete, keys, string(kind), id, walletID, userID)
	if err != nil {
		return 0, err
	}
	return res[1], nil
}

func (s *RedisStore) GetLedgerEntry(ctx context.Context, userID string, kind model.Kind, id string) (model.LedgerEntry, error) {
	var (
		fields *redis.MapStringStringCmd
		hist   *redis.StringSliceCmd
	)
	_, err := s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		fields = pipe.HGetAll(ctx, keyEntry(userID, kind, id))
		hist = pipe.LRange(ctx, keyHistory(userID, kind, id), 0, -1)
		return nil
	})
	if err != nil {
		return model.LedgerEntry{}, fmt.Errorf("get %s %s: %w", kind, id, err)
	}
	if len(fields.Val()) == 0 {
		return model.LedgerEntry{}, model.ErrEntryNotFound
	}
	return decodeLedgerEntry(kind, id, fields.Val(), hist.Val())
}

func (s *RedisStore) ListLedgerEntries(ctx context.Context, userID string, kind model.Kind) ([]model.LedgerEntry, error) {
	return loadLedgerEntries(ctx, s.rdb, userID, kind)
}

func loadLedgerEntries(ctx context.Context, r reader, userID string, kind model.Kind) ([]model.LedgerEntry, error) {
	ids, err := r.ZRange(ctx, keyIndex(userID, kind), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind.Collection(), err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	fields := make([]*redis.MapStringStringCmd, len(ids))
	hists := make([]*redis.StringSliceCmd, len(ids))
	_, err = r.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			fields[i] = pipe.HGetAll(ctx, keyEntry(userID, kind, id))
			hists[i] = pipe.LRange(ctx, keyHistory(userID, kind, id), 0, -1)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind.Collection(), err)
	}

	out := make([]model.LedgerEntry, 0, len(ids))
	for i, id := range ids {
		if len(fields[i].Val()) == 0 {
			continue
		}
		e, err := decodeLedgerEntry(kind, id, fields[i].Val(), hists[i].Val())
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeLedgerEntry(kind model.Kind, id string, fields map[string]string, hist []string) (model.LedgerEntry, error) {
	var e model.LedgerEntry
	if err := decodeHash(id, fields, &e); err != nil {
		return model.LedgerEntry{}, fmt.Errorf("decode %s %s: %w", kind, id, err)
	}
	e.Kind = kind
	history, err := decodeHistory(hist)
	if err != nil {
		return model.LedgerEntry{}, fmt.Errorf("decode %s %s: %w", kind, id, err)
	}
	e.EditHistory = history
	return e, nil
}
