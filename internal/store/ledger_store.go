package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"dompet/internal/model"

	"github.com/redis/go-redis/v9"
)

// reader is satisfied by both the client and a WATCHed *redis.Tx.
type reader interface {
	ZRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	Pipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

// Ledger is a full read of one user's wallets and entry collections.
type Ledger struct {
	Wallets   []model.Wallet
	Incomes   []model.LedgerEntry
	Outcomes  []model.LedgerEntry
	Transfers []model.Transfer
}

// Entries flattens the three collections into the unified union.
func (l Ledger) Entries() []model.Entry {
	out := make([]model.Entry, 0, len(l.Incomes)+len(l.Outcomes)+len(l.Transfers))
	for _, e := range l.Incomes {
		out = append(out, model.FromLedger(e))
	}
	for _, e := range l.Outcomes {
		out = append(out, model.FromLedger(e))
	}
	for _, t := range l.Transfers {
		out = append(out, model.FromTransfer(t))
	}
	return out
}

// loadHashes reads every member of an index zset and HGETALLs its document
// in one pipeline. Members whose document vanished come back as empty maps.
func loadHashes(ctx context.Context, r reader, index string, docKey func(id string) string) ([]string, []map[string]string, error) {
	ids, err := r.ZRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, nil, err
	}
	if len(ids) == 0 {
		return nil, nil, nil
	}
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, docKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	out := make([]map[string]string, len(ids))
	for i, cmd := range cmds {
		out[i] = cmd.Val()
	}
	return ids, out, nil
}

// LoadLedger reads all wallets and entries of a user.
func (s *RedisStore) LoadLedger(ctx context.Context, userID string) (Ledger, error) {
	return loadLedger(ctx, s.rdb, userID)
}

func loadLedger(ctx context.Context, r reader, userID string) (Ledger, error) {
	var (
		l   Ledger
		err error
	)
	if l.Wallets, err = loadWallets(ctx, r, userID); err != nil {
		return Ledger{}, err
	}
	if l.Incomes, err = loadLedgerEntries(ctx, r, userID, model.KindIncome); err != nil {
		return Ledger{}, err
	}
	if l.Outcomes, err = loadLedgerEntries(ctx, r, userID, model.KindOutcome); err != nil {
		return Ledger{}, err
	}
	if l.Transfers, err = loadTransfers(ctx, r, userID); err != nil {
		return Ledger{}, err
	}
	return l, nil
}

// ApplyBalances recomputes wallet balances under optimistic concurrency.
// compute receives a consistent read of the ledger and returns the balances
// to store; the write only lands if no ledger script ran in between (the
// per-user revision counter is WATCHed). It returns the number of attempts.
func (s *RedisStore) ApplyBalances(ctx context.Context, userID string, compute func(Ledger) (map[string]int64, error)) (int, error) {
	maxRetries := s.MaxCASRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	txf := func(tx *redis.Tx) error {
		l, err := loadLedger(ctx, tx, userID)
		if err != nil {
			return err
		}
		targets, err := compute(l)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for walletID, balance := range targets {
				pipe.HSet(ctx, keyWallet(userID, walletID), "balance", balance)
			}
			pipe.Incr(ctx, keyRev(userID))
			pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: keyStream(userID),
				MaxLen: 1000,
				Values: []any{"collection", "wallet", "op", "reconcile", "id", "all", "user", userID},
			})
			pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: StreamLedger,
				Values: []any{"collection", "wallet", "op", "reconcile", "id", "all", "user", userID},
			})
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.rdb.Watch(ctx, txf, keyRev(userID))
		if err == nil {
			return attempt, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return attempt, err
		}
	}
	return maxRetries, fmt.Errorf("%w: ledger kept changing during reconciliation", model.ErrConflict)
}

type editRecordDoc struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	EditedAt    int64  `json:"edited_at"`
}

func decodeHistory(raw []string) ([]model.EditRecord, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]model.EditRecord, 0, len(raw))
	for _, r := range raw {
		var doc editRecordDoc
		if err := json.Unmarshal([]byte(r), &doc); err != nil {
			return nil, fmt.Errorf("decode edit history: %w", err)
		}
		amount, err := strconv.ParseInt(doc.Amount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode edit history amount %q: %w", doc.Amount, err)
		}
		out = append(out, model.EditRecord{
			Description: doc.Description,
			Amount:      amount,
			EditedAt:    time.UnixMilli(doc.EditedAt).UTC(),
		})
	}
	return out, nil
}
