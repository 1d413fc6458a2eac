package store

import (
	"context"
	"fmt"

	"dompet/internal/model"
)

// CreateTransfer debits the source, credits the destination and writes the
// transfer document in one script. Currency and wallet names are taken from
// the wallets at write time.
func (s *RedisStore) CreateTransfer(ctx context.Context, userID string, t model.Transfer) (model.Transfer, error) {
	keys := []string{
		keyWallet(userID, t.FromWalletID),
		keyWallet(userID, t.ToWalletID),
		keyEntry(userID, model.KindTransfer, t.ID),
		keyIndex(userID, model.KindTransfer),
		keyRev(userID),
		keyStream(userID),
		StreamLedger,
	}
	_, err := s.run(ctx, s.scrTransferCreate, keys,
		t.ID, t.FromWalletID, t.ToWalletID, fmtAmount(t.Amount), t.Description, userID)
	if err != nil {
		return model.Transfer{}, err
	}
	return s.GetTransfer(ctx, userID, t.ID)
}

// EditTransfer rolls back original (its stored from/to/amount) and applies
// the new parameters. original must be the transfer as the caller read it;
// if the stored wallets differ the script aborts with model.ErrConflict.
func (s *RedisStore) EditTransfer(ctx context.Context, userID string, original model.Transfer, fromWalletID, toWalletID string, amount int64, description string) (model.Transfer, error) {
	keys := []string{
		keyEntry(userID, model.KindTransfer, original.ID),
		keyWallet(userID, original.FromWalletID),
		keyWallet(userID, original.ToWalletID),
		keyWallet(userID, fromWalletID),
		keyWallet(userID, toWalletID),
		keyRev(userID),
		keyStream(userID),
		StreamLedger,
	}
	_, err := s.run(ctx, s.scrTransferEdit, keys,
		original.ID, original.FromWalletID, original.ToWalletID,
		fromWalletID, toWalletID, fmtAmount(amount), description, userID)
	if err != nil {
		return model.Transfer{}, err
	}
	return s.GetTransfer(ctx, userID, original.ID)
}

// DeleteTransfer rolls back the transfer and removes its document.
func (s *RedisStore) DeleteTransfer(ctx context.Context, userID string, t model.Transfer) error {
	keys := []string{
		keyEntry(userID, model.KindTransfer, t.ID),
		keyWallet(userID, t.FromWalletID),
		keyWallet(userID, t.ToWalletID),
		keyIndex(userID, model.KindTransfer),
		keyRev(userID),
		keyStream(userID),
		StreamLedger,
	}
	_, err := s.run(ctx, s.scrTransferDelete, keys, t.ID, t.FromWalletID, t.ToWalletID, userID)
	return err
}

func (s *RedisStore) GetTransfer(ctx context.Context, userID, id string) (model.Transfer, error) {
	fields, err := s.rdb.HGetAll(ctx, keyEntry(userID, model.KindTransfer, id)).Result()
	if err != nil {
		return model.Transfer{}, fmt.Errorf("get transfer %s: %w", id, err)
	}
	if len(fields) == 0 {
		return model.Transfer{}, model.ErrEntryNotFound
	}
	var t model.Transfer
	if err := decodeHash(id, fields, &t); err != nil {
		return model.Transfer{}, fmt.Errorf("decode transfer %s: %w", id, err)
	}
	return t, nil
}

func (s *RedisStore) ListTransfers(ctx context.Context, userID string) ([]model.Transfer, error) {
	return loadTransfers(ctx, s.rdb, userID)
}

func loadTransfers(ctx context.Context, r reader, userID string) ([]model.Transfer, error) {
	ids, hashes, err := loadHashes(ctx, r, keyIndex(userID, model.KindTransfer), func(id string) string {
		return keyEntry(userID, model.KindTransfer, id)
	})
	if err != nil {
		return nil, fmt.Errorf("load transfers: %w", err)
	}
	out := make([]model.Transfer, 0, len(ids))
	for i, id := range ids {
		if len(hashes[i]) == 0 {
			continue
		}
		var t model.Transfer
		if err := decodeHash(id, hashes[i], &t); err != nil {
			return nil, fmt.Errorf("decode transfer %s: %w", id, err)
		}
		out = append(out, t)
	}
	return out, nil
}
