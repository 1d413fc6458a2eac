package store

import (
	"context"
	"fmt"

	"dompet/internal/model"
)

// CreateWallet writes a new wallet document. A non-nil opening is written
// in the same script as an income entry on the new wallet, so the wallet
// never exists without its opening balance and reconciliation can derive
// it. Only opening.ID, Amount and Description are used.
func (s *RedisStore) CreateWallet(ctx context.Context, userID string, w model.Wallet, opening *model.LedgerEntry) (model.Wallet, error) {
	w.Balance = 0
	if w.Status == "" {
		w.Status = model.WalletActive
	}
	createdAt := w.CreatedAt.UnixMilli()

	var openingID, openingAmount, openingDesc string
	if opening != nil {
		openingID, openingAmount, openingDesc = opening.ID, fmtAmount(opening.Amount), opening.Description
	}
	keys := []string{
		keyWallet(userID, w.ID),
		keyWallets(userID),
		keyEntry(userID, model.KindIncome, openingID),
		keyIndex(userID, model.KindIncome),
		keyRev(userID),
		keyStream(userID),
		StreamLedger,
	}
	res, err := s.run(ctx, s.scrWalletCreate, keys,
		w.ID, w.Name, w.Currency, string(w.ColorStyle), w.ColorValue, string(w.Status),
		boolField(w.IsSaving), createdAt, userID, openingID, openingAmount, openingDesc)
	if err != nil {
		return model.Wallet{}, err
	}
	w.Balance = res[1]
	return w, nil
}

func (s *RedisStore) GetWallet(ctx context.Context, userID, walletID string) (model.Wallet, error) {
	fields, err := s.rdb.HGetAll(ctx, keyWallet(userID, walletID)).Result()
	if err != nil {
		return model.Wallet{}, fmt.Errorf("get wallet %s: %w", walletID, err)
	}
	if len(fields) == 0 {
		return model.Wallet{}, model.ErrWalletNotFound
	}
	var w model.Wallet
	if err := decodeHash(walletID, fields, &w); err != nil {
		return model.Wallet{}, fmt.Errorf("decode wallet %s: %w", walletID, err)
	}
	return w, nil
}

func (s *RedisStore) ListWallets(ctx context.Context, userID string) ([]model.Wallet, error) {
	return loadWallets(ctx, s.rdb, userID)
}

// ArchiveWallet soft-deletes a wallet; only a zero balance may be archived.
// Archiving an archived wallet is a no-op.
func (s *RedisStore) ArchiveWallet(ctx context.Context, userID, walletID string) error {
	keys := []string{keyWallet(userID, walletID), keyRev(userID), keyStream(userID), StreamLedger}
	_, err := s.run(ctx, s.scrWalletArchive, keys, walletID, userID)
	return err
}

func loadWallets(ctx context.Context, r reader, userID string) ([]model.Wallet, error) {
	ids, hashes, err := loadHashes(ctx, r, keyWallets(userID), func(id string) string {
		return keyWallet(userID, id)
	})
	if err != nil {
		return nil, fmt.Errorf("load wallets: %w", err)
	}
	out := make([]model.Wallet, 0, len(ids))
	for i, id := range ids {
		if len(hashes[i]) == 0 {
			continue
		}
		var w model.Wallet
		if err := decodeHash(id, hashes[i], &w); err != nil {
			return nil, fmt.Errorf("decode wallet %s: %w", id, err)
		}
		out = append(out, w)
	}
	return out, nil
}
