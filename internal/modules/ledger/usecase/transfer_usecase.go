package usecase

import (
	"context"
	"strings"

	"dompet/internal/model"
	"dompet/internal/modules/ledger/dto"
	"dompet/pkg/validation"
)

// checkTransfer validates the wallets of a transfer. available is the source
// balance the transfer may draw on.
func checkTransfer(from, to model.Wallet, amount, available int64) error {
	if !from.Active() || !to.Active() {
		return model.ErrWalletArchived
	}
	if from.Currency != to.Currency {
		return model.ErrCurrencyMismatch
	}
	if available < amount {
		return model.ErrInsufficientBalance
	}
	return nil
}

func (u *LedgerUsecase) transferWallets(ctx context.Context, userID string, in dto.TransferInput) (model.Wallet, model.Wallet, error) {
	if in.FromWalletID != "" && in.FromWalletID == in.ToWalletID {
		return model.Wallet{}, model.Wallet{}, model.ErrSameWallet
	}
	if err := validation.Struct(in); err != nil {
		return model.Wallet{}, model.Wallet{}, invalid(err)
	}
	from, err := u.store.GetWallet(ctx, userID, in.FromWalletID)
	if err != nil {
		return model.Wallet{}, model.Wallet{}, err
	}
	to, err := u.store.GetWallet(ctx, userID, in.ToWalletID)
	if err != nil {
		return model.Wallet{}, model.Wallet{}, err
	}
	return from, to, nil
}

// CreateTransfer debits the source and credits the destination atomically.
func (u *LedgerUsecase) CreateTransfer(ctx context.Context, userID string, in dto.TransferInput) (model.Transfer, error) {
	from, to, err := u.transferWallets(ctx, userID, in)
	if err != nil {
		return model.Transfer{}, wrap("create transfer", err)
	}
	if err := checkTransfer(from, to, in.Amount, from.Balance); err != nil {
		return model.Transfer{}, wrap("create transfer", err)
	}

	t, err := u.store.CreateTransfer(ctx, userID, model.Transfer{
		ID:           u.newID(),
		FromWalletID: from.ID,
		ToWalletID:   to.ID,
		Amount:       in.Amount,
		Description:  strings.TrimSpace(in.Description),
	})
	if err != nil {
		return model.Transfer{}, wrap("create transfer", err)
	}
	return t, nil
}

// EditTransfer rolls back the stored transfer and applies the new
// parameters. Source and destination may both change.
func (u *LedgerUsecase) EditTransfer(ctx context.Context, userID, id string, in dto.TransferInput) (model.Transfer, error) {
	original, err := u.store.GetTransfer(ctx, userID, id)
	if err != nil {
		return model.Transfer{}, wrap("edit transfer", err)
	}
	from, to, err := u.transferWallets(ctx, userID, in)
	if err != nil {
		return model.Transfer{}, wrap("edit transfer", err)
	}

	// saldo sumber setelah transfer lama di-rollback
	available := from.Balance
	if from.ID == original.FromWalletID {
		available += original.Amount
	}
	if from.ID == original.ToWalletID {
		available -= original.Amount
	}
	if err := checkTransfer(from, to, in.Amount, available); err != nil {
		return model.Transfer{}, wrap("edit transfer", err)
	}

	t, err := u.store.EditTransfer(ctx, userID, original, from.ID, to.ID, in.Amount, strings.TrimSpace(in.Description))
	if err != nil {
		return model.Transfer{}, wrap("edit transfer", err)
	}
	return t, nil
}

// DeleteTransfer rolls back a transfer and removes it.
func (u *LedgerUsecase) DeleteTransfer(ctx context.Context, userID, id string) error {
	t, err := u.store.GetTransfer(ctx, userID, id)
	if err != nil {
		return wrap("delete transfer", err)
	}
	if err := u.store.DeleteTransfer(ctx, userID, t); err != nil {
		return wrap("delete transfer", err)
	}
	return nil
}
