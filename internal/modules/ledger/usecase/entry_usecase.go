package usecase

import (
	"context"
	"fmt"
	"strings"

	"dompet/internal/model"
	"dompet/internal/modules/ledger/dto"
	"dompet/pkg/validation"
)

func ledgerKind(kind model.Kind) error {
	if kind != model.KindIncome && kind != model.KindOutcome {
		return fmt.Errorf("%w: %q is not an income or outcome", model.ErrValidation, kind)
	}
	return nil
}

// CreateEntry records an income or outcome and moves the wallet balance by
// its amount. The currency defaults to the wallet's.
func (u *LedgerUsecase) CreateEntry(ctx context.Context, userID string, kind model.Kind, in dto.LedgerEntryInput) (model.LedgerEntry, error) {
	op := "create " + string(kind)
	if err := ledgerKind(kind); err != nil {
		return model.LedgerEntry{}, err
	}
	if err := validation.Struct(in); err != nil {
		return model.LedgerEntry{}, invalid(err)
	}

	w, err := u.activeWallet(ctx, userID, in.WalletID)
	if err != nil {
		return model.LedgerEntry{}, wrap(op, err)
	}
	if in.Currency != "" {
		cur, err := validation.NormalizeCurrency(in.Currency)
		if err != nil {
			return model.LedgerEntry{}, invalid(err)
		}
		if cur != w.Currency {
			return model.LedgerEntry{}, wrap(op, model.ErrCurrencyMismatch)
		}
	}
	if kind == model.KindOutcome && w.Balance < in.Amount {
		return model.LedgerEntry{}, wrap(op, model.ErrInsufficientBalance)
	}

	e, _, err := u.store.CreateLedgerEntry(ctx, userID, model.LedgerEntry{
		ID:          u.newID(),
		Kind:        kind,
		WalletID:    w.ID,
		Amount:      in.Amount,
		Currency:    w.Currency,
		Description: strings.TrimSpace(in.Description),
	})
	if err != nil {
		return model.LedgerEntry{}, wrap(op, err)
	}
	return e, nil
}

// EditEntry changes amount and description of an entry. The wallet is fixed;
// the balance moves by the difference and the pre-edit state is appended to
// the edit history, even when nothing changed.
func (u *LedgerUsecase) EditEntry(ctx context.Context, userID string, kind model.Kind, id string, in dto.EditLedgerEntryInput) (model.LedgerEntry, error) {
	op := "edit " + string(kind)
	if err := ledgerKind(kind); err != nil {
		return model.LedgerEntry{}, err
	}
	if err := validation.Struct(in); err != nil {
		return model.LedgerEntry{}, invalid(err)
	}

	old, err := u.store.GetLedgerEntry(ctx, userID, kind, id)
	if err != nil {
		return model.LedgerEntry{}, wrap(op, err)
	}
	if _, err := u.store.EditLedgerEntry(ctx, userID, kind, id, old.WalletID, in.Amount, strings.TrimSpace(in.Description)); err != nil {
		return model.LedgerEntry{}, wrap(op, err)
	}

	e, err := u.store.GetLedgerEntry(ctx, userID, kind, id)
	if err != nil {
		return model.LedgerEntry{}, wrap(op, err)
	}
	return e, nil
}

// DeleteEntry removes an entry and reverses its balance effect.
func (u *LedgerUsecase) DeleteEntry(ctx context.Context, userID string, kind model.Kind, id string) error {
	op := "delete " + string(kind)
	if err := ledgerKind(kind); err != nil {
		return err
	}
	old, err := u.store.GetLedgerEntry(ctx, userID, kind, id)
	if err != nil {
		return wrap(op, err)
	}
	if _, err := u.store.DeleteLedgerEntry(ctx, userID, kind, id, old.WalletID); err != nil {
		return wrap(op, err)
	}
	return nil
}
