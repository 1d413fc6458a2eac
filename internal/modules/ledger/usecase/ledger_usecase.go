package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dompet/internal/model"
	"dompet/internal/modules/ledger/dto"
	"dompet/internal/store"
	"dompet/pkg/validation"

	"github.com/google/uuid"
)

// Store is the persistence the ledger needs. Every mutating method is one
// atomic unit: its balance effect and its document write land together.
type Store interface {
	CreateWallet(ctx context.Context, userID string, w model.Wallet, opening *model.LedgerEntry) (model.Wallet, error)
	GetWallet(ctx context.Context, userID, walletID string) (model.Wallet, error)
	ListWallets(ctx context.Context, userID string) ([]model.Wallet, error)
	ArchiveWallet(ctx context.Context, userID, walletID string) error

	CreateLedgerEntry(ctx context.Context, userID string, e model.LedgerEntry) (model.LedgerEntry, int64, error)
	EditLedgerEntry(ctx context.Context, userID string, kind model.Kind, id, walletID string, amount int64, description string) (int64, error)
	DeleteLedgerEntry(ctx context.Context, userID string, kind model.Kind, id, walletID string) (int64, error)
	GetLedgerEntry(ctx context.Context, userID string, kind model.Kind, id string) (model.LedgerEntry, error)

	CreateTransfer(ctx context.Context, userID string, t model.Transfer) (model.Transfer, error)
	EditTransfer(ctx context.Context, userID string, original model.Transfer, fromWalletID, toWalletID string, amount int64, description string) (model.Transfer, error)
	DeleteTransfer(ctx context.Context, userID string, t model.Transfer) error
	GetTransfer(ctx context.Context, userID, id string) (model.Transfer, error)

	LoadLedger(ctx context.Context, userID string) (store.Ledger, error)
	ApplyBalances(ctx context.Context, userID string, compute func(store.Ledger) (map[string]int64, error)) (int, error)
}

// AuditRecorder persists reconciliation outcomes. Optional.
type AuditRecorder interface {
	RecordReconciliation(ctx context.Context, run *model.ReconciliationRun) error
}

type LedgerUsecase struct {
	store Store
	audit AuditRecorder
	newID func() string
	now   func() time.Time
}

func NewLedgerUsecase(s Store, audit AuditRecorder) *LedgerUsecase {
	return &LedgerUsecase{
		store: s,
		audit: audit,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

const OpeningBalanceDescription = "Opening balance"

var domainErrors = []error{
	model.ErrValidation,
	model.ErrInsufficientBalance,
	model.ErrStaleReference,
	model.ErrWriteFailure,
	model.ErrWalletNotFound,
	model.ErrEntryNotFound,
	model.ErrWalletNotEmpty,
}

// wrap prefixes err with op. Errors outside the ledger vocabulary (network,
// decode) are reported as write failures.
func wrap(op string, err error) error {
	for _, known := range domainErrors {
		if errors.Is(err, known) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, model.ErrWriteFailure, err)
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", model.ErrValidation, err)
}

func (u *LedgerUsecase) CreateWallet(ctx context.Context, userID string, in dto.CreateWalletInput) (model.Wallet, error) {
	if err := validation.Struct(in); err != nil {
		return model.Wallet{}, invalid(err)
	}
	currency, err := validation.NormalizeCurrency(in.Currency)
	if err != nil {
		return model.Wallet{}, invalid(err)
	}
	style := model.ColorStyle(in.ColorStyle)
	if style == "" {
		style = model.ColorSolid
	}

	w := model.Wallet{
		ID:         u.newID(),
		Name:       strings.TrimSpace(in.Name),
		Currency:   currency,
		ColorStyle: style,
		ColorValue: in.ColorValue,
		Status:     model.WalletActive,
		IsSaving:   in.IsSaving,
		CreatedAt:  u.now().UTC(),
	}
	// saldo awal dicatat sebagai income, ditulis satu script dengan wallet-nya
	var opening *model.LedgerEntry
	if in.OpeningBalance > 0 {
		opening = &model.LedgerEntry{
			ID:          u.newID(),
			Amount:      in.OpeningBalance,
			Description: OpeningBalanceDescription,
		}
	}

	w, err = u.store.CreateWallet(ctx, userID, w, opening)
	if err != nil {
		return model.Wallet{}, wrap("create wallet", err)
	}
	return w, nil
}

func (u *LedgerUsecase) ListWallets(ctx context.Context, userID string) ([]model.Wallet, error) {
	wallets, err := u.store.ListWallets(ctx, userID)
	if err != nil {
		return nil, wrap("list wallets", err)
	}
	return wallets, nil
}

func (u *LedgerUsecase) ArchiveWallet(ctx context.Context, userID, walletID string) error {
	if err := u.store.ArchiveWallet(ctx, userID, walletID); err != nil {
		return wrap("archive wallet", err)
	}
	return nil
}

// Entries returns the unified entry collection and the wallets it refers to.
func (u *LedgerUsecase) Entries(ctx context.Context, userID string) ([]model.Entry, []model.Wallet, error) {
	l, err := u.store.LoadLedger(ctx, userID)
	if err != nil {
		return nil, nil, wrap("load ledger", err)
	}
	return l.Entries(), l.Wallets, nil
}

// activeWallet loads a wallet that entries may be written against.
func (u *LedgerUsecase) activeWallet(ctx context.Context, userID, walletID string) (model.Wallet, error) {
	w, err := u.store.GetWallet(ctx, userID, walletID)
	if err != nil {
		return model.Wallet{}, err
	}
	if !w.Active() {
		return model.Wallet{}, model.ErrWalletArchived
	}
	return w, nil
}
