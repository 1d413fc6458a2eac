package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"dompet/internal/model"
	"dompet/internal/modules/ledger/dto"
	"dompet/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const user = "user-1"

type recordingAudit struct {
	runs []model.ReconciliationRun
}

func (r *recordingAudit) RecordReconciliation(ctx context.Context, run *model.ReconciliationRun) error {
	r.runs = append(r.runs, *run)
	return nil
}

func newTestUsecase(t *testing.T) (*LedgerUsecase, *miniredis.Miniredis, *recordingAudit) {
	t.Helper()
	m := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	audit := &recordingAudit{}
	u := NewLedgerUsecase(store.NewRedisStore(rdb), audit)
	seq := 0
	u.newID = func() string {
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}
	return u, m, audit
}

func mustWallet(t *testing.T, u *LedgerUsecase, name, currency string, opening int64) model.Wallet {
	t.Helper()
	w, err := u.CreateWallet(context.Background(), user, dto.CreateWalletInput{
		Name:           name,
		Currency:       currency,
		OpeningBalance: opening,
	})
	if err != nil {
		t.Fatalf("CreateWallet(%s): %v", name, err)
	}
	return w
}

func balances(t *testing.T, u *LedgerUsecase) map[string]int64 {
	t.Helper()
	wallets, err := u.ListWallets(context.Background(), user)
	if err != nil {
		t.Fatal(err)
	}
	out := make(map[string]int64, len(wallets))
	for _, w := range wallets {
		out[w.Name] = w.Balance
	}
	return out
}

func TestCreateWallet_OpeningBalanceIsAnIncome(t *testing.T) {
	u, _, _ := newTestUsecase(t)
	ctx := context.Background()

	w := mustWallet(t, u, "Cash", "idr", 100_000)
	if w.Currency != "IDR" || w.Balance != 100_000 || w.ColorStyle != model.ColorSolid {
		t.Errorf("wallet = %+v", w)
	}

	entries, _, err := u.Entries(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Kind != model.KindIncome || entries[0].Description() != OpeningBalanceDescription {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestCreateWallet_Validation(t *testing.T) {
	u, _, _ := newTestUsecase(t)
	tests := []dto.CreateWalletInput{
		{Name: "", Currency: "IDR"},
		{Name: "   ", Currency: "IDR"},
		{Name: "\t\n", Currency: "IDR", OpeningBalance: 10},
		{Name: "Cash", Currency: "R"},
		{Name: "Cash", Currency: "ID$"},
		{Name: "Cash", Currency: "IDR", OpeningBalance: -1},
		{Name: "Cash", Currency: "IDR", ColorStyle: "plaid"},
	}
	for _, in := range tests {
		if _, err := u.CreateWallet(context.Background(), user, in); !errors.Is(err, model.ErrValidation) {
			t.Errorf("CreateWallet(%+v) err = %v, want ErrValidation", in, err)
		}
	}
}

// A 100,000 / B 0 -> transfer 40,000 -> outcome 70,000 rejected ->
// income 20,000 -> edited to 50,000.
func TestLedgerScenario(t *testing.T) {
	u, _, _ := newTestUsecase(t)
	ctx := context.Background()
	a := mustWallet(t, u, "A", "IDR", 100_000)
	b := mustWallet(t, u, "B", "IDR", 0)

	if _, err := u.CreateTransfer(ctx, user, dto.TransferInput{FromWalletID: a.ID, ToWalletID: b.ID, Amount: 40_000, Description: "Save"}); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got := balances(t, u); got["A"] != 60_000 || got["B"] != 40_000 {
		t.Fatalf("after transfer = %v", got)
	}

	_, err := u.CreateEntry(ctx, user, model.KindOutcome, dto.LedgerEntryInput{WalletID: a.ID, Amount: 70_000, Description: "TV"})
	if !errors.Is(err, model.ErrInsufficientBalance) {
		t.Fatalf("outcome err = %v, want ErrInsufficientBalance", err)
	}

	inc, err := u.CreateEntry(ctx, user, model.KindIncome, dto.LedgerEntryInput{WalletID: a.ID, Amount: 20_000, Description: "Salary"})
	if err != nil {
		t.Fatal(err)
	}
	if got := balances(t, u); got["A"] != 80_000 {
		t.Fatalf("after income A = %d", got["A"])
	}

	edited, err := u.EditEntry(ctx, user, model.KindIncome, inc.ID, dto.EditLedgerEntryInput{Amount: 50_000, Description: "Salary"})
	if err != nil {
		t.Fatal(err)
	}
	if got := balances(t, u); got["A"] != 110_000 || got["B"] != 40_000 {
		t.Errorf("final balances = %v, want A 110000 B 40000", got)
	}
	if len(edited.EditHistory) != 1 || edited.EditHistory[0].Amount != 20_000 {
		t.Errorf("edit history = %+v", edited.EditHistory)
	}
}

func TestCreateEntry_Errors(t *testing.T) {
	u, _, _ := newTestUsecase(t)
	ctx := context.Background()
	a := mustWallet(t, u, "A", "IDR", 100)
	empty := mustWallet(t, u, "Old", "IDR", 0)
	if err := u.ArchiveWallet(ctx, user, empty.ID); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		kind model.Kind
		in   dto.LedgerEntryInput
		want error
	}{
		{"transfer kind", model.KindTransfer, dto.LedgerEntryInput{WalletID: a.ID, Amount: 1, Description: "x"}, model.ErrValidation},
		{"zero amount", model.KindIncome, dto.LedgerEntryInput{WalletID: a.ID, Amount: 0, Description: "x"}, model.ErrValidation},
		{"too large", model.KindIncome, dto.LedgerEntryInput{WalletID: a.ID, Amount: dto.MaxAmount + 1, Description: "x"}, model.ErrValidation},
		{"no description", model.KindIncome, dto.LedgerEntryInput{WalletID: a.ID, Amount: 1}, model.ErrValidation},
		{"currency mismatch", model.KindIncome, dto.LedgerEntryInput{WalletID: a.ID, Amount: 1, Description: "x", Currency: "usd"}, model.ErrCurrencyMismatch},
		{"missing wallet", model.KindIncome, dto.LedgerEntryInput{WalletID: "nope", Amount: 1, Description: "x"}, model.ErrWalletNotFound},
		{"archived wallet", model.KindIncome, dto.LedgerEntryInput{WalletID: empty.ID, Amount: 1, Description: "x"}, model.ErrStaleReference},
		{"insufficient", model.KindOutcome, dto.LedgerEntryInput{WalletID: a.ID, Amount: 101, Description: "x"}, model.ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := u.CreateEntry(ctx, user, tt.kind, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if got := balances(t, u)["A"]; got != 100 {
		t.Errorf("balance A = %d, want 100", got)
	}
}

func TestDeleteEntry_Reversibility(t *testing.T) {
	u, _, _ := newTestUsecase(t)
	ctx := context.Background()
	a := mustWallet(t, u, "A", "IDR", 1000)

	out, err := u.CreateEntry(ctx, user, model.KindOutcome, dto.LedgerEntryInput{WalletID: a.ID, Amount: 300, Description: "Food"})
	if err != nil {
		t.Fatal(err)
	}
	if err := u.DeleteEntry(ctx, user, model.KindOutcome, out.ID); err != nil {
		t.Fatal(err)
	}
	if got := balances(t, u)["A"]; got != 1000 {
		t.Errorf("balance = %d, want 1000", got)
	}
	if err := u.DeleteEntry(ctx, user, model.KindOutcome, out.ID); !errors.Is(err, model.ErrEntryNotFound) {
		t.Errorf("second delete err = %v, want ErrEntryNotFound", err)
	}
}

func TestBlankDescriptionRejected(t *testing.T) {
	u, _, _ := newTestUsecase(t)
	ctx := context.Background()
	a := mustWallet(t, u, "A", "IDR", 1000)
	b := mustWallet(t, u, "B", "IDR", 0)
	blank := "  \t "

	in, err := u.CreateEntry(ctx, user, model.KindIncome, dto.LedgerEntryInput{WalletID: a.ID, Amount: 10, Description: "Salary"})
	if err != nil {
		t.Fatal(err)
	}
	tr, err := u.CreateTransfer(ctx, user, dto.TransferInput{FromWalletID: a.ID, ToWalletID: b.ID, Amount: 10, Description: "Save"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		call func() error
	}{
		{"create income", func() error {
			_, err := u.CreateEntry(ctx, user, model.KindIncome, dto.LedgerEntryInput{WalletID: a.ID, Amount: 10, Description: blank})
			return err
		}},
		{"create outcome", func() error {
			_, err := u.CreateEntry(ctx, user, model.KindOutcome, dto.LedgerEntryInput{WalletID: a.ID, Amount: 10, Description: blank})
			return err
		}},
		{"edit income", func() error {
			_, err := u.EditEntry(ctx, user, model.KindIncome, in.ID, dto.EditLedgerEntryInput{Amount: 10, Description: blank})
			return err
		}},
		{"create transfer", func() error {
			_, err := u.CreateTransfer(ctx, user, dto.TransferInput{FromWalletID: a.ID, ToWalletID: b.ID, Amount: 10, Description: blank})
			return err
		}},
		{"edit transfer", func() error {
			_, err := u.EditTransfer(ctx, user, tr.ID, dto.TransferInput{FromWalletID: a.ID, ToWalletID: b.ID, Amount: 10, Description: blank})
			return err
		}},
	}
	for _, tt := range tests {
		if err := tt.call(); !errors.Is(err, model.ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", tt.name, err)
		}
	}

	got := balances(t, u)
	if got["A"] != 1000 || got["B"] != 10 {
		t.Errorf("balances changed by rejected calls: %v", got)
	}
	stored, err := u.store.GetLedgerEntry(ctx, user, model.KindIncome, in.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Description != "Salary" || len(stored.EditHistory) != 0 {
		t.Errorf("entry after rejected edit = %+v", stored)
	}
}

func TestTransfer_SameWalletAndCurrency(t *testing.T) {
	u, _, _ := newTestUsecase(t)
	ctx := context.Background()
	a := mustWallet(t, u, "A", "IDR", 1000)
	usd := mustWallet(t, u, "U", "USD", 1000)

	_, err := u.CreateTransfer(ctx, user, dto.TransferInput{FromWalletID: a.ID, ToWalletID: a.ID, Amount: 1, Description: "x"})
	if !errors.Is(err, model.ErrSameWallet) {
		t.Errorf("same wallet err = %v", err)
	}
	_, err = u.CreateTransfer(ctx, user, dto.TransferInput{FromWalletID: a.ID, ToWalletID: usd.ID, Amount: 1, Description: "x"})
	if !errors.Is(err, model.ErrCurrencyMismatch) {
		t.Errorf("currency err = %v", err)
	}
}

func TestEditTransfer_Retarget(t *testing.T) {
	u, _, _ := newTestUsecase(t)
	ctx := context.Background()
	a := mustWallet(t, u, "A", "IDR", 500)
	b := mustWallet(t, u, "B", "IDR", 500)
	c := mustWallet(t, u, "C", "IDR", 500)
	d := mustWallet(t, u, "D", "IDR", 500)

	tr, err := u.CreateTransfer(ctx, user, dto.TransferInput{FromWalletID: a.ID, ToWalletID: b.ID, Amount: 100, Description: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := u.EditTransfer(ctx, user, tr.ID, dto.TransferInput{FromWalletID: c.ID, ToWalletID: d.ID, Amount: 50, Description: "y"}); err != nil {
		t.Fatal(err)
	}
	want := map[string]int64{"A": 500, "B": 500, "C": 450, "D": 550}
	got := balances(t, u)
	for name, w := range want {
		if got[name] != w {
			t.Errorf("balance %s = %d, want %d", name, got[name], w)
		}
	}

	// the rolled back amount counts toward the source balance
	if _, err := u.EditTransfer(ctx, user, tr.ID, dto.TransferInput{FromWalletID: c.ID, ToWalletID: d.ID, Amount: 500, Description: "all"}); err != nil {
		t.Errorf("edit up to rolled back balance: %v", err)
	}
	if _, err := u.EditTransfer(ctx, user, tr.ID, dto.TransferInput{FromWalletID: c.ID, ToWalletID: d.ID, Amount: 501, Description: "too much"}); !errors.Is(err, model.ErrInsufficientBalance) {
		t.Errorf("err = %v, want ErrInsufficientBalance", err)
	}
}

func TestTransferConservation(t *testing.T) {
	u, _, _ := newTestUsecase(t)
	ctx := context.Background()
	a := mustWallet(t, u, "A", "IDR", 1000)
	b := mustWallet(t, u, "B", "IDR", 1000)

	var ids []string
	for i, amt := range []int64{100, 250, 999} {
		from, to := a.ID, b.ID
		if i%2 == 1 {
			from, to = b.ID, a.ID
		}
		tr, err := u.CreateTransfer(ctx, user, dto.TransferInput{FromWalletID: from, ToWalletID: to, Amount: amt, Description: "x"})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, tr.ID)
		got := balances(t, u)
		if got["A"]+got["B"] != 2000 {
			t.Fatalf("after transfer %d sum = %d", i, got["A"]+got["B"])
		}
	}
	for _, id := range ids {
		if err := u.DeleteTransfer(ctx, user, id); err != nil {
			t.Fatal(err)
		}
	}
	if got := balances(t, u); got["A"] != 1000 || got["B"] != 1000 {
		t.Errorf("after deletes = %v", got)
	}
}

func TestReconcile(t *testing.T) {
	u, m, audit := newTestUsecase(t)
	ctx := context.Background()
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	u.now = func() time.Time { return fixed }

	a := mustWallet(t, u, "A", "IDR", 1000)
	b := mustWallet(t, u, "B", "IDR", 0)
	if _, err := u.CreateTransfer(ctx, user, dto.TransferInput{FromWalletID: a.ID, ToWalletID: b.ID, Amount: 400, Description: "x"}); err != nil {
		t.Fatal(err)
	}
	if _, err := u.CreateEntry(ctx, user, model.KindOutcome, dto.LedgerEntryInput{WalletID: a.ID, Amount: 100, Description: "y"}); err != nil {
		t.Fatal(err)
	}

	// drift both wallets behind the ledger's back
	m.HSet(fmt.Sprintf("wallet:{%s}:%s", user, a.ID), "balance", "7")
	m.HSet(fmt.Sprintf("wallet:{%s}:%s", user, b.ID), "balance", "-3")

	run, err := u.Reconcile(ctx, user)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if run.Wallets != 2 || run.Drifted != 2 || run.Attempts != 1 {
		t.Errorf("run = %+v", run)
	}
	if got := balances(t, u); got["A"] != 500 || got["B"] != 400 {
		t.Errorf("balances = %v, want A 500 B 400", got)
	}
	for _, it := range run.Items {
		if it.WalletID == a.ID && (it.Stored.IntPart() != 7 || it.Computed.IntPart() != 500 || it.Drift.IntPart() != -493) {
			t.Errorf("item A = %+v", it)
		}
	}

	again, err := u.Reconcile(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if again.Drifted != 0 {
		t.Errorf("second run drifted = %d, want 0", again.Drifted)
	}
	if len(audit.runs) != 2 || !audit.runs[0].StartedAt.Equal(fixed) {
		t.Errorf("audit runs = %d", len(audit.runs))
	}
}

func TestComputeBalances(t *testing.T) {
	l := store.Ledger{
		Wallets:   []model.Wallet{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Incomes:   []model.LedgerEntry{{WalletID: "a", Amount: 100}, {WalletID: "b", Amount: 5}},
		Outcomes:  []model.LedgerEntry{{WalletID: "a", Amount: 30}},
		Transfers: []model.Transfer{{FromWalletID: "a", ToWalletID: "b", Amount: 20}},
	}
	got := ComputeBalances(l)
	want := map[string]int64{"a": 50, "b": 25, "c": 0}
	for id, w := range want {
		if got[id] != w {
			t.Errorf("%s = %d, want %d", id, got[id], w)
		}
	}
}
