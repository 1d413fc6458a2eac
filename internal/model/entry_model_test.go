package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	for _, s := range []string{"income", "Outcome", "TRANSFER"} {
		if _, err := ParseKind(s); err != nil {
			t.Errorf("ParseKind(%q): %v", s, err)
		}
	}
	if _, err := ParseKind("refund"); !errors.Is(err, ErrValidation) {
		t.Errorf("ParseKind(refund) err = %v", err)
	}
	if KindOutcome.Collection() != "outcomes" {
		t.Errorf("Collection = %q", KindOutcome.Collection())
	}
}

func TestLedgerEntryDelta(t *testing.T) {
	in := LedgerEntry{Kind: KindIncome, Amount: 40}
	out := LedgerEntry{Kind: KindOutcome, Amount: 40}
	if in.Delta() != 40 || out.Delta() != -40 {
		t.Errorf("deltas = %d, %d", in.Delta(), out.Delta())
	}
}

func TestEntryMarshalJSON(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name  string
		entry Entry
		want  map[string]any
	}{
		{
			name:  "income",
			entry: FromLedger(LedgerEntry{ID: "i1", Kind: KindIncome, WalletID: "w1", Amount: 10, Currency: "IDR", CreatedAt: at}),
			want:  map[string]any{"id": "i1", "type": "income", "wallet": "w1", "amount": float64(10)},
		},
		{
			name:  "transfer",
			entry: FromTransfer(Transfer{ID: "t1", FromWalletID: "a", ToWalletID: "b", FromName: "Cash", ToName: "Bank", Amount: 5, CreatedAt: at}),
			want:  map[string]any{"id": "t1", "type": "transfer", "from": "Cash", "to": "Bank", "from_wallet_id": "a", "amount": float64(5)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.entry)
			if err != nil {
				t.Fatal(err)
			}
			var got map[string]any
			if err := json.Unmarshal(b, &got); err != nil {
				t.Fatal(err)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %v, want %v (json %s)", k, got[k], v, b)
				}
			}
		})
	}
}

func TestEntryAccessors(t *testing.T) {
	tr := FromTransfer(Transfer{ID: "t1", FromWalletID: "a", ToWalletID: "b", Amount: 5, Currency: "IDR", Description: "x"})
	if !tr.Involves("a") || !tr.Involves("b") || tr.Involves("c") {
		t.Error("transfer Involves")
	}
	if tr.Amount() != 5 || tr.Currency() != "IDR" || tr.Description() != "x" {
		t.Errorf("accessors = %d %s %s", tr.Amount(), tr.Currency(), tr.Description())
	}

	defer func() {
		if recover() == nil {
			t.Error("unknown kind did not panic")
		}
	}()
	_ = Entry{Kind: "refund"}.ID()
}

func TestErrorKinds(t *testing.T) {
	if !errors.Is(ErrCurrencyMismatch, ErrValidation) || !errors.Is(ErrSameWallet, ErrValidation) {
		t.Error("validation kinds")
	}
	if !errors.Is(ErrConflict, ErrStaleReference) || !errors.Is(ErrWalletArchived, ErrStaleReference) {
		t.Error("stale kinds")
	}
}
