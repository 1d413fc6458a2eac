package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind membedakan tiga koleksi entry.
type Kind string

const (
	KindIncome   Kind = "income"
	KindOutcome  Kind = "outcome"
	KindTransfer Kind = "transfer"
)

// Kinds is the fixed merge order used by the live aggregator.
var Kinds = []Kind{KindIncome, KindOutcome, KindTransfer}

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindIncome, KindOutcome, KindTransfer:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown entry type %q", ErrValidation, s)
}

// Collection returns the plural collection name (incomes, outcomes, transfers).
func (k Kind) Collection() string { return string(k) + "s" }

// Sign is the direction an entry of this kind moves its wallet balance.
func (k Kind) Sign() int64 {
	switch k {
	case KindIncome:
		return 1
	case KindOutcome:
		return -1
	case KindTransfer:
		return 0
	}
	panic(fmt.Sprintf("model: unknown entry kind %q", string(k)))
}

// EditRecord adalah snapshot sebelum edit.
type EditRecord struct {
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	EditedAt    time.Time `json:"edited_at"`
}

// LedgerEntry is an income or outcome against one wallet.
type LedgerEntry struct {
	ID          string       `json:"id"           mapstructure:"id"`
	Kind        Kind         `json:"type"         mapstructure:"-"`
	WalletID    string       `json:"wallet"       mapstructure:"wallet"`
	Amount      int64        `json:"amount"       mapstructure:"amount"`
	Currency    string       `json:"currency"     mapstructure:"currency"`
	Description string       `json:"description"  mapstructure:"description"`
	CreatedAt   time.Time    `json:"created_at"   mapstructure:"created_at"`
	EditHistory []EditRecord `json:"edit_history" mapstructure:"-"`
}

// Delta is the effect this entry has on its wallet balance.
func (e LedgerEntry) Delta() int64 { return e.Kind.Sign() * e.Amount }

// Transfer moves Amount from FromWalletID to ToWalletID.
// FromName/ToName are wallet names captured at write time.
type Transfer struct {
	ID           string    `json:"id"             mapstructure:"id"`
	FromWalletID string    `json:"from_wallet_id" mapstructure:"from_wallet_id"`
	ToWalletID   string    `json:"to_wallet_id"   mapstructure:"to_wallet_id"`
	FromName     string    `json:"from"           mapstructure:"from"`
	ToName       string    `json:"to"             mapstructure:"to"`
	Amount       int64     `json:"amount"         mapstructure:"amount"`
	Currency     string    `json:"currency"       mapstructure:"currency"`
	Description  string    `json:"description"    mapstructure:"description"`
	CreatedAt    time.Time `json:"created_at"     mapstructure:"created_at"`
}

// Entry is the tagged union of the three entry streams. Exactly one of
// Ledger or Transfer is set, selected by Kind.
type Entry struct {
	Kind     Kind
	Ledger   *LedgerEntry
	Transfer *Transfer
}

func FromLedger(e LedgerEntry) Entry {
	return Entry{Kind: e.Kind, Ledger: &e}
}

func FromTransfer(t Transfer) Entry {
	return Entry{Kind: KindTransfer, Transfer: &t}
}

func (e Entry) ID() string {
	switch e.Kind {
	case KindIncome, KindOutcome:
		return e.Ledger.ID
	case KindTransfer:
		return e.Transfer.ID
	}
	panic(fmt.Sprintf("model: unknown entry kind %q", string(e.Kind)))
}

func (e Entry) CreatedAt() time.Time {
	switch e.Kind {
	case KindIncome, KindOutcome:
		return e.Ledger.CreatedAt
	case KindTransfer:
		return e.Transfer.CreatedAt
	}
	panic(fmt.Sprintf("model: unknown entry kind %q", string(e.Kind)))
}

func (e Entry) Amount() int64 {
	switch e.Kind {
	case KindIncome, KindOutcome:
		return e.Ledger.Amount
	case KindTransfer:
		return e.Transfer.Amount
	}
	panic(fmt.Sprintf("model: unknown entry kind %q", string(e.Kind)))
}

func (e Entry) Currency() string {
	switch e.Kind {
	case KindIncome, KindOutcome:
		return e.Ledger.Currency
	case KindTransfer:
		return e.Transfer.Currency
	}
	panic(fmt.Sprintf("model: unknown entry kind %q", string(e.Kind)))
}

func (e Entry) Description() string {
	switch e.Kind {
	case KindIncome, KindOutcome:
		return e.Ledger.Description
	case KindTransfer:
		return e.Transfer.Description
	}
	panic(fmt.Sprintf("model: unknown entry kind %q", string(e.Kind)))
}

// Involves reports whether walletID participates in the entry: the wallet
// field for income/outcome, either side for a transfer.
func (e Entry) Involves(walletID string) bool {
	switch e.Kind {
	case KindIncome, KindOutcome:
		return e.Ledger.WalletID == walletID
	case KindTransfer:
		return e.Transfer.FromWalletID == walletID || e.Transfer.ToWalletID == walletID
	}
	panic(fmt.Sprintf("model: unknown entry kind %q", string(e.Kind)))
}

// MarshalJSON flattens the union into one object carrying a "type" field.
func (e Entry) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case KindIncome, KindOutcome:
		return json.Marshal(e.Ledger)
	case KindTransfer:
		return json.Marshal(struct {
			Type Kind `json:"type"`
			*Transfer
		}{KindTransfer, e.Transfer})
	}
	return nil, fmt.Errorf("model: unknown entry kind %q", string(e.Kind))
}
