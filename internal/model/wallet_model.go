package model

import "time"

type WalletStatus string

const (
	WalletActive   WalletStatus = "active"
	WalletArchived WalletStatus = "archived"
	WalletDeleted  WalletStatus = "deleted"
	WalletInactive WalletStatus = "inactive"
)

type ColorStyle string

const (
	ColorSolid    ColorStyle = "solid"
	ColorGradient ColorStyle = "gradient"
)

// Wallet adalah saldo bernama per currency milik satu user.
// Balance selalu turunan dari entry (income, outcome, transfer) dan
// disimpan dalam minor units (IDR: 1 rupiah -> 1, USD: 1 cent -> 1, BTC: 1 sat -> 1).
type Wallet struct {
	ID         string       `json:"id"          mapstructure:"id"`
	Name       string       `json:"name"        mapstructure:"name"`
	Balance    int64        `json:"balance"     mapstructure:"balance"`
	Currency   string       `json:"currency"    mapstructure:"currency"`
	ColorStyle ColorStyle   `json:"color_style" mapstructure:"color_style"`
	ColorValue string       `json:"color_value" mapstructure:"color_value"`
	Status     WalletStatus `json:"status"      mapstructure:"status"`
	IsSaving   bool         `json:"is_saving"   mapstructure:"is_saving"`
	CreatedAt  time.Time    `json:"created_at"  mapstructure:"created_at"`
}

func (w Wallet) Active() bool { return w.Status == WalletActive }
