package dto

// Amounts are minor units (integer): IDR 1 rupiah -> 1, USD 1 cent -> 1, BTC 1 sat -> 1.
// MaxAmount keeps every amount exactly representable inside the Lua scripts.
const MaxAmount = 10_000_000_000_000

type CreateWalletInput struct {
	Name           string `json:"name"            validate:"required,notblank,max=64"`
	Currency       string `json:"currency"        validate:"required,currency"`
	ColorStyle     string `json:"color_style"     validate:"omitempty,oneof=solid gradient"`
	ColorValue     string `json:"color_value"     validate:"max=64"`
	IsSaving       bool   `json:"is_saving"`
	OpeningBalance int64  `json:"opening_balance" validate:"gte=0,lte=10000000000000"`
}

type LedgerEntryInput struct {
	WalletID    string `json:"wallet"      validate:"required"`
	Amount      int64  `json:"amount"      validate:"required,gt=0,lte=10000000000000"`
	Description string `json:"description" validate:"required,notblank,max=255"`
	Currency    string `json:"currency"    validate:"omitempty,currency"` // optional, defaults to the wallet currency
}

type EditLedgerEntryInput struct {
	Amount      int64  `json:"amount"      validate:"required,gt=0,lte=10000000000000"`
	Description string `json:"description" validate:"required,notblank,max=255"`
}

type TransferInput struct {
	FromWalletID string `json:"from_wallet_id" validate:"required"`
	ToWalletID   string `json:"to_wallet_id"   validate:"required"`
	Amount       int64  `json:"amount"         validate:"required,gt=0,lte=10000000000000"`
	Description  string `json:"description"    validate:"required,notblank,max=255"`
}

// HistoryQuery is the query string of GET /api/history.
type HistoryQuery struct {
	Query    string `query:"q"`
	Type     string `query:"type"`
	WalletID string `query:"wallet"`
	Date     string `query:"date"`
	Custom   string `query:"custom"` // YYYY-MM-DD, used with date=custom
	Page     int    `query:"page"`
	Group    bool   `query:"group"`
}
