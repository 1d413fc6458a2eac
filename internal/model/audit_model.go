package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationRun merepresentasikan row pada tabel reconciliation_runs.
type ReconciliationRun struct {
	ID         int64                `json:"id"          gorm:"column:id;primaryKey;autoIncrement"`
	UserID     string               `json:"user_id"     gorm:"column:user_id;type:VARCHAR(64);not null;index"`
	Wallets    int                  `json:"wallets"     gorm:"column:wallets;not null"`
	Drifted    int                  `json:"drifted"     gorm:"column:drifted;not null"`
	Attempts   int                  `json:"attempts"    gorm:"column:attempts;not null"`
	StartedAt  time.Time            `json:"started_at"  gorm:"column:started_at;not null"`
	FinishedAt time.Time            `json:"finished_at" gorm:"column:finished_at;not null"`
	Items      []ReconciliationItem `json:"items"       gorm:"foreignKey:RunID"`
}

func (ReconciliationRun) TableName() string { return "reconciliation_runs" }

// ReconciliationItem records the before/after balance of one wallet in a run.
// NUMERIC keeps minor units exact regardless of currency.
type ReconciliationItem struct {
	ID       int64           `json:"id"        gorm:"column:id;primaryKey;autoIncrement"`
	RunID    int64           `json:"run_id"    gorm:"column:run_id;not null;index"`
	WalletID string          `json:"wallet_id" gorm:"column:wallet_id;type:VARCHAR(64);not null"`
	Currency string          `json:"currency"  gorm:"column:currency;type:VARCHAR(10);not null"`
	Stored   decimal.Decimal `json:"stored"    gorm:"column:stored;type:NUMERIC(24,0);not null"`
	Computed decimal.Decimal `json:"computed"  gorm:"column:computed;type:NUMERIC(24,0);not null"`
	Drift    decimal.Decimal `json:"drift"     gorm:"column:drift;type:NUMERIC(24,0);not null"`
}

func (ReconciliationItem) TableName() string { return "reconciliation_items" }

// LedgerEvent is one change notification copied from the ledger stream.
type LedgerEvent struct {
	ID         int64     `json:"id"          gorm:"column:id;primaryKey;autoIncrement"`
	StreamID   string    `json:"stream_id"   gorm:"column:stream_id;type:VARCHAR(64);not null;uniqueIndex"`
	UserID     string    `json:"user_id"     gorm:"column:user_id;type:VARCHAR(64);not null;index"`
	Collection string    `json:"collection"  gorm:"column:collection;type:VARCHAR(16);not null"`
	Op         string    `json:"op"          gorm:"column:op;type:VARCHAR(16);not null"`
	EntryID    string    `json:"entry_id"    gorm:"column:entry_id;type:VARCHAR(64);not null"`
	OccurredAt time.Time `json:"occurred_at" gorm:"column:occurred_at;not null"`
}

func (LedgerEvent) TableName() string { return "ledger_events" }
