package repository

import (
	"context"

	"dompet/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuditRepository menyimpan jejak audit di Postgres: hasil reconciliation
// dan salinan event dari stream ledger.
type AuditRepository struct {
	dbWrite *gorm.DB
	dbRead  *gorm.DB
}

func NewAuditRepository(dbWrite *gorm.DB, dbRead *gorm.DB) *AuditRepository {
	return &AuditRepository{dbWrite: dbWrite, dbRead: dbRead}
}

// RecordReconciliation inserts a run together with its per-wallet items.
func (r *AuditRepository) RecordReconciliation(ctx context.Context, run *model.ReconciliationRun) error {
	return r.dbWrite.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := run.Items
		run.Items = nil
		defer func() { run.Items = items }()
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].RunID = run.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListReconciliations returns the latest runs of a user, newest first.
func (r *AuditRepository) ListReconciliations(ctx context.Context, userID string, limit int) ([]model.ReconciliationRun, error) {
	var runs []model.ReconciliationRun
	err := r.dbRead.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

// AppendEvent stores one stream message; redelivered messages (same stream
// id) are ignored so the worker can ack after a retry.
func (r *AuditRepository) AppendEvent(ctx context.Context, ev model.LedgerEvent) error {
	return r.dbWrite.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "stream_id"}}, DoNothing: true}).
		Create(&ev).Error
}

func (r *AuditRepository) ListEvents(ctx context.Context, userID string, limit int) ([]model.LedgerEvent, error) {
	var events []model.LedgerEvent
	err := r.dbRead.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// Ping checks the write connection.
func (r *AuditRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.dbWrite.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
