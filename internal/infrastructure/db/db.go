package db

import (
	"database/sql"
	"fmt"
	"time"

	"dompet/internal/config"
	"dompet/internal/model"
	"dompet/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var sqlDBWrite, sqlDBRead *sql.DB

// ConnectDBWrite opens the primary used by the audit inserts and migrations.
func ConnectDBWrite(dbConfig *config.DBConfig) (*gorm.DB, error) {
	w := dbConfig.DBWrite
	db, sqlDB, err := connect(buildDSN(w.Host, w.User, w.Password, w.Name, w.Port, w.SSLMode), dbConfig.DBPool)
	if err != nil {
		return nil, fmt.Errorf("connect write db %s: %w", w.Name, err)
	}
	sqlDBWrite = sqlDB
	return db, nil
}

// ConnectDBRead opens the replica serving audit listings.
func ConnectDBRead(dbConfig *config.DBConfig) (*gorm.DB, error) {
	r := dbConfig.DBRead
	db, sqlDB, err := connect(buildDSN(r.Host, r.User, r.Password, r.Name, r.Port, r.SSLMode), dbConfig.DBPool)
	if err != nil {
		return nil, fmt.Errorf("connect read db %s: %w", r.Name, err)
	}
	sqlDBRead = sqlDB
	return db, nil
}

func CloseDBWrite() { closeDB("WRITE", sqlDBWrite) }

func CloseDBRead() { closeDB("READ", sqlDBRead) }

func closeDB(role string, sqlDB *sql.DB) {
	if sqlDB == nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warnf("⚠️ Error closing %s DB: %v", role, err)
		return
	}
	logger.Infof("🔌 %s DB connection closed.", role)
}

func buildDSN(host, user, password, name, port, sslMode string) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, name, port, sslMode,
	)
}

func connect(dsn string, dbPoolingConfig *config.DBPooling) (*gorm.DB, *sql.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: true,
		// query lambat dan error masuk ke log stdout yang sama
		Logger: gormlogger.New(logger.Printer(), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}

	sqlDB.SetMaxOpenConns(dbPoolingConfig.MaxOpenConns)
	sqlDB.SetMaxIdleConns(dbPoolingConfig.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(dbPoolingConfig.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(dbPoolingConfig.ConnMaxIdleTime) * time.Second)

	return db, sqlDB, nil
}

// Migrate creates the audit tables (reconciliation runs and the ledger
// event journal). Balances and entries live in Redis, not here.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.ReconciliationRun{},
		&model.ReconciliationItem{},
		&model.LedgerEvent{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
