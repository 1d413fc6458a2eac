package main

import (
	"context"
	"sync"
	"time"

	"dompet/internal/app"
	"dompet/internal/app/factory"
	"dompet/internal/config"
	"dompet/internal/infrastructure/cache"
	"dompet/internal/infrastructure/db"
	"dompet/internal/worker"
	"dompet/pkg/graceful"
	"dompet/pkg/logger"

	"github.com/jpillora/overseer"
	"github.com/jpillora/overseer/fetcher"
)

func main() {
	debug := config.GetAppEnv() == "development"

	overseer.Run(overseer.Config{
		Program:       program,
		Address:       ":" + config.GetAppPort(),
		Fetcher:       &fetcher.File{Path: config.GetAppBinFile(), Interval: 5},
		Debug:         debug,
		RestartSignal: graceful.RestartSignal,
	})
}

func program(state overseer.State) {
	// Dibatalkan oleh signal OS atau restart dari overseer
	ctx, stop := graceful.NotifyContext(context.Background())
	defer stop()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("❌ Invalid configuration: " + err.Error())
	}

	// Logging
	logger.SetLevel(cfg.App.LogLevel)
	logger.SetFormat(cfg.App.LogFormat)
	logger.InitLogFile(cfg.App.LogFilePath)

	// DB Write
	dbWriteConn, err := db.ConnectDBWrite(cfg.DB)
	if err != nil {
		errorDetails := err.Error()
		logger.WriteLogToFile("failed", "db.ConnectDBWrite", map[string]any{
			"db_name": cfg.DB.DBWrite.Name,
			"db_host": cfg.DB.DBWrite.Host,
		}, &errorDetails)
		logger.Fatal("❌ Failed to connect database write: " + errorDetails)
	}
	logger.Infof("✅ Connected to database write: %s", cfg.DB.DBWrite.Name)

	if err := db.Migrate(dbWriteConn); err != nil {
		errorDetails := err.Error()
		logger.WriteLogToFile("failed", "db.Migrate", map[string]any{}, &errorDetails)
		logger.Fatal("❌ Failed to migrate audit tables: " + errorDetails)
	}

	// DB Read
	dbReadConn, err := db.ConnectDBRead(cfg.DB)
	if err != nil {
		errorDetails := err.Error()
		logger.WriteLogToFile("failed", "db.ConnectDBRead", map[string]any{
			"db_name": cfg.DB.DBRead.Name,
			"db_host": cfg.DB.DBRead.Host,
		}, &errorDetails)
		logger.Fatal("❌ Failed to connect database read: " + errorDetails)
	}
	logger.WriteLogToFile("success", "db.ConnectDBRead", map[string]any{
		"db_name": cfg.DB.DBRead.Name,
		"db_host": cfg.DB.DBRead.Host,
	}, nil)
	logger.Infof("✅ Connected to database read: %s", cfg.DB.DBRead.Name)

	// Cache
	rdb, err := cache.ConnectRedis(ctx, *cfg.Redis)
	if err != nil {
		errorDetails := err.Error()
		logger.WriteLogToFile("failed", "cache.ConnectRedis", map[string]any{}, &errorDetails)
		logger.Fatal("❌ Failed to connect cache redis : " + errorDetails)
	}
	logger.WriteLogToFile("success", "cache.ConnectRedis", map[string]any{}, nil)
	logger.Infof("✅ Connected to cache redis")

	container := factory.Build(ctx, cfg, dbWriteConn, dbReadConn, rdb)

	// Journal workers
	var wg sync.WaitGroup
	journal := worker.NewJournalWorker(rdb, container.AuditRepository, &worker.Options{Group: cfg.Worker.Group})
	for i := 0; i < cfg.Worker.WorkerCount; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			journal.Run(ctx, worker.ConsumerName(cfg.Worker.Instance, i))
		}(i)
	}
	logger.Infof("✅ Started %d journal worker(s)", cfg.Worker.WorkerCount)

	// Start App
	application := app.NewApp(cfg, container)
	go application.Start(state.Listener)

	// Block until terminated
	<-ctx.Done()

	// Graceful shutdown
	logger.Info("🛑 Shutting down gracefully...")
	if err := application.Shutdown(10 * time.Second); err != nil {
		logger.Errorf("❌ Fiber shutdown: %v", err)
	}
	if !graceful.WaitTimeout(&wg, 10*time.Second) {
		logger.Warn("⚠️ Journal workers did not stop in time, pending events will be reclaimed")
	}
	db.CloseDBWrite()
	db.CloseDBRead()
	rdb.Close()
	logger.Info("✅ Cleanup done. Exiting.")
}
