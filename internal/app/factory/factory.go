package factory

import (
	"context"
	"time"

	"dompet/internal/config"
	"dompet/internal/infrastructure/repository"
	"dompet/internal/live"
	"dompet/internal/modules/ledger/handler"
	"dompet/internal/modules/ledger/usecase"
	"dompet/internal/store"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container holds everything the routes and workers need.
type Container struct {
	Store           *store.RedisStore
	AuditRepository *repository.AuditRepository
	LedgerUsecase   *usecase.LedgerUsecase
	LedgerHandler   *handler.LedgerHandler
	Auth            *config.AuthConfig
}

// Health pings every backing service and returns the error per dependency,
// "" when healthy.
func (c *Container) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	checks := map[string]func(context.Context) error{
		"redis":    c.Store.Ping,
		"postgres": c.AuditRepository.Ping,
	}
	out := make(map[string]string, len(checks))
	for name, ping := range checks {
		out[name] = ""
		if err := ping(ctx); err != nil {
			out[name] = err.Error()
		}
	}
	return out
}

// Build wires the container. ctx is the server lifetime; live streams end
// when it is cancelled.
func Build(ctx context.Context, cfg *config.Config, dbWrite *gorm.DB, dbRead *gorm.DB, rdb redis.UniversalClient) *Container {
	s := store.NewRedisStore(rdb)
	s.FollowBlock = cfg.Ledger.FollowBlock
	s.MaxCASRetries = cfg.Ledger.MaxCASRetries

	auditRepo := repository.NewAuditRepository(dbWrite, dbRead)
	ledgerUsecase := usecase.NewLedgerUsecase(s, auditRepo)
	ledgerHandler := handler.NewLedgerHandler(ledgerUsecase, live.NewAggregator(s), auditRepo, handler.Options{
		Context:  ctx,
		PageSize: cfg.Ledger.PageSize,
		Location: cfg.Ledger.Location(),
	})

	return &Container{
		Store:           s,
		AuditRepository: auditRepo,
		LedgerUsecase:   ledgerUsecase,
		LedgerHandler:   ledgerHandler,
		Auth:            cfg.Auth,
	}
}
