// Package cli implements ledgerctl, the operator tool that talks to the
// ledger store directly.
package cli

import (
	"context"
	"fmt"

	"dompet/internal/config"
	"dompet/internal/infrastructure/cache"
	"dompet/internal/modules/ledger/usecase"
	"dompet/internal/store"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Inspect and repair wallet ledgers",
}

func init() {
	RootCmd.PersistentFlags().StringP("user", "u", "", "user id whose ledger to use")
}

func Run(args []string) error {
	RootCmd.SetArgs(args)
	return RootCmd.Execute()
}

// env is what every command needs: config plus an open ledger store.
type env struct {
	cfg     *config.Config
	rdb     redis.UniversalClient
	store   *store.RedisStore
	usecase *usecase.LedgerUsecase
	userID  string
}

func (e *env) Close() { _ = e.rdb.Close() }

func userFlag(cmd *cobra.Command) (string, error) {
	uid, _ := cmd.Flags().GetString("user")
	if uid == "" {
		return "", fmt.Errorf("--user is required")
	}
	return uid, nil
}

func openEnv(ctx context.Context, cmd *cobra.Command) (*env, error) {
	uid, err := userFlag(cmd)
	if err != nil {
		return nil, err
	}
	cfg := config.Load()
	rdb, err := cache.ConnectRedis(ctx, *cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	s := store.NewRedisStore(rdb)
	s.FollowBlock = cfg.Ledger.FollowBlock
	s.MaxCASRetries = cfg.Ledger.MaxCASRetries
	return &env{
		cfg:     cfg,
		rdb:     rdb,
		store:   s,
		usecase: usecase.NewLedgerUsecase(s, nil),
		userID:  uid,
	}, nil
}
