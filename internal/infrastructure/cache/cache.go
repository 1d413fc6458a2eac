package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"dompet/internal/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens the client shared by the store, the live feeds and
// the journal worker, and checks it with a PING.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (redis.UniversalClient, error) {
	opts := options(cfg)
	rdb := redis.NewClient(opts)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}

	// pre-warm pool (best effort)
	warm := min(opts.MinIdleConns, 64)
	for i := 0; i < warm; i++ {
		go func() { _ = rdb.Ping(ctx).Err() }()
	}
	return rdb, nil
}

// options sizes the pool for the blocking readers: every live subscriber
// holds three XREAD BLOCK connections and every journal worker one
// XREADGROUP, on top of the script calls.
func options(cfg config.RedisConfig) *redis.Options {
	dbIndex, err := strconv.Atoi(cfg.DB)
	if err != nil {
		dbIndex = 0
	}
	return &redis.Options{
		Addr:        fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          dbIndex,
		DialTimeout: 1 * time.Second,
		// Timeout dari XREAD BLOCK ditambahkan sendiri oleh go-redis
		ReadTimeout:     400 * time.Millisecond,
		WriteTimeout:    400 * time.Millisecond,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.PoolSize / 3,
		PoolTimeout:     750 * time.Millisecond,
		ConnMaxIdleTime: 90 * time.Second,
		PoolFIFO:        true,
		// Script mutasi tidak di-retry: hasil EVAL yang timeout tidak diketahui
		MaxRetries: -1,

		OnConnect: func(ctx context.Context, cn *redis.Conn) error {
			// Biar gampang di-trace di Redis: CLIENT LIST/INFO
			_ = cn.ClientSetName(ctx, "dompet").Err()
			return nil
		},
	}
}
