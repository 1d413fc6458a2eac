package cache

import (
	"context"
	"testing"

	"dompet/internal/config"

	"github.com/alicebob/miniredis/v2"
)

func TestOptions(t *testing.T) {
	opts := options(config.RedisConfig{Host: "redis", Port: "6380", DB: "x", PoolSize: 30})
	if opts.Addr != "redis:6380" {
		t.Errorf("addr = %q", opts.Addr)
	}
	if opts.DB != 0 {
		t.Errorf("invalid db index should fall back to 0, got %d", opts.DB)
	}
	if opts.MinIdleConns != 10 {
		t.Errorf("min idle = %d, want 10", opts.MinIdleConns)
	}
	if opts.MaxRetries != -1 {
		t.Errorf("max retries = %d, want -1 (no retry)", opts.MaxRetries)
	}
}

func TestConnectRedis(t *testing.T) {
	m := miniredis.RunT(t)
	cfg := config.RedisConfig{Host: m.Host(), Port: m.Port(), DB: "0", PoolSize: 3}
	rdb, err := ConnectRedis(context.Background(), cfg)
	if err != nil {
		t.Fatalf("ConnectRedis: %v", err)
	}
	defer rdb.Close()

	m.Close()
	if _, err := ConnectRedis(context.Background(), cfg); err == nil {
		t.Error("expected error after server closed")
	}
}
