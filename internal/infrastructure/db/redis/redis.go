package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/baticonnect/portal/internal/pkg/config"
)

const (
	clientName  = "portal"
	pingTimeout = 5 * time.Second
)

// Open connects to Redis and returns the session storage once the server
// answers a ping. closeFn releases the connection pool.
func Open(ctx context.Context, cfg config.RedisConfig, ttl time.Duration) (storage *SessionStorage, closeFn func(), err error) {
	client := redis.NewClient(clientOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("session store: redis ping %s: %w", cfg.Addr, err)
	}
	return NewSessionStorage(client, ttl), func() { _ = client.Close() }, nil
}

func clientOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:       cfg.Addr,
		Password:   cfg.Password,
		DB:         cfg.DB,
		ClientName: clientName,
	}
}
