package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSessionTTL = 7 * 24 * time.Hour

// SessionStorage keeps each browser session in one Redis hash.
// Key format: portal:session:<sid>; the TTL slides on every write.
type SessionStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStorage wraps client. A default TTL is applied when ttl <= 0.
func NewSessionStorage(client *redis.Client, ttl time.Duration) *SessionStorage {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStorage{client: client, ttl: ttl}
}

func (s *SessionStorage) Get(ctx context.Context, sid, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.key(sid), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SessionStorage) Set(ctx context.Context, sid, key, value string) error {
	k := s.key(sid)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, k, key, value)
	pipe.Expire(ctx, k, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, sid string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, s.key(sid), keys...).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStorage) Clear(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStorage) key(sid string) string {
	return "portal:session:" + sid
}
