package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCounterStore implements the fixed-window counter on Redis so limits
// are shared across instances. The INCR/EXPIRE pair keeps the window
// semantics of the in-memory store; Redis evicts stale entries itself.
type RedisCounterStore struct {
	client *redis.Client
	config RateLimitConfig
	prefix string
}

// NewRedisCounterStore creates a Redis-backed counter store
func NewRedisCounterStore(client *redis.Client, config RateLimitConfig, prefix string) *RedisCounterStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisCounterStore{
		client: client,
		config: config,
		prefix: prefix,
	}
}

// Admit increments the per-key counter and opens the window on first use.
// The expiry is set only on the first increment so that retries during a
// rejected window never extend it. On Redis errors the decision allows the
// request and the error is surfaced for logging; the middleware fails open.
func (s *RedisCounterStore) Admit(ctx context.Context, key string) (Decision, error) {
	redisKey := fmt.Sprintf("%s:%s", s.prefix, key)

	incr, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{Allowed: true, Remaining: s.config.MaxRequests}, fmt.Errorf("redis error: %w", err)
	}
	if incr == 1 {
		if err := s.client.Expire(ctx, redisKey, s.config.Window).Err(); err != nil {
			return Decision{Allowed: true, Remaining: s.config.MaxRequests}, fmt.Errorf("redis error: %w", err)
		}
	}

	count := int(incr)
	resetAt := time.Now().Add(s.config.Window)
	if ttl, err := s.client.TTL(ctx, redisKey).Result(); err == nil && ttl > 0 {
		resetAt = time.Now().Add(ttl)
	}

	if count > s.config.MaxRequests {
		return Decision{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}
	return Decision{
		Allowed:   true,
		Remaining: s.config.MaxRequests - count,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the counter for a key (admin and test use)
func (s *RedisCounterStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, fmt.Sprintf("%s:%s", s.prefix, key)).Err()
}
