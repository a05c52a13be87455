// Package cache is a small JSON view cache over Redis for the dashboard and
// insights read paths. A nil *Cache is valid and disables caching.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at addr. Callers should treat a nil return (empty
// addr) as "cache off".
func New(addr, password string, ttl time.Duration) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
		ttl:    ttl,
	}
}

// Get unmarshals the cached value for key into dest, reporting whether the
// key was present. Redis errors degrade to a miss.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// an unreachable cache behaves like an empty one
			return false
		}
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores value under key for the configured TTL, best effort.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Invalidate drops all keys for an account. Called after every gradebook
// mutation.
func (c *Cache) Invalidate(ctx context.Context, accountID string) {
	if c == nil {
		return
	}
	_ = c.client.Del(ctx,
		DashboardKey(accountID),
		InsightsKey(accountID),
	).Err()
}

func DashboardKey(accountID string) string { return "gradekeep:dashboard:" + accountID }
func InsightsKey(accountID string) string  { return "gradekeep:insights:" + accountID }
