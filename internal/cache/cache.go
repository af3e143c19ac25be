package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventsKey is the versioned cache key for the distinct-events list.
// Bump the version when the cached shape changes.
const EventsKey = "festreg:admin:events:v1"

// Cache is a small read-through cache over Redis. A nil *Cache is valid and
// means caching is disabled, every method degrades to a miss.
type Cache struct {
	redisdb *redis.Client
}

func New(addr string) *Cache {
	if addr == "" {
		return nil
	}

	redisdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &Cache{redisdb: redisdb}
}

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.redisdb.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.redisdb.Close()
}

func (c *Cache) GetStrings(ctx context.Context, key string) ([]string, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.redisdb.Get(ctx, key).Bytes()

	if err != nil {
		return nil, false
	}

	var out []string

	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}

	return out, true
}

func (c *Cache) SetStrings(ctx context.Context, key string, vals []string, ttl time.Duration) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(vals)

	if err != nil {
		return
	}

	// best effort, a failed write just means a repo read next time
	_ = c.redisdb.Set(ctx, key, raw, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) {
	if c == nil {
		return
	}

	_ = c.redisdb.Del(ctx, key).Err()
}
