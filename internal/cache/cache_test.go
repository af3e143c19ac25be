package cache

import (
	"context"
	"testing"
	"time"
)

// A nil cache means caching is disabled; every operation must be a safe
// no-op so callers never branch on configuration.
func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping on nil cache: %v", err)
	}

	if _, ok := c.GetStrings(ctx, EventsKey); ok {
		t.Fatal("nil cache reported a hit")
	}

	c.SetStrings(ctx, EventsKey, []string{"quiz"}, time.Second)
	c.Delete(ctx, EventsKey)

	if err := c.Close(); err != nil {
		t.Fatalf("close on nil cache: %v", err)
	}
}

func TestNewWithoutAddrDisablesCache(t *testing.T) {
	if c := New(""); c != nil {
		t.Fatal("empty addr must disable the cache")
	}
}
