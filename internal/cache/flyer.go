// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// flyer.go caches rendered flyer HTML in Valkey, keyed by ISO week, so
// repeated previews and prints skip the database and template execution.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// flyerKeyPrefix is the Valkey key prefix for rendered flyers.
	flyerKeyPrefix = "flyer:"

	// DefaultFlyerTTL is how long a rendered flyer stays cached.
	DefaultFlyerTTL = 10 * time.Minute

	// currentWeekKey is used when no week is requested.
	currentWeekKey = "_current"
)

// FlyerCache manages rendered flyer HTML in Valkey. All operations are
// best-effort: errors are logged and treated as misses.
type FlyerCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFlyerCache creates a new flyer cache backed by the given Valkey client.
func NewFlyerCache(client *redis.Client, ttl time.Duration) *FlyerCache {
	if ttl == 0 {
		ttl = DefaultFlyerTTL
	}
	return &FlyerCache{client: client, ttl: ttl}
}

// WeekKey returns the cache key for a week string ("2026-W43"); the empty
// week maps to a dedicated key.
func WeekKey(week string) string {
	if week == "" {
		return currentWeekKey
	}
	return week
}

// Get retrieves cached HTML for a week key.
func (fc *FlyerCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := fc.client.Get(ctx, flyerKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("flyer cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("flyer cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML for a week key with the configured TTL.
func (fc *FlyerCache) Set(ctx context.Context, key string, html []byte) {
	if err := fc.client.Set(ctx, flyerKeyPrefix+key, html, fc.ttl).Err(); err != nil {
		slog.Warn("flyer cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached flyer. Any promotion change can
// affect any week, so writes clear the whole prefix.
func (fc *FlyerCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := fc.client.Scan(ctx, cursor, flyerKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("flyer cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := fc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("flyer cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("flyer cache cleared", "deleted", deleted)
	}
}
