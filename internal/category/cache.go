// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache.go keeps the fetched category list in a single persisted snapshot
// and refreshes it from the shop when it goes stale.
package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"flyerpress/internal/models"
)

const (
	// SnapshotKey identifies the one snapshot row shared by the whole system.
	SnapshotKey = "categories"

	// PageSize is the number of categories requested per upstream page.
	PageSize = 100

	// DefaultTTL is how long a snapshot is served before a refresh.
	DefaultTTL = time.Hour
)

// ErrFetch marks failures coming from the upstream catalog during a refresh.
var ErrFetch = errors.New("category upstream fetch")

// Entry is the persisted category snapshot.
type Entry struct {
	Key       string
	Data      []models.Category
	FetchedAt time.Time
}

// PageFetcher returns one page of upstream categories. Page numbers start
// at 1; an empty page means there are no more.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageSize, page int) ([]models.Category, error)
}

// Store persists the snapshot. ReadSingleton returns (nil, nil) when no
// snapshot exists yet. Upsert replaces the whole row.
type Store interface {
	ReadSingleton(ctx context.Context, key string) (*Entry, error)
	Upsert(ctx context.Context, key string, data []models.Category, fetchedAt time.Time) error
}

// Observer is notified of cache outcomes, typically to export metrics.
type Observer interface {
	CacheHit()
	CacheRefreshed(count int, elapsed time.Duration, err error)
}

// Cache serves the category list from Store while it is younger than the
// TTL and refreshes it from the upstream otherwise.
//
// Get holds no lock: two concurrent stale reads both refresh and both
// upsert, and the last write wins. Callers that need a single refresh per
// key must coalesce calls themselves.
type Cache struct {
	store    Store
	fetcher  PageFetcher
	ttl      time.Duration
	now      func() time.Time
	observer Observer
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithObserver registers an observer for hits and refreshes.
func WithObserver(o Observer) Option {
	return func(c *Cache) { c.observer = o }
}

// NewCache creates a Cache. A ttl of zero or less disables caching: every
// Get refreshes from the upstream.
func NewCache(store Store, fetcher PageFetcher, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		store:   store,
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTLFromHours converts a configured number of hours to a TTL.
func TTLFromHours(hours int) time.Duration {
	return time.Duration(hours) * time.Hour
}

// TTL returns the configured snapshot lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the category list. It serves the stored snapshot unless
// forceRefresh is set, no snapshot exists, or the snapshot is stale. On a
// refresh failure the stored snapshot is left as it was.
func (c *Cache) Get(ctx context.Context, forceRefresh bool) ([]models.Category, error) {
	entry, err := c.store.ReadSingleton(ctx, SnapshotKey)
	if err != nil {
		return nil, fmt.Errorf("read category snapshot: %w", err)
	}

	if !forceRefresh && c.fresh(entry) {
		slog.Debug("category cache hit", "count", len(entry.Data), "fetched_at", entry.FetchedAt)
		if c.observer != nil {
			c.observer.CacheHit()
		}
		return entry.Data, nil
	}

	return c.refresh(ctx, forceRefresh)
}

// fresh reports whether entry can be served without a refresh.
func (c *Cache) fresh(entry *Entry) bool {
	if entry == nil || c.ttl <= 0 {
		return false
	}
	return c.now().Sub(entry.FetchedAt) < c.ttl
}

// refresh drains the upstream and replaces the snapshot. The store is only
// written after every page arrived.
func (c *Cache) refresh(ctx context.Context, forced bool) ([]models.Category, error) {
	start := c.now()

	data, err := FetchAllPages(ctx, c.fetcher)
	if err != nil {
		c.report(0, start, err)
		return nil, err
	}

	fetchedAt := c.now()
	if err := c.store.Upsert(ctx, SnapshotKey, data, fetchedAt); err != nil {
		err = fmt.Errorf("upsert category snapshot: %w", err)
		c.report(0, start, err)
		return nil, err
	}

	c.report(len(data), start, nil)
	slog.Info("category cache refreshed",
		"count", len(data),
		"forced", forced,
		"duration", fetchedAt.Sub(start).String(),
	)
	return data, nil
}

func (c *Cache) report(count int, start time.Time, err error) {
	if c.observer != nil {
		c.observer.CacheRefreshed(count, c.now().Sub(start), err)
	}
}

// FetchAllPages requests pages of PageSize from f, starting at page 1,
// until a page comes back empty, and returns all records in page order.
func FetchAllPages(ctx context.Context, f PageFetcher) ([]models.Category, error) {
	all := make([]models.Category, 0, PageSize)
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", ErrFetch, page, err)
		}

		batch, err := f.FetchPage(ctx, PageSize, page)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", ErrFetch, page, err)
		}
		if len(batch) == 0 {
			return all, nil
		}
		all = append(all, batch...)
	}
}
