// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// category_cache.go persists the category snapshot in a single row of the
// category_cache table, so it survives restarts.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"flyerpress/internal/category"
	"flyerpress/internal/models"
)

// CategoryCacheStore is the PostgreSQL implementation of category.Store.
type CategoryCacheStore struct {
	db *sql.DB
}

var _ category.Store = (*CategoryCacheStore)(nil)

// NewCategoryCacheStore creates a new CategoryCacheStore.
func NewCategoryCacheStore(db *sql.DB) *CategoryCacheStore {
	return &CategoryCacheStore{db: db}
}

// ReadSingleton returns the snapshot stored under key, or nil if none. A
// row that no longer decodes is reported as missing, so the next refresh
// overwrites it.
func (s *CategoryCacheStore) ReadSingleton(ctx context.Context, key string) (*category.Entry, error) {
	var data []byte
	entry := &category.Entry{Key: key}
	err := s.db.QueryRowContext(ctx,
		`SELECT data, fetched_at FROM category_cache WHERE id = $1`, key,
	).Scan(&data, &entry.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read category cache: %w", err)
	}
	if err := json.Unmarshal(data, &entry.Data); err != nil {
		slog.Warn("discarding undecodable category cache row", "key", key, "error", err)
		return nil, nil
	}
	return entry, nil
}

// Upsert replaces the snapshot stored under key in one statement.
func (s *CategoryCacheStore) Upsert(ctx context.Context, key string, data []models.Category, fetchedAt time.Time) error {
	if data == nil {
		data = []models.Category{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode category cache: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO category_cache (id, data, fetched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, fetched_at = EXCLUDED.fetched_at
	`, key, payload, fetchedAt)
	if err != nil {
		return fmt.Errorf("upsert category cache: %w", err)
	}
	return nil
}
