// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// categories.go stores the category snapshot in Valkey as one JSON value.
// The key never expires: staleness is judged by the category cache from
// the stored fetch time, not by Valkey.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"flyerpress/internal/category"
	"flyerpress/internal/models"
)

// snapshotKeyPrefix namespaces category snapshots in Valkey.
const snapshotKeyPrefix = "categories:snapshot:"

// snapshot is the JSON document stored per key.
type snapshot struct {
	Data      []models.Category `json:"data"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// CategorySnapshotStore is a Valkey implementation of category.Store.
type CategorySnapshotStore struct {
	client *redis.Client
}

var _ category.Store = (*CategorySnapshotStore)(nil)

// NewCategorySnapshotStore creates a snapshot store on the given client.
func NewCategorySnapshotStore(client *redis.Client) *CategorySnapshotStore {
	return &CategorySnapshotStore{client: client}
}

// ReadSingleton returns the snapshot stored under key, or nil on a miss or
// when the stored value no longer decodes.
func (s *CategorySnapshotStore) ReadSingleton(ctx context.Context, key string) (*category.Entry, error) {
	raw, err := s.client.Get(ctx, snapshotKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("valkey get category snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		slog.Warn("discarding undecodable category snapshot", "key", key, "error", err)
		return nil, nil
	}
	return &category.Entry{Key: key, Data: snap.Data, FetchedAt: snap.FetchedAt}, nil
}

// Upsert overwrites the snapshot under key with a single SET.
func (s *CategorySnapshotStore) Upsert(ctx context.Context, key string, data []models.Category, fetchedAt time.Time) error {
	if data == nil {
		data = []models.Category{}
	}
	raw, err := json.Marshal(snapshot{Data: data, FetchedAt: fetchedAt})
	if err != nil {
		return fmt.Errorf("encode category snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKeyPrefix+key, raw, 0).Err(); err != nil {
		return fmt.Errorf("valkey set category snapshot: %w", err)
	}
	return nil
}
