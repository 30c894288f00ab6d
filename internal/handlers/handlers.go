// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers of the FlyerPress API and
// the printable flyer. Each group depends on small interfaces so it can be
// wired to the real stores in main and to fakes in tests.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"flyerpress/internal/models"
)

// ProductCatalog is the subset of the WooCommerce client used by handlers.
type ProductCatalog interface {
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	Product(ctx context.Context, id int) (*models.Product, error)
}

// CategorySource returns the cached category list.
type CategorySource interface {
	Get(ctx context.Context, forceRefresh bool) ([]models.Category, error)
}

// PromotionRepository persists promotions.
type PromotionRepository interface {
	List(ctx context.Context) ([]models.Promotion, error)
	ListActiveAt(ctx context.Context, t time.Time) ([]models.Promotion, error)
	ListOverlapping(ctx context.Context, from, to time.Time) ([]models.Promotion, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	Create(ctx context.Context, p *models.Promotion) (*models.Promotion, error)
	Update(ctx context.Context, p *models.Promotion) (*models.Promotion, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// FlyerCache stores rendered flyer HTML by week key.
type FlyerCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
	InvalidateAll(ctx context.Context)
}

// FlyerPublisher uploads rendered flyers and returns their public URL.
type FlyerPublisher interface {
	PublishFlyer(ctx context.Context, week string, html []byte) (string, error)
}

// maxBodyBytes caps request bodies; enrich payloads carry whole products.
const maxBodyBytes = 4 << 20

// Health reports that the process is serving.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode json response failed", "error", err)
	}
}

// writeError sends {"error": msg} with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
