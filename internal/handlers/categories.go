// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"flyerpress/internal/category"
	"flyerpress/internal/models"
)

// Categories serves the cached category list and the warmup endpoint.
type Categories struct {
	cache  CategorySource
	warmup singleflight.Group
}

// NewCategories creates the category handler group.
func NewCategories(cache CategorySource) *Categories {
	return &Categories{cache: cache}
}

// WarmupResponse is returned by a completed warmup.
type WarmupResponse struct {
	Message    string `json:"message"`
	Count      int    `json:"count"`
	DurationMs int64  `json:"durationMs"`
}

type warmupRequest struct {
	Force bool `json:"force"`
}

// List returns the category list, refreshing the snapshot when stale.
func (c *Categories) List(w http.ResponseWriter, r *http.Request) {
	cats, err := c.cache.Get(r.Context(), false)
	if err != nil {
		slog.Error("list categories failed", "error", err)
		writeError(w, statusFor(err), "Failed to load categories")
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

// Warmup loads the category snapshot, refreshing it when forced or stale.
// Concurrent warmups with the same force flag share one refresh.
func (c *Categories) Warmup(w http.ResponseWriter, r *http.Request) {
	var req warmupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		req = warmupRequest{}
	}

	key := "warmup"
	if req.Force {
		key = "warmup:force"
	}

	v, err, shared := c.warmup.Do(key, func() (any, error) {
		start := time.Now()
		// The shared refresh outlives the caller that started it.
		cats, err := c.cache.Get(context.WithoutCancel(r.Context()), req.Force)
		if err != nil {
			return nil, err
		}
		return WarmupResponse{
			Message:    "Categories cache warmup completed",
			Count:      len(cats),
			DurationMs: time.Since(start).Milliseconds(),
		}, nil
	})
	if err != nil {
		slog.Error("category warmup failed", "force", req.Force, "error", err)
		writeError(w, statusFor(err), "Warmup failed")
		return
	}

	resp := v.(WarmupResponse)
	slog.Info("category warmup", "force", req.Force, "count", resp.Count, "shared", shared)
	writeJSON(w, http.StatusOK, resp)
}

// statusFor maps category cache errors to a response status.
func statusFor(err error) int {
	if errors.Is(err, category.ErrFetch) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
