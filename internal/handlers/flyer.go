// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"flyerpress/internal/cache"
	"flyerpress/internal/category"
	"flyerpress/internal/flyer"
	"flyerpress/internal/models"
	"flyerpress/internal/render"
)

// Flyer renders the weekly flyer for preview/print and publishes it to
// object storage.
type Flyer struct {
	promotions PromotionRepository
	categories CategorySource
	renderer   *render.Renderer
	cache      FlyerCache
	publisher  FlyerPublisher
	branding   flyer.Branding
}

// NewFlyer creates the flyer handler group. cache and publisher may be nil.
func NewFlyer(promotions PromotionRepository, categories CategorySource, renderer *render.Renderer,
	flyerCache FlyerCache, publisher FlyerPublisher, branding flyer.Branding) *Flyer {
	return &Flyer{
		promotions: promotions,
		categories: categories,
		renderer:   renderer,
		cache:      flyerCache,
		publisher:  publisher,
		branding:   branding,
	}
}

// Preview serves the printable flyer for ?week=YYYY-Www. Without a valid
// week every stored promotion is shown under the generic title.
func (f *Flyer) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	week := requestedWeek(r)
	key := cache.WeekKey(week)

	if f.cache != nil {
		if html, ok := f.cache.Get(ctx, key); ok {
			render.WriteHTML(w, html)
			return
		}
	}

	html, err := f.build(ctx, week)
	if err != nil {
		slog.Error("render flyer failed", "week", week, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render flyer")
		return
	}

	if f.cache != nil {
		f.cache.Set(ctx, key, html)
	}
	render.WriteHTML(w, html)
}

// Publish renders the flyer for ?week= and uploads it, returning its URL.
func (f *Flyer) Publish(w http.ResponseWriter, r *http.Request) {
	if f.publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "Flyer storage is not configured")
		return
	}

	ctx := r.Context()
	week := requestedWeek(r)

	html, err := f.build(ctx, week)
	if err != nil {
		slog.Error("render flyer failed", "week", week, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render flyer")
		return
	}

	url, err := f.publisher.PublishFlyer(ctx, week, html)
	if err != nil {
		slog.Error("publish flyer failed", "week", week, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to publish flyer")
		return
	}

	slog.Info("flyer published", "week", week, "url", url, "bytes", len(html))
	writeJSON(w, http.StatusOK, map[string]string{"url": url, "week": week})
}

// build loads the week's promotions, fills in missing category fields and
// renders the flyer.
func (f *Flyer) build(ctx context.Context, week string) ([]byte, error) {
	promos, err := f.load(ctx, week)
	if err != nil {
		return nil, err
	}
	f.enrich(ctx, promos)
	return f.renderer.FlyerHTML(flyer.Build(promos, week, f.branding))
}

// requestedWeek returns ?week= when it names a real ISO week, else "".
func requestedWeek(r *http.Request) string {
	week := r.URL.Query().Get("week")
	if _, _, ok := flyer.WeekRange(week, nil); !ok {
		return ""
	}
	return week
}

func (f *Flyer) load(ctx context.Context, week string) ([]models.Promotion, error) {
	monday, _, ok := flyer.WeekRange(week, f.branding.Location)
	if !ok {
		return f.promotions.List(ctx)
	}
	endOfSunday := monday.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return f.promotions.ListOverlapping(ctx, monday, endOfSunday)
}

// enrich resolves categories for products saved without them. A cache
// failure leaves those products in the "other" section.
func (f *Flyer) enrich(ctx context.Context, promos []models.Promotion) {
	missing := false
	for i := range promos {
		if promos[i].Product.CategoryPath == "" && len(promos[i].Product.Categories) > 0 {
			missing = true
			break
		}
	}
	if !missing {
		return
	}

	cats, err := f.categories.Get(ctx, false)
	if err != nil {
		slog.Warn("category cache unavailable for flyer", "error", err)
		return
	}
	g := category.NewGraph(cats)
	for i := range promos {
		if promos[i].Product.CategoryPath == "" {
			promos[i].Product = category.EnrichWithGraph(promos[i].Product, g)
		}
	}
}
