// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"flyerpress/internal/middleware"
	"flyerpress/internal/models"
	"flyerpress/internal/store"
)

// Promotions implements the promotion CRUD endpoints. Every successful
// write clears the rendered flyer cache.
type Promotions struct {
	store    PromotionRepository
	flyers   FlyerCache
	validate *validator.Validate
	loc      *time.Location
	now      func() time.Time
}

// NewPromotions creates the promotion handler group. flyers may be nil;
// loc is the store zone used to read ?active= dates (UTC when nil).
func NewPromotions(s PromotionRepository, flyers FlyerCache, loc *time.Location) *Promotions {
	if loc == nil {
		loc = time.UTC
	}
	return &Promotions{store: s, flyers: flyers, validate: newValidator(), loc: loc, now: time.Now}
}

// promotionRequest is the create/update payload.
type promotionRequest struct {
	ID            uuid.UUID      `json:"id"`
	CustomPrice   string         `json:"customPrice" validate:"required,price"`
	DiscountPrice string         `json:"discountPrice" validate:"required,price"`
	StartDate     time.Time      `json:"startDate" validate:"required"`
	EndDate       time.Time      `json:"endDate" validate:"required,gtefield=StartDate"`
	Product       models.Product `json:"product"`
}

func (req *promotionRequest) toModel() *models.Promotion {
	return &models.Promotion{
		ID:            req.ID,
		CustomPrice:   req.CustomPrice,
		DiscountPrice: req.DiscountPrice,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Product:       req.Product,
	}
}

// List returns promotions, newest first. ?active=now or ?active=YYYY-MM-DD
// keeps only those valid at that moment (noon of the day, store time).
func (p *Promotions) List(w http.ResponseWriter, r *http.Request) {
	var (
		items []models.Promotion
		err   error
	)
	if raw := r.URL.Query().Get("active"); raw != "" {
		at, ok := p.activeAt(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "active must be \"now\" or a YYYY-MM-DD date")
			return
		}
		items, err = p.store.ListActiveAt(r.Context(), at)
	} else {
		items, err = p.store.List(r.Context())
	}
	if err != nil {
		slog.Error("list promotions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Error fetching promotions")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (p *Promotions) activeAt(raw string) (time.Time, bool) {
	if raw == "now" {
		return p.now(), true
	}
	day, err := time.ParseInLocation("2006-01-02", raw, p.loc)
	if err != nil {
		return time.Time{}, false
	}
	return day.Add(12 * time.Hour), true
}

// Create stores a new promotion. The client may supply the id.
func (p *Promotions) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := p.decode(w, r)
	if !ok {
		return
	}

	created, err := p.store.Create(r.Context(), req.toModel())
	if err != nil {
		slog.Error("create promotion failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Error creating promotion")
		return
	}

	slog.Info("promotion created",
		"id", created.ID,
		"product", created.Product.ID,
		"operator", middleware.OperatorFromCtx(r.Context()),
	)
	p.invalidate(r)
	writeJSON(w, http.StatusOK, created)
}

// Update replaces the promotion identified by the body id.
func (p *Promotions) Update(w http.ResponseWriter, r *http.Request) {
	req, ok := p.decode(w, r)
	if !ok {
		return
	}
	if req.ID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	previous, err := p.store.FindByID(r.Context(), req.ID)
	if err != nil {
		slog.Error("load promotion failed", "id", req.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error updating promotion")
		return
	}
	if previous == nil {
		writeError(w, http.StatusNotFound, "Promotion not found")
		return
	}

	updated, err := p.store.Update(r.Context(), req.toModel())
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Promotion not found")
		return
	}
	if err != nil {
		slog.Error("update promotion failed", "id", req.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error updating promotion")
		return
	}

	slog.Info("promotion updated",
		"id", updated.ID,
		"discount_price", previous.DiscountPrice+" -> "+updated.DiscountPrice,
		"operator", middleware.OperatorFromCtx(r.Context()),
	)
	p.invalidate(r)
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes the promotion named by ?id=.
func (p *Promotions) Delete(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid promotion ID")
		return
	}

	existing, err := p.store.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("load promotion failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Error deleting promotion")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Promotion not found")
		return
	}

	err = p.store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Promotion not found")
		return
	}
	if err != nil {
		slog.Error("delete promotion failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Error deleting promotion")
		return
	}

	slog.Info("promotion deleted",
		"id", id,
		"product", existing.Product.Name,
		"operator", middleware.OperatorFromCtx(r.Context()),
	)
	p.invalidate(r)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// decode parses and validates the body, writing a 400 on failure.
func (p *Promotions) decode(w http.ResponseWriter, r *http.Request) (*promotionRequest, bool) {
	var req promotionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return nil, false
	}
	if err := p.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return nil, false
	}
	return &req, true
}

func (p *Promotions) invalidate(r *http.Request) {
	if p.flyers != nil {
		p.flyers.InvalidateAll(r.Context())
	}
}
