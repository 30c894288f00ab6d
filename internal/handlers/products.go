// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"flyerpress/internal/catalog"
	"flyerpress/internal/category"
	"flyerpress/internal/models"
)

// Products groups the product search, lookup and enrichment endpoints.
type Products struct {
	catalog    ProductCatalog
	categories CategorySource
}

// NewProducts creates the product handler group.
func NewProducts(c ProductCatalog, categories CategorySource) *Products {
	return &Products{catalog: c, categories: categories}
}

// Search returns shop products matching ?search=, enriched with their
// category hierarchy. When the shop is unreachable it answers with the
// built-in sample products; when only the category cache fails the
// products are returned unenriched.
func (p *Products) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query().Get("search")

	products, err := p.catalog.SearchProducts(ctx, query)
	if err != nil {
		slog.Warn("product search failed, serving samples", "query", query, "error", err)
		writeJSON(w, http.StatusOK, catalog.SampleProducts(query))
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	cats, err := p.categories.Get(ctx, false)
	if err != nil {
		slog.Warn("category cache unavailable, products not enriched", "error", err)
		writeJSON(w, http.StatusOK, products)
		return
	}

	writeJSON(w, http.StatusOK, category.EnrichAll(products, cats))
}

// Get returns a single raw product. Upstream failures keep their status.
func (p *Products) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := p.catalog.Product(r.Context(), id)
	if err != nil {
		status := catalog.StatusCode(err)
		if status < 400 {
			status = http.StatusInternalServerError
		}
		slog.Error("fetch product failed", "id", id, "status", status, "error", err)
		writeError(w, status, "Failed to fetch product details")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Enrich attaches category hierarchy fields to a posted product array. An
// empty or non-array body yields [].
func (p *Products) Enrich(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	var products []models.Product
	if err := json.Unmarshal(body, &products); err != nil || len(products) == 0 {
		writeJSON(w, http.StatusOK, []models.Product{})
		return
	}

	cats, err := p.categories.Get(r.Context(), false)
	if err != nil {
		slog.Error("enrich products failed", "count", len(products), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to enrich products")
		return
	}

	writeJSON(w, http.StatusOK, category.EnrichAll(products, cats))
}
