// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"flyerpress/internal/flyer"
	"flyerpress/internal/handlers"
	"flyerpress/internal/metrics"
	"flyerpress/internal/middleware"
)

// newTestRouter builds the router with handler groups that are never
// reached by these tests, so their dependencies stay nil.
func newTestRouter(t *testing.T, auth *middleware.OperatorAuth, origins ...string) http.Handler {
	t.Helper()
	rl := middleware.NewRateLimiter(5, time.Minute)
	t.Cleanup(rl.Stop)

	return New(Deps{
		Products:       handlers.NewProducts(nil, nil),
		Categories:     handlers.NewCategories(nil),
		Promotions:     handlers.NewPromotions(nil, nil, nil),
		Flyer:          handlers.NewFlyer(nil, nil, nil, nil, nil, flyer.Branding{}),
		Auth:           auth,
		Metrics:        metrics.NewCollector(),
		WarmupLimiter:  rl,
		AllowedOrigins: origins,
	})
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `flyerpress_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestStaticStylesheet(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/flyer.css", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/css"))
}

func TestOperatorRoutesRequireAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	router := newTestRouter(t, middleware.NewOperatorAuth("operator", string(hash), ""))

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/categories/warmup"},
		{http.MethodPost, "/api/promotions"},
		{http.MethodPut, "/api/promotions"},
		{http.MethodDelete, "/api/promotions?id=x"},
		{http.MethodPost, "/api/flyer/publish?week=2026-W43"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(rt.method, rt.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestPublishWithoutStorage(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/flyer/publish", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestUnknownRoute(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, nil, "https://editor.example")

	req := httptest.NewRequest(http.MethodOptions, "/api/promotions", nil)
	req.Header.Set("Origin", "https://editor.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "https://editor.example", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/promotions", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
