// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics exposes Prometheus metrics for the category cache, the
// WooCommerce client and the HTTP surface on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flyerpress/internal/category"
)

const namespace = "flyerpress"

// Collector holds all Prometheus metrics for the application.
type Collector struct {
	registry *prometheus.Registry

	CacheHits       prometheus.Counter
	CacheRefreshes  *prometheus.CounterVec
	RefreshDuration prometheus.Histogram
	CatalogRequests *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

var _ category.Observer = (*Collector)(nil)

// NewCollector creates a collector with its own registry, so tests and
// multiple instances never collide on registration.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "category_cache_hits_total",
			Help:      "Category lists served from a fresh snapshot.",
		}),
		CacheRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "category_cache_refreshes_total",
			Help:      "Category snapshot refreshes by result.",
		}, []string{"result"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "category_cache_refresh_duration_seconds",
			Help:      "Time spent draining the upstream category listing.",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}),
		CatalogRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_total",
			Help:      "Requests sent to the WooCommerce API.",
		}, []string{"endpoint", "status"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	c.registry.MustRegister(
		c.CacheHits,
		c.CacheRefreshes,
		c.RefreshDuration,
		c.CatalogRequests,
		c.HTTPRequests,
		c.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// CacheHit implements category.Observer.
func (c *Collector) CacheHit() {
	c.CacheHits.Inc()
}

// CacheRefreshed implements category.Observer.
func (c *Collector) CacheRefreshed(_ int, elapsed time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	c.CacheRefreshes.WithLabelValues(result).Inc()
	c.RefreshDuration.Observe(elapsed.Seconds())
}

// CatalogRequest records one WooCommerce call. Status 0 means the request
// never got a response. Its signature matches catalog.RequestHook.
func (c *Collector) CatalogRequest(endpoint string, status int) {
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	c.CatalogRequests.WithLabelValues(endpoint, label).Inc()
}

// Middleware records request counts and latency per chi route pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
