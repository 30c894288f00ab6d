// Package router sets up all HTTP routes and middleware chains for
// FlyerPress. Reads are public; writes, warmup and publishing sit behind
// operator authentication.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"flyerpress/internal/handlers"
	"flyerpress/internal/metrics"
	"flyerpress/internal/middleware"
	"flyerpress/web"
)

// Deps holds everything the router wires into routes.
type Deps struct {
	Products   *handlers.Products
	Categories *handlers.Categories
	Promotions *handlers.Promotions
	Flyer      *handlers.Flyer

	Auth          *middleware.OperatorAuth
	Metrics       *metrics.Collector
	WarmupLimiter *middleware.RateLimiter

	// AllowedOrigins enables CORS for a separately hosted editor UI.
	AllowedOrigins []string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}
	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.OTPHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", handlers.Health)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}
	r.Handle("/static/*", http.FileServerFS(web.StaticFS))

	r.Get("/flyer", d.Flyer.Preview)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", d.Products.Search)
		r.Get("/products/{id}", d.Products.Get)
		r.Post("/products/enrich", d.Products.Enrich)

		r.Get("/categories", d.Categories.List)
		r.Get("/promotions", d.Promotions.List)

		// Operator-only routes.
		r.Group(func(r chi.Router) {
			r.Use(d.Auth.Require)

			r.With(limit(d.WarmupLimiter)).Post("/categories/warmup", d.Categories.Warmup)

			r.Post("/promotions", d.Promotions.Create)
			r.Put("/promotions", d.Promotions.Update)
			r.Delete("/promotions", d.Promotions.Delete)

			r.Post("/flyer/publish", d.Flyer.Publish)
		})
	})

	return r
}

// limit returns rl's middleware, or a pass-through when rl is nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}
