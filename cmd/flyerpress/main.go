// Package main is the entry point for the FlyerPress server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flyerpress/internal/cache"
	"flyerpress/internal/catalog"
	"flyerpress/internal/category"
	"flyerpress/internal/config"
	"flyerpress/internal/database"
	"flyerpress/internal/flyer"
	"flyerpress/internal/handlers"
	"flyerpress/internal/metrics"
	"flyerpress/internal/middleware"
	"flyerpress/internal/render"
	"flyerpress/internal/router"
	"flyerpress/internal/storage"
	"flyerpress/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables (and .env when present).
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"category_cache_backend", cfg.CategoryCacheBackend,
		"category_cache_ttl_hours", cfg.CategoryCacheTTLHours,
		"store_timezone", cfg.StoreLocation.String(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed demo promotions (no-op if promotions already exist).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	collector := metrics.NewCollector()

	// Connect to Valkey. It is mandatory only when it holds the category
	// snapshot; otherwise the flyer cache is simply disabled.
	var flyerCache handlers.FlyerCache
	var snapshotStore category.Store = store.NewCategoryCacheStore(db)

	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	switch {
	case err != nil && cfg.CategoryCacheBackend == config.BackendValkey:
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	case err != nil:
		slog.Warn("valkey unavailable, flyer cache disabled", "error", err)
	default:
		defer valkeyClient.Close()
		flyerCache = cache.NewFlyerCache(valkeyClient, cache.DefaultFlyerTTL)
		if cfg.CategoryCacheBackend == config.BackendValkey {
			snapshotStore = cache.NewCategorySnapshotStore(valkeyClient)
		}
	}

	// WooCommerce client, reporting every call to the metrics collector.
	shop := catalog.New(catalog.Config{
		BaseURL:        cfg.WCURL,
		ConsumerKey:    cfg.WCConsumerKey,
		ConsumerSecret: cfg.WCConsumerSecret,
	}, collector.CatalogRequest)

	categoryCache := category.NewCache(snapshotStore, shop,
		category.TTLFromHours(cfg.CategoryCacheTTLHours),
		category.WithObserver(collector),
	)
	if categoryCache.TTL() <= 0 {
		slog.Warn("category cache disabled, every request refreshes from the shop")
	}

	// Connect to S3-compatible object storage (optional, publishing needs it).
	var publisher handlers.FlyerPublisher
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		publisher = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, flyer publishing disabled")
	}

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	auth := middleware.NewOperatorAuth(cfg.OperatorUser, cfg.OperatorPasswordHash, cfg.OperatorTOTPSecret)
	if !auth.Enabled() {
		slog.Warn("OPERATOR_PASSWORD_HASH not set, write routes are open")
	}

	warmupLimiter := middleware.NewRateLimiter(6, time.Minute)
	defer warmupLimiter.Stop()

	promotionStore := store.NewPromotionStore(db)
	branding := flyer.Branding{
		StoreName: cfg.StoreName,
		LogoURL:   cfg.StoreLogoURL,
		Footer:    cfg.StoreFooter,
		Location:  cfg.StoreLocation,
	}

	r := router.New(router.Deps{
		Products:       handlers.NewProducts(shop, categoryCache),
		Categories:     handlers.NewCategories(categoryCache),
		Promotions:     handlers.NewPromotions(promotionStore, flyerCache, cfg.StoreLocation),
		Flyer:          handlers.NewFlyer(promotionStore, categoryCache, renderer, flyerCache, publisher, branding),
		Auth:           auth,
		Metrics:        collector,
		WarmupLimiter:  warmupLimiter,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Load the category snapshot in the background so the first search
	// does not pay for a cold refresh.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if cats, err := categoryCache.Get(ctx, false); err != nil {
			slog.Warn("startup category warmup failed", "error", err)
		} else {
			slog.Info("startup category warmup done", "count", len(cats))
		}
	}()

	// WriteTimeout covers a cold category refresh, which drains every page
	// of the shop's category listing.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
