// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog is a small client for the WooCommerce REST API (v3).
// It reads products and product categories from the shop; it never writes.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sethvargo/go-retry"

	"flyerpress/internal/models"
)

const (
	apiPath = "/wp-json/wc/v3"

	// SearchPageSize is how many products a search returns.
	SearchPageSize = 20

	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	defaultRetryBase  = 250 * time.Millisecond
)

// Config holds the shop location and REST API credentials.
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Timeout        time.Duration
	MaxRetries     int
	RetryBase      time.Duration
}

// APIError is returned when the shop answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("woocommerce API error (status %d): %s", e.StatusCode, e.Body)
}

// StatusCode returns the upstream HTTP status carried by err, or 0 when err
// is not an *APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// RequestHook is called once per HTTP attempt with the endpoint name and
// the response status (0 on transport errors).
type RequestHook func(endpoint string, status int)

// Client talks to one WooCommerce shop.
type Client struct {
	config Config
	client *http.Client
	hook   RequestHook
}

// New creates a Client. Zero timeouts and retry settings get defaults; a
// negative MaxRetries disables retrying.
func New(cfg Config, hook RequestHook) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBase == 0 {
		cfg.RetryBase = defaultRetryBase
	}
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		hook:   hook,
	}
}

// FetchPage returns one page of product categories. It satisfies
// category.PageFetcher.
func (c *Client) FetchPage(ctx context.Context, pageSize, page int) ([]models.Category, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(pageSize))
	q.Set("page", strconv.Itoa(page))

	var cats []models.Category
	if err := c.get(ctx, "categories", "/products/categories", q, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// SearchProducts returns published products matching query.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	q := url.Values{}
	q.Set("search", query)
	q.Set("per_page", strconv.Itoa(SearchPageSize))
	q.Set("status", "publish")

	var products []models.Product
	if err := c.get(ctx, "products", "/products", q, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product returns a single product by id.
func (c *Client) Product(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	if err := c.get(ctx, "product", "/products/"+strconv.Itoa(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// get performs a GET with retries on transport errors, 429 and 5xx, and
// decodes the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	u := c.config.BaseURL + apiPath + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	backoff := retry.WithMaxRetries(uint64(c.config.MaxRetries), retry.NewExponential(c.config.RetryBase))

	var body []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		b, err := c.do(ctx, endpoint, u)
		if err != nil {
			if retryable(err) {
				slog.Warn("woocommerce request failed, retrying", "endpoint", endpoint, "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("woocommerce %s unmarshal: %w", endpoint, err)
	}
	return nil
}

// do performs one HTTP attempt.
func (c *Client) do(ctx context.Context, endpoint, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("woocommerce %s request: %w", endpoint, err)
	}
	req.SetBasicAuth(c.config.ConsumerKey, c.config.ConsumerSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(endpoint, 0)
		return nil, fmt.Errorf("woocommerce %s http: %w", endpoint, err)
	}
	defer resp.Body.Close()
	c.observe(endpoint, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("woocommerce %s read body: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}
	return body, nil
}

func (c *Client) observe(endpoint string, status int) {
	if c.hook != nil {
		c.hook(endpoint, status)
	}
}

// retryable reports whether a failed attempt is worth repeating.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	status := StatusCode(err)
	if status == 0 {
		return true
	}
	return status == http.StatusTooManyRequests || status >= 500
}

// truncate cuts s to at most n bytes without splitting a UTF-8 rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
