// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements PostgreSQL persistence for promotions and for
// the category snapshot.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"flyerpress/internal/models"
)

// ErrNotFound is returned by mutations that target a missing row.
var ErrNotFound = errors.New("not found")

// PromotionStore manages promotions in the database.
type PromotionStore struct {
	db *sql.DB
}

// NewPromotionStore returns a new PromotionStore.
func NewPromotionStore(db *sql.DB) *PromotionStore {
	return &PromotionStore{db: db}
}

const promotionColumns = `id, custom_price, discount_price, start_date, end_date, product, created_at, updated_at`

// scanPromotion scans a row into a Promotion, decoding the product snapshot.
func scanPromotion(scanner interface{ Scan(...any) error }) (*models.Promotion, error) {
	var p models.Promotion
	var product []byte
	err := scanner.Scan(
		&p.ID, &p.CustomPrice, &p.DiscountPrice, &p.StartDate, &p.EndDate,
		&product, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(product, &p.Product); err != nil {
		return nil, fmt.Errorf("decode product of promotion %s: %w", p.ID, err)
	}
	return &p, nil
}

// List returns all promotions, newest first.
func (s *PromotionStore) List(ctx context.Context) ([]models.Promotion, error) {
	return s.query(ctx, `SELECT `+promotionColumns+` FROM promotions ORDER BY created_at DESC`)
}

// ListActiveAt returns promotions whose validity window contains t,
// newest first.
func (s *PromotionStore) ListActiveAt(ctx context.Context, t time.Time) ([]models.Promotion, error) {
	return s.query(ctx, `
		SELECT `+promotionColumns+` FROM promotions
		WHERE start_date <= $1 AND end_date >= $1
		ORDER BY created_at DESC`, t)
}

// ListOverlapping returns promotions valid at any moment of [from, to],
// newest first.
func (s *PromotionStore) ListOverlapping(ctx context.Context, from, to time.Time) ([]models.Promotion, error) {
	return s.query(ctx, `
		SELECT `+promotionColumns+` FROM promotions
		WHERE start_date <= $2 AND end_date >= $1
		ORDER BY created_at DESC`, from, to)
}

func (s *PromotionStore) query(ctx context.Context, q string, args ...any) ([]models.Promotion, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	items := []models.Promotion{}
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a promotion by ID. Returns nil if not found.
func (s *PromotionStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id)
	p, err := scanPromotion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find promotion by id: %w", err)
	}
	return p, nil
}

// Create inserts a promotion and returns the stored row. The editor
// assigns ids on the client; a zero ID gets a fresh one.
func (s *PromotionStore) Create(ctx context.Context, p *models.Promotion) (*models.Promotion, error) {
	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	product, err := json.Marshal(p.Product)
	if err != nil {
		return nil, fmt.Errorf("encode product: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO promotions (id, custom_price, discount_price, start_date, end_date, product)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+promotionColumns,
		id, p.CustomPrice, p.DiscountPrice, p.StartDate, p.EndDate, product,
	)
	created, err := scanPromotion(row)
	if err != nil {
		return nil, fmt.Errorf("create promotion: %w", err)
	}
	return created, nil
}

// Update replaces the editable fields of an existing promotion and returns
// the stored row. Returns ErrNotFound if the id does not exist.
func (s *PromotionStore) Update(ctx context.Context, p *models.Promotion) (*models.Promotion, error) {
	product, err := json.Marshal(p.Product)
	if err != nil {
		return nil, fmt.Errorf("encode product: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE promotions SET
			custom_price = $1, discount_price = $2, start_date = $3, end_date = $4,
			product = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+promotionColumns,
		p.CustomPrice, p.DiscountPrice, p.StartDate, p.EndDate, product, p.ID,
	)
	updated, err := scanPromotion(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update promotion: %w", err)
	}
	return updated, nil
}

// Delete removes a promotion by ID. Returns ErrNotFound if nothing was
// deleted.
func (s *PromotionStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete promotion rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
