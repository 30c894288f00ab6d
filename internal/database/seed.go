package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"flyerpress/internal/catalog"
)

// Seed populates the database with development data. When no promotions
// exist it creates one promotion per built-in sample product, valid for the
// current ISO week, so the flyer has something to show.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM promotions").Scan(&count); err != nil {
		return fmt.Errorf("seed check promotions: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	start := weekStart(time.Now())
	end := start.AddDate(0, 0, 7).Add(-time.Second)

	products := catalog.SampleProducts("")
	for _, p := range products {
		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("seed marshal product %d: %w", p.ID, err)
		}
		_, err = db.Exec(`
			INSERT INTO promotions (id, custom_price, discount_price, start_date, end_date, product)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.New(), p.RegularPrice, discounted(p.RegularPrice), start, end, payload)
		if err != nil {
			return fmt.Errorf("seed insert promotion: %w", err)
		}
	}

	slog.Info("database seeded with sample promotions", "count", len(products))
	return nil
}

// weekStart returns midnight of the Monday of t's ISO week.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// discounted applies a flat 20% discount to a decimal price string.
func discounted(price string) string {
	var v float64
	if _, err := fmt.Sscanf(price, "%f", &v); err != nil {
		return price
	}
	return fmt.Sprintf("%.2f", v*0.8)
}
