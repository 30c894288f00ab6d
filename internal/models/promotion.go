// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Promotion attaches a promotional price and a validity window to a
// snapshot of a catalog product. Prices are kept as decimal strings, the
// way the shop and the editor exchange them.
type Promotion struct {
	ID            uuid.UUID `json:"id"`
	CustomPrice   string    `json:"customPrice"`
	DiscountPrice string    `json:"discountPrice"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	Product       Product   `json:"product"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DiscountPercent returns the rounded discount of DiscountPrice relative to
// CustomPrice. It returns 0 when either price is unparsable or the base
// price is not positive.
func (p *Promotion) DiscountPercent() int {
	base, err := ParsePrice(p.CustomPrice)
	if err != nil || base <= 0 {
		return 0
	}
	promo, err := ParsePrice(p.DiscountPrice)
	if err != nil {
		return 0
	}
	return int(math.Round((base - promo) / base * 100))
}

// ParsePrice parses a decimal price string, accepting "2,40" as well as "2.40".
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	return strconv.ParseFloat(s, 64)
}
