// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package flyer turns promotions into the view model of the printable
// weekly flyer: ordered sections, price badges and validity lines.
package flyer

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"flyerpress/internal/models"
	"flyerpress/internal/slug"
)

const (
	// Title is the flyer's headline.
	Title = "Offerte"

	// GenericWeekTitle replaces the date range when no valid week is given.
	GenericWeekTitle = "Della Settimana"

	// OtherSection holds products whose category root is unknown.
	OtherSection = "Altri prodotti"

	// PlaceholderImage is shown for products without images.
	PlaceholderImage = "https://placehold.co/300x300?text=No+Image"

	dateLayout = "02/01/2006"
	qrSize     = 128
)

// Branding is the store identity printed on the flyer. Location is the
// store's time zone: weeks and validity dates are read in it. A nil
// Location means UTC.
type Branding struct {
	StoreName string
	LogoURL   string
	Footer    string
	Location  *time.Location
}

func (b Branding) location() *time.Location {
	if b.Location == nil {
		return time.UTC
	}
	return b.Location
}

// Item is one promotion as printed.
type Item struct {
	ID              string
	Name            string
	SKU             string
	Image           string
	CategoryPath    string
	CategoryLabel   string
	DiscountPercent int
	Euros           string
	Cents           string
	CustomPrice     string
	UnitOfMeasure   string
	Validity        string
	Permalink       string
	QRCode          string // PNG data URI, empty without a permalink
}

// Section groups the items of one root category.
type Section struct {
	Title  string
	Anchor string
	Items  []Item
}

// Flyer is the complete view model handed to the renderer.
type Flyer struct {
	Title     string
	Week      string
	DateRange string
	Branding  Branding
	Sections  []Section
	ItemCount int
}

// Build orders promotions by category path then product name, groups them
// by root category and computes the printed prices. Products are expected
// to be enriched already; the input slice is not modified.
func Build(promotions []models.Promotion, week string, branding Branding) *Flyer {
	sorted := make([]models.Promotion, len(promotions))
	copy(sorted, promotions)
	sortPromotions(sorted)

	f := &Flyer{
		Title:     Title,
		Week:      week,
		DateRange: dateRange(week, branding.location()),
		Branding:  branding,
		ItemCount: len(sorted),
	}

	index := make(map[string]int)
	var others []Item
	for i := range sorted {
		item := buildItem(&sorted[i], branding.location())
		root := sorted[i].Product.CategoryRoot
		if root == "" {
			others = append(others, item)
			continue
		}
		pos, ok := index[root]
		if !ok {
			pos = len(f.Sections)
			index[root] = pos
			f.Sections = append(f.Sections, Section{Title: root, Anchor: slug.Generate(root)})
		}
		f.Sections[pos].Items = append(f.Sections[pos].Items, item)
	}
	if len(others) > 0 {
		f.Sections = append(f.Sections, Section{
			Title:  OtherSection,
			Anchor: slug.Generate(OtherSection),
			Items:  others,
		})
	}
	return f
}

// sortPromotions sorts in place with Italian collation.
func sortPromotions(ps []models.Promotion) {
	col := collate.New(language.Italian)
	slices.SortStableFunc(ps, func(a, b models.Promotion) int {
		if c := col.CompareString(a.Product.CategoryPath, b.Product.CategoryPath); c != 0 {
			return c
		}
		return col.CompareString(a.Product.Name, b.Product.Name)
	})
}

func buildItem(p *models.Promotion, loc *time.Location) Item {
	euros, cents := SplitPrice(p.DiscountPrice)

	image := p.Product.FirstImage()
	if image == "" {
		image = PlaceholderImage
	}

	item := Item{
		ID:              p.ID.String(),
		Name:            p.Product.Name,
		SKU:             p.Product.SKU,
		Image:           image,
		CategoryPath:    p.Product.CategoryPath,
		CategoryLabel:   p.Product.CategoryLabel,
		DiscountPercent: p.DiscountPercent(),
		Euros:           euros,
		Cents:           cents,
		CustomPrice:     formatPrice(p.CustomPrice),
		UnitOfMeasure:   p.Product.Attribute(models.UnitOfMeasureAttribute),
		Validity: fmt.Sprintf("Valido dal %s al %s",
			p.StartDate.In(loc).Format(dateLayout), p.EndDate.In(loc).Format(dateLayout)),
		Permalink: p.Product.Permalink,
	}
	if item.Permalink != "" {
		item.QRCode = qrDataURI(item.Permalink)
	}
	return item
}

// SplitPrice splits a decimal price into its euro and cent parts. Cents
// are padded to two digits and default to "00".
func SplitPrice(price string) (euros, cents string) {
	price = strings.TrimSpace(strings.ReplaceAll(price, ",", "."))
	euros, cents, _ = strings.Cut(price, ".")
	if euros == "" {
		euros = "0"
	}
	switch {
	case cents == "":
		cents = "00"
	case len(cents) == 1:
		cents += "0"
	case len(cents) > 2:
		cents = cents[:2]
	}
	return euros, cents
}

// formatPrice renders a price with two decimals, or returns it unchanged
// when it does not parse.
func formatPrice(price string) string {
	v, err := models.ParsePrice(price)
	if err != nil {
		return price
	}
	return fmt.Sprintf("%.2f", v)
}

func qrDataURI(content string) string {
	png, err := qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		slog.Warn("qr code generation failed", "content", content, "error", err)
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
