// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// UnitOfMeasureAttribute is the product attribute the shop uses to express
// the unit a price refers to ("kg", "pz", ...).
const UnitOfMeasureAttribute = "Unità di misura"

// ProductImage is one entry of a product's image gallery.
type ProductImage struct {
	ID  int    `json:"id,omitempty"`
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// ProductAttribute is a named attribute with its selectable options.
type ProductAttribute struct {
	ID      int      `json:"id,omitempty"`
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// Product is a catalog product. The Category* fields are not part of the
// upstream payload; they are filled in by category enrichment.
type Product struct {
	ID           int                `json:"id"`
	Name         string             `json:"name"`
	SKU          string             `json:"sku"`
	Permalink    string             `json:"permalink,omitempty"`
	Price        string             `json:"price"`
	RegularPrice string             `json:"regular_price"`
	SalePrice    string             `json:"sale_price"`
	Description  string             `json:"description,omitempty"`
	Images       []ProductImage     `json:"images"`
	Categories   []Category         `json:"categories"`
	Attributes   []ProductAttribute `json:"attributes"`

	// Virtual fields populated by category enrichment.
	CategoryPath      string     `json:"categoryPath,omitempty"`
	CategoryRoot      string     `json:"categoryRoot,omitempty"`
	CategoryHierarchy []Category `json:"categoryHierarchy,omitempty"`
	CategoryLabel     string     `json:"categoryLabel,omitempty"`
}

// CategoryIDs returns the ids of the categories assigned to the product,
// in the order the upstream listed them.
func (p *Product) CategoryIDs() []int {
	ids := make([]int, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// FirstImage returns the source URL of the first gallery image, or an
// empty string if the product has none.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].Src
}

// Attribute returns the first option of the named attribute, or an empty
// string when the attribute is missing or has no options.
func (p *Product) Attribute(name string) string {
	for _, a := range p.Attributes {
		if a.Name == name && len(a.Options) > 0 {
			return a.Options[0]
		}
	}
	return ""
}
