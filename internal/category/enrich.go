// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import "flyerpress/internal/models"

// Enrich returns a copy of p carrying the category path, root, hierarchy
// and label resolved against all. Products without assigned categories are
// returned unchanged.
func Enrich(p models.Product, all []models.Category) models.Product {
	return EnrichWithGraph(p, NewGraph(all))
}

// EnrichWithGraph is Enrich for callers that already built the graph.
func EnrichWithGraph(p models.Product, g *Graph) models.Product {
	if len(p.Categories) == 0 {
		return p
	}

	info := Resolve(p.CategoryIDs(), g, p.Categories[0])
	p.CategoryPath = info.Path
	p.CategoryRoot = info.RootName
	p.CategoryHierarchy = info.FullHierarchy
	p.CategoryLabel = info.Label
	return p
}

// EnrichAll enriches every product against one graph built from all. The
// input slice is left untouched.
func EnrichAll(products []models.Product, all []models.Category) []models.Product {
	g := NewGraph(all)
	out := make([]models.Product, len(products))
	for i, p := range products {
		out[i] = EnrichWithGraph(p, g)
	}
	return out
}
