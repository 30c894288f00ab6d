// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package category resolves the shop's category taxonomy for products and
// keeps a cached snapshot of it. The taxonomy comes from an untrusted
// upstream, so every traversal here tolerates cycles and dangling parents.
package category

import "flyerpress/internal/models"

// Graph is an id-indexed view over one category snapshot. It is never
// mutated after construction and is safe for concurrent readers.
type Graph struct {
	nodes map[int]models.Category
}

// NewGraph indexes categories by id. Records without an id are skipped and
// a duplicate id replaces the earlier record.
func NewGraph(categories []models.Category) *Graph {
	nodes := make(map[int]models.Category, len(categories))
	for _, c := range categories {
		if c.ID == 0 {
			continue
		}
		nodes[c.ID] = c
	}
	return &Graph{nodes: nodes}
}

// Len returns the number of indexed categories.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.nodes)
}

// Lookup returns the category with the given id.
func (g *Graph) Lookup(id int) (models.Category, bool) {
	if g == nil || id == 0 {
		return models.Category{}, false
	}
	c, ok := g.nodes[id]
	return c, ok
}

// AncestorChain returns the chain from the topmost resolvable ancestor down
// to id itself. The walk stops at a root, at a parent missing from the
// graph, or when a parent was already visited. An unknown id yields an
// empty chain.
func (g *Graph) AncestorChain(id int) []models.Category {
	walked := g.walk(id)
	chain := make([]models.Category, len(walked))
	for i, c := range walked {
		chain[len(walked)-1-i] = c
	}
	return chain
}

// Depth returns the number of parent hops from id to its topmost
// resolvable ancestor, using the same stopping rule as AncestorChain.
// It returns -1 when id is not in the graph.
func (g *Graph) Depth(id int) int {
	return len(g.walk(id)) - 1
}

// walk collects categories leaf first, starting at id.
func (g *Graph) walk(id int) []models.Category {
	var out []models.Category
	visited := make(map[int]struct{})
	for id != 0 {
		if _, seen := visited[id]; seen {
			break
		}
		visited[id] = struct{}{}

		c, ok := g.Lookup(id)
		if !ok {
			break
		}
		out = append(out, c)
		if c.IsRoot() {
			break
		}
		id = c.Parent
	}
	return out
}
