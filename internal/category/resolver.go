// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"strings"

	"flyerpress/internal/models"
)

const (
	// PathSeparator joins hierarchy names in Info.Path.
	PathSeparator = " / "

	// LabelSeparator joins the first two hierarchy levels in Info.Label.
	LabelSeparator = " > "
)

// Info is the display-ready category description of one product.
type Info struct {
	Path          string            `json:"path"`
	RootName      string            `json:"rootName"`
	FullHierarchy []models.Category `json:"fullHierarchy"`
	Label         string            `json:"label"`
}

// Resolve picks the most specific of the assigned categories and describes
// it. The deepest category found in the graph wins; on equal depth the one
// listed first wins. When none of the ids are in the graph, fallback (the
// product's first assigned category) is used by name only.
//
// Resolve never modifies g or its arguments.
func Resolve(assigned []int, g *Graph, fallback models.Category) Info {
	if len(assigned) == 0 {
		return Info{FullHierarchy: []models.Category{}}
	}

	winner, maxDepth := 0, -1
	for _, id := range assigned {
		d := g.Depth(id)
		if d < 0 {
			continue
		}
		if d > maxDepth {
			winner, maxDepth = id, d
		}
	}

	if maxDepth < 0 {
		first := models.Category{ID: fallback.ID, Name: fallback.Name}
		return Info{
			Path:          first.Name,
			RootName:      first.Name,
			FullHierarchy: []models.Category{first},
			Label:         first.Name,
		}
	}

	return describe(g.AncestorChain(winner))
}

// describe builds an Info from a root-to-leaf chain.
func describe(chain []models.Category) Info {
	names := make([]string, len(chain))
	for i, c := range chain {
		names[i] = c.Name
	}

	info := Info{
		Path:          strings.Join(names, PathSeparator),
		FullHierarchy: chain,
	}
	if len(names) > 0 {
		info.RootName = names[0]
	}
	info.Label = info.RootName
	if len(names) >= 2 {
		info.Label = names[0] + LabelSeparator + names[1]
	}
	return info
}
