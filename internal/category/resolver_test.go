// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"flyerpress/internal/models"
)

func TestResolve_Empty(t *testing.T) {
	g := NewGraph([]models.Category{cat(1, "A", 0)})

	info := Resolve(nil, g, cat(1, "A", 0))

	assert.Equal(t, "", info.Path)
	assert.Equal(t, "", info.RootName)
	assert.Equal(t, "", info.Label)
	assert.NotNil(t, info.FullHierarchy)
	assert.Empty(t, info.FullHierarchy)
}

func TestResolve_DeepestWins(t *testing.T) {
	g := NewGraph([]models.Category{
		cat(1, "A", 0),
		cat(2, "B", 1),
		cat(3, "C", 2),
	})

	info := Resolve([]int{1, 3}, g, cat(1, "A", 0))

	assert.Equal(t, "A / B / C", info.Path)
	assert.Equal(t, "A", info.RootName)
	assert.Equal(t, "A > B", info.Label)
	assert.Equal(t, []string{"A", "B", "C"}, names(info.FullHierarchy))
}

func TestResolve_SingleLevelLabelIsRoot(t *testing.T) {
	g := NewGraph([]models.Category{cat(1, "Bevande", 0)})

	info := Resolve([]int{1}, g, cat(1, "Bevande", 0))

	assert.Equal(t, "Bevande", info.Path)
	assert.Equal(t, "Bevande", info.Label)
}

func TestResolve_Fallback(t *testing.T) {
	g := NewGraph([]models.Category{cat(1, "A", 0)})
	fallback := models.Category{ID: 5, Name: "Misc", Slug: "misc", Parent: 8, Count: 3}

	info := Resolve([]int{5, 6}, g, fallback)

	assert.Equal(t, "Misc", info.Path)
	assert.Equal(t, "Misc", info.RootName)
	assert.Equal(t, "Misc", info.Label)
	assert.Equal(t, []models.Category{{ID: 5, Name: "Misc"}}, info.FullHierarchy)
}

func TestResolve_TieBreakIsInputOrder(t *testing.T) {
	forward := []models.Category{
		cat(1, "Root", 0),
		cat(10, "Left", 1),
		cat(20, "Right", 1),
		cat(2, "Left leaf", 10),
		cat(3, "Right leaf", 20),
	}
	reversed := make([]models.Category, len(forward))
	for i, c := range forward {
		reversed[len(forward)-1-i] = c
	}

	for _, cats := range [][]models.Category{forward, reversed} {
		g := NewGraph(cats)
		assert.Equal(t, "Root / Left / Left leaf", Resolve([]int{2, 3}, g, cat(2, "", 0)).Path)
		assert.Equal(t, "Root / Right / Right leaf", Resolve([]int{3, 2}, g, cat(3, "", 0)).Path)
	}
}

func TestResolve_UnknownIDsAreIgnoredWhenOneMatches(t *testing.T) {
	g := NewGraph([]models.Category{cat(1, "A", 0), cat(2, "B", 1)})

	info := Resolve([]int{99, 2}, g, cat(99, "Ghost", 0))

	assert.Equal(t, "A / B", info.Path)
}

func TestResolve_Cycles(t *testing.T) {
	g := NewGraph([]models.Category{
		cat(5, "Self", 5),
		cat(6, "X", 7),
		cat(7, "Y", 6),
	})

	self := Resolve([]int{5}, g, cat(5, "Self", 0))
	assert.Equal(t, "Self", self.Path)
	assert.Len(t, self.FullHierarchy, 1)

	mutual := Resolve([]int{6}, g, cat(6, "X", 0))
	assert.Equal(t, "Y / X", mutual.Path)
	assert.Equal(t, "Y > X", mutual.Label)
}

func TestResolve_IsDeterministic(t *testing.T) {
	g := NewGraph([]models.Category{cat(1, "A", 0), cat(2, "B", 1), cat(3, "C", 1)})

	first := Resolve([]int{3, 2}, g, cat(3, "C", 0))
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Resolve([]int{3, 2}, g, cat(3, "C", 0)))
	}
	assert.Equal(t, 3, g.Len())
}
