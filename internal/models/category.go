// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures shared by the catalog client,
// the stores, and the HTTP layer.
package models

// Category is a single node of the shop's category taxonomy as returned by
// the WooCommerce REST API. A Parent of 0 marks a root category.
type Category struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug,omitempty"`
	Parent int    `json:"parent"`
	Count  int    `json:"count,omitempty"`
}

// IsRoot returns true if the category has no parent.
func (c Category) IsRoot() bool {
	return c.Parent == 0
}
