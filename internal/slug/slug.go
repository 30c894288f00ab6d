// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from category and
// product names, used for flyer section anchors and storage keys.
package slug

import (
	"strings"

	gslug "github.com/gosimple/slug"
)

// Language drives the symbol substitutions ("&" becomes "e").
const Language = "it"

// Generate creates a URL-friendly slug from the given string. Accented
// letters are transliterated.
// Example: "Caffè & Tè 2026" → "caffe-e-te-2026"
func Generate(s string) string {
	return gslug.MakeLang(strings.TrimSpace(s), Language)
}

// Join slugs each part and joins the non-empty results with "/", for
// building object storage keys.
func Join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := Generate(p); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}
