// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the printable flyer.
// Templates are embedded in the binary; the flyer stylesheet is inlined so
// a published flyer is a single self-contained file.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"flyerpress/internal/flyer"
	"flyerpress/internal/markdown"
	"flyerpress/web"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer handles template parsing and execution.
type Renderer struct {
	flyer *template.Template
}

// New creates a Renderer by parsing the embedded templates.
func New() (*Renderer, error) {
	css, err := web.StaticFS.ReadFile(web.FlyerCSS)
	if err != nil {
		return nil, fmt.Errorf("read flyer stylesheet: %w", err)
	}

	funcMap := template.FuncMap{
		// styles inlines the embedded stylesheet.
		"styles": func() template.CSS {
			return template.CSS(css)
		},
		// dataURI marks a generated image data URI as safe for src
		// attributes; html/template rejects data: URLs otherwise.
		"dataURI": func(s string) template.URL {
			if !strings.HasPrefix(s, "data:image/png;base64,") {
				return ""
			}
			return template.URL(s)
		},
		// markdown renders operator-written branding text.
		"markdown": func(s string) template.HTML {
			out, err := markdown.ToHTML(s)
			if err != nil {
				return template.HTML(template.HTMLEscapeString(s))
			}
			return template.HTML(out)
		},
	}

	tmpl, err := template.New("flyer.html").Funcs(funcMap).ParseFS(templateFS, "templates/flyer.html")
	if err != nil {
		return nil, fmt.Errorf("parse template flyer.html: %w", err)
	}
	return &Renderer{flyer: tmpl}, nil
}

// Flyer writes the flyer page to w.
func (rn *Renderer) Flyer(w io.Writer, f *flyer.Flyer) error {
	if err := rn.flyer.ExecuteTemplate(w, "flyer.html", f); err != nil {
		return fmt.Errorf("execute flyer template: %w", err)
	}
	return nil
}

// FlyerHTML renders the flyer into memory, for caching and publishing.
func (rn *Renderer) FlyerHTML(f *flyer.Flyer) ([]byte, error) {
	var buf bytes.Buffer
	if err := rn.Flyer(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteHTML sends pre-rendered HTML as a successful response.
func WriteHTML(w http.ResponseWriter, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}
