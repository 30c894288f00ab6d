// Package web provides embedded static assets for the flyer. The stylesheet
// is inlined into rendered flyers and also served at /static/ for previews.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS

// FlyerCSS is the path of the flyer stylesheet inside StaticFS.
const FlyerCSS = "static/flyer.css"
