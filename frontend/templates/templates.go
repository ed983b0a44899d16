// Package templates embeds the dashboard's HTML templates.
package templates

import "embed"

// Base is the layout every page is rendered into.
const Base = "base.html"

//go:embed *.html
var FS embed.FS
