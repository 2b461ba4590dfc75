// Package web embeds the console's templates, static assets and menu.
package web

import "embed"

// Templates embeds HTML templates.
//
//go:embed templates
var Templates embed.FS

// Static embeds static assets.
//
//go:embed static
var Static embed.FS

// Menu is the navigation definition rendered in the sidebar.
//
//go:embed menu.yaml
var Menu []byte
