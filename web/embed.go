// Package web embeds the browser UI served by the API binary.
package web

import "embed"

// Static embeds the map UI assets.
//
//go:embed static
var Static embed.FS
