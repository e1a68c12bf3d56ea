// Package assets embeds the HTML templates served by the gateway.
package assets

import "embed"

// FS holds the bootstrap, callback and error page templates. Template
// tokens use the {{NAME}} form and are substituted textually at render
// time.
//
//go:embed *.html
var FS embed.FS
