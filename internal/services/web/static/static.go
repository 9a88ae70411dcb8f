package static

import "embed"

// FS exposes proposal site assets for HTTP serving.
//
//go:embed *.css
var FS embed.FS
