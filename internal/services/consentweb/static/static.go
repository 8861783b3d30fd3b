package static

import "embed"

// FS exposes the banner stylesheet and the client renderer.
//
//go:embed *.css *.js
var FS embed.FS
