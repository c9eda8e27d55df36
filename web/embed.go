// Package web carries the admin console's pages and assets inside the binary.
package web

import "embed"

// Templates holds layouts, partials and pages, parsed once at startup.
//
//go:embed templates/layouts/*.html templates/partials/*.html templates/pages/*.html
var Templates embed.FS

// Static holds the stylesheet and the progressive-enhancement script.
//
//go:embed static/css/*.css static/js/*.js
var Static embed.FS
