package app

import (
	"log"
	"mime"
)

// Static assets and previews rely on these; minimal containers ship without
// /etc/mime.types.
var assetTypes = map[string]string{
	".css":  "text/css; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
}

func init() {
	for ext, typ := range assetTypes {
		if mime.TypeByExtension(ext) != "" {
			continue
		}
		if err := mime.AddExtensionType(ext, typ); err != nil {
			log.Printf("app: register MIME type for %s: %v", ext, err)
		}
	}
}
