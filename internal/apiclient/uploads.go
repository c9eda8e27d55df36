package apiclient

import "strings"

// UploadsURL resolves an image reference stored by the API. Relative paths
// are joined to base, absolute URLs pass through, and empty input yields "".
func UploadsURL(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
