package categories

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Any Unicode space separator counts, NBSP included.
	whitespaceRun = regexp.MustCompile(`[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)
	notSlugChar   = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slugify derives a URL slug from a category name: lowercase, diacritics
// stripped, whitespace runs turned into one hyphen, anything outside
// [a-z0-9-] removed.
func Slugify(name string) string {
	lowered := strings.ToLower(name)
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(stripMarks, lowered); err == nil {
		lowered = stripped
	}
	return notSlugChar.ReplaceAllString(whitespaceRun.ReplaceAllString(lowered, "-"), "")
}
