// Package htmlsanitize strips HTML from admin-entered text fields.
//
// Group and organization names and descriptions are rendered back into the
// admin console, so anything that looks like markup is removed at the write
// boundary rather than escaped at every read site.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Sanitize removes all HTML elements and attributes from s and trims
// surrounding whitespace. Plain text passes through unchanged.
func Sanitize(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
