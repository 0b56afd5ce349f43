package reconcile

import (
	"regexp"
	"strings"
)

var slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// slugify mirrors the platform's own team-name-to-slug transform
// closely enough for team lookup by name: lowercase, collapse
// whitespace/punctuation runs to a single hyphen, trim leading and
// trailing hyphens.
func slugify(name string) string {
	s := strings.ToLower(name)
	s = slugNonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
