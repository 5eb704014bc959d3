// Package htmlsanitize strips markup from user-entered free text.
//
// Application reasons, club descriptions, and agenda descriptions are plain
// text as far as UKMHub is concerned; anything that looks like HTML is
// removed before storage.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all HTML elements and attributes from s and trims the result.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
