// ABOUTME: Text helpers for values lifted out of scraped HTML
// ABOUTME: Normalizes the whitespace left behind by indented markup

package html

import (
	"strings"
)

// CleanText collapses runs of whitespace (including newlines, tabs and
// non-breaking spaces from indented markup) into single spaces and trims the
// ends. Input is DOM text, so entities are already decoded and are left alone.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
