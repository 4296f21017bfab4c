package sqlgen

import (
	"regexp"
	"strings"
)

var (
	fenceMarkers     = regexp.MustCompile("(?i)```(?:sql|sqlite|tsql)?")
	boilerplateLabel = regexp.MustCompile(`(?i)(SQL Query:|Generated SQL:)`)
	statementStart   = regexp.MustCompile(`(?is)(SELECT|WITH)\s+.*`)
	dialectPrefix    = regexp.MustCompile(`(?i)^sqlite\s+`)
)

// Sanitize normalizes raw model output into a bare statement candidate.
// It strips markdown fencing, boilerplate labels, a stray leading
// dialect token and trailing semicolons, and discards everything before
// the first SELECT or WITH keyword. When no such keyword exists the
// trimmed text is returned unchanged so the validator rejects it
// downstream; nothing here decides whether the statement is safe.
func Sanitize(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	text = fenceMarkers.ReplaceAllString(text, "")
	text = boilerplateLabel.ReplaceAllString(text, "")

	if match := statementStart.FindString(text); match != "" {
		text = match
	} else {
		text = strings.TrimSpace(text)
	}

	text = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(text), ";"))
	text = strings.TrimSpace(dialectPrefix.ReplaceAllString(text, ""))
	return text
}
