package sqlgen

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnsafeStatement marks a candidate containing a mutating keyword.
// Callers must never execute a statement rejected with it.
var ErrUnsafeStatement = errors.New("unsafe statement")

// forbiddenKeywords is the denylist shared by the rewriter and the
// validator. Matching is a case-insensitive substring check.
var forbiddenKeywords = []string{"delete", "update", "insert", "drop", "alter"}

func containsForbiddenKeyword(statement string) bool {
	lowered := strings.ToLower(statement)
	for _, keyword := range forbiddenKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

var (
	selectKeyword  = regexp.MustCompile(`(?i)^select\s+`)
	distinctPrefix = regexp.MustCompile(`(?i)^select\s+distinct\s+`)
	existingCap    = regexp.MustCompile(`(?i)^select\s+(distinct\s+)?top\s+\d+`)
)

// Rewriter injects the configured row cap into uncapped SELECT
// statements. It re-applies the denylist first so an unsafe statement
// short-circuits before any rewriting happens.
type Rewriter struct {
	RowCap int
}

// Rewrite returns the capped statement or ErrUnsafeStatement. It is
// idempotent: a statement that already declares a cap passes through
// unchanged.
func (r Rewriter) Rewrite(statement string) (string, error) {
	text := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(statement), ";"))
	if containsForbiddenKeyword(text) {
		return "", ErrUnsafeStatement
	}

	if selectKeyword.MatchString(text) && !existingCap.MatchString(text) {
		capClause := fmt.Sprintf("TOP %d ", r.RowCap)
		// T-SQL requires DISTINCT before TOP.
		if distinctPrefix.MatchString(text) {
			text = distinctPrefix.ReplaceAllString(text, "SELECT DISTINCT "+capClause)
		} else {
			text = selectKeyword.ReplaceAllString(text, "SELECT "+capClause)
		}
	}
	return text, nil
}
