package sqlgen

import "regexp"

var readOnlyShape = regexp.MustCompile(`(?is)^\s*(SELECT|WITH)\s+.+\s+FROM\s+.+`)

// Validate is the last gate before execution: the statement must start
// with SELECT or WITH and carry a FROM clause, and must not contain any
// denylisted keyword. The denylist is re-checked here even though the
// rewriter already applied it; the two stages must not assume each
// other succeeded. Any panic during checking counts as a failed
// validation rather than propagating.
func Validate(statement string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	if !readOnlyShape.MatchString(statement) {
		return false
	}
	if containsForbiddenKeyword(statement) {
		return false
	}
	return true
}
