package repositories

import "strings"

// orderClause translates the sort contract (field name, '-' prefix for
// descending) into a SQL ORDER BY clause. Unknown fields fall back to the
// default so user input never reaches the query verbatim.
func orderClause(sort, defaultClause string, allowed map[string]string) string {
	if sort == "" {
		return defaultClause
	}

	desc := strings.HasPrefix(sort, "-")
	field := strings.TrimPrefix(sort, "-")

	column, ok := allowed[field]
	if !ok {
		return defaultClause
	}

	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}
