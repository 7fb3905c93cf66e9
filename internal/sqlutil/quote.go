// Package sqlutil provides SQL identifier utilities shared across dialects.
package sqlutil

import (
	"regexp"
	"strings"
)

// QuoteBacktick quotes an identifier with backticks (MySQL style).
// Existing backticks are escaped by doubling them.
// Example: "my_table" -> "`my_table`"
func QuoteBacktick(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoteAnsi quotes an identifier with double quotes (ANSI style, used by
// Postgres, SQLite, DuckDB, Snowflake and most analytical engines).
func QuoteAnsi(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteBracket quotes an identifier with square brackets (SQL Server style).
func QuoteBracket(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// validIdentifierRegex matches valid SQL identifier characters.
// For safety, we restrict to alphanumeric and underscore only.
var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// IsValidIdentifier checks if a name is a safe SQL identifier.
// It validates that the name only contains alphanumeric characters and
// underscores. This is a defense-in-depth measure against SQL injection
// for identifiers coming from metadata sources.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}
