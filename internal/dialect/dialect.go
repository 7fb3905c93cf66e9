// Package dialect maps logical metric functions onto engine-specific SQL.
//
// Every function keeps its own override table keyed by dialect with a
// default entry, so engine-specific knowledge stays local to the function
// that needs it.
package dialect

import (
	"github.com/dbsmedya/goprofile/internal/sqlutil"
)

// Dialect identifies the SQL variant a connection speaks.
type Dialect string

// Supported dialect identifiers.
const (
	MySQL      Dialect = "mysql"
	Postgres   Dialect = "postgres"
	SQLite     Dialect = "sqlite"
	MSSQL      Dialect = "mssql"
	DuckDB     Dialect = "duckdb"
	Snowflake  Dialect = "snowflake"
	BigQuery   Dialect = "bigquery"
	ClickHouse Dialect = "clickhouse"
	Trino      Dialect = "trino"
	Redshift   Dialect = "redshift"
)

// All lists every dialect the registry knows about.
func All() []Dialect {
	return []Dialect{
		MySQL, Postgres, SQLite, MSSQL, DuckDB,
		Snowflake, BigQuery, ClickHouse, Trino, Redshift,
	}
}

// Parse returns the dialect for a string identifier.
func Parse(s string) (Dialect, bool) {
	for _, d := range All() {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// DriverName returns the database/sql driver name for dialects we can
// connect to directly. Dialects without a bundled driver (warehouse
// engines reached through an external connection builder) return false.
func (d Dialect) DriverName() (string, bool) {
	switch d {
	case MySQL:
		return "mysql", true
	case Postgres, Redshift:
		return "postgres", true
	case SQLite:
		return "sqlite", true
	case MSSQL:
		return "sqlserver", true
	case DuckDB:
		return "duckdb", true
	default:
		return "", false
	}
}

// Quote quotes an identifier in this dialect's style.
func (d Dialect) Quote(name string) string {
	switch d {
	case MySQL, BigQuery:
		return sqlutil.QuoteBacktick(name)
	case MSSQL:
		return sqlutil.QuoteBracket(name)
	default:
		return sqlutil.QuoteAnsi(name)
	}
}
