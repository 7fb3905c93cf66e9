package dialect

import "fmt"

// Percentile compiles a percentile expression for col read from the given
// FROM fragment. There is no universal percentile syntax, so the strategy
// is picked per dialect at compile time:
//
//   - percentile_cont(...) WITHIN GROUP for engines with the ordered-set
//     aggregate (default).
//   - approximate-percentile builtins on distributed engines.
//   - analytic OVER() forms where the engine only exposes percentile_cont
//     as a window function.
//   - hand-built ranked subqueries on engines with none of the above.
//
// The second return reports applicability and is false only for dialects
// the registry does not know a strategy for.
func Percentile(d Dialect, col, from string, pct float64) (string, bool) {
	switch d {
	case Trino:
		return fmt.Sprintf("approx_percentile(%s, %.2f)", col, pct), true
	case ClickHouse:
		q := fmt.Sprintf("quantile(%.2f)(%s)", pct, col)
		return fmt.Sprintf("if(isNaN(%s), null, %s)", q, q), true
	case DuckDB:
		return fmt.Sprintf("approx_quantile(%s, %.2f)", col, pct), true
	case BigQuery:
		return fmt.Sprintf("percentile_cont(%s, %.2f) OVER()", col, pct), true
	case MSSQL:
		return fmt.Sprintf("percentile_cont(%.2f) WITHIN GROUP (ORDER BY %s ASC) OVER()", pct, col), true
	case MySQL:
		return fmt.Sprintf(
			"(SELECT %[1]s FROM (SELECT %[1]s, ROW_NUMBER() OVER (ORDER BY %[1]s) AS row_num, "+
				"COUNT(*) OVER () AS total FROM %[2]s WHERE %[1]s IS NOT NULL) ranked "+
				"WHERE row_num = GREATEST(1, ROUND(%.2[3]f * total)))",
			col, from, pct,
		), true
	case SQLite:
		return fmt.Sprintf(
			"(SELECT %[1]s FROM %[2]s WHERE %[1]s IS NOT NULL ORDER BY %[1]s "+
				"LIMIT 1 OFFSET (SELECT MAX(CAST(ROUND(COUNT(*) * %.2[3]f) AS INTEGER) - 1, 0) "+
				"FROM %[2]s WHERE %[1]s IS NOT NULL))",
			col, from, pct,
		), true
	case Postgres, Redshift, Snowflake:
		return fmt.Sprintf("percentile_cont(%.2f) WITHIN GROUP (ORDER BY %s ASC)", pct, col), true
	default:
		return "", false
	}
}
