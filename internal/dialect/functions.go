package dialect

import "fmt"

// exprFn builds a SQL expression from already-rendered argument fragments.
type exprFn func(args ...string) string

// lookup resolves an override table, falling back to the default entry.
func lookup(overrides map[Dialect]exprFn, fallback exprFn, d Dialect) exprFn {
	if fn, ok := overrides[d]; ok {
		return fn
	}
	return fallback
}

// Random returns an expression producing a non-negative random integer.
// The result feeds Modulo to build per-row sampling labels, so it must be
// integral and wide enough that modulo by a table row count stays uniform.
var randomOverrides = map[Dialect]exprFn{
	MySQL:      func(...string) string { return "floor(rand() * 4294967296)" },
	SQLite:     func(...string) string { return "abs(random())" },
	MSSQL:      func(...string) string { return "abs(checksum(newid()))" },
	Snowflake:  func(...string) string { return "abs(random())" },
	BigQuery:   func(...string) string { return "cast(floor(rand() * 4294967296) as int64)" },
	ClickHouse: func(...string) string { return "rand()" },
	Trino:      func(...string) string { return "floor(random() * 4294967296)" },
}

func Random(d Dialect) string {
	fn := lookup(randomOverrides, func(...string) string { return "floor(random() * 4294967296)" }, d)
	return fn()
}

// Modulo returns x modulo y.
var moduloOverrides = map[Dialect]exprFn{
	Snowflake: func(a ...string) string { return fmt.Sprintf("mod(%s, %s)", a[0], a[1]) },
	BigQuery:  func(a ...string) string { return fmt.Sprintf("mod(%s, %s)", a[0], a[1]) },
	Trino:     func(a ...string) string { return fmt.Sprintf("mod(%s, %s)", a[0], a[1]) },
}

func Modulo(d Dialect, x, y string) string {
	fn := lookup(moduloOverrides, func(a ...string) string { return fmt.Sprintf("%s %% %s", a[0], a[1]) }, d)
	return fn(x, y)
}

// Length returns the string length of expr, used to reuse numeric
// aggregates on concatenable columns.
var lengthOverrides = map[Dialect]exprFn{
	MySQL: func(a ...string) string { return fmt.Sprintf("char_length(%s)", a[0]) },
	MSSQL: func(a ...string) string { return fmt.Sprintf("len(%s)", a[0]) },
}

func Length(d Dialect, expr string) string {
	fn := lookup(lengthOverrides, func(a ...string) string { return fmt.Sprintf("length(%s)", a[0]) }, d)
	return fn(expr)
}

// Avg returns the average of expr.
// MSSQL averages integer columns in integer arithmetic and overflows on
// wide tables, so the intermediate is widened to decimal. ClickHouse
// returns NaN on an empty sample, which must surface as a true null.
var avgOverrides = map[Dialect]exprFn{
	MSSQL: func(a ...string) string { return fmt.Sprintf("avg(cast(%s as decimal(38, 6)))", a[0]) },
	ClickHouse: func(a ...string) string {
		return fmt.Sprintf("if(isNaN(avg(%s)), null, avg(%s))", a[0], a[0])
	},
}

func Avg(d Dialect, expr string) string {
	fn := lookup(avgOverrides, func(a ...string) string { return fmt.Sprintf("avg(%s)", a[0]) }, d)
	return fn(expr)
}

// Sum returns the sum of expr, widened where integer accumulation overflows.
var sumOverrides = map[Dialect]exprFn{
	MSSQL:    func(a ...string) string { return fmt.Sprintf("sum(cast(%s as decimal(38, 6)))", a[0]) },
	BigQuery: func(a ...string) string { return fmt.Sprintf("sum(cast(%s as bignumeric))", a[0]) },
}

func Sum(d Dialect, expr string) string {
	fn := lookup(sumOverrides, func(a ...string) string { return fmt.Sprintf("sum(%s)", a[0]) }, d)
	return fn(expr)
}

// StdDev returns the population standard deviation of expr.
// SQLite has no stddev builtin, so the second return reports
// applicability; callers must skip silently when it is false.
var stddevOverrides = map[Dialect]exprFn{
	MSSQL: func(a ...string) string { return fmt.Sprintf("stdevp(cast(%s as decimal(38, 6)))", a[0]) },
	ClickHouse: func(a ...string) string {
		return fmt.Sprintf("if(isNaN(stddevPop(%s)), null, stddevPop(%s))", a[0], a[0])
	},
	MySQL: func(a ...string) string { return fmt.Sprintf("stddev_pop(%s)", a[0]) },
}

func StdDev(d Dialect, expr string) (string, bool) {
	if d == SQLite {
		return "", false
	}
	fn := lookup(stddevOverrides, func(a ...string) string { return fmt.Sprintf("stddev_pop(%s)", a[0]) }, d)
	return fn(expr), true
}

// TimeAgo returns an expression for "now minus interval unit(s)" used by
// time-window partition filters. Interval arithmetic has no portable
// spelling, so each engine family gets its own form.
var timeAgoOverrides = map[Dialect]exprFn{
	MySQL: func(a ...string) string { return fmt.Sprintf("now() - interval %s %s", a[0], a[1]) },
	SQLite: func(a ...string) string {
		return fmt.Sprintf("datetime('now', '-%s %s')", a[0], a[1])
	},
	MSSQL: func(a ...string) string { return fmt.Sprintf("dateadd(%s, -%s, getdate())", a[1], a[0]) },
	Snowflake: func(a ...string) string {
		return fmt.Sprintf("dateadd(%s, -%s, current_timestamp)", a[1], a[0])
	},
	BigQuery: func(a ...string) string {
		return fmt.Sprintf("timestamp_sub(current_timestamp(), interval %s %s)", a[0], a[1])
	},
	ClickHouse: func(a ...string) string { return fmt.Sprintf("now() - interval %s %s", a[0], a[1]) },
}

func TimeAgo(d Dialect, interval int, unit string) string {
	fn := lookup(timeAgoOverrides, func(a ...string) string {
		return fmt.Sprintf("now() - interval '%s %s'", a[0], a[1])
	}, d)
	return fn(fmt.Sprintf("%d", interval), unit)
}

// Limit returns the two halves of a row cap: a select-list modifier
// ("TOP n " on MSSQL) and a statement suffix (" LIMIT n" elsewhere).
// Exactly one of the two is non-empty.
func Limit(d Dialect, n int64) (modifier, suffix string) {
	if d == MSSQL {
		return fmt.Sprintf("TOP %d ", n), ""
	}
	return "", fmt.Sprintf(" LIMIT %d", n)
}

// GroupByOrdinal reports whether the engine accepts ordinal positions in
// GROUP BY. SQL Server does not; callers must repeat the grouping
// expression instead.
func GroupByOrdinal(d Dialect) bool {
	return d != MSSQL
}

// TableSample returns a native probabilistic block-sampling clause for
// engines that have one. Preferred over per-row random labels in
// percentage mode because the engine can skip whole blocks.
func TableSample(d Dialect, percentage float64) (string, bool) {
	switch d {
	case Snowflake:
		return fmt.Sprintf("SAMPLE BERNOULLI (%g)", percentage), true
	case BigQuery:
		return fmt.Sprintf("TABLESAMPLE SYSTEM (%g PERCENT)", percentage), true
	case DuckDB:
		return fmt.Sprintf("USING SAMPLE %g PERCENT (bernoulli)", percentage), true
	default:
		return "", false
	}
}
