package dialect

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	d, ok := Parse("mysql")
	assert.True(t, ok)
	assert.Equal(t, MySQL, d)

	_, ok = Parse("db2")
	assert.False(t, ok)
}

func TestDriverName(t *testing.T) {
	tests := []struct {
		dialect Dialect
		driver  string
		ok      bool
	}{
		{MySQL, "mysql", true},
		{Postgres, "postgres", true},
		{Redshift, "postgres", true},
		{SQLite, "sqlite", true},
		{MSSQL, "sqlserver", true},
		{DuckDB, "duckdb", true},
		{Snowflake, "", false},
		{BigQuery, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			driver, ok := tt.dialect.DriverName()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.driver, driver)
		})
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "`id`", MySQL.Quote("id"))
	assert.Equal(t, "`id`", BigQuery.Quote("id"))
	assert.Equal(t, "[id]", MSSQL.Quote("id"))
	assert.Equal(t, `"id"`, Postgres.Quote("id"))
	assert.Equal(t, `"id"`, Snowflake.Quote("id"))
}

func TestModulo(t *testing.T) {
	assert.Equal(t, "a % b", Modulo(MySQL, "a", "b"))
	assert.Equal(t, "a % b", Modulo(Postgres, "a", "b"))
	assert.Equal(t, "mod(a, b)", Modulo(Snowflake, "a", "b"))
	assert.Equal(t, "mod(a, b)", Modulo(Trino, "a", "b"))
}

func TestLength(t *testing.T) {
	assert.Equal(t, `char_length(name)`, Length(MySQL, "name"))
	assert.Equal(t, `len(name)`, Length(MSSQL, "name"))
	assert.Equal(t, `length(name)`, Length(Postgres, "name"))
}

func TestAvg(t *testing.T) {
	// Integer-overflow-prone engines widen the intermediate type.
	assert.Equal(t, "avg(cast(x as decimal(38, 6)))", Avg(MSSQL, "x"))
	// NaN-producing engines wrap the aggregate so empty samples yield null.
	assert.Equal(t, "if(isNaN(avg(x)), null, avg(x))", Avg(ClickHouse, "x"))
	assert.Equal(t, "avg(x)", Avg(Postgres, "x"))
}

func TestSum(t *testing.T) {
	assert.Equal(t, "sum(cast(x as decimal(38, 6)))", Sum(MSSQL, "x"))
	assert.Equal(t, "sum(cast(x as bignumeric))", Sum(BigQuery, "x"))
	assert.Equal(t, "sum(x)", Sum(MySQL, "x"))
}

func TestStdDev(t *testing.T) {
	expr, ok := StdDev(Postgres, "x")
	assert.True(t, ok)
	assert.Equal(t, "stddev_pop(x)", expr)

	// SQLite has no stddev builtin; not applicable, not an error.
	_, ok = StdDev(SQLite, "x")
	assert.False(t, ok)
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		dialect  Dialect
		contains string
	}{
		{Postgres, "percentile_cont(0.50) WITHIN GROUP"},
		{Snowflake, "percentile_cont(0.50) WITHIN GROUP"},
		{MSSQL, "OVER()"},
		{BigQuery, "percentile_cont("},
		{Trino, "approx_percentile("},
		{ClickHouse, "quantile(0.50)"},
		{DuckDB, "approx_quantile("},
		{MySQL, "ROW_NUMBER() OVER"},
		{SQLite, "LIMIT 1 OFFSET"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			expr, ok := Percentile(tt.dialect, `"id"`, `"users"`, 0.5)
			assert.True(t, ok)
			assert.Contains(t, expr, tt.contains)
		})
	}
}

func TestTimeAgo(t *testing.T) {
	assert.Equal(t, "now() - interval 7 day", TimeAgo(MySQL, 7, "day"))
	assert.Equal(t, "now() - interval '7 day'", TimeAgo(Postgres, 7, "day"))
	assert.Equal(t, "datetime('now', '-3 hour')", TimeAgo(SQLite, 3, "hour"))
	assert.Equal(t, "dateadd(day, -7, getdate())", TimeAgo(MSSQL, 7, "day"))
	assert.Equal(t, "dateadd(month, -1, current_timestamp)", TimeAgo(Snowflake, 1, "month"))
}

func TestLimit(t *testing.T) {
	modifier, suffix := Limit(Postgres, 100)
	assert.Empty(t, modifier)
	assert.Equal(t, " LIMIT 100", suffix)

	modifier, suffix = Limit(MSSQL, 100)
	assert.Equal(t, "TOP 100 ", modifier)
	assert.Empty(t, suffix)
}

func TestTableSample(t *testing.T) {
	clause, ok := TableSample(Snowflake, 25)
	assert.True(t, ok)
	assert.Equal(t, "SAMPLE BERNOULLI (25)", clause)

	clause, ok = TableSample(DuckDB, 10)
	assert.True(t, ok)
	assert.Equal(t, "USING SAMPLE 10 PERCENT (bernoulli)", clause)

	_, ok = TableSample(MySQL, 25)
	assert.False(t, ok)
}

func TestIsOverflow(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		err     error
		want    bool
	}{
		{
			name:    "mysql bigint out of range",
			dialect: MySQL,
			err:     &mysql.MySQLError{Number: 1690, Message: "BIGINT value is out of range"},
			want:    true,
		},
		{
			name:    "mysql unrelated error",
			dialect: MySQL,
			err:     &mysql.MySQLError{Number: 1064, Message: "syntax error"},
			want:    false,
		},
		{
			name:    "snowflake overflow by message code",
			dialect: Snowflake,
			err:     fmt.Errorf("query failed: 100046 (22003): Number out of representable range"),
			want:    true,
		},
		{
			name:    "nil error",
			dialect: MySQL,
			err:     nil,
			want:    false,
		},
		{
			name:    "dialect without overflow codes",
			dialect: Postgres,
			err:     errors.New("numeric field overflow"),
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOverflow(tt.dialect, tt.err))
		})
	}
}
