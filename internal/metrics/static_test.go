package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dbsmedya/goprofile/internal/dialect"
	"github.com/dbsmedya/goprofile/internal/types"
)

var (
	intCol  = types.Column{Name: "id", DataType: "bigint", Kind: types.KindQuantifiable}
	textCol = types.Column{Name: "name", DataType: "varchar(255)", Kind: types.KindConcatenable}
	dateCol = types.Column{Name: "created_at", DataType: "timestamp", Kind: types.KindDateTime}
	blobCol = types.Column{Name: "payload", DataType: "blob", Kind: types.KindOther}
)

func TestStaticCompile(t *testing.T) {
	tests := []struct {
		name     string
		metric   SQLMetric
		col      types.Column
		dialect  dialect.Dialect
		expected string
	}{
		{"count int", ValuesCount{}, intCol, dialect.Postgres, `count("id")`},
		{"null count", NullCount{}, intCol, dialect.Postgres, `sum(case when "id" is null then 1 else 0 end)`},
		{"distinct int", DistinctCount{}, intCol, dialect.MySQL, "count(distinct `id`)"},
		{"min int", Min{}, intCol, dialect.Postgres, `min("id")`},
		{"min date", Min{}, dateCol, dialect.Postgres, `min("created_at")`},
		{"min text is min length", Min{}, textCol, dialect.Postgres, `min(length("name"))`},
		{"max int", Max{}, intCol, dialect.SQLite, `max("id")`},
		{"mean int", Mean{}, intCol, dialect.Postgres, `avg("id")`},
		{"mean text is mean length", Mean{}, textCol, dialect.Postgres, `avg(length("name"))`},
		{"mean text mysql uses char_length", Mean{}, textCol, dialect.MySQL, "avg(char_length(`name`))"},
		{"mean widened on mssql", Mean{}, intCol, dialect.MSSQL, "avg(cast([id] as decimal(38, 6)))"},
		{"sum int", Sum{}, intCol, dialect.Postgres, `sum("id")`},
		{"sum text is sum of lengths", Sum{}, textCol, dialect.SQLite, `sum(length("name"))`},
		{"stddev int", StdDev{}, intCol, dialect.Postgres, `stddev_pop("id")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, ok := tt.metric.Compile(tt.col, "t", tt.dialect)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, expr)
		})
	}
}

// Inapplicable metric/column pairs must report not-applicable, never error.
func TestStaticCompileNotApplicable(t *testing.T) {
	tests := []struct {
		name   string
		metric SQLMetric
		col    types.Column
		d      dialect.Dialect
	}{
		{"mean of blob", Mean{}, blobCol, dialect.Postgres},
		{"sum of blob", Sum{}, blobCol, dialect.Postgres},
		{"sum of date", Sum{}, dateCol, dialect.Postgres},
		{"stddev of date", StdDev{}, dateCol, dialect.Postgres},
		{"stddev on sqlite has no builtin", StdDev{}, intCol, dialect.SQLite},
		{"min of blob", Min{}, blobCol, dialect.MySQL},
		{"distinct of blob", DistinctCount{}, blobCol, dialect.MySQL},
		{"median of text", Median(), textCol, dialect.Postgres},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, ok := tt.metric.Compile(tt.col, "t", tt.d)
			assert.False(t, ok)
			assert.Empty(t, expr)
		})
	}
}

func TestWindowCompile(t *testing.T) {
	expr, ok := Median().Compile(intCol, `"users"`, dialect.Postgres)
	assert.True(t, ok)
	assert.Equal(t, `percentile_cont(0.50) WITHIN GROUP (ORDER BY "id" ASC)`, expr)

	expr, ok = FirstQuartile().Compile(intCol, `"users"`, dialect.Trino)
	assert.True(t, ok)
	assert.Equal(t, `approx_percentile("id", 0.25)`, expr)

	expr, ok = ThirdQuartile().Compile(intCol, `"users"`, dialect.MSSQL)
	assert.True(t, ok)
	assert.Contains(t, expr, "OVER()")

	// Ranked-subquery strategies embed the sample's FROM fragment.
	expr, ok = Median().Compile(intCol, `"users_rnd"`, dialect.SQLite)
	assert.True(t, ok)
	assert.Contains(t, expr, `FROM "users_rnd"`)
}

func TestQueryMetrics(t *testing.T) {
	q, ok := UniqueCount{}.Query(intCol, `"users"`, dialect.Postgres)
	assert.True(t, ok)
	assert.Contains(t, q, `HAVING count("id") = 1`)
	assert.False(t, UniqueCount{}.MultiValued())

	q, ok = TopValues{}.Query(textCol, `"users"`, dialect.Postgres)
	assert.True(t, ok)
	assert.Contains(t, q, `GROUP BY "name"`)
	assert.Contains(t, q, "LIMIT 10")
	assert.True(t, TopValues{}.MultiValued())

	// MSSQL caps rows with TOP, not LIMIT.
	q, ok = TopValues{}.Query(textCol, "[users]", dialect.MSSQL)
	assert.True(t, ok)
	assert.Contains(t, q, "SELECT TOP 10 ")
	assert.NotContains(t, q, "LIMIT")

	_, ok = TopValues{}.Query(blobCol, `"users"`, dialect.Postgres)
	assert.False(t, ok)
}

func TestTopValuesFold(t *testing.T) {
	rows := []map[string]interface{}{
		{"value": "pending", "frequency": int64(5)},
		{"value": "shipped", "frequency": "3"},
	}

	out := TopValues{}.Fold(rows).(map[string]interface{})

	assert.Equal(t, []interface{}{"pending", "shipped"}, out["values"])
	assert.Equal(t, []int64{5, 3}, out["counts"])
}
