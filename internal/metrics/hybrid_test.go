package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dbsmedya/goprofile/internal/dialect"
	"github.com/dbsmedya/goprofile/internal/types"
)

func TestHistogramQuery(t *testing.T) {
	results := map[string]interface{}{"min": 0.0, "max": 100.0}

	q, ok := Histogram{}.Query(intCol, `"users"`, dialect.Postgres, results)
	assert.True(t, ok)
	assert.Contains(t, q, "floor(")
	assert.Contains(t, q, `FROM "users"`)
	assert.Contains(t, q, "GROUP BY 1")
}

func TestHistogramQueryMSSQLRepeatsBinExpression(t *testing.T) {
	// SQL Server rejects ordinal GROUP BY.
	results := map[string]interface{}{"min": 0.0, "max": 100.0}

	q, ok := Histogram{}.Query(intCol, "[users]", dialect.MSSQL, results)
	assert.True(t, ok)
	assert.NotContains(t, q, "GROUP BY 1")
	assert.Contains(t, q, "GROUP BY case when")
	assert.Contains(t, q, "ORDER BY 1")
}

func TestHistogramQuerySkips(t *testing.T) {
	// No prior min/max: nothing to bucket against.
	_, ok := Histogram{}.Query(intCol, "t", dialect.Postgres, map[string]interface{}{})
	assert.False(t, ok)

	// Constant column: zero-width bins are meaningless.
	_, ok = Histogram{}.Query(intCol, "t", dialect.Postgres, map[string]interface{}{"min": 5.0, "max": 5.0})
	assert.False(t, ok)

	// Text columns are not bucketed.
	_, ok = Histogram{}.Query(textCol, "t", dialect.Postgres, map[string]interface{}{"min": 0.0, "max": 1.0})
	assert.False(t, ok)
}

func TestHistogramReshape(t *testing.T) {
	results := map[string]interface{}{"min": 0.0, "max": 100.0}
	rows := []map[string]interface{}{
		{"bin": int64(0), "frequency": int64(30)},
		{"bin": int64(4), "frequency": int64(50)},
		{"bin": int64(9), "frequency": int64(20)},
	}

	out := Histogram{}.Reshape(rows, results).(map[string]interface{})
	boundaries := out["boundaries"].([]float64)
	frequencies := out["frequencies"].([]int64)

	assert.Len(t, boundaries, 10)
	assert.Len(t, frequencies, 10)
	assert.Equal(t, 0.0, boundaries[0])
	assert.Equal(t, 90.0, boundaries[9])
	assert.Equal(t, int64(30), frequencies[0])
	assert.Equal(t, int64(0), frequencies[1], "empty bins are explicit zeros")
	assert.Equal(t, int64(50), frequencies[4])
	assert.Equal(t, int64(20), frequencies[9])
}

func TestHistogramReshapeStringRows(t *testing.T) {
	// Text-protocol drivers scan aggregates as []byte, which the runner
	// normalizes to string before rows reach Reshape.
	results := map[string]interface{}{"min": 0.0, "max": 100.0}
	rows := []map[string]interface{}{
		{"bin": types.NormalizeValue([]byte("0")), "frequency": types.NormalizeValue([]byte("60"))},
		{"bin": types.NormalizeValue([]byte("9")), "frequency": types.NormalizeValue([]byte("40"))},
	}

	out := Histogram{}.Reshape(rows, results).(map[string]interface{})
	frequencies := out["frequencies"].([]int64)

	assert.Equal(t, int64(60), frequencies[0])
	assert.Equal(t, int64(40), frequencies[9])
}
