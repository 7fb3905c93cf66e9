// Package metrics defines the metric taxonomy and the canonical metric set.
//
// A metric is a named, stateless computation. Its taxonomy type drives
// dispatch in the profiler: Static and Window metrics compile to SQL
// expressions batched into one statement per column, Query metrics own a
// bespoke statement, Composed metrics derive from prior results without a
// query, Hybrid metrics need both the sample and prior results, and Table
// and System metrics are computed per table by dialect-specific constructs.
package metrics

import (
	"github.com/dbsmedya/goprofile/internal/dialect"
	"github.com/dbsmedya/goprofile/internal/types"
)

// Type classifies a metric for dispatch.
type Type string

const (
	TypeTable    Type = "table"
	TypeStatic   Type = "static"
	TypeComposed Type = "composed"
	TypeQuery    Type = "query"
	TypeWindow   Type = "window"
	TypeSystem   Type = "system"
	TypeHybrid   Type = "hybrid"
)

// Metric is a named, stateless computation over a column or table.
type Metric interface {
	Name() string
	Type() Type
}

// SQLMetric compiles to a single select-list expression against a sample.
// Static and Window metrics implement it. Compile returns ok=false when
// the metric does not apply to the column's type family; callers must
// skip silently, never fail.
type SQLMetric interface {
	Metric
	Compile(col types.Column, from string, d dialect.Dialect) (string, bool)
}

// QueryMetric owns a dedicated statement instead of a select-list
// expression, either because the result is a row set or because the
// computation needs its own FROM shape.
type QueryMetric interface {
	Metric
	// Query builds the full statement to run against the sample.
	Query(col types.Column, from string, d dialect.Dialect) (string, bool)
	// MultiValued reports whether the result is inherently a row set and
	// must be folded into the metric's published shape.
	MultiValued() bool
}

// RowFolder reshapes a multi-valued metric's raw rows into its published
// result shape. Multi-valued query metrics implement it.
type RowFolder interface {
	Fold(rows []map[string]interface{}) interface{}
}

// ComposedMetric derives its value purely from previously computed column
// results; no query is issued.
type ComposedMetric interface {
	Metric
	// Fn returns nil when a dependency is absent from results.
	Fn(results map[string]interface{}) interface{}
}

// HybridMetric needs both the random sample and previously computed
// column results.
type HybridMetric interface {
	Metric
	// Query builds the statement from prior results; ok=false skips.
	Query(col types.Column, from string, d dialect.Dialect, results map[string]interface{}) (string, bool)
	// Reshape folds the result rows into the metric value, with access to
	// the same prior results the query was built from.
	Reshape(rows []map[string]interface{}, results map[string]interface{}) interface{}
}

// numericExpr returns the expression numeric aggregates operate on:
// the column itself for quantifiable columns, its length for
// concatenable ones. ok=false for every other type family.
func numericExpr(col types.Column, d dialect.Dialect) (string, bool) {
	quoted := d.Quote(col.Name)
	switch col.Kind {
	case types.KindQuantifiable:
		return quoted, true
	case types.KindConcatenable:
		return dialect.Length(d, quoted), true
	default:
		return "", false
	}
}

// orderableExpr returns the column expression for order-based aggregates
// (min, max), which also apply to date-time columns.
func orderableExpr(col types.Column, d dialect.Dialect) (string, bool) {
	switch col.Kind {
	case types.KindQuantifiable, types.KindDateTime:
		return d.Quote(col.Name), true
	case types.KindConcatenable:
		return dialect.Length(d, d.Quote(col.Name)), true
	default:
		return "", false
	}
}
