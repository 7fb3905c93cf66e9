package profiler

import (
	"github.com/dbsmedya/goprofile/internal/metrics"
	"github.com/dbsmedya/goprofile/internal/types"
)

// WorkUnit is one scheduled computation: a set of same-type metrics for
// one column, or for the table as a whole. Units of a column's Static or
// Window metrics execute as a single round trip, so every metric in the
// unit sees the same snapshot of the sample.
type WorkUnit struct {
	Column  *types.Column // nil for table-level units
	Type    metrics.Type
	Metrics []metrics.Metric
}

// ColumnName returns the column this unit targets, or "" for table units.
func (u WorkUnit) ColumnName() string {
	if u.Column == nil {
		return ""
	}
	return u.Column.Name
}

// Entity returns the status identifier the unit reports against.
func (u WorkUnit) Entity(table *types.Table) string {
	if u.Column == nil {
		return table.FQN()
	}
	return table.FQN() + "." + u.Column.Name
}

// BuildWorkUnits groups the selected metrics into work units: one table
// unit, one system unit, and per column one unit per taxonomy type.
// Composed and Hybrid units depend on sibling results, so the scheduler
// runs them after the pooled pass.
func BuildWorkUnits(table *types.Table, selected []metrics.Metric) []WorkUnit {
	byType := make(map[metrics.Type][]metrics.Metric)
	for _, m := range selected {
		byType[m.Type()] = append(byType[m.Type()], m)
	}

	var units []WorkUnit
	if ms := byType[metrics.TypeTable]; len(ms) > 0 {
		units = append(units, WorkUnit{Type: metrics.TypeTable, Metrics: ms})
	}
	if ms := byType[metrics.TypeSystem]; len(ms) > 0 {
		units = append(units, WorkUnit{Type: metrics.TypeSystem, Metrics: ms})
	}

	columnTypes := []metrics.Type{
		metrics.TypeStatic, metrics.TypeWindow, metrics.TypeQuery,
		metrics.TypeComposed, metrics.TypeHybrid,
	}
	for i := range table.Columns {
		col := &table.Columns[i]
		for _, t := range columnTypes {
			if ms := byType[t]; len(ms) > 0 {
				units = append(units, WorkUnit{Column: col, Type: t, Metrics: ms})
			}
		}
	}
	return units
}

// pooled reports whether the unit runs in the worker pool; Composed and
// Hybrid units run afterwards because they read sibling results.
func (u WorkUnit) pooled() bool {
	return u.Type != metrics.TypeComposed && u.Type != metrics.TypeHybrid
}
