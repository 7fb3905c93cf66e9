package metrics

import (
	"fmt"

	"github.com/dbsmedya/goprofile/internal/dialect"
	"github.com/dbsmedya/goprofile/internal/types"
)

// topValuesLimit bounds the number of most-common values reported.
const topValuesLimit = 10

// UniqueCount counts values that appear exactly once. It needs its own
// GROUP BY ... HAVING statement, so it runs as a Query unit.
type UniqueCount struct{}

func (UniqueCount) Name() string      { return "uniqueCount" }
func (UniqueCount) Type() Type        { return TypeQuery }
func (UniqueCount) MultiValued() bool { return false }

func (UniqueCount) Query(col types.Column, from string, d dialect.Dialect) (string, bool) {
	if col.Kind == types.KindOther {
		return "", false
	}
	quoted := d.Quote(col.Name)
	return fmt.Sprintf(
		"SELECT count(*) AS %s FROM (SELECT %s FROM %s WHERE %s IS NOT NULL GROUP BY %s HAVING count(%s) = 1) unique_values",
		d.Quote("uniqueCount"), quoted, from, quoted, quoted, quoted,
	), true
}

// TopValues returns the most common values with their frequencies. The
// result is inherently a row set and is reshaped into parallel value and
// count lists.
type TopValues struct{}

func (TopValues) Name() string      { return "topValues" }
func (TopValues) Type() Type        { return TypeQuery }
func (TopValues) MultiValued() bool { return true }

func (TopValues) Query(col types.Column, from string, d dialect.Dialect) (string, bool) {
	if col.Kind == types.KindOther {
		return "", false
	}
	quoted := d.Quote(col.Name)
	modifier, suffix := dialect.Limit(d, topValuesLimit)
	return fmt.Sprintf(
		"SELECT %s%s AS %s, count(*) AS %s FROM %s WHERE %s IS NOT NULL GROUP BY %s ORDER BY %s DESC%s",
		modifier, quoted, d.Quote("value"), d.Quote("frequency"), from, quoted, quoted, d.Quote("frequency"), suffix,
	), true
}

// Fold turns the value/frequency rows into parallel values and counts
// lists, preserving descending frequency order.
func (TopValues) Fold(rows []map[string]interface{}) interface{} {
	values := make([]interface{}, 0, len(rows))
	counts := make([]int64, 0, len(rows))
	for _, row := range rows {
		values = append(values, row["value"])
		counts = append(counts, types.ToInt64(row["frequency"]))
	}
	return map[string]interface{}{
		"values": values,
		"counts": counts,
	}
}
