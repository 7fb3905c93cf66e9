package metrics

import (
	"github.com/dbsmedya/goprofile/internal/dialect"
	"github.com/dbsmedya/goprofile/internal/types"
)

// percentileMetric is the shared implementation behind median and the
// quartiles. Percentile syntax is engine-specific and on some dialects
// compiles to a window expression, so these run as Window units: one
// round trip per column, skipped entirely on a numeric-overflow error
// since a window statement cannot be decomposed.
type percentileMetric struct {
	name string
	pct  float64
}

func (m percentileMetric) Name() string { return m.name }
func (m percentileMetric) Type() Type   { return TypeWindow }

func (m percentileMetric) Compile(col types.Column, from string, d dialect.Dialect) (string, bool) {
	if col.Kind != types.KindQuantifiable {
		return "", false
	}
	return dialect.Percentile(d, d.Quote(col.Name), from, m.pct)
}

// Median is the 50th percentile.
func Median() SQLMetric { return percentileMetric{name: "median", pct: 0.5} }

// FirstQuartile is the 25th percentile.
func FirstQuartile() SQLMetric { return percentileMetric{name: "firstQuartile", pct: 0.25} }

// ThirdQuartile is the 75th percentile.
func ThirdQuartile() SQLMetric { return percentileMetric{name: "thirdQuartile", pct: 0.75} }
