package metrics

import (
	"fmt"

	"github.com/dbsmedya/goprofile/internal/dialect"
	"github.com/dbsmedya/goprofile/internal/types"
)

// ValuesCount counts non-null values.
type ValuesCount struct{}

func (ValuesCount) Name() string { return "valuesCount" }
func (ValuesCount) Type() Type   { return TypeStatic }

func (ValuesCount) Compile(col types.Column, _ string, d dialect.Dialect) (string, bool) {
	return fmt.Sprintf("count(%s)", d.Quote(col.Name)), true
}

// NullCount counts null values.
type NullCount struct{}

func (NullCount) Name() string { return "nullCount" }
func (NullCount) Type() Type   { return TypeStatic }

func (NullCount) Compile(col types.Column, _ string, d dialect.Dialect) (string, bool) {
	quoted := d.Quote(col.Name)
	return fmt.Sprintf("sum(case when %s is null then 1 else 0 end)", quoted), true
}

// DistinctCount counts distinct non-null values.
type DistinctCount struct{}

func (DistinctCount) Name() string { return "distinctCount" }
func (DistinctCount) Type() Type   { return TypeStatic }

func (DistinctCount) Compile(col types.Column, _ string, d dialect.Dialect) (string, bool) {
	if col.Kind == types.KindOther {
		return "", false
	}
	return fmt.Sprintf("count(distinct %s)", d.Quote(col.Name)), true
}

// Min returns the smallest value, or the smallest length for text columns.
type Min struct{}

func (Min) Name() string { return "min" }
func (Min) Type() Type   { return TypeStatic }

func (Min) Compile(col types.Column, _ string, d dialect.Dialect) (string, bool) {
	expr, ok := orderableExpr(col, d)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("min(%s)", expr), true
}

// Max returns the largest value, or the largest length for text columns.
type Max struct{}

func (Max) Name() string { return "max" }
func (Max) Type() Type   { return TypeStatic }

func (Max) Compile(col types.Column, _ string, d dialect.Dialect) (string, bool) {
	expr, ok := orderableExpr(col, d)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("max(%s)", expr), true
}

// Mean returns the average value for quantifiable columns and the average
// length for concatenable ones.
type Mean struct{}

func (Mean) Name() string { return "mean" }
func (Mean) Type() Type   { return TypeStatic }

func (Mean) Compile(col types.Column, _ string, d dialect.Dialect) (string, bool) {
	expr, ok := numericExpr(col, d)
	if !ok {
		return "", false
	}
	return dialect.Avg(d, expr), true
}

// Sum returns the sum of values, or of lengths for text columns.
type Sum struct{}

func (Sum) Name() string { return "sum" }
func (Sum) Type() Type   { return TypeStatic }

func (Sum) Compile(col types.Column, _ string, d dialect.Dialect) (string, bool) {
	expr, ok := numericExpr(col, d)
	if !ok {
		return "", false
	}
	return dialect.Sum(d, expr), true
}

// StdDev returns the population standard deviation.
type StdDev struct{}

func (StdDev) Name() string { return "stddev" }
func (StdDev) Type() Type   { return TypeStatic }

func (StdDev) Compile(col types.Column, _ string, d dialect.Dialect) (string, bool) {
	expr, ok := numericExpr(col, d)
	if !ok {
		return "", false
	}
	return dialect.StdDev(d, expr)
}
