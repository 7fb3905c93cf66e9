package metrics

import (
	"fmt"

	"github.com/dbsmedya/goprofile/internal/dialect"
	"github.com/dbsmedya/goprofile/internal/types"
)

// histogramBins is the fixed bucket count for histograms.
const histogramBins = 10

// Histogram buckets the column into equal-width bins between the
// previously computed min and max, then counts rows per bin against the
// sample in one query. It is a hybrid metric: it needs both prior column
// results and the random sample.
type Histogram struct{}

func (Histogram) Name() string { return "histogram" }
func (Histogram) Type() Type   { return TypeHybrid }

func (Histogram) Query(col types.Column, from string, d dialect.Dialect, results map[string]interface{}) (string, bool) {
	if col.Kind != types.KindQuantifiable {
		return "", false
	}
	minV, ok := types.ToFloat64(results["min"])
	if !ok {
		return "", false
	}
	maxV, ok := types.ToFloat64(results["max"])
	if !ok || maxV <= minV {
		return "", false
	}

	width := (maxV - minV) / histogramBins
	quoted := d.Quote(col.Name)
	// The max value would land in bin histogramBins; clamp it into the last bin.
	bin := fmt.Sprintf(
		"case when %s >= %g then %d else floor((%s - %g) / %g) end",
		quoted, maxV, histogramBins-1, quoted, minV, width,
	)
	groupBy := "1"
	if !dialect.GroupByOrdinal(d) {
		groupBy = bin
	}
	return fmt.Sprintf(
		"SELECT %s AS %s, count(*) AS %s FROM %s WHERE %s IS NOT NULL GROUP BY %s ORDER BY 1",
		bin, d.Quote("bin"), d.Quote("frequency"), from, quoted, groupBy,
	), true
}

// Reshape folds bin rows into parallel boundary and frequency lists.
// Empty bins appear with frequency zero so consumers can chart directly.
func (Histogram) Reshape(rows []map[string]interface{}, results map[string]interface{}) interface{} {
	minV, okMin := types.ToFloat64(results["min"])
	maxV, okMax := types.ToFloat64(results["max"])
	if !okMin || !okMax || maxV <= minV {
		return nil
	}
	width := (maxV - minV) / histogramBins

	frequencies := make([]int64, histogramBins)
	for _, row := range rows {
		idx := types.ToInt64(row["bin"])
		if idx < 0 || idx >= histogramBins {
			continue
		}
		frequencies[idx] = types.ToInt64(row["frequency"])
	}
	boundaries := make([]float64, histogramBins)
	for i := range boundaries {
		boundaries[i] = minV + float64(i)*width
	}
	return map[string]interface{}{
		"boundaries":  boundaries,
		"frequencies": frequencies,
	}
}
