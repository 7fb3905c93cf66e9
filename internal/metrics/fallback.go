package metrics

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// HasFallback reports whether name can be evaluated by FallbackCompute.
func HasFallback(name string) bool {
	switch name {
	case "valuesCount", "mean", "sum", "min", "max", "stddev",
		"median", "firstQuartile", "thirdQuartile":
		return true
	}
	return false
}

// FallbackCompute evaluates a numeric metric in memory over raw values.
// It backs metrics the engine cannot express (SQLite has no stddev
// builtin) by reading the sampled values instead. Text columns must be
// pre-transformed to lengths by the caller, matching the SQL path's
// semantics.
func FallbackCompute(name string, values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("metric %s: no values", name)
	}
	switch name {
	case "valuesCount":
		return float64(len(values)), nil
	case "mean":
		return stats.Mean(values)
	case "sum":
		return stats.Sum(values)
	case "min":
		return stats.Min(values)
	case "max":
		return stats.Max(values)
	case "stddev":
		return stats.StdDevP(values)
	case "median":
		return stats.Median(values)
	case "firstQuartile":
		return stats.Percentile(values, 25)
	case "thirdQuartile":
		return stats.Percentile(values, 75)
	default:
		return 0, fmt.Errorf("metric %s: no in-memory fallback", name)
	}
}
