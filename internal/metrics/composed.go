package metrics

import "github.com/dbsmedya/goprofile/internal/types"

// ratioOf reads two prior results and divides them. Returns nil when
// either dependency is absent or the denominator is zero.
func ratioOf(results map[string]interface{}, numerator, denominator string) interface{} {
	num, ok := types.ToFloat64(results[numerator])
	if !ok {
		return nil
	}
	den, ok := types.ToFloat64(results[denominator])
	if !ok || den == 0 {
		return nil
	}
	return num / den
}

// NullRatio is nullCount over total row count.
type NullRatio struct{}

func (NullRatio) Name() string { return "nullRatio" }
func (NullRatio) Type() Type   { return TypeComposed }

func (NullRatio) Fn(results map[string]interface{}) interface{} {
	nulls, ok := types.ToFloat64(results["nullCount"])
	if !ok {
		return nil
	}
	values, ok := types.ToFloat64(results["valuesCount"])
	if !ok {
		return nil
	}
	total := nulls + values
	if total == 0 {
		return nil
	}
	return nulls / total
}

// DistinctRatio is distinctCount over valuesCount.
type DistinctRatio struct{}

func (DistinctRatio) Name() string { return "distinctRatio" }
func (DistinctRatio) Type() Type   { return TypeComposed }

func (DistinctRatio) Fn(results map[string]interface{}) interface{} {
	return ratioOf(results, "distinctCount", "valuesCount")
}

// UniqueRatio is uniqueCount over valuesCount.
type UniqueRatio struct{}

func (UniqueRatio) Name() string { return "uniqueRatio" }
func (UniqueRatio) Type() Type   { return TypeComposed }

func (UniqueRatio) Fn(results map[string]interface{}) interface{} {
	return ratioOf(results, "uniqueCount", "valuesCount")
}

// InterQuartileRange is thirdQuartile minus firstQuartile.
type InterQuartileRange struct{}

func (InterQuartileRange) Name() string { return "interQuartileRange" }
func (InterQuartileRange) Type() Type   { return TypeComposed }

func (InterQuartileRange) Fn(results map[string]interface{}) interface{} {
	third, ok := types.ToFloat64(results["thirdQuartile"])
	if !ok {
		return nil
	}
	first, ok := types.ToFloat64(results["firstQuartile"])
	if !ok {
		return nil
	}
	return third - first
}

// NonParametricSkew is (mean - median) / stddev.
type NonParametricSkew struct{}

func (NonParametricSkew) Name() string { return "nonParametricSkew" }
func (NonParametricSkew) Type() Type   { return TypeComposed }

func (NonParametricSkew) Fn(results map[string]interface{}) interface{} {
	mean, ok := types.ToFloat64(results["mean"])
	if !ok {
		return nil
	}
	median, ok := types.ToFloat64(results["median"])
	if !ok {
		return nil
	}
	stddev, ok := types.ToFloat64(results["stddev"])
	if !ok || stddev == 0 {
		return nil
	}
	return (mean - median) / stddev
}
