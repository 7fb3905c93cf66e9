package metrics

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Registry holds the metric set for a run in registration order, so the
// select list compiled from it is stable across runs.
type Registry struct {
	metrics *orderedmap.OrderedMap[string, Metric]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{metrics: orderedmap.NewOrderedMap[string, Metric]()}
}

// Default returns the canonical metric set.
func Default() *Registry {
	r := NewRegistry()
	r.Register(
		RowCount(), ColumnCount(), ColumnNames(), SizeInBytes(),
		ValuesCount{}, NullCount{}, DistinctCount{}, Min{}, Max{}, Mean{}, Sum{}, StdDev{},
		Median(), FirstQuartile(), ThirdQuartile(),
		UniqueCount{}, TopValues{},
		NullRatio{}, DistinctRatio{}, UniqueRatio{}, InterQuartileRange{}, NonParametricSkew{},
		Histogram{},
		SystemProfile(),
	)
	return r
}

// Register adds metrics, replacing any previous metric with the same name.
func (r *Registry) Register(ms ...Metric) {
	for _, m := range ms {
		r.metrics.Set(m.Name(), m)
	}
}

// Lookup returns the named metric.
func (r *Registry) Lookup(name string) (Metric, bool) {
	return r.metrics.Get(name)
}

// All returns every registered metric in registration order.
func (r *Registry) All() []Metric {
	out := make([]Metric, 0, r.metrics.Len())
	for el := r.metrics.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// OfType returns the registered metrics of the given taxonomy type, in order.
func (r *Registry) OfType(t Type) []Metric {
	var out []Metric
	for el := r.metrics.Front(); el != nil; el = el.Next() {
		if el.Value.Type() == t {
			out = append(out, el.Value)
		}
	}
	return out
}
