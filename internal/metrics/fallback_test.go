package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackCompute(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		metric   string
		expected float64
	}{
		{"valuesCount", 5},
		{"mean", 3},
		{"sum", 15},
		{"min", 1},
		{"max", 5},
		{"median", 3},
	}

	for _, tt := range tests {
		t.Run(tt.metric, func(t *testing.T) {
			got, err := FallbackCompute(tt.metric, values)
			assert.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestFallbackStdDev(t *testing.T) {
	// Population stddev of {2,4,4,4,5,5,7,9} is exactly 2.
	got, err := FallbackCompute("stddev", []float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-9)
}

// Mean of text values is the mean of their lengths: ["a","bb","ccc"] -> 2.0.
// The caller applies the length transform, mirroring the SQL path.
func TestFallbackTextMeanLength(t *testing.T) {
	lengths := []float64{1, 2, 3}
	got, err := FallbackCompute("mean", lengths)
	assert.NoError(t, err)
	assert.Equal(t, 2.0, got)
}

func TestFallbackErrors(t *testing.T) {
	_, err := FallbackCompute("mean", nil)
	assert.Error(t, err)

	_, err = FallbackCompute("topValues", []float64{1})
	assert.Error(t, err)
}
