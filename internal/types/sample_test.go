package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dbsmedya/goprofile/internal/dialect"
)

func TestSampleConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    SampleConfig
		expectErr bool
	}{
		{"zero value means full table", SampleConfig{}, false},
		{"percentage only", SampleConfig{Percentage: 25}, false},
		{"row count only", SampleConfig{RowCount: 50}, false},
		{"both set", SampleConfig{Percentage: 25, RowCount: 50}, true},
		{"percentage above 100", SampleConfig{Percentage: 101}, true},
		{"negative percentage", SampleConfig{Percentage: -1}, true},
		{"negative row count", SampleConfig{RowCount: -5}, true},
		{"full percentage", SampleConfig{Percentage: 100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSampleConfigIsZero(t *testing.T) {
	assert.True(t, SampleConfig{}.IsZero())
	assert.False(t, SampleConfig{Percentage: 10}.IsZero())
	assert.False(t, SampleConfig{RowCount: 10}.IsZero())
}

func TestPartitionConfigValidate(t *testing.T) {
	tbl := &Table{
		Dialect: dialect.Postgres,
		Name:    "events",
		Columns: []Column{
			{Name: "id", Kind: KindQuantifiable},
			{Name: "created_at", Kind: KindDateTime},
			{Name: "region", Kind: KindConcatenable},
		},
	}

	tests := []struct {
		name      string
		config    PartitionConfig
		expectErr bool
	}{
		{
			name:      "column values",
			config:    PartitionConfig{Kind: PartitionColumnValues, Column: "region", Values: []string{"eu", "us"}},
			expectErr: false,
		},
		{
			name:      "missing column",
			config:    PartitionConfig{Kind: PartitionColumnValues, Column: "tenant", Values: []string{"a"}},
			expectErr: true,
		},
		{
			name:      "empty value list",
			config:    PartitionConfig{Kind: PartitionColumnValues, Column: "region"},
			expectErr: true,
		},
		{
			name:      "integer range",
			config:    PartitionConfig{Kind: PartitionIntegerRange, Column: "id", RangeStart: 10, RangeEnd: 100},
			expectErr: false,
		},
		{
			name:      "inverted range",
			config:    PartitionConfig{Kind: PartitionIntegerRange, Column: "id", RangeStart: 100, RangeEnd: 10},
			expectErr: true,
		},
		{
			name:      "time window",
			config:    PartitionConfig{Kind: PartitionTimeWindow, Column: "created_at", Interval: 7, Unit: "day"},
			expectErr: false,
		},
		{
			name:      "bad unit",
			config:    PartitionConfig{Kind: PartitionTimeWindow, Column: "created_at", Interval: 7, Unit: "fortnight"},
			expectErr: true,
		},
		{
			name:      "unknown kind",
			config:    PartitionConfig{Kind: "hash", Column: "id"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate(tbl)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
