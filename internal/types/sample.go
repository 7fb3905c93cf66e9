package types

import (
	"fmt"
	"time"
)

// SampleRowLimit caps the number of literal preview rows fetched for the sink.
const SampleRowLimit = 100

// SampleConfig bounds the row subset metrics are computed against.
// Percentage and RowCount are mutually exclusive; the zero value means
// "profile the full table".
type SampleConfig struct {
	Percentage float64 `yaml:"percentage" mapstructure:"percentage"` // (0, 100]
	RowCount   int64   `yaml:"row_count" mapstructure:"row_count"`   // exact sample size
}

// IsZero reports whether no sampling was requested.
func (c SampleConfig) IsZero() bool {
	return c.Percentage == 0 && c.RowCount == 0
}

// Validate checks mutual exclusion and value ranges.
func (c SampleConfig) Validate() error {
	if c.Percentage != 0 && c.RowCount != 0 {
		return fmt.Errorf("sample: percentage and row_count are mutually exclusive")
	}
	if c.Percentage < 0 || c.Percentage > 100 {
		return fmt.Errorf("sample: percentage must be in (0, 100], got %g", c.Percentage)
	}
	if c.RowCount < 0 {
		return fmt.Errorf("sample: row_count must be positive, got %d", c.RowCount)
	}
	return nil
}

// PartitionKind selects how the partition column is filtered.
type PartitionKind string

const (
	// PartitionColumnValues keeps rows whose partition column matches a value set.
	PartitionColumnValues PartitionKind = "column-values"
	// PartitionIntegerRange keeps rows within an inclusive integer range.
	PartitionIntegerRange PartitionKind = "integer-range"
	// PartitionTimeWindow keeps rows newer than now minus Interval * Unit.
	PartitionTimeWindow PartitionKind = "time-window"
)

// PartitionConfig restricts profiling to one partition of the table.
// The filter composes with sampling and is applied before it.
type PartitionConfig struct {
	Kind       PartitionKind `yaml:"kind" mapstructure:"kind"`
	Column     string        `yaml:"column" mapstructure:"column"`
	Values     []string      `yaml:"values" mapstructure:"values"`
	RangeStart int64         `yaml:"range_start" mapstructure:"range_start"`
	RangeEnd   int64         `yaml:"range_end" mapstructure:"range_end"`
	Interval   int           `yaml:"interval" mapstructure:"interval"`
	Unit       string        `yaml:"unit" mapstructure:"unit"` // hour, day, month, year
}

// Validate checks the partition configuration against the mapped table.
// The named column must exist on the table.
func (p *PartitionConfig) Validate(table *Table) error {
	if p.Column == "" {
		return fmt.Errorf("partition: column is required")
	}
	if _, ok := table.Column(p.Column); !ok {
		return fmt.Errorf("partition: column %q does not exist on table %s", p.Column, table.FQN())
	}
	switch p.Kind {
	case PartitionColumnValues:
		if len(p.Values) == 0 {
			return fmt.Errorf("partition: at least one value is required")
		}
	case PartitionIntegerRange:
		if p.RangeEnd < p.RangeStart {
			return fmt.Errorf("partition: range end %d is before start %d", p.RangeEnd, p.RangeStart)
		}
	case PartitionTimeWindow:
		if p.Interval <= 0 {
			return fmt.Errorf("partition: interval must be positive")
		}
		switch p.Unit {
		case "hour", "day", "month", "year":
		default:
			return fmt.Errorf("partition: unknown interval unit %q", p.Unit)
		}
	default:
		return fmt.Errorf("partition: unknown kind %q", p.Kind)
	}
	return nil
}

// TableData is a bounded literal sample of rows handed to the sink
// alongside the computed profile.
type TableData struct {
	Columns []string
	Rows    [][]interface{}
}

// ProfileResult is the nested aggregate produced by one profiling run.
type ProfileResult struct {
	RunID     string
	Table     map[string]interface{}
	Columns   map[string]map[string]interface{}
	System    map[string]interface{}
	StartedAt time.Time
}
