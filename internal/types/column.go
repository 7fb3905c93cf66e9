// Package types contains shared types used across multiple packages to avoid import cycles.
package types

import (
	"strings"

	"github.com/dbsmedya/goprofile/internal/dialect"
)

// ColumnKind groups declared column types into the families that decide
// which metrics are applicable to a column.
type ColumnKind int

const (
	// KindOther covers types no numeric or text metric applies to.
	KindOther ColumnKind = iota
	// KindQuantifiable covers numeric types; all aggregates apply directly.
	KindQuantifiable
	// KindConcatenable covers text types; numeric aggregates apply to the value length.
	KindConcatenable
	// KindDateTime covers date, time and timestamp types.
	KindDateTime
)

func (k ColumnKind) String() string {
	switch k {
	case KindQuantifiable:
		return "quantifiable"
	case KindConcatenable:
		return "concatenable"
	case KindDateTime:
		return "datetime"
	default:
		return "other"
	}
}

// Column is a (name, declared type) pair belonging to exactly one Table.
type Column struct {
	Name     string
	DataType string // declared type as reported by the catalog
	Kind     ColumnKind
}

var kindByTypeName = map[string]ColumnKind{
	// quantifiable
	"tinyint": KindQuantifiable, "smallint": KindQuantifiable,
	"mediumint": KindQuantifiable, "int": KindQuantifiable,
	"integer": KindQuantifiable, "bigint": KindQuantifiable,
	"decimal": KindQuantifiable, "numeric": KindQuantifiable,
	"number": KindQuantifiable, "float": KindQuantifiable,
	"float32": KindQuantifiable, "float64": KindQuantifiable,
	"real": KindQuantifiable, "double": KindQuantifiable,
	"double precision": KindQuantifiable, "money": KindQuantifiable,
	"int8": KindQuantifiable, "int16": KindQuantifiable,
	"int32": KindQuantifiable, "int64": KindQuantifiable,
	"uint8": KindQuantifiable, "uint16": KindQuantifiable,
	"uint32": KindQuantifiable, "uint64": KindQuantifiable,
	"hugeint": KindQuantifiable,

	// concatenable
	"char": KindConcatenable, "nchar": KindConcatenable,
	"varchar": KindConcatenable, "nvarchar": KindConcatenable,
	"character": KindConcatenable, "character varying": KindConcatenable,
	"text": KindConcatenable, "ntext": KindConcatenable,
	"tinytext": KindConcatenable, "mediumtext": KindConcatenable,
	"longtext": KindConcatenable, "string": KindConcatenable,
	"clob": KindConcatenable,

	// datetime
	"date": KindDateTime, "datetime": KindDateTime,
	"datetime2": KindDateTime, "smalldatetime": KindDateTime,
	"timestamp": KindDateTime, "timestamptz": KindDateTime,
	"timestamp with time zone": KindDateTime,
	"timestamp without time zone": KindDateTime,
	"time": KindDateTime, "datetime64": KindDateTime,
}

// NormalizeColumn builds a Column from a raw catalog row, folding away
// vendor quirks (ClickHouse Nullable wrappers, precision suffixes,
// Snowflake NUMBER aliases) so the rest of the engine only sees the
// canonical type family. It is a pure function: dialect quirks are
// handled here explicitly instead of patching driver behavior globally.
func NormalizeColumn(d dialect.Dialect, name, rawType string) Column {
	normalized := strings.ToLower(strings.TrimSpace(rawType))

	// ClickHouse wraps nullable columns: Nullable(Int64).
	if d == dialect.ClickHouse {
		for strings.HasPrefix(normalized, "nullable(") && strings.HasSuffix(normalized, ")") {
			normalized = normalized[len("nullable(") : len(normalized)-1]
		}
		normalized = strings.TrimPrefix(normalized, "lowcardinality(")
		normalized = strings.TrimSuffix(normalized, ")")
	}

	// Strip precision/length suffixes: varchar(255), decimal(10,2).
	if idx := strings.IndexByte(normalized, '('); idx > 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	// MySQL reports unsigned variants: bigint unsigned.
	normalized = strings.TrimSuffix(normalized, " unsigned")

	kind, ok := kindByTypeName[normalized]
	if !ok {
		kind = KindOther
	}
	return Column{Name: name, DataType: rawType, Kind: kind}
}
