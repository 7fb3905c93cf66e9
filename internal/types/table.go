package types

import "github.com/dbsmedya/goprofile/internal/dialect"

// Table is an opaque reference to a relational table or view bound to one
// profiling run. It carries the dialect identifier, the mapped column
// list and optional partition metadata. A Table is built once per run and
// shared read-only across workers; it holds no per-call mutable state.
type Table struct {
	Dialect   dialect.Dialect
	Schema    string
	Name      string
	Columns   []Column
	Partition *PartitionConfig
}

// QualifiedName returns the quoted schema-qualified table name.
func (t *Table) QualifiedName() string {
	if t.Schema != "" {
		return t.Dialect.Quote(t.Schema) + "." + t.Dialect.Quote(t.Name)
	}
	return t.Dialect.Quote(t.Name)
}

// FQN returns the unquoted dotted identifier used for status reporting.
func (t *Table) FQN() string {
	if t.Schema != "" {
		return t.Schema + "." + t.Name
	}
	return t.Name
}

// Column returns the named column, if mapped.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
