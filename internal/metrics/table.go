package metrics

// tableMetric marks a per-table aggregate computed by the dialect-specific
// table construct in the profiler rather than by a compiled expression.
type tableMetric struct{ name string }

func (m tableMetric) Name() string { return m.name }
func (tableMetric) Type() Type     { return TypeTable }

// RowCount is the number of rows in the table.
func RowCount() Metric { return tableMetric{name: "rowCount"} }

// ColumnCount is the number of mapped columns.
func ColumnCount() Metric { return tableMetric{name: "columnCount"} }

// ColumnNames is the comma-joined mapped column list.
func ColumnNames() Metric { return tableMetric{name: "columnNames"} }

// SizeInBytes is the storage size reported by the engine catalog, where available.
func SizeInBytes() Metric { return tableMetric{name: "sizeInBytes"} }

// systemMetric marks an out-of-band metric satisfied from engine-reported
// statistics instead of a scan.
type systemMetric struct{ name string }

func (m systemMetric) Name() string { return m.name }
func (systemMetric) Type() Type     { return TypeSystem }

// SystemProfile reads already-known aggregates (row counts, sizes) from
// the engine's own catalog statistics.
func SystemProfile() Metric { return systemMetric{name: "systemProfile"} }
