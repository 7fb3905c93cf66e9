package profiler

import (
	"fmt"

	"github.com/dbsmedya/goprofile/internal/dialect"
	"github.com/dbsmedya/goprofile/internal/types"
)

// tableSizeQuery builds the catalog lookup for the table's storage size.
// Engines without a cheap catalog answer report false and the metric is
// omitted rather than paid for with a scan.
func tableSizeQuery(d dialect.Dialect, table *types.Table) (string, bool) {
	switch d {
	case dialect.MySQL:
		return fmt.Sprintf(
			"SELECT data_length + index_length AS `sizeInBytes` FROM information_schema.tables"+
				" WHERE table_schema = '%s' AND table_name = '%s'",
			escapeLiteral(table.Schema), escapeLiteral(table.Name)), true
	case dialect.Postgres:
		return fmt.Sprintf(
			`SELECT pg_total_relation_size('%s') AS "sizeInBytes"`,
			escapeLiteral(table.QualifiedName())), true
	default:
		return "", false
	}
}

// systemProfileQuery builds the lookup for engine-maintained statistics:
// aggregates the engine already knows without a scan. Engines without an
// accessible statistics catalog report false and the system map stays empty.
func systemProfileQuery(d dialect.Dialect, table *types.Table) (string, bool) {
	switch d {
	case dialect.MySQL:
		return fmt.Sprintf(
			"SELECT table_rows AS `rowCountEstimate`, update_time AS `lastUpdate`"+
				" FROM information_schema.tables WHERE table_schema = '%s' AND table_name = '%s'",
			escapeLiteral(table.Schema), escapeLiteral(table.Name)), true
	case dialect.Postgres:
		return fmt.Sprintf(
			`SELECT n_live_tup AS "rowCountEstimate", n_tup_ins AS "inserts",`+
				` n_tup_upd AS "updates", n_tup_del AS "deletes"`+
				` FROM pg_stat_user_tables WHERE schemaname = '%s' AND relname = '%s'`,
			escapeLiteral(table.Schema), escapeLiteral(table.Name)), true
	default:
		return "", false
	}
}
