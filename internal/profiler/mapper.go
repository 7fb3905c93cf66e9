package profiler

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dbsmedya/goprofile/internal/config"
	"github.com/dbsmedya/goprofile/internal/dialect"
	"github.com/dbsmedya/goprofile/internal/logger"
	"github.com/dbsmedya/goprofile/internal/sqlutil"
	"github.com/dbsmedya/goprofile/internal/types"
)

// Mapper resolves a configured table job against the engine's live
// catalog. Columns declared in the configuration but absent from the
// catalog are orphans: they are warned about and excluded, never fatal.
type Mapper struct {
	db  *sql.DB
	d   dialect.Dialect
	log *logger.Logger
}

// NewMapper creates a mapper bound to one session and dialect.
func NewMapper(db *sql.DB, d dialect.Dialect, log *logger.Logger) *Mapper {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Mapper{db: db, d: d, log: log}
}

// MapTable builds the shared read-only table handle for one job. The
// configured schema and table names end up interpolated into catalog and
// metric SQL, so they are validated as identifiers first.
func (m *Mapper) MapTable(ctx context.Context, job *config.TableConfig, status *types.ProcessorStatus) (*types.Table, error) {
	if !sqlutil.IsValidIdentifier(job.Table) {
		return nil, &sqlutil.InvalidIdentifierError{Name: job.Table}
	}
	if job.Schema != "" && !sqlutil.IsValidIdentifier(job.Schema) {
		return nil, &sqlutil.InvalidIdentifierError{Name: job.Schema}
	}

	fqn := job.Table
	if job.Schema != "" {
		fqn = job.Schema + "." + job.Table
	}

	live, err := m.liveColumns(ctx, job.Schema, job.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog for %s: %w", fqn, err)
	}
	if len(live) == 0 {
		return nil, fmt.Errorf("table %s not found in catalog", fqn)
	}

	table := &types.Table{
		Dialect: m.d,
		Schema:  job.Schema,
		Name:    job.Table,
		Columns: m.filterColumns(live, job, fqn, status),
	}

	if job.Partition != nil {
		if err := job.Partition.Validate(table); err != nil {
			return nil, err
		}
		table.Partition = job.Partition
	}
	return table, nil
}

// liveColumns reads (name, declared type) pairs from the catalog and
// normalizes vendor quirks into canonical type families.
func (m *Mapper) liveColumns(ctx context.Context, schema, name string) ([]types.Column, error) {
	rows, err := m.db.QueryContext(ctx, catalogQuery(m.d, schema, name))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Column
	for rows.Next() {
		var colName, rawType string
		if err := rows.Scan(&colName, &rawType); err != nil {
			return nil, err
		}
		out = append(out, types.NormalizeColumn(m.d, colName, rawType))
	}
	return out, rows.Err()
}

// filterColumns applies the include/exclude lists. Included names
// missing from the catalog are orphaned: logged, recorded as a warning
// and dropped from the handle.
func (m *Mapper) filterColumns(live []types.Column, job *config.TableConfig, fqn string, status *types.ProcessorStatus) []types.Column {
	if len(job.IncludeColumns) > 0 {
		byName := make(map[string]types.Column, len(live))
		for _, c := range live {
			byName[c.Name] = c
		}

		var out []types.Column
		for _, name := range job.IncludeColumns {
			c, ok := byName[name]
			if !ok {
				m.log.Warnw("Declared column missing from catalog, excluding",
					"table", fqn, "column", name)
				if status != nil {
					status.Warn(fmt.Sprintf("column %s.%s not found in catalog", fqn, name))
				}
				continue
			}
			out = append(out, c)
		}
		return out
	}

	if len(job.ExcludeColumns) > 0 {
		excluded := make(map[string]bool, len(job.ExcludeColumns))
		for _, name := range job.ExcludeColumns {
			excluded[name] = true
		}
		var out []types.Column
		for _, c := range live {
			if !excluded[c.Name] {
				out = append(out, c)
			}
		}
		return out
	}

	return live
}

// catalogQuery builds the column listing statement for the dialect.
func catalogQuery(d dialect.Dialect, schema, name string) string {
	if d == dialect.SQLite {
		return fmt.Sprintf("SELECT name, type FROM pragma_table_info('%s')", escapeLiteral(name))
	}

	q := fmt.Sprintf(
		"SELECT column_name, data_type FROM information_schema.columns WHERE table_name = '%s'",
		escapeLiteral(name))
	if schema != "" {
		q += fmt.Sprintf(" AND table_schema = '%s'", escapeLiteral(schema))
	}
	return q + " ORDER BY ordinal_position"
}

func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
