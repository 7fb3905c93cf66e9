// Package runner executes compiled metric SQL against a sampled subset.
package runner

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dbsmedya/goprofile/internal/logger"
	"github.com/dbsmedya/goprofile/internal/sampler"
	"github.com/dbsmedya/goprofile/internal/types"
)

// Expr is one aliased select-list expression. The alias becomes the
// result key, so callers use the metric name.
type Expr struct {
	Alias string
	SQL   string
}

// QueryRunner binds one session, one table and one sampler. Every query
// it issues reads from the sampler's cached FROM fragment, so all
// metrics of the owning worker observe the same sample. Like the
// sampler, a runner is owned by exactly one worker.
type QueryRunner struct {
	db      *sql.DB
	table   *types.Table
	sampler *sampler.Sampler
	log     *logger.Logger
}

// New creates a runner over db for table, reading from smp.
func New(db *sql.DB, table *types.Table, smp *sampler.Sampler, log *logger.Logger) *QueryRunner {
	if log == nil {
		log = logger.NewDefault()
	}
	return &QueryRunner{
		db:      db,
		table:   table,
		sampler: smp,
		log:     log.WithTable(table.FQN()),
	}
}

// Table returns the table this runner is bound to.
func (r *QueryRunner) Table() *types.Table {
	return r.table
}

// Sampler returns the sampler this runner reads from.
func (r *QueryRunner) Sampler() *sampler.Sampler {
	return r.sampler
}

// SampleFrom resolves the FROM fragment all metric queries read from.
func (r *QueryRunner) SampleFrom(ctx context.Context) (string, error) {
	return r.sampler.RandomSample(ctx)
}

// SelectFirstFromSample evaluates the given expressions in one SELECT
// against the sample and returns the single result row keyed by alias.
// Batching all applicable expressions into one statement is what keeps
// static metrics a single table scan.
func (r *QueryRunner) SelectFirstFromSample(ctx context.Context, exprs ...Expr) (map[string]interface{}, error) {
	if len(exprs) == 0 {
		return map[string]interface{}{}, nil
	}

	from, err := r.sampler.RandomSample(ctx)
	if err != nil {
		return nil, err
	}

	d := r.table.Dialect
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = fmt.Sprintf("%s AS %s", e.SQL, d.Quote(e.Alias))
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(parts, ", "), from)

	return r.SelectFirstFromQuery(ctx, query)
}

// SelectColumnFromSample returns the non-null values of one column read
// from the sample, for metrics evaluated in memory instead of in SQL.
func (r *QueryRunner) SelectColumnFromSample(ctx context.Context, col types.Column) ([]interface{}, error) {
	from, err := r.sampler.RandomSample(ctx)
	if err != nil {
		return nil, err
	}

	quoted := r.table.Dialect.Quote(col.Name)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s IS NOT NULL", quoted, from, quoted)

	rows, err := r.allRows(ctx, query, 0)
	if err != nil {
		return nil, err
	}
	values := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		values = append(values, row[col.Name])
	}
	return values, nil
}

// SelectFirstFromQuery runs query and returns its first row keyed by
// result column name. A query with no rows returns an empty map.
func (r *QueryRunner) SelectFirstFromQuery(ctx context.Context, query string) (map[string]interface{}, error) {
	rows, err := r.allRows(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return map[string]interface{}{}, nil
	}
	return rows[0], nil
}

// SelectAllFromQuery runs query and returns every row keyed by result
// column name, in result order.
func (r *QueryRunner) SelectAllFromQuery(ctx context.Context, query string) ([]map[string]interface{}, error) {
	return r.allRows(ctx, query, 0)
}

// allRows scans up to limit rows into maps; limit 0 means all rows.
func (r *QueryRunner) allRows(ctx context.Context, query string, limit int) ([]map[string]interface{}, error) {
	r.log.Debugw("Running metric query", "query", query)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]interface{}
	for rows.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(columns))
		for i, name := range columns {
			row[name] = types.NormalizeValue(values[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
