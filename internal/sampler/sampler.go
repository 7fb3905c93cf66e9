// Package sampler produces bounded, partition-aware row subsets for profiling.
package sampler

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dbsmedya/goprofile/internal/dialect"
	"github.com/dbsmedya/goprofile/internal/logger"
	"github.com/dbsmedya/goprofile/internal/types"
)

// randomLabel names the per-row random column added in label-based sampling.
const randomLabel = "profile_random"

// Sampler builds a reusable FROM fragment for one worker's unit of work.
// The fragment is computed once and cached, so every metric computed by
// the owning worker reads the same sample. Samplers are not shared across
// workers; two workers profiling columns of the same table may see
// different random samples.
type Sampler struct {
	db        *sql.DB
	table     *types.Table
	config    types.SampleConfig
	userQuery string
	log       *logger.Logger

	sampleFrom string // cached FROM fragment
	totalRows  int64  // cached count(*), -1 until computed
}

// New creates a sampler bound to one session and table.
func New(db *sql.DB, table *types.Table, config types.SampleConfig, userQuery string, log *logger.Logger) *Sampler {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Sampler{
		db:        db,
		table:     table,
		config:    config,
		userQuery: userQuery,
		log:       log.WithTable(table.FQN()),
		totalRows: -1,
	}
}

// RandomSample returns the FROM fragment metrics should read from:
// the table itself when no sampling or partitioning is configured, the
// user query verbatim when one was supplied, and an aliased random
// sub-selection otherwise. Repeated calls return the same fragment.
func (s *Sampler) RandomSample(ctx context.Context) (string, error) {
	if s.sampleFrom != "" {
		return s.sampleFrom, nil
	}

	switch {
	case s.userQuery != "":
		s.sampleFrom = fmt.Sprintf("(%s) %s", s.userQuery, s.alias("query"))
	case s.config.IsZero() && s.table.Partition == nil:
		// Zero-overhead path: read the table directly.
		s.sampleFrom = s.table.QualifiedName()
	case s.config.IsZero():
		s.sampleFrom = fmt.Sprintf("(SELECT * FROM %s WHERE %s) %s",
			s.table.QualifiedName(), s.partitionFilter(), s.alias("part"))
	case s.config.RowCount > 0:
		from, err := s.rowCountSample(ctx)
		if err != nil {
			return "", err
		}
		s.sampleFrom = from
	default:
		s.sampleFrom = s.percentageSample()
	}
	return s.sampleFrom, nil
}

// rowCountSample labels each row with modulo(random(), total), orders by
// the label and keeps the first N rows. The sample size is exact, at the
// cost of one count(*) over the (partition-filtered) table.
func (s *Sampler) rowCountSample(ctx context.Context) (string, error) {
	total, err := s.TotalRows(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to count rows for sampling: %w", err)
	}
	if total == 0 {
		total = 1 // empty table: modulo by zero must not reach the engine
	}
	s.log.Debugw("Building row-count sample", "requested", s.config.RowCount, "total", total)

	d := s.table.Dialect
	label := dialect.Modulo(d, dialect.Random(d), fmt.Sprintf("%d", total))
	modifier, suffix := dialect.Limit(d, s.config.RowCount)

	return fmt.Sprintf("(SELECT %s* FROM (SELECT *, %s AS %s FROM %s%s) %s ORDER BY %s%s) %s",
		modifier, label, d.Quote(randomLabel),
		s.table.QualifiedName(), s.whereClause(),
		s.alias("rnd"), d.Quote(randomLabel), suffix,
		s.alias("sample"),
	), nil
}

// percentageSample keeps rows whose random label falls at or below the
// requested percentage. Engines with native probabilistic block sampling
// use the native construct instead, unless a partition filter must
// compose with it.
func (s *Sampler) percentageSample() string {
	d := s.table.Dialect

	if clause, ok := dialect.TableSample(d, s.config.Percentage); ok && s.table.Partition == nil {
		return fmt.Sprintf("(SELECT * FROM %s %s) %s",
			s.table.QualifiedName(), clause, s.alias("sample"))
	}

	label := dialect.Modulo(d, dialect.Random(d), "100")
	return fmt.Sprintf("(SELECT * FROM (SELECT *, %s AS %s FROM %s%s) %s WHERE %s <= %g) %s",
		label, d.Quote(randomLabel),
		s.table.QualifiedName(), s.whereClause(),
		s.alias("rnd"), d.Quote(randomLabel), s.config.Percentage,
		s.alias("sample"),
	)
}

// TotalRows counts the rows sampling draws from, honoring the partition
// filter. The count is computed once and cached.
func (s *Sampler) TotalRows(ctx context.Context) (int64, error) {
	if s.totalRows >= 0 {
		return s.totalRows, nil
	}
	query := fmt.Sprintf("SELECT count(*) FROM %s%s", s.table.QualifiedName(), s.whereClause())

	var total int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	s.totalRows = total
	return total, nil
}

// FetchSampleData retrieves a bounded literal sample of rows for the sink.
// User queries are fetched verbatim; otherwise mapped columns are read
// from the sample fragment, which keeps the random label out of the preview.
func (s *Sampler) FetchSampleData(ctx context.Context) (*types.TableData, error) {
	if s.userQuery != "" {
		return s.fetchRows(ctx, s.userQuery)
	}

	from, err := s.RandomSample(ctx)
	if err != nil {
		return nil, err
	}

	d := s.table.Dialect
	cols := make([]string, len(s.table.Columns))
	for i, c := range s.table.Columns {
		cols[i] = d.Quote(c.Name)
	}
	modifier, suffix := dialect.Limit(d, types.SampleRowLimit)
	query := fmt.Sprintf("SELECT %s%s FROM %s%s", modifier, strings.Join(cols, ", "), from, suffix)
	return s.fetchRows(ctx, query)
}

// fetchRows runs query and drains at most SampleRowLimit rows. The cap is
// enforced client-side as well because user queries carry no LIMIT.
func (s *Sampler) fetchRows(ctx context.Context, query string) (*types.TableData, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sample rows: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	data := &types.TableData{Columns: columns}
	for rows.Next() {
		if len(data.Rows) >= types.SampleRowLimit {
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
		for i, v := range values {
			values[i] = types.NormalizeValue(v)
		}
		data.Rows = append(data.Rows, values)
	}
	return data, rows.Err()
}

// whereClause renders the partition filter as a leading WHERE, or nothing.
func (s *Sampler) whereClause() string {
	if s.table.Partition == nil {
		return ""
	}
	return " WHERE " + s.partitionFilter()
}

// partitionFilter renders the partition predicate. It is applied before
// any random sampling so the sample is always a subset of the partition.
func (s *Sampler) partitionFilter() string {
	p := s.table.Partition
	d := s.table.Dialect
	col := d.Quote(p.Column)

	switch p.Kind {
	case types.PartitionColumnValues:
		quoted := make([]string, len(p.Values))
		for i, v := range p.Values {
			quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
		}
		return fmt.Sprintf("%s IN (%s)", col, strings.Join(quoted, ", "))
	case types.PartitionIntegerRange:
		return fmt.Sprintf("%s BETWEEN %d AND %d", col, p.RangeStart, p.RangeEnd)
	case types.PartitionTimeWindow:
		return fmt.Sprintf("%s >= %s", col, dialect.TimeAgo(d, p.Interval, p.Unit))
	default:
		// Validate rejects unknown kinds before a sampler is built.
		return "1=1"
	}
}

// alias derives a stable sub-select alias from the table name.
func (s *Sampler) alias(suffix string) string {
	return s.table.Dialect.Quote(s.table.Name + "_" + suffix)
}
