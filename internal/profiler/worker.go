package profiler

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dbsmedya/goprofile/internal/dialect"
	"github.com/dbsmedya/goprofile/internal/logger"
	"github.com/dbsmedya/goprofile/internal/metrics"
	"github.com/dbsmedya/goprofile/internal/runner"
	"github.com/dbsmedya/goprofile/internal/sampler"
	"github.com/dbsmedya/goprofile/internal/types"
)

// degradableOnOverflow names the metrics dropped when a Static unit hits
// a numeric-overflow error. The remaining metrics are retried and the
// dropped ones surface as explicit nulls, never missing keys.
var degradableOnOverflow = map[string]bool{
	"sum":    true,
	"mean":   true,
	"stddev": true,
}

// workerContext is the state one worker builds once and reuses for every
// unit it handles: its session, its sampler and its runner. The sampler
// caches its random sample, so all units handled by the same worker read
// a consistent sample. Nothing here is shared between workers.
type workerContext struct {
	session *sql.DB
	sampler *sampler.Sampler
	runner  *runner.QueryRunner
	log     *logger.Logger
}

func (p *Profiler) newWorkerContext(table *types.Table, sample types.SampleConfig, userQuery string, log *logger.Logger) *workerContext {
	session := p.db
	smp := sampler.New(session, table, sample, userQuery, log)
	return &workerContext{
		session: session,
		sampler: smp,
		runner:  runner.New(session, table, smp, log),
		log:     log,
	}
}

// handler computes one work unit and returns its partial result row.
type handler func(ctx context.Context, wc *workerContext, unit WorkUnit) (map[string]interface{}, error)

func (p *Profiler) handlers() map[metrics.Type]handler {
	return map[metrics.Type]handler{
		metrics.TypeTable:  p.computeTable,
		metrics.TypeSystem: p.computeSystem,
		metrics.TypeStatic: p.computeStatic,
		metrics.TypeWindow: p.computeWindow,
		metrics.TypeQuery:  p.computeQuery,
	}
}

// dispatch routes the unit to its taxonomy handler. An unregistered
// type logs a warning and computes nothing.
func (p *Profiler) dispatch(ctx context.Context, wc *workerContext, unit WorkUnit) (map[string]interface{}, error) {
	h, ok := p.handle[unit.Type]
	if !ok {
		wc.log.Warnw("No handler registered for metric type", "type", string(unit.Type))
		return nil, nil
	}
	return h(ctx, wc, unit)
}

// compileExprs compiles SQL metrics into aliased expressions, silently
// skipping metrics not applicable to the column's type family.
func compileExprs(ms []metrics.Metric, col types.Column, from string, d dialect.Dialect) []runner.Expr {
	var exprs []runner.Expr
	for _, m := range ms {
		sm, ok := m.(metrics.SQLMetric)
		if !ok {
			continue
		}
		expr, ok := sm.Compile(col, from, d)
		if !ok {
			continue
		}
		exprs = append(exprs, runner.Expr{Alias: m.Name(), SQL: expr})
	}
	return exprs
}

// computeStatic runs every applicable static metric for the column in
// one statement. On a known numeric-overflow error the statement is
// retried without the widening aggregates and the dropped metrics are
// reported as explicit nulls.
func (p *Profiler) computeStatic(ctx context.Context, wc *workerContext, unit WorkUnit) (map[string]interface{}, error) {
	col := *unit.Column
	d := wc.runner.Table().Dialect

	from, err := wc.runner.SampleFrom(ctx)
	if err != nil {
		return nil, err
	}
	exprs := compileExprs(unit.Metrics, col, from, d)

	row, err := wc.runner.SelectFirstFromSample(ctx, exprs...)
	if err != nil {
		if !dialect.IsOverflow(d, err) {
			return nil, err
		}

		wc.log.Warnw("Numeric overflow, retrying without widening aggregates",
			"column", col.Name, "error", err)

		reduced := make([]runner.Expr, 0, len(exprs))
		for _, e := range exprs {
			if !degradableOnOverflow[e.Alias] {
				reduced = append(reduced, e)
			}
		}
		row, err = wc.runner.SelectFirstFromSample(ctx, reduced...)
		if err != nil {
			return nil, err
		}
		for _, e := range exprs {
			if degradableOnOverflow[e.Alias] {
				row[e.Alias] = nil
			}
		}
	}

	p.computeInMemory(ctx, wc, col, unit.Metrics, row)
	if len(row) == 0 {
		return nil, nil
	}
	return row, nil
}

// computeInMemory evaluates metrics the engine could not express by
// reading the sampled values once and folding them in process. SQLite's
// missing stddev builtin is the motivating case. Metrics already present
// in row, including explicit overflow nulls, are left alone.
func (p *Profiler) computeInMemory(ctx context.Context, wc *workerContext, col types.Column, ms []metrics.Metric, row map[string]interface{}) {
	if col.Kind != types.KindQuantifiable {
		return
	}
	var missing []string
	for _, m := range ms {
		if _, done := row[m.Name()]; done {
			continue
		}
		if _, isSQL := m.(metrics.SQLMetric); !isSQL {
			continue
		}
		if metrics.HasFallback(m.Name()) {
			missing = append(missing, m.Name())
		}
	}
	if len(missing) == 0 {
		return
	}

	raw, err := wc.runner.SelectColumnFromSample(ctx, col)
	if err != nil {
		wc.log.Warnw("In-memory metric fetch failed", "column", col.Name, "error", err)
		return
	}
	values := make([]float64, 0, len(raw))
	for _, v := range raw {
		if f, ok := types.ToFloat64(v); ok {
			values = append(values, f)
		}
	}
	for _, name := range missing {
		v, err := metrics.FallbackCompute(name, values)
		if err != nil {
			row[name] = nil
			continue
		}
		row[name] = v
	}
}

// computeWindow runs the column's window metrics in one statement. A
// window statement cannot be decomposed, so a numeric-overflow error
// skips the whole unit and reports nulls.
func (p *Profiler) computeWindow(ctx context.Context, wc *workerContext, unit WorkUnit) (map[string]interface{}, error) {
	col := *unit.Column
	d := wc.runner.Table().Dialect

	from, err := wc.runner.SampleFrom(ctx)
	if err != nil {
		return nil, err
	}
	exprs := compileExprs(unit.Metrics, col, from, d)
	if len(exprs) == 0 {
		return nil, nil
	}

	row, err := wc.runner.SelectFirstFromSample(ctx, exprs...)
	if err == nil {
		return row, nil
	}
	if !dialect.IsOverflow(d, err) {
		return nil, err
	}

	wc.log.Warnw("Numeric overflow on window metrics, skipping", "column", col.Name)
	row = make(map[string]interface{}, len(exprs))
	for _, e := range exprs {
		row[e.Alias] = nil
	}
	return row, nil
}

// computeQuery runs each query metric's dedicated statement. Scalar
// results merge into the row; multi-valued results are folded into the
// metric's published shape under the metric name.
func (p *Profiler) computeQuery(ctx context.Context, wc *workerContext, unit WorkUnit) (map[string]interface{}, error) {
	col := *unit.Column
	d := wc.runner.Table().Dialect

	from, err := wc.runner.SampleFrom(ctx)
	if err != nil {
		return nil, err
	}

	row := map[string]interface{}{}
	for _, m := range unit.Metrics {
		qm, ok := m.(metrics.QueryMetric)
		if !ok {
			continue
		}
		query, ok := qm.Query(col, from, d)
		if !ok {
			continue
		}

		if qm.MultiValued() {
			rows, err := wc.runner.SelectAllFromQuery(ctx, query)
			if err != nil {
				return nil, err
			}
			if f, ok := m.(metrics.RowFolder); ok {
				row[m.Name()] = f.Fold(rows)
			} else {
				row[m.Name()] = rows
			}
			continue
		}

		scalar, err := wc.runner.SelectFirstFromQuery(ctx, query)
		if err != nil {
			return nil, err
		}
		for k, v := range scalar {
			row[k] = v
		}
	}
	return row, nil
}

// computeTable computes the per-table aggregates. Row counting goes
// through the sampler's count so a partition filter is honored; size
// comes from the engine catalog where one is available. A failure here
// is fatal to the run.
func (p *Profiler) computeTable(ctx context.Context, wc *workerContext, unit WorkUnit) (map[string]interface{}, error) {
	table := wc.runner.Table()
	row := map[string]interface{}{}

	for _, m := range unit.Metrics {
		switch m.Name() {
		case "rowCount":
			total, err := wc.sampler.TotalRows(ctx)
			if err != nil {
				return nil, err
			}
			row["rowCount"] = total
		case "columnCount":
			row["columnCount"] = int64(len(table.Columns))
		case "columnNames":
			names := make([]string, len(table.Columns))
			for i, c := range table.Columns {
				names[i] = c.Name
			}
			row["columnNames"] = strings.Join(names, ",")
		case "sizeInBytes":
			query, ok := tableSizeQuery(table.Dialect, table)
			if !ok {
				continue
			}
			r, err := wc.runner.SelectFirstFromQuery(ctx, query)
			if err != nil {
				return nil, err
			}
			if v, ok := r["sizeInBytes"]; ok {
				row["sizeInBytes"] = v
			}
		}
	}
	return row, nil
}

// computeSystem reads engine-maintained statistics instead of scanning.
func (p *Profiler) computeSystem(ctx context.Context, wc *workerContext, unit WorkUnit) (map[string]interface{}, error) {
	table := wc.runner.Table()

	query, ok := systemProfileQuery(table.Dialect, table)
	if !ok {
		return nil, nil
	}
	return wc.runner.SelectFirstFromQuery(ctx, query)
}
