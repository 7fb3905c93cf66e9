// Package profiler orchestrates concurrent metric computation for one
// profiling run: a bounded worker pool computes per-column work units,
// a single collector assembles the result, and composed and hybrid
// metrics are derived afterwards from the collected column results.
package profiler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dbsmedya/goprofile/internal/config"
	"github.com/dbsmedya/goprofile/internal/dialect"
	"github.com/dbsmedya/goprofile/internal/logger"
	"github.com/dbsmedya/goprofile/internal/metrics"
	"github.com/dbsmedya/goprofile/internal/sampler"
	"github.com/dbsmedya/goprofile/internal/types"
)

// ErrTimeout is returned when the pool-wide deadline expires. Unlike a
// per-unit failure it voids the whole run: a timeout means the engine is
// unavailable, not that one column's data is odd.
var ErrTimeout = errors.New("profiling run timed out")

const (
	defaultThreadCount = 5
	defaultTimeout     = 43200 * time.Second
)

// Options configures a Profiler. Zero values fall back to defaults.
type Options struct {
	ThreadCount int
	Timeout     time.Duration
	Registry    *metrics.Registry
	Status      *types.ProcessorStatus
	Logger      *logger.Logger
}

// Profiler computes profiles for tables reachable through one session
// factory. It is safe to profile several tables sequentially with the
// same Profiler; the ProcessorStatus accumulates across tables.
type Profiler struct {
	db       *sql.DB
	dialect  dialect.Dialect
	registry *metrics.Registry
	status   *types.ProcessorStatus
	log      *logger.Logger
	handle   map[metrics.Type]handler

	threadCount int
	timeout     time.Duration
}

// New creates a Profiler over db speaking the given dialect.
func New(db *sql.DB, d dialect.Dialect, opts Options) *Profiler {
	if opts.ThreadCount <= 0 {
		opts.ThreadCount = defaultThreadCount
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Registry == nil {
		opts.Registry = metrics.Default()
	}
	if opts.Status == nil {
		opts.Status = &types.ProcessorStatus{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewDefault()
	}

	p := &Profiler{
		db:          db,
		dialect:     d,
		registry:    opts.Registry,
		status:      opts.Status,
		log:         opts.Logger.WithDialect(string(d)),
		threadCount: opts.ThreadCount,
		timeout:     opts.Timeout,
	}
	p.handle = p.handlers()
	return p
}

// Status exposes the accumulated run status for the workflow layer.
func (p *Profiler) Status() *types.ProcessorStatus {
	return p.status
}

// ProfileTable maps one configured table job, computes its profile and
// fetches a bounded preview of sample rows for the sink. The preview is
// best-effort: a failure there degrades to a warning.
func (p *Profiler) ProfileTable(ctx context.Context, job *config.TableConfig) (*types.ProfileResult, *types.TableData, error) {
	runID := uuid.NewString()
	log := p.log.WithRun(runID)

	mapper := NewMapper(p.db, p.dialect, log)
	table, err := mapper.MapTable(ctx, job, p.status)
	if err != nil {
		return nil, nil, err
	}

	selected := p.selectMetrics(job.Metrics, log)
	units := BuildWorkUnits(table, selected)

	result, err := p.Compute(ctx, table, job.Sample, job.ProfileQuery, units)
	if err != nil {
		return nil, nil, err
	}
	result.RunID = runID

	smp := sampler.New(p.db, table, job.Sample, job.ProfileQuery, log)
	data, err := smp.FetchSampleData(ctx)
	if err != nil {
		log.Warnw("Failed to fetch sample rows", "table", table.FQN(), "error", err)
		p.status.Warn(fmt.Sprintf("sample rows for %s: %v", table.FQN(), err))
		data = nil
	}
	return result, data, nil
}

// selectMetrics resolves the job's metric list against the registry; an
// empty list selects every registered metric. Unknown names are warned
// about and skipped.
func (p *Profiler) selectMetrics(names []string, log *logger.Logger) []metrics.Metric {
	if len(names) == 0 {
		return p.registry.All()
	}
	var out []metrics.Metric
	for _, name := range names {
		m, ok := p.registry.Lookup(name)
		if !ok {
			log.Warnw("Unknown metric in configuration, skipping", "metric", name)
			continue
		}
		out = append(out, m)
	}
	return out
}

// unitResult is one worker's partial output handed to the collector.
type unitResult struct {
	typ    metrics.Type
	column string
	row    map[string]interface{}
}

// Compute runs the work units against the table and assembles the
// profile. Pooled units (table, system, static, window, query) execute
// on a bounded worker pool; composed and hybrid units run afterwards
// from the collected column results. Per-unit failures are recorded and
// the run continues; a table-unit failure or a pool-wide timeout aborts.
func (p *Profiler) Compute(ctx context.Context, table *types.Table, sample types.SampleConfig, userQuery string, units []WorkUnit) (*types.ProfileResult, error) {
	started := time.Now().UTC()
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	log := p.log.WithTable(table.FQN())

	var pooledUnits, postUnits []WorkUnit
	for _, u := range units {
		if u.pooled() {
			pooledUnits = append(pooledUnits, u)
		} else {
			postUnits = append(postUnits, u)
		}
	}
	log.Infow("Starting profile computation",
		"units", len(units), "workers", p.threadCount, "columns", len(table.Columns))

	result := &types.ProfileResult{
		Table:     map[string]interface{}{},
		Columns:   map[string]map[string]interface{}{},
		System:    map[string]interface{}{},
		StartedAt: started,
	}

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan WorkUnit)
	out := make(chan unitResult)

	g.Go(func() error {
		defer close(jobs)
		for _, u := range pooledUnits {
			select {
			case jobs <- u:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < p.threadCount; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return p.worker(gctx, table, sample, userQuery, jobs, out, log)
		})
	}
	go func() {
		wg.Wait()
		close(out)
	}()

	// Aggregation happens only here, in the goroutine draining the
	// results channel, so the result maps need no locking.
	for r := range out {
		switch r.typ {
		case metrics.TypeTable:
			mergeRow(result.Table, r.row)
		case metrics.TypeSystem:
			mergeRow(result.System, r.row)
		default:
			col := result.Columns[r.column]
			if col == nil {
				col = map[string]interface{}{}
				result.Columns[r.column] = col
			}
			mergeRow(col, r.row)
		}
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Errorw("Profile run timed out, aborting", "timeout", p.timeout)
			return nil, ErrTimeout
		}
		return nil, err
	}

	if err := p.computePostUnits(ctx, table, sample, userQuery, postUnits, result, log); err != nil {
		return nil, err
	}

	p.annotate(result)
	p.recordScanned(table, result)

	log.Infow("Profile computation finished",
		"columns", len(result.Columns), "elapsed", time.Since(started).Seconds())
	return result, nil
}

// worker owns one workerContext and drains the jobs channel. A failed
// column unit is recorded and skipped; a failed table unit aborts the
// run since the profile is meaningless without its table aggregates.
func (p *Profiler) worker(ctx context.Context, table *types.Table, sample types.SampleConfig, userQuery string, jobs <-chan WorkUnit, out chan<- unitResult, log *logger.Logger) error {
	wc := p.newWorkerContext(table, sample, userQuery, log)

	for unit := range jobs {
		row, err := p.dispatch(ctx, wc, unit)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if unit.Type == metrics.TypeTable {
				return fmt.Errorf("table metrics for %s: %w", table.FQN(), err)
			}
			entity := unit.Entity(table)
			log.Errorw("Work unit failed",
				"entity", entity, "type", string(unit.Type), "error", err)
			p.status.Failed(entity, err.Error(), fmt.Sprintf("%+v", err))
			continue
		}
		if len(row) == 0 {
			continue
		}

		select {
		case out <- unitResult{typ: unit.Type, column: unit.ColumnName(), row: row}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// computePostUnits derives composed metrics from collected column
// results and computes hybrid metrics, which additionally query the
// sample. Hybrid queries run in a fresh worker context owned by the
// collector, keeping them self-consistent with their dependencies.
func (p *Profiler) computePostUnits(ctx context.Context, table *types.Table, sample types.SampleConfig, userQuery string, units []WorkUnit, result *types.ProfileResult, log *logger.Logger) error {
	var wc *workerContext

	for _, unit := range units {
		colResults := result.Columns[unit.ColumnName()]
		if colResults == nil {
			// The column produced no base results; derived metrics
			// have nothing to read.
			continue
		}

		switch unit.Type {
		case metrics.TypeComposed:
			for _, m := range unit.Metrics {
				cm, ok := m.(metrics.ComposedMetric)
				if !ok {
					continue
				}
				if v := cm.Fn(colResults); v != nil {
					colResults[m.Name()] = v
				}
			}

		case metrics.TypeHybrid:
			if wc == nil {
				wc = p.newWorkerContext(table, sample, userQuery, log)
			}
			if err := p.computeHybrid(ctx, wc, unit, colResults); err != nil {
				if ctx.Err() != nil {
					return ErrTimeout
				}
				entity := unit.Entity(table)
				log.Errorw("Hybrid unit failed", "entity", entity, "error", err)
				p.status.Failed(entity, err.Error(), "")
			}
		}
	}
	return nil
}

func (p *Profiler) computeHybrid(ctx context.Context, wc *workerContext, unit WorkUnit, colResults map[string]interface{}) error {
	col := *unit.Column
	d := wc.runner.Table().Dialect

	from, err := wc.runner.SampleFrom(ctx)
	if err != nil {
		return err
	}

	for _, m := range unit.Metrics {
		hm, ok := m.(metrics.HybridMetric)
		if !ok {
			continue
		}
		query, ok := hm.Query(col, from, d, colResults)
		if !ok {
			continue
		}
		rows, err := wc.runner.SelectAllFromQuery(ctx, query)
		if err != nil {
			return err
		}
		if v := hm.Reshape(rows, colResults); v != nil {
			colResults[m.Name()] = v
		}
	}
	return nil
}

// annotate stamps each column row with its name and the computation
// timestamp in UTC milliseconds.
func (p *Profiler) annotate(result *types.ProfileResult) {
	now := time.Now().UTC().UnixMilli()
	for name, col := range result.Columns {
		col["name"] = name
		col["timestamp"] = now
	}
}

// recordScanned marks the table and every column that produced results.
func (p *Profiler) recordScanned(table *types.Table, result *types.ProfileResult) {
	p.status.Scanned(table.FQN())
	for name := range result.Columns {
		p.status.Scanned(table.FQN() + "." + name)
	}
}

func mergeRow(dst, src map[string]interface{}) {
	for k, v := range src {
		dst[k] = v
	}
}
