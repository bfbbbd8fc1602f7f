// Package batch runs scenario pipelines over many IGU rows concurrently.
//
// Rows are independent: they share only the read-only parameter registry,
// so they fan out across a bounded worker pool. Results are written into a
// slice indexed by row so output order always matches input order, whatever
// the completion order. A failing row is recorded as its error entry and
// never aborts the rest of the batch.
package batch

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vitrify/igucycle/internal/geometry"
	"github.com/vitrify/igucycle/internal/logging"
	"github.com/vitrify/igucycle/internal/scenario"
)

// ErrEmptyBatch reports a batch invocation with no rows.
var ErrEmptyBatch = errors.New("batch contains no rows")

// Row is one product entry of the batch manifest.
type Row struct {
	// Index is the zero-based manifest position, preserved into results.
	Index int

	// Group is the fully resolved IGU description for this row.
	Group geometry.IGUGroup
}

// RowResult holds the outcomes of all requested pathways for one row.
// Err is set when the row failed; Results is nil in that case.
type RowResult struct {
	Index   int
	Group   string
	Results []*scenario.Result
	Err     error
}

// Progress is reported after every completed row.
type Progress struct {
	Done  int
	Total int
}

// ProgressFunc receives progress updates. Called from worker goroutines;
// implementations must be safe for concurrent use.
type ProgressFunc func(Progress)

// Runner executes pathway sets over manifest rows.
type Runner struct {
	engine      *scenario.Engine
	concurrency int
	onProgress  ProgressFunc
}

// NewRunner creates a Runner. A non-positive concurrency defaults to the
// number of CPUs.
func NewRunner(engine *scenario.Engine, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}
	return &Runner{engine: engine, concurrency: concurrency}
}

// WithProgress sets a progress callback and returns the runner.
func (r *Runner) WithProgress(fn ProgressFunc) *Runner {
	r.onProgress = fn
	return r
}

// Run executes every pathway for every row and returns results in row
// order. Only a cancelled context aborts the whole batch; per-row failures
// are captured in their RowResult.
func (r *Runner) Run(
	ctx context.Context,
	rows []Row,
	routes scenario.RoutePlan,
	pathways []scenario.Pathway,
) ([]RowResult, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(pathways) == 0 {
		pathways = scenario.All()
	}

	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "batch").
		Int("rows", len(rows)).
		Int("pathways", len(pathways)).
		Int("concurrency", r.concurrency).
		Msg("starting batch run")

	results := make([]RowResult, len(rows))
	var done atomic.Int64
	var progressMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			// Context cancellation is the only batch-level failure.
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = r.runRow(gctx, row, routes, pathways)

			if r.onProgress != nil {
				progressMu.Lock()
				r.onProgress(Progress{Done: int(done.Add(1)), Total: len(rows)})
				progressMu.Unlock()
			} else {
				done.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().
		Str("component", "batch").
		Int("rows", len(rows)).
		Msg("batch run complete")
	return results, nil
}

// runRow executes all pathways for one row. The first pathway error fails
// the whole row: partial pathway sets would make cross-row comparison
// tables misleading.
func (r *Runner) runRow(
	ctx context.Context,
	row Row,
	routes scenario.RoutePlan,
	pathways []scenario.Pathway,
) RowResult {
	out := RowResult{Index: row.Index, Group: row.Group.Name}

	results := make([]*scenario.Result, 0, len(pathways))
	for _, p := range pathways {
		res, err := r.engine.Run(ctx, scenario.Request{
			Group:   row.Group,
			Routes:  routes,
			Pathway: p,
		})
		if err != nil {
			logging.FromContext(ctx).Warn().
				Str("component", "batch").
				Int("row", row.Index).
				Str("group", row.Group.Name).
				Str("pathway", p.String()).
				Err(err).
				Msg("row failed")
			out.Err = err
			return out
		}
		results = append(results, res)
	}

	out.Results = results
	return out
}
