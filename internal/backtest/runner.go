package backtest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/moznion/go-optional"
	"github.com/quantframe-lab/quantframe/internal/logger"
	"github.com/quantframe-lab/quantframe/internal/types"
	"github.com/quantframe-lab/quantframe/pkg/errors"
	"go.uber.org/zap"
)

// RunRequest pairs one configuration with its input series. Each run receives
// its own immutable copy of both; runs share no mutable state.
type RunRequest struct {
	Config types.BacktestConfig
	Series types.PriceSeries
}

// ProgressCallback reports completed runs out of the total.
type ProgressCallback func(completed, total int)

// SweepRunner executes independent backtest runs in parallel, e.g. for a
// parameter sweep or a multi-strategy comparison. Cancellation is cooperative
// at the granularity of one full run: a partially executed run has no
// well-defined partial result.
type SweepRunner struct {
	engine  *Engine
	workers int
	log     *logger.Logger
}

// NewSweepRunner creates a runner with the given worker count; values below
// one fall back to a single worker.
func NewSweepRunner(engine *Engine, workers int, log *logger.Logger) *SweepRunner {
	if workers < 1 {
		workers = 1
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &SweepRunner{
		engine:  engine,
		workers: workers,
		log:     log,
	}
}

// RunAll executes every request and returns results in request order. The
// first failing run's error is returned; on context cancellation the sweep
// stops dispatching new runs and reports a cancellation error.
func (r *SweepRunner) RunAll(
	ctx context.Context,
	requests []RunRequest,
	onProgress optional.Option[ProgressCallback],
) ([]types.BacktestResult, error) {
	results := make([]types.BacktestResult, len(requests))
	runErrs := make([]error, len(requests))

	indexes := make(chan int)

	var completed atomic.Int64

	var progressMu sync.Mutex

	var wg sync.WaitGroup

	for w := 0; w < r.workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range indexes {
				result, err := r.engine.Run(requests[i].Config, requests[i].Series)
				if err != nil {
					runErrs[i] = err

					continue
				}

				results[i] = result

				done := int(completed.Add(1))

				if onProgress.IsSome() {
					progressMu.Lock()
					onProgress.Unwrap()(done, len(requests))
					progressMu.Unlock()
				}
			}
		}()
	}

	cancelled := false

dispatch:
	for i := range requests {
		// Checked before blocking on a send so a cancellation raised while a
		// worker was busy is picked up on the next iteration.
		select {
		case <-ctx.Done():
			cancelled = true

			break dispatch
		default:
		}

		select {
		case <-ctx.Done():
			cancelled = true

			break dispatch
		case indexes <- i:
		}
	}

	close(indexes)
	wg.Wait()

	if cancelled {
		r.log.Warn("sweep cancelled",
			zap.Int("completed", int(completed.Load())),
			zap.Int("total", len(requests)),
		)

		return nil, errors.Wrap(errors.ErrCodeRunCancelled, "sweep cancelled before completion", ctx.Err())
	}

	for _, err := range runErrs {
		if err != nil {
			return nil, err
		}
	}

	r.log.Info("sweep completed",
		zap.Int("runs", len(requests)),
		zap.Int("workers", r.workers),
	)

	return results, nil
}
