package benchmark

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"vllm-benchmark/internal/config"
	"vllm-benchmark/internal/telemetry"
	"vllm-benchmark/internal/types"
)

// WorkItem is one scheduled request, or the stop marker that ends a worker
type WorkItem struct {
	ID   int
	Stop bool
}

// workQueue is a FIFO of work items that can wait until every item put
// into it has been marked done.
type workQueue struct {
	items   chan WorkItem
	pending sync.WaitGroup
}

func newWorkQueue(capacity int) *workQueue {
	return &workQueue{items: make(chan WorkItem, capacity)}
}

// put must not be called once the queue holds capacity items
func (q *workQueue) put(item WorkItem) {
	q.pending.Add(1)
	q.items <- item
}

func (q *workQueue) get() WorkItem {
	return <-q.items
}

func (q *workQueue) taskDone() {
	q.pending.Done()
}

// join blocks until every queued item has been marked done
func (q *workQueue) join() {
	q.pending.Wait()
}

// RunResult is the settled output of one pool run
type RunResult struct {
	StartedAt time.Time
	WallTime  time.Duration
	Samples   []types.RequestSample
	Failures  *FailureTally
}

// WorkerPool runs the requests of one configuration on a fixed set of
// workers. The permit, not the worker count, bounds in-flight requests.
type WorkerPool struct {
	executor Executor
	logger   *slog.Logger
	recorder *telemetry.Recorder

	workers int
	permits *semaphore.Weighted
}

// PoolOption customizes a WorkerPool
type PoolOption func(*WorkerPool)

// WithWorkers sets the number of workers. Zero means one worker per permit.
func WithWorkers(n int) PoolOption {
	return func(p *WorkerPool) { p.workers = n }
}

// WithPermits shares an existing permit across pools
func WithPermits(sem *semaphore.Weighted) PoolOption {
	return func(p *WorkerPool) { p.permits = sem }
}

// WithRecorder reports request outcomes to Prometheus collectors
func WithRecorder(r *telemetry.Recorder) PoolOption {
	return func(p *WorkerPool) { p.recorder = r }
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(executor Executor, logger *slog.Logger, opts ...PoolOption) *WorkerPool {
	p := &WorkerPool{
		executor: executor,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run drives cfg.NumRequests requests to completion and returns once the
// queue is drained and every worker has exited. Cancelling ctx does not
// abort a run; requests only end through their own timeout.
func (p *WorkerPool) Run(ctx context.Context, cfg config.BenchmarkConfig, progress *Progress) *RunResult {
	runCtx := context.WithoutCancel(ctx)

	workers := p.workers
	if workers <= 0 {
		workers = cfg.Concurrency
	}
	permits := p.permits
	if permits == nil {
		permits = semaphore.NewWeighted(int64(cfg.Concurrency))
	}

	queue := newWorkQueue(cfg.NumRequests + workers)
	for i := 0; i < cfg.NumRequests; i++ {
		queue.put(WorkItem{ID: i})
	}
	// One stop marker per worker so each exits after the queue drains.
	for i := 0; i < workers; i++ {
		queue.put(WorkItem{Stop: true})
	}

	results := NewResultsCollection(cfg.NumRequests)
	failures := newFailureTally()

	startedAt := time.Now()
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			return p.worker(runCtx, cfg, permits, queue, results, failures, progress)
		})
	}

	queue.join()
	if err := g.Wait(); err != nil {
		p.logger.Error("worker exited with error", "error", err)
	}

	return &RunResult{
		StartedAt: startedAt,
		WallTime:  time.Since(startedAt),
		Samples:   results.Samples(),
		Failures:  failures,
	}
}

// worker is the main worker loop
func (p *WorkerPool) worker(
	ctx context.Context,
	cfg config.BenchmarkConfig,
	permits *semaphore.Weighted,
	queue *workQueue,
	results *ResultsCollection,
	failures *FailureTally,
	progress *Progress,
) error {
	for {
		if err := permits.Acquire(ctx, 1); err != nil {
			return err
		}

		item := queue.get()
		if item.Stop {
			queue.taskDone()
			permits.Release(1)
			return nil
		}

		p.logger.Info("starting request", "id", item.ID)
		progress.start()
		p.recorder.RequestStarted()

		sample, failure := p.executor.Execute(ctx, cfg)
		if sample != nil {
			results.Append(*sample)
			p.recorder.ObserveSample(sample.ElapsedTime, sample.TimeToFirstToken, sample.TotalTokens)
			p.recorder.RequestFinished(telemetry.OutcomeSuccess)
			progress.finish(true)
		} else {
			if failure == nil {
				failure = &Failure{Kind: FailureError, Type: "UnknownError"}
			}
			failures.Add(failure)
			outcome := telemetry.OutcomeError
			if failure.Kind == FailureTimeout {
				outcome = telemetry.OutcomeTimeout
			}
			p.recorder.RequestFinished(outcome)
			progress.finish(false)
			p.logger.Warn("request failed", "id", item.ID)
		}

		queue.taskDone()
		permits.Release(1)
		p.logger.Info("finished request", "id", item.ID)
	}
}
