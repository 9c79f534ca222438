package benchmark

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"vllm-benchmark/internal/config"
	"vllm-benchmark/internal/report"
	"vllm-benchmark/internal/types"
)

// Runner orchestrates the benchmark configurations
type Runner struct {
	pool    *WorkerPool
	logger  *slog.Logger
	console *report.ConsoleReporter

	model            string
	runID            string
	progressInterval time.Duration
	sleep            func(ctx context.Context, d time.Duration) error
}

// RunnerOption customizes a Runner
type RunnerOption func(*Runner)

// WithConsole prints progress and per-configuration results
func WithConsole(c *report.ConsoleReporter) RunnerOption {
	return func(r *Runner) { r.console = c }
}

// WithModel records the model name in every report
func WithModel(model string) RunnerOption {
	return func(r *Runner) { r.model = model }
}

// WithProgressInterval sets how often progress is printed. Zero disables it.
func WithProgressInterval(d time.Duration) RunnerOption {
	return func(r *Runner) { r.progressInterval = d }
}

// WithSleep replaces the cooldown sleep
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) RunnerOption {
	return func(r *Runner) { r.sleep = sleep }
}

// NewRunner creates a new benchmark runner
func NewRunner(pool *WorkerPool, logger *slog.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		pool:             pool,
		logger:           logger,
		runID:            uuid.NewString(),
		progressInterval: 5 * time.Second,
		sleep:            sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunID identifies every report produced by this runner
func (r *Runner) RunID() string {
	return r.runID
}

// Run executes the configurations in order with a cooldown between them.
// If ctx is cancelled the configuration in progress still completes and the
// reports gathered so far are returned together with ctx's error.
func (r *Runner) Run(ctx context.Context, suite *config.SuiteConfig) ([]types.SummaryReport, error) {
	reports := make([]types.SummaryReport, 0, len(suite.Configurations))

	for i, cfg := range suite.Configurations {
		if err := ctx.Err(); err != nil {
			return reports, fmt.Errorf("benchmark interrupted before configuration %d: %w", i, err)
		}

		r.logger.Info("running benchmark", "concurrency", cfg.Concurrency, "num_requests", cfg.NumRequests)
		reports = append(reports, r.RunOne(ctx, cfg))

		if i < len(suite.Configurations)-1 && suite.Cooldown > 0 {
			r.logger.Info("cooling down", "duration", suite.Cooldown)
			if err := r.sleep(ctx, suite.Cooldown); err != nil {
				return reports, fmt.Errorf("benchmark interrupted during cooldown: %w", err)
			}
		}
	}

	return reports, nil
}

// RunOne executes a single configuration and summarizes it
func (r *Runner) RunOne(ctx context.Context, cfg config.BenchmarkConfig) types.SummaryReport {
	r.console.PrintConcurrencyLevel(cfg.Concurrency, cfg.NumRequests)

	progress := &Progress{}
	done := make(chan struct{})
	stopped := make(chan struct{})
	go r.monitor(progress, cfg.NumRequests, done, stopped)

	result := r.pool.Run(ctx, cfg, progress)
	close(done)
	<-stopped

	summary := Summarize(result.Samples, cfg, result.WallTime)
	summary.RunID = r.runID
	summary.Model = r.model
	summary.StartedAt = result.StartedAt
	summary.FailedRequests, summary.TimedOutRequests, summary.ErrorsByType = result.Failures.Counts()

	r.console.PrintStats(&summary)
	return summary
}

// monitor prints progress until done is closed
func (r *Runner) monitor(progress *Progress, total int, done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	if r.progressInterval <= 0 || r.console == nil {
		<-done
		return
	}

	ticker := time.NewTicker(r.progressInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			started, succeeded, failed := progress.Snapshot()
			r.console.PrintProgress(total, started, succeeded, failed)
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
