package cli

import (
	"context"
	"fmt"

	"vllm-benchmark/internal/benchmark"
	"vllm-benchmark/internal/config"
	"vllm-benchmark/internal/endpoint"
	"vllm-benchmark/internal/prompts"
	"vllm-benchmark/internal/report"
	"vllm-benchmark/internal/telemetry"
)

// newRunner assembles client, driver, pool and runner for cfg. The returned
// stop func shuts the metrics server down and is always non-nil.
func (a *app) newRunner(ctx context.Context, cfg *config.Config, maxConcurrency int, console *report.ConsoleReporter) (*benchmark.Runner, func(), error) {
	client, err := endpoint.NewClient(ctx, cfg.ClientConfig(maxConcurrency))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create endpoint client: %w", err)
	}

	driver := benchmark.NewDriver(client, prompts.NewSource(cfg.Prompt), cfg.Model, a.logger)

	poolOpts := []benchmark.PoolOption{benchmark.WithWorkers(a.v.GetInt(config.KeyWorkers))}
	stop := func() {}
	if cfg.Metrics.Addr != "" {
		recorder := telemetry.NewRecorder()
		poolOpts = append(poolOpts, benchmark.WithRecorder(recorder))

		metricsCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := recorder.Serve(metricsCtx, cfg.Metrics.Addr, a.logger); err != nil {
				a.logger.Error("metrics server failed", "error", err)
			}
		}()
		stop = func() {
			cancel()
			<-done
		}
	}

	pool := benchmark.NewWorkerPool(driver, a.logger, poolOpts...)
	runner := benchmark.NewRunner(pool, a.logger,
		benchmark.WithConsole(console),
		benchmark.WithModel(cfg.Model),
	)
	return runner, stop, nil
}

func (a *app) console() *report.ConsoleReporter {
	return report.NewConsoleReporter(a.stderr, a.v.GetBool(config.KeyNoColor))
}
