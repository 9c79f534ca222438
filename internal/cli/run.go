package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vllm-benchmark/internal/config"
	"vllm-benchmark/internal/report"
)

// newRunCmd implements 'run', a single configuration whose summary is
// printed as JSON on stdout.
func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one benchmark configuration and print its summary",
		Long: `Run sends num_requests streaming chat completions with at most
concurrency of them in flight and prints the summary report as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range []string{config.KeyNumRequests, config.KeyConcurrency} {
				if !a.v.IsSet(key) {
					return fmt.Errorf("%s is required", key)
				}
			}

			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			bench, err := config.LoadBenchmark(a.v)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, stop, err := a.newRunner(ctx, cfg, bench.Concurrency, a.console())
			if err != nil {
				return err
			}
			defer stop()

			a.logger.Info("running benchmark",
				"run_id", runner.RunID(),
				"model", cfg.Model,
				"num_requests", bench.NumRequests,
				"concurrency", bench.Concurrency,
			)
			summary := runner.RunOne(ctx, bench)
			return report.Encode(a.stdout, summary, report.FormatJSON)
		},
	}

	f := cmd.Flags()
	f.Int(config.KeyNumRequests, 0, "number of requests to make (required)")
	f.Int(config.KeyConcurrency, 0, "number of concurrent requests (required)")
	f.Int(config.KeyRequestTimeout, int(config.DefaultRequestTimeout.Seconds()), "timeout for each request in seconds")
	f.Int(config.KeyOutputTokens, config.DefaultOutputTokens, "maximum output tokens per request")
	f.Bool(config.KeyUseLongContext, false, "use long context prompt pairs instead of short prompts")
	f.Int(config.KeyWorkers, 0, "number of workers; 0 means one per concurrency slot")
	return cmd
}
