package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vllm-benchmark/internal/config"
	"vllm-benchmark/internal/report"
)

// newSuiteCmd implements 'suite', which runs the configuration progression
// and writes every summary to the results file.
func newSuiteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suite",
		Short: "Run the configuration progression and save the results",
		Long: `Suite runs each configuration in order with a cooldown between them
and writes the list of summary reports to the output file. Without a
"configurations" list in the config file the default progression
(10@1, 100@10, 500@50, 1000@100) is used. An interrupt stops the suite
after the running configuration and saves what was gathered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			suite, err := config.LoadSuite(a.v)
			if err != nil {
				return err
			}

			console := a.console()
			console.PrintHeader(cfg, suite.Configurations)

			ctx := cmd.Context()
			runner, stop, err := a.newRunner(ctx, cfg, suite.MaxConcurrency(), console)
			if err != nil {
				return err
			}
			defer stop()

			a.logger.Info("starting benchmark suite",
				"run_id", runner.RunID(),
				"model", cfg.Model,
				"configurations", len(suite.Configurations),
			)
			reports, runErr := runner.Run(ctx, suite)
			if runErr != nil {
				a.logger.Warn("benchmark suite stopped early", "error", runErr, "completed", len(reports))
			}

			if err := report.WriteResults(cfg.Output.ResultsFile, reports, cfg.Output.Format); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Benchmark results saved to %s\n", cfg.Output.ResultsFile)

			if cfg.Output.MarkdownFile != "" {
				md := report.NewMarkdownReporter(cfg)
				if err := md.SaveToFile(md.Generate(reports), cfg.Output.MarkdownFile); err != nil {
					return err
				}
				console.PrintReportSaved(cfg.Output.MarkdownFile)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Int(config.KeyRequestTimeout, int(config.DefaultRequestTimeout.Seconds()), "timeout for each request in seconds")
	f.Bool(config.KeyUseLongContext, false, "use long context prompt pairs instead of short prompts")
	f.Duration(config.KeyCooldown, config.DefaultCooldown, "pause between configurations")
	f.StringP(config.KeyOutput, "o", config.DefaultResultsFile, "results file")
	f.String(config.KeyFormat, report.FormatJSON, "results format: json or yaml")
	f.String(config.KeyMarkdown, "", "also write a markdown report to this file")
	f.Int(config.KeyWorkers, 0, "number of workers; 0 means one per concurrency slot")
	return cmd
}
