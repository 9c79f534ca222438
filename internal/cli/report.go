package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vllm-benchmark/internal/config"
	"vllm-benchmark/internal/report"
)

// newReportCmd implements 'report', which renders a saved JSON results file
// as markdown without running anything.
func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a saved results file as a markdown report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := report.ReadResults(a.v.GetString(config.KeyInput))
			if err != nil {
				return err
			}

			cfg := config.Build(a.v)
			// the model recorded in the results wins over the default
			if len(reports) > 0 && reports[0].Model != "" && cfg.Model == config.DefaultModel {
				cfg.Model = reports[0].Model
			}

			md := report.NewMarkdownReporter(cfg)
			content := md.Generate(reports)

			out := a.v.GetString(config.KeyMarkdown)
			if out == "" {
				_, err := fmt.Fprint(a.stdout, content)
				return err
			}
			if err := md.SaveToFile(content, out); err != nil {
				return err
			}
			a.console().PrintReportSaved(out)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringP(config.KeyInput, "i", config.DefaultResultsFile, "results file written by suite (json)")
	f.String(config.KeyMarkdown, "", "write the report to this file instead of stdout")
	return cmd
}
