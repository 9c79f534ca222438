// Package cli wires the benchmark engine to the vllm-bench command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vllm-benchmark/internal/config"
	"vllm-benchmark/internal/logging"
)

// app is the state shared by every subcommand of one invocation
type app struct {
	v       *viper.Viper
	cfgFile string

	stdout io.Writer
	stderr io.Writer

	logger   *slog.Logger
	closeLog func() error
}

// Execute runs the root command with SIGINT and SIGTERM bound to its context
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Results go to stdout; logs, progress
// and tables go to stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v, _ := config.NewViper("")
	a := &app{
		v:        v,
		stdout:   stdout,
		stderr:   stderr,
		closeLog: func() error { return nil },
	}

	rootCmd := &cobra.Command{
		Use:          "vllm-bench",
		Short:        "Load test streaming chat completion endpoints",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.closeLog()
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	// Persistent flags available to all commands
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (yaml, json or toml)")
	pf.String(config.KeyBackend, "openai", "endpoint backend: openai or bedrock")
	pf.String(config.KeyURL, "", "base URL of the OpenAI-compatible server, e.g. http://localhost:8000/v1")
	pf.String(config.KeyAPIKey, "", "API key sent as a bearer token")
	pf.String(config.KeyModel, config.DefaultModel, "model to benchmark")
	pf.String(config.KeyPrompt, "", "fixed prompt for every short-context request")
	pf.String(config.KeyRegion, "", "AWS region (bedrock backend)")
	pf.String(config.KeyAccessKeyID, "", "AWS access key id (bedrock backend, optional)")
	pf.String(config.KeySecretAccessKey, "", "AWS secret access key (bedrock backend, optional)")
	pf.String(config.KeyLogLevel, "info", "log level: debug, info, warn or error")
	pf.String(config.KeyLogFormat, "text", "log format: text or json")
	pf.String(config.KeyLogFile, "", "also append logs to this file")
	pf.String(config.KeyMetricsAddr, "", "serve Prometheus metrics on this address during the run, e.g. :9090")
	pf.Bool(config.KeyNoColor, false, "disable colored console output")

	rootCmd.AddCommand(newRunCmd(a), newSuiteCmd(a), newReportCmd(a))
	return rootCmd
}

// setup merges the config file and the executing command's flags into viper
// and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return err
	}
	// Flags() includes the inherited persistent flags once parsed.
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	logger, closeLog, err := logging.New(a.stderr, logging.Options{
		Level:  a.v.GetString(config.KeyLogLevel),
		Format: a.v.GetString(config.KeyLogFormat),
		File:   a.v.GetString(config.KeyLogFile),
	})
	if err != nil {
		return err
	}
	a.logger = logger
	a.closeLog = closeLog
	return nil
}
