package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"vllm-benchmark/internal/config"
	"vllm-benchmark/internal/types"
)

// ConsoleReporter handles real-time console output. A nil reporter prints
// nothing.
type ConsoleReporter struct {
	w       io.Writer
	heading *color.Color
	good    *color.Color
	warn    *color.Color
	bad     *color.Color
}

// NewConsoleReporter creates a new console reporter writing to w
func NewConsoleReporter(w io.Writer, noColor bool) *ConsoleReporter {
	c := &ConsoleReporter{
		w:       w,
		heading: color.New(color.FgCyan, color.Bold),
		good:    color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		bad:     color.New(color.FgRed, color.Bold),
	}
	if noColor {
		for _, col := range []*color.Color{c.heading, c.good, c.warn, c.bad} {
			col.DisableColor()
		}
	}
	return c
}

// PrintHeader prints the test header
func (c *ConsoleReporter) PrintHeader(cfg *config.Config, configs []config.BenchmarkConfig) {
	if c == nil {
		return
	}
	fmt.Fprintln(c.w, strings.Repeat("=", 80))
	c.heading.Fprintln(c.w, "LLM Streaming Endpoint Benchmark")
	fmt.Fprintln(c.w, strings.Repeat("=", 80))
	fmt.Fprintf(c.w, "Backend: %s\n", backendName(cfg.Endpoint.Backend))
	if cfg.Endpoint.URL != "" {
		fmt.Fprintf(c.w, "Endpoint: %s\n", cfg.Endpoint.URL)
	}
	if cfg.Endpoint.Region != "" {
		fmt.Fprintf(c.w, "Region: %s\n", cfg.Endpoint.Region)
	}
	fmt.Fprintf(c.w, "Model: %s\n", cfg.Model)
	fmt.Fprintf(c.w, "Configurations: %d\n", len(configs))
	for _, b := range configs {
		fmt.Fprintf(c.w, "  - %d requests @ concurrency %d, %d output tokens, timeout %s\n",
			b.NumRequests, b.Concurrency, b.OutputTokens, b.RequestTimeout)
	}
	fmt.Fprintln(c.w, strings.Repeat("=", 80))
	fmt.Fprintln(c.w)
}

// PrintConcurrencyLevel prints the start of a new configuration
func (c *ConsoleReporter) PrintConcurrencyLevel(level, requests int) {
	if c == nil {
		return
	}
	c.heading.Fprintf(c.w, "\n[Concurrency Level: %d]\n", level)
	fmt.Fprintf(c.w, "Starting %d requests...\n", requests)
}

// PrintProgress prints progress during the test
func (c *ConsoleReporter) PrintProgress(total int, started, succeeded, failed int64) {
	if c == nil {
		return
	}
	fmt.Fprintf(c.w, "  Progress: %d/%d started | Success: %d | Failures: %d\n",
		started, total, succeeded, failed)
}

// PrintStats prints detailed statistics for a completed configuration
func (c *ConsoleReporter) PrintStats(s *types.SummaryReport) {
	if c == nil {
		return
	}
	fmt.Fprintln(c.w, "\nResults:")
	fmt.Fprintln(c.w, strings.Repeat("─", 80))

	rate := c.good
	if s.FailedRequests > 0 {
		rate = c.warn
	}
	if s.TotalRequests > 0 && s.SuccessfulRequests == 0 {
		rate = c.bad
	}

	// General stats
	fmt.Fprintf(c.w, "  Total Requests:     %d\n", s.TotalRequests)
	rate.Fprintf(c.w, "  Successful:         %d (%.2f%%)\n", s.SuccessfulRequests, s.SuccessRate())
	fmt.Fprintf(c.w, "  Failed:             %d (timeouts: %d)\n", s.FailedRequests, s.TimedOutRequests)
	fmt.Fprintf(c.w, "  Duration:           %.2fs\n", s.TotalTime)

	// Throughput
	fmt.Fprintln(c.w, "\n  Throughput:")
	fmt.Fprintf(c.w, "    Requests/sec:     %.2f\n", s.RequestsPerSecond)
	fmt.Fprintf(c.w, "    Output Tokens:    %d\n", s.TotalOutputTokens)

	if s.SuccessfulRequests > 0 {
		c.printDistribution("Latency (s)", s.Latency)
		c.printDistribution("Tokens/sec per request (p = slow tail)", s.TokensPerSecond)
	}
	if s.HasTTFT() {
		c.printDistribution("Time to First Token (s)", s.TimeToFirstToken)
	}

	// Error distribution
	if len(s.ErrorsByType) > 0 {
		fmt.Fprintln(c.w, "\n  Error Distribution:")
		for _, errType := range sortedKeys(s.ErrorsByType) {
			c.bad.Fprintf(c.w, "    %s: %d\n", errType, s.ErrorsByType[errType])
		}
	}

	fmt.Fprintln(c.w, strings.Repeat("─", 80))
}

func (c *ConsoleReporter) printDistribution(title string, d types.Distribution) {
	fmt.Fprintf(c.w, "\n  %s:\n", title)
	fmt.Fprintf(c.w, "    Average:          %.4f\n", d.Average)
	fmt.Fprintf(c.w, "    P50:              %s\n", FormatOptional(d.P50))
	fmt.Fprintf(c.w, "    P95:              %s\n", FormatOptional(d.P95))
	fmt.Fprintf(c.w, "    P99:              %s\n", FormatOptional(d.P99))
}

// PrintReportSaved prints a message indicating the report was saved
func (c *ConsoleReporter) PrintReportSaved(filename string) {
	if c == nil {
		return
	}
	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, strings.Repeat("=", 80))
	c.good.Fprintf(c.w, "Report saved to: %s\n", filename)
	fmt.Fprintln(c.w, strings.Repeat("=", 80))
}

// PrintError prints an error message
func (c *ConsoleReporter) PrintError(err error) {
	if c == nil {
		return
	}
	c.bad.Fprintf(c.w, "\n[ERROR] %v\n", err)
}

// FormatOptional renders an absent percentile as "n/a"
func FormatOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *v)
}

func backendName(b string) string {
	if b == "" {
		return "openai"
	}
	return b
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
