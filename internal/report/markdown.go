package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"vllm-benchmark/internal/config"
	"vllm-benchmark/internal/types"
)

// MarkdownReporter generates markdown reports
type MarkdownReporter struct {
	config *config.Config
	now    func() time.Time
}

// NewMarkdownReporter creates a new markdown reporter
func NewMarkdownReporter(cfg *config.Config) *MarkdownReporter {
	return &MarkdownReporter{
		config: cfg,
		now:    time.Now,
	}
}

// Generate generates the full markdown report
func (m *MarkdownReporter) Generate(reports []types.SummaryReport) string {
	var sb strings.Builder

	sb.WriteString("# LLM Streaming Benchmark Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", m.now().Format("2006-01-02 15:04:05")))

	m.writeConfiguration(&sb)
	m.writeOverallSummary(&sb, reports)
	m.writeDetailedResults(&sb, reports)
	m.writeLatencyAnalysis(&sb, reports)
	m.writeTTFTAnalysis(&sb, reports)
	m.writeErrorAnalysis(&sb, reports)

	return sb.String()
}

// writeConfiguration writes the test configuration section
func (m *MarkdownReporter) writeConfiguration(sb *strings.Builder) {
	sb.WriteString("## Test Configuration\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Backend | %s |\n", backendName(m.config.Endpoint.Backend)))
	if m.config.Endpoint.URL != "" {
		sb.WriteString(fmt.Sprintf("| Endpoint | %s |\n", m.config.Endpoint.URL))
	}
	if m.config.Endpoint.Region != "" {
		sb.WriteString(fmt.Sprintf("| Region | %s |\n", m.config.Endpoint.Region))
	}
	sb.WriteString(fmt.Sprintf("| Model | %s |\n\n", m.config.Model))
}

// writeOverallSummary writes the overall summary section
func (m *MarkdownReporter) writeOverallSummary(sb *strings.Builder, reports []types.SummaryReport) {
	sb.WriteString("## Overall Summary\n\n")

	totalRequests := 0
	totalSuccess := 0
	totalFailures := 0
	totalTokens := 0

	for _, r := range reports {
		totalRequests += r.TotalRequests
		totalSuccess += r.SuccessfulRequests
		totalFailures += r.FailedRequests
		totalTokens += r.TotalOutputTokens
	}

	successRate := 0.0
	if totalRequests > 0 {
		successRate = float64(totalSuccess) / float64(totalRequests) * 100.0
	}

	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Requests | %d |\n", totalRequests))
	sb.WriteString(fmt.Sprintf("| Successful Requests | %d (%.2f%%) |\n", totalSuccess, successRate))
	sb.WriteString(fmt.Sprintf("| Failed Requests | %d |\n", totalFailures))
	sb.WriteString(fmt.Sprintf("| Total Output Tokens | %d |\n\n", totalTokens))
}

// writeDetailedResults writes detailed results for each configuration
func (m *MarkdownReporter) writeDetailedResults(sb *strings.Builder, reports []types.SummaryReport) {
	sb.WriteString("## Detailed Results by Concurrency Level\n\n")

	sb.WriteString("| Concurrency | Requests | Success Rate | Req/s | Avg Tokens/s | Tokens/s P95 (slow) | Output Tokens |\n")
	sb.WriteString("|-------------|----------|--------------|-------|--------------|---------------------|---------------|\n")

	for _, r := range reports {
		sb.WriteString(fmt.Sprintf("| %d | %d | %.2f%% | %.2f | %.2f | %s | %d |\n",
			r.Concurrency,
			r.TotalRequests,
			r.SuccessRate(),
			r.RequestsPerSecond,
			r.TokensPerSecond.Average,
			FormatOptional(r.TokensPerSecond.P95),
			r.TotalOutputTokens,
		))
	}
	sb.WriteString("\n")
}

// writeLatencyAnalysis writes latency analysis section
func (m *MarkdownReporter) writeLatencyAnalysis(sb *strings.Builder, reports []types.SummaryReport) {
	sb.WriteString("## Latency Analysis\n\n")
	writeDistributionTable(sb, reports, func(r types.SummaryReport) (types.Distribution, bool) {
		return r.Latency, r.SuccessfulRequests > 0
	})
}

// writeTTFTAnalysis writes TTFT analysis section (if available)
func (m *MarkdownReporter) writeTTFTAnalysis(sb *strings.Builder, reports []types.SummaryReport) {
	hasTTFT := false
	for _, r := range reports {
		if r.HasTTFT() {
			hasTTFT = true
			break
		}
	}
	if !hasTTFT {
		return
	}

	sb.WriteString("## Time to First Token (TTFT) Analysis\n\n")
	writeDistributionTable(sb, reports, func(r types.SummaryReport) (types.Distribution, bool) {
		return r.TimeToFirstToken, r.HasTTFT()
	})
}

func writeDistributionTable(sb *strings.Builder, reports []types.SummaryReport, pick func(types.SummaryReport) (types.Distribution, bool)) {
	sb.WriteString("| Concurrency | Avg (s) | P50 (s) | P95 (s) | P99 (s) |\n")
	sb.WriteString("|-------------|---------|---------|---------|---------|\n")
	for _, r := range reports {
		d, ok := pick(r)
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %d | %.4f | %s | %s | %s |\n",
			r.Concurrency, d.Average, FormatOptional(d.P50), FormatOptional(d.P95), FormatOptional(d.P99)))
	}
	sb.WriteString("\n")
}

// writeErrorAnalysis writes error analysis section
func (m *MarkdownReporter) writeErrorAnalysis(sb *strings.Builder, reports []types.SummaryReport) {
	allErrors := make(map[string]int)
	for _, r := range reports {
		for errType, count := range r.ErrorsByType {
			allErrors[errType] += count
		}
	}

	sb.WriteString("## Error Analysis\n\n")
	if len(allErrors) == 0 {
		sb.WriteString("No errors occurred during the test.\n\n")
		return
	}

	sb.WriteString("### Error Distribution\n\n")
	sb.WriteString("| Error Type | Count |\n")
	sb.WriteString("|------------|-------|\n")
	for _, errType := range sortedKeys(allErrors) {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", errType, allErrors[errType]))
	}
	sb.WriteString("\n")

	sb.WriteString("### Errors by Concurrency Level\n\n")
	sb.WriteString("| Concurrency | Total Errors | Timeouts | Error Types |\n")
	sb.WriteString("|-------------|--------------|----------|-------------|\n")
	for _, r := range reports {
		if r.FailedRequests == 0 {
			continue
		}
		var errorTypes []string
		for _, errType := range sortedKeys(r.ErrorsByType) {
			errorTypes = append(errorTypes, fmt.Sprintf("%s(%d)", errType, r.ErrorsByType[errType]))
		}
		sb.WriteString(fmt.Sprintf("| %d | %d | %d | %s |\n",
			r.Concurrency, r.FailedRequests, r.TimedOutRequests, strings.Join(errorTypes, ", ")))
	}
	sb.WriteString("\n")
}

// SaveToFile saves the report to a file
func (m *MarkdownReporter) SaveToFile(content string, filename string) error {
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown report: %w", err)
	}
	return nil
}
