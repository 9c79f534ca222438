package types

import "time"

// RequestSample is the measurement of one successful streaming request.
// Times are in seconds.
type RequestSample struct {
	TotalTokens      int
	ElapsedTime      float64
	TokensPerSecond  float64
	TimeToFirstToken *float64 // nil when no token arrived
}

// Distribution summarises one metric across a run. Percentiles are nil when
// the metric had no values.
type Distribution struct {
	Average float64  `json:"average" yaml:"average"`
	P50     *float64 `json:"p50" yaml:"p50"`
	P95     *float64 `json:"p95" yaml:"p95"`
	P99     *float64 `json:"p99" yaml:"p99"`
}

// SummaryReport contains the aggregated statistics of one benchmark configuration
type SummaryReport struct {
	RunID     string    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Model     string    `json:"model,omitempty" yaml:"model,omitempty"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// General stats
	TotalRequests      int     `json:"total_requests" yaml:"total_requests"`
	SuccessfulRequests int     `json:"successful_requests" yaml:"successful_requests"`
	FailedRequests     int     `json:"failed_requests" yaml:"failed_requests"`
	TimedOutRequests   int     `json:"timed_out_requests" yaml:"timed_out_requests"`
	Concurrency        int     `json:"concurrency" yaml:"concurrency"`
	RequestTimeout     float64 `json:"request_timeout" yaml:"request_timeout"` // seconds
	MaxOutputTokens    int     `json:"max_output_tokens" yaml:"max_output_tokens"`
	UseLongContext     bool    `json:"use_long_context" yaml:"use_long_context"`

	// Throughput
	TotalTime         float64 `json:"total_time" yaml:"total_time"` // seconds
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	TotalOutputTokens int     `json:"total_output_tokens" yaml:"total_output_tokens"`

	Latency          Distribution `json:"latency" yaml:"latency"`
	TokensPerSecond  Distribution `json:"tokens_per_second" yaml:"tokens_per_second"`
	TimeToFirstToken Distribution `json:"time_to_first_token" yaml:"time_to_first_token"`

	// Errors
	ErrorsByType map[string]int `json:"errors_by_type,omitempty" yaml:"errors_by_type,omitempty"`
}

// HasTTFT reports whether any request observed a first token.
func (s *SummaryReport) HasTTFT() bool {
	return s.TimeToFirstToken.P50 != nil
}

// SuccessRate returns the percentage of requests that produced a sample.
func (s *SummaryReport) SuccessRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.SuccessfulRequests) / float64(s.TotalRequests) * 100.0
}
