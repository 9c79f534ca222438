package benchmark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vllm-benchmark/internal/config"
	"vllm-benchmark/internal/types"
)

func f64(v float64) *float64 { return &v }

func TestPercentile(t *testing.T) {
	values := []float64{5, 3, 1, 4, 2}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{50, 3},
		{95, 4.8},
		{99, 4.96},
		{100, 5},
	}
	for _, tt := range tests {
		got := Percentile(values, tt.p)
		require.NotNil(t, got, "p%v", tt.p)
		assert.InDelta(t, tt.want, *got, 1e-9, "p%v", tt.p)
	}

	// input order is left untouched
	assert.Equal(t, []float64{5, 3, 1, 4, 2}, values)
}

func TestPercentile_Empty(t *testing.T) {
	assert.Nil(t, Percentile(nil, 50))
	assert.Nil(t, Percentile([]float64{}, 99))
}

func TestPercentile_Single(t *testing.T) {
	got := Percentile([]float64{7}, 95)
	require.NotNil(t, got)
	assert.Equal(t, 7.0, *got)
}

func TestDistribution_InvertedThroughput(t *testing.T) {
	d := distribution([]float64{50, 10, 40, 20, 30}, true)

	assert.InDelta(t, 30, d.Average, 1e-9)
	require.NotNil(t, d.P50)
	require.NotNil(t, d.P95)
	require.NotNil(t, d.P99)
	assert.InDelta(t, 30, *d.P50, 1e-9)
	// p95 of throughput is the 5th percentile of the sorted values
	assert.InDelta(t, 12, *d.P95, 1e-9)
	assert.InDelta(t, 10.4, *d.P99, 1e-9)
}

func TestSummarize_Scenario(t *testing.T) {
	samples := make([]types.RequestSample, 10)
	for i := range samples {
		samples[i] = types.RequestSample{
			TotalTokens:      5,
			ElapsedTime:      1.0,
			TokensPerSecond:  5.0,
			TimeToFirstToken: f64(0.2),
		}
	}
	cfg := config.BenchmarkConfig{
		NumRequests:    10,
		Concurrency:    2,
		RequestTimeout: 30 * time.Second,
		OutputTokens:   5,
	}

	report := Summarize(samples, cfg, 5*time.Second)

	assert.Equal(t, 10, report.TotalRequests)
	assert.Equal(t, 10, report.SuccessfulRequests)
	assert.Equal(t, 2, report.Concurrency)
	assert.Equal(t, 30.0, report.RequestTimeout)
	assert.Equal(t, 5, report.MaxOutputTokens)
	assert.False(t, report.UseLongContext)
	assert.Equal(t, 5.0, report.TotalTime)
	assert.Equal(t, 2.0, report.RequestsPerSecond)
	assert.Equal(t, 50, report.TotalOutputTokens)

	assert.InDelta(t, 1.0, report.Latency.Average, 1e-9)
	assert.InDelta(t, 0.2, report.TimeToFirstToken.Average, 1e-9)
	assert.InDelta(t, 5.0, report.TokensPerSecond.Average, 1e-9)
	require.NotNil(t, report.Latency.P99)
	assert.InDelta(t, 1.0, *report.Latency.P99, 1e-9)
	assert.True(t, report.HasTTFT())
}

func TestSummarize_Empty(t *testing.T) {
	cfg := config.BenchmarkConfig{NumRequests: 4, Concurrency: 2, RequestTimeout: time.Second, OutputTokens: 10}

	report := Summarize(nil, cfg, 2*time.Second)

	assert.Equal(t, 4, report.TotalRequests)
	assert.Equal(t, 0, report.SuccessfulRequests)
	assert.Equal(t, 0.0, report.RequestsPerSecond)
	assert.Equal(t, 0, report.TotalOutputTokens)
	for _, d := range []types.Distribution{report.Latency, report.TokensPerSecond, report.TimeToFirstToken} {
		assert.Equal(t, 0.0, d.Average)
		assert.Nil(t, d.P50)
		assert.Nil(t, d.P95)
		assert.Nil(t, d.P99)
	}
	assert.False(t, report.HasTTFT())
}

func TestSummarize_ZeroWallTime(t *testing.T) {
	report := Summarize([]types.RequestSample{{TotalTokens: 1, ElapsedTime: 0.1}}, config.BenchmarkConfig{NumRequests: 1, Concurrency: 1}, 0)
	assert.Equal(t, 0.0, report.RequestsPerSecond)
}

func TestSummarize_TTFTOnlyFromSamplesThatHaveIt(t *testing.T) {
	samples := []types.RequestSample{
		{TotalTokens: 0, ElapsedTime: 0.5},
		{TotalTokens: 4, ElapsedTime: 1, TokensPerSecond: 4, TimeToFirstToken: f64(0.4)},
	}

	report := Summarize(samples, config.BenchmarkConfig{NumRequests: 2, Concurrency: 1}, time.Second)

	assert.InDelta(t, 0.4, report.TimeToFirstToken.Average, 1e-9)
	require.NotNil(t, report.TimeToFirstToken.P50)
	assert.InDelta(t, 0.4, *report.TimeToFirstToken.P50, 1e-9)
	assert.InDelta(t, 0.75, report.Latency.Average, 1e-9)
}

func TestSummarize_DoesNotModifySamples(t *testing.T) {
	samples := []types.RequestSample{
		{TotalTokens: 3, ElapsedTime: 3, TokensPerSecond: 1},
		{TotalTokens: 1, ElapsedTime: 1, TokensPerSecond: 1},
		{TotalTokens: 2, ElapsedTime: 2, TokensPerSecond: 1},
	}
	before := append([]types.RequestSample(nil), samples...)

	Summarize(samples, config.BenchmarkConfig{NumRequests: 3, Concurrency: 1}, time.Second)

	assert.Equal(t, before, samples)
}
