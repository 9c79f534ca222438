package benchmark

import (
	"math"
	"sort"
	"time"

	"vllm-benchmark/internal/config"
	"vllm-benchmark/internal/types"
)

// Percentiles reported for every metric
var reportedPercentiles = [3]float64{50, 95, 99}

// Summarize computes the SummaryReport of one configuration run from its
// samples. It does not modify samples.
func Summarize(samples []types.RequestSample, cfg config.BenchmarkConfig, totalWallTime time.Duration) types.SummaryReport {
	report := types.SummaryReport{
		TotalRequests:      cfg.NumRequests,
		SuccessfulRequests: len(samples),
		Concurrency:        cfg.Concurrency,
		RequestTimeout:     cfg.RequestTimeout.Seconds(),
		MaxOutputTokens:    cfg.OutputTokens,
		UseLongContext:     cfg.UseLongContext,
		TotalTime:          totalWallTime.Seconds(),
	}

	if report.TotalTime > 0 {
		report.RequestsPerSecond = float64(report.SuccessfulRequests) / report.TotalTime
	}

	latencies := make([]float64, 0, len(samples))
	tokensPerSecond := make([]float64, 0, len(samples))
	ttfts := make([]float64, 0, len(samples))
	for _, s := range samples {
		report.TotalOutputTokens += s.TotalTokens
		latencies = append(latencies, s.ElapsedTime)
		tokensPerSecond = append(tokensPerSecond, s.TokensPerSecond)
		if s.TimeToFirstToken != nil {
			ttfts = append(ttfts, *s.TimeToFirstToken)
		}
	}

	report.Latency = distribution(latencies, false)
	// Throughput percentiles read the slow tail, so p95 is the 5th percentile.
	report.TokensPerSecond = distribution(tokensPerSecond, true)
	report.TimeToFirstToken = distribution(ttfts, false)

	return report
}

// distribution sorts values in place and computes average and percentiles
func distribution(values []float64, inverted bool) types.Distribution {
	sort.Float64s(values)

	d := types.Distribution{Average: average(values)}
	ps := make([]*float64, len(reportedPercentiles))
	for i, p := range reportedPercentiles {
		if inverted {
			p = 100 - p
		}
		ps[i] = percentile(values, p)
	}
	d.P50, d.P95, d.P99 = ps[0], ps[1], ps[2]
	return d
}

// Percentile returns the p-th percentile of values using linear
// interpolation between closest ranks, or nil for an empty input.
func Percentile(values []float64, p float64) *float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentile(sorted, p)
}

// average calculates the average of a slice of float64
func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// percentile calculates the percentile of a sorted slice
func percentile(sortedValues []float64, p float64) *float64 {
	if len(sortedValues) == 0 {
		return nil
	}

	var v float64
	switch {
	case p <= 0:
		v = sortedValues[0]
	case p >= 100:
		v = sortedValues[len(sortedValues)-1]
	default:
		index := (p / 100.0) * float64(len(sortedValues)-1)
		lower := int(math.Floor(index))
		upper := int(math.Ceil(index))

		if lower == upper {
			v = sortedValues[lower]
		} else {
			// Linear interpolation
			weight := index - float64(lower)
			v = sortedValues[lower]*(1-weight) + sortedValues[upper]*weight
		}
	}
	return &v
}
