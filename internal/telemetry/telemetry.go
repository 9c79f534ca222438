// Package telemetry exposes live Prometheus metrics while a benchmark runs.
package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request outcomes used as the "outcome" label
const (
	OutcomeSuccess = "success"
	OutcomeTimeout = "timeout"
	OutcomeError   = "error"
)

// Recorder holds the benchmark collectors. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	inflight     prometheus.Gauge
	latency      prometheus.Histogram
	ttft         prometheus.Histogram
	outputTokens prometheus.Counter
}

// NewRecorder creates a Recorder on its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vllm_bench",
			Name:      "requests_total",
			Help:      "Completed benchmark requests by outcome",
		}, []string{"outcome"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vllm_bench",
			Name:      "inflight_requests",
			Help:      "Requests currently being driven",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vllm_bench",
			Name:      "request_latency_seconds",
			Help:      "End to end latency of successful requests",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		ttft: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vllm_bench",
			Name:      "ttft_seconds",
			Help:      "Time to first token of successful requests",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),
		outputTokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vllm_bench",
			Name:      "output_tokens_total",
			Help:      "Generated tokens counted across successful requests",
		}),
	}
	r.registry.MustRegister(r.requests, r.inflight, r.latency, r.ttft, r.outputTokens)
	return r
}

// Registry returns the registry backing the recorder
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RequestStarted increments the in-flight gauge
func (r *Recorder) RequestStarted() {
	if r == nil {
		return
	}
	r.inflight.Inc()
}

// RequestFinished decrements the in-flight gauge and counts the outcome
func (r *Recorder) RequestFinished(outcome string) {
	if r == nil {
		return
	}
	r.inflight.Dec()
	r.requests.WithLabelValues(outcome).Inc()
}

// ObserveSample records the timings of a successful request
func (r *Recorder) ObserveSample(latency float64, ttft *float64, tokens int) {
	if r == nil {
		return
	}
	r.latency.Observe(latency)
	if ttft != nil {
		r.ttft.Observe(*ttft)
	}
	r.outputTokens.Add(float64(tokens))
}

// Serve exposes /metrics on addr until ctx is cancelled
func (r *Recorder) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
