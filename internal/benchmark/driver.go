package benchmark

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"vllm-benchmark/internal/config"
	"vllm-benchmark/internal/endpoint"
	"vllm-benchmark/internal/prompts"
	"vllm-benchmark/internal/types"
)

// FailureKind separates timeouts from every other request failure
type FailureKind string

const (
	FailureTimeout FailureKind = "timeout"
	FailureError   FailureKind = "error"
)

// Failure describes a request that produced no sample
type Failure struct {
	Kind FailureKind
	Type string // endpoint.ErrType* classification
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s (%s): %v", f.Kind, f.Type, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Executor performs one benchmark request
type Executor interface {
	Execute(ctx context.Context, cfg config.BenchmarkConfig) (*types.RequestSample, *Failure)
}

// Driver drives a single streaming request end to end and times it
type Driver struct {
	client  endpoint.Client
	prompts *prompts.Source
	model   string
	logger  *slog.Logger
	now     func() time.Time
}

// DriverOption customizes a Driver
type DriverOption func(*Driver)

// WithClock replaces time.Now for request timing
func WithClock(now func() time.Time) DriverOption {
	return func(d *Driver) { d.now = now }
}

// NewDriver creates a Driver sending requests for model through client
func NewDriver(client endpoint.Client, source *prompts.Source, model string, logger *slog.Logger, opts ...DriverOption) *Driver {
	d := &Driver{
		client:  client,
		prompts: source,
		model:   model,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type consumeResult struct {
	firstToken time.Time
	sawToken   bool
	tokens     int
	end        time.Time
	err        error
}

// Execute issues one streaming request capped at cfg.OutputTokens and bounded
// by cfg.RequestTimeout. Exactly one of the return values is non-nil.
func (d *Driver) Execute(ctx context.Context, cfg config.BenchmarkConfig) (*types.RequestSample, *Failure) {
	start := d.now()
	content := d.prompts.NextContent(cfg.UseLongContext)

	reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	stream, err := d.client.StreamChat(reqCtx, endpoint.ChatRequest{
		Model:     d.model,
		Prompt:    content,
		MaxTokens: cfg.OutputTokens,
	})
	if err != nil {
		return nil, d.failure(reqCtx, err, cfg.RequestTimeout)
	}

	done := make(chan consumeResult, 1)
	go func() {
		done <- d.consume(stream)
	}()

	var res consumeResult
	select {
	case res = <-done:
	case <-reqCtx.Done():
		select {
		case res = <-done:
		default:
			// Closing the stream unblocks the consumer goroutine.
			_ = stream.Close()
			return nil, d.failure(reqCtx, reqCtx.Err(), cfg.RequestTimeout)
		}
	}
	_ = stream.Close()
	if res.err != nil {
		return nil, d.failure(reqCtx, res.err, cfg.RequestTimeout)
	}

	elapsed := res.end.Sub(start).Seconds()
	sample := &types.RequestSample{
		TotalTokens: res.tokens,
		ElapsedTime: elapsed,
	}
	if elapsed > 0 {
		sample.TokensPerSecond = float64(res.tokens) / elapsed
	}
	if res.sawToken {
		ttft := res.firstToken.Sub(start).Seconds()
		sample.TimeToFirstToken = &ttft
	}
	return sample, nil
}

// consume reads the stream until a finish reason or EOF, counting one token
// per chunk with content.
func (d *Driver) consume(stream endpoint.Stream) consumeResult {
	var res consumeResult
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.err = err
			return res
		}
		if chunk.Content != "" {
			if !res.sawToken {
				res.firstToken = d.now()
				res.sawToken = true
			}
			res.tokens++
		}
		if chunk.FinishReason != "" {
			break
		}
	}
	res.end = d.now()
	return res
}

// failure classifies and logs a request error
func (d *Driver) failure(reqCtx context.Context, err error, timeout time.Duration) *Failure {
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		d.logger.Warn("request timed out", "timeout", timeout)
		return &Failure{Kind: FailureTimeout, Type: endpoint.ErrTypeTimeout, Err: err}
	}

	errType := endpoint.Classify(err)
	d.logger.Error("error during request", "error", err, "error_type", errType)
	return &Failure{Kind: FailureError, Type: errType, Err: err}
}
