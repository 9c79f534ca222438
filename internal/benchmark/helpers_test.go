package benchmark

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"vllm-benchmark/internal/config"
	"vllm-benchmark/internal/endpoint"
	"vllm-benchmark/internal/types"
)

// fakeClock is advanced explicitly by scripted streams
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// scriptedStream replays chunks. Before chunk i it waits delays[i] of real
// time and advances clock by steps[i] when those are set.
type scriptedStream struct {
	chunks []endpoint.Chunk
	delays []time.Duration
	steps  []time.Duration
	clock  *fakeClock
	hang   bool  // block after the last chunk until Close
	err    error // returned after the last chunk

	i         int
	recvCalls atomic.Int64
	closed    chan struct{}
	closeOnce sync.Once
}

func newScriptedStream(chunks ...endpoint.Chunk) *scriptedStream {
	return &scriptedStream{chunks: chunks, closed: make(chan struct{})}
}

func (s *scriptedStream) Recv() (endpoint.Chunk, error) {
	s.recvCalls.Add(1)
	if s.i < len(s.chunks) {
		if s.i < len(s.delays) && s.delays[s.i] > 0 {
			select {
			case <-time.After(s.delays[s.i]):
			case <-s.closed:
				return endpoint.Chunk{}, io.ErrClosedPipe
			}
		}
		if s.clock != nil && s.i < len(s.steps) {
			s.clock.Advance(s.steps[s.i])
		}
		c := s.chunks[s.i]
		s.i++
		return c, nil
	}
	if s.hang {
		<-s.closed
		return endpoint.Chunk{}, io.ErrClosedPipe
	}
	if s.err != nil {
		return endpoint.Chunk{}, s.err
	}
	return endpoint.Chunk{}, io.EOF
}

func (s *scriptedStream) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

func (s *scriptedStream) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// fakeClient hands out streams built by newStream
type fakeClient struct {
	newStream func(ctx context.Context, req endpoint.ChatRequest) (endpoint.Stream, error)

	mu       sync.Mutex
	requests []endpoint.ChatRequest
}

func (c *fakeClient) StreamChat(ctx context.Context, req endpoint.ChatRequest) (endpoint.Stream, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()
	return c.newStream(ctx, req)
}

func (c *fakeClient) Requests() []endpoint.ChatRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]endpoint.ChatRequest(nil), c.requests...)
}

// probeExecutor records the peak number of concurrent Execute calls
type probeExecutor struct {
	delay   time.Duration
	failOn  func(call int64) *Failure
	calls   atomic.Int64
	current atomic.Int64
	peak    atomic.Int64
}

func (p *probeExecutor) Execute(ctx context.Context, cfg config.BenchmarkConfig) (*types.RequestSample, *Failure) {
	call := p.calls.Add(1)
	cur := p.current.Add(1)
	for {
		peak := p.peak.Load()
		if cur <= peak || p.peak.CompareAndSwap(peak, cur) {
			break
		}
	}
	time.Sleep(p.delay)
	p.current.Add(-1)

	if p.failOn != nil {
		if f := p.failOn(call); f != nil {
			return nil, f
		}
	}
	ttft := 0.01
	return &types.RequestSample{TotalTokens: 3, ElapsedTime: 0.1, TokensPerSecond: 30, TimeToFirstToken: &ttft}, nil
}

// syncBuffer is a goroutine-safe log sink
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
