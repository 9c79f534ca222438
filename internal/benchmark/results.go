package benchmark

import (
	"sync"
	"sync/atomic"

	"vllm-benchmark/internal/types"
)

// ResultsCollection is the append-only sample store shared by the workers of
// one run. Order reflects completion order.
type ResultsCollection struct {
	mu      sync.Mutex
	samples []types.RequestSample
}

// NewResultsCollection creates an empty collection sized for capacity samples
func NewResultsCollection(capacity int) *ResultsCollection {
	return &ResultsCollection{samples: make([]types.RequestSample, 0, capacity)}
}

// Append adds a sample
func (r *ResultsCollection) Append(s types.RequestSample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, s)
}

// Len returns the number of samples collected so far
func (r *ResultsCollection) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

// Samples returns a copy of the collected samples
func (r *ResultsCollection) Samples() []types.RequestSample {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.RequestSample, len(r.samples))
	copy(out, r.samples)
	return out
}

// FailureTally counts failed requests by kind and error type
type FailureTally struct {
	mu       sync.Mutex
	total    int
	timeouts int
	byType   map[string]int
}

func newFailureTally() *FailureTally {
	return &FailureTally{byType: make(map[string]int)}
}

// Add records a failure
func (f *FailureTally) Add(failure *Failure) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.total++
	if failure.Kind == FailureTimeout {
		f.timeouts++
	}
	errType := failure.Type
	if errType == "" {
		errType = "UnknownError"
	}
	f.byType[errType]++
}

// Counts returns the total failures, the timeouts among them and a copy of
// the per-type counts
func (f *FailureTally) Counts() (total, timeouts int, byType map[string]int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byType = make(map[string]int, len(f.byType))
	for k, v := range f.byType {
		byType[k] = v
	}
	return f.total, f.timeouts, byType
}

// Progress is a live view of a running pool, read by the progress printer
type Progress struct {
	started   atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
}

// Snapshot returns started, succeeded and failed request counts
func (p *Progress) Snapshot() (started, succeeded, failed int64) {
	if p == nil {
		return 0, 0, 0
	}
	return p.started.Load(), p.succeeded.Load(), p.failed.Load()
}

func (p *Progress) start() {
	if p != nil {
		p.started.Add(1)
	}
}

func (p *Progress) finish(ok bool) {
	if p == nil {
		return
	}
	if ok {
		p.succeeded.Add(1)
	} else {
		p.failed.Add(1)
	}
}
