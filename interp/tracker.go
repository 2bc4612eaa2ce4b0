package interp

import (
	"sync"
	"time"

	ierr "github.com/cwbudde/go-sandjs/errors"
)

// Stats are the per-evaluation counters. They reset at the start of every
// top-level Evaluate/EvaluateAsync call.
type Stats struct {
	// NodeCount is the number of AST nodes evaluated.
	NodeCount int
	// CallCount is the number of function invocations.
	CallCount int
	// LoopIterations is the number of loop iterations executed.
	LoopIterations int
	// StartTime is when the evaluation began.
	StartTime time.Time
	// Duration is the wall-clock time of the evaluation (zero while it is
	// still running).
	Duration time.Duration
}

// ResourceLimits are cumulative ceilings enforced by a ResourceTracker.
// A zero field means unlimited.
type ResourceLimits struct {
	// MaxTotalMemory bounds the cumulative node-evaluation count, the
	// tracker's proxy for allocated memory.
	MaxTotalMemory int
	// MaxTotalIterations bounds cumulative loop iterations.
	MaxTotalIterations int
	// MaxFunctionCalls bounds cumulative function calls.
	MaxFunctionCalls int
	// MaxCPUTime bounds cumulative evaluation wall time.
	MaxCPUTime time.Duration
	// MaxEvaluations bounds the number of evaluations.
	MaxEvaluations int
}

// EvalRecord is one history entry of a tracker.
type EvalRecord struct {
	When  time.Time
	Stats Stats
}

// ResourceTracker accumulates usage across evaluations, shared by any
// number of interpreters. Once a limit is reached every further
// evaluation fails before it starts.
type ResourceTracker struct {
	mu     sync.Mutex
	limits ResourceLimits

	totalNodes      int
	totalIterations int
	totalCalls      int
	totalCPU        time.Duration
	evaluations     int

	historyCap int
	history    []EvalRecord
}

// NewResourceTracker creates a tracker with the given limits and a
// bounded history of historyCap entries (0 disables history).
func NewResourceTracker(limits ResourceLimits, historyCap int) *ResourceTracker {
	return &ResourceTracker{limits: limits, historyCap: historyCap}
}

// CheckBudget reports whether another evaluation may start. It fails with
// a ResourceExhausted error naming the first exceeded limit.
func (t *ResourceTracker) CheckBudget() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.limits.MaxEvaluations > 0 && t.evaluations >= t.limits.MaxEvaluations:
		return ierr.NewResourceExhaustedError("maxEvaluations")
	case t.limits.MaxTotalMemory > 0 && t.totalNodes >= t.limits.MaxTotalMemory:
		return ierr.NewResourceExhaustedError("maxTotalMemory")
	case t.limits.MaxTotalIterations > 0 && t.totalIterations >= t.limits.MaxTotalIterations:
		return ierr.NewResourceExhaustedError("maxTotalIterations")
	case t.limits.MaxFunctionCalls > 0 && t.totalCalls >= t.limits.MaxFunctionCalls:
		return ierr.NewResourceExhaustedError("maxFunctionCalls")
	case t.limits.MaxCPUTime > 0 && t.totalCPU >= t.limits.MaxCPUTime:
		return ierr.NewResourceExhaustedError("maxCpuTime")
	}
	return nil
}

// Record consumes one evaluation's counters.
func (t *ResourceTracker) Record(s Stats) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evaluations++
	t.totalNodes += s.NodeCount
	t.totalIterations += s.LoopIterations
	t.totalCalls += s.CallCount
	t.totalCPU += s.Duration
	if t.historyCap > 0 {
		t.history = append(t.history, EvalRecord{When: s.StartTime, Stats: s})
		if len(t.history) > t.historyCap {
			t.history = t.history[len(t.history)-t.historyCap:]
		}
	}
}

// History returns a copy of the recorded entries, oldest first.
func (t *ResourceTracker) History() []EvalRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]EvalRecord, len(t.history))
	copy(out, t.history)
	return out
}

// Evaluations returns how many evaluations the tracker has recorded.
func (t *ResourceTracker) Evaluations() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.evaluations
}
