// Package stats keeps the process-lifetime request counters reported by the
// stats endpoint and logged at shutdown.
package stats

import (
	"sync"
	"time"
)

// Snapshot is a consistent copy of the counters.
type Snapshot struct {
	TotalRequests       int64
	SuccessfulRequests  int64
	FailedRequests      int64
	TotalProcessingTime time.Duration
}

// AvgProcessingTime is the mean duration of successful requests, or zero
// when none succeeded.
func (s Snapshot) AvgProcessingTime() time.Duration {
	if s.SuccessfulRequests == 0 {
		return 0
	}
	return s.TotalProcessingTime / time.Duration(s.SuccessfulRequests)
}

// Recorder accumulates outcomes. It is safe for concurrent use and every
// update is visible to the next Snapshot call.
type Recorder struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// NewRecorder creates a recorder with all counters at zero
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record counts one finished request. Processing time is only accumulated
// for successes.
func (r *Recorder) Record(success bool, processingTime time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot.TotalRequests++
	if !success {
		r.snapshot.FailedRequests++
		return
	}
	r.snapshot.SuccessfulRequests++
	r.snapshot.TotalProcessingTime += processingTime
}

// Snapshot returns the current counters
func (r *Recorder) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}
