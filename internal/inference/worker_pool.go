package inference

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// PoolStats is a snapshot of the pool counters.
type PoolStats struct {
	TotalJobs     int64
	CompletedJobs int64
	ActiveWorkers int64
}

// WorkerPool runs CPU-bound engine work on a fixed set of goroutines shared
// by all requests.
type WorkerPool struct {
	workers   int
	jobQueue  chan func()
	once      sync.Once
	closeOnce sync.Once

	totalJobs     atomic.Int64
	completedJobs atomic.Int64
	activeWorkers atomic.Int64
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Start initializes and starts all workers in the pool
func (wp *WorkerPool) Start() {
	wp.once.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

func (wp *WorkerPool) worker() {
	for job := range wp.jobQueue {
		wp.activeWorkers.Add(1)
		job()
		wp.activeWorkers.Add(-1)
		wp.completedJobs.Add(1)
	}
}

// Workers returns the number of goroutines in the pool.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Run submits jobs and blocks until every one of them has finished. Jobs from
// concurrent callers interleave but each caller only waits for its own.
func (wp *WorkerPool) Run(jobs ...func()) {
	var wg sync.WaitGroup
	wg.Add(len(jobs))
	wp.totalJobs.Add(int64(len(jobs)))
	for _, job := range jobs {
		job := job
		wp.jobQueue <- func() {
			defer wg.Done()
			job()
		}
	}
	wg.Wait()
}

// GetStats returns the current counters
func (wp *WorkerPool) GetStats() PoolStats {
	return PoolStats{
		TotalJobs:     wp.totalJobs.Load(),
		CompletedJobs: wp.completedJobs.Load(),
		ActiveWorkers: wp.activeWorkers.Load(),
	}
}

// Close shuts down the worker pool
func (wp *WorkerPool) Close() {
	wp.closeOnce.Do(func() {
		close(wp.jobQueue)
	})
}
