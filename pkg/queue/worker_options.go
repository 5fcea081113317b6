package queue

import (
	"log/slog"
	"time"
)

// WorkerOption is a functional option for configuring a worker.
type WorkerOption func(*workerOptions)

type workerOptions struct {
	queues            []string
	pollInterval      time.Duration
	lockTimeout       time.Duration
	requeueDelay      time.Duration
	maxConcurrentJobs int
	logger            *slog.Logger
}

// WithQueues sets which queues the worker should pull from.
func WithQueues(queues ...string) WorkerOption {
	return func(o *workerOptions) {
		if len(queues) > 0 {
			o.queues = queues
		}
	}
}

// WithPollInterval sets how often the worker checks for new jobs.
func WithPollInterval(d time.Duration) WorkerOption {
	return func(o *workerOptions) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithLockTimeout sets the claim lock duration. It also bounds each
// handler invocation.
func WithLockTimeout(d time.Duration) WorkerOption {
	return func(o *workerOptions) {
		if d > 0 {
			o.lockTimeout = d
		}
	}
}

// WithRequeueDelay sets how long a failed job waits before it becomes
// claimable again.
func WithRequeueDelay(d time.Duration) WorkerOption {
	return func(o *workerOptions) {
		if d > 0 {
			o.requeueDelay = d
		}
	}
}

// WithMaxConcurrentJobs sets the maximum number of jobs processed in parallel.
func WithMaxConcurrentJobs(n int) WorkerOption {
	return func(o *workerOptions) {
		if n > 0 {
			o.maxConcurrentJobs = n
		}
	}
}

// WithWorkerLogger sets the logger for the worker.
func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(o *workerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
