package bot

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type job struct {
	name string
	run  func(ctx context.Context) error
}

// eventQueue runs submitted jobs one at a time on a single worker goroutine.
// Submit never blocks; jobs are dropped when the buffer is full or the queue
// is closed.
type eventQueue struct {
	jobs   chan job
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func newEventQueue(size int, logger *zap.Logger) *eventQueue {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &eventQueue{
		jobs:   make(chan job, size),
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Submit enqueues j and reports whether it was accepted.
func (q *eventQueue) Submit(j job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.logger.Warn("Event dropped after shutdown", zap.String("event", j.name))
		return false
	}
	select {
	case q.jobs <- j:
		return true
	default:
		q.logger.Warn("Event queue full, dropping event",
			zap.String("event", j.name),
			zap.Int("capacity", cap(q.jobs)),
		)
		return false
	}
}

// Run drains the queue until it is closed. Jobs still buffered at close time
// are executed before Run returns.
func (q *eventQueue) Run(ctx context.Context) {
	defer close(q.done)
	for j := range q.jobs {
		if err := j.run(ctx); err != nil {
			q.logger.Error("Event handling failed",
				zap.String("event", j.name),
				zap.Error(err),
			)
		}
	}
}

// Close stops accepting jobs and waits for the worker to drain, or for ctx.
func (q *eventQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
