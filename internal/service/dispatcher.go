package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// task is one unit of background work bound to a job id.
type task struct {
	jobID string
	run   func(ctx context.Context)
}

// Dispatcher runs submitted tasks on a fixed pool of workers fed by a
// bounded queue. When the queue is full, TryEnqueue rejects immediately so
// the intake shell can signal backpressure instead of buffering unbounded
// work.
type Dispatcher struct {
	queue   chan task
	workers int
	wg      sync.WaitGroup
	logger  *zap.SugaredLogger
}

func NewDispatcher(workers, queueSize int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{
		queue:   make(chan task, queueSize),
		workers: workers,
		logger:  zap.S().Named("dispatcher"),
	}
}

// Start launches the worker pool. Workers drain the queue until ctx is
// cancelled; in-flight tasks observe the same ctx and stop at their next
// frame boundary.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func(worker int) {
			defer d.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t := <-d.queue:
					d.logger.Debugw("worker picked up job", "worker", worker, "job_id", t.jobID)
					t.run(ctx)
				}
			}
		}(i)
	}
	d.logger.Infow("dispatcher started", "workers", d.workers, "queue_size", cap(d.queue))
}

// TryEnqueue adds a task without blocking. Returns ErrQueueFull when the
// queue is saturated.
func (d *Dispatcher) TryEnqueue(jobID string, run func(ctx context.Context)) error {
	select {
	case d.queue <- task{jobID: jobID, run: run}:
		return nil
	default:
		return NewErrQueueFull()
	}
}

// Wait blocks until all workers have exited after cancellation.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
