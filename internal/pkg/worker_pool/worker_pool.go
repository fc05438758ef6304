package worker_pool

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
)

var ErrPoolCanceled = errors.New("worker pool is canceled; task not accepted")

type TaskFunc func(ctx context.Context) (any, error)

// TaskResult holds the outcome of a finished task.
type TaskResult struct {
	ID     string
	Result any
	Err    error
}

type workItem struct {
	id string
	fn TaskFunc
}

// WorkerPool runs submitted tasks on a fixed number of goroutines.
//
// The submitting goroutine calls Close once it has submitted everything;
// Results is closed after the last task has reported. Results must be drained
// concurrently with Submit.
type WorkerPool struct {
	tasksCh     chan workItem
	resultsCh   chan TaskResult
	ctx         context.Context
	cancelFunc  context.CancelFunc
	wg          sync.WaitGroup
	closeOnce   sync.Once
	stopOnError bool
	log         *log.Logger
}

// NewWorkerPool starts numWorkers workers (at least one). If stopOnError is
// true the pool cancels on the first task error and the remaining queued tasks
// report the cancellation instead of running.
func NewWorkerPool(parentCtx context.Context, numWorkers int, stopOnError bool, logger *log.Logger) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, cancel := context.WithCancel(parentCtx)
	wp := &WorkerPool{
		tasksCh:     make(chan workItem),
		resultsCh:   make(chan TaskResult, numWorkers),
		ctx:         ctx,
		cancelFunc:  cancel,
		stopOnError: stopOnError,
		log:         logger,
	}
	wp.wg.Add(numWorkers)
	for i := 1; i <= numWorkers; i++ {
		go wp.worker(i)
	}
	logger.Debugf("worker pool started with %d workers", numWorkers)
	return wp
}

// Submit queues a task. It blocks until a worker accepts it or the pool is canceled.
func (wp *WorkerPool) Submit(id string, taskFn TaskFunc) error {
	if wp.ctx.Err() != nil {
		wp.log.Warnf("submit rejected for task %s: pool is shutting down", id)
		return ErrPoolCanceled
	}

	select {
	case wp.tasksCh <- workItem{id: id, fn: taskFn}:
		return nil
	case <-wp.ctx.Done():
		wp.log.Warnf("submit failed for task %s: pool was canceled", id)
		return ErrPoolCanceled
	}
}

func (wp *WorkerPool) Results() <-chan TaskResult {
	return wp.resultsCh
}

// Close stops accepting tasks. Results is closed once running tasks finish.
func (wp *WorkerPool) Close() {
	wp.closeOnce.Do(func() {
		close(wp.tasksCh)
		go func() {
			wp.wg.Wait()
			wp.cancelFunc()
			close(wp.resultsCh)
			wp.log.Debug("worker pool drained")
		}()
	})
}

// Stop cancels the pool context. Tasks already running see the cancellation through ctx.
func (wp *WorkerPool) Stop() {
	wp.log.Debug("worker pool stop invoked")
	wp.cancelFunc()
}

func (wp *WorkerPool) worker(workerID int) {
	defer wp.wg.Done()
	for task := range wp.tasksCh {
		if err := wp.ctx.Err(); err != nil {
			wp.resultsCh <- TaskResult{ID: task.id, Err: err}
			continue
		}

		wp.log.Debugf("worker %d starting task %s", workerID, task.id)
		result, err := task.fn(wp.ctx)
		if err != nil {
			wp.log.Debugf("task %s failed: %v", task.id, err)
			if wp.stopOnError {
				wp.log.Warnf("stopOnError active - canceling pool due to error in task %s", task.id)
				wp.cancelFunc()
			}
		}
		wp.resultsCh <- TaskResult{ID: task.id, Result: result, Err: err}
	}
	wp.log.Debugf("worker %d exiting: task channel closed", workerID)
}
