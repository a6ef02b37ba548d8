package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nafijninja/genx/internal/domain"
)

type browserJob struct {
	ctx  context.Context
	task domain.BrowserTask
	done chan error
}

// WorkerPool runs browser tasks against the shared page. With a single
// worker, tasks never interleave their page interactions. Cancel aborts the
// running task and skips queued ones; workers exit once Close is called and
// the queue is drained.
type WorkerPool struct {
	workerCounts int
	JobQueue     chan browserJob
	Ctx          context.Context
	CancelFunc   context.CancelFunc
	Wg           *sync.WaitGroup
	Logger       domain.LoggingRepository

	mu     sync.RWMutex
	closed bool
}

func NewWorkerPool(ctx context.Context, workercounts int, queuesize int, logger domain.LoggingRepository) domain.BrowserWorkerPool {
	ctx, cancelFunc := context.WithCancel(ctx)

	wp := &WorkerPool{
		workerCounts: workercounts,
		JobQueue:     make(chan browserJob, queuesize),
		Ctx:          ctx,
		CancelFunc:   cancelFunc,
		Wg:           &sync.WaitGroup{},
		Logger:       logger.With("service.component", "browser_worker_pool"),
	}

	return wp
}

func (wp *WorkerPool) ProcessJob(workerid int) {
	go func() {
		start := time.Now()
		log := wp.Logger.With("worker_id", workerid)
		log.Info("worker_pool_started")

		for job := range wp.JobQueue {
			wp.run(log, job)
		}
		log.Warn("worker_stopped", "reason", "worker_exited_job_queue_closed", "duration_us", int(time.Since(start).Microseconds()))
	}()
}

func (wp *WorkerPool) run(log domain.LoggingRepository, job browserJob) {
	defer wp.Wg.Done()

	if err := job.ctx.Err(); err != nil {
		log.Warn("browser_job_skipped", "reason", "caller_gone", "error.message", err.Error())
		job.done <- err
		return
	}
	if err := wp.Ctx.Err(); err != nil {
		log.Warn("browser_job_skipped", "reason", "worker_pool_canceled")
		job.done <- err
		return
	}

	ctx, cancel := context.WithCancel(job.ctx)
	defer cancel()
	stop := context.AfterFunc(wp.Ctx, cancel)
	defer stop()

	start := time.Now()
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("worker_paniced", "reason", fmt.Sprintf("%v", r))
				err = domain.NewDomainError(domain.ErrCodeInternal, "browser task panicked", fmt.Errorf("%v", r))
			}
		}()
		return job.task(ctx)
	}()

	if err != nil {
		log.Error("browser_job_failed", "reason", err.Error(), "duration_us", int(time.Since(start).Microseconds()))
	} else {
		log.Info("browser_job_completed_successfully", "duration_us", int(time.Since(start).Microseconds()))
	}
	job.done <- err
}

func (wp *WorkerPool) Start() {
	for i := 1; i <= wp.workerCounts; i++ {
		wp.ProcessJob(i)
	}
}

// Submit queues task and blocks until it has run or ctx is done. A full
// queue rejects the task with domain.ErrBrowserBusy.
func (wp *WorkerPool) Submit(ctx context.Context, task domain.BrowserTask) error {
	job := browserJob{ctx: ctx, task: task, done: make(chan error, 1)}

	wp.mu.RLock()
	if wp.closed {
		wp.mu.RUnlock()
		return domain.ErrBrowserBusy
	}
	wp.Wg.Add(1)
	select {
	case wp.JobQueue <- job:
		wp.mu.RUnlock()
		wp.Logger.Info("browser_job_submitted", "current_queue_size", len(wp.JobQueue))
	default:
		wp.mu.RUnlock()
		wp.Wg.Done()
		wp.Logger.Warn("browser_job_dropped", "current_queue_size", len(wp.JobQueue))
		return domain.ErrBrowserBusy
	}

	select {
	case err := <-job.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (wp *WorkerPool) Cancel() {
	wp.CancelFunc()
}

func (wp *WorkerPool) Wait() {
	wp.Wg.Wait()
}

func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.closed {
		return
	}
	wp.closed = true
	close(wp.JobQueue)
}
