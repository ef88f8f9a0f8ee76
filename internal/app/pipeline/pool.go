package pipeline

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// ErrPoolSaturated is returned by Submit when every worker is busy and
// the queue is full. Callers surface this as backpressure instead of
// spawning an unbounded goroutine per upload.
var ErrPoolSaturated = errors.New("worker pool saturated")

// Task is one unit of pipeline work.
type Task func(ctx context.Context)

// Pool runs submitted tasks on a fixed number of workers. One slow
// job's stage latency never blocks another job beyond queueing.
type Pool struct {
	wg      sync.WaitGroup
	tasks   chan Task
	quit    chan struct{}
	workers int
	logger  *zap.Logger
}

// NewPool creates a pool with the given worker count. Zero or negative
// means one worker per CPU.
func NewPool(workers int, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{
		tasks:   make(chan Task, workers*2),
		quit:    make(chan struct{}),
		workers: workers,
		logger:  logger,
	}
}

// Start launches the workers. Tasks stop being picked up once ctx is
// cancelled or Stop is called.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-p.quit:
					return
				case task := <-p.tasks:
					if task == nil {
						continue
					}
					task(ctx)
				}
			}
		}(i)
	}
	p.logger.Info("worker pool started", zap.Int("workers", p.workers))
}

// Stop signals the workers and waits for in-flight tasks to finish.
func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

// Submit enqueues a task, rejecting with ErrPoolSaturated when capacity
// is exceeded.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolSaturated
	}
}
