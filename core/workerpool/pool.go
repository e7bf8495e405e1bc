package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrClosed is returned by Submit after Close was called.
var ErrClosed = errors.New("worker pool closed")

// Task is a unit of work run by a worker.
type Task func()

// Pool runs tasks on a fixed number of workers fed by a bounded queue.
type Pool struct {
	tasks  chan Task
	logger *zap.Logger
	wg     sync.WaitGroup

	mu      sync.RWMutex
	closed  bool
	onPanic func(recovered any)
}

// New starts a pool with cfg.Threads workers.
// onPanic, if not nil, is called after a task panic has been recovered.
func New(cfg Config, logger *zap.Logger, onPanic func(recovered any)) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pool{
		tasks:   make(chan Task, cfg.QueueSize),
		logger:  logger,
		onPanic: onPanic,
	}
	p.wg.Add(cfg.Threads)
	for i := 0; i < cfg.Threads; i++ {
		go p.worker()
	}
	return p, nil
}

// Submit queues task. It blocks while the queue is full until a worker
// frees a slot or ctx is done.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("submit task: %w", ctx.Err())
	}
}

// Pending returns the number of queued tasks not yet picked up by a worker.
func (p *Pool) Pending() int {
	return len(p.tasks)
}

// Close stops accepting tasks, drains the queue and waits for the workers.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Recovered panic in worker", zap.Any("panic", r))
			if p.onPanic != nil {
				p.onPanic(r)
			}
		}
	}()
	task()
}
