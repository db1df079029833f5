package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Task is one cluster's unit of work.
type Task struct {
	// ClusterName identifies which cluster this task targets
	ClusterName string

	// Execute runs the task and returns the shaped output. The kubeconfig
	// and command arguments are bound via closure.
	Execute func(ctx context.Context) (*Output, error)
}

// Result is the outcome of executing one task.
type Result struct {
	// ClusterName identifies which cluster this result is from
	ClusterName string

	// Output is the shaped command output (nil when Error is set)
	Output *Output

	// Error is whatever stopped the task, nil on success
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration
}

// Pool fans tasks out across a bounded set of workers. Every task is
// queued before the first worker starts, and results are collected in
// completion order, which generally differs from submission order. The
// pool lives for a single Execute call; there is no persistent worker
// state.
type Pool struct {
	// workers is the number of concurrent workers
	workers int

	// tasks is the queue of tasks to execute
	tasks []Task

	// mu protects the tasks slice
	mu sync.Mutex

	// logger for structured logging
	logger *slog.Logger

	// running guards against overlapping Execute calls
	running atomic.Bool
}

// NewPool creates a worker pool with the specified number of workers.
// workers must be > 0, otherwise it defaults to 1.
func NewPool(workers int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Pool{
		workers: workers,
		tasks:   make([]Task, 0),
		logger:  logger,
	}
}

// Submit adds a task to the pool's queue. It fails while an Execute call
// is in flight and on tasks missing a cluster name or execute function.
func (p *Pool) Submit(task Task) error {
	if p.running.Load() {
		return fmt.Errorf("pool is running, cannot submit new tasks")
	}
	if task.ClusterName == "" {
		return fmt.Errorf("task must have a cluster name")
	}
	if task.Execute == nil {
		return fmt.Errorf("task must have an execute function")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.tasks = append(p.tasks, task)
	p.logger.Debug("task submitted", "cluster", task.ClusterName, "total_tasks", len(p.tasks))

	return nil
}

// Execute runs all submitted tasks across the worker set and returns one
// result per task, in completion order. A failing or panicking task never
// disturbs its siblings: its result carries the error and the rest of the
// pool keeps going. Once the context is cancelled, tasks not yet started
// complete immediately with a cancellation error.
func (p *Pool) Execute(ctx context.Context) []Result {
	if !p.running.CompareAndSwap(false, true) {
		p.logger.Error("pool is already running")
		return nil
	}
	defer p.running.Store(false)

	p.mu.Lock()
	tasks := make([]Task, len(p.tasks))
	copy(tasks, p.tasks)
	p.mu.Unlock()

	if len(tasks) == 0 {
		p.logger.Debug("no tasks to execute")
		return nil
	}

	workerCount := p.workers
	if workerCount > len(tasks) {
		workerCount = len(tasks)
	}

	p.logger.Info("starting fan-out", "workers", workerCount, "tasks", len(tasks))
	start := time.Now()

	// Both channels are buffered to the task count, so queuing never blocks
	// and every worker can always deliver its result.
	taskChan := make(chan Task, len(tasks))
	resultChan := make(chan Result, len(tasks))
	for _, task := range tasks {
		taskChan <- task
	}
	close(taskChan)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go p.worker(ctx, i, taskChan, resultChan, &wg)
	}
	wg.Wait()
	close(resultChan)

	results := make([]Result, 0, len(tasks))
	for res := range resultChan {
		results = append(results, res)
	}

	p.logger.Info("fan-out completed",
		"total", len(tasks),
		"successful", CountSuccessful(results),
		"failed", CountFailed(results),
		"duration", time.Since(start))

	return results
}

// worker drains the task channel. It keeps draining after cancellation so
// that every queued task is accounted for in the results.
func (p *Pool) worker(ctx context.Context, workerID int, taskChan <-chan Task, resultChan chan<- Result, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range taskChan {
		resultChan <- p.executeTask(ctx, task)
	}
	p.logger.Debug("worker finished", "worker_id", workerID)
}

// executeTask runs a single task, converting panics into failed results.
func (p *Pool) executeTask(ctx context.Context, task Task) (result Result) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked", "cluster", task.ClusterName, "panic", r)
			result = Result{
				ClusterName: task.ClusterName,
				Error:       fmt.Errorf("task panicked: %v", r),
				Duration:    time.Since(start),
			}
		}
	}()

	if err := ctx.Err(); err != nil {
		return Result{
			ClusterName: task.ClusterName,
			Error:       fmt.Errorf("task cancelled before execution: %w", err),
			Duration:    time.Since(start),
		}
	}

	p.logger.Debug("executing task", "cluster", task.ClusterName)
	output, err := task.Execute(ctx)
	duration := time.Since(start)

	if err != nil {
		p.logger.Warn("task failed", "cluster", task.ClusterName, "error", err, "duration", duration)
	} else {
		p.logger.Debug("task completed", "cluster", task.ClusterName, "duration", duration)
	}

	return Result{
		ClusterName: task.ClusterName,
		Output:      output,
		Error:       err,
		Duration:    duration,
	}
}

// TaskCount returns the number of tasks currently queued.
func (p *Pool) TaskCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

// WorkerCount returns the number of workers in the pool.
func (p *Pool) WorkerCount() int {
	return p.workers
}
