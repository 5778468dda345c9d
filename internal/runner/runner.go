// Package runner executes scheduled background tasks, such as the periodic
// production-order completion sweep.
package runner

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Runner schedules and executes registered tasks.
type Runner struct {
	cron     *cron.Cron
	registry *TaskRegistry
	logger   *log.Logger
	wg       sync.WaitGroup
}

// NewRunner creates a new task runner.
func NewRunner(registry *TaskRegistry) *Runner {
	return &Runner{
		cron:     cron.New(),
		registry: registry,
		logger:   log.New(os.Stdout, "[runner] ", log.LstdFlags),
	}
}

// Start registers every task with cron and starts the scheduler. It returns
// immediately; Stop shuts the scheduler down.
func (r *Runner) Start(ctx context.Context) error {
	for name, task := range r.registry.All() {
		task := task
		r.logger.Printf("scheduling task %s (%s)", name, task.Schedule())

		if _, err := r.cron.AddFunc(task.Schedule(), func() {
			r.executeTask(ctx, task)
		}); err != nil {
			return fmt.Errorf("schedule task %s: %w", name, err)
		}
	}

	r.cron.Start()
	return nil
}

// executeTask runs one task with its timeout. Failures are logged, never
// fatal: the next scheduled run retries.
func (r *Runner) executeTask(ctx context.Context, task Task) {
	r.wg.Add(1)
	defer r.wg.Done()

	taskCtx, cancel := context.WithTimeout(ctx, task.Timeout())
	defer cancel()

	start := time.Now()
	if err := task.Run(taskCtx); err != nil {
		r.logger.Printf("task %s failed after %v: %v", task.Name(), time.Since(start), err)
		return
	}
	r.logger.Printf("task %s completed in %v", task.Name(), time.Since(start))
}

// Stop shuts down the scheduler and waits for running tasks to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	r.wg.Wait()
	<-ctx.Done()
}
