package runner

import (
	"context"
	"time"
)

// Task is a background job with a cron schedule.
type Task interface {
	// Name returns the unique name of the task.
	Name() string

	// Schedule returns the cron expression for this task.
	Schedule() string

	// Run executes the task.
	Run(ctx context.Context) error

	// Timeout returns the maximum time one run may take.
	Timeout() time.Duration
}

// TaskRegistry holds all registered tasks.
type TaskRegistry struct {
	tasks map[string]Task
}

// NewTaskRegistry creates a new task registry.
func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{tasks: make(map[string]Task)}
}

// Register adds a task to the registry.
func (r *TaskRegistry) Register(task Task) {
	r.tasks[task.Name()] = task
}

// All returns all registered tasks.
func (r *TaskRegistry) All() map[string]Task {
	return r.tasks
}
