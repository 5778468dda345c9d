package tasks

import (
	"context"
	"log"
	"time"

	"github.com/stocktrack-io/stocktrack/internal/service"
)

// CompletionSweepTask periodically re-runs the completion reconciler over
// every order still open for time registration. Reconciliations lost to a
// transient persistence failure are picked up here instead of waiting for
// the next stop-timer event.
type CompletionSweepTask struct {
	completion *service.CompletionService
	schedule   string
}

// NewCompletionSweepTask creates the sweep task. An empty schedule falls
// back to every 15 minutes.
func NewCompletionSweepTask(completion *service.CompletionService, schedule string) *CompletionSweepTask {
	if schedule == "" {
		schedule = "@every 15m"
	}
	return &CompletionSweepTask{completion: completion, schedule: schedule}
}

func (t *CompletionSweepTask) Name() string { return "completion-sweep" }

func (t *CompletionSweepTask) Schedule() string { return t.schedule }

func (t *CompletionSweepTask) Timeout() time.Duration { return 5 * time.Minute }

// Run walks all eligible orders. An empty sweep is a normal outcome, not an
// error.
func (t *CompletionSweepTask) Run(ctx context.Context) error {
	finished, err := t.completion.SweepEligibleOrders(ctx)
	if err != nil {
		return err
	}
	if finished > 0 {
		log.Printf("completion sweep finished %d order(s)", finished)
	}
	return nil
}
