package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stocktrack-io/stocktrack/internal/metrics"
	"github.com/stocktrack-io/stocktrack/internal/repository"
)

// CompletionService reconciles accumulated time logs against a production
// order's line quantities and flips the order to finished exactly once.
type CompletionService struct {
	orders repository.ProductionOrderRepository
	logs   repository.TimeLogRepository
	now    func() time.Time
}

// NewCompletionService creates a new completion service. The clock is
// injectable so tests can supply deterministic instants.
func NewCompletionService(orders repository.ProductionOrderRepository, logs repository.TimeLogRepository, now func() time.Time) *CompletionService {
	if now == nil {
		now = time.Now
	}
	return &CompletionService{
		orders: orders,
		logs:   logs,
		now:    now,
	}
}

// CheckAndMarkOrderFinished decides whether every line of the order has
// accumulated enough completed units and, if so, stamps the order finished.
//
// The bool reports the transition, not steady state: once an order is
// finished the eligibility filter excludes it and every later call returns
// false. Not-found, not-flagged and already-finished orders all resolve to a
// silent (false, nil); only collaborator failures produce an error, and the
// order stays eligible for the next trigger.
func (s *CompletionService) CheckAndMarkOrderFinished(ctx context.Context, orderNumber string) (bool, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return false, nil
	}

	order, err := s.orders.GetEligibleByNumber(ctx, orderNumber)
	if err != nil {
		return false, fmt.Errorf("look up order %s: %w", orderNumber, err)
	}
	if order == nil {
		return false, nil
	}

	lines, err := s.orders.ListLines(ctx, order.ID)
	if err != nil {
		return false, fmt.Errorf("load lines for order %s: %w", orderNumber, err)
	}
	if len(lines) == 0 {
		return false, nil
	}

	for _, line := range lines {
		// A line always requires at least one completed unit, even when
		// the uploaded quantity is zero or negative.
		required := line.Quantity
		if required < 1 {
			required = 1
		}

		entries, err := s.logs.ListClosedProduction(ctx, orderNumber, strings.TrimSpace(line.ItemNumber))
		if err != nil {
			return false, fmt.Errorf("load logs for order %s item %q: %w", orderNumber, line.ItemNumber, err)
		}

		var completed float64
		for _, entry := range entries {
			completed += entry.CompletedUnits()
		}

		if completed < required {
			return false, nil
		}
	}

	// All lines satisfied. The repository guard re-checks finished_at, so a
	// concurrent reconciliation that got here first wins and this call
	// degrades to a no-op.
	won, err := s.orders.MarkFinished(ctx, order.ID, s.now())
	if err != nil {
		return false, fmt.Errorf("mark order %s finished: %w", orderNumber, err)
	}
	if won {
		metrics.OrdersFinished.Inc()
	}
	return won, nil
}

// SweepEligibleOrders re-runs the completion check over every order still
// open for time registration. A reconciliation lost to a transient failure
// is retried here instead of waiting for the next stop event.
func (s *CompletionService) SweepEligibleOrders(ctx context.Context) (int, error) {
	numbers, err := s.orders.ListEligibleNumbers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list eligible orders: %w", err)
	}

	finished := 0
	for _, number := range numbers {
		done, err := s.CheckAndMarkOrderFinished(ctx, number)
		if err != nil {
			return finished, err
		}
		if done {
			finished++
		}
	}
	return finished, nil
}
