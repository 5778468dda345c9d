package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/stocktrack-io/stocktrack/internal/metrics"
	"github.com/stocktrack-io/stocktrack/internal/models"
	"github.com/stocktrack-io/stocktrack/internal/repository"
	"github.com/stocktrack-io/stocktrack/internal/worktime"
)

// TimeLogService handles the start/stop lifecycle of time logs and the
// reporting view over them.
type TimeLogService struct {
	logs       repository.TimeLogRepository
	completion *CompletionService
	now        func() time.Time
}

// NewTimeLogService creates a new time log service.
func NewTimeLogService(logs repository.TimeLogRepository, completion *CompletionService, now func() time.Time) *TimeLogService {
	if now == nil {
		now = time.Now
	}
	return &TimeLogService{
		logs:       logs,
		completion: completion,
		now:        now,
	}
}

// Start opens a new time log.
func (s *TimeLogService) Start(ctx context.Context, entry *models.TimeLog) error {
	if entry.Type == "" {
		entry.Type = models.TimeLogTypeInternal
	}
	if entry.Type == models.TimeLogTypeProductionOrder && strings.TrimSpace(entry.ProductionOrderNumber) == "" {
		return fmt.Errorf("production order log needs an order number")
	}
	if entry.StartTime.IsZero() {
		entry.StartTime = s.now()
	}
	entry.EndTime = nil

	return s.logs.Create(ctx, entry)
}

// Stop closes an open log and, for order-related logs, kicks off a
// completion check in the background. The caller's response never waits on
// or depends on the reconciliation outcome; a failed check leaves the order
// eligible and the next trigger retries it.
func (s *TimeLogService) Stop(ctx context.Context, id int) (*models.TimeLog, error) {
	entry, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load time log %d: %w", id, err)
	}
	if entry == nil {
		return nil, fmt.Errorf("time log %d not found", id)
	}

	closed, err := s.logs.Close(ctx, id, s.now())
	if err != nil {
		return nil, fmt.Errorf("close time log %d: %w", id, err)
	}
	if closed {
		metrics.TimeLogsClosed.Inc()
	}

	entry, err = s.logs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload time log %d: %w", id, err)
	}

	if closed && entry != nil && entry.IsProductionOrder() {
		s.reconcileAsync(entry.ProductionOrderNumber)
	}
	return entry, nil
}

// reconcileAsync runs the completion check detached from the request that
// triggered it.
func (s *TimeLogService) reconcileAsync(orderNumber string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := s.completion.CheckAndMarkOrderFinished(ctx, orderNumber); err != nil {
			metrics.ReconcileFailures.Inc()
			log.Printf("completion check for order %s failed: %v", orderNumber, err)
		}
	}()
}

// ListOpen returns all currently running logs.
func (s *TimeLogService) ListOpen(ctx context.Context) ([]*models.TimeLog, error) {
	return s.logs.ListOpen(ctx)
}

// WorkedSeconds returns the billable seconds of a log for display. Open
// logs are measured up to now; invalid intervals are worth zero.
func (s *TimeLogService) WorkedSeconds(ctx context.Context, id int) (int64, error) {
	entry, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("load time log %d: %w", id, err)
	}
	if entry == nil {
		return 0, fmt.Errorf("time log %d not found", id)
	}

	end := s.now()
	if entry.EndTime != nil {
		end = *entry.EndTime
	}
	return worktime.WorkedSeconds(entry.StartTime, end), nil
}
