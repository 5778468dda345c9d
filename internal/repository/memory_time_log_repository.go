package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stocktrack-io/stocktrack/internal/models"
)

// MemoryTimeLogRepository is an in-memory TimeLogRepository used by tests
// and local development.
type MemoryTimeLogRepository struct {
	mu      sync.RWMutex
	entries map[int]*models.TimeLog
	nextID  int
}

// NewMemoryTimeLogRepository creates a new in-memory time log repository.
func NewMemoryTimeLogRepository() *MemoryTimeLogRepository {
	return &MemoryTimeLogRepository{
		entries: make(map[int]*models.TimeLog),
		nextID:  1,
	}
}

// Create stores a new open time log and assigns its id.
func (r *MemoryTimeLogRepository) Create(ctx context.Context, entry *models.TimeLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = r.nextID
	r.nextID++
	entry.CreateTime = time.Now()
	entry.ChangeTime = entry.CreateTime

	stored := *entry
	r.entries[entry.ID] = &stored
	return nil
}

// GetByID returns a copy of the stored log, or nil when absent.
func (r *MemoryTimeLogRepository) GetByID(ctx context.Context, id int) (*models.TimeLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

// Close sets the end time of an open log; closing a closed log is a no-op.
func (r *MemoryTimeLogRepository) Close(ctx context.Context, id int, end time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok || entry.EndTime != nil {
		return false, nil
	}

	t := end
	entry.EndTime = &t
	entry.ChangeTime = end
	return true, nil
}

// ListOpen returns all running logs ordered by start time.
func (r *MemoryTimeLogRepository) ListOpen(ctx context.Context) ([]*models.TimeLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var open []*models.TimeLog
	for _, entry := range r.entries {
		if entry.EndTime == nil {
			copied := *entry
			open = append(open, &copied)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].StartTime.Before(open[j].StartTime) })
	return open, nil
}

// ListClosedProduction returns the closed production_order logs for one
// order line.
func (r *MemoryTimeLogRepository) ListClosedProduction(ctx context.Context, orderNumber, itemNumber string) ([]*models.TimeLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*models.TimeLog
	for _, entry := range r.entries {
		if entry.Type != models.TimeLogTypeProductionOrder || entry.EndTime == nil {
			continue
		}
		if entry.ProductionOrderNumber != orderNumber || entry.ProductionItemNumber != itemNumber {
			continue
		}
		copied := *entry
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}
