package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stocktrack-io/stocktrack/internal/models"
)

// MemoryProductionOrderRepository is an in-memory ProductionOrderRepository
// used by tests and local development.
type MemoryProductionOrderRepository struct {
	mu         sync.RWMutex
	orders     map[int]*models.ProductionOrder
	lines      map[int][]*models.ProductionOrderLine
	nextID     int
	nextLineID int
}

// NewMemoryProductionOrderRepository creates a new in-memory production
// order repository.
func NewMemoryProductionOrderRepository() *MemoryProductionOrderRepository {
	return &MemoryProductionOrderRepository{
		orders:     make(map[int]*models.ProductionOrder),
		lines:      make(map[int][]*models.ProductionOrderLine),
		nextID:     1,
		nextLineID: 1,
	}
}

// Add seeds an order with its lines and returns the assigned order id.
func (r *MemoryProductionOrderRepository) Add(order models.ProductionOrder, lines ...models.ProductionOrderLine) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = r.nextID
	r.nextID++
	if order.CreateTime.IsZero() {
		order.CreateTime = time.Now()
		order.ChangeTime = order.CreateTime
	}
	r.orders[order.ID] = &order

	for i := range lines {
		line := lines[i]
		line.ID = r.nextLineID
		r.nextLineID++
		line.OrderID = order.ID
		r.lines[order.ID] = append(r.lines[order.ID], &line)
	}
	return order.ID
}

// GetEligibleByNumber returns the matching unfinished order flagged for time
// registration, or (nil, nil).
func (r *MemoryProductionOrderRepository) GetEligibleByNumber(ctx context.Context, orderNumber string) (*models.ProductionOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.OrderNumber == orderNumber && order.ForTimeRegistration && order.FinishedAt == nil {
			copied := *order
			return &copied, nil
		}
	}
	return nil, nil
}

// ListLines returns the lines belonging to an order.
func (r *MemoryProductionOrderRepository) ListLines(ctx context.Context, orderID int) ([]*models.ProductionOrderLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var lines []*models.ProductionOrderLine
	for _, line := range r.lines[orderID] {
		copied := *line
		lines = append(lines, &copied)
	}
	return lines, nil
}

// MarkFinished stamps finished_at; only the first caller transitions the
// order.
func (r *MemoryProductionOrderRepository) MarkFinished(ctx context.Context, orderID int, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok || order.FinishedAt != nil {
		return false, nil
	}

	t := at
	order.FinishedAt = &t
	order.ChangeTime = at
	return true, nil
}

// List returns all orders, newest first.
func (r *MemoryProductionOrderRepository) List(ctx context.Context) ([]*models.ProductionOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []*models.ProductionOrder
	for _, order := range r.orders {
		copied := *order
		orders = append(orders, &copied)
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].DateAdded.Equal(orders[j].DateAdded) {
			return orders[i].DateAdded.After(orders[j].DateAdded)
		}
		return orders[i].OrderNumber < orders[j].OrderNumber
	})
	return orders, nil
}

// ListEligibleNumbers returns the order numbers still open for time
// registration.
func (r *MemoryProductionOrderRepository) ListEligibleNumbers(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var numbers []string
	for _, order := range r.orders {
		if order.ForTimeRegistration && order.FinishedAt == nil {
			numbers = append(numbers, order.OrderNumber)
		}
	}
	sort.Strings(numbers)
	return numbers, nil
}
