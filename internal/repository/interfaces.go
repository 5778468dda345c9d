package repository

import (
	"context"
	"time"

	"github.com/stocktrack-io/stocktrack/internal/models"
)

// TimeLogRepository defines data operations for worker time logs.
type TimeLogRepository interface {
	Create(ctx context.Context, entry *models.TimeLog) error
	GetByID(ctx context.Context, id int) (*models.TimeLog, error)
	// Close sets the end time of an open log. Closing an already closed log
	// is a no-op; the bool reports whether this call closed it.
	Close(ctx context.Context, id int, end time.Time) (bool, error)
	ListOpen(ctx context.Context) ([]*models.TimeLog, error)
	// ListClosedProduction returns the closed production_order logs for one
	// order line, matched by order number and blank-normalized item number.
	ListClosedProduction(ctx context.Context, orderNumber, itemNumber string) ([]*models.TimeLog, error)
}

// ProductionOrderRepository defines data operations for production orders
// and their lines.
type ProductionOrderRepository interface {
	// GetEligibleByNumber returns the one order matching the number that is
	// flagged for time registration and not yet finished, or (nil, nil)
	// when no such order exists.
	GetEligibleByNumber(ctx context.Context, orderNumber string) (*models.ProductionOrder, error)
	ListLines(ctx context.Context, orderID int) ([]*models.ProductionOrderLine, error)
	// MarkFinished stamps finished_at, guarded so only the first writer
	// wins; the bool reports whether this call made the transition.
	MarkFinished(ctx context.Context, orderID int, at time.Time) (bool, error)
	List(ctx context.Context) ([]*models.ProductionOrder, error)
	// ListEligibleNumbers returns the order numbers still open for time
	// registration, for the periodic completion sweep.
	ListEligibleNumbers(ctx context.Context) ([]string, error)
}
