package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/stocktrack-io/stocktrack/internal/models"
)

// SQLProductionOrderRepository is the PostgreSQL-backed
// ProductionOrderRepository.
type SQLProductionOrderRepository struct {
	db *sql.DB
}

// NewSQLProductionOrderRepository creates a new production order repository.
func NewSQLProductionOrderRepository(db *sql.DB) *SQLProductionOrderRepository {
	return &SQLProductionOrderRepository{db: db}
}

const productionOrderColumns = `id, order_number, description, for_time_registration,
       finished_at, date_added, create_time, change_time`

// GetEligibleByNumber returns the one order still open for time registration
// under the given number, or (nil, nil) when no such order exists. Orders
// already finished or not flagged for time registration are deliberately
// invisible here.
func (r *SQLProductionOrderRepository) GetEligibleByNumber(ctx context.Context, orderNumber string) (*models.ProductionOrder, error) {
	query := `
		SELECT ` + productionOrderColumns + `
		FROM production_order
		WHERE order_number = $1
		  AND for_time_registration = TRUE
		  AND finished_at IS NULL`

	order, err := scanProductionOrder(r.db.QueryRowContext(ctx, query, orderNumber))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListLines retrieves all lines belonging to an order.
func (r *SQLProductionOrderRepository) ListLines(ctx context.Context, orderID int) ([]*models.ProductionOrderLine, error) {
	query := `
		SELECT id, order_id, COALESCE(item_number, ''), COALESCE(description, ''), quantity
		FROM production_order_line
		WHERE order_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*models.ProductionOrderLine
	for rows.Next() {
		var line models.ProductionOrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ItemNumber, &line.Description, &line.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, &line)
	}
	return lines, rows.Err()
}

// MarkFinished stamps finished_at on an order. The finished_at IS NULL guard
// means concurrent reconciliations race safely: only the first writer
// transitions the order, later ones affect no rows.
func (r *SQLProductionOrderRepository) MarkFinished(ctx context.Context, orderID int, at time.Time) (bool, error) {
	query := `
		UPDATE production_order
		SET finished_at = $2, change_time = $2
		WHERE id = $1 AND finished_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, orderID, at)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// List retrieves all orders, newest first.
func (r *SQLProductionOrderRepository) List(ctx context.Context) ([]*models.ProductionOrder, error) {
	query := `
		SELECT ` + productionOrderColumns + `
		FROM production_order
		ORDER BY date_added DESC, order_number`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.ProductionOrder
	for rows.Next() {
		order, err := scanProductionOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// ListEligibleNumbers returns the numbers of all orders still open for time
// registration. The completion sweep walks this list.
func (r *SQLProductionOrderRepository) ListEligibleNumbers(ctx context.Context) ([]string, error) {
	query := `
		SELECT order_number
		FROM production_order
		WHERE for_time_registration = TRUE
		  AND finished_at IS NULL
		ORDER BY order_number`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

func scanProductionOrder(row rowScanner) (*models.ProductionOrder, error) {
	var (
		order      models.ProductionOrder
		finishedAt sql.NullTime
	)

	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.Description,
		&order.ForTimeRegistration,
		&finishedAt,
		&order.DateAdded,
		&order.CreateTime,
		&order.ChangeTime,
	)
	if err != nil {
		return nil, err
	}

	if finishedAt.Valid {
		t := finishedAt.Time
		order.FinishedAt = &t
	}
	return &order, nil
}
