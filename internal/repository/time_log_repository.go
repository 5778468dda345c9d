package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/stocktrack-io/stocktrack/internal/models"
)

// SQLTimeLogRepository is the PostgreSQL-backed TimeLogRepository.
type SQLTimeLogRepository struct {
	db *sql.DB
}

// NewSQLTimeLogRepository creates a new time log repository.
func NewSQLTimeLogRepository(db *sql.DB) *SQLTimeLogRepository {
	return &SQLTimeLogRepository{db: db}
}

const timeLogColumns = `id, type, start_time, end_time, production_order_number,
       production_item_number, production_quantity, create_by, create_time, change_time`

// Create inserts a new open time log and fills in its id.
func (r *SQLTimeLogRepository) Create(ctx context.Context, entry *models.TimeLog) error {
	entry.CreateTime = time.Now()
	entry.ChangeTime = entry.CreateTime

	query := `
		INSERT INTO time_log (type, start_time, end_time, production_order_number,
		                      production_item_number, production_quantity,
		                      create_by, create_time, change_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		entry.Type,
		entry.StartTime,
		entry.EndTime,
		entry.ProductionOrderNumber,
		entry.ProductionItemNumber,
		entry.ProductionQuantity,
		entry.CreateBy,
		entry.CreateTime,
		entry.ChangeTime,
	).Scan(&entry.ID)
}

// GetByID retrieves a time log by id.
func (r *SQLTimeLogRepository) GetByID(ctx context.Context, id int) (*models.TimeLog, error) {
	query := `
		SELECT ` + timeLogColumns + `
		FROM time_log
		WHERE id = $1`

	entry, err := scanTimeLog(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Close sets the end time of an open log. The end_time IS NULL guard makes
// closing an already closed log a harmless no-op.
func (r *SQLTimeLogRepository) Close(ctx context.Context, id int, end time.Time) (bool, error) {
	query := `
		UPDATE time_log
		SET end_time = $2, change_time = $2
		WHERE id = $1 AND end_time IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, end)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListOpen retrieves all currently running logs, oldest first.
func (r *SQLTimeLogRepository) ListOpen(ctx context.Context) ([]*models.TimeLog, error) {
	query := `
		SELECT ` + timeLogColumns + `
		FROM time_log
		WHERE end_time IS NULL
		ORDER BY start_time`

	return r.queryTimeLogs(ctx, query)
}

// ListClosedProduction retrieves the closed production_order logs counting
// toward one order line. Item numbers are compared blank-normalized: a line
// without an item number matches logs with an empty item number.
func (r *SQLTimeLogRepository) ListClosedProduction(ctx context.Context, orderNumber, itemNumber string) ([]*models.TimeLog, error) {
	query := `
		SELECT ` + timeLogColumns + `
		FROM time_log
		WHERE type = $1
		  AND production_order_number = $2
		  AND COALESCE(production_item_number, '') = $3
		  AND end_time IS NOT NULL`

	return r.queryTimeLogs(ctx, query, models.TimeLogTypeProductionOrder, orderNumber, itemNumber)
}

func (r *SQLTimeLogRepository) queryTimeLogs(ctx context.Context, query string, args ...interface{}) ([]*models.TimeLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.TimeLog
	for rows.Next() {
		entry, err := scanTimeLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTimeLog(row rowScanner) (*models.TimeLog, error) {
	var (
		entry    models.TimeLog
		endTime  sql.NullTime
		orderNum sql.NullString
		itemNum  sql.NullString
		quantity sql.NullFloat64
	)

	err := row.Scan(
		&entry.ID,
		&entry.Type,
		&entry.StartTime,
		&endTime,
		&orderNum,
		&itemNum,
		&quantity,
		&entry.CreateBy,
		&entry.CreateTime,
		&entry.ChangeTime,
	)
	if err != nil {
		return nil, err
	}

	if endTime.Valid {
		t := endTime.Time
		entry.EndTime = &t
	}
	entry.ProductionOrderNumber = orderNum.String
	entry.ProductionItemNumber = itemNum.String
	if quantity.Valid {
		q := quantity.Float64
		entry.ProductionQuantity = &q
	}
	return &entry, nil
}
