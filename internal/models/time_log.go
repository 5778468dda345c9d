package models

import (
	"strings"
	"time"
)

// Time log types. ProductionOrder entries are the only ones the completion
// reconciler looks at; the rest are plain activity buckets.
const (
	TimeLogTypeProductionOrder = "production_order"
	TimeLogTypeInternal        = "internal"
	TimeLogTypeMaintenance     = "maintenance"
)

// TimeLog is one worker's logged interval, either against a general activity
// or against a specific production order line.
type TimeLog struct {
	ID                    int        `json:"id" db:"id"`
	Type                  string     `json:"type" db:"type"`
	StartTime             time.Time  `json:"start_time" db:"start_time"`
	EndTime               *time.Time `json:"end_time,omitempty" db:"end_time"`
	ProductionOrderNumber string     `json:"production_order_number,omitempty" db:"production_order_number"`
	ProductionItemNumber  string     `json:"production_item_number,omitempty" db:"production_item_number"`
	// ProductionQuantity is the number of units completed during this log.
	// nil means "one unit completed".
	ProductionQuantity *float64  `json:"production_quantity,omitempty" db:"production_quantity"`
	CreateBy           int       `json:"create_by" db:"create_by"`
	CreateTime         time.Time `json:"create_time" db:"create_time"`
	ChangeTime         time.Time `json:"change_time" db:"change_time"`
}

// IsOpen reports whether the log is still running (no end time yet).
func (t *TimeLog) IsOpen() bool {
	return t.EndTime == nil
}

// IsProductionOrder reports whether the log counts toward production order
// completion.
func (t *TimeLog) IsProductionOrder() bool {
	return t.Type == TimeLogTypeProductionOrder && strings.TrimSpace(t.ProductionOrderNumber) != ""
}

// CompletedUnits is this log's contribution toward a line's required
// quantity: the explicit quantity clamped to >= 0, or exactly 1 when no
// quantity was recorded.
func (t *TimeLog) CompletedUnits() float64 {
	if t.ProductionQuantity == nil {
		return 1
	}
	if *t.ProductionQuantity < 0 {
		return 0
	}
	return *t.ProductionQuantity
}
