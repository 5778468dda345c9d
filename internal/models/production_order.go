package models

import "time"

// ProductionOrder is a unit of production work uploaded from the ERP side.
// FinishedAt is monotonic: once set it is never cleared by this application.
type ProductionOrder struct {
	ID                  int        `json:"id" db:"id"`
	OrderNumber         string     `json:"order_number" db:"order_number"`
	Description         string     `json:"description" db:"description"`
	ForTimeRegistration bool       `json:"for_time_registration" db:"for_time_registration"`
	FinishedAt          *time.Time `json:"finished_at,omitempty" db:"finished_at"`
	DateAdded           time.Time  `json:"date_added" db:"date_added"`
	CreateTime          time.Time  `json:"create_time" db:"create_time"`
	ChangeTime          time.Time  `json:"change_time" db:"change_time"`
}

// IsFinished reports whether the order has been marked finished.
func (o *ProductionOrder) IsFinished() bool {
	return o.FinishedAt != nil
}

// ProductionOrderLine belongs to exactly one ProductionOrder. Lines are
// replaced wholesale when an order is re-uploaded.
type ProductionOrderLine struct {
	ID          int     `json:"id" db:"id"`
	OrderID     int     `json:"order_id" db:"order_id"`
	ItemNumber  string  `json:"item_number" db:"item_number"`
	Description string  `json:"description" db:"description"`
	// Quantity is the number of units required on this line. Malformed
	// uploads can carry zero or negative values; the reconciler floors the
	// requirement to 1 so such lines still need at least one completed unit.
	Quantity float64 `json:"quantity" db:"quantity"`
}
