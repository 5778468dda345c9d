package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xeonx/timeago"

	"github.com/stocktrack-io/stocktrack/internal/repository"
	"github.com/stocktrack-io/stocktrack/internal/service"
	"github.com/stocktrack-io/stocktrack/internal/worktime"
)

// Items added more than this many working days ago are flagged as backlog.
const backlogWorkingDays = 3

// ProductionOrderHandler exposes the order listing and the manual
// reconcile trigger.
type ProductionOrderHandler struct {
	orders     repository.ProductionOrderRepository
	completion *service.CompletionService
	now        func() time.Time
}

// NewProductionOrderHandler creates a new production order handler.
func NewProductionOrderHandler(orders repository.ProductionOrderRepository, completion *service.CompletionService) *ProductionOrderHandler {
	return &ProductionOrderHandler{
		orders:     orders,
		completion: completion,
		now:        time.Now,
	}
}

type productionOrderView struct {
	ID                  int        `json:"id"`
	OrderNumber         string     `json:"order_number"`
	Description         string     `json:"description"`
	ForTimeRegistration bool       `json:"for_time_registration"`
	FinishedAt          *time.Time `json:"finished_at,omitempty"`
	DateAdded           time.Time  `json:"date_added"`
	AddedAgo            string     `json:"added_ago"`
	Backlog             bool       `json:"backlog"`
}

// List returns all orders with their backlog classification. An unfinished
// order added more than three working days ago counts as backlog.
func (h *ProductionOrderHandler) List(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load production orders"})
		return
	}

	now := h.now()
	views := make([]productionOrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, productionOrderView{
			ID:                  order.ID,
			OrderNumber:         order.OrderNumber,
			Description:         order.Description,
			ForTimeRegistration: order.ForTimeRegistration,
			FinishedAt:          order.FinishedAt,
			DateAdded:           order.DateAdded,
			AddedAgo:            timeago.English.Format(order.DateAdded),
			Backlog:             !order.IsFinished() && worktime.OlderThanWorkingDays(order.DateAdded, now, backlogWorkingDays),
		})
	}
	c.JSON(http.StatusOK, gin.H{"orders": views})
}

// Reconcile runs the completion check for one order synchronously and
// reports whether this call finished it.
func (h *ProductionOrderHandler) Reconcile(c *gin.Context) {
	number := c.Param("number")

	finished, err := h.completion.CheckAndMarkOrderFinished(c.Request.Context(), number)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "completion check failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_number": number, "finished": finished})
}
