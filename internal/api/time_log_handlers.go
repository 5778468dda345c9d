package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stocktrack-io/stocktrack/internal/models"
	"github.com/stocktrack-io/stocktrack/internal/service"
)

// TimeLogHandler exposes the start/stop timer endpoints.
type TimeLogHandler struct {
	timeLogs *service.TimeLogService
}

// NewTimeLogHandler creates a new time log handler.
func NewTimeLogHandler(timeLogs *service.TimeLogService) *TimeLogHandler {
	return &TimeLogHandler{timeLogs: timeLogs}
}

type startTimeLogRequest struct {
	Type                  string     `json:"type"`
	StartTime             *time.Time `json:"start_time"`
	ProductionOrderNumber string     `json:"production_order_number"`
	ProductionItemNumber  string     `json:"production_item_number"`
	ProductionQuantity    *float64   `json:"production_quantity"`
	CreateBy              int        `json:"create_by"`
}

// Start opens a new time log.
func (h *TimeLogHandler) Start(c *gin.Context) {
	var req startTimeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry := &models.TimeLog{
		Type:                  req.Type,
		ProductionOrderNumber: req.ProductionOrderNumber,
		ProductionItemNumber:  req.ProductionItemNumber,
		ProductionQuantity:    req.ProductionQuantity,
		CreateBy:              req.CreateBy,
	}
	if req.StartTime != nil {
		entry.StartTime = *req.StartTime
	}

	if err := h.timeLogs.Start(c.Request.Context(), entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Stop closes an open time log. The response does not wait for the
// completion check the stop may trigger.
func (h *TimeLogHandler) Stop(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time log id"})
		return
	}

	entry, err := h.timeLogs.Stop(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// ListOpen returns all currently running logs.
func (h *TimeLogHandler) ListOpen(c *gin.Context) {
	entries, err := h.timeLogs.ListOpen(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load open time logs"})
		return
	}
	if entries == nil {
		entries = []*models.TimeLog{}
	}
	c.JSON(http.StatusOK, gin.H{"time_logs": entries})
}

// Duration returns the billable worked seconds of a log for display.
func (h *TimeLogHandler) Duration(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time log id"})
		return
	}

	seconds, err := h.timeLogs.WorkedSeconds(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "worked_seconds": seconds})
}
