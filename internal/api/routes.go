package api

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stocktrack-io/stocktrack/internal/repository"
	"github.com/stocktrack-io/stocktrack/internal/service"
)

// Router wires the HTTP surface over the time accounting and completion
// services.
type Router struct {
	engine         *gin.Engine
	timeLogHandler *TimeLogHandler
	orderHandler   *ProductionOrderHandler
}

// NewRouter builds the router over a database connection.
func NewRouter(db *sql.DB) *Router {
	logRepo := repository.NewSQLTimeLogRepository(db)
	orderRepo := repository.NewSQLProductionOrderRepository(db)

	completionService := service.NewCompletionService(orderRepo, logRepo, nil)
	timeLogService := service.NewTimeLogService(logRepo, completionService, nil)

	return NewRouterWithServices(timeLogService, completionService, orderRepo)
}

// NewRouterWithServices builds the router over prepared services; tests use
// this with in-memory repositories.
func NewRouterWithServices(timeLogs *service.TimeLogService, completion *service.CompletionService, orders repository.ProductionOrderRepository) *Router {
	return &Router{
		engine:         gin.Default(),
		timeLogHandler: NewTimeLogHandler(timeLogs),
		orderHandler:   NewProductionOrderHandler(orders, completion),
	}
}

// SetupRoutes registers all routes.
func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", r.healthCheck)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api")
	{
		timelogs := api.Group("/timelogs")
		{
			timelogs.POST("", r.timeLogHandler.Start)
			timelogs.POST("/:id/stop", r.timeLogHandler.Stop)
			timelogs.GET("/open", r.timeLogHandler.ListOpen)
			timelogs.GET("/:id/duration", r.timeLogHandler.Duration)
		}

		orders := api.Group("/orders")
		{
			orders.GET("", r.orderHandler.List)
			orders.POST("/:number/reconcile", r.orderHandler.Reconcile)
		}
	}
}

// Engine returns the underlying gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
