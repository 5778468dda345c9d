package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"github.com/stocktrack-io/stocktrack/internal/api"
	"github.com/stocktrack-io/stocktrack/internal/config"
	"github.com/stocktrack-io/stocktrack/internal/repository"
	"github.com/stocktrack-io/stocktrack/internal/runner"
	"github.com/stocktrack-io/stocktrack/internal/runner/tasks"
	"github.com/stocktrack-io/stocktrack/internal/service"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	if err := config.Load(configPath); err != nil {
		log.Printf("no config file loaded (%v), using defaults and environment", err)
	}
	cfg := config.Get()
	if cfg == nil {
		cfg = config.Default()
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	router := api.NewRouter(db)
	router.SetupRoutes()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Completion sweep: the idempotent safety net behind the
	// fire-and-forget reconciliation on stop-timer.
	var taskRunner *runner.Runner
	if cfg.Sweep.Enabled {
		logRepo := repository.NewSQLTimeLogRepository(db)
		orderRepo := repository.NewSQLProductionOrderRepository(db)
		completion := service.NewCompletionService(orderRepo, logRepo, nil)

		registry := runner.NewTaskRegistry()
		registry.Register(tasks.NewCompletionSweepTask(completion, cfg.Sweep.Schedule))

		taskRunner = runner.NewRunner(registry)
		if err := taskRunner.Start(ctx); err != nil {
			log.Fatalf("failed to start task runner: %v", err)
		}
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("starting %s on %s", cfg.App.Name, server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("received %v, shutting down", sig)

	if taskRunner != nil {
		taskRunner.Stop()
	}
	if err := server.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
