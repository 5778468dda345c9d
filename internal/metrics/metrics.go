// Package metrics holds the application's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersFinished counts production orders transitioned to finished by
	// the completion reconciler.
	OrdersFinished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stocktrack",
		Name:      "production_orders_finished_total",
		Help:      "Production orders marked finished by the completion reconciler.",
	})

	// ReconcileFailures counts reconciliation runs aborted by a
	// persistence failure. The order stays eligible and is retried on the
	// next trigger or sweep.
	ReconcileFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stocktrack",
		Name:      "completion_reconcile_failures_total",
		Help:      "Completion checks aborted by a persistence failure.",
	})

	// TimeLogsClosed counts stop-timer actions that closed an open log.
	TimeLogsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stocktrack",
		Name:      "time_logs_closed_total",
		Help:      "Time logs closed by the stop action.",
	})
)
