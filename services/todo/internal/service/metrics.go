package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Операции сервиса по типу и результату (ok, not_found, invalid, error)
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_operations_total",
			Help: "Total number of todo service operations",
		},
		[]string{"operation", "result"},
	)

	itemsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "todo_items",
			Help: "Current number of stored todo items",
		},
	)
)

func observe(operation string, err error) {
	operationsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
}
