// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors on a dedicated registry
type Metrics struct {
	Registry         *prometheus.Registry
	Predictions      *prometheus.CounterVec
	PredictionErrors *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	DatasetEvents    prometheus.Gauge
	ExportJobs       *prometheus.CounterVec
}

// New registers every collector on a fresh registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "protest_predictions_total",
			Help: "Predictions served, by government response label.",
		}, []string{"label"}),
		PredictionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "protest_prediction_errors_total",
			Help: "Failed predictions, by error kind.",
		}, []string{"kind"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "protest_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		DatasetEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "protest_dataset_events",
			Help: "Events in the active dataset snapshot.",
		}),
		ExportJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "protest_export_jobs_total",
			Help: "Export jobs by final status.",
		}, []string{"status"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Predictions,
		m.PredictionErrors,
		m.RequestDuration,
		m.DatasetEvents,
		m.ExportJobs,
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
