// Package metrics provides Prometheus metrics for the crossmix service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by route pattern and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crossmix",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crossmix",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// ComputationsTotal counts allocation runs by kind (optimize,
	// optimal-plan, comparison, sweep).
	ComputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crossmix",
			Name:      "computations_total",
			Help:      "Total number of allocation computations",
		},
		[]string{"kind"},
	)

	ComputationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crossmix",
			Name:      "computation_duration_seconds",
			Help:      "Duration of allocation computations in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"kind"},
	)

	SweepScenarios = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "crossmix",
			Name:      "sweep_scenarios",
			Help:      "Distribution of scenario counts per sweep",
			Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	// LastTotalATC is the total ATC of the latest computation per kind.
	LastTotalATC = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "crossmix",
			Name:      "last_total_atc",
			Help:      "Total ATC of the most recent computation",
		},
		[]string{"kind"},
	)

	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crossmix",
			Name:      "errors_total",
			Help:      "Total number of errors",
		},
		[]string{"operation", "error_type"},
	)
)

func RecordRequest(route, method string, status int, duration float64) {
	RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(route).Observe(duration)
}

func RecordComputation(kind string, totalATC, duration float64) {
	ComputationsTotal.WithLabelValues(kind).Inc()
	ComputationDuration.WithLabelValues(kind).Observe(duration)
	LastTotalATC.WithLabelValues(kind).Set(totalATC)
}

func RecordSweep(scenarios int) {
	SweepScenarios.Observe(float64(scenarios))
}

func RecordError(operation, errorType string) {
	ErrorsTotal.WithLabelValues(operation, errorType).Inc()
}
