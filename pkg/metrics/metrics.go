// Package metrics registers the Prometheus collectors shared by the CLI and
// the HTTP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "loan_affordability"

// Label names
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
)

// Operation label values
const (
	OperationPayment       = "payment"
	OperationEvaluate      = "evaluate"
	OperationMaxBorrowable = "max_borrowable"
	OperationAssessment    = "assessment"
)

// Outcome label values
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route and status.",
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being served.",
		},
	)
)

// Computation metrics
var (
	ComputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "computations_total",
			Help:      "Affordability computations by operation and outcome.",
		},
		[]string{LabelOperation, LabelOutcome},
	)

	SolverIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solver_iterations",
			Help:      "Binary search steps taken per maximum-principal search.",
			Buckets:   prometheus.LinearBuckets(0, 4, 17),
		},
	)

	SolverSaturations = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solver_saturations_total",
			Help:      "Searches whose fixed upper bound was itself affordable.",
		},
	)

	SolverNonConvergence = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solver_non_convergence_total",
			Help:      "Searches stopped by the iteration cap before reaching precision.",
		},
	)
)

// ObserveComputation counts one computation of the given operation.
func ObserveComputation(operation string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	ComputationsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveSearch records the shape of one maximum-principal search.
func ObserveSearch(iterations int, converged, saturated bool) {
	SolverIterations.Observe(float64(iterations))
	if saturated {
		SolverSaturations.Inc()
	}
	if !converged {
		SolverNonConvergence.Inc()
	}
}
