package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation names used as the "operation" label.
const (
	OpFindByID      = "find_by_id"
	OpFindByName    = "find_by_name"
	OpSearch        = "search"
	OpCreate        = "create"
	OpFullUpdate    = "full_update"
	OpPartialUpdate = "partial_update"
	OpDelete        = "delete"
)

// Outcomes used as the "outcome" label.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics provides observability for the planet module.
// Tracks per-operation counts, latencies and search result sizes.
type Metrics struct {
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	SearchResults     prometheus.Histogram
	PlanetsCreated    prometheus.Counter
	PlanetsDeleted    prometheus.Counter
}

// New registers the planet metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "planets_operations_total",
			Help: "Total number of planet service operations by outcome",
		}, []string{"operation", "outcome"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "planets_operation_duration_seconds",
			Help:    "Duration of planet service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		SearchResults: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "planets_search_results",
			Help:    "Number of planets returned per search page",
			Buckets: []float64{0, 1, 5, 10, 15, 25, 50, 100},
		}),
		PlanetsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "planets_created_total",
			Help: "Total number of planets created",
		}),
		PlanetsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "planets_deleted_total",
			Help: "Total number of planets deleted",
		}),
	}
}

// ObserveOperation records the outcome and duration of one service call.
// Call with time.Now() taken at the start of the operation.
func (m *Metrics) ObserveOperation(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.Operations.WithLabelValues(op, outcome).Inc()
	m.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// ObserveSearchResults records how many planets a search page returned.
func (m *Metrics) ObserveSearchResults(n int) {
	if m == nil {
		return
	}
	m.SearchResults.Observe(float64(n))
}

func (m *Metrics) IncrementCreated() {
	if m == nil {
		return
	}
	m.PlanetsCreated.Inc()
}

func (m *Metrics) IncrementDeleted() {
	if m == nil {
		return
	}
	m.PlanetsDeleted.Inc()
}
