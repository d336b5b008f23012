package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for stay evaluation.
type Metrics struct {
	// Evaluations by calculation method and resulting warning level
	Evaluations *prometheus.CounterVec

	// Evaluation latency including ledger load
	EvaluateLatency prometheus.Histogram

	// Malformed records seen during evaluation, by kind
	IntegrityIssues *prometheus.CounterVec

	// Status cache lookups by outcome
	CacheLookups *prometheus.CounterVec

	// Trip validations by verdict
	TripValidations *prometheus.CounterVec

	// Ledger writes by operation
	LedgerWrites *prometheus.CounterVec

	// Evaluation events that failed to publish
	PublishFailures prometheus.Counter
}

// New registers the stay metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sojourn_stay_evaluations_total",
			Help: "Total stay evaluations by calculation method and warning level",
		}, []string{"method", "level"}),

		EvaluateLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "sojourn_stay_evaluate_duration_seconds",
			Help:    "Duration of a stay evaluation including ledger load",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),

		IntegrityIssues: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sojourn_stay_integrity_issues_total",
			Help: "Malformed stay records encountered during evaluation",
		}, []string{"kind"}),

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sojourn_stay_cache_lookups_total",
			Help: "Status cache lookups by result",
		}, []string{"result"}), // result: "hit", "miss", "error"

		TripValidations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sojourn_stay_trip_validations_total",
			Help: "Trip validations by verdict",
		}, []string{"valid"}),

		LedgerWrites: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sojourn_stay_ledger_writes_total",
			Help: "Stay ledger mutations by operation",
		}, []string{"op"}), // op: "entry", "exit"

		PublishFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "sojourn_stay_event_publish_failures_total",
			Help: "Evaluation events that could not be published",
		}),
	}
}

// IncrementEvaluation records one evaluation outcome.
func (m *Metrics) IncrementEvaluation(method, level string) {
	if m != nil {
		m.Evaluations.WithLabelValues(method, level).Inc()
	}
}

// ObserveEvaluateLatency records the evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// AddIntegrityIssue counts one malformed record.
func (m *Metrics) AddIntegrityIssue(kind string) {
	if m != nil {
		m.IntegrityIssues.WithLabelValues(kind).Inc()
	}
}

// IncrementCacheLookup records a cache hit, miss or error.
func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

// IncrementTripValidation records a trip verdict.
func (m *Metrics) IncrementTripValidation(valid bool) {
	if m != nil {
		label := "false"
		if valid {
			label = "true"
		}
		m.TripValidations.WithLabelValues(label).Inc()
	}
}

// IncrementLedgerWrite records an entry or exit.
func (m *Metrics) IncrementLedgerWrite(op string) {
	if m != nil {
		m.LedgerWrites.WithLabelValues(op).Inc()
	}
}

// IncrementPublishFailure records a dropped evaluation event.
func (m *Metrics) IncrementPublishFailure() {
	if m != nil {
		m.PublishFailures.Inc()
	}
}
