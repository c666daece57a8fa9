package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the governor's Prometheus metrics.
type Registry struct {
	EvaluationsTotal *prometheus.CounterVec
	RuleHits         *prometheus.CounterVec
	ExecutionBands   *prometheus.CounterVec
	GuardChecks      *prometheus.CounterVec
	OverlayWarnings  prometheus.Counter
	EvaluationTime   prometheus.Histogram
}

// NewRegistry creates and registers all governor metrics against reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		EvaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "governor_evaluations_total",
				Help: "Completed governance evaluations by final gate",
			},
			[]string{"final_gate"},
		),
		RuleHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "governor_rule_hits_total",
				Help: "Overlay rule matches by rule id and whether they applied",
			},
			[]string{"rule_id", "applied"},
		),
		ExecutionBands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "governor_execution_band_total",
				Help: "Execution-band classifications by band code",
			},
			[]string{"band"},
		),
		GuardChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "governor_guard_checks_total",
				Help: "Execution guard verdicts by severity",
			},
			[]string{"severity"},
		),
		OverlayWarnings: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "governor_overlay_warnings_total",
				Help: "Warnings accumulated during overlay evaluation",
			},
		),
		EvaluationTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "governor_evaluation_duration_seconds",
				Help:    "Duration of one full governance evaluation",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),
	}

	reg.MustRegister(
		r.EvaluationsTotal,
		r.RuleHits,
		r.ExecutionBands,
		r.GuardChecks,
		r.OverlayWarnings,
		r.EvaluationTime,
	)
	return r
}
