// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AdmissionsPlanned counts admission plans produced, labelled by
	// the plan's resulting status.
	AdmissionsPlanned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hospital_admissions_planned_total",
		Help: "Admission plans produced, by plan status.",
	}, []string{"status"})

	// AdmissionsCommitted counts admission plan commits, labelled by
	// the commit's resulting status.
	AdmissionsCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hospital_admissions_committed_total",
		Help: "Admission plan commits, by commit status.",
	}, []string{"status"})

	// Discharges counts completed patient discharges.
	Discharges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hospital_discharges_total",
		Help: "Patients discharged.",
	})

	// TurnoverCompleted counts beds returned to available by the
	// sweeper.
	TurnoverCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hospital_turnover_completed_total",
		Help: "Turnover jobs completed by the sweeper.",
	})

	// SweepDuration observes how long each sweep pass takes.
	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hospital_turnover_sweep_duration_seconds",
		Help:    "Duration of turnover sweep passes.",
		Buckets: prometheus.DefBuckets,
	})
)
