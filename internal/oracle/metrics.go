package oracle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AttemptsTotal counts tier attempts.
	// Labels: call, tier, result (success, failure)
	AttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Subsystem: "oracle",
			Name:      "attempts_total",
			Help:      "Total number of oracle tier attempts",
		},
		[]string{"call", "tier", "result"},
	)

	// AttemptDuration tracks how long each tier attempt takes, parse included.
	AttemptDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pulse",
			Subsystem: "oracle",
			Name:      "attempt_duration_seconds",
			Help:      "Duration of oracle tier attempts in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"call", "tier"},
	)

	// OutcomesTotal counts terminal outcomes by the tier that produced them.
	// Labels: call, source (primary, secondary, local)
	OutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Subsystem: "oracle",
			Name:      "outcomes_total",
			Help:      "Total number of oracle calls by producing tier",
		},
		[]string{"call", "source"},
	)
)
