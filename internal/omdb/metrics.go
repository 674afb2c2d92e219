package omdb

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for requestsTotal
const (
	outcomeFound    = "found"
	outcomeNotFound = "not_found"
	outcomeFailed   = "failed"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinepedia",
			Subsystem: "omdb",
			Name:      "requests_total",
			Help:      "Metadata API calls by kind and final outcome.",
		},
		[]string{"kind", "outcome"},
	)

	attemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinepedia",
			Subsystem: "omdb",
			Name:      "attempts_total",
			Help:      "HTTP attempts made against the metadata API, retries included.",
		},
		[]string{"kind"},
	)

	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinepedia",
			Subsystem: "omdb",
			Name:      "retries_total",
			Help:      "Attempts that failed with a retryable error.",
		},
		[]string{"kind"},
	)
)
