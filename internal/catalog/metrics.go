package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cinepedia",
			Subsystem: "catalog",
			Name:      "records",
			Help:      "Records currently held by the catalog.",
		},
	)

	staleResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinepedia",
			Subsystem: "catalog",
			Name:      "stale_results_total",
			Help:      "Fetch results dropped because a newer fetch had started.",
		},
		[]string{"op"},
	)

	persistFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cinepedia",
			Subsystem: "catalog",
			Name:      "persist_failures_total",
			Help:      "Snapshot writes that failed.",
		},
	)
)
