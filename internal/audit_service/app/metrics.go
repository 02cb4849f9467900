package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsAuditedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "routing_audit",
			Name:      "records_audited_total",
			Help:      "Total audited number records by terminal classification.",
		},
		[]string{"classification"},
	)

	nodeAttemptsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "routing_audit",
			Name:      "node_attempts_total",
			Help:      "Total query attempts issued against cluster nodes.",
		},
		[]string{"node", "outcome"},
	)

	resolveDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "routing_audit",
			Name:      "resolve_duration_seconds",
			Help:      "Duration of full record resolutions including failover.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"classification"},
	)
)
