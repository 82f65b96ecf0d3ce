// Package metrics exposes Prometheus counters for the reconciliation engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReconciliationRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconciliation_runs_total",
		Help: "Completed reconciliation runs.",
	})

	MatchesFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reconciliation_matches_total",
		Help: "Accepted matches by match type.",
	}, []string{"match_type"})

	Settlements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlements_total",
		Help: "Reconciliations settled.",
	})

	PostingFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_posting_failures_total",
		Help: "Settlement journal entries that failed to post.",
	})
)
