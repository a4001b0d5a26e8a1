// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_runs_total",
			Help: "Total number of matching pipeline runs",
		},
		[]string{"outcome"},
	)

	MatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "match_pipeline_duration_seconds",
			Help: "Duration of a full matching pipeline run in seconds",
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_cache_lookups_total",
			Help: "Result cache lookups by outcome (hit, miss, expired)",
		},
		[]string{"outcome"},
	)

	RetrievalAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "candidate_retrieval_attempts_total",
			Help: "Candidate retrieval attempts by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	CandidatesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "candidates_scored_total",
			Help: "Total number of candidates run through the scorer",
		},
	)

	LinkVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_verifications_total",
			Help: "Scholarship link verification probes by outcome",
		},
		[]string{"outcome"},
	)
)
