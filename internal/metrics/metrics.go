package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movienight_sessions_started_total",
		Help: "Recommendation sessions started",
	})

	SessionsHalted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movienight_sessions_halted_total",
		Help: "Recommendation sessions stopped before showing results, by reason",
	}, []string{"reason"})

	SessionsPaginated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movienight_sessions_paginated_total",
		Help: "Recommendation sessions that reached the results panel",
	})

	ProfileRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movienight_profile_requests_total",
		Help: "Requests to the profile service by operation and result",
	}, []string{"op", "result"})

	CandidatesRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movienight_candidates_removed_total",
		Help: "Candidates dropped during enrichment for lack of a rating",
	})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "movienight_circuit_breaker_state",
		Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
	}, []string{"name"})
)
