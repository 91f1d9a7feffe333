package hipster

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// searchRunsTotal counts completed runs by strategy and outcome
	searchRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hipster_search_runs_total",
		Help: "Total search runs by strategy and outcome",
	}, []string{"strategy", "outcome"}) // outcome: found, exhausted, error

	searchIterations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hipster_search_iterations",
		Help:    "Nodes pulled per search run",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10), // 1 to ~260k
	}, []string{"strategy"})

	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hipster_search_duration_seconds",
		Help:    "Search run duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
	}, []string{"strategy"})
)

const (
	outcomeFound     = "found"
	outcomeExhausted = "exhausted"
	outcomeError     = "error"
)
