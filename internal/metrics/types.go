package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	BracketBuilds      prometheus.Counter
	CombinationLookups *prometheus.CounterVec
	Picks              *prometheus.CounterVec
	InvalidatedPicks   prometheus.Counter
	Champions          prometheus.Counter
}
