package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		BracketBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wc_bracket_round32_builds_total",
			Help: "Round of 32 builds caused by new or changed standings.",
		}),
		CombinationLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wc_bracket_combination_lookups_total",
			Help: "Combination table lookups for the qualifying third places, by result.",
		}, []string{"matched"}),
		Picks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wc_bracket_picks_total",
			Help: "Knockout picks recorded, by stage.",
		}, []string{"stage"}),
		InvalidatedPicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wc_bracket_invalidated_picks_total",
			Help: "Knockout picks dropped because the round of 32 changed underneath them.",
		}),
		Champions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wc_bracket_champions_total",
			Help: "The total number of finals decided.",
		}),
	}

	reg.MustRegister(
		s.BracketBuilds,
		s.CombinationLookups,
		s.Picks,
		s.InvalidatedPicks,
		s.Champions,
	)

	return s
}

func (s *Service) IncBracketBuilds() {
	s.BracketBuilds.Inc()
}

func (s *Service) IncCombinationLookups(matched bool) {
	s.CombinationLookups.WithLabelValues(strconv.FormatBool(matched)).Inc()
}

func (s *Service) IncPicks(stage string) {
	s.Picks.WithLabelValues(stage).Inc()
}

func (s *Service) AddInvalidatedPicks(n int) {
	s.InvalidatedPicks.Add(float64(n))
}

func (s *Service) IncChampions() {
	s.Champions.Inc()
}
