// Package metrics exposes Prometheus counters for the lookup pipeline and the
// browser sessions served by the web command.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/studiowebux/countrysearch/internal/lookup"
)

var (
	LookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "countrysearch_lookups_total",
		Help: "Total completed lookups by outcome",
	}, []string{"state"})
	LookupDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "countrysearch_lookup_duration_ms",
		Help:    "Country API call duration in milliseconds",
		Buckets: []float64{10, 25, 50, 100, 200, 500, 1000, 2500, 5000},
	})
	MatchesPerLookup = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "countrysearch_matches_per_lookup",
		Help:    "Number of countries returned per successful lookup",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
	})
	SkippedInputsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "countrysearch_skipped_inputs_total",
		Help: "Debounced inputs that were empty after trimming",
	})
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "countrysearch_active_sessions",
		Help: "Open browser websocket sessions",
	})
)

func init() {
	prometheus.MustRegister(LookupsTotal)
	prometheus.MustRegister(LookupDurationMs)
	prometheus.MustRegister(MatchesPerLookup)
	prometheus.MustRegister(SkippedInputsTotal)
	prometheus.MustRegister(ActiveSessions)
}

// Observer records lookup events into the package counters
type Observer struct{}

// ObserveLookup implements lookup.Observer
func (Observer) ObserveLookup(ev lookup.Event) {
	LookupsTotal.WithLabelValues(ev.State.String()).Inc()
	LookupDurationMs.Observe(float64(ev.Duration.Milliseconds()))
	if ev.Err == nil {
		MatchesPerLookup.Observe(float64(ev.Matches))
	}
}

// Handler serves the registered metrics
func Handler() http.Handler { return promhttp.Handler() }
