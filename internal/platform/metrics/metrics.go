// Package metrics exposes prometheus counters for the resolver
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Lookups counts resolution calls by lookup kind and outcome
	Lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ares_lookups_total",
			Help: "Total number of registry lookups.",
		},
		[]string{"kind", "outcome"},
	)

	// Cache counts cache reads by lookup kind and result
	Cache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ares_cache_total",
			Help: "Total number of cache reads.",
		},
		[]string{"kind", "result"},
	)

	// Upstream counts outbound registry requests by source and status class
	Upstream = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ares_upstream_requests_total",
			Help: "Total number of upstream HTTP requests.",
		},
		[]string{"source", "status"},
	)
)

func init() {
	prometheus.MustRegister(Lookups)
	prometheus.MustRegister(Cache)
	prometheus.MustRegister(Upstream)
}

// Handler returns the prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}
