package query

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mvphrm",
		Subsystem: "query",
		Name:      "cache_hits_total",
		Help:      "Reads served from fresh cached data.",
	}, []string{"resource"})

	fetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mvphrm",
		Subsystem: "query",
		Name:      "fetches_total",
		Help:      "Backend fetches issued by the query cache.",
	}, []string{"resource"})

	invalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mvphrm",
		Subsystem: "query",
		Name:      "invalidations_total",
		Help:      "Cache invalidations after mutations.",
	}, []string{"resource"})
)
