package apiclient

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mvphrm",
		Subsystem: "api_client",
		Name:      "request_duration_seconds",
		Help:      "Duration of requests to the HRM backend.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "outcome"})

	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mvphrm",
		Subsystem: "api_client",
		Name:      "requests_total",
		Help:      "Requests to the HRM backend by method and status.",
	}, []string{"method", "status"})
)

func observe(method string, status int, err error, d time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	code := "none"
	if status != 0 {
		code = strconv.Itoa(status)
	}
	requestDuration.WithLabelValues(method, outcome).Observe(d.Seconds())
	requestsTotal.WithLabelValues(method, code).Inc()
}
