package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shareit"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Booking status changes by resulting status.",
		},
		[]string{"status"},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the rate limiter.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, bookingTransitions, rateLimited)
	})
}

// ObserveHTTP records one served request.
func ObserveHTTP(route, method, status string, seconds float64) {
	httpRequests.WithLabelValues(route, method, status).Inc()
	httpDuration.WithLabelValues(route, method).Observe(seconds)
}

// IncBookingTransition counts a booking entering status.
func IncBookingTransition(status string) {
	bookingTransitions.WithLabelValues(status).Inc()
}

// IncRateLimited counts a rejected request.
func IncRateLimited() {
	rateLimited.Inc()
}
