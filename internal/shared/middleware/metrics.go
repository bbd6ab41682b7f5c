package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxoffice_http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boxoffice_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	seatConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "boxoffice_seat_conflicts_total",
			Help: "Seat allocation attempts lost to a concurrent session.",
		},
	)

	promoExhaustedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "boxoffice_promo_exhausted_total",
			Help: "Promo redemptions rejected at the usage ceiling.",
		},
	)
)

// Metrics records request counts and latencies per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler serves the Prometheus scrape endpoint.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// CountSeatConflict increments the seat conflict counter.
func CountSeatConflict() {
	seatConflictsTotal.Inc()
}

// CountPromoExhausted increments the promo exhausted counter.
func CountPromoExhausted() {
	promoExhaustedTotal.Inc()
}
