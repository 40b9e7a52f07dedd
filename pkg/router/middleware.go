package router

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// BaseURLKey is the context key under which the base URL of the API is stored.
const BaseURLKey = "warped-base-url"

// BaseURLMiddleware stores the base URL of the API in the context so that
// handlers can build absolute links.
func BaseURLMiddleware(baseURL *url.URL) gin.HandlerFunc {
	u := baseURL.String()

	return func(c *gin.Context) {
		c.Set(BaseURLKey, u)
		c.Next()
	}
}

var (
	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "warped",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests processed, partitioned by status code, method and route.",
		},
		[]string{"code", "method", "route"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "warped",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latencies in seconds, partitioned by status code, method and route.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"code", "method", "route"},
	)

	requestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "warped",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "HTTP requests currently being processed.",
		},
	)
)

var collectors = []prometheus.Collector{requestCount, requestDuration, requestsInFlight}

// registerMetrics registers the collectors with the default registry.
// Nothing stays registered if any of them fails.
func registerMetrics() error {
	for i, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			for _, registered := range collectors[:i] {
				prometheus.Unregister(registered)
			}
			return errors.Join(errors.New("could not register the Prometheus metrics"), err)
		}
	}

	return nil
}

// unregisterMetrics unregisters all collectors and reports whether all of
// them were registered.
func unregisterMetrics() bool {
	ok := true
	for _, c := range collectors {
		ok = prometheus.Unregister(c) && ok
	}

	return ok
}

// route returns the route template of the request, e.g. "/api/transactions/id/:id".
// Using the template keeps the label cardinality independent of the IDs requested.
func route(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "unmatched"
}

// MetricsMiddleware updates the Prometheus metrics for every request.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		start := time.Now()
		c.Next()

		labels := prometheus.Labels{
			"code":   strconv.Itoa(c.Writer.Status()),
			"method": c.Request.Method,
			"route":  route(c),
		}

		requestDuration.With(labels).Observe(time.Since(start).Seconds())
		requestCount.With(labels).Inc()
	}
}
