package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "attune",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "attune",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "attune",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Access control metrics
	accessDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "attune",
			Subsystem: "access",
			Name:      "decisions_total",
			Help:      "Access decisions by capability, tier and outcome",
		},
		[]string{"capability", "tier", "outcome"},
	)

	rateWindowEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "attune",
			Subsystem: "access",
			Name:      "rate_window_entries",
			Help:      "Number of live rate limit windows in the in-memory store",
		},
	)

	// AI metrics
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "attune",
			Subsystem: "ai",
			Name:      "requests_total",
			Help:      "AI provider calls by provider, feature and status",
		},
		[]string{"provider", "feature", "status"},
	)

	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "attune",
			Subsystem: "ai",
			Name:      "request_duration_seconds",
			Help:      "AI provider call duration in seconds",
			Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "feature"},
	)
)

// Access decision outcomes
const (
	OutcomeAllowed   = "allowed"
	OutcomeForbidden = "forbidden"
	OutcomeThrottled = "throttled"
	OutcomeDenied    = "unauthenticated"
)

// RecordAccessDecision records the outcome of an access check
func RecordAccessDecision(capability, tier, outcome string) {
	accessDecisionsTotal.WithLabelValues(capability, tier, outcome).Inc()
}

// SetRateWindowEntries updates the live rate-window gauge
func SetRateWindowEntries(n int) {
	rateWindowEntries.Set(float64(n))
}

// RecordAIRequest records an AI provider call
func RecordAIRequest(provider, feature, status string, duration time.Duration) {
	aiRequestsTotal.WithLabelValues(provider, feature, status).Inc()
	aiRequestDuration.WithLabelValues(provider, feature).Observe(duration.Seconds())
}

// Handler returns the Prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts, durations and in-flight gauge for each
// HTTP request. Route patterns are used instead of raw paths to bound label
// cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := strconv.Itoa(sw.status)
		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
