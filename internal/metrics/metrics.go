// Package metrics holds the console's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors. Init registers them once at startup.
var Metrics = struct {
	RequestDuration   *prometheus.HistogramVec
	RequestsInFlight  prometheus.Gauge
	VotesForwarded    prometheus.Counter
	SurveySubmissions *prometheus.CounterVec
	SurveySaves       *prometheus.CounterVec
	BackendErrors     prometheus.Counter
}{}

func Init() {
	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint, method and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "console_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.VotesForwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "console_poll_votes_forwarded_total",
			Help: "Poll votes forwarded to the backend.",
		},
	)

	Metrics.SurveySubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_survey_submissions_total",
			Help: "Graded survey attempts, by persistence outcome.",
		},
		[]string{"persisted"},
	)

	Metrics.SurveySaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_survey_saves_total",
			Help: "Survey lifecycle transitions issued with article saves.",
		},
		[]string{"action"},
	)

	Metrics.BackendErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "console_backend_errors_total",
			Help: "Non-2xx responses received from the platform backend.",
		},
	)

	prometheus.MustRegister(
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.VotesForwarded,
		Metrics.SurveySubmissions,
		Metrics.SurveySaves,
		Metrics.BackendErrors,
	)
}

// Middleware records request duration and in-flight count.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		next.ServeHTTP(ww, r)

		Metrics.RequestsInFlight.Dec()
		Metrics.RequestDuration.
			WithLabelValues(sanitizeEndpoint(r.URL.Path), r.Method, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	switch {
	case len(path) > len("/api/polls/") && path[:len("/api/polls/")] == "/api/polls/":
		return "/api/polls/:id"
	case len(path) > len("/api/surveys/article/") && path[:len("/api/surveys/article/")] == "/api/surveys/article/":
		return "/api/surveys/article/:articleId"
	case len(path) > len("/api/surveys/") && path[:len("/api/surveys/")] == "/api/surveys/":
		return "/api/surveys/:id"
	case len(path) > len("/api/articles/") && path[:len("/api/articles/")] == "/api/articles/":
		return "/api/articles/:id"
	default:
		return path
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
